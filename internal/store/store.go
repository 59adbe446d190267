// Package store defines the profile record the relay writes to and the
// persistence contract its backends (pg, supabase, memory) implement.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Agent status values stored on the profile.
const (
	StatusActive = "active"
	StatusPaused = "paused"
)

// Credential is the LinkedIn part of a profile, written by the connect flow.
type Credential struct {
	UserID            string
	AccessToken       string
	ExternalProfileID string
	Connected         bool
	TokenExpiresAt    time.Time
}

// Validate enforces that a connected credential carries a token and a profile id.
func (c Credential) Validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidCredential)
	}
	if c.Connected && (c.AccessToken == "" || c.ExternalProfileID == "") {
		return fmt.Errorf("%w: connected requires access token and profile id", ErrInvalidCredential)
	}
	return nil
}

// Profile is the subset of the user's profile record the relay reads.
type Profile struct {
	UserID             string
	Email              string
	Role               string
	Skills             []string
	Topics             []string
	LinkedInProfileURL string

	LinkedInToken     string
	LinkedInProfileID string
	LinkedInConnected bool
	TokenExpiresAt    *time.Time

	Status       string
	LastAgentRun *time.Time
	UpdatedAt    time.Time
}

// Credential projects the LinkedIn fields of the profile.
func (p *Profile) Credential() Credential {
	c := Credential{
		UserID:            p.UserID,
		AccessToken:       p.LinkedInToken,
		ExternalProfileID: p.LinkedInProfileID,
		Connected:         p.LinkedInConnected,
	}
	if p.TokenExpiresAt != nil {
		c.TokenExpiresAt = *p.TokenExpiresAt
	}
	return c
}

// CredentialGateway persists LinkedIn credentials keyed by internal user id.
// UpsertCredential is idempotent and all-or-nothing.
type CredentialGateway interface {
	UpsertCredential(ctx context.Context, c Credential) error
	Disconnect(ctx context.Context, userID string) error
}

// ProfileRepository is what the agent lifecycle needs from the profile record.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	// SetAgentStatus updates status and, when lastRun is non-nil, last_agent_run.
	SetAgentStatus(ctx context.Context, userID, status string, lastRun *time.Time) error
}

// Store is implemented by every backend.
type Store interface {
	CredentialGateway
	ProfileRepository
	Ping(ctx context.Context) error
	Close()
}

var (
	ErrNotFound          = errors.New("store: not found")
	ErrInvalidCredential = errors.New("store: invalid credential")
)

// PersistenceError wraps any backend failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return "store: " + e.Op + ": " + e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }

// Wrap returns nil for nil errors and leaves sentinel errors of this package
// visible through errors.Is.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// JoinList and SplitList map skills/topics to the ", "-joined text columns.
func JoinList(v []string) string { return strings.Join(v, ", ") }

func SplitList(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
