// Package memory is an in-process store for development and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dropDatabas3/autolink/internal/store"
)

type Store struct {
	mu       sync.RWMutex
	profiles map[string]store.Profile
	now      func() time.Time
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{profiles: map[string]store.Profile{}, now: time.Now}
}

// Seed inserts or replaces a profile.
func (s *Store) Seed(p store.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = clone(p)
}

// Len returns the number of stored profiles.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

func (s *Store) UpsertCredential(ctx context.Context, c store.Credential) error {
	c.Connected = true
	if err := c.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return store.Wrap("upsert_credential", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.profiles[c.UserID]
	p.UserID = c.UserID
	p.LinkedInToken = c.AccessToken
	p.LinkedInProfileID = c.ExternalProfileID
	p.LinkedInConnected = true
	exp := c.TokenExpiresAt
	p.TokenExpiresAt = &exp
	p.UpdatedAt = s.now()
	s.profiles[c.UserID] = p
	return nil
}

func (s *Store) Disconnect(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return store.Wrap("disconnect", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil
	}
	p.LinkedInToken = ""
	p.LinkedInConnected = false
	p.TokenExpiresAt = nil
	p.UpdatedAt = s.now()
	s.profiles[userID] = p
	return nil
}

func (s *Store) GetProfile(ctx context.Context, userID string) (*store.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.Wrap("get_profile", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := clone(p)
	return &out, nil
}

func (s *Store) SetAgentStatus(ctx context.Context, userID, status string, lastRun *time.Time) error {
	if err := ctx.Err(); err != nil {
		return store.Wrap("set_agent_status", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.profiles[userID]
	p.UserID = userID
	p.Status = status
	if lastRun != nil {
		t := *lastRun
		p.LastAgentRun = &t
	}
	p.UpdatedAt = s.now()
	s.profiles[userID] = p
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close()                     {}

func clone(p store.Profile) store.Profile {
	p.Skills = append([]string(nil), p.Skills...)
	p.Topics = append([]string(nil), p.Topics...)
	if p.TokenExpiresAt != nil {
		t := *p.TokenExpiresAt
		p.TokenExpiresAt = &t
	}
	if p.LastAgentRun != nil {
		t := *p.LastAgentRun
		p.LastAgentRun = &t
	}
	return p
}
