package automation

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dropDatabas3/autolink/internal/observability/logger"
	"github.com/dropDatabas3/autolink/internal/store"
)

// Trigger is the subset of Proxy the agent needs.
type Trigger interface {
	Trigger(ctx context.Context, payload json.RawMessage) error
}

// Payload is what the automation scenario receives when an agent starts.
type Payload struct {
	UserID        string   `json:"user_id"`
	Email         string   `json:"email"`
	Role          string   `json:"role"`
	Skills        []string `json:"skills"`
	Topics        []string `json:"topics"`
	LinkedInURL   string   `json:"linkedin_url,omitempty"`
	LinkedInToken string   `json:"linkedin_token,omitempty"`
	Status        string   `json:"status"`
	Timestamp     string   `json:"timestamp"`
}

// Status values reported by Agent.Status.
const (
	AgentRunning = "running"
	AgentPaused  = "paused"
	AgentIdle    = "idle"
)

// AgentStatus is the server-side view of the agent; the stored profile is
// the only source of truth.
type AgentStatus struct {
	Status    string     `json:"status"`
	LastRun   *time.Time `json:"last_run"`
	Connected bool       `json:"connected"`
}

const defaultRole = "Professional"

// Agent starts and stops the posting automation for a user.
type Agent struct {
	profiles store.ProfileRepository
	trigger  Trigger
	clock    func() time.Time
}

func NewAgent(profiles store.ProfileRepository, trigger Trigger, clock func() time.Time) *Agent {
	if clock == nil {
		clock = time.Now
	}
	return &Agent{profiles: profiles, trigger: trigger, clock: clock}
}

// Start sends the profile snapshot to the automation and, once it was
// dispatched, marks the agent active. A missing profile is not an error: the
// payload carries defaults. A failed dispatch leaves the stored status as is.
func (a *Agent) Start(ctx context.Context, userID string) error {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("automation.agent"), logger.UserID(userID))

	p, err := a.profiles.GetProfile(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		p = &store.Profile{UserID: userID}
	} else if err != nil {
		return err
	}

	now := a.clock().UTC()
	payload := Payload{
		UserID:        userID,
		Email:         p.Email,
		Role:          p.Role,
		Skills:        nonNil(p.Skills),
		Topics:        nonNil(p.Topics),
		LinkedInURL:   p.LinkedInProfileURL,
		LinkedInToken: p.LinkedInToken,
		Status:        store.StatusActive,
		Timestamp:     now.Format(time.RFC3339),
	}
	if payload.Role == "" {
		payload.Role = defaultRole
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if err := a.trigger.Trigger(ctx, b); err != nil {
		log.Warn("agent not started", logger.Err(err))
		return err
	}
	if err := a.profiles.SetAgentStatus(ctx, userID, store.StatusActive, &now); err != nil {
		return err
	}
	log.Info("agent started", logger.Bool("linkedin_connected", p.LinkedInConnected))
	return nil
}

func (a *Agent) Stop(ctx context.Context, userID string) error {
	if err := a.profiles.SetAgentStatus(ctx, userID, store.StatusPaused, nil); err != nil {
		return err
	}
	logger.From(ctx).Info("agent stopped", logger.Component("automation.agent"), logger.UserID(userID))
	return nil
}

func (a *Agent) Status(ctx context.Context, userID string) (*AgentStatus, error) {
	p, err := a.profiles.GetProfile(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return &AgentStatus{Status: AgentIdle}, nil
	}
	if err != nil {
		return nil, err
	}

	st := &AgentStatus{LastRun: p.LastAgentRun, Connected: p.LinkedInConnected}
	switch p.Status {
	case store.StatusActive:
		st.Status = AgentRunning
	case store.StatusPaused:
		st.Status = AgentPaused
	default:
		st.Status = AgentIdle
	}
	return st, nil
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
