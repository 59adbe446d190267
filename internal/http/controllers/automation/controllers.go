// Package automation contains the controllers for the posting agent and the
// Make.com integration.
package automation

import (
	"context"
	"encoding/json"

	svc "github.com/dropDatabas3/autolink/internal/http/services/automation"
)

type Triggerer interface {
	Trigger(ctx context.Context, payload json.RawMessage) error
}

type AgentService interface {
	Start(ctx context.Context, userID string) error
	Stop(ctx context.Context, userID string) error
	Status(ctx context.Context, userID string) (*svc.AgentStatus, error)
}

type ScheduleSyncer interface {
	Sync(ctx context.Context, entries []svc.ScheduleEntry) error
}

type Deps struct {
	Proxy     Triggerer
	Agent     AgentService
	Scheduler ScheduleSyncer
}

// Controllers agrupa los controllers del dominio automation.
type Controllers struct {
	Trigger  *TriggerController
	Agent    *AgentController
	Schedule *ScheduleController
}

func NewControllers(d Deps) *Controllers {
	return &Controllers{
		Trigger:  NewTriggerController(d.Proxy),
		Agent:    NewAgentController(d.Agent),
		Schedule: NewScheduleController(d.Scheduler),
	}
}
