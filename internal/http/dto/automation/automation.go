// Package automation contiene DTOs de los endpoints del agente y Make.com.
package automation

import (
	"encoding/json"
	"time"
)

// TriggerRequest is the body of POST /api/trigger-make.
type TriggerRequest struct {
	Payload json.RawMessage `json:"payload"`
}

// ScheduleEntry is one posting slot.
type ScheduleEntry struct {
	Day  string `json:"day"`
	Time string `json:"time"`
}

// ScheduleRequest is the body of POST /api/save-schedule.
type ScheduleRequest struct {
	Schedule []ScheduleEntry `json:"schedule"`
}

// AgentStatusResponse uses the field names of the web client.
type AgentStatusResponse struct {
	Status      string     `json:"status"` // "running" | "paused" | "idle"
	LastRun     *time.Time `json:"lastRun"`
	Connected   bool       `json:"linkedInConnected"`
	HealthScore int        `json:"healthScore"`
}

// SuccessResponse is {"success": true}.
type SuccessResponse struct {
	Success bool `json:"success"`
}
