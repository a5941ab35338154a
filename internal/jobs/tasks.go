// Package jobs runs deferred work on the asynq queue.
package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// TypeRegistrationClose closes registration at a scheduled time.
const TypeRegistrationClose = "registration:close"

// RegistrationClosePayload names the close time the task was scheduled for.
type RegistrationClosePayload struct {
	CloseAt time.Time `json:"close_at"`
}

// NewRegistrationCloseTask builds the task for closeAt
func NewRegistrationCloseTask(closeAt time.Time) (*asynq.Task, error) {
	payload, err := json.Marshal(RegistrationClosePayload{CloseAt: closeAt.UTC()})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRegistrationClose, payload), nil
}

// registrationCloseTaskID is stable per close time, so scheduling the same
// time twice enqueues one task.
func registrationCloseTaskID(closeAt time.Time) string {
	return TypeRegistrationClose + ":" + closeAt.UTC().Format(time.RFC3339)
}
