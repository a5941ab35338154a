package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Enqueuer is the part of *asynq.Client the scheduler uses
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Scheduler enqueues registration close tasks
type Scheduler struct {
	client Enqueuer
	logger zerolog.Logger
}

// NewScheduler creates a Scheduler on top of an asynq client
func NewScheduler(client Enqueuer, logger zerolog.Logger) *Scheduler {
	return &Scheduler{client: client, logger: logger}
}

// ScheduleRegistrationClose enqueues a close task to run at closeAt. A task
// already queued for the same time is left in place.
func (s *Scheduler) ScheduleRegistrationClose(ctx context.Context, closeAt time.Time) error {
	task, err := NewRegistrationCloseTask(closeAt)
	if err != nil {
		return fmt.Errorf("failed to create %s task: %w", TypeRegistrationClose, err)
	}

	id := registrationCloseTaskID(closeAt)
	info, err := s.client.EnqueueContext(ctx, task,
		asynq.ProcessAt(closeAt),
		asynq.TaskID(id),
		asynq.MaxRetry(5),
	)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			s.logger.Debug().Str("taskID", id).Msg("Registration close already scheduled")
			return nil
		}
		return fmt.Errorf("failed to enqueue %s task: %w", TypeRegistrationClose, err)
	}

	s.logger.Info().Str("taskID", info.ID).Time("runAt", closeAt).Msg("Registration close scheduled")
	return nil
}
