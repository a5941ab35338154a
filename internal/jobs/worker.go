package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// RegistrationCloser closes registration if closeAt is still current and due
type RegistrationCloser interface {
	CloseRegistrationIfDue(ctx context.Context, closeAt time.Time) (bool, error)
}

// HandleRegistrationClose returns the handler for TypeRegistrationClose tasks
func HandleRegistrationClose(closer RegistrationCloser, logger zerolog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload RegistrationClosePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			logger.Error().Err(err).Msg("Malformed registration close payload")
			return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
		}

		closed, err := closer.CloseRegistrationIfDue(ctx, payload.CloseAt)
		if err != nil {
			return err
		}
		if !closed {
			logger.Info().Time("closeAt", payload.CloseAt).Msg("Registration close task is stale, skipping")
		}
		return nil
	}
}

// NewServeMux registers every task handler
func NewServeMux(closer RegistrationCloser, logger zerolog.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(TypeRegistrationClose, HandleRegistrationClose(closer, logger))
	return mux
}

// Worker processes queued tasks in the background
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewWorker creates a Worker for the given Redis connection
func NewWorker(opt asynq.RedisConnOpt, closer RegistrationCloser, logger zerolog.Logger) *Worker {
	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: 2,
		Logger:      asynqLogger{logger},
	})
	return &Worker{server: server, mux: NewServeMux(closer, logger)}
}

// Start begins processing without blocking
func (w *Worker) Start() error {
	return w.server.Start(w.mux)
}

// Shutdown waits for running tasks and stops the worker
func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

// asynqLogger routes asynq's own logs through zerolog.
type asynqLogger struct {
	l zerolog.Logger
}

func (a asynqLogger) Debug(args ...interface{}) { a.l.Debug().Msg(fmt.Sprint(args...)) }
func (a asynqLogger) Info(args ...interface{})  { a.l.Info().Msg(fmt.Sprint(args...)) }
func (a asynqLogger) Warn(args ...interface{})  { a.l.Warn().Msg(fmt.Sprint(args...)) }
func (a asynqLogger) Error(args ...interface{}) { a.l.Error().Msg(fmt.Sprint(args...)) }
func (a asynqLogger) Fatal(args ...interface{}) { a.l.Fatal().Msg(fmt.Sprint(args...)) }
