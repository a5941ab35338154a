package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/openlab/internal/app/models"
	"github.com/yigit/openlab/internal/app/repositories"
	"github.com/yigit/openlab/internal/pkg/apperrors"
	"github.com/yigit/openlab/internal/pkg/helpers"
)

// CloseScheduler arranges for CloseRegistrationIfDue to run at closeAt
type CloseScheduler interface {
	ScheduleRegistrationClose(ctx context.Context, closeAt time.Time) error
}

// SettingsService defines the interface for settings operations
type SettingsService interface {
	GetSettings(ctx context.Context) (*models.Settings, error)
	UpdateSettings(ctx context.Context, update models.SettingsUpdate) (*models.Settings, error)
	RegistrationOpen(ctx context.Context) (bool, error)
	ResultsPublished(ctx context.Context) (bool, error)
	CloseRegistrationIfDue(ctx context.Context, closeAt time.Time) (bool, error)
}

type settingsServiceImpl struct {
	store     repositories.Transactor
	scheduler CloseScheduler
	logger    zerolog.Logger
	now       func() time.Time
}

// NewSettingsService creates a new settings service. scheduler may be nil,
// in which case a passed close time is only noticed on the next read.
func NewSettingsService(store repositories.Transactor, scheduler CloseScheduler, logger zerolog.Logger) SettingsService {
	return &settingsServiceImpl{
		store:     store,
		scheduler: scheduler,
		logger:    logger,
		now:       time.Now,
	}
}

func parseSettings(values map[string]string) (*models.Settings, error) {
	st := &models.Settings{RegistrationOpen: true}

	if v, ok := values[models.SettingRegistrationOpen]; ok {
		st.RegistrationOpen = v == "true"
	}
	if v, ok := values[models.SettingResultsPublished]; ok {
		st.ResultsPublished = v == "true"
	}

	closeAt, err := helpers.ParseOptionalTime(values[models.SettingRegistrationCloseAt])
	if err != nil {
		return nil, fmt.Errorf("stored %s is invalid: %w", models.SettingRegistrationCloseAt, err)
	}
	st.RegistrationCloseAt = closeAt

	return st, nil
}

// load reads the settings and closes registration when the close time has passed.
func (s *settingsServiceImpl) load(ctx context.Context, tx repositories.Tx) (*models.Settings, error) {
	values, err := tx.Settings().GetAll(ctx)
	if err != nil {
		return nil, err
	}
	st, err := parseSettings(values)
	if err != nil {
		return nil, err
	}

	if st.RegistrationOpen && st.RegistrationCloseAt != nil && !s.now().Before(*st.RegistrationCloseAt) {
		if err := tx.Settings().Set(ctx, models.SettingRegistrationOpen, "false"); err != nil {
			return nil, err
		}
		st.RegistrationOpen = false
		s.logger.Info().Time("closeAt", *st.RegistrationCloseAt).Msg("Registration closed automatically")
	}
	return st, nil
}

// GetSettings returns the current settings
func (s *settingsServiceImpl) GetSettings(ctx context.Context) (*models.Settings, error) {
	var st *models.Settings
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx repositories.Tx) error {
		var err error
		st, err = s.load(ctx, tx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return st, nil
}

// UpdateSettings applies a partial update. Opening registration clears the
// close time; setting a close time opens registration.
func (s *settingsServiceImpl) UpdateSettings(ctx context.Context, update models.SettingsUpdate) (*models.Settings, error) {
	var closeAt *time.Time
	if update.RegistrationCloseAt != nil {
		parsed, err := helpers.ParseOptionalTime(*update.RegistrationCloseAt)
		if err != nil {
			return nil, apperrors.NewValidationError("registrationCloseAt must be an RFC3339 time")
		}
		if parsed != nil {
			t := parsed.Truncate(time.Second)
			closeAt = &t
		}
	}

	var st *models.Settings
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx repositories.Tx) error {
		set := tx.Settings().Set

		if update.RegistrationOpen != nil {
			if err := set(ctx, models.SettingRegistrationOpen, strconv.FormatBool(*update.RegistrationOpen)); err != nil {
				return err
			}
			if *update.RegistrationOpen {
				if err := set(ctx, models.SettingRegistrationCloseAt, ""); err != nil {
					return err
				}
			}
		}
		if update.RegistrationCloseAt != nil {
			if err := set(ctx, models.SettingRegistrationCloseAt, helpers.FormatOptionalTime(closeAt)); err != nil {
				return err
			}
			if closeAt != nil {
				if err := set(ctx, models.SettingRegistrationOpen, "true"); err != nil {
					return err
				}
			}
		}
		if update.ResultsPublished != nil {
			if err := set(ctx, models.SettingResultsPublished, strconv.FormatBool(*update.ResultsPublished)); err != nil {
				return err
			}
		}

		var err error
		st, err = s.load(ctx, tx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}

	if closeAt != nil && s.scheduler != nil && st.RegistrationOpen {
		if err := s.scheduler.ScheduleRegistrationClose(ctx, *closeAt); err != nil {
			s.logger.Warn().Err(err).Time("closeAt", *closeAt).Msg("Failed to schedule registration close")
		}
	}

	return st, nil
}

func (s *settingsServiceImpl) RegistrationOpen(ctx context.Context) (bool, error) {
	st, err := s.GetSettings(ctx)
	if err != nil {
		return false, err
	}
	return st.RegistrationOpen, nil
}

func (s *settingsServiceImpl) ResultsPublished(ctx context.Context) (bool, error) {
	st, err := s.GetSettings(ctx)
	if err != nil {
		return false, err
	}
	return st.ResultsPublished, nil
}

// CloseRegistrationIfDue closes registration when closeAt is still the stored
// close time and it has passed. A task left over from a close time that was
// since changed or cleared does nothing.
func (s *settingsServiceImpl) CloseRegistrationIfDue(ctx context.Context, closeAt time.Time) (bool, error) {
	closeAt = closeAt.Truncate(time.Second)
	closed := false
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx repositories.Tx) error {
		values, err := tx.Settings().GetAll(ctx)
		if err != nil {
			return err
		}
		st, err := parseSettings(values)
		if err != nil {
			return err
		}

		if st.RegistrationCloseAt == nil || !st.RegistrationCloseAt.Equal(closeAt) {
			return nil
		}
		if !st.RegistrationOpen || s.now().Before(closeAt) {
			return nil
		}

		if err := tx.Settings().Set(ctx, models.SettingRegistrationOpen, "false"); err != nil {
			return err
		}
		closed = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to close registration: %w", err)
	}

	if closed {
		s.logger.Info().Time("closeAt", closeAt).Msg("Registration closed by scheduled task")
	}
	return closed, nil
}
