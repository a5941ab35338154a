package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/openlab/internal/app/models"
	"github.com/yigit/openlab/internal/pkg/apperrors"
)

type fakeScheduler struct {
	scheduled []time.Time
	err       error
}

func (f *fakeScheduler) ScheduleRegistrationClose(_ context.Context, closeAt time.Time) error {
	f.scheduled = append(f.scheduled, closeAt)
	return f.err
}

var fixedNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newSettingsService(store *memStore, scheduler CloseScheduler) *settingsServiceImpl {
	svc := NewSettingsService(store, scheduler, zerolog.Nop()).(*settingsServiceImpl)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func boolPtr(b bool) *bool           { return &b }
func strPtr(s string) *string        { return &s }
func timePtr(t time.Time) *time.Time { return &t }

func TestSettingsService_GetSettings(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults when nothing is stored", func(t *testing.T) {
		st, err := newSettingsService(newMemStore(), nil).GetSettings(ctx)

		require.NoError(t, err)
		assert.Equal(t, &models.Settings{RegistrationOpen: true}, st)
	})

	t.Run("a passed close time closes registration", func(t *testing.T) {
		store := newMemStore()
		store.settings[models.SettingRegistrationOpen] = "true"
		store.settings[models.SettingRegistrationCloseAt] = "2026-03-02T08:59:59Z"

		st, err := newSettingsService(store, nil).GetSettings(ctx)

		require.NoError(t, err)
		assert.False(t, st.RegistrationOpen)
		assert.Equal(t, "false", store.settings[models.SettingRegistrationOpen])
	})

	t.Run("a future close time keeps registration open", func(t *testing.T) {
		store := newMemStore()
		store.settings[models.SettingRegistrationCloseAt] = "2026-03-02T10:00:00Z"

		st, err := newSettingsService(store, nil).GetSettings(ctx)

		require.NoError(t, err)
		assert.True(t, st.RegistrationOpen)
		assert.Equal(t, timePtr(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)), st.RegistrationCloseAt)
	})
}

func TestSettingsService_UpdateSettings(t *testing.T) {
	ctx := context.Background()

	t.Run("opening clears the close time", func(t *testing.T) {
		store := newMemStore()
		store.settings[models.SettingRegistrationOpen] = "false"
		store.settings[models.SettingRegistrationCloseAt] = "2026-03-01T00:00:00Z"

		st, err := newSettingsService(store, nil).UpdateSettings(ctx, models.SettingsUpdate{RegistrationOpen: boolPtr(true)})

		require.NoError(t, err)
		assert.True(t, st.RegistrationOpen)
		assert.Nil(t, st.RegistrationCloseAt)
		assert.Equal(t, "", store.settings[models.SettingRegistrationCloseAt])
	})

	t.Run("closing keeps the close time", func(t *testing.T) {
		store := newMemStore()
		store.settings[models.SettingRegistrationCloseAt] = "2026-03-03T00:00:00Z"

		st, err := newSettingsService(store, nil).UpdateSettings(ctx, models.SettingsUpdate{RegistrationOpen: boolPtr(false)})

		require.NoError(t, err)
		assert.False(t, st.RegistrationOpen)
		assert.NotNil(t, st.RegistrationCloseAt)
	})

	t.Run("a close time opens registration and is scheduled", func(t *testing.T) {
		store := newMemStore()
		store.settings[models.SettingRegistrationOpen] = "false"
		scheduler := &fakeScheduler{}

		st, err := newSettingsService(store, scheduler).UpdateSettings(ctx, models.SettingsUpdate{
			RegistrationCloseAt: strPtr("2026-03-02T18:30:00+09:00"),
		})

		require.NoError(t, err)
		want := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
		assert.True(t, st.RegistrationOpen)
		assert.True(t, want.Equal(*st.RegistrationCloseAt))
		assert.Equal(t, "2026-03-02T09:30:00Z", store.settings[models.SettingRegistrationCloseAt])
		require.Len(t, scheduler.scheduled, 1)
		assert.True(t, want.Equal(scheduler.scheduled[0]))
	})

	t.Run("a close time in the past closes at once and is not scheduled", func(t *testing.T) {
		scheduler := &fakeScheduler{}

		st, err := newSettingsService(newMemStore(), scheduler).UpdateSettings(ctx, models.SettingsUpdate{
			RegistrationCloseAt: strPtr("2026-03-01T00:00:00Z"),
		})

		require.NoError(t, err)
		assert.False(t, st.RegistrationOpen)
		assert.Empty(t, scheduler.scheduled)
	})

	t.Run("scheduling failures do not fail the update", func(t *testing.T) {
		scheduler := &fakeScheduler{err: errors.New("redis down")}

		st, err := newSettingsService(newMemStore(), scheduler).UpdateSettings(ctx, models.SettingsUpdate{
			RegistrationCloseAt: strPtr("2026-03-05T00:00:00Z"),
		})

		require.NoError(t, err)
		assert.True(t, st.RegistrationOpen)
	})

	t.Run("an empty close time clears it", func(t *testing.T) {
		store := newMemStore()
		store.settings[models.SettingRegistrationCloseAt] = "2026-03-05T00:00:00Z"
		scheduler := &fakeScheduler{}

		st, err := newSettingsService(store, scheduler).UpdateSettings(ctx, models.SettingsUpdate{RegistrationCloseAt: strPtr("")})

		require.NoError(t, err)
		assert.Nil(t, st.RegistrationCloseAt)
		assert.Empty(t, scheduler.scheduled)
	})

	t.Run("rejects malformed close times", func(t *testing.T) {
		store := newMemStore()

		_, err := newSettingsService(store, nil).UpdateSettings(ctx, models.SettingsUpdate{RegistrationCloseAt: strPtr("tomorrow")})

		require.ErrorIs(t, err, apperrors.ErrValidationFailed)
		assert.Empty(t, store.settings)
	})

	t.Run("publishes results", func(t *testing.T) {
		store := newMemStore()

		st, err := newSettingsService(store, nil).UpdateSettings(ctx, models.SettingsUpdate{ResultsPublished: boolPtr(true)})

		require.NoError(t, err)
		assert.True(t, st.ResultsPublished)
		assert.Equal(t, "true", store.settings[models.SettingResultsPublished])
	})
}

func TestSettingsService_CloseRegistrationIfDue(t *testing.T) {
	ctx := context.Background()
	due := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		stored     string
		open       string
		closeAt    time.Time
		wantClosed bool
	}{
		{"due and current", "2026-03-02T08:00:00Z", "true", due, true},
		{"same instant in another zone", "2026-03-02T08:00:00Z", "true", due.In(time.FixedZone("KST", 9*3600)), true},
		{"close time changed since", "2026-03-02T12:00:00Z", "true", due, false},
		{"close time cleared", "", "true", due, false},
		{"already closed", "2026-03-02T08:00:00Z", "false", due, false},
		{"not yet due", "2026-03-02T10:00:00Z", "true", due.Add(2 * time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			store.settings[models.SettingRegistrationCloseAt] = tt.stored
			store.settings[models.SettingRegistrationOpen] = tt.open

			closed, err := newSettingsService(store, nil).CloseRegistrationIfDue(ctx, tt.closeAt)

			require.NoError(t, err)
			assert.Equal(t, tt.wantClosed, closed)
			if tt.wantClosed {
				assert.Equal(t, "false", store.settings[models.SettingRegistrationOpen])
			} else {
				assert.Equal(t, tt.open, store.settings[models.SettingRegistrationOpen])
			}
		})
	}
}
