package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/openlab/internal/app/models"
)

type labStore struct {
	labs      []*models.Lab
	countErr  error
	failNamed string
}

func (s *labStore) List(ctx context.Context) ([]*models.Lab, error) { return s.labs, nil }

func (s *labStore) GetByID(ctx context.Context, id int64) (*models.Lab, error) { return nil, nil }

func (s *labStore) Create(ctx context.Context, lab *models.Lab) error {
	if lab.Name == s.failNamed {
		return errors.New("insert failed")
	}
	lab.ID = int64(len(s.labs) + 1)
	s.labs = append(s.labs, lab)
	return nil
}

func (s *labStore) Update(ctx context.Context, lab *models.Lab) error { return nil }

func (s *labStore) Delete(ctx context.Context, id int64) error { return nil }

func (s *labStore) Count(ctx context.Context) (int, error) { return len(s.labs), s.countErr }

func TestCreateDefaultData(t *testing.T) {
	ctx := context.Background()

	t.Run("empty table", func(t *testing.T) {
		store := &labStore{}
		created, err := CreateDefaultData(ctx, store, zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, len(DefaultLabs), created)
		require.Len(t, store.labs, len(DefaultLabs))
		for _, l := range store.labs {
			assert.GreaterOrEqual(t, l.Capacity, 1)
		}
	})

	t.Run("second run is a no-op", func(t *testing.T) {
		store := &labStore{}
		_, err := CreateDefaultData(ctx, store, zerolog.Nop())
		require.NoError(t, err)
		created, err := CreateDefaultData(ctx, store, zerolog.Nop())
		require.NoError(t, err)
		assert.Zero(t, created)
		assert.Len(t, store.labs, len(DefaultLabs))
	})

	t.Run("partial failure", func(t *testing.T) {
		store := &labStore{failNamed: DefaultLabs[1].Name}
		created, err := CreateDefaultData(ctx, store, zerolog.Nop())
		assert.Error(t, err)
		assert.Equal(t, len(DefaultLabs)-1, created)
	})

	t.Run("count failure", func(t *testing.T) {
		store := &labStore{countErr: errors.New("no table")}
		_, err := CreateDefaultData(ctx, store, zerolog.Nop())
		assert.Error(t, err)
		assert.Empty(t, store.labs)
	})

	t.Run("defaults untouched", func(t *testing.T) {
		assert.Zero(t, DefaultLabs[0].ID)
	})
}
