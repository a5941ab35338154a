package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/openlab/internal/db"
	"github.com/yigit/openlab/internal/pkg/logger"
)

// SettingRepository handles the key/value settings table
type SettingRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewSettingRepository creates a new SettingRepository
func NewSettingRepository(q db.Querier) *SettingRepository {
	return &SettingRepository{
		db: q,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetAll returns every stored setting
func (r *SettingRepository) GetAll(ctx context.Context) (map[string]string, error) {
	sql, args, err := r.sb.Select("key", "value").From("settings").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get settings query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get settings query")
		return nil, fmt.Errorf("error querying settings: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("error scanning setting row: %w", err)
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating setting rows: %w", err)
	}

	return values, nil
}

// Set stores value under key, replacing any previous value
func (r *SettingRepository) Set(ctx context.Context, key, value string) error {
	sql, args, err := r.sb.Insert("settings").
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set setting query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Error executing set setting query")
		return fmt.Errorf("error saving setting %s: %w", key, err)
	}
	return nil
}
