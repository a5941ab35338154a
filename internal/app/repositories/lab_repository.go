package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/openlab/internal/app/models"
	"github.com/yigit/openlab/internal/db"
	"github.com/yigit/openlab/internal/pkg/apperrors"
	"github.com/yigit/openlab/internal/pkg/logger"
)

var labColumns = []string{"id", "name", "professor_name", "capacity", "description", "location", "created_at"}

// LabRepository handles lab database operations
type LabRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewLabRepository creates a new LabRepository
func NewLabRepository(q db.Querier) *LabRepository {
	return &LabRepository{
		db: q,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanLab(row pgx.Row) (*models.Lab, error) {
	lab := &models.Lab{}
	err := row.Scan(&lab.ID, &lab.Name, &lab.ProfessorName, &lab.Capacity, &lab.Description, &lab.Location, &lab.CreatedAt)
	return lab, err
}

// List retrieves all labs ordered by id
func (r *LabRepository) List(ctx context.Context) ([]*models.Lab, error) {
	sql, args, err := r.sb.Select(labColumns...).
		From("labs").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list labs SQL")
		return nil, fmt.Errorf("failed to build list labs query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list labs query")
		return nil, fmt.Errorf("error querying labs: %w", err)
	}
	defer rows.Close()

	labs := []*models.Lab{}
	for rows.Next() {
		lab, err := scanLab(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning lab row")
			return nil, fmt.Errorf("error scanning lab row: %w", err)
		}
		labs = append(labs, lab)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating lab rows")
		return nil, fmt.Errorf("error iterating lab rows: %w", err)
	}

	return labs, nil
}

// GetByID retrieves a lab by ID
func (r *LabRepository) GetByID(ctx context.Context, id int64) (*models.Lab, error) {
	sql, args, err := r.sb.Select(labColumns...).
		From("labs").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get lab by ID SQL")
		return nil, fmt.Errorf("failed to build get lab query: %w", err)
	}

	lab, err := scanLab(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLabNotFound
		}
		logger.Error().Err(err).Int64("labID", id).Msg("Error scanning lab row")
		return nil, fmt.Errorf("error getting lab by ID: %w", err)
	}

	return lab, nil
}

// Create inserts a lab and fills in its ID and creation time
func (r *LabRepository) Create(ctx context.Context, lab *models.Lab) error {
	sql, args, err := r.sb.Insert("labs").
		Columns("name", "professor_name", "capacity", "description", "location").
		Values(lab.Name, lab.ProfessorName, lab.Capacity, lab.Description, lab.Location).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create lab SQL")
		return fmt.Errorf("failed to build create lab query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&lab.ID, &lab.CreatedAt); err != nil {
		logger.Error().Err(err).Str("name", lab.Name).Msg("Error executing create lab query")
		return fmt.Errorf("error creating lab: %w", err)
	}

	return nil
}

// Update overwrites the editable fields of a lab
func (r *LabRepository) Update(ctx context.Context, lab *models.Lab) error {
	sql, args, err := r.sb.Update("labs").
		SetMap(map[string]interface{}{
			"name":           lab.Name,
			"professor_name": lab.ProfessorName,
			"capacity":       lab.Capacity,
			"description":    lab.Description,
			"location":       lab.Location,
		}).
		Where(squirrel.Eq{"id": lab.ID}).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update lab SQL")
		return fmt.Errorf("failed to build update lab query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&lab.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrLabNotFound
		}
		logger.Error().Err(err).Int64("labID", lab.ID).Msg("Error executing update lab query")
		return fmt.Errorf("error updating lab: %w", err)
	}

	return nil
}

// Delete removes a lab. Its assignments go with it and preferences
// pointing at it become NULL.
func (r *LabRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("labs").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete lab SQL")
		return fmt.Errorf("failed to build delete lab query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("labID", id).Msg("Error executing delete lab query")
		return fmt.Errorf("error deleting lab: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrLabNotFound
	}

	return nil
}

// Count returns the number of labs
func (r *LabRepository) Count(ctx context.Context) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("labs").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count labs query: %w", err)
	}

	var n int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		logger.Error().Err(err).Msg("Error counting labs")
		return 0, fmt.Errorf("error counting labs: %w", err)
	}
	return n, nil
}
