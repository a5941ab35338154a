package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/openlab/internal/app/models"
	"github.com/yigit/openlab/internal/db"
	"github.com/yigit/openlab/internal/pkg/apperrors"
	"github.com/yigit/openlab/internal/pkg/dberrors"
	"github.com/yigit/openlab/internal/pkg/logger"
)

const (
	assignmentStudentFK = "assignments_student_id_fkey"
	assignmentLabFK     = "assignments_lab_id_fkey"
	assignmentUpsertSQL = "ON CONFLICT (student_id, session_number) DO UPDATE SET lab_id = EXCLUDED.lab_id, updated_at = NOW() RETURNING id, updated_at"
)

// AssignmentRepository handles session assignment database operations
type AssignmentRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewAssignmentRepository creates a new AssignmentRepository
func NewAssignmentRepository(q db.Querier) *AssignmentRepository {
	return &AssignmentRepository{
		db: q,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// List retrieves every assignment without joins
func (r *AssignmentRepository) List(ctx context.Context) ([]*models.Assignment, error) {
	sql, args, err := r.sb.Select("id", "student_id", "session_number", "lab_id", "updated_at").
		From("assignments").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list assignments SQL")
		return nil, fmt.Errorf("failed to build list assignments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list assignments query")
		return nil, fmt.Errorf("error querying assignments: %w", err)
	}
	defer rows.Close()

	assignments := []*models.Assignment{}
	for rows.Next() {
		a := &models.Assignment{}
		if err := rows.Scan(&a.ID, &a.StudentID, &a.SessionNumber, &a.LabID, &a.UpdatedAt); err != nil {
			logger.Error().Err(err).Msg("Error scanning assignment row")
			return nil, fmt.Errorf("error scanning assignment row: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignment rows: %w", err)
	}

	return assignments, nil
}

// ListDetailed retrieves every assignment with student and lab names,
// ordered by session and then student name
func (r *AssignmentRepository) ListDetailed(ctx context.Context) ([]*models.AssignmentDetail, error) {
	sql, args, err := r.sb.Select(
		"a.id", "a.student_id", "a.session_number", "a.lab_id", "a.updated_at",
		"s.name", "s.phone", "s.affiliation",
		"l.name", "l.professor_name",
	).
		From("assignments a").
		Join("students s ON a.student_id = s.id").
		Join("labs l ON a.lab_id = l.id").
		OrderBy("a.session_number ASC", "s.name ASC", "a.id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list assignment details SQL")
		return nil, fmt.Errorf("failed to build list assignment details query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list assignment details query")
		return nil, fmt.Errorf("error querying assignment details: %w", err)
	}
	defer rows.Close()

	details := []*models.AssignmentDetail{}
	for rows.Next() {
		d := &models.AssignmentDetail{}
		if err := rows.Scan(
			&d.ID, &d.StudentID, &d.SessionNumber, &d.LabID, &d.UpdatedAt,
			&d.StudentName, &d.StudentPhone, &d.Affiliation,
			&d.LabName, &d.ProfessorName,
		); err != nil {
			logger.Error().Err(err).Msg("Error scanning assignment detail row")
			return nil, fmt.Errorf("error scanning assignment detail row: %w", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignment detail rows: %w", err)
	}

	return details, nil
}

// ListForStudent returns the sessions a student holds, in session order
func (r *AssignmentRepository) ListForStudent(ctx context.Context, studentID int64) ([]models.SessionResult, error) {
	sql, args, err := r.sb.Select("a.session_number", "l.name", "l.professor_name", "l.location").
		From("assignments a").
		Join("labs l ON a.lab_id = l.id").
		Where(squirrel.Eq{"a.student_id": studentID}).
		OrderBy("a.session_number ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student sessions query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error executing student sessions query")
		return nil, fmt.Errorf("error querying student sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.SessionResult{}
	for rows.Next() {
		var s models.SessionResult
		if err := rows.Scan(&s.SessionNumber, &s.LabName, &s.ProfessorName, &s.Location); err != nil {
			return nil, fmt.Errorf("error scanning student session row: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student session rows: %w", err)
	}

	return sessions, nil
}

func (r *AssignmentRepository) upsertQuery(a *models.Assignment) (string, []interface{}, error) {
	return r.sb.Insert("assignments").
		Columns("student_id", "session_number", "lab_id", "updated_at").
		Values(a.StudentID, a.SessionNumber, a.LabID, squirrel.Expr("NOW()")).
		Suffix(assignmentUpsertSQL).
		ToSql()
}

// Upsert stores (student, session) -> lab, replacing the lab of an existing
// row for the same student and session. Both the auto-assign run and manual
// edits write through here.
func (r *AssignmentRepository) Upsert(ctx context.Context, a *models.Assignment) error {
	sql, args, err := r.upsertQuery(a)
	if err != nil {
		logger.Error().Err(err).Msg("Error building upsert assignment SQL")
		return fmt.Errorf("failed to build upsert assignment query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&a.ID, &a.UpdatedAt); err != nil {
		switch dberrors.ForeignKeyConstraint(err) {
		case assignmentStudentFK:
			return apperrors.ErrStudentNotFound
		case assignmentLabFK:
			return apperrors.ErrLabNotFound
		}
		logger.Error().Err(err).
			Int64("studentID", a.StudentID).
			Int("session", a.SessionNumber).
			Int64("labID", a.LabID).
			Msg("Error executing upsert assignment query")
		return fmt.Errorf("error upserting assignment: %w", err)
	}

	return nil
}

// Delete removes one assignment by id
func (r *AssignmentRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("assignments").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete assignment SQL")
		return fmt.Errorf("failed to build delete assignment query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("assignmentID", id).Msg("Error executing delete assignment query")
		return fmt.Errorf("error deleting assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAssignmentNotFound
	}

	return nil
}

// DeleteAll removes every assignment and returns how many were removed
func (r *AssignmentRepository) DeleteAll(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Delete("assignments").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete assignments query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error deleting all assignments")
		return 0, fmt.Errorf("error deleting assignments: %w", err)
	}
	return tag.RowsAffected(), nil
}
