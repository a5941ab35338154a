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
	"github.com/yigit/openlab/internal/pkg/dberrors"
	"github.com/yigit/openlab/internal/pkg/helpers"
	"github.com/yigit/openlab/internal/pkg/logger"
)

const studentPhoneConstraint = "students_phone_key"

// StudentRepository handles applicant database operations
type StudentRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(q db.Querier) *StudentRepository {
	return &StudentRepository{
		db: q,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// selectStudents joins each preference to its lab so names come back in one query.
func (r *StudentRepository) selectStudents() squirrel.SelectBuilder {
	return r.sb.Select(
		"s.id", "s.name", "s.phone", "s.email", "s.affiliation",
		"s.choice1_lab_id", "s.choice2_lab_id", "s.choice3_lab_id", "s.created_at",
		"l1.name", "l1.professor_name",
		"l2.name", "l2.professor_name",
		"l3.name", "l3.professor_name",
	).
		From("students s").
		LeftJoin("labs l1 ON s.choice1_lab_id = l1.id").
		LeftJoin("labs l2 ON s.choice2_lab_id = l2.id").
		LeftJoin("labs l3 ON s.choice3_lab_id = l3.id")
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	s := &models.Student{}
	var names, professors [3]*string
	err := row.Scan(
		&s.ID, &s.Name, &s.Phone, &s.Email, &s.Affiliation,
		&s.Choice1LabID, &s.Choice2LabID, &s.Choice3LabID, &s.CreatedAt,
		&names[0], &professors[0],
		&names[1], &professors[1],
		&names[2], &professors[2],
	)
	if err != nil {
		return nil, err
	}

	for i, id := range []*int64{s.Choice1LabID, s.Choice2LabID, s.Choice3LabID} {
		if id == nil || names[i] == nil {
			continue
		}
		ref := models.ChoiceRef{Rank: i + 1, LabID: *id, LabName: *names[i]}
		if professors[i] != nil {
			ref.ProfessorName = *professors[i]
		}
		s.Choices = append(s.Choices, ref)
	}
	return s, nil
}

func (r *StudentRepository) queryStudents(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Student, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list students SQL")
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning student row")
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating student rows")
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, nil
}

// List retrieves every applicant, newest first
func (r *StudentRepository) List(ctx context.Context) ([]*models.Student, error) {
	return r.queryStudents(ctx, r.selectStudents().OrderBy("s.created_at DESC", "s.id DESC"))
}

func (r *StudentRepository) getOne(ctx context.Context, q squirrel.SelectBuilder) (*models.Student, error) {
	sql, args, err := q.Limit(1).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	s, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student: %w", err)
	}
	return s, nil
}

// GetByID retrieves an applicant by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	return r.getOne(ctx, r.selectStudents().Where(squirrel.Eq{"s.id": id}))
}

// FindByPhoneAndName retrieves the applicant matching both the phone number
// (separators ignored) and the exact name
func (r *StudentRepository) FindByPhoneAndName(ctx context.Context, phone, name string) (*models.Student, error) {
	return r.getOne(ctx, r.selectStudents().Where(squirrel.Eq{
		"s.phone": helpers.NormalizePhone(phone),
		"s.name":  name,
	}))
}

// Create inserts an applicant. The phone number is stored without separators.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	student.Phone = helpers.NormalizePhone(student.Phone)

	sql, args, err := r.sb.Insert("students").
		Columns("name", "phone", "email", "affiliation", "choice1_lab_id", "choice2_lab_id", "choice3_lab_id").
		Values(
			student.Name,
			student.Phone,
			student.Email,
			student.Affiliation,
			helpers.NullableID(student.Choice1LabID),
			helpers.NullableID(student.Choice2LabID),
			helpers.NullableID(student.Choice3LabID),
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&student.ID, &student.CreatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, studentPhoneConstraint) {
			return apperrors.ErrPhoneAlreadyRegistered
		}
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrUnknownChoice
		}
		logger.Error().Err(err).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}

	return nil
}

// UpdateChoices replaces the three preferences of an applicant
func (r *StudentRepository) UpdateChoices(ctx context.Context, id int64, choice1, choice2, choice3 *int64) error {
	sql, args, err := r.sb.Update("students").
		SetMap(map[string]interface{}{
			"choice1_lab_id": helpers.NullableID(choice1),
			"choice2_lab_id": helpers.NullableID(choice2),
			"choice3_lab_id": helpers.NullableID(choice3),
		}).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update student choices SQL")
		return fmt.Errorf("failed to build update choices query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrUnknownChoice
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error executing update student choices query")
		return fmt.Errorf("error updating student choices: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// Delete removes an applicant together with their assignments
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("students").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete student SQL")
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", id).Msg("Error executing delete student query")
		return fmt.Errorf("error deleting student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// DeleteAll removes every applicant and returns how many were removed
func (r *StudentRepository) DeleteAll(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Delete("students").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete students query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error deleting all students")
		return 0, fmt.Errorf("error deleting students: %w", err)
	}
	return tag.RowsAffected(), nil
}
