package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yigit/openlab/internal/app/models"
	"github.com/yigit/openlab/internal/app/repositories"
	"github.com/yigit/openlab/internal/pkg/apperrors"
	"github.com/yigit/openlab/internal/pkg/validation"
)

// RegistrationGate reports whether applications are currently accepted
type RegistrationGate interface {
	RegistrationOpen(ctx context.Context) (bool, error)
}

// StudentService defines the interface for application operations
type StudentService interface {
	Register(ctx context.Context, student *models.Student) (*models.Student, error)
	ListStudents(ctx context.Context) ([]*models.Student, error)
	Lookup(ctx context.Context, phone, name string) (*models.Student, error)
	UpdateChoices(ctx context.Context, id int64, choice1, choice2, choice3 *int64) (*models.Student, error)
	DeleteStudent(ctx context.Context, id int64) error
}

type studentServiceImpl struct {
	students repositories.StudentStore
	labs     repositories.LabStore
	gate     RegistrationGate
}

// NewStudentService creates a new student service instance
func NewStudentService(students repositories.StudentStore, labs repositories.LabStore, gate RegistrationGate) StudentService {
	return &studentServiceImpl{
		students: students,
		labs:     labs,
		gate:     gate,
	}
}

func (s *studentServiceImpl) ensureOpen(ctx context.Context) error {
	open, err := s.gate.RegistrationOpen(ctx)
	if err != nil {
		return fmt.Errorf("failed to read registration state: %w", err)
	}
	if !open {
		return apperrors.ErrRegistrationClosed
	}
	return nil
}

// validateChoices requires a first choice, distinct choices and existing labs.
func (s *studentServiceImpl) validateChoices(ctx context.Context, choice1, choice2, choice3 *int64) error {
	if choice1 == nil || *choice1 <= 0 {
		return apperrors.ErrFirstChoiceRequired
	}

	seen := make(map[int64]bool, 3)
	for _, c := range []*int64{choice1, choice2, choice3} {
		if c == nil || *c <= 0 {
			continue
		}
		if seen[*c] {
			return apperrors.ErrDuplicateChoice
		}
		seen[*c] = true

		if _, err := s.labs.GetByID(ctx, *c); err != nil {
			if errors.Is(err, apperrors.ErrLabNotFound) {
				return apperrors.ErrUnknownChoice
			}
			return fmt.Errorf("failed to check lab %d: %w", *c, err)
		}
	}
	return nil
}

// Register stores a new application while registration is open
func (s *studentServiceImpl) Register(ctx context.Context, student *models.Student) (*models.Student, error) {
	if err := s.ensureOpen(ctx); err != nil {
		return nil, err
	}

	trimAll(&student.Name, &student.Phone, &student.Email, &student.Affiliation)
	if err := validation.Struct(student); err != nil {
		return nil, err
	}
	if err := s.validateChoices(ctx, student.Choice1LabID, student.Choice2LabID, student.Choice3LabID); err != nil {
		return nil, err
	}

	if err := s.students.Create(ctx, student); err != nil {
		if errors.Is(err, apperrors.ErrPhoneAlreadyRegistered) || errors.Is(err, apperrors.ErrUnknownChoice) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to register student: %w", err)
	}

	return s.students.GetByID(ctx, student.ID)
}

func (s *studentServiceImpl) ListStudents(ctx context.Context) ([]*models.Student, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

// Lookup finds an application by phone number and name, both required
func (s *studentServiceImpl) Lookup(ctx context.Context, phone, name string) (*models.Student, error) {
	phone, name = strings.TrimSpace(phone), strings.TrimSpace(name)
	if phone == "" || name == "" {
		return nil, apperrors.NewValidationError("phone and name are required")
	}
	return s.students.FindByPhoneAndName(ctx, phone, name)
}

// UpdateChoices replaces the preferences of an existing application while
// registration is open
func (s *studentServiceImpl) UpdateChoices(ctx context.Context, id int64, choice1, choice2, choice3 *int64) (*models.Student, error) {
	if err := s.ensureOpen(ctx); err != nil {
		return nil, err
	}
	if _, err := s.students.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.validateChoices(ctx, choice1, choice2, choice3); err != nil {
		return nil, err
	}

	if err := s.students.UpdateChoices(ctx, id, choice1, choice2, choice3); err != nil {
		return nil, err
	}
	return s.students.GetByID(ctx, id)
}

// DeleteStudent removes an application and its assignments
func (s *studentServiceImpl) DeleteStudent(ctx context.Context, id int64) error {
	return s.students.Delete(ctx, id)
}
