package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/openlab/internal/app/models"
	"github.com/yigit/openlab/internal/app/repositories"
	"github.com/yigit/openlab/internal/pkg/apperrors"
)

// ResultService defines the student-facing result lookup
type ResultService interface {
	Lookup(ctx context.Context, phone, name string) (*models.StudentResult, error)
}

type resultServiceImpl struct {
	students    StudentService
	assignments repositories.AssignmentStore
	settings    SettingsService
}

// NewResultService creates a new result service instance
func NewResultService(students StudentService, assignments repositories.AssignmentStore, settings SettingsService) ResultService {
	return &resultServiceImpl{
		students:    students,
		assignments: assignments,
		settings:    settings,
	}
}

// Lookup returns a student's sessions once results are published. Before
// that only Published=false is returned, whoever asks.
func (s *resultServiceImpl) Lookup(ctx context.Context, phone, name string) (*models.StudentResult, error) {
	if strings.TrimSpace(phone) == "" || strings.TrimSpace(name) == "" {
		return nil, apperrors.NewValidationError("phone and name are required")
	}

	published, err := s.settings.ResultsPublished(ctx)
	if err != nil {
		return nil, err
	}
	if !published {
		return &models.StudentResult{Published: false}, nil
	}

	student, err := s.students.Lookup(ctx, phone, name)
	if err != nil {
		return nil, err
	}

	sessions, err := s.assignments.ListForStudent(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	return &models.StudentResult{
		Published:   true,
		Name:        student.Name,
		Affiliation: student.Affiliation,
		Sessions:    sessions,
		Choices:     student.Choices,
	}, nil
}
