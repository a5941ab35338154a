package services

import (
	"context"
	"fmt"

	"github.com/yigit/openlab/internal/app/models"
	"github.com/yigit/openlab/internal/app/repositories"
	"github.com/yigit/openlab/internal/pkg/validation"
)

// LabService defines the interface for lab operations
type LabService interface {
	ListLabs(ctx context.Context) ([]*models.Lab, error)
	GetLab(ctx context.Context, id int64) (*models.Lab, error)
	CreateLab(ctx context.Context, lab *models.Lab) error
	UpdateLab(ctx context.Context, lab *models.Lab) error
	DeleteLab(ctx context.Context, id int64) error
}

type labServiceImpl struct {
	labs repositories.LabStore
}

// NewLabService creates a new lab service instance
func NewLabService(labs repositories.LabStore) LabService {
	return &labServiceImpl{labs: labs}
}

func (s *labServiceImpl) ListLabs(ctx context.Context) ([]*models.Lab, error) {
	labs, err := s.labs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list labs: %w", err)
	}
	return labs, nil
}

func (s *labServiceImpl) GetLab(ctx context.Context, id int64) (*models.Lab, error) {
	return s.labs.GetByID(ctx, id)
}

// CreateLab stores a new lab. A zero capacity becomes DefaultLabCapacity.
func (s *labServiceImpl) CreateLab(ctx context.Context, lab *models.Lab) error {
	trimAll(&lab.Name, &lab.ProfessorName, &lab.Description, &lab.Location)
	if lab.Capacity == 0 {
		lab.Capacity = models.DefaultLabCapacity
	}
	if err := validation.Struct(lab); err != nil {
		return err
	}

	if err := s.labs.Create(ctx, lab); err != nil {
		return fmt.Errorf("failed to create lab: %w", err)
	}
	return nil
}

func (s *labServiceImpl) UpdateLab(ctx context.Context, lab *models.Lab) error {
	trimAll(&lab.Name, &lab.ProfessorName, &lab.Description, &lab.Location)
	if err := validation.Struct(lab); err != nil {
		return err
	}
	return s.labs.Update(ctx, lab)
}

// DeleteLab removes a lab; the schema deletes its assignments and clears
// preferences that named it.
func (s *labServiceImpl) DeleteLab(ctx context.Context, id int64) error {
	return s.labs.Delete(ctx, id)
}
