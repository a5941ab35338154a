package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/openlab/internal/app/models"
	"github.com/yigit/openlab/internal/app/repositories"
	"github.com/yigit/openlab/internal/app/solver"
	"github.com/yigit/openlab/internal/pkg/apperrors"
	"github.com/yigit/openlab/internal/pkg/dberrors"
	"github.com/yigit/openlab/internal/pkg/metrics"
)

// SolverFactory returns the solver used for one auto-assign run
type SolverFactory func() *solver.Solver

// SeededSolvers returns a SolverFactory. A zero seed gives every run a clock
// seeded shuffle; any other seed makes every run shuffle identically.
func SeededSolvers(seed int64) SolverFactory {
	if seed == 0 {
		return func() *solver.Solver { return solver.New() }
	}
	return func() *solver.Solver { return solver.New(solver.WithSeed(seed)) }
}

// AssignmentService defines the interface for session assignment operations
type AssignmentService interface {
	ListAssignments(ctx context.Context) ([]*models.AssignmentDetail, error)
	UpsertAssignment(ctx context.Context, assignment *models.Assignment) error
	DeleteAssignment(ctx context.Context, id int64) error
	AutoAssign(ctx context.Context) (*models.AutoAssignResult, error)
	Occupancy(ctx context.Context) ([]models.SlotOccupancy, error)
	Reset(ctx context.Context, target models.ResetTarget) error
}

type assignmentServiceImpl struct {
	store     repositories.Store
	newSolver SolverFactory
	metrics   *metrics.Collector
	logger    zerolog.Logger
}

// NewAssignmentService creates a new assignment service. collector may be nil.
func NewAssignmentService(store repositories.Store, newSolver SolverFactory, collector *metrics.Collector, logger zerolog.Logger) AssignmentService {
	if newSolver == nil {
		newSolver = SeededSolvers(0)
	}
	return &assignmentServiceImpl{
		store:     store,
		newSolver: newSolver,
		metrics:   collector,
		logger:    logger,
	}
}

func (s *assignmentServiceImpl) ListAssignments(ctx context.Context) ([]*models.AssignmentDetail, error) {
	details, err := s.store.Assignments().ListDetailed(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return details, nil
}

// UpsertAssignment sets the lab of one student's session. Capacity and
// repeated labs are not checked here; admins may override both.
func (s *assignmentServiceImpl) UpsertAssignment(ctx context.Context, a *models.Assignment) error {
	if a.StudentID <= 0 || a.LabID <= 0 {
		return apperrors.NewValidationError("studentId and labId are required")
	}
	if !solver.ValidSession(a.SessionNumber) {
		return apperrors.ErrInvalidSession
	}
	return s.store.Assignments().Upsert(ctx, a)
}

func (s *assignmentServiceImpl) DeleteAssignment(ctx context.Context, id int64) error {
	return s.store.Assignments().Delete(ctx, id)
}

// AutoAssign fills every open session it can. All reads happen on one
// snapshot before any write and the whole plan commits or none of it does.
func (s *assignmentServiceImpl) AutoAssign(ctx context.Context) (*models.AutoAssignResult, error) {
	start := time.Now()
	s.logger.Info().Msg("Auto-assign started")

	var result *models.AutoAssignResult
	err := s.store.WithinSnapshot(ctx, func(ctx context.Context, tx repositories.Tx) error {
		labs, err := tx.Labs().List(ctx)
		if err != nil {
			return err
		}
		students, err := tx.Students().List(ctx)
		if err != nil {
			return err
		}
		existing, err := tx.Assignments().List(ctx)
		if err != nil {
			return err
		}

		plan := s.newSolver().Solve(buildSnapshot(labs, students, existing))

		for _, p := range plan.Plan {
			a := &models.Assignment{StudentID: p.StudentID, SessionNumber: p.Session, LabID: p.LabID}
			if err := tx.Assignments().Upsert(ctx, a); err != nil {
				return fmt.Errorf("store assignment student=%d session=%d: %w", p.StudentID, p.Session, err)
			}
		}

		result = &models.AutoAssignResult{
			Assigned:   plan.Assigned(),
			Overbooked: toOccupancy(plan.Overbooked, labNames(labs)),
		}
		return nil
	})

	elapsed := time.Since(start)
	if err != nil {
		s.observe(elapsed, 0, 0, err)
		if dberrors.IsSerializationFailure(err) {
			s.logger.Warn().Err(err).Dur("elapsed", elapsed).Msg("Auto-assign aborted by a concurrent change, nothing was stored")
			return nil, apperrors.NewCustomError(apperrors.ErrConflict,
				"assignments changed while auto-assign was running, try again").WithCode("AUTO_ASSIGN_CONFLICT")
		}
		s.logger.Error().Err(err).Dur("elapsed", elapsed).Msg("Auto-assign failed, nothing was stored")
		return nil, fmt.Errorf("auto-assign failed: %w", err)
	}

	s.observe(elapsed, result.Assigned, len(result.Overbooked), nil)
	s.logger.Info().Int("assigned", result.Assigned).Dur("elapsed", elapsed).Msg("Auto-assign finished")
	for _, o := range result.Overbooked {
		s.logger.Warn().
			Int64("labID", o.LabID).
			Int("session", o.Session).
			Int("occupancy", o.Occupancy).
			Int("capacity", o.Capacity).
			Msg("Lab session over capacity")
	}

	return result, nil
}

func (s *assignmentServiceImpl) observe(elapsed time.Duration, assigned, overbooked int, err error) {
	if s.metrics != nil {
		s.metrics.ObserveAutoAssign(elapsed, assigned, overbooked, err)
	}
}

// Occupancy reports every lab in every session
func (s *assignmentServiceImpl) Occupancy(ctx context.Context) ([]models.SlotOccupancy, error) {
	var out []models.SlotOccupancy
	err := s.store.WithinSnapshot(ctx, func(ctx context.Context, tx repositories.Tx) error {
		labs, err := tx.Labs().List(ctx)
		if err != nil {
			return err
		}
		existing, err := tx.Assignments().List(ctx)
		if err != nil {
			return err
		}

		snap := buildSnapshot(labs, nil, existing)
		out = toOccupancy(solver.Loads(snap.Labs, snap.Existing), labNames(labs))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compute occupancy: %w", err)
	}
	return out, nil
}

// Reset removes assignments, and for the students and all targets every
// applicant as well, in one transaction
func (s *assignmentServiceImpl) Reset(ctx context.Context, target models.ResetTarget) error {
	if !target.Valid() {
		return apperrors.ErrInvalidResetTarget
	}

	var assignments, students int64
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx repositories.Tx) error {
		var err error
		if assignments, err = tx.Assignments().DeleteAll(ctx); err != nil {
			return err
		}
		if target == models.ResetAll || target == models.ResetStudents {
			if students, err = tx.Students().DeleteAll(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to reset %s: %w", target, err)
	}

	s.logger.Info().
		Str("target", string(target)).
		Int64("assignments", assignments).
		Int64("students", students).
		Msg("Reset completed")
	return nil
}

func buildSnapshot(labs []*models.Lab, students []*models.Student, existing []*models.Assignment) solver.Snapshot {
	snap := solver.Snapshot{
		Labs:     make([]solver.Lab, 0, len(labs)),
		Students: make([]solver.Student, 0, len(students)),
		Existing: make([]solver.Assignment, 0, len(existing)),
	}
	for _, l := range labs {
		snap.Labs = append(snap.Labs, solver.Lab{ID: l.ID, Capacity: l.Capacity})
	}
	for _, st := range students {
		snap.Students = append(snap.Students, solver.Student{ID: st.ID, Choices: st.PreferredLabIDs()})
	}
	for _, a := range existing {
		snap.Existing = append(snap.Existing, solver.Assignment{StudentID: a.StudentID, Session: a.SessionNumber, LabID: a.LabID})
	}
	return snap
}

func labNames(labs []*models.Lab) map[int64]string {
	names := make(map[int64]string, len(labs))
	for _, l := range labs {
		names[l.ID] = l.Name
	}
	return names
}

func toOccupancy(loads []solver.SlotLoad, names map[int64]string) []models.SlotOccupancy {
	out := make([]models.SlotOccupancy, 0, len(loads))
	for _, l := range loads {
		out = append(out, models.SlotOccupancy{
			LabID:      l.LabID,
			LabName:    names[l.LabID],
			Session:    l.Session,
			Occupancy:  l.Occupancy,
			Capacity:   l.Capacity,
			Overbooked: l.Overbooked(),
		})
	}
	return out
}
