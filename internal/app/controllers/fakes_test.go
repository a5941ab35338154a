package controllers

import (
	"context"
	"time"

	"github.com/yigit/openlab/internal/app/models"
)

type fakeLabService struct {
	labs    map[int64]*models.Lab
	nextID  int64
	listErr error
}

func newFakeLabService(labs ...*models.Lab) *fakeLabService {
	f := &fakeLabService{labs: make(map[int64]*models.Lab)}
	for _, l := range labs {
		f.labs[l.ID] = l
		if l.ID > f.nextID {
			f.nextID = l.ID
		}
	}
	return f
}

func (f *fakeLabService) ListLabs(ctx context.Context) ([]*models.Lab, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*models.Lab, 0, len(f.labs))
	for id := int64(1); id <= f.nextID; id++ {
		if l, ok := f.labs[id]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLabService) GetLab(ctx context.Context, id int64) (*models.Lab, error) {
	l, ok := f.labs[id]
	if !ok {
		return nil, errLabNotFound
	}
	return l, nil
}

func (f *fakeLabService) CreateLab(ctx context.Context, lab *models.Lab) error {
	f.nextID++
	lab.ID = f.nextID
	if lab.Capacity == 0 {
		lab.Capacity = models.DefaultLabCapacity
	}
	f.labs[lab.ID] = lab
	return nil
}

func (f *fakeLabService) UpdateLab(ctx context.Context, lab *models.Lab) error {
	if _, ok := f.labs[lab.ID]; !ok {
		return errLabNotFound
	}
	f.labs[lab.ID] = lab
	return nil
}

func (f *fakeLabService) DeleteLab(ctx context.Context, id int64) error {
	if _, ok := f.labs[id]; !ok {
		return errLabNotFound
	}
	delete(f.labs, id)
	return nil
}

type fakeStudentService struct {
	registerErr error
	registered  *models.Student
	updated     []*int64
	students    []*models.Student
	deleted     []int64
}

func (f *fakeStudentService) Register(ctx context.Context, s *models.Student) (*models.Student, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	s.ID = 1
	f.registered = s
	return s, nil
}

func (f *fakeStudentService) ListStudents(ctx context.Context) ([]*models.Student, error) {
	return f.students, nil
}

func (f *fakeStudentService) Lookup(ctx context.Context, phone, name string) (*models.Student, error) {
	for _, s := range f.students {
		if s.Phone == phone && s.Name == name {
			return s, nil
		}
	}
	return nil, errStudentNotFound
}

func (f *fakeStudentService) UpdateChoices(ctx context.Context, id int64, c1, c2, c3 *int64) (*models.Student, error) {
	for _, s := range f.students {
		if s.ID == id {
			f.updated = []*int64{c1, c2, c3}
			s.Choice1LabID, s.Choice2LabID, s.Choice3LabID = c1, c2, c3
			return s, nil
		}
	}
	return nil, errStudentNotFound
}

func (f *fakeStudentService) DeleteStudent(ctx context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeAssignmentService struct {
	upserted   *models.Assignment
	upsertErr  error
	autoResult *models.AutoAssignResult
	autoErr    error
	occupancy  []models.SlotOccupancy
	resetWith  models.ResetTarget
	resetErr   error
	details    []*models.AssignmentDetail
	deleteErr  error
}

func (f *fakeAssignmentService) ListAssignments(ctx context.Context) ([]*models.AssignmentDetail, error) {
	return f.details, nil
}

func (f *fakeAssignmentService) UpsertAssignment(ctx context.Context, a *models.Assignment) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	a.ID = 10
	f.upserted = a
	return nil
}

func (f *fakeAssignmentService) DeleteAssignment(ctx context.Context, id int64) error {
	return f.deleteErr
}

func (f *fakeAssignmentService) AutoAssign(ctx context.Context) (*models.AutoAssignResult, error) {
	return f.autoResult, f.autoErr
}

func (f *fakeAssignmentService) Occupancy(ctx context.Context) ([]models.SlotOccupancy, error) {
	return f.occupancy, nil
}

func (f *fakeAssignmentService) Reset(ctx context.Context, target models.ResetTarget) error {
	f.resetWith = target
	return f.resetErr
}

type fakeSettingsService struct {
	settings models.Settings
	update   models.SettingsUpdate
}

func (f *fakeSettingsService) GetSettings(ctx context.Context) (*models.Settings, error) {
	s := f.settings
	return &s, nil
}

func (f *fakeSettingsService) UpdateSettings(ctx context.Context, u models.SettingsUpdate) (*models.Settings, error) {
	f.update = u
	if u.RegistrationOpen != nil {
		f.settings.RegistrationOpen = *u.RegistrationOpen
	}
	if u.ResultsPublished != nil {
		f.settings.ResultsPublished = *u.ResultsPublished
	}
	s := f.settings
	return &s, nil
}

func (f *fakeSettingsService) RegistrationOpen(ctx context.Context) (bool, error) {
	return f.settings.RegistrationOpen, nil
}

func (f *fakeSettingsService) ResultsPublished(ctx context.Context) (bool, error) {
	return f.settings.ResultsPublished, nil
}

func (f *fakeSettingsService) CloseRegistrationIfDue(ctx context.Context, closeAt time.Time) (bool, error) {
	return false, nil
}

type fakeResultService struct {
	result *models.StudentResult
	err    error
	phone  string
	name   string
}

func (f *fakeResultService) Lookup(ctx context.Context, phone, name string) (*models.StudentResult, error) {
	f.phone, f.name = phone, name
	return f.result, f.err
}

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(ctx context.Context) error {
	return f.err
}
