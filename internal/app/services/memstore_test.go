package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/yigit/openlab/internal/app/models"
	"github.com/yigit/openlab/internal/app/repositories"
	"github.com/yigit/openlab/internal/pkg/apperrors"
	"github.com/yigit/openlab/internal/pkg/helpers"
)

// memStore is an in-memory repositories.Store. Transactions snapshot the
// whole state and restore it when fn fails.
type memStore struct {
	labs        map[int64]*models.Lab
	students    map[int64]*models.Student
	assignments map[int64]*models.Assignment
	settings    map[string]string
	nextID      int64

	// failUpsertAt makes the n-th Upsert (1-based) fail with upsertErr,
	// or errStorage when upsertErr is nil.
	failUpsertAt int
	upsertErr    error
	upserts      int
	failLists    bool

	snapshots    int
	transactions int
}

var errStorage = errors.New("storage unavailable")

func newMemStore() *memStore {
	return &memStore{
		labs:        map[int64]*models.Lab{},
		students:    map[int64]*models.Student{},
		assignments: map[int64]*models.Assignment{},
		settings:    map[string]string{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) addLab(name string, capacity int) *models.Lab {
	l := &models.Lab{ID: m.id(), Name: name, ProfessorName: "Prof. " + name, Capacity: capacity, Location: "R-" + name}
	m.labs[l.ID] = l
	return l
}

func (m *memStore) addStudent(name, phone string, choices ...int64) *models.Student {
	s := &models.Student{ID: m.id(), Name: name, Phone: helpers.NormalizePhone(phone), Email: name + "@example.com", CreatedAt: time.Now()}
	ptrs := []**int64{&s.Choice1LabID, &s.Choice2LabID, &s.Choice3LabID}
	for i, c := range choices {
		*ptrs[i] = helpers.Int64Ptr(c)
	}
	m.students[s.ID] = s
	return s
}

func (m *memStore) assign(studentID int64, session int, labID int64) {
	a := &models.Assignment{ID: m.id(), StudentID: studentID, SessionNumber: session, LabID: labID}
	m.assignments[a.ID] = a
}

type memState struct {
	labs        map[int64]models.Lab
	students    map[int64]models.Student
	assignments map[int64]models.Assignment
	settings    map[string]string
	nextID      int64
}

func (m *memStore) save() memState {
	st := memState{
		labs:        map[int64]models.Lab{},
		students:    map[int64]models.Student{},
		assignments: map[int64]models.Assignment{},
		settings:    map[string]string{},
		nextID:      m.nextID,
	}
	for k, v := range m.labs {
		st.labs[k] = *v
	}
	for k, v := range m.students {
		st.students[k] = *v
	}
	for k, v := range m.assignments {
		st.assignments[k] = *v
	}
	for k, v := range m.settings {
		st.settings[k] = v
	}
	return st
}

func (m *memStore) restore(st memState) {
	m.labs, m.students, m.assignments, m.settings = map[int64]*models.Lab{}, map[int64]*models.Student{}, map[int64]*models.Assignment{}, st.settings
	for k, v := range st.labs {
		v := v
		m.labs[k] = &v
	}
	for k, v := range st.students {
		v := v
		m.students[k] = &v
	}
	for k, v := range st.assignments {
		v := v
		m.assignments[k] = &v
	}
	m.nextID = st.nextID
}

func (m *memStore) run(ctx context.Context, fn func(ctx context.Context, tx repositories.Tx) error) error {
	st := m.save()
	if err := fn(ctx, m); err != nil {
		m.restore(st)
		return err
	}
	return nil
}

func (m *memStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Tx) error) error {
	m.transactions++
	return m.run(ctx, fn)
}

func (m *memStore) WithinSnapshot(ctx context.Context, fn func(ctx context.Context, tx repositories.Tx) error) error {
	m.snapshots++
	return m.run(ctx, fn)
}

func (m *memStore) Labs() repositories.LabStore               { return memLabs{m} }
func (m *memStore) Students() repositories.StudentStore       { return memStudents{m} }
func (m *memStore) Assignments() repositories.AssignmentStore { return memAssignments{m} }
func (m *memStore) Settings() repositories.SettingStore       { return memSettings{m} }

func sortedIDs[T any](rows map[int64]T) []int64 {
	ids := make([]int64, 0, len(rows))
	for id := range rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

type memLabs struct{ m *memStore }

func (r memLabs) List(context.Context) ([]*models.Lab, error) {
	if r.m.failLists {
		return nil, errStorage
	}
	out := []*models.Lab{}
	for _, id := range sortedIDs(r.m.labs) {
		l := *r.m.labs[id]
		out = append(out, &l)
	}
	return out, nil
}

func (r memLabs) GetByID(_ context.Context, id int64) (*models.Lab, error) {
	l, ok := r.m.labs[id]
	if !ok {
		return nil, apperrors.ErrLabNotFound
	}
	cp := *l
	return &cp, nil
}

func (r memLabs) Create(_ context.Context, lab *models.Lab) error {
	lab.ID = r.m.id()
	cp := *lab
	r.m.labs[lab.ID] = &cp
	return nil
}

func (r memLabs) Update(_ context.Context, lab *models.Lab) error {
	if _, ok := r.m.labs[lab.ID]; !ok {
		return apperrors.ErrLabNotFound
	}
	cp := *lab
	r.m.labs[lab.ID] = &cp
	return nil
}

func (r memLabs) Delete(_ context.Context, id int64) error {
	if _, ok := r.m.labs[id]; !ok {
		return apperrors.ErrLabNotFound
	}
	delete(r.m.labs, id)
	for aid, a := range r.m.assignments {
		if a.LabID == id {
			delete(r.m.assignments, aid)
		}
	}
	for _, s := range r.m.students {
		for _, c := range []**int64{&s.Choice1LabID, &s.Choice2LabID, &s.Choice3LabID} {
			if *c != nil && **c == id {
				*c = nil
			}
		}
	}
	return nil
}

func (r memLabs) Count(context.Context) (int, error) {
	return len(r.m.labs), nil
}

type memStudents struct{ m *memStore }

func (r memStudents) withChoices(s *models.Student) *models.Student {
	cp := *s
	cp.Choices = nil
	for i, c := range []*int64{s.Choice1LabID, s.Choice2LabID, s.Choice3LabID} {
		if c == nil {
			continue
		}
		if l, ok := r.m.labs[*c]; ok {
			cp.Choices = append(cp.Choices, models.ChoiceRef{Rank: i + 1, LabID: l.ID, LabName: l.Name, ProfessorName: l.ProfessorName})
		}
	}
	return &cp
}

func (r memStudents) List(context.Context) ([]*models.Student, error) {
	if r.m.failLists {
		return nil, errStorage
	}
	ids := sortedIDs(r.m.students)
	out := []*models.Student{}
	for i := len(ids) - 1; i >= 0; i-- {
		out = append(out, r.withChoices(r.m.students[ids[i]]))
	}
	return out, nil
}

func (r memStudents) GetByID(_ context.Context, id int64) (*models.Student, error) {
	s, ok := r.m.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return r.withChoices(s), nil
}

func (r memStudents) FindByPhoneAndName(_ context.Context, phone, name string) (*models.Student, error) {
	for _, id := range sortedIDs(r.m.students) {
		s := r.m.students[id]
		if s.Phone == helpers.NormalizePhone(phone) && s.Name == name {
			return r.withChoices(s), nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (r memStudents) Create(_ context.Context, student *models.Student) error {
	student.Phone = helpers.NormalizePhone(student.Phone)
	for _, s := range r.m.students {
		if s.Phone == student.Phone {
			return apperrors.ErrPhoneAlreadyRegistered
		}
	}
	student.ID = r.m.id()
	student.CreatedAt = time.Now()
	cp := *student
	r.m.students[student.ID] = &cp
	return nil
}

func (r memStudents) UpdateChoices(_ context.Context, id int64, c1, c2, c3 *int64) error {
	s, ok := r.m.students[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	s.Choice1LabID, s.Choice2LabID, s.Choice3LabID = c1, c2, c3
	return nil
}

func (r memStudents) Delete(_ context.Context, id int64) error {
	if _, ok := r.m.students[id]; !ok {
		return apperrors.ErrStudentNotFound
	}
	delete(r.m.students, id)
	for aid, a := range r.m.assignments {
		if a.StudentID == id {
			delete(r.m.assignments, aid)
		}
	}
	return nil
}

func (r memStudents) DeleteAll(context.Context) (int64, error) {
	n := int64(len(r.m.students))
	r.m.students = map[int64]*models.Student{}
	r.m.assignments = map[int64]*models.Assignment{}
	return n, nil
}

type memAssignments struct{ m *memStore }

func (r memAssignments) List(context.Context) ([]*models.Assignment, error) {
	if r.m.failLists {
		return nil, errStorage
	}
	out := []*models.Assignment{}
	for _, id := range sortedIDs(r.m.assignments) {
		a := *r.m.assignments[id]
		out = append(out, &a)
	}
	return out, nil
}

func (r memAssignments) ListDetailed(context.Context) ([]*models.AssignmentDetail, error) {
	out := []*models.AssignmentDetail{}
	for _, id := range sortedIDs(r.m.assignments) {
		a := r.m.assignments[id]
		s, l := r.m.students[a.StudentID], r.m.labs[a.LabID]
		out = append(out, &models.AssignmentDetail{
			Assignment:    *a,
			StudentName:   s.Name,
			StudentPhone:  s.Phone,
			LabName:       l.Name,
			ProfessorName: l.ProfessorName,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SessionNumber != out[j].SessionNumber {
			return out[i].SessionNumber < out[j].SessionNumber
		}
		return out[i].StudentName < out[j].StudentName
	})
	return out, nil
}

func (r memAssignments) ListForStudent(_ context.Context, studentID int64) ([]models.SessionResult, error) {
	out := []models.SessionResult{}
	for _, id := range sortedIDs(r.m.assignments) {
		a := r.m.assignments[id]
		if a.StudentID != studentID {
			continue
		}
		l := r.m.labs[a.LabID]
		out = append(out, models.SessionResult{SessionNumber: a.SessionNumber, LabName: l.Name, ProfessorName: l.ProfessorName, Location: l.Location})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SessionNumber < out[j].SessionNumber })
	return out, nil
}

func (r memAssignments) Upsert(_ context.Context, a *models.Assignment) error {
	r.m.upserts++
	if r.m.failUpsertAt > 0 && r.m.upserts == r.m.failUpsertAt {
		if r.m.upsertErr != nil {
			return r.m.upsertErr
		}
		return errStorage
	}
	if _, ok := r.m.students[a.StudentID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	if _, ok := r.m.labs[a.LabID]; !ok {
		return apperrors.ErrLabNotFound
	}
	for _, existing := range r.m.assignments {
		if existing.StudentID == a.StudentID && existing.SessionNumber == a.SessionNumber {
			existing.LabID = a.LabID
			a.ID = existing.ID
			return nil
		}
	}
	a.ID = r.m.id()
	cp := *a
	r.m.assignments[a.ID] = &cp
	return nil
}

func (r memAssignments) Delete(_ context.Context, id int64) error {
	if _, ok := r.m.assignments[id]; !ok {
		return apperrors.ErrAssignmentNotFound
	}
	delete(r.m.assignments, id)
	return nil
}

func (r memAssignments) DeleteAll(context.Context) (int64, error) {
	n := int64(len(r.m.assignments))
	r.m.assignments = map[int64]*models.Assignment{}
	return n, nil
}

type memSettings struct{ m *memStore }

func (r memSettings) GetAll(context.Context) (map[string]string, error) {
	out := make(map[string]string, len(r.m.settings))
	for k, v := range r.m.settings {
		out[k] = v
	}
	return out, nil
}

func (r memSettings) Set(_ context.Context, key, value string) error {
	r.m.settings[key] = value
	return nil
}
