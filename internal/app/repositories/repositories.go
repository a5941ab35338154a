package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/openlab/internal/app/models"
	"github.com/yigit/openlab/internal/db"
)

// LabStore reads and writes labs
type LabStore interface {
	List(ctx context.Context) ([]*models.Lab, error)
	GetByID(ctx context.Context, id int64) (*models.Lab, error)
	Create(ctx context.Context, lab *models.Lab) error
	Update(ctx context.Context, lab *models.Lab) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// StudentStore reads and writes applicants
type StudentStore interface {
	List(ctx context.Context) ([]*models.Student, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	FindByPhoneAndName(ctx context.Context, phone, name string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	UpdateChoices(ctx context.Context, id int64, choice1, choice2, choice3 *int64) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
}

// AssignmentStore reads and writes session assignments
type AssignmentStore interface {
	List(ctx context.Context) ([]*models.Assignment, error)
	ListDetailed(ctx context.Context) ([]*models.AssignmentDetail, error)
	ListForStudent(ctx context.Context, studentID int64) ([]models.SessionResult, error)
	Upsert(ctx context.Context, assignment *models.Assignment) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
}

// SettingStore reads and writes the key/value settings table
type SettingStore interface {
	GetAll(ctx context.Context) (map[string]string, error)
	Set(ctx context.Context, key, value string) error
}

// Tx exposes every store bound to the same transaction
type Tx interface {
	Labs() LabStore
	Students() StudentStore
	Assignments() AssignmentStore
	Settings() SettingStore
}

// Transactor runs a function against stores that share one transaction.
// A non-nil error from fn rolls back everything fn wrote.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinSnapshot is like WithinTransaction, but every read in fn sees
	// the same snapshot of the database.
	WithinSnapshot(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Store is a Tx that can also open transactions
type Store interface {
	Tx
	Transactor
}

// Repositories holds all the repository instances
type Repositories struct {
	LabRepository        *LabRepository
	StudentRepository    *StudentRepository
	AssignmentRepository *AssignmentRepository
	SettingRepository    *SettingRepository

	pg *db.PostgresDB
}

// NewRepositories initializes all repositories on the connection pool
func NewRepositories(pg *db.PostgresDB) *Repositories {
	r := newBound(pg.Pool)
	r.pg = pg
	return r
}

func newBound(q db.Querier) *Repositories {
	return &Repositories{
		LabRepository:        NewLabRepository(q),
		StudentRepository:    NewStudentRepository(q),
		AssignmentRepository: NewAssignmentRepository(q),
		SettingRepository:    NewSettingRepository(q),
	}
}

func (r *Repositories) Labs() LabStore               { return r.LabRepository }
func (r *Repositories) Students() StudentStore       { return r.StudentRepository }
func (r *Repositories) Assignments() AssignmentStore { return r.AssignmentRepository }
func (r *Repositories) Settings() SettingStore       { return r.SettingRepository }

// WithinTransaction implements Transactor
func (r *Repositories) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	return r.pg.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, newBound(tx))
	})
}

// WithinSnapshot implements Transactor using a repeatable-read transaction
func (r *Repositories) WithinSnapshot(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	return r.pg.WithRepeatableRead(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, newBound(tx))
	})
}
