package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/openlab/internal/app/models"
	"github.com/yigit/openlab/internal/pkg/apperrors"
	"github.com/yigit/openlab/internal/pkg/helpers"
)

func strPtr(s string) *string { return &s }

func TestLabRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("missing lab maps to not found", func(t *testing.T) {
		q := &fakeQuerier{}
		_, err := NewLabRepository(q).GetByID(ctx, 9)

		require.ErrorIs(t, err, apperrors.ErrLabNotFound)
		assert.Contains(t, q.last().sql, "FROM labs WHERE id = $1")
		assert.Equal(t, []any{int64(9)}, q.last().args)
	})

	t.Run("list scans rows in order", func(t *testing.T) {
		now := time.Now()
		q := &fakeQuerier{rows: [][]any{
			{int64(1), "AI", "Prof. Kim", 6, "", "E3-401", now},
			{int64(2), "Vision", "Prof. Lee", 5, "", "E3-402", now},
		}}
		labs, err := NewLabRepository(q).List(ctx)

		require.NoError(t, err)
		require.Len(t, labs, 2)
		assert.Equal(t, "Vision", labs[1].Name)
		assert.Equal(t, 6, labs[0].Capacity)
		assert.Contains(t, q.last().sql, "ORDER BY id ASC")
	})

	t.Run("delete of unknown lab", func(t *testing.T) {
		q := &fakeQuerier{command: "DELETE 0"}
		err := NewLabRepository(q).Delete(ctx, 3)
		require.ErrorIs(t, err, apperrors.ErrLabNotFound)
	})

	t.Run("storage failure is wrapped", func(t *testing.T) {
		boom := errors.New("connection reset")
		q := &fakeQuerier{err: boom}
		_, err := NewLabRepository(q).List(ctx)
		require.ErrorIs(t, err, boom)
	})
}

func TestStudentRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create stores the normalized phone", func(t *testing.T) {
		q := &fakeQuerier{row: []any{int64(11), time.Now()}}
		s := &models.Student{
			Name:         "Jane",
			Phone:        "010-1234-5678",
			Email:        "jane@example.com",
			Choice1LabID: helpers.Int64Ptr(1),
		}

		require.NoError(t, NewStudentRepository(q).Create(ctx, s))

		assert.Equal(t, int64(11), s.ID)
		assert.Equal(t, "01012345678", s.Phone)
		args := q.last().args
		assert.Equal(t, "01012345678", args[1])
		assert.Equal(t, int64(1), args[4])
		assert.Nil(t, args[5])
		assert.Nil(t, args[6])
	})

	t.Run("duplicate phone", func(t *testing.T) {
		q := &fakeQuerier{err: &pgconn.PgError{Code: "23505", ConstraintName: studentPhoneConstraint}}
		err := NewStudentRepository(q).Create(ctx, &models.Student{Phone: "01012345678"})
		require.ErrorIs(t, err, apperrors.ErrPhoneAlreadyRegistered)
	})

	t.Run("lookup compares the normalized phone and exact name", func(t *testing.T) {
		q := &fakeQuerier{}
		_, err := NewStudentRepository(q).FindByPhoneAndName(ctx, "010 1234-5678", "Jane")

		require.ErrorIs(t, err, apperrors.ErrStudentNotFound)
		assert.Contains(t, q.last().args, "01012345678")
		assert.Contains(t, q.last().args, "Jane")
	})

	t.Run("choices skip empty and dangling preferences", func(t *testing.T) {
		c1, c3 := int64(4), int64(6)
		q := &fakeQuerier{rows: [][]any{{
			int64(1), "Jane", "01012345678", "jane@example.com", "",
			&c1, nil, &c3, time.Now(),
			strPtr("AI"), strPtr("Prof. Kim"),
			nil, nil,
			strPtr("DB"), nil,
		}}}

		students, err := NewStudentRepository(q).List(ctx)

		require.NoError(t, err)
		require.Len(t, students, 1)
		assert.Equal(t, []models.ChoiceRef{
			{Rank: 1, LabID: 4, LabName: "AI", ProfessorName: "Prof. Kim"},
			{Rank: 3, LabID: 6, LabName: "DB"},
		}, students[0].Choices)
		assert.Equal(t, []int64{4, 6}, students[0].PreferredLabIDs())
		assert.Contains(t, q.last().sql, "LEFT JOIN labs l1 ON s.choice1_lab_id = l1.id")
	})

	t.Run("update choices of unknown student", func(t *testing.T) {
		q := &fakeQuerier{command: "UPDATE 0"}
		err := NewStudentRepository(q).UpdateChoices(ctx, 5, helpers.Int64Ptr(1), nil, nil)
		require.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	})
}

func TestAssignmentRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("upsert replaces the lab of an existing session", func(t *testing.T) {
		q := &fakeQuerier{row: []any{int64(7), time.Now()}}
		a := &models.Assignment{StudentID: 1, SessionNumber: 2, LabID: 3}

		require.NoError(t, NewAssignmentRepository(q).Upsert(ctx, a))

		assert.Equal(t, int64(7), a.ID)
		sql := q.last().sql
		assert.Contains(t, sql, "INSERT INTO assignments (student_id,session_number,lab_id,updated_at) VALUES ($1,$2,$3,NOW())")
		assert.Contains(t, sql, "ON CONFLICT (student_id, session_number) DO UPDATE SET lab_id = EXCLUDED.lab_id")
		assert.Equal(t, []any{int64(1), 2, int64(3)}, q.last().args)
	})

	t.Run("foreign key violations name the missing row", func(t *testing.T) {
		repo := NewAssignmentRepository(&fakeQuerier{err: &pgconn.PgError{Code: "23503", ConstraintName: assignmentLabFK}})
		require.ErrorIs(t, repo.Upsert(ctx, &models.Assignment{}), apperrors.ErrLabNotFound)

		repo = NewAssignmentRepository(&fakeQuerier{err: &pgconn.PgError{Code: "23503", ConstraintName: assignmentStudentFK}})
		require.ErrorIs(t, repo.Upsert(ctx, &models.Assignment{}), apperrors.ErrStudentNotFound)
	})

	t.Run("delete unknown assignment", func(t *testing.T) {
		err := NewAssignmentRepository(&fakeQuerier{command: "DELETE 0"}).Delete(ctx, 1)
		require.ErrorIs(t, err, apperrors.ErrAssignmentNotFound)
	})

	t.Run("delete all reports the row count", func(t *testing.T) {
		n, err := NewAssignmentRepository(&fakeQuerier{command: "DELETE 12"}).DeleteAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(12), n)
	})
}

func TestSettingRepository(t *testing.T) {
	ctx := context.Background()

	q := &fakeQuerier{command: "INSERT 0 1"}
	require.NoError(t, NewSettingRepository(q).Set(ctx, models.SettingResultsPublished, "true"))
	assert.Contains(t, q.last().sql, "ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value")
	assert.Equal(t, []any{"results_published", "true"}, q.last().args)

	q = &fakeQuerier{rows: [][]any{{"registration_open", "false"}}}
	values, err := NewSettingRepository(q).GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"registration_open": "false"}, values)
}
