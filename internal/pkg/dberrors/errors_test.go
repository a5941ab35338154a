package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassification(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "students_phone_key"}
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "assignments_lab_id_fkey"}
	wrapped := fmt.Errorf("error upserting assignment: %w", fk)

	assert.True(t, IsDuplicateKeyError(dup))
	assert.True(t, IsDuplicateConstraintError(dup, "students_phone_key"))
	assert.False(t, IsDuplicateConstraintError(dup, "other"))
	assert.False(t, IsDuplicateKeyError(fk))

	assert.True(t, IsForeignKeyError(wrapped))
	assert.Equal(t, "assignments_lab_id_fkey", ForeignKeyConstraint(wrapped))
	assert.Equal(t, "", ForeignKeyConstraint(errors.New("plain")))
}

func TestIsSerializationFailure(t *testing.T) {
	assert.True(t, IsSerializationFailure(fmt.Errorf("store assignment: %w", &pgconn.PgError{Code: "40001"})))
	assert.True(t, IsSerializationFailure(&pgconn.PgError{Code: "40P01"}))
	assert.False(t, IsSerializationFailure(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsSerializationFailure(errors.New("plain")))
}
