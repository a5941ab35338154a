package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "01012345678", NormalizePhone(" 010-1234-5678 "))
	assert.Equal(t, "01012345678", NormalizePhone("010 1234 5678"))
}

func TestNullableID(t *testing.T) {
	assert.Nil(t, NullableID(nil))
	assert.Nil(t, NullableID(Int64Ptr(0)))
	assert.Equal(t, int64(4), NullableID(Int64Ptr(4)))
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 2*time.Minute, ParseDuration("2m", time.Second))
	assert.Equal(t, time.Second, ParseDuration("soon", time.Second))
}

func TestOptionalTime(t *testing.T) {
	got, err := ParseOptionalTime("")
	assert.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseOptionalTime("2026-03-01T09:00:00+09:00")
	assert.NoError(t, err)
	assert.Equal(t, "2026-03-01T00:00:00Z", FormatOptionalTime(got))

	_, err = ParseOptionalTime("tomorrow")
	assert.Error(t, err)
}
