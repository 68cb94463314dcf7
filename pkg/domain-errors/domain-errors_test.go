package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapPreservesOriginalCode(t *testing.T) {
	inner := New(CodeNotFound, "record not found")
	wrapped := Wrap(inner, CodeInternal, "failed to load record")

	assert.True(t, HasCode(wrapped, CodeNotFound))
	assert.Equal(t, "failed to load record", wrapped.Error())
	assert.ErrorIs(t, wrapped, inner)
}

func TestWrapPlainError(t *testing.T) {
	cause := errors.New("connection reset")
	wrapped := Wrap(cause, CodeUnavailable, "store unavailable")

	assert.True(t, HasCode(wrapped, CodeUnavailable))
	assert.ErrorIs(t, wrapped, cause)
}

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("handler: %w", New(CodeConflict, "record already exists"))

	assert.True(t, errors.Is(err, New(CodeConflict, "")))
	assert.False(t, errors.Is(err, New(CodeNotFound, "")))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeValidation, CodeOf(New(CodeValidation, "name is required")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
}

func TestErrorFallsBackToCode(t *testing.T) {
	assert.Equal(t, "unauthorized", New(CodeUnauthorized, "").Error())
}
