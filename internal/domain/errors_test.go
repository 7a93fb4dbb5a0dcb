package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewNotFoundError_NamesEntity(t *testing.T) {
	err := NewNotFoundError("Course", "c1")
	assert.Equal(t, CodeNotFound, err.Code)
	assert.Contains(t, err.Error(), "Course")
	assert.Contains(t, err.Error(), "c1")
	assert.Equal(t, "Course", err.Context["entity"])
}

func TestErrorCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("enroll: %w", NewConflictError("already enrolled", nil))
	assert.Equal(t, CodeConflict, ErrorCodeOf(wrapped))
	assert.True(t, IsConflict(wrapped))
	assert.False(t, IsNotFound(wrapped))

	var ve ValidationErrors
	ve.Add("userId", CodeMissingField, "userId is required", nil)
	assert.Equal(t, CodeValidation, ErrorCodeOf(ve))

	assert.Equal(t, CodeInternal, ErrorCodeOf(errors.New("boom")))
}

func TestDomainError_UnwrapAndIs(t *testing.T) {
	cause := errors.New("db down")
	err := NewInternalError("failed", cause)
	assert.ErrorIs(t, err, cause)
	assert.True(t, errors.Is(err, &DomainError{Code: CodeInternal}))
	assert.False(t, errors.Is(err, &DomainError{Code: CodeNotFound}))
}

func TestValidationErrors_OrNil(t *testing.T) {
	var ve ValidationErrors
	assert.NoError(t, ve.OrNil())

	ve.Add("totalLessons", CodeOutOfRange, "must be >= 0", -1)
	err := ve.OrNil()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "totalLessons")
}
