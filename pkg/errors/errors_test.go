package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "validation failed: age - must be greater than zero",
		NewValidationError("age", "must be greater than zero").Error())
	assert.Equal(t, "validation failed: bad input",
		NewValidationError("", "bad input").Error())

	assert.Equal(t, "User not found", NewNotFoundError("user", "User not found").Error())
	assert.Equal(t, "user not found", NewNotFoundError("user", "").Error())

	assert.Equal(t, "Email already in use", NewConflictError("user", "Email already in use").Error())
	assert.Equal(t, "user already exists", NewConflictError("user", "").Error())

	assert.Equal(t, "query failed: disk full",
		NewInternalError("query failed", fmt.Errorf("disk full")).Error())
	assert.Equal(t, "query failed", NewInternalError("query failed", nil).Error())
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusOf(NewValidationError("age", "required")))
	assert.Equal(t, http.StatusNotFound, StatusOf(NewNotFoundError("user", "")))
	assert.Equal(t, http.StatusBadRequest, StatusOf(NewConflictError("user", "")))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(NewInternalError("boom", nil)))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(fmt.Errorf("plain error")))
}

func TestStatusOfWrappedError(t *testing.T) {
	wrapped := fmt.Errorf("handling request: %w", NewNotFoundError("user", "User not found"))
	assert.Equal(t, http.StatusNotFound, StatusOf(wrapped))
}

func TestInternalErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := NewInternalError("query failed", cause)
	assert.Equal(t, cause, err.Unwrap())
}
