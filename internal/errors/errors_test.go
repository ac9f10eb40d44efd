package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTypeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("register: %w", NewNotFoundError("facility not found"))

	assert.True(t, IsType(err, ErrorTypeNotFound))
	assert.False(t, IsType(err, ErrorTypeValidation))
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
}

func TestPersistenceErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewPersistenceError("failed to create equipment", cause)

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
}

func TestStatusCodeDefaultsToInternal(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("boom")))
}

func TestValidationErrorDetails(t *testing.T) {
	err := NewValidationError("Validation failed", "name is required")
	assert.Equal(t, "validation_error: Validation failed (name is required)", err.Error())
	assert.Equal(t, http.StatusBadRequest, err.Code)
}
