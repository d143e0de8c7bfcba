package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	err := NewValidationError("the title is required", map[string]any{"field": "title"})
	domainErr := ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus)
	assert.Equal(t, "title", domainErr.Details["field"])

	domainErr = ToDomainError(NewNotFound("request", nil))
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
	assert.Equal(t, "request not found", domainErr.Message)
	assert.Equal(t, http.StatusNotFound, domainErr.HTTPStatus)

	domainErr = ToDomainError(NewConflict("an appointment already exists for this request", nil))
	assert.Equal(t, "CONFLICT", domainErr.Code)
	assert.Equal(t, http.StatusConflict, domainErr.HTTPStatus)

	domainErr = ToDomainError(NewUnauthorized("missing bearer token"))
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
	assert.Equal(t, http.StatusUnauthorized, domainErr.HTTPStatus)
}

func TestToDomainError_WrapsUnknown(t *testing.T) {
	cause := errors.New("connection refused")
	domainErr := ToDomainError(fmt.Errorf("query users: %w", cause))

	require.NotNil(t, domainErr)
	assert.Equal(t, "INTERNAL_ERROR", domainErr.Code)
	assert.Equal(t, http.StatusInternalServerError, domainErr.HTTPStatus)
	assert.ErrorIs(t, domainErr, cause)
}

func TestToDomainError_Nil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}

func TestIsCode(t *testing.T) {
	err := NewNotFound("appointment", nil)
	assert.True(t, IsCode(err, "NOT_FOUND"))
	assert.False(t, IsCode(err, "CONFLICT"))

	wrapped := fmt.Errorf("update status: %w", err)
	assert.True(t, IsCode(wrapped, "NOT_FOUND"))

	assert.False(t, IsCode(errors.New("plain"), "NOT_FOUND"))
}

func TestDomainError_Message(t *testing.T) {
	plain := NewDomainError("CONFLICT", "request with appointments cannot be deleted", http.StatusConflict, nil)
	assert.Equal(t, "request with appointments cannot be deleted", plain.Error())

	withCause := NewInternalError(errors.New("tx aborted"))
	assert.Contains(t, withCause.Error(), "tx aborted")
}
