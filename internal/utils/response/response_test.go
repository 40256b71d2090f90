package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/carbonmarket/carbon-marketplace/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_MapsAppError(t *testing.T) {
	rec := httptest.NewRecorder()

	Error(rec, apperrors.NotFoundError("Project not found").WithDetail("project 42"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var envelope ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "Project not found", envelope.Message)
	assert.Equal(t, "project 42", envelope.Detail)
}

func TestError_HidesUnknownErrors(t *testing.T) {
	rec := httptest.NewRecorder()

	Error(rec, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var envelope ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "An unexpected error occurred", envelope.Message)
	assert.Empty(t, envelope.Detail)
}

func TestWriteJSON_NilBody(t *testing.T) {
	rec := httptest.NewRecorder()

	require.NoError(t, WriteJSON(rec, http.StatusNoContent, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
