package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrMissingFields.WithDetail("code is required"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "MISSING_FIELDS", body["code"])
	assert.Equal(t, "Required fields are missing.", body["error"])
	assert.Equal(t, "code is required", body["detail"])
}

func TestWriteError_GenericHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, stderrors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestFromError_Wrapped(t *testing.T) {
	err := fmt.Errorf("controller: %w", ErrRateLimitExceeded)
	assert.Equal(t, http.StatusTooManyRequests, FromError(err).HTTPStatus)
}

func TestWithCauseDoesNotMutateCatalog(t *testing.T) {
	cause := stderrors.New("x")
	e := ErrBadGateway.WithCause(cause)
	assert.Nil(t, ErrBadGateway.Err)
	assert.ErrorIs(t, e, cause)
}
