package httputil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/llm-config/internal/errors"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, recorder
}

func TestHandleErrorGin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"not found", apperrors.Wrap(apperrors.ErrNotFound, "entry missing"), http.StatusNotFound, "not_found"},
		{"conflict", apperrors.ErrConflict, http.StatusConflict, "conflict"},
		{"invalid input", apperrors.Wrap(apperrors.ErrInvalidInput, "bad key"), http.StatusUnprocessableEntity, "invalid_input"},
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"forbidden", apperrors.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"rate limited", apperrors.ErrRateLimited, http.StatusTooManyRequests, "rate_limited"},
		{"payload too large", apperrors.ErrPayloadTooLarge, http.StatusRequestEntityTooLarge, "payload_too_large"},
		{"upgrade required", apperrors.ErrUpgradeRequired, http.StatusUpgradeRequired, "upgrade_required"},
		{"unknown error", errors.New("disk on fire"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, recorder := newTestContext(t)
			HandleErrorGin(c, tt.err, nil)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Contains(t, recorder.Body.String(), tt.wantError)
		})
	}
}

func TestHandleErrorGinHidesInternalDetails(t *testing.T) {
	t.Parallel()

	c, recorder := newTestContext(t)
	HandleErrorGin(c, errors.New("dsn=postgres://user:hunter2@db"), nil)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "hunter2")
}

func TestHandleErrorGinNilError(t *testing.T) {
	t.Parallel()

	c, recorder := newTestContext(t)
	HandleErrorGin(c, nil, nil)

	assert.Empty(t, recorder.Body.String())
}

func TestHandleBadRequestGin(t *testing.T) {
	t.Parallel()

	c, recorder := newTestContext(t)
	HandleBadRequestGin(c, errors.New("malformed JSON"), nil)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "bad_request")
	assert.Contains(t, recorder.Body.String(), "malformed JSON")
}

func TestHandleValidationErrorGin(t *testing.T) {
	t.Parallel()

	c, recorder := newTestContext(t)
	HandleValidationErrorGin(c, errors.New("namespace: cannot be blank"), nil)

	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "validation_error")
	assert.Contains(t, recorder.Body.String(), "namespace: cannot be blank")
}
