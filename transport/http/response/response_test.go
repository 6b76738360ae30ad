package response_test

import (
	"cowork/shared/failure"
	"cowork/transport/http/response"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	body := map[string]any{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	return body
}

func TestWithJSON(t *testing.T) {
	recorder := httptest.NewRecorder()

	response.WithJSON(recorder, http.StatusCreated, map[string]string{"id": "r-1"})

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

	body := decode(t, recorder)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]any{"id": "r-1"}, body["data"])
}

func TestWithError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantReason string
	}{
		{
			name:       "conflict",
			err:        failure.Conflict("The meeting room is already reserved"),
			wantCode:   http.StatusConflict,
			wantReason: failure.ReasonConflict,
		},
		{
			name:       "wrapped quota",
			err:        fmt.Errorf("failed to create reservation: %w", failure.QuotaExceeded("too many")),
			wantCode:   http.StatusBadRequest,
			wantReason: failure.ReasonQuotaExceeded,
		},
		{
			name:       "plain error",
			err:        errors.New("boom"),
			wantCode:   http.StatusInternalServerError,
			wantReason: failure.ReasonInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()

			response.WithError(recorder, tt.err)

			assert.Equal(t, tt.wantCode, recorder.Code)

			body := decode(t, recorder)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.err.Error(), body["message"])
			assert.Equal(t, tt.wantReason, body["reason"])
		})
	}
}

func TestWithMessage(t *testing.T) {
	recorder := httptest.NewRecorder()

	response.WithMessage(recorder, http.StatusOK, "Reservation deleted successfully")

	body := decode(t, recorder)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Reservation deleted successfully", body["message"])

	recorder = httptest.NewRecorder()
	response.WithRequestLimitExceeded(recorder)

	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.Equal(t, false, decode(t, recorder)["success"])
}
