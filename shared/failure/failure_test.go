package failure_test

import (
	"cowork/shared/failure"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusBadRequest,
		Message: "test error message",
	}

	if f.Error() != "test error message" {
		t.Errorf("expected error message to be 'test error message', got %s", f.Error())
	}
}

func TestPredefinedFailures(t *testing.T) {
	tests := []struct {
		name    string
		failure *failure.Failure
		code    int
		message string
	}{
		{
			name:    "InvalidPageParam",
			failure: failure.InvalidPageParam,
			code:    http.StatusBadRequest,
			message: "invalid page parameter",
		},
		{
			name:    "InvalidLimitParam",
			failure: failure.InvalidLimitParam,
			code:    http.StatusBadRequest,
			message: "invalid limit parameter",
		},
		{
			name:    "ForbiddenError",
			failure: failure.ForbiddenError,
			code:    http.StatusForbidden,
			message: "You don't have the required permissions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.failure.Code != tt.code {
				t.Errorf("expected code to be %d, got %d", tt.code, tt.failure.Code)
			}

			if tt.failure.Message != tt.message {
				t.Errorf("expected message to be %s, got %s", tt.message, tt.failure.Message)
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   int
		reason string
	}{
		{"BadRequest", failure.BadRequest(errors.New("bad")), http.StatusBadRequest, failure.ReasonValidation},
		{"BadRequestFromString", failure.BadRequestFromString("bad"), http.StatusBadRequest, failure.ReasonValidation},
		{"Unauthorized", failure.Unauthorized("nope"), http.StatusUnauthorized, failure.ReasonUnauthorized},
		{"InternalError", failure.InternalError(errors.New("boom")), http.StatusInternalServerError, failure.ReasonInternal},
		{"StoreFailure", failure.StoreFailure(errors.New("db down")), http.StatusInternalServerError, failure.ReasonStoreFailure},
		{"Unimplemented", failure.Unimplemented("Method"), http.StatusNotImplemented, failure.ReasonUnimplemented},
		{"NotFound", failure.NotFound("missing"), http.StatusNotFound, failure.ReasonNotFound},
		{"Conflict", failure.Conflict("taken"), http.StatusConflict, failure.ReasonConflict},
		{"QuotaExceeded", failure.QuotaExceeded("too many"), http.StatusBadRequest, failure.ReasonQuotaExceeded},
		{"OutOfHours", failure.OutOfHours("closed"), http.StatusBadRequest, failure.ReasonOutOfHours},
		{"Forbidden", failure.Forbidden("denied"), http.StatusForbidden, failure.ReasonForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := failure.GetCode(tt.err); code != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, code)
			}

			if reason := failure.GetReason(tt.err); reason != tt.reason {
				t.Errorf("expected reason %s, got %s", tt.reason, reason)
			}
		})
	}
}

func TestNilInputs(t *testing.T) {
	if failure.BadRequest(nil) != nil {
		t.Error("expected nil for BadRequest(nil)")
	}

	if failure.InternalError(nil) != nil {
		t.Error("expected nil for InternalError(nil)")
	}

	if failure.StoreFailure(nil) != nil {
		t.Error("expected nil for StoreFailure(nil)")
	}
}

func TestGetCodeAndReason_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("failed to create reservation: %w", failure.Conflict("taken"))

	if code := failure.GetCode(wrapped); code != http.StatusConflict {
		t.Errorf("expected code %d, got %d", http.StatusConflict, code)
	}

	if reason := failure.GetReason(wrapped); reason != failure.ReasonConflict {
		t.Errorf("expected reason %s, got %s", failure.ReasonConflict, reason)
	}
}

func TestGetCodeAndReason_PlainError(t *testing.T) {
	err := errors.New("plain")

	if code := failure.GetCode(err); code != http.StatusInternalServerError {
		t.Errorf("expected code %d, got %d", http.StatusInternalServerError, code)
	}

	if reason := failure.GetReason(err); reason != failure.ReasonInternal {
		t.Errorf("expected reason %s, got %s", failure.ReasonInternal, reason)
	}
}
