package failure

import (
	"errors"
	"net/http"
)

// Reasons let clients tell apart rejections that share an HTTP status.
const (
	ReasonValidation    = "validation"
	ReasonNotFound      = "not_found"
	ReasonQuotaExceeded = "quota_exceeded"
	ReasonOutOfHours    = "out_of_hours"
	ReasonConflict      = "conflict"
	ReasonUnauthorized  = "unauthorized"
	ReasonForbidden     = "forbidden"
	ReasonStoreFailure  = "store_failure"
	ReasonInternal      = "internal"
	ReasonUnimplemented = "unimplemented"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

var InvalidPageParam = &Failure{Code: http.StatusBadRequest, Message: "invalid page parameter", Reason: ReasonValidation}
var InvalidLimitParam = &Failure{Code: http.StatusBadRequest, Message: "invalid limit parameter", Reason: ReasonValidation}
var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions", Reason: ReasonForbidden}
var ResourceRestrictedError = &Failure{Code: http.StatusForbidden, Message: "You don't have permission to access this resource", Reason: ReasonForbidden}

// Error returns the error code and message in a formatted string.
func (e *Failure) Error() string {
	return e.Message
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
			Reason:  ReasonValidation,
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Message: msg,
		Reason:  ReasonValidation,
	}
}

// Unauthorized returns a new Failure with code for unauthorized requests.
func Unauthorized(msg string) error {
	return &Failure{
		Code:    http.StatusUnauthorized,
		Message: msg,
		Reason:  ReasonUnauthorized,
	}
}

// InternalError returns a new Failure with code for internal error and message derived from an error interface.
func InternalError(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
			Reason:  ReasonInternal,
		}
	}

	return nil
}

// StoreFailure reports an entity store error the caller cannot recover from.
func StoreFailure(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
			Reason:  ReasonStoreFailure,
		}
	}

	return nil
}

// Unimplemented returns a new Failure with code for unimplemented method.
func Unimplemented(methodName string) error {
	return &Failure{
		Code:    http.StatusNotImplemented,
		Message: methodName,
		Reason:  ReasonUnimplemented,
	}
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Message: entityName,
		Reason:  ReasonNotFound,
	}
}

// Conflict returns a new Failure with code for conflict situations.
func Conflict(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Message: message,
		Reason:  ReasonConflict,
	}
}

// QuotaExceeded is returned when a user already holds the maximum number of reservations.
func QuotaExceeded(message string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Message: message,
		Reason:  ReasonQuotaExceeded,
	}
}

// OutOfHours is returned when an interval falls outside a space's operating window.
func OutOfHours(message string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Message: message,
		Reason:  ReasonOutOfHours,
	}
}

func Forbidden(msg string) error {
	return &Failure{
		Code:    http.StatusForbidden,
		Message: msg,
		Reason:  ReasonForbidden,
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetReason returns the machine readable reason of an error interface.
func GetReason(err error) string {
	var fail *Failure
	if errors.As(err, &fail) && fail.Reason != "" {
		return fail.Reason
	}

	return ReasonInternal
}
