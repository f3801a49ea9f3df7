package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeInvalidState ErrorType = "INVALID_STATE"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
	ErrorTypeUnavailable  ErrorType = "DEPENDENCY_UNAVAILABLE"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidDateRange ErrorCode = "INVALID_DATE_RANGE"
	ErrCodeInvalidLeaveType ErrorCode = "INVALID_LEAVE_TYPE"
	ErrCodeInvalidDecision  ErrorCode = "INVALID_DECISION"
	ErrCodeInvalidRole      ErrorCode = "INVALID_ROLE"
	ErrCodeEmailRegistered  ErrorCode = "EMAIL_ALREADY_REGISTERED"

	ErrCodeLeaveNotFound       ErrorCode = "LEAVE_NOT_FOUND"
	ErrCodeLeaveAlreadyDecided ErrorCode = "LEAVE_ALREADY_DECIDED"
	ErrCodeRoleNotPermitted    ErrorCode = "ROLE_NOT_PERMITTED"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeMissingToken       ErrorCode = "MISSING_TOKEN"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"

	ErrCodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

// NewInvalidStateError reports an operation that is not valid for the
// resource's current lifecycle state. Deliberately a 400, not a 409: the
// original API reported "already decided" as a bad request.
func NewInvalidStateError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidState,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewUnavailableError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeUnavailable,
		Code:       ErrCodeStoreUnavailable,
		Message:    message,
		StatusCode: http.StatusServiceUnavailable,
		Cause:      cause,
	}
}

var (
	ErrLeaveNotFound       = NewNotFoundError("leave not found", ErrCodeLeaveNotFound)
	ErrLeaveAlreadyDecided = NewInvalidStateError("leave already decided", ErrCodeLeaveAlreadyDecided)
	ErrRoleNotPermitted    = NewForbiddenError("role not permitted for this action", ErrCodeRoleNotPermitted)

	ErrEmailRegistered    = NewValidationError("email already registered", ErrCodeEmailRegistered)
	ErrInvalidCredentials = NewUnauthorizedError("invalid credentials", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewForbiddenError("user account is inactive", ErrCodeUserInactive)
	ErrMissingToken       = NewUnauthorizedError("missing auth token", ErrCodeMissingToken)
	ErrInvalidToken       = NewUnauthorizedError("invalid token", ErrCodeInvalidToken)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
