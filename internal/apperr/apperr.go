package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindRateLimit
)

// Status maps a kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is an application error safe to show to clients. Err holds the
// internal cause and is never serialized.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details map[string]interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// With returns a copy of e carrying an extra detail field.
func (e *Error) With(key string, value interface{}) *Error {
	details := make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	out := *e
	out.Details = details
	return &out
}

// Wrap returns a copy of e with cause attached.
func (e *Error) Wrap(cause error) *Error {
	out := *e
	out.Err = cause
	return &out
}

// Body renders e as the failure envelope sent to clients. Details are
// merged in at the top level.
func (e *Error) Body() map[string]interface{} {
	body := make(map[string]interface{}, len(e.Details)+3)
	for k, v := range e.Details {
		body[k] = v
	}
	body["success"] = false
	body["error"] = e.Message
	body["code"] = e.Code
	return body
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Validation(code, message string) *Error {
	return New(KindValidation, code, message)
}

func Authentication(code, message string) *Error {
	return New(KindAuthentication, code, message)
}

func Authorization(code, message string) *Error {
	return New(KindAuthorization, code, message)
}

func NotFound(code, message string) *Error {
	return New(KindNotFound, code, message)
}

func Conflict(code, message string) *Error {
	return New(KindConflict, code, message)
}

func RateLimit(code, message string) *Error {
	return New(KindRateLimit, code, message)
}

func Internal(code, message string, cause error) *Error {
	return &Error{Kind: KindInternal, Code: code, Message: message, Err: cause}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Common errors shared by several handlers.
var (
	ErrAuthRequired    = Authentication("AUTH_REQUIRED", "Authentication required")
	ErrInvalidToken    = Authentication("INVALID_TOKEN", "Invalid or expired token")
	ErrAuthFailed      = Authentication("AUTH_FAILED", "Invalid email or password")
	ErrForbidden       = Authorization("AUTH_FORBIDDEN", "Insufficient permissions")
	ErrTenantRequired  = Validation("TENANT_REQUIRED", "Tenant ID required")
	ErrTenantForbidden = Authorization("TENANT_FORBIDDEN", "Access denied to this tenant")
	ErrRateLimited     = RateLimit("RATE_LIMITED", "Too many requests")
	ErrEndpointMissing = NotFound("NOT_FOUND", "Endpoint not found")
)
