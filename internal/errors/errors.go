package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound is returned by repositories when no document matches.
	ErrNotFound = errors.New("not found")
	// ErrUserExists is returned when a username or email is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials is returned when username/email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrNotAuthenticated is returned when a request carries no usable identity.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrInvalidToken is returned when a token fails signature or claim checks.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned when a token's expiry instant is in the past.
	ErrTokenExpired = errors.New("token expired")
	// ErrInactiveUser is returned when the resolved account is deactivated.
	ErrInactiveUser = errors.New("inactive user")
	// ErrNotVerified is returned when the resolved account has an unverified email.
	ErrNotVerified = errors.New("email not verified")
	// ErrValidation is returned when a record fails construction-time validation.
	ErrValidation = errors.New("validation error")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Authentication failures
// map to 401, account-state failures to 403, per the error taxonomy.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "NOT_AUTHENTICATED")
	case errors.Is(err, ErrTokenExpired):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "TOKEN_EXPIRED")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_TOKEN")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrInactiveUser):
		return NewHTTPError(http.StatusForbidden, err.Error(), "INACTIVE_USER")
	case errors.Is(err, ErrNotVerified):
		return NewHTTPError(http.StatusForbidden, err.Error(), "EMAIL_NOT_VERIFIED")
	case errors.Is(err, ErrUserExists):
		return NewHTTPError(http.StatusConflict, err.Error(), "USER_ALREADY_EXISTS")
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
