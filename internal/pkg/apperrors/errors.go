package apperrors

import "errors"

// Resource errors
var (
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")
)

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrAccountDisabled    = errors.New("account is disabled")
)

// Authorization errors
var (
	ErrPermissionDenied = errors.New("permission denied")
)

// Validation errors
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
	ErrUnsupportedFile  = errors.New("unsupported file type")
)

// Domain lookups. Each unwraps to ErrResourceNotFound.
var (
	ErrUserNotFound         = notFound("user not found")
	ErrProfileNotFound      = notFound("profile not found")
	ErrCourseNotFound       = notFound("course not found")
	ErrSectionNotFound      = notFound("section not found")
	ErrLessonNotFound       = notFound("lesson not found")
	ErrLessonVideoNotFound  = notFound("lesson video not found")
	ErrCommentNotFound      = notFound("comment not found")
	ErrReplyNotFound        = notFound("reply not found")
	ErrNotificationNotFound = notFound("notification not found")
)

// Domain conflicts. Each unwraps to ErrConflict.
var (
	ErrUsernameTaken   = &CustomError{Err: ErrConflict, Message: "a user with that username already exists"}
	ErrCourseNameTaken = &CustomError{Err: ErrConflict, Message: "course with this name already exists"}
)

func notFound(message string) error {
	return &CustomError{Err: ErrResourceNotFound, Message: message}
}

// NewResourceNotFoundError creates a not-found error with a client-facing message
func NewResourceNotFoundError(message string) error {
	return &CustomError{Err: ErrResourceNotFound, Message: message}
}

// NewConflictError creates a conflict error with a client-facing message
func NewConflictError(message string) error {
	return &CustomError{Err: ErrConflict, Message: message}
}

// NewForbiddenError creates a permission error with a client-facing message
func NewForbiddenError(message string) error {
	return &CustomError{Err: ErrPermissionDenied, Message: message}
}

// NewBadRequestError creates a bad request error with a client-facing message
func NewBadRequestError(message string) error {
	return &CustomError{Err: ErrBadRequest, Message: message}
}

// NewValidationError creates a validation error naming the offending fields
func NewValidationError(message string, fields map[string]interface{}) error {
	return &CustomError{Err: ErrValidationFailed, Message: message, Details: fields}
}

// Is reports whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// CustomError carries a client-facing message on top of a sentinel
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError wraps err with a message
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{Err: err, Message: message}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
