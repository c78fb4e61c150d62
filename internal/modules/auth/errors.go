package auth

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindServer
)

// AppError is a failure a handler can show to the client as is.
type AppError struct {
	Kind    Kind
	Message string
	// Status overrides the kind's default status code when non-zero.
	Status int
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func newError(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

var (
	ErrSignupFieldsRequired   = newError(KindValidation, "Username, email, and password are required")
	ErrLoginFieldsRequired    = newError(KindValidation, "Username and password are required")
	ErrEmailRequired          = newError(KindValidation, "Email is required")
	ErrPasswordMismatch       = newError(KindValidation, "Password and Confirm-password do not match")
	ErrTokenMissing           = newError(KindValidation, "Token is missing")
	ErrChangeFieldsRequired   = newError(KindValidation, "Token and new email are required")
	ErrPasswordFieldsRequired = newError(KindValidation, "Token, password and confirm-password are required")
	ErrInvalidCredentials     = newError(KindValidation, "Invalid username or password")
	ErrAlreadyVerified        = newError(KindValidation, "User already verified")
	ErrNoOpChange             = newError(KindValidation, "Old email and new email cannot be the same")

	ErrEmailExists    = newError(KindConflict, "Email already exists")
	ErrUsernameExists = newError(KindConflict, "Username already exists")
	ErrEmailInUse     = newError(KindConflict, "Cannot use this email")

	ErrNotVerified = newError(KindUnauthorized, "User not verified")

	ErrInvalidToken = newError(KindForbidden, "Invalid or expired token")

	// Unknown accounts answer 400 in every flow that looks them up by a
	// client-supplied value.
	ErrUserDoesNotExist = &AppError{Kind: KindNotFound, Message: "User does not exist", Status: http.StatusBadRequest}
	ErrUserNotFound     = &AppError{Kind: KindNotFound, Message: "User not found", Status: http.StatusBadRequest}
	ErrNoAccountByEmail = &AppError{Kind: KindNotFound, Message: "No account found with this email.", Status: http.StatusBadRequest}

	ErrServer = newError(KindServer, "Server error")
)

// AsAppError unwraps err to an AppError. Anything else is reported as ErrServer.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return ErrServer, false
}
