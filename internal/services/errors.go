package services

import (
	"net/http"

	"github.com/pkg/errors"
)

// Kind classifies a failure for the HTTP layer.
type Kind int

const (
	// KindCollaborator covers unexpected failures of the database, media
	// host or any other dependency.
	KindCollaborator Kind = iota
	KindUnauthorized
	KindValidation
	KindConflict
)

// AppError is an error with a caller-facing message.
type AppError struct {
	Kind    Kind
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// HTTPCode maps the error kind to a status code. Only authorization failures
// use 401; everything else, including dependency failures, is a 400.
func (e *AppError) HTTPCode() int {
	if e.Kind == KindUnauthorized {
		return http.StatusUnauthorized
	}
	return http.StatusBadRequest
}

var (
	ErrUnauthorized          = &AppError{Kind: KindUnauthorized, Message: "Unauthorized"}
	ErrSellerNotAuthorized   = &AppError{Kind: KindUnauthorized, Message: "not authorized"}
	ErrMissingStoreInfo      = &AppError{Kind: KindValidation, Message: "missing store info"}
	ErrMissingProductDetails = &AppError{Kind: KindValidation, Message: "missing product details"}
	ErrUsernameTaken         = &AppError{Kind: KindConflict, Message: "username already taken"}
	ErrInvalidCredentials    = &AppError{Kind: KindUnauthorized, Message: "invalid credentials"}
	ErrAccountExists         = &AppError{Kind: KindConflict, Message: "username or email already registered"}
)

// KindOf returns the kind of err, or KindCollaborator for errors that did
// not originate from this package.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindCollaborator
}

// HTTPStatus returns the status code that should be sent for err.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPCode()
	}
	return http.StatusBadRequest
}

// PublicMessage returns the text sent to API callers for err.
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
