package apperror

import (
	"fmt"
	"net/http"
)

// Category groups errors the way callers react to them, independent of the
// feature that raised them.
type Category string

const (
	CategoryValidation     Category = "validation"
	CategoryAuthentication Category = "authentication"
	CategoryAuthorization  Category = "authorization"
	CategoryNotFound       Category = "not_found"
	CategoryConflict       Category = "conflict"
	CategoryRateLimit      Category = "rate_limit"
	CategoryStorage        Category = "storage"
)

type AppError struct {
	Code       string // INVALID_INPUT, CONFLICT, ...
	Message    string // aman untuk ditampilkan ke client
	HTTPStatus int
	Err        error // penyebab asli, tidak pernah dikirim ke client
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Category derives the error class from the HTTP status.
func (e *AppError) Category() Category {
	switch e.HTTPStatus {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return CategoryValidation
	case http.StatusUnauthorized:
		return CategoryAuthentication
	case http.StatusForbidden:
		return CategoryAuthorization
	case http.StatusNotFound:
		return CategoryNotFound
	case http.StatusConflict:
		return CategoryConflict
	case http.StatusTooManyRequests:
		return CategoryRateLimit
	default:
		return CategoryStorage
	}
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

// Wrap keeps err as the cause behind a client-safe message. A nil err gives nil.
func Wrap(err error, code, message string, httpStatus int) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus, Err: err}
}
