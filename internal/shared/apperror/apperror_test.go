package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"go-hris-workflow/internal/shared/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestToHTTP(t *testing.T) {
	t.Run("app error", func(t *testing.T) {
		got := apperror.ToHTTP(apperror.ErrForbidden)
		assert.Equal(t, http.StatusForbidden, got.Status)
		assert.Equal(t, apperror.CodeForbidden, got.Code)
	})

	t.Run("wrapped app error", func(t *testing.T) {
		err := fmt.Errorf("decide: %w", apperror.ErrNotFound)
		got := apperror.ToHTTP(err)
		assert.Equal(t, http.StatusNotFound, got.Status)
	})

	t.Run("storage error hides cause", func(t *testing.T) {
		got := apperror.ToHTTP(apperror.Storage(errors.New("pq: connection refused")))
		assert.Equal(t, http.StatusInternalServerError, got.Status)
		assert.Equal(t, "Internal server error", got.Message)
	})

	t.Run("unknown error", func(t *testing.T) {
		got := apperror.ToHTTP(errors.New("boom"))
		assert.Equal(t, http.StatusInternalServerError, got.Status)
		assert.Equal(t, apperror.CodeInternalError, got.Code)
		assert.Equal(t, "Internal server error", got.Message)
	})
}

func TestAppError_Category(t *testing.T) {
	cases := []struct {
		err  *apperror.AppError
		want apperror.Category
	}{
		{apperror.ErrInvalidInput, apperror.CategoryValidation},
		{apperror.ErrUnauthorized, apperror.CategoryAuthentication},
		{apperror.ErrForbidden, apperror.CategoryAuthorization},
		{apperror.ErrNotFound, apperror.CategoryNotFound},
		{apperror.ErrTooManyRequests, apperror.CategoryRateLimit},
		{apperror.New(apperror.CodeConflict, "conflict", http.StatusConflict), apperror.CategoryConflict},
		{apperror.Storage(errors.New("disk full")), apperror.CategoryStorage},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.err.Category(), tc.err.Message)
	}

	assert.Nil(t, apperror.Wrap(nil, apperror.CodeConflict, "x", http.StatusConflict))
	wrapped := apperror.Storage(errors.New("disk full"))
	assert.Equal(t, "Internal server error: disk full", wrapped.Error())
	assert.Equal(t, apperror.CategoryStorage, apperror.ToHTTP(errors.New("boom")).Category)
}

func TestFieldErrors(t *testing.T) {
	assert.Equal(t, "Kind is required", apperror.RequiredField("Kind").Message)
	assert.Equal(t, http.StatusBadRequest, apperror.InvalidField("Kind").HTTPStatus)
}

type sampleInput struct {
	RequesterID string `json:"requesterId" validate:"required"`
	Action      string `json:"action" validate:"omitempty,oneof=approve reject"`
}

func newTagValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
	return v
}

func TestMapValidationError(t *testing.T) {
	v := newTagValidator()

	t.Run("required field", func(t *testing.T) {
		err := apperror.MapValidationError(v.Struct(sampleInput{}))
		var appErr *apperror.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
		assert.Equal(t, "Requester Id is required", appErr.Message)
	})

	t.Run("invalid field", func(t *testing.T) {
		err := apperror.MapValidationError(v.Struct(sampleInput{RequesterID: "u1", Action: "maybe"}))
		assert.Equal(t, "Action is invalid", apperror.ToHTTP(err).Message)
	})

	t.Run("non validator error", func(t *testing.T) {
		err := apperror.MapValidationError(errors.New("unexpected EOF"))
		got := apperror.ToHTTP(err)
		assert.Equal(t, http.StatusBadRequest, got.Status)
		assert.Equal(t, "Invalid input", got.Message)
	})
}
