package authzerrors

import (
	"net/http"

	"go-hris-workflow/internal/shared/apperror"
)

var (
	ErrTokenMissing = apperror.New(
		apperror.CodeUnauthorized,
		"Token not found",
		http.StatusUnauthorized,
	)
	ErrInvalidToken = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid token",
		http.StatusUnauthorized,
	)
	ErrTokenExpired = apperror.New(
		apperror.CodeUnauthorized,
		"Token expired",
		http.StatusUnauthorized,
	)
	ErrInvalidView = apperror.New(
		apperror.CodeValidation,
		"view must be one of all, my, team",
		http.StatusBadRequest,
	)
	ErrNotApprover = apperror.New(
		apperror.CodeForbidden,
		"your role cannot decide on requests",
		http.StatusForbidden,
	)
	ErrRoleNotRequired = apperror.New(
		apperror.CodeForbidden,
		"your role is not a required approver for this request",
		http.StatusForbidden,
	)
	ErrNotAssignee = apperror.New(
		apperror.CodeForbidden,
		"this request is assigned to another approver",
		http.StatusForbidden,
	)
	ErrApproverNameMismatch = apperror.New(
		apperror.CodeForbidden,
		"approverName does not match the authenticated user",
		http.StatusForbidden,
	)
	ErrRequestNotVisible = apperror.New(
		apperror.CodeForbidden,
		"You do not have permission to access this request",
		http.StatusForbidden,
	)
)
