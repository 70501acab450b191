package approvalerrors

import (
	"net/http"

	"go-hris-workflow/internal/shared/apperror"
)

var (
	ErrAlreadyFinalized = apperror.New(
		apperror.CodeConflict,
		"request already decided",
		http.StatusConflict,
	)
	ErrAlreadyDecided = apperror.New(
		apperror.CodeConflict,
		"you already acted on this request",
		http.StatusConflict,
	)
	ErrInvalidAction = apperror.New(
		apperror.CodeValidation,
		"action must be approve or reject",
		http.StatusBadRequest,
	)
	ErrInvalidApproverRole = apperror.New(
		apperror.CodeValidation,
		"approver role must be teamLead or hr",
		http.StatusBadRequest,
	)
	ErrCommentRequired = apperror.New(
		apperror.CodeValidation,
		"comment is required when rejecting",
		http.StatusBadRequest,
	)
)
