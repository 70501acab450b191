package requesterrors

import (
	"net/http"

	"go-hris-workflow/internal/shared/apperror"
)

var (
	ErrInvalidKind = apperror.New(
		apperror.CodeValidation,
		"kind must be leave or wfh",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeValidation,
		"leaveType must be one of annual, sick, unpaid, casual, emergency",
		http.StatusBadRequest,
	)
	ErrInvalidWorkType = apperror.New(
		apperror.CodeValidation,
		"workType must be full_day or half_day",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeValidation,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeValidation,
		"startDate must be before or equal endDate",
		http.StatusBadRequest,
	)
	ErrDatesRequired = apperror.New(
		apperror.CodeValidation,
		"dates is required for wfh requests",
		http.StatusBadRequest,
	)
	ErrInvalidApprover = apperror.New(
		apperror.CodeValidation,
		"requiredApprovers may only contain teamLead and hr",
		http.StatusBadRequest,
	)
	ErrAssignmentNotRequired = apperror.New(
		apperror.CodeValidation,
		"approverAssignment names a role that is not a required approver",
		http.StatusBadRequest,
	)
	ErrRequesterMismatch = apperror.New(
		apperror.CodeForbidden,
		"you can only submit requests for yourself",
		http.StatusForbidden,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"request not found",
		http.StatusNotFound,
	)
	ErrConcurrentDecision = apperror.New(
		apperror.CodeConflict,
		"request was modified concurrently, refresh and try again",
		http.StatusConflict,
	)
	ErrDuplicateRequest = apperror.New(
		apperror.CodeConflict,
		"request already exists",
		http.StatusConflict,
	)
)
