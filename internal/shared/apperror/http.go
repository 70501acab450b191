package apperror

import (
	"errors"
	"net/http"
)

// HTTPError adalah bentuk error yang siap ditulis ke response.
type HTTPError struct {
	Status   int
	Code     string
	Category Category
	Message  string
	Details  any
}

// ToHTTP maps any error to its transport representation. Errors that are
// not AppError become an opaque 500.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.HTTPStatus > 0 {
		return HTTPError{
			Status:   appErr.HTTPStatus,
			Code:     appErr.Code,
			Category: appErr.Category(),
			Message:  appErr.Message,
		}
	}
	return HTTPError{
		Status:   http.StatusInternalServerError,
		Code:     CodeInternalError,
		Category: CategoryStorage,
		Message:  "Internal server error",
	}
}
