package request

import (
	"errors"
	"strings"

	requesterrors "go-hris-workflow/internal/request/errors"
	"go-hris-workflow/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return requesterrors.ErrRequestNotFound
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return requesterrors.ErrDuplicateRequest
	}
	if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
		return requesterrors.ErrDuplicateRequest
	}

	return apperror.Storage(err)
}
