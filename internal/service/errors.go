package service

import (
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

func internalError(err error, message string) *appErrors.Error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

// validationError reports which struct fields failed and on which rule.
func validationError(err error, message string) *appErrors.Error {
	appErr := appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return appErr
	}
	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = fe.Tag()
	}
	return appErr.WithFields(fields)
}

// lookupError maps sql.ErrNoRows to a NOT_FOUND error and anything else to INTERNAL_ERROR.
func lookupError(err error, notFound, failed string) *appErrors.Error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return internalError(err, failed)
}

// writeError maps appErrors.ErrDuplicate to CONFLICT, sql.ErrNoRows to NOT_FOUND
// and anything else to INTERNAL_ERROR.
func writeError(err error, conflict, notFound, failed string) *appErrors.Error {
	switch {
	case errors.Is(err, appErrors.ErrDuplicate):
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, conflict)
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	default:
		return internalError(err, failed)
	}
}

func paginate(page, size, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}
