package handler

import (
	"errors"
	"fmt"

	"github.com/forgo/clubhouse/api/internal/model"
	"github.com/forgo/clubhouse/api/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// Not-found is always 404; anything unrecognised is a storage failure (400).
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	var target *service.MembershipTargetError
	switch {
	// ===== Not Found Errors → 404 =====
	case errors.As(err, &target):
		return model.NewNotFoundError(fmt.Sprintf("Club %s or user %s not found", target.ClubID, target.UserID))
	case errors.Is(err, service.ErrClubNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrMembershipTargetNotFound):
		return model.NewNotFoundError(err.Error())

	// ===== Duplicate Errors → 406 =====
	case errors.Is(err, service.ErrClubNameExists):
		return model.NewDuplicateError("Club name already in the system.")

	// ===== Validation Errors → 400 =====
	case errors.Is(err, service.ErrClubFieldRequired):
		return model.NewValidationError([]model.FieldError{{Field: "club", Message: err.Error()}})
	case errors.Is(err, service.ErrCannotUnsubscribeAdmin):
		return model.NewBadRequestError(err.Error())

	// ===== Partial Writes =====
	case errors.Is(err, service.ErrAdminLinkFailed),
		errors.Is(err, service.ErrMembershipPartial):
		return model.NewPartialUpdateError(err.Error())
	case errors.Is(err, service.ErrMemberCleanupFailed):
		return model.NewInternalError(err.Error())

	// ===== Default → 400 =====
	default:
		return model.NewStorageError(err.Error())
	}
}
