package service

import "errors"

// Centralized service layer errors.
// Service methods wrap these with %w and context naming the failing stage, so
// handlers match with errors.Is and still show which step went wrong.

// ===== Club Errors =====
var (
	ErrListClubs         = errors.New("failed to list clubs")
	ErrClubNotFound      = errors.New("club not found")
	ErrClubFieldRequired = errors.New("missing required club fields")
	ErrClubNameExists    = errors.New("club name already in the system")
)

// ===== User Errors =====
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserExists        = errors.New("email or username already registered")
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrUserFieldRequired = errors.New("missing required user fields")
	ErrPasswordTooShort  = errors.New("password must be at least 8 characters")
	ErrInvalidRole       = errors.New("unknown role")
)

// ===== Membership Errors =====
var (
	// ErrAdminLinkFailed means the club was persisted but the admin's clubs
	// list was not updated.
	ErrAdminLinkFailed = errors.New("club created but admin membership was not recorded")
	// ErrMemberCleanupFailed means the club was deleted but some members still
	// reference it.
	ErrMemberCleanupFailed = errors.New("club deleted but member cleanup failed")
	// ErrMembershipTargetNotFound is reported through *MembershipTargetError.
	ErrMembershipTargetNotFound = errors.New("not found")
	// ErrMembershipPartial means the club side changed and the user side did not.
	ErrMembershipPartial      = errors.New("membership updated on club only")
	ErrCannotUnsubscribeAdmin = errors.New("club admin cannot unsubscribe from own club")
)
