package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/forgo/clubhouse/api/internal/model"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// MembershipMode selects how the two sides of a membership are written
type MembershipMode string

const (
	// MembershipModePaired writes the club then the user as separate
	// statements. A failure between them leaves the club side updated.
	MembershipModePaired MembershipMode = "paired"
	// MembershipModeAtomic writes both sides in one transaction.
	MembershipModeAtomic MembershipMode = "atomic"
)

// IsValid returns true if the mode is known
func (m MembershipMode) IsValid() bool {
	return m == MembershipModePaired || m == MembershipModeAtomic
}

// MembershipRepository writes both sides of a membership in one transaction
type MembershipRepository interface {
	Link(ctx context.Context, userID, clubID string) error
	Unlink(ctx context.Context, userID, clubID string) error
}

// MembershipService keeps user.clubs and club.users_list in step
type MembershipService struct {
	clubRepo       ClubRepository
	userRepo       UserRepository
	membershipRepo MembershipRepository
	mode           MembershipMode
	tracer         trace.Tracer
	recorder       OperationRecorder
	logger         *slog.Logger
}

// MembershipServiceConfig holds configuration for the membership service
type MembershipServiceConfig struct {
	ClubRepo       ClubRepository
	UserRepo       UserRepository
	MembershipRepo MembershipRepository // atomic mode without it runs paired
	Mode           MembershipMode       // defaults to paired
	Tracer         trace.Tracer
	Recorder       OperationRecorder
	Logger         *slog.Logger
}

// NewMembershipService creates a new membership service
func NewMembershipService(cfg MembershipServiceConfig) *MembershipService {
	mode := cfg.Mode
	if mode == "" {
		mode = MembershipModePaired
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if mode == MembershipModeAtomic && cfg.MembershipRepo == nil {
		logger.Warn("atomic membership mode needs a membership repository, using paired")
		mode = MembershipModePaired
	}
	return &MembershipService{
		clubRepo:       cfg.ClubRepo,
		userRepo:       cfg.UserRepo,
		membershipRepo: cfg.MembershipRepo,
		mode:           mode,
		tracer:         defaultTracer(cfg.Tracer),
		recorder:       cfg.Recorder,
		logger:         logger,
	}
}

// Mode returns the write mode in use
func (s *MembershipService) Mode() MembershipMode {
	return s.mode
}

// MembershipResult is returned by Subscribe and Unsubscribe
type MembershipResult struct {
	UserID  string
	ClubID  string
	Message string
}

// Subscribe adds the user to the club and the club to the user. Calling it
// for an existing member changes nothing and still succeeds.
func (s *MembershipService) Subscribe(ctx context.Context, userID, clubID string) (result *MembershipResult, err error) {
	ctx, done := observe(ctx, s.tracer, s.recorder, "MembershipService.Subscribe",
		attribute.String("user_id", userID),
		attribute.String("club_id", clubID),
		attribute.String("mode", string(s.mode)))
	defer func() { done(err) }()

	user, club, err := s.load(ctx, userID, clubID)
	if err != nil {
		return nil, err
	}

	// A half-recorded membership falls through and is completed.
	switch {
	case club.HasMember(user.ID) && user.InClub(club.ID):
	case s.mode == MembershipModeAtomic:
		if err := s.membershipRepo.Link(ctx, user.ID, club.ID); err != nil {
			return nil, fmt.Errorf("failed to subscribe: %w", err)
		}
	default:
		if err := s.pairedWrite(ctx, user, club, s.clubRepo.AddMember, s.userRepo.AddClub); err != nil {
			return nil, err
		}
	}

	return &MembershipResult{
		UserID:  user.ID,
		ClubID:  club.ID,
		Message: fmt.Sprintf("User %s is now subscribed to %s", user.Name, club.Name),
	}, nil
}

// Unsubscribe removes the user from the club and the club from the user.
// Non-members succeed without changes. The club admin is refused.
func (s *MembershipService) Unsubscribe(ctx context.Context, userID, clubID string) (result *MembershipResult, err error) {
	ctx, done := observe(ctx, s.tracer, s.recorder, "MembershipService.Unsubscribe",
		attribute.String("user_id", userID),
		attribute.String("club_id", clubID),
		attribute.String("mode", string(s.mode)))
	defer func() { done(err) }()

	user, club, err := s.load(ctx, userID, clubID)
	if err != nil {
		return nil, err
	}
	if club.Admin == user.ID {
		return nil, fmt.Errorf("%w: %s", ErrCannotUnsubscribeAdmin, club.Name)
	}

	switch {
	case !club.HasMember(user.ID) && !user.InClub(club.ID):
	case s.mode == MembershipModeAtomic:
		if err := s.membershipRepo.Unlink(ctx, user.ID, club.ID); err != nil {
			return nil, fmt.Errorf("failed to unsubscribe: %w", err)
		}
	default:
		if err := s.pairedWrite(ctx, user, club, s.clubRepo.RemoveMember, s.userRepo.RemoveClub); err != nil {
			return nil, err
		}
	}

	return &MembershipResult{
		UserID:  user.ID,
		ClubID:  club.ID,
		Message: fmt.Sprintf("User %s stop follow club %s", user.Name, club.Name),
	}, nil
}

// load fetches both sides. Either missing yields ErrMembershipTargetNotFound
// naming both ids.
func (s *MembershipService) load(ctx context.Context, userID, clubID string) (*model.User, *model.Club, error) {
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load club: %w", err)
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}
	if club == nil || user == nil {
		return nil, nil, targetNotFound(clubID, userID)
	}
	return user, club, nil
}

type clubSideWrite func(ctx context.Context, clubID, userID string) (bool, error)
type userSideWrite func(ctx context.Context, userID, clubID string) (bool, error)

// pairedWrite runs the club-side write, then the user-side write. The first
// failing stops before the second; the second failing is reported as partial
// and nothing is undone.
func (s *MembershipService) pairedWrite(ctx context.Context, user *model.User, club *model.Club, clubWrite clubSideWrite, userWrite userSideWrite) error {
	ok, err := clubWrite(ctx, club.ID, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update club members: %w", err)
	}
	if !ok {
		return targetNotFound(club.ID, user.ID)
	}

	ok, err = userWrite(ctx, user.ID, club.ID)
	if err == nil && !ok {
		err = fmt.Errorf("user %s no longer exists", user.ID)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "membership updated on club only",
			slog.String("club_id", club.ID),
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %w", ErrMembershipPartial, err)
	}
	return nil
}

// MembershipTargetError names both ids when the club or the user is missing.
// It matches ErrMembershipTargetNotFound under errors.Is.
type MembershipTargetError struct {
	ClubID string
	UserID string
}

func (e *MembershipTargetError) Error() string {
	return fmt.Sprintf("club %s or user %s %s", e.ClubID, e.UserID, ErrMembershipTargetNotFound)
}

func (e *MembershipTargetError) Is(target error) bool {
	return target == ErrMembershipTargetNotFound
}

func targetNotFound(clubID, userID string) error {
	return &MembershipTargetError{ClubID: clubID, UserID: userID}
}
