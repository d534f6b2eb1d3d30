package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/forgo/clubhouse/api/internal/database"
	"github.com/forgo/clubhouse/api/internal/model"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ClubRepository defines the interface for club storage
type ClubRepository interface {
	Create(ctx context.Context, club *model.Club) error
	GetByID(ctx context.Context, id string) (*model.Club, error)
	GetByName(ctx context.Context, name string) (*model.Club, error)
	List(ctx context.Context) ([]*model.ClubListing, error)
	GetDetail(ctx context.Context, id string) (*model.ClubDetail, error)
	Delete(ctx context.Context, id string) (*model.Club, error)
	AddMember(ctx context.Context, clubID, userID string) (bool, error)
	RemoveMember(ctx context.Context, clubID, userID string) (bool, error)
}

// UserRepository defines the user operations clubs and memberships need
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	AddClub(ctx context.Context, userID, clubID string) (bool, error)
	RemoveClub(ctx context.Context, userID, clubID string) (bool, error)
	RemoveClubFromUsers(ctx context.Context, clubID string, userIDs []string) (int, error)
}

// ClubService lists, creates and deletes clubs
type ClubService struct {
	clubRepo ClubRepository
	userRepo UserRepository
	tracer   trace.Tracer
	recorder OperationRecorder
	logger   *slog.Logger
}

// ClubServiceConfig holds configuration for the club service
type ClubServiceConfig struct {
	ClubRepo ClubRepository
	UserRepo UserRepository
	Tracer   trace.Tracer      // optional, defaults to the global provider
	Recorder OperationRecorder // optional
	Logger   *slog.Logger      // optional, defaults to slog.Default()
}

// NewClubService creates a new club service
func NewClubService(cfg ClubServiceConfig) *ClubService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ClubService{
		clubRepo: cfg.ClubRepo,
		userRepo: cfg.UserRepo,
		tracer:   defaultTracer(cfg.Tracer),
		recorder: cfg.Recorder,
		logger:   logger,
	}
}

// ClubResult is returned by CreateClub and DeleteClub
type ClubResult struct {
	Club    *model.Club
	Message string
	// CleanedUp is the number of member documents DeleteClub updated.
	CleanedUp int
}

// ListClubs returns every club, newest first
func (s *ClubService) ListClubs(ctx context.Context) (clubs []*model.ClubListing, err error) {
	ctx, done := observe(ctx, s.tracer, s.recorder, "ClubService.ListClubs")
	defer func() { done(err) }()

	clubs, err = s.clubRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrListClubs, err)
	}
	return clubs, nil
}

// GetClub returns a club with its admin and members expanded
func (s *ClubService) GetClub(ctx context.Context, clubID string) (detail *model.ClubDetail, err error) {
	ctx, done := observe(ctx, s.tracer, s.recorder, "ClubService.GetClub",
		attribute.String("club_id", clubID))
	defer func() { done(err) }()

	detail, err = s.clubRepo.GetDetail(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to get club: %w", err)
	}
	if detail == nil {
		return nil, fmt.Errorf("%w: %s", ErrClubNotFound, clubID)
	}
	return detail, nil
}

// CreateClub persists a club owned by req.IDAdmin and records the club on the
// admin. The club is not rolled back if the second write fails.
func (s *ClubService) CreateClub(ctx context.Context, req *model.CreateClubRequest) (result *ClubResult, err error) {
	ctx, done := observe(ctx, s.tracer, s.recorder, "ClubService.CreateClub",
		attribute.String("club_name", req.ClubName),
		attribute.String("admin_id", req.IDAdmin))
	defer func() { done(err) }()

	if missing := missingClubFields(req); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrClubFieldRequired, strings.Join(missing, ", "))
	}
	name := strings.TrimSpace(req.ClubName)

	existing, err := s.clubRepo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check club name: %w", err)
	}
	if existing != nil {
		return nil, ErrClubNameExists
	}

	admin, err := s.userRepo.GetByID(ctx, req.IDAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}
	if admin == nil {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, req.IDAdmin)
	}

	club := &model.Club{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
		Admin:       admin.ID,
	}
	if err := s.clubRepo.Create(ctx, club); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrClubNameExists
		}
		return nil, fmt.Errorf("failed to create club: %w", err)
	}

	linked, err := s.userRepo.AddClub(ctx, admin.ID, club.ID)
	if err == nil && !linked {
		err = fmt.Errorf("admin %s no longer exists", admin.ID)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "club persisted without admin link",
			slog.String("club_id", club.ID),
			slog.String("admin_id", admin.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %w", ErrAdminLinkFailed, err)
	}

	s.logger.InfoContext(ctx, "club created",
		slog.String("club_id", club.ID),
		slog.String("club_name", club.Name),
	)
	return &ClubResult{
		Club:    club,
		Message: fmt.Sprintf("Club successful created %s", club.Name),
	}, nil
}

// DeleteClub removes a club and strips it from every enabled member. The
// deletion stands even if the cleanup fails.
func (s *ClubService) DeleteClub(ctx context.Context, clubID string) (result *ClubResult, err error) {
	ctx, done := observe(ctx, s.tracer, s.recorder, "ClubService.DeleteClub",
		attribute.String("club_id", clubID))
	defer func() { done(err) }()

	club, err := s.clubRepo.Delete(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete club: %w", err)
	}
	if club == nil {
		return nil, fmt.Errorf("%w: %s", ErrClubNotFound, clubID)
	}

	cleaned, err := s.userRepo.RemoveClubFromUsers(ctx, club.ID, club.UsersList)
	if err != nil {
		s.logger.ErrorContext(ctx, "club deleted but members still reference it",
			slog.String("club_id", club.ID),
			slog.Int("members", len(club.UsersList)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %w", ErrMemberCleanupFailed, err)
	}

	s.logger.InfoContext(ctx, "club deleted",
		slog.String("club_id", club.ID),
		slog.Int("members_cleaned", cleaned),
	)
	return &ClubResult{
		Club:      club,
		Message:   "Deleted!",
		CleanedUp: cleaned,
	}, nil
}

func missingClubFields(req *model.CreateClubRequest) []string {
	var missing []string
	if strings.TrimSpace(req.ClubName) == "" {
		missing = append(missing, "clubName")
	}
	if strings.TrimSpace(req.IDAdmin) == "" {
		missing = append(missing, "idAdmin")
	}
	if strings.TrimSpace(req.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(req.Category) == "" {
		missing = append(missing, "category")
	}
	return missing
}
