package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/forgo/clubhouse/api/internal/database"
	"github.com/forgo/clubhouse/api/internal/model"
)

// MinPasswordLength is the shortest password Register accepts
const MinPasswordLength = 8

// UserStore is the user persistence the registration path needs
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	SetDisabled(ctx context.Context, userID string, disabled bool) error
}

// UserService registers and disables accounts. The HTTP API has no
// registration route; clubctl drives this service.
type UserService struct {
	users  UserStore
	logger *slog.Logger
}

// NewUserService creates a new user service
func NewUserService(users UserStore, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{users: users, logger: logger}
}

// Register validates req, hashes the password with bcrypt and stores the user
func (s *UserService) Register(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	var missing []string
	if strings.TrimSpace(req.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(req.Username) == "" {
		missing = append(missing, "username")
	}
	if strings.TrimSpace(req.Email) == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUserFieldRequired, strings.Join(missing, ", "))
	}

	addr, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEmail, req.Email)
	}
	if len(req.Password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	for _, role := range req.Roles {
		if !role.IsValid() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidRole, role)
		}
	}

	email := strings.ToLower(addr.Address)
	username := strings.TrimSpace(req.Username)
	if err := s.checkAvailable(ctx, email, username); err != nil {
		return nil, err
	}

	hash, err := model.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Username: username,
		Hash:     hash,
		Roles:    req.Roles,
	}
	// The unique indexes still catch a concurrent registration.
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)
	return user, nil
}

// checkAvailable rejects a taken email or username before paying for bcrypt
func (s *UserService) checkAvailable(ctx context.Context, email, username string) error {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to look up email: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("%w: email %s", ErrUserExists, email)
	}

	existing, err = s.users.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to look up username: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("%w: username %s", ErrUserExists, username)
	}
	return nil
}

// SetDisabled flags or unflags an account. Disabled members keep their club
// references when a club is deleted.
func (s *UserService) SetDisabled(ctx context.Context, userID string, disabled bool) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	if err := s.users.SetDisabled(ctx, user.ID, disabled); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}
