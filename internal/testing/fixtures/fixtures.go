package fixtures

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"github.com/forgo/clubhouse/api/internal/database"
	"github.com/forgo/clubhouse/api/internal/model"
	"github.com/forgo/clubhouse/api/internal/repository"
)

// defaultPassword is the plaintext password of every fixture user
const defaultPassword = "testpass123"

// Factory creates test entities in the database
type Factory struct {
	users *repository.UserRepository
	clubs *repository.ClubRepository

	mu    sync.Mutex
	faker *gofakeit.Faker
}

// New creates a new fixture factory with a random seed
func New(db database.Database) *Factory {
	return &Factory{
		users: repository.NewUserRepository(db),
		clubs: repository.NewClubRepository(db),
		faker: gofakeit.New(0),
	}
}

func ctx(t *testing.T) context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return c
}

// unique suffixes generated values so unique indexes never collide
func unique() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

// User fixtures

// UserOpts customizes user creation
type UserOpts struct {
	Name     string
	Email    string
	Username string
	Password string
	Roles    []model.UserRole
	Disabled bool
}

// WithRoles overrides the default user role
func WithRoles(roles ...model.UserRole) func(*UserOpts) {
	return func(o *UserOpts) { o.Roles = roles }
}

// Disabled creates the user with the disabled flag set
func Disabled() func(*UserOpts) {
	return func(o *UserOpts) { o.Disabled = true }
}

// CreateUser creates a user with optional customizations
func (f *Factory) CreateUser(t *testing.T, opts ...func(*UserOpts)) *model.User {
	t.Helper()

	f.mu.Lock()
	suffix := unique()
	o := &UserOpts{
		Name:     f.faker.Name(),
		Email:    fmt.Sprintf("%s_%s@test.local", strings.ToLower(f.faker.FirstName()), suffix),
		Username: fmt.Sprintf("%s_%s", f.faker.Username(), suffix),
		Password: defaultPassword,
		Roles:    []model.UserRole{model.UserRoleUser},
	}
	f.mu.Unlock()

	for _, fn := range opts {
		fn(o)
	}

	hash, err := model.HashPassword(o.Password)
	if err != nil {
		t.Fatalf("fixtures: hash password: %v", err)
	}

	user := &model.User{
		Name:     o.Name,
		Email:    o.Email,
		Username: o.Username,
		Hash:     hash,
		Roles:    o.Roles,
		Disabled: o.Disabled,
	}
	if err := f.users.Create(ctx(t), user); err != nil {
		t.Fatalf("fixtures: create user: %v", err)
	}
	return user
}

// CreateModerator creates a user allowed to create clubs
func (f *Factory) CreateModerator(t *testing.T) *model.User {
	t.Helper()
	return f.CreateUser(t, WithRoles(model.UserRoleUser, model.UserRoleModerator))
}

// Club fixtures

// ClubOpts customizes club creation
type ClubOpts struct {
	Name        string
	Description string
	Category    string
}

// WithClubName sets a fixed club name
func WithClubName(name string) func(*ClubOpts) {
	return func(o *ClubOpts) { o.Name = name }
}

// CreateClub creates a club administered by admin. Only the club side is
// written; use Join to link members in both directions.
func (f *Factory) CreateClub(t *testing.T, admin *model.User, opts ...func(*ClubOpts)) *model.Club {
	t.Helper()

	f.mu.Lock()
	o := &ClubOpts{
		Name:        fmt.Sprintf("%s %s", f.faker.Company(), unique()),
		Description: f.faker.Sentence(8),
		Category:    f.faker.Hobby(),
	}
	f.mu.Unlock()

	for _, fn := range opts {
		fn(o)
	}

	club := &model.Club{
		Name:        o.Name,
		Description: o.Description,
		Category:    o.Category,
		Admin:       admin.ID,
	}
	if err := f.clubs.Create(ctx(t), club); err != nil {
		t.Fatalf("fixtures: create club: %v", err)
	}
	return club
}

// Join links user and club on both sides
func (f *Factory) Join(t *testing.T, user *model.User, club *model.Club) {
	t.Helper()

	c := ctx(t)
	if _, err := f.clubs.AddMember(c, club.ID, user.ID); err != nil {
		t.Fatalf("fixtures: add member: %v", err)
	}
	if _, err := f.users.AddClub(c, user.ID, club.ID); err != nil {
		t.Fatalf("fixtures: add club: %v", err)
	}
}
