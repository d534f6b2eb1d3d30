package model

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// UserRole represents an authorization level held by a user
type UserRole string

const (
	UserRoleUser      UserRole = "user"      // Default role
	UserRoleModerator UserRole = "moderator" // Can create clubs
	UserRoleAdmin     UserRole = "admin"     // Can delete clubs
)

// IsValid returns true if the role is known
func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleUser, UserRoleModerator, UserRoleAdmin:
		return true
	default:
		return false
	}
}

// Satisfies reports whether holding r grants want. Admin outranks moderator,
// moderator outranks user.
func (r UserRole) Satisfies(want UserRole) bool {
	return r.rank() >= want.rank() && r.rank() > 0
}

func (r UserRole) rank() int {
	switch r {
	case UserRoleUser:
		return 1
	case UserRoleModerator:
		return 2
	case UserRoleAdmin:
		return 3
	default:
		return 0
	}
}

// HasRole reports whether any of roles satisfies want.
func HasRole(roles []UserRole, want UserRole) bool {
	for _, r := range roles {
		if r.Satisfies(want) {
			return true
		}
	}
	return false
}

// User represents an account
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Username  string     `json:"username"`
	Hash      string     `json:"-"` // Never expose password hash
	Posts     []string   `json:"posts"`
	Roles     []UserRole `json:"roles"`
	Clubs     []string   `json:"clubs"`
	Disabled  bool       `json:"disabled"`
	CreatedOn time.Time  `json:"created_on"`
}

// InClub reports whether clubID is in the user's clubs list
func (u *User) InClub(clubID string) bool {
	return containsID(u.Clubs, clubID)
}

// PublicUser is the minimal projection of a user embedded in club responses
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ToPublic converts a User to its public projection
func (u *User) ToPublic() *PublicUser {
	return &PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}

// Password hashing

// BcryptCost is the work factor used for new password hashes.
const BcryptCost = 10

// ErrPasswordMismatch is returned by ComparePassword for a wrong password.
var ErrPasswordMismatch = errors.New("password does not match")

// HashPassword returns the bcrypt hash of password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword checks password against a stored bcrypt hash
func ComparePassword(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return err
	}
	return nil
}

// CreateUserRequest is the registration input used by clubctl
type CreateUserRequest struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Username string     `json:"username"`
	Password string     `json:"password"`
	Roles    []UserRole `json:"roles,omitempty"`
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
