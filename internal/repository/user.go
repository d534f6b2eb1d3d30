package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/clubhouse/api/internal/database"
	"github.com/forgo/clubhouse/api/internal/model"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// Membership statements on the user side. Shared with MembershipRepository so
// paired and atomic modes run the same SurrealQL.
const (
	addClubToUserQuery = `
		UPDATE user SET clubs = array::union(clubs ?? [], [type::record($club_id)])
		WHERE id = type::record($user_id)
		RETURN id
	`
	removeClubFromUserQuery = `
		UPDATE user SET clubs = array::complement(clubs ?? [], [type::record($club_id)])
		WHERE id = type::record($user_id)
		RETURN id
	`
)

// UserRepository handles user data access
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user. Email and username collisions return ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	roles := user.Roles
	if len(roles) == 0 {
		roles = []model.UserRole{model.UserRoleUser}
	}

	query := `
		CREATE user CONTENT {
			name: $name,
			email: $email,
			username: $username,
			hash: $hash,
			roles: $roles,
			posts: [],
			clubs: [],
			disabled: $disabled,
			created_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"name":     user.Name,
		"email":    user.Email,
		"username": user.Username,
		"hash":     user.Hash,
		"roles":    roles,
		"disabled": user.Disabled,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return fmt.Errorf("%w: email or username already exists", database.ErrDuplicate)
		}
		return err
	}

	row, err := database.FirstRecord(result)
	if err != nil {
		return err
	}
	created, err := parseUser(row)
	if err != nil {
		return err
	}

	user.ID = created.ID
	user.Roles = created.Roles
	user.CreatedOn = created.CreatedOn
	user.Clubs = []string{}
	user.Posts = []string{}
	return nil
}

// GetByID retrieves a user by ID. Returns nil, nil when absent.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	id = qualifyID(tableUser, id)
	if id == "" {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT * FROM user WHERE id = type::record($id)`, map[string]interface{}{"id": id})
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, `SELECT * FROM user WHERE email = $email LIMIT 1`, map[string]interface{}{"email": email})
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getOne(ctx, `SELECT * FROM user WHERE username = $username LIMIT 1`, map[string]interface{}{"username": username})
}

func (r *UserRepository) getOne(ctx context.Context, query string, vars map[string]interface{}) (*model.User, error) {
	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseUser(result)
}

// SetDisabled flags or unflags an account. Disabled users keep stale club
// references when a club is deleted.
func (r *UserRepository) SetDisabled(ctx context.Context, userID string, disabled bool) error {
	query := `UPDATE user SET disabled = $disabled WHERE id = type::record($id)`
	return r.db.Execute(ctx, query, map[string]interface{}{
		"id":       qualifyID(tableUser, userID),
		"disabled": disabled,
	})
}

// AddClub adds clubID to the user's clubs set. Returns false if the user does not exist.
func (r *UserRepository) AddClub(ctx context.Context, userID, clubID string) (bool, error) {
	result, err := r.db.Query(ctx, addClubToUserQuery, membershipVars(userID, clubID))
	if err != nil {
		return false, err
	}
	return updatedAny(result), nil
}

// RemoveClub removes clubID from the user's clubs set. Returns false if the user does not exist.
func (r *UserRepository) RemoveClub(ctx context.Context, userID, clubID string) (bool, error) {
	result, err := r.db.Query(ctx, removeClubFromUserQuery, membershipVars(userID, clubID))
	if err != nil {
		return false, err
	}
	return updatedAny(result), nil
}

// RemoveClubFromUsers strips clubID from the clubs set of every listed user
// that is not disabled, in one statement. Returns the number of users touched.
func (r *UserRepository) RemoveClubFromUsers(ctx context.Context, clubID string, userIDs []string) (int, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}

	ids := make([]models.RecordID, 0, len(userIDs))
	for _, id := range userIDs {
		ids = append(ids, recordID(tableUser, id))
	}

	query := `
		UPDATE user SET clubs = array::complement(clubs ?? [], [type::record($club_id)])
		WHERE id INSIDE $user_ids AND disabled != true
		RETURN id
	`
	result, err := r.db.Query(ctx, query, map[string]interface{}{
		"club_id":  qualifyID(tableClub, clubID),
		"user_ids": ids,
	})
	if err != nil {
		return 0, err
	}
	return len(database.Rows(result, 0)), nil
}

func membershipVars(userID, clubID string) map[string]interface{} {
	return map[string]interface{}{
		"user_id": qualifyID(tableUser, userID),
		"club_id": qualifyID(tableClub, clubID),
	}
}

func parseUser(row interface{}) (*model.User, error) {
	user, err := decodeRecord[model.User](row)
	if err != nil {
		return nil, err
	}

	// Hash is skipped by json:"-"
	if data, ok := row.(map[string]interface{}); ok {
		if h, ok := data["hash"].(string); ok {
			user.Hash = h
		}
	}
	if user.Clubs == nil {
		user.Clubs = []string{}
	}
	if user.Posts == nil {
		user.Posts = []string{}
	}
	return user, nil
}
