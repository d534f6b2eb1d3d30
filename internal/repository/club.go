package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/clubhouse/api/internal/database"
	"github.com/forgo/clubhouse/api/internal/model"
)

const (
	addMemberToClubQuery = `
		UPDATE club SET
			users_list = array::union(users_list ?? [], [type::record($user_id)]),
			updated_on = time::now()
		WHERE id = type::record($club_id)
		RETURN id
	`
	removeMemberFromClubQuery = `
		UPDATE club SET
			users_list = array::complement(users_list ?? [], [type::record($user_id)]),
			updated_on = time::now()
		WHERE id = type::record($club_id)
		RETURN id
	`
)

// ClubRepository handles club data access
type ClubRepository struct {
	db database.Database
}

// NewClubRepository creates a new club repository
func NewClubRepository(db database.Database) *ClubRepository {
	return &ClubRepository{db: db}
}

// Create persists a club whose users_list holds only the admin.
func (r *ClubRepository) Create(ctx context.Context, club *model.Club) error {
	query := `
		CREATE club CONTENT {
			name: $name,
			description: $description,
			category: $category,
			admin: type::record($admin_id),
			users_list: [type::record($admin_id)],
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"name":        club.Name,
		"description": club.Description,
		"category":    club.Category,
		"admin_id":    qualifyID(tableUser, club.Admin),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return fmt.Errorf("%w: club name %q", database.ErrDuplicate, club.Name)
		}
		return err
	}

	row, err := database.FirstRecord(result)
	if err != nil {
		return err
	}
	created, err := decodeRecord[model.Club](row)
	if err != nil {
		return err
	}

	club.ID = created.ID
	club.Admin = created.Admin
	club.UsersList = created.UsersList
	club.CreatedOn = created.CreatedOn
	club.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves a club by ID. Returns nil, nil when absent.
func (r *ClubRepository) GetByID(ctx context.Context, id string) (*model.Club, error) {
	id = qualifyID(tableClub, id)
	if id == "" {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT * FROM club WHERE id = type::record($id)`, map[string]interface{}{"id": id})
}

// GetByName retrieves a club by its unique name
func (r *ClubRepository) GetByName(ctx context.Context, name string) (*model.Club, error) {
	return r.getOne(ctx, `SELECT * FROM club WHERE name = $name LIMIT 1`, map[string]interface{}{"name": name})
}

func (r *ClubRepository) getOne(ctx context.Context, query string, vars map[string]interface{}) (*model.Club, error) {
	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	club, err := decodeRecord[model.Club](result)
	if err != nil {
		return nil, err
	}
	if club.UsersList == nil {
		club.UsersList = []string{}
	}
	return club, nil
}

// List returns every club, newest first, with the admin expanded.
func (r *ClubRepository) List(ctx context.Context) ([]*model.ClubListing, error) {
	query := `
		SELECT
			id, name, description, category, users_list, created_on, updated_on,
			(SELECT id, username, email FROM ONLY $parent.admin) AS admin
		FROM club
		ORDER BY created_on DESC
	`
	result, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	clubs, err := decodeRows[model.ClubListing](result)
	if err != nil {
		return nil, err
	}
	for _, c := range clubs {
		if c.UsersList == nil {
			c.UsersList = []string{}
		}
	}
	return clubs, nil
}

// GetDetail returns a club with admin and members expanded. Returns nil, nil
// when absent.
func (r *ClubRepository) GetDetail(ctx context.Context, id string) (*model.ClubDetail, error) {
	id = qualifyID(tableClub, id)
	if id == "" {
		return nil, nil
	}

	query := `
		SELECT
			id, name, description, category, created_on, updated_on,
			(SELECT id, username, email FROM ONLY $parent.admin) AS admin,
			(SELECT id, username, email FROM $parent.users_list) AS users_list
		FROM club
		WHERE id = type::record($id)
	`
	result, err := r.db.QueryOne(ctx, query, map[string]interface{}{"id": id})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	detail, err := decodeRecord[model.ClubDetail](result)
	if err != nil {
		return nil, err
	}
	if detail.UsersList == nil {
		detail.UsersList = []*model.PublicUser{}
	}
	return detail, nil
}

// Delete removes a club and returns the document as it was. Returns nil, nil
// when absent.
func (r *ClubRepository) Delete(ctx context.Context, id string) (*model.Club, error) {
	id = qualifyID(tableClub, id)
	if id == "" {
		return nil, nil
	}

	result, err := r.db.QueryOne(ctx, `DELETE type::record($id) RETURN BEFORE`, map[string]interface{}{"id": id})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	club, err := decodeRecord[model.Club](result)
	if err != nil {
		return nil, err
	}
	if club.UsersList == nil {
		club.UsersList = []string{}
	}
	return club, nil
}

// AddMember adds userID to the club's users_list set. Returns false if the club does not exist.
func (r *ClubRepository) AddMember(ctx context.Context, clubID, userID string) (bool, error) {
	result, err := r.db.Query(ctx, addMemberToClubQuery, membershipVars(userID, clubID))
	if err != nil {
		return false, err
	}
	return updatedAny(result), nil
}

// RemoveMember removes userID from the club's users_list set. Returns false if the club does not exist.
func (r *ClubRepository) RemoveMember(ctx context.Context, clubID, userID string) (bool, error) {
	result, err := r.db.Query(ctx, removeMemberFromClubQuery, membershipVars(userID, clubID))
	if err != nil {
		return false, err
	}
	return updatedAny(result), nil
}
