package repository

import (
	"context"

	"github.com/forgo/clubhouse/api/internal/database"
)

// MembershipRepository writes both sides of a membership in one transaction.
// It runs the same statements as ClubRepository.AddMember and
// UserRepository.AddClub, wrapped in an AtomicBatch.
type MembershipRepository struct {
	db database.Database
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db database.Database) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// Link adds the user to the club and the club to the user atomically.
func (r *MembershipRepository) Link(ctx context.Context, userID, clubID string) error {
	vars := membershipVars(userID, clubID)
	_, err := database.NewAtomicBatch().
		Add(addMemberToClubQuery, vars).
		Add(addClubToUserQuery, vars).
		Execute(ctx, r.db)
	return err
}

// Unlink removes the user from the club and the club from the user atomically.
func (r *MembershipRepository) Unlink(ctx context.Context, userID, clubID string) error {
	vars := membershipVars(userID, clubID)
	_, err := database.NewAtomicBatch().
		Add(removeMemberFromClubQuery, vars).
		Add(removeClubFromUserQuery, vars).
		Execute(ctx, r.db)
	return err
}
