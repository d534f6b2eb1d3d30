// Package service implements club directory, club lifecycle and membership
// logic on top of the repositories.
//
// Services are built from a config struct holding their repository
// dependencies, an optional tracer, an optional OperationRecorder and an
// optional logger:
//
//	clubs := service.NewClubService(service.ClubServiceConfig{
//	    ClubRepo: clubRepo,
//	    UserRepo: userRepo,
//	})
//
// Errors are package sentinels wrapped with %w, so handlers match them with
// errors.Is and still see which step failed:
//
//	if errors.Is(err, service.ErrClubNotFound) {
//	    // 404
//	}
//
// Membership writes default to paired mode: the club side first, then the
// user side, with no rollback. MembershipModeAtomic runs both in one
// transaction through MembershipRepository.
package service
