// Package fixtures provides test data factories for integration tests.
//
// Factory methods create entities with gofakeit-generated defaults, write
// them through the real repositories and return the stored models.
//
// Usage:
//
//	f := fixtures.New(tdb.DB)
//	admin := f.CreateUser(t, fixtures.WithRoles(model.UserRoleModerator))
//	club := f.CreateClub(t, admin)
package fixtures
