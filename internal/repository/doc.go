// Package repository implements the SurrealDB data access layer.
//
// Each repository owns one table and speaks parameterized SurrealQL through
// database.Database. Record ids travel as "table:key" strings; qualifyID
// accepts either the bare key or the full id.
//
// Lookups return nil, nil when a record is absent so services decide which
// not-found error applies. Unique index violations surface as
// database.ErrDuplicate.
//
// Membership is stored on both tables. ClubRepository and UserRepository
// each write their own side; MembershipRepository writes both sides in one
// transaction:
//
//	err := memberships.Link(ctx, "user:ada", "club:chess")
package repository
