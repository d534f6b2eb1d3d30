// Package model defines the clubhouse domain types and API error values.
//
// Users and clubs reference each other by record id ("user:abc",
// "club:xyz"). A membership is recorded twice: the user id in the club's
// users_list and the club id in the user's clubs list. Repositories and
// services keep the two sides in step; the types here only describe them.
//
// Errors returned to HTTP clients are RFC 9457 ProblemDetails. Every body
// also carries a "message" field mirroring the detail:
//
//	model.NewNotFoundError("Club 'club:x' not found").WriteJSON(w)
//
// Roles are ranked. HasRole(roles, UserRoleModerator) holds for admins too.
package model
