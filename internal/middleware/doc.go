// Package middleware provides HTTP middleware for the Clubhouse API.
//
// # Available Middleware
//
//   - Auth / OptionalAuth: bearer token validation, claims placed in context
//   - RequireRole: role gate, run after Auth (admin satisfies moderator)
//   - RateLimit: per-user or per-IP token buckets
//   - Metrics: request counts and latency by chi route pattern
//   - RequestID, Logger, Recovery, CORS
//
// # Context Values
//
// After Auth, handlers read the caller through helper functions:
//
//	userID := middleware.GetUserID(r.Context())
//	roles := middleware.GetRoles(r.Context())
package middleware
