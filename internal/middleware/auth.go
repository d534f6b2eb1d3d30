package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/forgo/clubhouse/api/internal/model"
	"github.com/forgo/clubhouse/api/pkg/jwt"
)

// TokenValidator defines the interface for token validation
type TokenValidator interface {
	Validate(token string) (*jwt.Claims, error)
}

// ClaimsKey is the context key for JWT claims
const ClaimsKey contextKey = "claims"

// Auth returns a middleware that rejects requests without a valid bearer token
func Auth(validator TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				model.NewUnauthorizedError("missing authorization header").WriteJSON(w)
				return
			}

			token, ok := bearerToken(authHeader)
			if !ok {
				model.NewUnauthorizedError("invalid authorization header format").WriteJSON(w)
				return
			}

			claims, err := validator.Validate(token)
			if err != nil {
				problem := model.NewUnauthorizedError("invalid token")
				problem.Code = model.ErrCodeTokenInvalid
				switch {
				case errors.Is(err, jwt.ErrTokenExpired):
					problem.Detail, problem.Message = "token expired", "token expired"
					problem.Code = model.ErrCodeTokenExpired
				case errors.Is(err, jwt.ErrInvalidSignature):
					problem.Detail, problem.Message = "invalid token signature", "invalid token signature"
				}
				problem.WriteJSON(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// OptionalAuth is like Auth but doesn't require authentication.
// It will set user info in context if token is present and valid.
func OptionalAuth(validator TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := validator.Validate(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// RequireRole returns a middleware that allows only callers holding a role
// that satisfies want. Admin satisfies moderator. Must run after Auth.
func RequireRole(want model.UserRole) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaims(r.Context())
			if claims == nil {
				model.NewUnauthorizedError("authentication required").WriteJSON(w)
				return
			}

			if !model.HasRole(GetRoles(r.Context()), want) {
				model.NewForbiddenError(string(want) + " role required").WriteJSON(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func withClaims(ctx context.Context, claims *jwt.Claims) context.Context {
	if rl, ok := ctx.Value(requestLogKey).(*requestLog); ok {
		rl.userID = claims.UserID
	}
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	return context.WithValue(ctx, ClaimsKey, claims)
}

// GetUserID extracts the user ID from context
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

// GetClaims extracts the JWT claims from context
func GetClaims(ctx context.Context) *jwt.Claims {
	if claims, ok := ctx.Value(ClaimsKey).(*jwt.Claims); ok {
		return claims
	}
	return nil
}

// GetRoles returns the caller's roles, or nil when unauthenticated
func GetRoles(ctx context.Context) []model.UserRole {
	claims := GetClaims(ctx)
	if claims == nil {
		return nil
	}
	roles := make([]model.UserRole, 0, len(claims.Roles))
	for _, r := range claims.Roles {
		roles = append(roles, model.UserRole(r))
	}
	return roles
}
