package middleware

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitroom/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey is the context key for storing the authenticated user ID.
	UserIDKey contextKey = "user_id"
	// EmailKey is the context key for storing the authenticated user's email.
	EmailKey contextKey = "email"
	// GroupIDKey is the context key for the authenticated user's household.
	GroupIDKey contextKey = "group_id"
)

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// GetEmail extracts the user email from the context.
// Returns empty string if not found.
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// GetGroupID extracts the caller's household ID from the context.
func GetGroupID(ctx context.Context) string {
	groupID, _ := ctx.Value(GroupIDKey).(string)
	return groupID
}

// WithIdentity returns a context carrying the caller's identity.
func WithIdentity(ctx context.Context, userID, email, groupID string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	ctx = context.WithValue(ctx, EmailKey, email)
	return context.WithValue(ctx, GroupIDKey, groupID)
}

// OptionalAuth returns a middleware that validates JWT tokens if present, but allows
// requests without authentication.
func OptionalAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if claims, err := identify(jwtManager, req.Header().Get("Authorization")); err == nil {
				ctx = WithIdentity(ctx, claims.UserID, claims.Email, claims.GroupID)
			}
			return next(ctx, req)
		}
	}
}

// Authenticate requires a valid token on every procedure except the listed
// public ones, which get optional authentication instead.
func Authenticate(jwtManager *auth.JWTManager, public ...string) connect.UnaryInterceptorFunc {
	open := make(map[string]bool, len(public))
	for _, p := range public {
		open[p] = true
	}
	optional := OptionalAuth(jwtManager)

	return func(next connect.UnaryFunc) connect.UnaryFunc {
		lenient := optional(next)
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			procedure := req.Spec().Procedure
			if open[procedure] {
				return lenient(ctx, req)
			}

			claims, err := identify(jwtManager, req.Header().Get("Authorization"))
			if err != nil {
				slog.Debug("Rejected unauthenticated call", "procedure", procedure, "error", err)
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(WithIdentity(ctx, claims.UserID, claims.Email, claims.GroupID), req)
		}
	}
}

// identify parses a "Bearer <token>" header and validates the token.
func identify(jwtManager *auth.JWTManager, header string) (*auth.Claims, error) {
	if header == "" {
		return nil, auth.ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return nil, auth.ErrInvalidToken
	}
	return jwtManager.Validate(strings.TrimSpace(token))
}
