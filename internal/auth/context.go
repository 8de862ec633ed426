package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

const RoleAdmin = "admin"

type contextKey struct{}

// Claims are issued by the storefront auth service for back-office users.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

type UserContext struct {
	UserID string
	Email  string
	Role   string
}

func WithUser(ctx context.Context, u UserContext) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

func FromContext(ctx context.Context) (UserContext, bool) {
	u, ok := ctx.Value(contextKey{}).(UserContext)
	return u, ok
}

// GetUserID returns the signed-in admin's id, or "" for system callers
// such as the Kafka listener.
func GetUserID(ctx context.Context) string {
	if u, ok := FromContext(ctx); ok {
		return u.UserID
	}
	return ""
}
