package auth

import (
	"net/http"
	"strings"

	"github.com/fekuna/omnipos-admin-service/internal/apperr"
	"github.com/fekuna/omnipos-admin-service/internal/httpx"
	"github.com/golang-jwt/jwt/v5"
)

var (
	errMissingToken = &apperr.Error{Kind: apperr.ErrUnauthorized, MessageID: "auth.unauthorized"}
	errNotAdmin     = &apperr.Error{Kind: apperr.ErrForbidden, MessageID: "auth.forbidden"}
)

// Middleware accepts HS256 bearer tokens carrying role=admin.
func Middleware(secret, issuer string, re *httpx.Responder) func(http.Handler) http.Handler {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	keyFunc := func(*jwt.Token) (interface{}, error) { return []byte(secret), nil }

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				re.Error(w, r, errMissingToken)
				return
			}

			claims := &Claims{}
			if _, err := parser.ParseWithClaims(raw, claims, keyFunc); err != nil {
				re.Error(w, r, &apperr.Error{Kind: apperr.ErrUnauthorized, MessageID: "auth.unauthorized", Err: err})
				return
			}
			if claims.Role != RoleAdmin {
				re.Error(w, r, errNotAdmin)
				return
			}

			ctx := WithUser(r.Context(), UserContext{
				UserID: claims.Subject,
				Email:  claims.Email,
				Role:   claims.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
