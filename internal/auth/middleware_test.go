package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fekuna/omnipos-admin-service/internal/httpx"
	"github.com/fekuna/omnipos-admin-service/pkg/i18n"
	"github.com/fekuna/omnipos-admin-service/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret"
	testIssuer = "omnipos-auth"
)

func sign(t *testing.T, role string, expires time.Time, secret string) string {
	t.Helper()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    testIssuer,
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Email: "admin@example.com",
		Role:  role,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestMiddleware(t *testing.T) {
	tr, err := i18n.New()
	require.NoError(t, err)
	re := httpx.NewResponder(tr, logger.NewNop())

	var seen UserContext
	handler := Middleware(testSecret, testIssuer, re)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized, code: "auth.unauthorized"},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized, code: "auth.unauthorized"},
		{name: "bad signature", header: "Bearer " + sign(t, RoleAdmin, time.Now().Add(time.Hour), "other"), status: http.StatusUnauthorized, code: "auth.unauthorized"},
		{name: "expired", header: "Bearer " + sign(t, RoleAdmin, time.Now().Add(-time.Hour), testSecret), status: http.StatusUnauthorized, code: "auth.unauthorized"},
		{name: "not admin", header: "Bearer " + sign(t, "customer", time.Now().Add(time.Hour), testSecret), status: http.StatusForbidden, code: "auth.forbidden"},
		{name: "admin", header: "Bearer " + sign(t, RoleAdmin, time.Now().Add(time.Hour), testSecret), status: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.code != "" {
				var body struct {
					Error httpx.ErrorBody `json:"error"`
				}
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, tt.code, body.Error.Code)
			}
		})
	}

	assert.Equal(t, "user-1", seen.UserID)
	assert.Equal(t, RoleAdmin, seen.Role)
}
