package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"townbasket-be/internal/user"
	"townbasket-be/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-signing-secret"

func signToken(t *testing.T, claims jwt.MapClaims, key []byte) string {
	t.Helper()
	if _, ok := claims["sub"]; !ok {
		claims["sub"] = "uid-1"
	}
	claims["exp"] = time.Now().Add(time.Hour).Unix()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func capture(uid, role *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*uid, _ = utils.GetUserUIDFromContext(r.Context())
		*role = utils.GetUserRoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_RoleClaim(t *testing.T) {
	cases := []struct {
		name   string
		claims jwt.MapClaims
		want   string
	}{
		{"top-level app_role", jwt.MapClaims{"app_role": "seller"}, "seller"},
		{"app_metadata fallback", jwt.MapClaims{"app_metadata": map[string]any{"app_role": "delivery"}}, "delivery"},
		{"user_metadata fallback", jwt.MapClaims{"user_metadata": map[string]any{"app_role": "admin"}}, "admin"},
		{"default customer", jwt.MapClaims{}, user.RoleCustomer},
		{
			"top-level wins over metadata",
			jwt.MapClaims{"app_role": "seller", "app_metadata": map[string]any{"app_role": "admin"}},
			"seller",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var uid, role string
			h := NewAuth(testSecret)(capture(&uid, &role))

			req := httptest.NewRequest("GET", "/", nil)
			req.Header.Set("Authorization", "Bearer "+signToken(t, tc.claims, []byte(testSecret)))
			h.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, "uid-1", uid)
			assert.Equal(t, tc.want, role)
		})
	}
}

func TestAuthMiddleware_PassThrough(t *testing.T) {
	t.Run("no token", func(t *testing.T) {
		var uid, role string
		h := NewAuth(testSecret)(capture(&uid, &role))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
		assert.Empty(t, uid)
		assert.Empty(t, role)
	})

	t.Run("bad signature", func(t *testing.T) {
		var uid, role string
		h := NewAuth(testSecret)(capture(&uid, &role))

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.MapClaims{"app_role": "admin"}, []byte("wrong-key-entirely")))
		h.ServeHTTP(httptest.NewRecorder(), req)

		// Identity is dropped, not rejected; handlers enforce auth.
		assert.Empty(t, uid)
		assert.Empty(t, role)
	})

	t.Run("missing subject", func(t *testing.T) {
		var uid, role string
		h := NewAuth(testSecret)(capture(&uid, &role))

		claims := jwt.MapClaims{"sub": "", "app_role": "admin"}
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, claims, []byte(testSecret)))
		h.ServeHTTP(httptest.NewRecorder(), req)

		assert.Empty(t, uid)
	})
}

// The limiter must run after auth so it keys authenticated traffic by user,
// not by source address.
func TestRateLimit_KeysByAuthenticatedUser(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	chain := NewAuth(testSecret)(RateLimitMiddleware(ok))

	req := httptest.NewRequest("GET", "/api/orders/all/", nil)
	req.RemoteAddr = "203.0.113.9:51234"
	req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.MapClaims{"sub": "uid-limited"}, []byte(testSecret)))

	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	mu.Lock()
	_, byUser := visitors["user:uid-limited:general"]
	_, byIP := visitors["ip:203.0.113.9:general"]
	mu.Unlock()
	assert.True(t, byUser, "limiter should bucket by authenticated uid")
	assert.False(t, byIP, "authenticated request must not fall back to the ip bucket")
}
