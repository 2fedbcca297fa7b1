package middleware

import (
	"net/http"
	"strings"

	"townbasket-be/internal/user"
	"townbasket-be/internal/utils"

	"github.com/golang-jwt/jwt/v5"
)

// identityClaims mirrors the identity gateway's token payload. The role claim
// is the authoritative role signal; client bodies are never trusted for it.
type identityClaims struct {
	Email       string `json:"email"`
	AppRole     string `json:"app_role"`
	AppMetadata struct {
		AppRole string `json:"app_role"`
	} `json:"app_metadata"`
	UserMetadata struct {
		AppRole string `json:"app_role"`
	} `json:"user_metadata"`
	jwt.RegisteredClaims
}

func (c *identityClaims) role() string {
	switch {
	case c.AppRole != "":
		return c.AppRole
	case c.AppMetadata.AppRole != "":
		return c.AppMetadata.AppRole
	case c.UserMetadata.AppRole != "":
		return c.UserMetadata.AppRole
	default:
		return user.RoleCustomer
	}
}

// NewAuth builds the bearer-token middleware keyed with the identity
// gateway's signing secret. The middleware verifies the token and stores the
// caller identity in context. Requests without a valid token pass through
// unauthenticated; handlers decide whether auth is required.
func NewAuth(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := extractBearer(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims := &identityClaims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return key, nil
			})
			if err != nil || !token.Valid || claims.Subject == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := utils.SetUserContext(r.Context(), claims.Subject, claims.Email, claims.role())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearer(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
