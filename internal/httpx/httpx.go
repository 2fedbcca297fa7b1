package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"

	"townbasket-be/internal/apperr"
	"townbasket-be/internal/logger"
	"townbasket-be/internal/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// ErrorEnvelope is the wire shape of every failure.
type ErrorEnvelope struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a service error into the envelope. 5xx details are
// replaced so store internals never leak to clients.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)
	detail := apperr.DetailOf(err)

	if status >= 500 {
		logger.FromCtx(r.Context()).Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		detail = "upstream failure"
	}

	WriteJSON(w, status, ErrorEnvelope{Error: string(kind), Detail: detail})
}

// Decode reads a JSON body with a size cap.
func Decode(r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return apperr.Wrap(apperr.Validation, "invalid JSON body", err)
	}
	return nil
}

// PathID extracts a numeric {name} path variable.
func PathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Ef(apperr.Validation, "invalid %s", name)
	}
	return id, nil
}

// Identity is the verified caller extracted by the auth middleware.
type Identity struct {
	UID   string
	Email string
	Role  string
}

// RequireAuth returns the caller identity or an Unauthenticated error.
func RequireAuth(r *http.Request) (Identity, error) {
	uid, ok := utils.GetUserUIDFromContext(r.Context())
	if !ok {
		return Identity{}, apperr.E(apperr.Unauthenticated, "authentication required")
	}
	return Identity{
		UID:   uid,
		Email: utils.GetUserEmailFromContext(r.Context()),
		Role:  utils.GetUserRoleFromContext(r.Context()),
	}, nil
}

// RequireRole returns the caller identity and checks the role claim.
func RequireRole(r *http.Request, roles ...string) (Identity, error) {
	id, err := RequireAuth(r)
	if err != nil {
		return Identity{}, err
	}
	for _, role := range roles {
		if id.Role == role {
			return id, nil
		}
	}
	return Identity{}, apperr.E(apperr.Forbidden, "insufficient role")
}
