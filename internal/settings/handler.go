package settings

import (
	"net/http"

	"townbasket-be/internal/httpx"
	"townbasket-be/internal/user"

	"github.com/gorilla/mux"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/settings/", h.get).Methods(http.MethodGet)
	r.HandleFunc("/settings/", h.update).Methods(http.MethodPatch)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Get(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	if _, err := httpx.RequireRole(r, user.RoleAdmin); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	var in UpdateInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Update(r.Context(), in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}
