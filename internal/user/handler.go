package user

import (
	"net/http"

	"townbasket-be/internal/httpx"

	"github.com/gorilla/mux"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/sync/", h.sync).Methods(http.MethodPost)
	r.HandleFunc("/me/", h.me).Methods(http.MethodGet)
	r.HandleFunc("/list/", h.list).Methods(http.MethodGet)
	r.HandleFunc("/toggle-online/", h.toggleOnline).Methods(http.MethodPatch)
	r.HandleFunc("/online-partners/", h.onlinePartners).Methods(http.MethodGet)
	r.HandleFunc("/enroll/", h.enroll).Methods(http.MethodPost)
	r.HandleFunc("/profile/update/", h.updateProfile).Methods(http.MethodPatch)
	r.HandleFunc("/profile/stats/", h.profileStats).Methods(http.MethodGet)
	r.HandleFunc("/{id}/toggle-active/", h.toggleActive).Methods(http.MethodPatch)
}

func (h *Handler) sync(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.RequireAuth(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	var body struct {
		Name  *string `json:"name"`
		Phone *string `json:"phone"`
		Town  *string `json:"town"`
	}
	if err := httpx.Decode(r, &body); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	u, err := h.svc.Sync(r.Context(), SyncInput{
		UID:   id.UID,
		Email: id.Email,
		Role:  id.Role,
		Name:  body.Name,
		Phone: body.Phone,
		Town:  body.Town,
	})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.RequireAuth(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	u, err := h.svc.Me(r.Context(), id.UID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	if _, err := httpx.RequireRole(r, RoleAdmin); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	users, err := h.svc.ListByRole(r.Context(), r.URL.Query().Get("role"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) toggleOnline(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.RequireRole(r, RoleDelivery)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	u, err := h.svc.ToggleOnline(r.Context(), id.UID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) onlinePartners(w http.ResponseWriter, r *http.Request) {
	if _, err := httpx.RequireRole(r, RoleSeller, RoleAdmin); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	var town *string
	if t := r.URL.Query().Get("town"); t != "" {
		town = &t
	}

	users, err := h.svc.ListOnlinePartners(r.Context(), town)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) enroll(w http.ResponseWriter, r *http.Request) {
	if _, err := httpx.RequireRole(r, RoleAdmin); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	var in EnrollInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	u, err := h.svc.Enroll(r.Context(), in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, u)
}

func (h *Handler) toggleActive(w http.ResponseWriter, r *http.Request) {
	if _, err := httpx.RequireRole(r, RoleAdmin); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	userID, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	u, err := h.svc.ToggleActive(r.Context(), userID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.RequireAuth(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	var params UpdateProfileParams
	if err := httpx.Decode(r, &params); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	u, err := h.svc.UpdateProfile(r.Context(), id.UID, params)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) profileStats(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.RequireAuth(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	stats, err := h.svc.ProfileStats(r.Context(), id.UID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, stats)
}
