package shop

import (
	"net/http"
	"strconv"

	"townbasket-be/internal/apperr"
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
	r.HandleFunc("/", h.list).Methods(http.MethodGet)
	r.HandleFunc("/", h.create).Methods(http.MethodPost)
	r.HandleFunc("/categories/", h.categories).Methods(http.MethodGet)
	r.HandleFunc("/pending/", h.listPending).Methods(http.MethodGet)
	r.HandleFunc("/all/", h.listAll).Methods(http.MethodGet)
	r.HandleFunc("/admin/stats/", h.adminStats).Methods(http.MethodGet)
	r.HandleFunc("/{id}/", h.detail).Methods(http.MethodGet)
	r.HandleFunc("/{id}/", h.update).Methods(http.MethodPatch)
	r.HandleFunc("/{id}/toggle-open/", h.toggleOpen).Methods(http.MethodPatch)
	r.HandleFunc("/{id}/approve/", h.approve).Methods(http.MethodPatch)
	r.HandleFunc("/{id}/reject/", h.reject).Methods(http.MethodPatch)
	r.HandleFunc("/{id}/toggle-active/", h.toggleActive).Methods(http.MethodPatch)
}

// list returns approved+active shops. Sellers may pass ?owner=me to fetch
// their own shop regardless of status.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("owner") == "me" {
		id, err := httpx.RequireAuth(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		sh, err := h.svc.GetByOwner(r.Context(), id.UID)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, []*Shop{sh})
		return
	}

	var categoryID *int64
	if raw := r.URL.Query().Get("category"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpx.WriteError(w, r, apperr.E(apperr.Validation, "invalid category"))
			return
		}
		categoryID = &id
	}

	shops, err := h.svc.ListVisible(r.Context(), categoryID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, shops)
}

func (h *Handler) detail(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	sh, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sh)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.RequireRole(r, user.RoleSeller)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	var in CreateShopInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	sh, err := h.svc.Create(r.Context(), id.UID, in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, sh)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.RequireAuth(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	shopID, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	var in UpdateShopInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	sh, err := h.svc.Update(r.Context(), id.UID, id.Role, shopID, in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sh)
}

func (h *Handler) toggleOpen(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.RequireAuth(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	shopID, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	sh, err := h.svc.ToggleOpen(r.Context(), id.UID, shopID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sh)
}

func (h *Handler) listPending(w http.ResponseWriter, r *http.Request) {
	if _, err := httpx.RequireRole(r, user.RoleAdmin); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	shops, err := h.svc.ListPending(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, shops)
}

func (h *Handler) listAll(w http.ResponseWriter, r *http.Request) {
	if _, err := httpx.RequireRole(r, user.RoleAdmin); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	shops, err := h.svc.ListAll(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, shops)
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	if _, err := httpx.RequireRole(r, user.RoleAdmin); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	shopID, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	sh, err := h.svc.Approve(r.Context(), shopID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sh)
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	if _, err := httpx.RequireRole(r, user.RoleAdmin); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	shopID, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	var body struct {
		Reason *string `json:"reason"`
	}
	if r.ContentLength > 0 {
		if err := httpx.Decode(r, &body); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
	}

	sh, err := h.svc.Reject(r.Context(), shopID, body.Reason)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sh)
}

func (h *Handler) toggleActive(w http.ResponseWriter, r *http.Request) {
	if _, err := httpx.RequireRole(r, user.RoleAdmin); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	shopID, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	sh, err := h.svc.ToggleActive(r.Context(), shopID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sh)
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.Categories(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, cats)
}

func (h *Handler) adminStats(w http.ResponseWriter, r *http.Request) {
	if _, err := httpx.RequireRole(r, user.RoleAdmin); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	st, err := h.svc.AdminStats(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, st)
}
