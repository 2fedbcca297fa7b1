package complaint

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
	r.HandleFunc("/create/", h.create).Methods(http.MethodPost)
	r.HandleFunc("/list/", h.list).Methods(http.MethodGet)
	r.HandleFunc("/{id}/resolve/", h.resolve).Methods(http.MethodPatch)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.RequireAuth(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	var in CreateInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	c, err := h.svc.Create(r.Context(), id.UID, in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, c)
}

// list returns every ticket for admins and the caller's own otherwise.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.RequireAuth(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	var (
		out []*Complaint
	)
	if id.Role == user.RoleAdmin {
		var status *Status
		if raw := r.URL.Query().Get("status"); raw != "" {
			st := Status(raw)
			status = &st
		}
		out, err = h.svc.ListAll(r.Context(), status)
	} else {
		out, err = h.svc.ListOwn(r.Context(), id.UID)
	}
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) {
	if _, err := httpx.RequireRole(r, user.RoleAdmin); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	cid, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	var in ResolveInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	c, err := h.svc.Resolve(r.Context(), cid, in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}
