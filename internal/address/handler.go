package address

import (
	"net/http"

	"townbasket-be/internal/apperr"
	"townbasket-be/internal/httpx"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the address book under the users prefix.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/addresses/", h.list).Methods(http.MethodGet)
	r.HandleFunc("/addresses/", h.create).Methods(http.MethodPost)
	r.HandleFunc("/addresses/{id}/", h.update).Methods(http.MethodPut)
	r.HandleFunc("/addresses/{id}/", h.remove).Methods(http.MethodDelete)
	r.HandleFunc("/addresses/{id}/default/", h.setDefault).Methods(http.MethodPost)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.RequireAuth(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	res, err := h.svc.List(r.Context(), id.UID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.RequireAuth(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	var in CreateAddressInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	addr, err := h.svc.Create(r.Context(), id.UID, in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, addr)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.RequireAuth(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	addrID, err := pathUUID(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	var in UpdateAddressInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	addr, err := h.svc.Update(r.Context(), id.UID, addrID, in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, addr)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.RequireAuth(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	addrID, err := pathUUID(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id.UID, addrID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "address deleted"})
}

func (h *Handler) setDefault(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.RequireAuth(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	addrID, err := pathUUID(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	if err := h.svc.SetDefault(r.Context(), id.UID, addrID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "default address set"})
}

func pathUUID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, apperr.E(apperr.Validation, "invalid address id")
	}
	return id, nil
}
