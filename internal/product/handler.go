package product

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
	r.HandleFunc("/{id}/", h.update).Methods(http.MethodPatch)
	r.HandleFunc("/{id}/", h.remove).Methods(http.MethodDelete)
	r.HandleFunc("/{id}/toggle-stock/", h.toggleStock).Methods(http.MethodPatch)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	shopID, err := strconv.ParseInt(r.URL.Query().Get("shop_id"), 10, 64)
	if err != nil || shopID <= 0 {
		httpx.WriteError(w, r, apperr.E(apperr.Validation, "shop_id is required"))
		return
	}

	// Identity is optional here; it only widens visibility for the owner.
	id, _ := httpx.RequireAuth(r)

	products, err := h.svc.List(r.Context(), id.UID, id.Role, shopID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if products == nil {
		products = []*Product{}
	}
	httpx.WriteJSON(w, http.StatusOK, products)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.RequireRole(r, user.RoleSeller)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	var in CreateProductInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	p, err := h.svc.Create(r.Context(), id.UID, in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.RequireRole(r, user.RoleSeller)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	productID, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	var in UpdateProductInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	p, err := h.svc.Update(r.Context(), id.UID, productID, in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.RequireRole(r, user.RoleSeller)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	productID, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id.UID, productID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

func (h *Handler) toggleStock(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.RequireRole(r, user.RoleSeller)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	productID, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	p, err := h.svc.ToggleStock(r.Context(), id.UID, productID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}
