package order

import (
	"net/http"

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
	r.HandleFunc("/create/", h.create).Methods(http.MethodPost)
	r.HandleFunc("/seller/", h.listSeller).Methods(http.MethodGet)
	r.HandleFunc("/customer/", h.listCustomer).Methods(http.MethodGet)
	r.HandleFunc("/delivery/", h.listDelivery).Methods(http.MethodGet)
	r.HandleFunc("/delivery/stats/", h.deliveryStats).Methods(http.MethodGet)
	r.HandleFunc("/all/", h.listAll).Methods(http.MethodGet)
	r.HandleFunc("/{id}/", h.get).Methods(http.MethodGet)
	r.HandleFunc("/{id}/status/", h.updateStatus).Methods(http.MethodPatch)
	r.HandleFunc("/{id}/accept-delivery/", h.acceptDelivery).Methods(http.MethodPatch)
}

func actorOf(id httpx.Identity) Actor {
	return Actor{UID: id.UID, Role: id.Role}
}

// checkUIDParam rejects requests whose supabase_uid query parameter names a
// different user than the token. The parameter is kept for client
// compatibility only; identity always comes from the token.
func checkUIDParam(r *http.Request, id httpx.Identity) error {
	uid := r.URL.Query().Get("supabase_uid")
	if uid != "" && uid != id.UID {
		return apperr.E(apperr.Forbidden, "cannot query another user's orders")
	}
	return nil
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.RequireRole(r, user.RoleCustomer)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	var in PlaceOrderInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	o, err := h.svc.PlaceOrder(r.Context(), actorOf(id), in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, o)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.RequireAuth(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	orderID, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	o, err := h.svc.Get(r.Context(), actorOf(id), orderID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.RequireAuth(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	orderID, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	var body struct {
		Status     Status `json:"status"`
		SellerNote string `json:"seller_note"`
	}
	if err := httpx.Decode(r, &body); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	o, err := h.svc.UpdateStatus(r.Context(), actorOf(id), orderID, body.Status, body.SellerNote)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, o)
}

// acceptDelivery carries both sides of assignment. A delivery partner claims
// the order for themselves; a seller or admin names a partner in the body.
func (h *Handler) acceptDelivery(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.RequireRole(r, user.RoleSeller, user.RoleDelivery, user.RoleAdmin)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	orderID, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	var body struct {
		DeliveryUID string `json:"delivery_uid"`
	}
	if r.ContentLength > 0 {
		if err := httpx.Decode(r, &body); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
	}

	var o *Order
	if id.Role == user.RoleDelivery {
		if body.DeliveryUID != "" && body.DeliveryUID != id.UID {
			httpx.WriteError(w, r, apperr.E(apperr.Forbidden, "cannot claim an order for another partner"))
			return
		}
		o, err = h.svc.AcceptDelivery(r.Context(), actorOf(id), orderID)
	} else {
		o, err = h.svc.AssignRider(r.Context(), actorOf(id), orderID, body.DeliveryUID)
	}
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) listSeller(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.RequireRole(r, user.RoleSeller, user.RoleAdmin)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := checkUIDParam(r, id); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	orders, err := h.svc.ListForSeller(r.Context(), actorOf(id), statusParam(r))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, orders)
}

func (h *Handler) listCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.RequireAuth(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := checkUIDParam(r, id); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	orders, err := h.svc.ListForCustomer(r.Context(), actorOf(id), statusParam(r))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, orders)
}

func (h *Handler) listDelivery(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.RequireRole(r, user.RoleDelivery)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	orders, err := h.svc.ListForDelivery(r.Context(), actorOf(id), r.URL.Query().Get("status"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, orders)
}

func (h *Handler) deliveryStats(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.RequireRole(r, user.RoleDelivery)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	stats, err := h.svc.DeliveryStats(r.Context(), actorOf(id))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) listAll(w http.ResponseWriter, r *http.Request) {
	_, err := httpx.RequireRole(r, user.RoleAdmin)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	f := ListFilter{Status: statusParam(r)}
	orders, err := h.svc.ListAll(r.Context(), f)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, orders)
}

func statusParam(r *http.Request) *Status {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return nil
	}
	st := Status(raw)
	return &st
}
