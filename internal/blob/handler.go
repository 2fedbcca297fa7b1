package blob

import (
	"net/http"

	"townbasket-be/internal/apperr"
	"townbasket-be/internal/httpx"
	"townbasket-be/internal/user"

	"github.com/gorilla/mux"
)

const maxUploadBytes = 5 << 20

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/", h.upload).Methods(http.MethodPost)
}

// upload accepts a multipart form with a "file" part and an optional
// "folder" field, and responds with the public URL.
func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	if _, err := httpx.RequireRole(r, user.RoleSeller, user.RoleAdmin); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.WriteError(w, r, apperr.E(apperr.Validation, "invalid multipart body"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.WriteError(w, r, apperr.E(apperr.Validation, "file part is required"))
		return
	}
	defer file.Close()

	folder := r.FormValue("folder")
	if folder == "" {
		folder = "images"
	}

	url, err := h.store.Upload(r.Context(), folder, header.Header.Get("Content-Type"), file)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, map[string]string{"url": url})
}
