package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/pribylovaa/go-profile-gallery/internal/errors"
)

// imagesResponse — тело ответа GET /profile/{slug}/images.
type imagesResponse struct {
	URLs []string `json:"urls"`
}

// GetProfile отдаёт профиль как есть, включая дополнительные поля апстрима.
// Без {slug} используется профиль по умолчанию.
func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.Profile(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) GetGallery(w http.ResponseWriter, r *http.Request) {
	opts, err := galleryOptions(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	g, err := h.Service.Gallery(r.Context(), chi.URLParam(r, "slug"), opts)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, g)
}

func (h *Handlers) GetImageURLs(w http.ResponseWriter, r *http.Request) {
	opts, err := galleryOptions(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	urls, err := h.Service.ImageURLs(r.Context(), chi.URLParam(r, "slug"), opts)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, imagesResponse{URLs: urls})
}

func (h *Handlers) GetMetadata(w http.ResponseWriter, r *http.Request) {
	page, err := h.Service.Metadata(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}
