package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/pribylovaa/go-profile-gallery/internal/models"
	"github.com/pribylovaa/go-profile-gallery/internal/service"
)

// Handlers агрегирует зависимости хендлеров.
type Handlers struct {
	Service *service.Service
}

func New(svc *service.Service) *Handlers {
	return &Handlers{Service: svc}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// galleryOptions разбирает public_only, safe_only и limit.
// Отсутствующие флаги — true, отсутствующий limit — 0 (лимит по умолчанию).
func galleryOptions(r *http.Request) (models.GalleryOptions, error) {
	opts := models.DefaultGalleryOptions()
	q := r.URL.Query()

	var err error
	if opts.PublicOnly, err = boolParam(q.Get("public_only"), true); err != nil {
		return opts, fmt.Errorf("public_only: %w", err)
	}
	if opts.SafeOnly, err = boolParam(q.Get("safe_only"), true); err != nil {
		return opts, fmt.Errorf("safe_only: %w", err)
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, fmt.Errorf("limit must be a non-negative integer: %w", service.ErrInvalidArgument)
		}
		opts.Limit = n
	}

	return opts, nil
}

func boolParam(v string, def bool) (bool, error) {
	if v == "" {
		return def, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, service.ErrInvalidArgument
	}

	return b, nil
}
