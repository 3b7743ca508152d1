package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/go-profile-gallery/internal/http/handlers"
	"github.com/pribylovaa/go-profile-gallery/internal/http/middleware"
	"github.com/pribylovaa/go-profile-gallery/internal/service"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/api"; если пустой — роуты регистрируются на корне.

	// Служебные эндпойнты на корне (вне BasePath и без таймаута).
	Metrics http.Handler                 // /metrics; nil — не регистрируется
	Ready   func(r *http.Request) error // проверка для /healthz; nil — всегда готов
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Пробы и метрики не логируем и не ограничиваем таймаутом.
	registerProbes(root, opts.Metrics, opts.Ready)

	h := handlers.New(svc)

	root.Group(func(r chi.Router) {
		// Middleware (внешний -> внутренний).
		r.Use(
			middleware.Recover(),            // безопасно ловим паники
			middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
			middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
		)
		if opts.Timeout > 0 {
			r.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
		}

		if opts.BasePath != "" && opts.BasePath != "/" {
			r.Route(opts.BasePath, func(sub chi.Router) {
				registerRoutes(sub, h)
			})
			return
		}

		registerRoutes(r, h)
	})

	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	r.Get("/profile", h.GetProfile)
	r.Get("/profile/{slug}", h.GetProfile)
	r.Get("/profile/{slug}/gallery", h.GetGallery)
	r.Get("/profile/{slug}/images", h.GetImageURLs)
	r.Get("/profile/{slug}/metadata", h.GetMetadata)
}

func registerProbes(r chi.Router, metrics http.Handler, ready func(r *http.Request) error) {
	r.Get("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if ready != nil {
			if err := ready(req); err != nil {
				http.Error(w, "not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if metrics != nil {
		r.Handle("/metrics", metrics)
	}
}
