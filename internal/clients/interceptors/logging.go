package interceptors

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/pribylovaa/go-profile-gallery/internal/clients/profiles"
	"github.com/pribylovaa/go-profile-gallery/pkg/log"
)

// WithLogging — одна запись на исходящий запрос: msg="upstream_http",
// url, status (0 при ошибке транспорта), dur и err, если был.
//
// Логгер берётся из контекста запроса (pkg/log), иначе base, иначе slog.Default().
// Тело и заголовки не логируются.
func WithLogging(base *slog.Logger) Interceptor {
	return func(next profiles.FetchFunc) profiles.FetchFunc {
		return func(req *http.Request) (*http.Response, error) {
			l := log.From(req.Context())
			if l == slog.Default() && base != nil {
				l = base
			}

			start := time.Now()
			resp, err := next(req)

			attrs := []slog.Attr{
				slog.String("method", req.Method),
				slog.String("url", req.URL.String()),
				slog.Duration("dur", time.Since(start)),
			}
			rid := req.Header.Get("X-Request-Id")
			if rid == "" {
				rid, _ = req.Context().Value(CtxRequestID).(string)
			}
			if rid != "" {
				attrs = append(attrs, slog.String("request_id", rid))
			}

			level := slog.LevelInfo
			switch {
			case err != nil:
				level = slog.LevelWarn
				attrs = append(attrs, slog.Int("status", 0), slog.String("err", err.Error()))
			default:
				attrs = append(attrs, slog.Int("status", resp.StatusCode))
				if resp.StatusCode >= http.StatusBadRequest {
					level = slog.LevelWarn
				}
			}

			l.LogAttrs(req.Context(), level, "upstream_http", attrs...)

			return resp, err
		}
	}
}
