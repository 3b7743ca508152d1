package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	apierrors "github.com/pribylovaa/go-profile-gallery/internal/errors"
	logctx "github.com/pribylovaa/go-profile-gallery/pkg/log"
)

// Recover перехватывает panic, конвертирует в 500/internal и пишет унифицированный ответ.
// Детали паники не утекают на клиент, стек пишется в лог.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logctx.From(r.Context()).
					LogAttrs(r.Context(), slog.LevelError, "panic",
						slog.String("path", r.URL.Path),
						slog.Any("reason", rec),
						slog.String("stack", string(debug.Stack())),
					)
				apierrors.WriteError(w, r, fmt.Errorf("internal"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
