package interceptors

import (
	"context"
	"log/slog"
	"runtime/debug"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/pribylovaa/go-profile-gallery/pkg/log"
)

// Recover превращает панику обработчика в codes.Internal с нейтральным текстом.
//
// Запись "panic" (Error) содержит метод, причину и стек. Логгер берётся из ctx,
// если его туда положил UnaryLoggingInterceptor; иначе base или slog.Default().
func Recover(base *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			l := log.From(ctx)
			if l == slog.Default() && base != nil {
				l = base
			}

			l.Error("panic",
				slog.String("method", info.FullMethod),
				slog.Any("reason", rec),
				slog.String("stack", string(debug.Stack())),
			)

			resp, err = nil, status.Error(codes.Internal, "internal error")
		}()

		return handler(ctx, req)
	}
}
