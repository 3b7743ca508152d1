package interceptors

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	clientinterceptors "github.com/pribylovaa/go-profile-gallery/internal/clients/interceptors"
	"github.com/pribylovaa/go-profile-gallery/pkg/log"
)

// RequestIDKey — ключ metadata с идентификатором запроса.
const RequestIDKey = "x-request-id"

const maxRequestIDLen = 128

// UnaryLoggingInterceptor логирует unary-вызовы одной записью "grpc".
//
//   - x-request-id берётся из входящего metadata, иначе генерируется UUID;
//     он же уходит клиенту в заголовке ответа и в исходящие запросы к апстриму;
//   - логгер с request_id, method и peer кладётся в ctx (pkg/log);
//   - уровень записи зависит от кода: Info для OK, Warn для ошибок клиента,
//     Error для остальных.
func UnaryLoggingInterceptor(base *slog.Logger) grpc.UnaryServerInterceptor {
	if base == nil {
		base = slog.Default()
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()

		rid := incomingRequestID(ctx)
		// Вне реального стрима (unit-тесты) SetHeader вернёт ошибку — это не критично.
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDKey, rid))

		peerAddr := "-"
		if p, ok := peer.FromContext(ctx); ok && p != nil && p.Addr != nil {
			peerAddr = p.Addr.String()
		}

		l := base.With(
			slog.String("request_id", rid),
			slog.String("method", info.FullMethod),
			slog.String("peer", peerAddr),
		)
		ctx = log.Into(ctx, l)
		ctx = context.WithValue(ctx, clientinterceptors.CtxRequestID, rid)

		resp, err := handler(ctx, req)

		code := status.Code(err)
		l.Log(ctx, levelFor(code), "grpc",
			slog.String("code", code.String()),
			slog.Duration("dur", time.Since(start)),
		)

		return resp, err
	}
}

func incomingRequestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(RequestIDKey); len(v) > 0 && v[0] != "" && len(v[0]) <= maxRequestIDLen {
			return v[0]
		}
	}

	return uuid.NewString()
}

func levelFor(c codes.Code) slog.Level {
	switch c {
	case codes.OK:
		return slog.LevelInfo
	case codes.InvalidArgument, codes.NotFound, codes.Canceled, codes.DeadlineExceeded:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
