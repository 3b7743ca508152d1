package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/go-profile-gallery/internal/cache"
	"github.com/pribylovaa/go-profile-gallery/internal/clients/interceptors"
	"github.com/pribylovaa/go-profile-gallery/internal/clients/profiles"
	"github.com/pribylovaa/go-profile-gallery/internal/config"
	httpapi "github.com/pribylovaa/go-profile-gallery/internal/http"
	"github.com/pribylovaa/go-profile-gallery/internal/metrics"
	"github.com/pribylovaa/go-profile-gallery/internal/service"
	gallerygrpc "github.com/pribylovaa/go-profile-gallery/internal/transport/grpc"
	grpcinterceptors "github.com/pribylovaa/go-profile-gallery/pkg/interceptors"
	"github.com/pribylovaa/go-profile-gallery/pkg/redact"

	"google.golang.org/grpc"
	health "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Константы для определения окружения.
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting application", "env", cfg.Env)

	// Корневой контекст по сигналам.
	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	m := metrics.New(prometheus.DefaultRegisterer)

	// Исходящий транспорт: *http.Client + декораторы (метаданные, лог, метрики).
	hc := interceptors.NewHTTPClient(interceptors.DefaultTransportConfig())
	fetch := interceptors.Chain(hc.Do,
		interceptors.WithMetadata(cfg.Upstream.UserAgent),
		interceptors.WithLogging(log),
		interceptors.WithMetrics(m),
	)

	var fetcher service.ProfileFetcher = profiles.New(profiles.Config{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
		Fetch:   fetch,
	})

	// Ревалидация поверх клиента профилей.
	var (
		store      cache.Store
		redisStore *cache.RedisStore
	)
	if cfg.Cache.Enabled {
		if cfg.Cache.RedisURL != "" {
			redisCtx, redisCancel := context.WithTimeout(rootCtx, 10*time.Second)
			rs, err := cache.NewRedisStore(redisCtx, cfg.Cache.RedisURL, cfg.Cache.Prefix)
			redisCancel()
			if err != nil {
				log.Error("redis_connect_failed",
					slog.String("url", redact.URL(cfg.Cache.RedisURL)),
					slog.String("err", err.Error()),
				)
				rootCancel()
				os.Exit(1)
			}
			log.Info("redis_connected", slog.String("url", redact.URL(cfg.Cache.RedisURL)))
			store, redisStore = rs, rs
		} else {
			store = cache.NewMemoryStore()
			log.Info("memory_cache_enabled")
		}

		fetcher = cache.NewRevalidating(fetcher, store, cache.Options{
			Revalidate: cfg.Cache.Revalidate,
			StaleTTL:   cfg.Cache.StaleTTL,
			Logger:     log,
			Metrics:    m,
		})
	}

	// Сервис.
	srvc := service.New(fetcher, *cfg)
	log.Info("service_initialized")

	var ready int32 // 0 — not ready; 1 — ready
	readiness := func(r *http.Request) error {
		if atomic.LoadInt32(&ready) != 1 {
			return errors.New("not ready")
		}
		if redisStore != nil {
			return redisStore.Ping(r.Context())
		}
		return nil
	}

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr: httpAddr,
		Handler: httpapi.NewRouter(srvc, httpapi.Options{
			Logger:   log,
			Timeout:  cfg.Timeouts.Service,
			BasePath: cfg.HTTP.BasePath,
			Metrics:  promhttp.Handler(),
			Ready:    readiness,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("http_listen_start", "addr", httpAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}()

	grpc_prometheus.EnableHandlingTimeHistogram()

	// gRPC-сервер и интерсепторы.
	grpcOpts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			grpcinterceptors.Recover(log),
			grpcinterceptors.UnaryLoggingInterceptor(log),
			grpcinterceptors.WithTimeout(cfg.Timeouts.Service),
			grpc_prometheus.UnaryServerInterceptor,
		),
		grpc.ChainStreamInterceptor(
			grpc_prometheus.StreamServerInterceptor,
		),
	}
	grpcServer := grpc.NewServer(grpcOpts...)

	// Health-check сервис.
	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)

	// Регистрация сервиса.
	gallerygrpc.RegisterGalleryServiceServer(grpcServer, gallerygrpc.NewGalleryServer(srvc))

	// Рефлексия — только в local/dev.
	if cfg.Env == envLocal || cfg.Env == envDev {
		reflection.Register(grpcServer)
	}

	// Старт gRPC-сервера.
	addr := cfg.GRPC.Addr()
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Error("grpc_listen_failed",
			slog.String("addr", addr),
			slog.String("err", err.Error()),
		)
		rootCancel()
		closeStore(store, log)
		os.Exit(1)
	}
	log.Info("grpc_listen_start", slog.String("addr", addr))

	grpc_prometheus.Register(grpcServer)

	// Сервис готов: health -> SERVING и readiness=1
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	atomic.StoreInt32(&ready, 1)

	serveErrCh := make(chan error, 1)
	go func() {
		if err := grpcServer.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	// Ожидание сигнала завершения или фатальной ошибки сервера.
	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("grpc_serve_failed", slog.String("err", err.Error()))
		}
	}

	// Переводим в NOT_SERVING и снимаем ready.
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	atomic.StoreInt32(&ready, 0)

	// Graceful stop с таймаутом.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)

	done := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		log.Info("grpc_stopped")
	case <-shutdownCtx.Done():
		log.Warn("grpc_force_stop")
		grpcServer.Stop()
	}

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_failed", slog.String("err", err.Error()))
	}

	// Явная очистка перед выходом.
	shutdownCancel()
	rootCancel()
	closeStore(store, log)

	log.Info("service_stopped")
}

// setupLogger настраивает slog по окружению.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}

	return log
}

func closeStore(store cache.Store, log *slog.Logger) {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		log.Warn("cache_close_failed", slog.String("err", err.Error()))
	}
}
