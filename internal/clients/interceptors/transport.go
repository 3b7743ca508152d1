package interceptors

import (
	"net"
	"net/http"
	"time"
)

// TransportConfig — таймауты и пулы соединений исходящего *http.Client.
// Общий дедлайн запроса задаёт клиент профилей, здесь только транспортные лимиты.
type TransportConfig struct {
	DialTimeout         time.Duration
	KeepAlive           time.Duration
	TLSHandshake        time.Duration
	// ResponseHeader — 0 означает без отдельного лимита: ожидание ответа
	// ограничивает upstream.timeout клиента профилей. Ненулевое значение
	// меньше upstream.timeout обрывает запрос раньше настроенного таймаута.
	ResponseHeader      time.Duration
	IdleConnTimeout     time.Duration
	MaxIdleConns        int
	MaxIdleConnsPerHost int
}

func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		DialTimeout:         5 * time.Second,
		KeepAlive:           30 * time.Second,
		TLSHandshake:        5 * time.Second,
		ResponseHeader:      0,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
	}
}

// NewHTTPClient собирает *http.Client для апстрима; его Do — боевой profiles.FetchFunc.
func NewHTTPClient(cfg TransportConfig) *http.Client {
	dialer := &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: cfg.KeepAlive,
	}

	return &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          cfg.MaxIdleConns,
			MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
			IdleConnTimeout:       cfg.IdleConnTimeout,
			TLSHandshakeTimeout:   cfg.TLSHandshake,
			ResponseHeaderTimeout: cfg.ResponseHeader,
		},
	}
}
