// config предоставляет структуру конфигурации gallery-service
// и функции загрузки из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config — корневая конфигурация сервиса.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env      string         `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Cache    CacheConfig    `yaml:"cache"`
	Limits   LimitsConfig   `yaml:"limits"`
	SEO      SEOConfig      `yaml:"seo"`
	Timeouts TimeoutConfig  `yaml:"timeouts"`
}

// HTTPConfig — сетевые настройки HTTP-сервера.
type HTTPConfig struct {
	Host     string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port     string `yaml:"port" env:"HTTP_PORT" env-default:"50090"`
	BasePath string `yaml:"base_path" env:"HTTP_BASE_PATH" env-default:"/api"`
}

// GRPCConfig — сетевые настройки gRPC-сервера.
type GRPCConfig struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"50091"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// Addr возвращает адрес в формате host:port.
func (g GRPCConfig) Addr() string {
	return net.JoinHostPort(g.Host, g.Port)
}

// UpstreamConfig — API профилей.
type UpstreamConfig struct {
	BaseURL     string        `yaml:"base_url" env:"UPSTREAM_BASE_URL" env-default:"https://www.hunqz.com/api/opengrid"`
	DefaultSlug string        `yaml:"default_slug" env:"UPSTREAM_DEFAULT_SLUG" env-default:"msescortplus"`
	Timeout     time.Duration `yaml:"timeout" env:"UPSTREAM_TIMEOUT" env-default:"10s"`
	UserAgent   string        `yaml:"user_agent" env:"UPSTREAM_USER_AGENT" env-default:"gallery-service"`
}

// CacheConfig — обёртка ревалидации.
// Пустой RedisURL — хранилище в памяти процесса.
//
// У Enabled нет env-default: cleanenv подставляет default вместо нулевого значения,
// и явное enabled: false из YAML было бы потеряно.
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled" env:"CACHE_ENABLED"`
	RedisURL   string        `yaml:"redis_url" env:"REDIS_URL"`
	Prefix     string        `yaml:"prefix" env:"CACHE_PREFIX" env-default:"gallery:profile:"`
	Revalidate time.Duration `yaml:"revalidate" env:"CACHE_REVALIDATE" env-default:"300s"`
	StaleTTL   time.Duration `yaml:"stale_ttl" env:"CACHE_STALE_TTL" env-default:"24h"`
}

// LimitsConfig — серверные лимиты на выдачу фотографий.
type LimitsConfig struct {
	// Применяется при запросе без limit; 0 — без ограничения.
	Default int `yaml:"default" env:"DEFAULT_LIMIT" env-default:"0"`
	// Верхняя граница для limit.
	Max int `yaml:"max" env:"MAX_LIMIT" env-default:"200"`
}

// SEOConfig — параметры метаданных страницы.
type SEOConfig struct {
	SiteName string `yaml:"site_name" env:"SEO_SITE_NAME" env-default:"Photo Gallery"`
}

// TimeoutConfig — таймауты сервиса.
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"15s"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file does not exist: %s", p)
		}
		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		return &cfg, nil
	}

	// 1) Явный путь.
	if path == "" {
		// 2) CONFIG_PATH.
		path = os.Getenv("CONFIG_PATH")
	}
	if path != "" {
		c, err := tryRead(path)
		if err != nil {
			return nil, err
		}
		if err := c.validate(); err != nil {
			return nil, err
		}
		return c, nil
	}

	// 3) ./local.yaml.
	if _, err := os.Stat("local.yaml"); err == nil {
		if err := cleanenv.ReadConfig("local.yaml", &cfg); err != nil {
			return nil, fmt.Errorf("failed to read local.yaml: %w", err)
		}
		if err := cfg.validate(); err != nil {
			return nil, err
		}
		return &cfg, nil
	}

	// 4) Только ENV.
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate — базовая валидация значений.
func (c *Config) validate() error {
	switch c.Env {
	case "local", "dev", "prod":
	default:
		return fmt.Errorf("env must be one of local, dev, prod; got %q", c.Env)
	}

	u, err := url.Parse(c.Upstream.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("upstream.base_url must be an absolute http(s) URL; got %q", c.Upstream.BaseURL)
	}
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("upstream.timeout must be > 0")
	}

	if c.Cache.Enabled {
		if c.Cache.Revalidate <= 0 {
			return fmt.Errorf("cache.revalidate must be > 0")
		}
		if c.Cache.StaleTTL < c.Cache.Revalidate {
			return fmt.Errorf("cache.stale_ttl must be >= cache.revalidate")
		}
	}

	if c.Limits.Default < 0 {
		return fmt.Errorf("limits.default must be >= 0")
	}
	if c.Limits.Max <= 0 {
		return fmt.Errorf("limits.max must be > 0")
	}
	if c.Limits.Default > c.Limits.Max {
		return fmt.Errorf("limits.default must be <= limits.max")
	}

	if c.Timeouts.Service <= 0 {
		return fmt.Errorf("timeouts.service must be > 0")
	}

	return nil
}
