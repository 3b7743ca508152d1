package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// writeFile — утилита записи временного файла конфигурации.
func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

// chdir — смена текущего рабочего каталога с автоматическим откатом.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

// Полный корректный YAML (не зависит от дефолтов).
const sampleYAML = `
env: "prod"
http:
  host: "127.0.0.1"
  port: "8080"
  base_path: "/v1"
grpc:
  host: "127.0.0.1"
  port: "9090"
upstream:
  base_url: "https://profiles.example/api/"
  default_slug: "someone"
  timeout: "3s"
  user_agent: "test-agent"
cache:
  enabled: true
  redis_url: "redis://localhost:6379/1"
  prefix: "t:"
  revalidate: "1m"
  stale_ttl: "1h"
limits:
  default: 20
  max: 50
seo:
  site_name: "Erasys Test"
timeouts:
  service: "7s"
`

// Пустой YAML — всё из env-default.
const minimalYAML = `
env: "local"
`

const brokenYAML = `
upstream:
  base_url: "https://profiles.example"
  timeout: [
`

// TestAddr — проверяем, что Addr() корректно собирает host:port.
func TestAddr(t *testing.T) {
	t.Parallel()
	require.Equal(t, "127.0.0.1:50091", GRPCConfig{Host: "127.0.0.1", Port: "50091"}.Addr())
	require.Equal(t, "0.0.0.0:50090", HTTPConfig{Host: "0.0.0.0", Port: "50090"}.Addr())
}

// TestLoad_WithExplicitPath_OK — явный путь имеет высший приоритет.
func TestLoad_WithExplicitPath_OK(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", sampleYAML)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "127.0.0.1:8080", cfg.HTTP.Addr())
	require.Equal(t, "/v1", cfg.HTTP.BasePath)
	require.Equal(t, "127.0.0.1:9090", cfg.GRPC.Addr())
	require.Equal(t, "https://profiles.example/api/", cfg.Upstream.BaseURL)
	require.Equal(t, "someone", cfg.Upstream.DefaultSlug)
	require.Equal(t, 3*time.Second, cfg.Upstream.Timeout)
	require.Equal(t, "test-agent", cfg.Upstream.UserAgent)
	require.True(t, cfg.Cache.Enabled)
	require.Equal(t, "redis://localhost:6379/1", cfg.Cache.RedisURL)
	require.Equal(t, "t:", cfg.Cache.Prefix)
	require.Equal(t, time.Minute, cfg.Cache.Revalidate)
	require.Equal(t, time.Hour, cfg.Cache.StaleTTL)
	require.Equal(t, 20, cfg.Limits.Default)
	require.Equal(t, 50, cfg.Limits.Max)
	require.Equal(t, "Erasys Test", cfg.SEO.SiteName)
	require.Equal(t, 7*time.Second, cfg.Timeouts.Service)
}

// TestLoad_Defaults — незаданные поля получают env-default.
func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", minimalYAML)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	require.Equal(t, "local", cfg.Env)
	require.Equal(t, "0.0.0.0:50090", cfg.HTTP.Addr())
	require.Equal(t, "/api", cfg.HTTP.BasePath)
	require.Equal(t, "0.0.0.0:50091", cfg.GRPC.Addr())
	require.Equal(t, "https://www.hunqz.com/api/opengrid", cfg.Upstream.BaseURL)
	require.Equal(t, "msescortplus", cfg.Upstream.DefaultSlug)
	require.Equal(t, 10*time.Second, cfg.Upstream.Timeout)
	require.Equal(t, "gallery-service", cfg.Upstream.UserAgent)
	require.False(t, cfg.Cache.Enabled)
	require.Empty(t, cfg.Cache.RedisURL)
	require.Equal(t, "gallery:profile:", cfg.Cache.Prefix)
	require.Equal(t, 300*time.Second, cfg.Cache.Revalidate)
	require.Equal(t, 24*time.Hour, cfg.Cache.StaleTTL)
	require.Equal(t, 0, cfg.Limits.Default)
	require.Equal(t, 200, cfg.Limits.Max)
	require.Equal(t, "Photo Gallery", cfg.SEO.SiteName)
	require.Equal(t, 15*time.Second, cfg.Timeouts.Service)
}

// TestLoad_UsesCONFIG_PATH — при пустом path используется CONFIG_PATH.
func TestLoad_UsesCONFIG_PATH(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "env.yaml", sampleYAML)
	t.Setenv("CONFIG_PATH", cfgPath)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "prod", cfg.Env)
}

// TestLoad_UsesLocalYAML — без path и CONFIG_PATH читается ./local.yaml.
func TestLoad_UsesLocalYAML(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	dir := t.TempDir()
	writeFile(t, dir, "local.yaml", sampleYAML)
	chdir(t, dir)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "someone", cfg.Upstream.DefaultSlug)
}

// TestLoad_EnvOnly — без файлов конфигурация собирается из ENV.
func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	chdir(t, t.TempDir())
	t.Setenv("UPSTREAM_DEFAULT_SLUG", "from-env")
	t.Setenv("MAX_LIMIT", "10")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.Upstream.DefaultSlug)
	require.Equal(t, 10, cfg.Limits.Max)
}

// TestLoad_Errors — отсутствующий файл, битый YAML и нарушения validate.
func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "does not exist")

	_, err = Load(writeFile(t, dir, "broken.yaml", brokenYAML))
	require.Error(t, err)

	cases := map[string]string{
		"bad env":            "env: staging\n",
		"relative base url":  "upstream:\n  base_url: \"/api\"\n",
		"ftp base url":       "upstream:\n  base_url: \"ftp://host/x\"\n",
		"stale < revalidate": "cache:\n  enabled: true\n  revalidate: 10m\n  stale_ttl: 1m\n",
		"negative default":   "limits:\n  default: -1\n",
		"default > max":      "limits:\n  default: 300\n  max: 200\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, t.TempDir(), "c.yaml", body))
			require.Error(t, err)
		})
	}
}

// TestLoad_CacheDisabledSkipsCacheValidation — при выключенном кэше его поля не проверяются.
func TestLoad_CacheDisabledSkipsCacheValidation(t *testing.T) {
	path := writeFile(t, t.TempDir(), "c.yaml", "cache:\n  enabled: false\n  revalidate: 10m\n  stale_ttl: 1m\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.False(t, cfg.Cache.Enabled)
}

// TestMustLoad_Panics — MustLoad паникует на ошибке Load.
func TestMustLoad_Panics(t *testing.T) {
	require.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "nope.yaml")) })
}
