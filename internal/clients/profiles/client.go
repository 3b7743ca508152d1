// profiles — клиент публичного API профилей: GET {baseURL}/profiles/{slug}.
//
// Один вызов — один запрос: без ретраев, кэша и логирования.
// Ошибки классифицируются так, чтобы вызывающий мог различить три случая:
//   - *TimeoutError — не уложились в таймаут;
//   - *APIError — апстрим ответил статусом вне 2xx;
//   - прочие ошибки транспорта/разбора JSON — возвращаются как есть, без обёрток.
package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pribylovaa/go-profile-gallery/internal/models"
)

const (
	DefaultBaseURL = "https://www.hunqz.com/api/opengrid"
	DefaultSlug    = "msescortplus"
	DefaultTimeout = 10 * time.Second
)

// FetchFunc — подменяемый HTTP-транспорт. В проде это (*http.Client).Do,
// в тестах — детерминированная заглушка.
type FetchFunc func(*http.Request) (*http.Response, error)

// Config — параметры клиента. Нулевые значения заменяются на Default*.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Fetch   FetchFunc
}

// Client — клиент API профилей. Состояния между вызовами не держит,
// конкурентные вызовы независимы.
type Client struct {
	baseURL string
	timeout time.Duration
	fetch   FetchFunc
}

// New создаёт клиента, подставляя значения по умолчанию.
func New(cfg Config) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		fetch:   cfg.Fetch,
	}

	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.fetch == nil {
		c.fetch = http.DefaultClient.Do
	}

	return c
}

// FetchProfile — разовый вызов без предварительно собранного клиента.
func FetchProfile(ctx context.Context, slug string, cfg Config) (*models.Profile, error) {
	return New(cfg).FetchProfile(ctx, slug)
}

// ProfileURL возвращает {baseURL}/profiles/{slug}; пустой slug — DefaultSlug.
func (c *Client) ProfileURL(slug string) string {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		slug = DefaultSlug
	}

	return c.baseURL + "/profiles/" + url.PathEscape(slug)
}

// Timeout — действующий таймаут запроса.
func (c *Client) Timeout() time.Duration { return c.timeout }

// FetchProfile загружает профиль по slug.
//
// Контракт:
//  1. запрос ограничен таймаутом клиента; по его истечении — *TimeoutError,
//     даже если транспорт игнорирует отмену контекста;
//  2. статус вне 2xx — *APIError{Status, URL}, тело не читается;
//  3. 2xx — тело разбирается как models.Profile;
//  4. остальные ошибки транспорта и JSON возвращаются без изменений;
//  5. отмена ctx вызывающим не считается таймаутом: ошибка отдаётся как есть.
//
// Таймер освобождается на любом пути выхода.
func (c *Client) FetchProfile(ctx context.Context, slug string) (*models.Profile, error) {
	reqURL := c.ProfileURL(slug)

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(reqCtx, req)
	if err != nil {
		return nil, c.classify(ctx, reqCtx, reqURL, err)
	}
	if resp.Body == nil {
		resp.Body = http.NoBody
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &APIError{Status: resp.StatusCode, URL: reqURL}
	}

	dec := json.NewDecoder(resp.Body)

	var profile models.Profile
	if err := dec.Decode(&profile); err != nil {
		return nil, c.classify(ctx, reqCtx, reqURL, err)
	}

	// После объекта допускаются только пробелы.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = ErrTrailingData
		}
		return nil, c.classify(ctx, reqCtx, reqURL, err)
	}

	return &profile, nil
}

type fetchResult struct {
	resp *http.Response
	err  error
}

// do выполняет fetch в отдельной горутине, чтобы таймаут срабатывал
// и для транспорта, который не слушает контекст. Опоздавший ответ закрывается.
func (c *Client) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	done := make(chan fetchResult, 1)

	go func() {
		resp, err := c.fetch(req)
		done <- fetchResult{resp: resp, err: err}
	}()

	select {
	case r := <-done:
		return r.resp, r.err
	case <-ctx.Done():
		go func() {
			if r := <-done; r.resp != nil && r.resp.Body != nil {
				_ = r.resp.Body.Close()
			}
		}()
		return nil, ctx.Err()
	}
}

// classify отличает истечение таймаута клиента от прочих ошибок.
func (c *Client) classify(parent, reqCtx context.Context, reqURL string, err error) error {
	if parent.Err() != nil {
		return err
	}

	if errors.Is(reqCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Timeout: c.timeout, URL: reqURL}
	}

	return err
}
