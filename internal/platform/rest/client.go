package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"agendaConsole/internal/shared/auth"
)

const bodyExcerptLimit = 2048

// Client wraps http.Client with base URL handling, bearer credentials and status mapping
// so resource adapters only describe paths and payloads.
type Client struct {
	baseURL string
	client  *http.Client

	mu             sync.RWMutex
	onUnauthorized func(path string)
}

func NewClient(baseURL string, timeout time.Duration, client *http.Client) *Client {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		trimmed = "http://localhost:3000/api"
	}
	trimmed = strings.TrimRight(trimmed, "/")
	if client == nil {
		client = &http.Client{Timeout: timeoutOrDefault(timeout)}
	} else if timeout > 0 {
		client.Timeout = timeout
	}
	return &Client{baseURL: trimmed, client: client}
}

// OnUnauthorized registers the hook invoked with the request path of every 401 response.
func (c *Client) OnUnauthorized(fn func(path string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) NewRequest(ctx context.Context, method, endpoint string, query url.Values, body any, cred auth.Credential) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", endpoint, err)
		}
		reader = bytes.NewReader(encoded)
	}

	target := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if header := cred.AuthorizationHeader(); header != "" {
		req.Header.Set("Authorization", header)
	}
	return req, nil
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.client.Do(req)
}

func (c *Client) Get(ctx context.Context, cred auth.Credential, endpoint string, query url.Values, out any) error {
	return c.send(ctx, cred, http.MethodGet, endpoint, query, nil, out)
}

func (c *Client) Post(ctx context.Context, cred auth.Credential, endpoint string, body, out any) error {
	return c.send(ctx, cred, http.MethodPost, endpoint, nil, body, out)
}

func (c *Client) Put(ctx context.Context, cred auth.Credential, endpoint string, body, out any) error {
	return c.send(ctx, cred, http.MethodPut, endpoint, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, cred auth.Credential, endpoint string) error {
	return c.send(ctx, cred, http.MethodDelete, endpoint, nil, nil, nil)
}

// GetRaw returns the undecoded body of a successful GET.
func (c *Client) GetRaw(ctx context.Context, cred auth.Credential, endpoint string, query url.Values) ([]byte, error) {
	var raw json.RawMessage
	if err := c.send(ctx, cred, http.MethodGet, endpoint, query, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) send(ctx context.Context, cred auth.Credential, method, endpoint string, query url.Values, body, out any) error {
	req, err := c.NewRequest(ctx, method, endpoint, query, body, cred)
	if err != nil {
		slog.Error("rest request build failed", slog.String("method", method), slog.String("path", endpoint), slog.Any("error", err))
		return err
	}
	slog.Debug("rest request", slog.String("method", method), slog.String("url", req.URL.String()))

	res, err := c.Do(req)
	if err != nil {
		slog.Error("rest request error", slog.String("method", method), slog.String("path", endpoint), slog.Any("error", err))
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer res.Body.Close()
	slog.Debug("rest response", slog.Int("status", res.StatusCode), slog.String("url", req.URL.String()))

	if err := c.checkStatus(req, res); err != nil {
		return err
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, endpoint, err)
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], payload...)
		return nil
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, endpoint, err)
	}
	return nil
}

func (c *Client) checkStatus(req *http.Request, res *http.Response) error {
	path := req.URL.Path
	if req.URL.RawQuery != "" {
		path += "?" + req.URL.RawQuery
	}
	switch {
	case res.StatusCode >= 200 && res.StatusCode < 300:
		return nil
	case res.StatusCode == http.StatusUnauthorized:
		c.mu.RLock()
		hook := c.onUnauthorized
		c.mu.RUnlock()
		if hook != nil {
			hook(path)
		}
		return fmt.Errorf("%s %s: %w", req.Method, path, ErrUnauthorized)
	case res.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%s %s: %w", req.Method, path, ErrForbidden)
	case res.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", req.Method, path, ErrNotFound)
	}

	excerpt, _ := io.ReadAll(io.LimitReader(res.Body, bodyExcerptLimit))
	statusErr := &StatusError{
		Method: req.Method,
		Path:   path,
		Status: res.StatusCode,
		Body:   strings.TrimSpace(string(excerpt)),
	}
	slog.Error("rest unexpected status", slog.Int("status", res.StatusCode), slog.String("url", req.URL.String()), slog.String("body", statusErr.Body))
	return statusErr
}

func timeoutOrDefault(value time.Duration) time.Duration {
	if value <= 0 {
		return 10 * time.Second
	}
	return value
}
