package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"aquaview/internal/platform/config"
	apperrors "aquaview/internal/platform/errors"
	"aquaview/internal/platform/id"
)

// TokenSource yields the current bearer token, or "" when no session is
// active. The gateway never mutates session state; it only reads the token
// at request time so a cleared session is honoured immediately.
type TokenSource interface {
	Token() string
}

// Client issues HTTP requests against the backend base address and folds
// every outcome into the apperrors taxonomy. All calls, authenticated or
// not, go through one Client instance.
type Client struct {
	base    string
	http    *http.Client
	headers map[string]string
	tokens  TokenSource
	ids     id.Generator
	breaker *gobreaker.CircuitBreaker
}

func New(cfg config.Config, tokens TokenSource, ids id.Generator) *Client {
	return &Client{
		base:    strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		headers: cfg.DefaultHeaders,
		tokens:  tokens,
		ids:     ids,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "aquaview-backend",
			MaxRequests: 3,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
		}),
	}
}

// GetJSON issues a GET and decodes the response body into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	target := c.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

// PostJSON issues a POST with a JSON body and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// PostForm issues a form-encoded POST; the backend login route consumes
// form fields, not JSON.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

// GetBlob fetches a binary payload. Callers treat ErrNoData as "use the
// bundled fallback asset".
func (c *Client) GetBlob(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	var blob []byte
	if err := c.doRaw(req, func(body []byte) error {
		blob = body
		return nil
	}); err != nil {
		return nil, err
	}
	return blob, nil
}

func (c *Client) do(req *http.Request, out any) error {
	return c.doRaw(req, func(body []byte) error {
		if out == nil {
			return nil
		}
		if len(body) == 0 {
			return apperrors.ErrNoData
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	})
}

func (c *Client) doRaw(req *http.Request, accept func(body []byte) error) error {
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if c.ids != nil {
		req.Header.Set("X-Request-ID", c.ids.New())
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	result, err := c.breaker.Execute(func() (any, error) {
		resp, execErr := c.http.Do(req)
		if execErr != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrServerUnavailable, execErr)
		}
		defer resp.Body.Close()
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, fmt.Errorf("%w: read body: %v", apperrors.ErrServerUnavailable, readErr)
		}
		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("%w: status %d", apperrors.ErrServerUnavailable, resp.StatusCode)
		}
		return &rawResponse{status: resp.StatusCode, body: body}, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: circuit open", apperrors.ErrServerUnavailable)
		}
		return err
	}

	raw := result.(*rawResponse)
	if err := classify(raw.status, raw.body); err != nil {
		return err
	}
	return accept(raw.body)
}

type rawResponse struct {
	status int
	body   []byte
}

// classify maps non-2xx statuses onto the failure taxonomy. 5xx never
// reaches here; the breaker already counted and wrapped it.
func classify(status int, body []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized:
		return apperrors.ErrUnauthorized
	case status == http.StatusNotFound:
		return apperrors.ErrNoData
	default:
		detail := detailMessage(body)
		if detail == "" {
			detail = fmt.Sprintf("request rejected with status %d", status)
		}
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, detail)
	}
}

func detailMessage(body []byte) string {
	payload := struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Detail != "" {
		return payload.Detail
	}
	return payload.Message
}
