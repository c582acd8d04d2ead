package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// TokenSource yields the bearer token for the next call.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Tokens    TokenSource
	Logger    *zap.Logger
	UserAgent string
}

// Client is the admin REST client. Every request asks Tokens for a fresh token
// and is never retried.
type Client struct {
	r      *resty.Client
	tokens TokenSource
	log    *zap.Logger
}

func New(opts Options) *Client {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "lmsadmin"
	}

	r := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", ua)

	c := &Client{r: r, tokens: opts.Tokens, log: log}
	r.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if req.Header.Get(requestIDHeader) == "" {
			req.SetHeader(requestIDHeader, uuid.NewString())
		}
		return nil
	})
	r.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		c.log.Debug("api call",
			zap.String("method", resp.Request.Method),
			zap.String("path", resp.Request.URL),
			zap.Int("status", resp.StatusCode()),
			zap.Duration("duration", resp.Time()),
			zap.String("request_id", resp.Request.Header.Get(requestIDHeader)),
		)
		return nil
	})
	return c
}

// BaseURL is the API root the client talks to.
func (c *Client) BaseURL() string { return c.r.BaseURL }

// do sends one request. out may be nil. body is JSON-encoded when non-nil.
func (c *Client) do(ctx context.Context, method, path string, query map[string]string, body, out any) error {
	if c.tokens == nil {
		return fmt.Errorf("%w: no token source", ErrUnauthorized)
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	var eb errorBody
	req := c.r.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetError(&eb)
	for k, v := range query {
		if v != "" {
			req.SetQueryParam(k, v)
		}
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	switch {
	case resp.StatusCode() == http.StatusUnauthorized:
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	case resp.IsError():
		return &HTTPError{Status: resp.StatusCode(), Message: strings.TrimSpace(eb.text()), Method: method, Path: path}
	}

	if out == nil || resp.StatusCode() == http.StatusNoContent || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query map[string]string, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
