// Package client calls the records backend over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"precinct/contracts/records"
)

const (
	DefaultTimeout = 10 * time.Second
	// maxErrorBody bounds how much of a failed response is read for its message.
	maxErrorBody = 64 << 10
)

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	baseURL      *url.URL
	http         HTTPDoer
	timeout      time.Duration
	logger       *slog.Logger
	newRequestID func() string
}

type Option func(*Client)

// WithHTTPClient replaces the default *http.Client; the timeout option then
// has no effect.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		c.http = doer
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithRequestIDs(gen func() string) Option {
	return func(c *Client) {
		c.newRequestID = gen
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api url %q must be http or https", baseURL)
	}

	c := &Client{
		baseURL:      u,
		timeout:      DefaultTimeout,
		newRequestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

// List fetches records whose c_id starts with *query; nil asks for all.
func (c *Client) List(ctx context.Context, query *string) ([]records.Record, error) {
	q := records.NullQuery
	if query != nil {
		q = *query
	}
	var out records.ListResponse
	if err := c.do(ctx, "list records", http.MethodGet, records.PathList, url.Values{"query": {q}}, nil, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		out.Data = []records.Record{}
	}
	return out.Data, nil
}

// Upsert inserts rec when create is set and updates it by c_id otherwise.
func (c *Client) Upsert(ctx context.Context, rec records.Record, create bool) error {
	op := "update record"
	if create {
		op = "create record"
	}
	body := records.UpsertRequest{Data: rec, Create: create}
	return c.do(ctx, op, http.MethodPost, records.PathUpsert, nil, body, nil)
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, "delete record", http.MethodDelete, records.PathDelete, url.Values{"c_id": {id}}, nil, nil)
}

func (c *Client) Login(ctx context.Context, policeName, password string) (*records.LoginResponse, error) {
	var out records.LoginResponse
	body := records.LoginRequest{PoliceName: policeName, Password: password}
	if err := c.do(ctx, "login", http.MethodPost, records.PathLogin, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, req records.RegisterRequest) error {
	return c.do(ctx, "register", http.MethodPost, records.PathRegister, nil, req, nil)
}

// do sends one request. A nil out means the success body is ignored.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	target := c.baseURL.JoinPath(path)
	if query != nil {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &Error{Op: op, Kind: KindMalformed, Message: "could not encode request", Err: err}
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return &Error{Op: op, Kind: KindTransport, Message: "could not build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := c.newRequestID()
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "backend unreachable", "op", op, "error", err, "request_id", requestID)
		return &Error{Op: op, Kind: KindTransport, Message: "backend unreachable", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e := &Error{Op: op, Kind: KindStatus, StatusCode: resp.StatusCode, Message: errorMessage(resp)}
		c.logger.ErrorContext(ctx, "backend rejected request",
			"op", op,
			"status", resp.StatusCode,
			"message", e.Message,
			"request_id", requestID,
		)
		return e
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body) //nolint:errcheck // drain for keep-alive
		return nil
	}
	if !isJSON(resp.Header.Get("Content-Type")) {
		c.logger.ErrorContext(ctx, "backend returned non-JSON body",
			"op", op,
			"content_type", resp.Header.Get("Content-Type"),
			"request_id", requestID,
		)
		return &Error{Op: op, Kind: KindMalformed, StatusCode: resp.StatusCode, Message: "unexpected response format"}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.ErrorContext(ctx, "backend returned invalid JSON", "op", op, "error", err, "request_id", requestID)
		return &Error{Op: op, Kind: KindMalformed, StatusCode: resp.StatusCode, Message: "invalid response body", Err: err}
	}
	return nil
}

func errorMessage(resp *http.Response) string {
	fallback := http.StatusText(resp.StatusCode)
	if !isJSON(resp.Header.Get("Content-Type")) {
		return fallback
	}
	var body records.ErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&body); err != nil || body.Error == "" {
		return fallback
	}
	return body.Error
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}

// AsError unwraps err to a *Error when it is one.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// UserMessage returns the text to show for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := AsError(err); ok {
		return e.UserMessage()
	}
	return err.Error()
}
