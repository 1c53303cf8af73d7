package greeter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"go.uber.org/zap"

	applog "github.com/janisto/greet-playground/internal/platform/logging"
)

const (
	defaultUserAgent = "greet-playground"
	greetPath        = "/greet"
	contentTypeJSON  = "application/json"
	contentTypeCBOR  = "application/cbor"
	maxResponseBytes = 1 << 20
)

// Client implements Service against a remote greet operation over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	useCBOR    bool
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the origin hosting the greet operation.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithCBOR switches request and response bodies from JSON to CBOR.
func WithCBOR() Option {
	return func(c *Client) {
		c.useCBOR = true
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient creates a greet client. A nil httpClient uses http.DefaultClient.
func NewClient(httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{
		httpClient: httpClient,
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type greetRequest struct {
	Name string `json:"name"`
}

type greetResponse struct {
	Greeting  string `json:"greeting"`
	Timestamp string `json:"timestamp"`
}

type problemDetail struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

func (c *Client) Greet(ctx context.Context, name string) (string, error) {
	body, err := c.marshal(greetRequest{Name: name})
	if err != nil {
		return "", NewCallError(CallErrorKindTransport, 0, fmt.Errorf("encoding request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+greetPath, bytes.NewReader(body))
	if err != nil {
		return "", NewCallError(CallErrorKindTransport, 0, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", c.contentType())
	req.Header.Set("Accept", c.contentType())
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", NewCallError(CallErrorKindTimeout, 0, err)
		}
		return "", NewCallError(CallErrorKindTransport, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", NewCallError(CallErrorKindTransport, resp.StatusCode, fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return "", c.statusError(ctx, resp, raw)
	}

	var out greetResponse
	if err := c.unmarshal(resp.Header.Get("Content-Type"), raw, &out); err != nil {
		return "", NewCallError(CallErrorKindDecode, resp.StatusCode, fmt.Errorf("decoding greet response: %w", err))
	}
	return out.Greeting, nil
}

func (c *Client) contentType() string {
	if c.useCBOR {
		return contentTypeCBOR
	}
	return contentTypeJSON
}

func (c *Client) marshal(v any) ([]byte, error) {
	if c.useCBOR {
		return cbor.Marshal(v)
	}
	return json.Marshal(v)
}

// unmarshal follows the response Content-Type rather than the requested
// format, since servers may ignore Accept.
func (c *Client) unmarshal(contentType string, data []byte, v any) error {
	if strings.Contains(contentType, "cbor") {
		return cbor.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}

func (c *Client) statusError(ctx context.Context, resp *http.Response, raw []byte) *CallError {
	var problem problemDetail
	var cause error
	if err := c.unmarshal(resp.Header.Get("Content-Type"), raw, &problem); err == nil && problem.Detail != "" {
		cause = errors.New(problem.Detail)
	}

	kind := CallErrorKindUpstream
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		kind = CallErrorKindRateLimited
	case resp.StatusCode == http.StatusGatewayTimeout || resp.StatusCode == http.StatusRequestTimeout:
		kind = CallErrorKindTimeout
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		kind = CallErrorKindRejected
	}

	callErr := NewCallError(kind, resp.StatusCode, cause)
	callErr.RetryAfter = strings.TrimSpace(resp.Header.Get("Retry-After"))

	applog.LogWarn(ctx, "greet call failed",
		zap.Int("status", resp.StatusCode),
		zap.String("kind", string(kind)),
		zap.String("Retry-After", callErr.RetryAfter),
	)
	return callErr
}

// Compile-time interface check
var _ Service = (*Client)(nil)
