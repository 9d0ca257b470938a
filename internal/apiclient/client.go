// Package apiclient talks to the stockdesk REST backend. Every call carries
// the session's bearer token; any non-2xx status becomes an *APIError.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// TokenSource yields the bearer token for a request. *session.Session
// satisfies it.
type TokenSource interface {
	IDToken(ctx context.Context) (string, error)
}

// APIError is returned for any non-2xx response
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %d - %s", e.StatusCode, e.Body)
}

// IsAPIError reports whether err is an *APIError whose body contains code
func IsAPIError(err error, code string) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return code == "" || strings.Contains(apiErr.Body, code)
}

// RequestOptions mirrors the options of a fetch call. A string or []byte
// Body is sent as-is; anything else is encoded as JSON.
type RequestOptions struct {
	Method  string
	Body    any
	Headers map[string]string
}

// Response is a successful response with its body already read
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// IsJSON reports whether the server labelled the body as JSON
func (r *Response) IsJSON() bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return strings.Contains(r.Header.Get("Content-Type"), "application/json")
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// Decode unmarshals a JSON body into v
func (r *Response) Decode(v any) error {
	if !r.IsJSON() {
		return fmt.Errorf("expected JSON response, got %q", r.Header.Get("Content-Type"))
	}
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// Client is the HTTP collaborator shared by the importer and order composer
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	log        *zap.Logger
}

// New creates a client for baseURL
func New(baseURL string, timeout time.Duration, tokens TokenSource, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		log:        log,
	}
}

// WithTokens returns a copy of the client that authenticates with tokens.
// The console backend uses it to act for the caller of each request.
func (c *Client) WithTokens(tokens TokenSource) *Client {
	clone := *c
	clone.tokens = tokens
	return &clone
}

// Request performs an authenticated call. path may be absolute or relative
// to the base URL.
func (c *Client) Request(ctx context.Context, path string, opts RequestOptions) (*Response, error) {
	if c.tokens == nil {
		return nil, fmt.Errorf("no token source configured")
	}
	token, err := c.tokens.IDToken(ctx)
	if err != nil {
		return nil, err
	}

	headers := map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer " + token,
	}
	for k, v := range opts.Headers {
		headers[k] = v
	}

	return c.do(ctx, c.resolve(path), opts.Method, opts.Body, headers)
}

func (c *Client) do(ctx context.Context, url, method string, body any, headers map[string]string) (*Response, error) {
	if method == "" {
		method = http.MethodGet
	}

	reqBody, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	c.log.Debug("API request",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}

func (c *Client) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

func encodeBody(body any) (io.Reader, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case string:
		return strings.NewReader(b), nil
	case []byte:
		return bytes.NewReader(b), nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		return bytes.NewReader(data), nil
	}
}
