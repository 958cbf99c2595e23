// Package api is the client for the remote inventory/sales/accounting API.
//
// Credentials travel implicitly: the client owns an http.CookieJar and the remote
// session cookie is attached to every call by the transport.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MrJamesThe3rd/backoffice/internal/encoding"
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// CodeSessionSuperseded is set by the API when a login elsewhere invalidated the session.
const CodeSessionSuperseded = "SESSION_SUPERSEDED"

// HeaderSessionSuperseded carries the same signal for endpoints that answer without a body.
const HeaderSessionSuperseded = "X-Session-Superseded"

// ErrUnauthorized matches any RequestError with a 401 status.
var ErrUnauthorized = errors.New("unauthorized")

// RequestError is returned for every non-2xx response.
type RequestError struct {
	Status  int
	Message string
	Code    string
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// IsSuperseded reports whether err carries the session-superseded marker.
func IsSuperseded(err error) bool {
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		return false
	}

	return reqErr.Code == CodeSessionSuperseded
}

type Client struct {
	http    *http.Client
	jar     http.CookieJar
	baseURL *url.URL
	printer *message.Printer
}

type Option func(*Client)

// WithJar makes the client send and store cookies through jar.
func WithJar(jar http.CookieJar) Option {
	return func(c *Client) { c.jar = jar }
}

// WithTimeout sets a transport timeout. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLanguage selects the language of the generic failure message.
func WithLanguage(tag language.Tag) Option {
	return func(c *Client) { c.printer = message.NewPrinter(tag) }
}

// WithTransport replaces the underlying round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.http.Transport = rt }
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}

	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	c := &Client{
		http:    &http.Client{},
		baseURL: u,
		printer: message.NewPrinter(language.English),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("creating cookie jar: %w", err)
		}

		c.jar = jar
	}

	c.http.Jar = c.jar

	return c, nil
}

// BaseURL returns the API origin the client talks to.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// Cookies returns the cookies the jar would send to the API.
func (c *Client) Cookies() []*http.Cookie {
	return c.jar.Cookies(c.baseURL)
}

// RequestOptions describes a single call.
type RequestOptions struct {
	Method string
	Query  url.Values
	Body   any
}

// Request performs a call against endpoint and decodes a JSON response into out.
// out may be nil when the response body is irrelevant.
func (c *Client) Request(ctx context.Context, endpoint string, opts RequestOptions, out any) error {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	u := c.baseURL.JoinPath(endpoint)
	if len(opts.Query) > 0 {
		u.RawQuery = opts.Query.Encode()
	}

	var body io.Reader

	if opts.Body != nil {
		b, err := json.Marshal(opts.Body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}

		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.requestError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", endpoint, err)
	}

	return nil
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (c *Client) requestError(resp *http.Response) *RequestError {
	reqErr := &RequestError{Status: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var eb errorBody
	if err := json.Unmarshal(encoding.ToUTF8(raw), &eb); err == nil {
		reqErr.Message = eb.Error
		if reqErr.Message == "" {
			reqErr.Message = eb.Message
		}

		reqErr.Code = eb.Code
	}

	if resp.Header.Get(HeaderSessionSuperseded) == "true" {
		reqErr.Code = CodeSessionSuperseded
	}

	if reqErr.Message == "" {
		reqErr.Message = c.printer.Sprintf(msgRequestFailed)
	}

	return reqErr
}
