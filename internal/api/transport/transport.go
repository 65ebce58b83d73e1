// Package transport issues HTTP requests against the Segmentation Fault API
// on behalf of a session.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/segmentation-fault/forum/internal/api/metrics"
	"github.com/segmentation-fault/forum/internal/api/session"
	"github.com/segmentation-fault/forum/internal/core/domain"
)

const defaultTimeout = 30 * time.Second

// Doer is satisfied by *http.Client. Tests and callers may inject wrappers.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Request describes one API call. Path is relative to the base URL.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   io.Reader
	Header http.Header
	// SkipJSONContentType leaves Content-Type to the caller (multipart and
	// form-encoded bodies).
	SkipJSONContentType bool
}

// Response is a fully-buffered 2xx response.
type Response struct {
	StatusCode int
	Body       []byte
}

// maxErrorBody bounds how much of a non-2xx body is kept.
const maxErrorBody = 64 << 10

// StatusError carries the status code of a non-2xx response and the start
// of its body.
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// Transport is safe for concurrent use.
type Transport struct {
	baseURL string
	client  Doer
	log     zerolog.Logger
}

// Option customises a Transport.
type Option func(*Transport)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(c Doer) Option {
	return func(t *Transport) { t.client = c }
}

// WithTimeout sets the timeout of the default *http.Client.
func WithTimeout(d time.Duration) Option {
	return func(t *Transport) {
		if hc, ok := t.client.(*http.Client); ok && d > 0 {
			hc.Timeout = d
		}
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(t *Transport) { t.log = log }
}

// New returns a Transport rooted at baseURL.
func New(baseURL string, opts ...Option) *Transport {
	t := &Transport{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// URL joins path (and optional query) onto the base URL.
func (t *Transport) URL(path string, query url.Values) string {
	u := t.baseURL + path
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		u += sep + query.Encode()
	}
	return u
}

// Do sends req with the session's credentials. A nil session is anonymous.
//
// 2xx responses are returned buffered. A 401 received while the session sits
// on an unauthenticated-only screen redirects the session to the login
// screen and yields domain.ErrRedirected. Any other status yields a
// *StatusError.
func (t *Transport) Do(ctx context.Context, sess *session.Session, req Request) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, t.URL(req.Path, req.Query), req.Body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if sess != nil {
		if token := sess.Token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}
	if !req.SkipJSONContentType {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resource := resourceOf(req.Path)
	start := time.Now()

	httpResp, err := t.client.Do(httpReq)
	metrics.ClientRequestDuration.WithLabelValues(req.Method, resource).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ClientRequestsTotal.WithLabelValues(req.Method, resource, "error").Inc()
		t.log.Debug().Err(err).Str("method", req.Method).Str("path", req.Path).Msg("request failed")
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	defer httpResp.Body.Close()

	code := httpResp.StatusCode
	metrics.ClientRequestsTotal.WithLabelValues(req.Method, resource, strconv.Itoa(code)).Inc()
	t.log.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", code).
		Dur("elapsed", time.Since(start)).
		Msg("api request")

	if code == http.StatusUnauthorized && sess != nil && sess.OnUnauthenticatedPath() {
		metrics.ClientRedirectsTotal.Inc()
		t.log.Info().Str("from", sess.Path()).Msg("unauthorized, redirecting to login")
		sess.RedirectToLogin()
		return nil, domain.ErrRedirected
	}

	if code < 200 || code >= 300 {
		body, _ := io.ReadAll(io.LimitReader(httpResp.Body, maxErrorBody))
		return nil, &StatusError{Code: code, Body: body}
	}

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", req.Method, req.Path, err)
	}
	return &Response{StatusCode: code, Body: body}, nil
}

// RequestOption adjusts a request built by the method helpers.
type RequestOption func(*Request)

func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		if r.Header == nil {
			r.Header = make(http.Header)
		}
		r.Header.Set(key, value)
	}
}

func WithQuery(key, value string) RequestOption {
	return func(r *Request) {
		if r.Query == nil {
			r.Query = make(url.Values)
		}
		r.Query.Set(key, value)
	}
}

// WithoutJSONContentType sets SkipJSONContentType.
func WithoutJSONContentType() RequestOption {
	return func(r *Request) { r.SkipJSONContentType = true }
}

func (t *Transport) send(ctx context.Context, sess *session.Session, method, path string, body io.Reader, opts []RequestOption) (*Response, error) {
	req := Request{Method: method, Path: path, Body: body}
	for _, opt := range opts {
		opt(&req)
	}
	return t.Do(ctx, sess, req)
}

func (t *Transport) Get(ctx context.Context, sess *session.Session, path string, opts ...RequestOption) (*Response, error) {
	return t.send(ctx, sess, http.MethodGet, path, nil, opts)
}

func (t *Transport) Post(ctx context.Context, sess *session.Session, path string, body io.Reader, opts ...RequestOption) (*Response, error) {
	return t.send(ctx, sess, http.MethodPost, path, body, opts)
}

func (t *Transport) Put(ctx context.Context, sess *session.Session, path string, body io.Reader, opts ...RequestOption) (*Response, error) {
	return t.send(ctx, sess, http.MethodPut, path, body, opts)
}

func (t *Transport) Delete(ctx context.Context, sess *session.Session, path string, opts ...RequestOption) (*Response, error) {
	return t.send(ctx, sess, http.MethodDelete, path, nil, opts)
}

// JSONBody encodes v for use as a request body.
func JSONBody(v any) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	return bytes.NewReader(b), nil
}

// Decode parses the JSON body of resp. An empty body decodes to the zero
// value of T.
func Decode[T any](resp *Response) (T, error) {
	var out T
	if resp == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return out, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

func resourceOf(path string) string {
	p := strings.TrimPrefix(path, "/")
	if i := strings.IndexAny(p, "/?"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "root"
	}
	return p
}
