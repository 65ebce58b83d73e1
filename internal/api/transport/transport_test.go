package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/segmentation-fault/forum/internal/api/session"
	"github.com/segmentation-fault/forum/internal/core/domain"
)

type captured struct {
	method      string
	path        string
	query       string
	auth        string
	contentType string
	body        string
}

func newServer(t *testing.T, status int, body string, got *captured) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		*got = captured{
			method:      r.Method,
			path:        r.URL.Path,
			query:       r.URL.RawQuery,
			auth:        r.Header.Get("Authorization"),
			contentType: r.Header.Get("Content-Type"),
			body:        string(b),
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTransport_Success(t *testing.T) {
	var got captured
	srv := newServer(t, http.StatusOK, `{"id":7}`, &got)
	tr := New(srv.URL + "/")

	resp, err := tr.Get(context.Background(), nil, "/users/7")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	out, err := Decode[map[string]int](resp)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if out["id"] != 7 {
		t.Fatalf("unexpected body: %v", out)
	}
	if got.method != http.MethodGet || got.path != "/users/7" {
		t.Fatalf("unexpected request: %+v", got)
	}
	if got.contentType != "application/json" {
		t.Fatalf("expected JSON content type by default, got %q", got.contentType)
	}
	if got.auth != "" {
		t.Fatalf("anonymous request sent auth header %q", got.auth)
	}
}

func TestTransport_BearerToken(t *testing.T) {
	var got captured
	srv := newServer(t, http.StatusOK, `true`, &got)
	tr := New(srv.URL)
	sess := session.New(nil)
	sess.SetToken("tok123")

	body, _ := JSONBody(map[string]string{"email": "a@b.c"})
	if _, err := tr.Post(context.Background(), sess, "/auth/forgot-password", body); err != nil {
		t.Fatalf("Post error: %v", err)
	}
	if got.auth != "Bearer tok123" {
		t.Fatalf("expected bearer header, got %q", got.auth)
	}
	if got.body != `{"email":"a@b.c"}` {
		t.Fatalf("unexpected body: %s", got.body)
	}
}

func TestTransport_SkipJSONContentType(t *testing.T) {
	var got captured
	srv := newServer(t, http.StatusOK, ``, &got)
	tr := New(srv.URL)

	_, err := tr.Post(context.Background(), nil, "/users/1/image", strings.NewReader("raw"),
		WithoutJSONContentType(), WithHeader("Content-Type", "multipart/form-data; boundary=x"))
	if err != nil {
		t.Fatalf("Post error: %v", err)
	}
	if got.contentType != "multipart/form-data; boundary=x" {
		t.Fatalf("expected caller content type, got %q", got.contentType)
	}
}

func TestTransport_Query(t *testing.T) {
	var got captured
	srv := newServer(t, http.StatusCreated, `null`, &got)
	tr := New(srv.URL)

	resp, err := tr.Post(context.Background(), nil, "/posts/3/vote", nil, WithQuery("type", "true"))
	if err != nil {
		t.Fatalf("Post error: %v", err)
	}
	if resp.StatusCode != http.StatusCreated || got.query != "type=true" {
		t.Fatalf("unexpected response %d / query %q", resp.StatusCode, got.query)
	}
}

func TestTransport_NonSuccessReturnsStatus(t *testing.T) {
	var got captured
	srv := newServer(t, http.StatusNotFound, `{"detail":"Post not found"}`, &got)
	tr := New(srv.URL)

	_, err := tr.Delete(context.Background(), nil, "/posts/9")
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusNotFound {
		t.Fatalf("expected StatusError 404, got %v", err)
	}
	if string(se.Body) != `{"detail":"Post not found"}` {
		t.Fatalf("unexpected error body %q", se.Body)
	}
}

func TestTransport_UnauthorizedOnUnauthenticatedPathRedirects(t *testing.T) {
	var got captured
	srv := newServer(t, http.StatusUnauthorized, ``, &got)
	tr := New(srv.URL)

	var redirected string
	sess := session.New(session.NavigatorFunc(func(p string) { redirected = p }))
	sess.Navigate("/sign-up")

	_, err := tr.Get(context.Background(), sess, "/auth/")
	if !errors.Is(err, domain.ErrRedirected) {
		t.Fatalf("expected ErrRedirected, got %v", err)
	}
	if redirected != session.LoginPath {
		t.Fatalf("expected redirect to login, got %q", redirected)
	}
}

func TestTransport_UnauthorizedElsewhereRejects(t *testing.T) {
	var got captured
	srv := newServer(t, http.StatusUnauthorized, ``, &got)
	tr := New(srv.URL)

	redirected := false
	sess := session.New(session.NavigatorFunc(func(string) { redirected = true }))
	sess.Navigate("/posts/1")

	_, err := tr.Get(context.Background(), sess, "/auth/")
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusUnauthorized {
		t.Fatalf("expected StatusError 401, got %v", err)
	}
	if redirected {
		t.Fatalf("should not redirect outside unauthenticated paths")
	}
}

type failingDoer struct{}

func (failingDoer) Do(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func TestTransport_NetworkError(t *testing.T) {
	tr := New("http://api.invalid", WithHTTPClient(failingDoer{}))
	_, err := tr.Get(context.Background(), nil, "/posts/")
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("expected wrapped network error, got %v", err)
	}
	var se *StatusError
	if errors.As(err, &se) {
		t.Fatalf("network error must not look like a status error")
	}
}

func TestDecode_EmptyBody(t *testing.T) {
	n, err := Decode[int](&Response{StatusCode: 200})
	if err != nil || n != 0 {
		t.Fatalf("expected zero value, got %d / %v", n, err)
	}
}

func TestURL(t *testing.T) {
	tr := New("http://api/")
	if got := tr.URL("/users/12/image", nil); got != "http://api/users/12/image" {
		t.Fatalf("unexpected url: %s", got)
	}
	if got := tr.URL("/auth/verify-email", map[string][]string{"token": {"a b"}}); got != "http://api/auth/verify-email?token=a+b" {
		t.Fatalf("unexpected url: %s", got)
	}
}

func TestResourceOf(t *testing.T) {
	cases := map[string]string{
		"/posts/1/vote": "posts",
		"/auth/":        "auth",
		"/users?x=1":    "users",
		"/":             "root",
	}
	for in, want := range cases {
		if got := resourceOf(in); got != want {
			t.Fatalf("resourceOf(%q) = %q, want %q", in, got, want)
		}
	}
}
