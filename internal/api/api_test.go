package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/segmentation-fault/forum/internal/api/session"
	"github.com/segmentation-fault/forum/internal/api/transport"
	"github.com/segmentation-fault/forum/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Fake API
// ---------------------------------------------------------------------------

type fakeAPI struct {
	mu       sync.Mutex
	mux      *http.ServeMux
	requests []string
	headers  map[string]http.Header
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{mux: http.NewServeMux(), headers: make(map[string]http.Header)}
}

func (f *fakeAPI) handle(pattern string, status int, body string) {
	f.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	key := r.Method + " " + r.URL.Path
	if r.URL.RawQuery != "" {
		key += "?" + r.URL.RawQuery
	}
	f.requests = append(f.requests, key)
	f.headers[key] = r.Header.Clone()
	f.mu.Unlock()
	f.mux.ServeHTTP(w, r)
}

func (f *fakeAPI) seen(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.requests {
		if r == key {
			return true
		}
	}
	return false
}

func (f *fakeAPI) header(key string) http.Header {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.headers[key]
}

func newTestClient(t *testing.T, f *fakeAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return New(transport.New(srv.URL), session.New(nil))
}

var ctx = context.Background()

// ---------------------------------------------------------------------------
// Auth
// ---------------------------------------------------------------------------

func TestAuth_Login_Success(t *testing.T) {
	f := newFakeAPI()
	var form, contentType string
	f.mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		_ = r.ParseForm()
		form = r.PostForm.Get("username") + ":" + r.PostForm.Get("password")
		_, _ = io.WriteString(w, `{"access_token":"abc.def","token_type":"bearer"}`)
	})
	c := newTestClient(t, f)

	token, err := c.Auth.Login(ctx, domain.LoginForm{Username: "ada", Password: "Secret1!"})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if token.AccessToken != "abc.def" || token.TokenType != "bearer" {
		t.Fatalf("unexpected token: %+v", token)
	}
	if form != "ada:Secret1!" {
		t.Fatalf("unexpected form: %q", form)
	}
	if contentType != "application/x-www-form-urlencoded" {
		t.Fatalf("unexpected content type: %q", contentType)
	}
	if c.Session().Authenticated() {
		t.Fatalf("Login must not store the token by itself")
	}
}

func TestAuth_Login_InvalidCredentials(t *testing.T) {
	f := newFakeAPI()
	f.handle("POST /auth/login", http.StatusUnauthorized, `{"detail":"Incorrect username or password"}`)
	c := newTestClient(t, f)

	if _, err := c.Auth.Login(ctx, domain.LoginForm{Username: "ada", Password: "bad"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuth_Login_UnknownError(t *testing.T) {
	f := newFakeAPI()
	f.handle("POST /auth/login", http.StatusInternalServerError, ``)
	c := newTestClient(t, f)

	if _, err := c.Auth.Login(ctx, domain.LoginForm{}); !errors.Is(err, domain.ErrUnknown) {
		t.Fatalf("expected ErrUnknown, got %v", err)
	}
}

func TestAuth_SignUp_ValidationDetail(t *testing.T) {
	f := newFakeAPI()
	f.handle("POST /auth/sign-up", http.StatusUnprocessableEntity,
		`{"detail":[{"loc":["body","email"],"msg":"field required","type":"value_error.missing"}]}`)
	c := newTestClient(t, f)

	_, err := c.Auth.SignUp(ctx, domain.UserCreate{Username: "ada"})
	if !errors.Is(err, domain.ErrUnknown) {
		t.Fatalf("expected ErrUnknown, got %v", err)
	}
	var verr domain.HTTPValidationError
	if !errors.As(err, &verr) || len(verr.Detail) != 1 {
		t.Fatalf("expected validation detail, got %v", err)
	}
	if d := verr.Detail[0]; d.Msg != "field required" || len(d.Loc) != 2 || d.Loc[1] != "email" {
		t.Fatalf("unexpected detail: %+v", d)
	}
}

func TestAuth_PlainDetail422IsUnknown(t *testing.T) {
	f := newFakeAPI()
	f.handle("POST /auth/sign-up", http.StatusUnprocessableEntity, `{"detail":"invalid payload"}`)
	c := newTestClient(t, f)

	_, err := c.Auth.SignUp(ctx, domain.UserCreate{})
	var verr domain.HTTPValidationError
	if !errors.Is(err, domain.ErrUnknown) || errors.As(err, &verr) {
		t.Fatalf("expected bare ErrUnknown, got %v", err)
	}
}

func TestAuth_SignUp(t *testing.T) {
	f := newFakeAPI()
	var body string
	f.mux.HandleFunc("POST /auth/sign-up", func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":5,"created":"2024-01-01T00:00:00","updated":null,"username":"ada","email":"ada@example.com","super":false,"first_name":"Ada","last_name":"Lovelace"}`)
	})
	c := newTestClient(t, f)

	user, err := c.Auth.SignUp(ctx, domain.UserCreate{
		Username: "ada", Email: "ada@example.com", Password: "Secret1!", FirstName: "Ada", LastName: "Lovelace",
	})
	if err != nil {
		t.Fatalf("SignUp error: %v", err)
	}
	if user.ID != 5 || user.FirstName != "Ada" || user.Updated != nil {
		t.Fatalf("unexpected user: %+v", user)
	}
	if !strings.Contains(body, `"first_name":"Ada"`) || !strings.Contains(body, `"last_name":"Lovelace"`) {
		t.Fatalf("expected snake_case body, got %s", body)
	}
}

func TestAuth_SignUp_Conflict(t *testing.T) {
	f := newFakeAPI()
	f.handle("POST /auth/sign-up", http.StatusConflict, `{"detail":"taken"}`)
	c := newTestClient(t, f)

	_, err := c.Auth.SignUp(ctx, domain.UserCreate{Username: "ada"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if err.Error() != "username or email already taken" {
		t.Fatalf("unexpected message: %s", err)
	}
}

func TestAuth_VerifyEmail(t *testing.T) {
	f := newFakeAPI()
	f.handle("POST /auth/verify-email", http.StatusOK, `null`)
	c := newTestClient(t, f)

	if err := c.Auth.VerifyEmail(ctx, "tok-1"); err != nil {
		t.Fatalf("VerifyEmail error: %v", err)
	}
	if !f.seen("POST /auth/verify-email?token=tok-1") {
		t.Fatalf("expected token as query parameter, saw %v", f.requests)
	}
}

func TestAuth_ForgotAndResetPassword(t *testing.T) {
	f := newFakeAPI()
	f.handle("POST /auth/forgot-password", http.StatusCreated, `null`)
	f.handle("POST /auth/reset-password", http.StatusOK, `null`)
	c := newTestClient(t, f)

	if err := c.Auth.ForgotPassword(ctx, domain.ForgotPasswordForm{Email: "ada@example.com"}); err != nil {
		t.Fatalf("ForgotPassword error: %v", err)
	}
	if err := c.Auth.ResetPassword(ctx, domain.ResetPasswordForm{Token: "t", Password: "N3w!pass"}); err != nil {
		t.Fatalf("ResetPassword error: %v", err)
	}
}

func TestAuth_CurrentUser_UnauthorizedIsInvalidCredentials(t *testing.T) {
	f := newFakeAPI()
	f.handle("GET /auth/", http.StatusUnauthorized, ``)
	c := newTestClient(t, f)

	redirected := false
	sess := session.New(session.NavigatorFunc(func(string) { redirected = true }))
	sess.Navigate("/")
	c.session = sess

	if _, err := c.Auth.CurrentUser(ctx); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if redirected {
		t.Fatalf("must not redirect outside unauthenticated paths")
	}
}

func TestAuth_CurrentUser_RedirectOnUnauthenticatedPath(t *testing.T) {
	f := newFakeAPI()
	f.handle("GET /auth/", http.StatusUnauthorized, ``)
	c := newTestClient(t, f)
	c.Session().Navigate("/verify-email")

	if _, err := c.Auth.CurrentUser(ctx); !errors.Is(err, domain.ErrRedirected) {
		t.Fatalf("expected ErrRedirected, got %v", err)
	}
	if c.Session().Path() != session.LoginPath {
		t.Fatalf("session should be on the login screen, got %s", c.Session().Path())
	}
}

// ---------------------------------------------------------------------------
// Not found mapping
// ---------------------------------------------------------------------------

func TestNotFound_AcrossResources(t *testing.T) {
	f := newFakeAPI()
	for _, p := range []string{"/users/9", "/posts/9", "/comments/9"} {
		f.handle("GET "+p, http.StatusNotFound, `{"detail":"not found"}`)
		f.handle("PUT "+p, http.StatusNotFound, `{"detail":"not found"}`)
		f.handle("DELETE "+p, http.StatusNotFound, `{"detail":"not found"}`)
	}
	c := newTestClient(t, f)

	calls := map[string]func() error{
		"get user":       func() error { _, err := c.Users.Get(ctx, 9); return err },
		"update user":    func() error { _, err := c.Users.Update(ctx, 9, domain.UserUpdate{}); return err },
		"delete user":    func() error { return c.Users.Delete(ctx, 9) },
		"get post":       func() error { _, err := c.Posts.Get(ctx, 9); return err },
		"update post":    func() error { _, err := c.Posts.Update(ctx, 9, domain.PostUpdate{}); return err },
		"delete post":    func() error { return c.Posts.Delete(ctx, 9) },
		"get comment":    func() error { _, err := c.Comments.Get(ctx, 9); return err },
		"update comment": func() error { _, err := c.Comments.Update(ctx, 9, domain.CommentUpdate{}); return err },
		"delete comment": func() error { return c.Comments.Delete(ctx, 9) },
	}
	want := map[string]string{
		"get user": "User '9' not found", "update user": "User '9' not found", "delete user": "User '9' not found",
		"get post": "Post '9' not found", "update post": "Post '9' not found", "delete post": "Post '9' not found",
		"get comment": "Comment '9' not found", "update comment": "Comment '9' not found", "delete comment": "Comment '9' not found",
	}
	for name, call := range calls {
		err := call()
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("%s: expected ErrNotFound, got %v", name, err)
		}
		if err.Error() != want[name] {
			t.Fatalf("%s: unexpected message %q", name, err.Error())
		}
	}
}

func TestList_NonOKIsUnknown(t *testing.T) {
	f := newFakeAPI()
	f.handle("GET /users/", http.StatusForbidden, ``)
	c := newTestClient(t, f)

	if _, err := c.Users.List(ctx); !errors.Is(err, domain.ErrUnknown) {
		t.Fatalf("expected ErrUnknown, got %v", err)
	}
}

func TestCreate_UnexpectedSuccessCodeIsUnknown(t *testing.T) {
	f := newFakeAPI()
	f.handle("POST /users/", http.StatusOK, `{"id":1,"created":"2024-01-01T00:00:00Z"}`)
	c := newTestClient(t, f)

	if _, err := c.Users.Create(ctx, domain.UserCreate{}); !errors.Is(err, domain.ErrUnknown) {
		t.Fatalf("expected ErrUnknown for 200 on create, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Posts and votes
// ---------------------------------------------------------------------------

func TestPosts_Get_AssemblesVotes(t *testing.T) {
	f := newFakeAPI()
	f.handle("GET /posts/42", http.StatusOK, `{"id":42,"created":"2024-01-01T00:00:00Z","author":7,"title":"T","content":"C"}`)
	f.handle("GET /posts/42/votes", http.StatusOK, `3`)
	f.handle("GET /posts/42/vote", http.StatusOK, `"true"`)
	c := newTestClient(t, f)

	post, err := c.Posts.Get(ctx, 42)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	want := domain.Post{
		ID:      42,
		Created: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Author:  7,
		Title:   "T",
		Content: "C",
		Votes:   3,
		Vote:    domain.VoteUp,
	}
	if !post.Created.Equal(want.Created) {
		t.Fatalf("unexpected created: %v", post.Created)
	}
	post.Created = want.Created
	if post != want {
		t.Fatalf("unexpected post:\n got %+v\nwant %+v", post, want)
	}
}

func TestPosts_List_FanOutKeepsOrder(t *testing.T) {
	f := newFakeAPI()
	f.handle("GET /posts/", http.StatusOK, `[
		{"id":3,"created":"2024-01-03T00:00:00Z","author":1,"title":"c","content":"c"},
		{"id":2,"created":"2024-01-02T00:00:00Z","author":1,"title":"b","content":"b"},
		{"id":1,"created":"2024-01-01T00:00:00Z","updated":"2024-02-01T00:00:00Z","author":1,"title":"a","content":"a"}
	]`)
	for id, v := range map[string]string{"1": `"false"`, "2": `"null"`, "3": `"true"`} {
		f.handle("GET /posts/"+id+"/votes", http.StatusOK, id)
		f.handle("GET /posts/"+id+"/vote", http.StatusOK, v)
	}
	c := newTestClient(t, f)
	c.fanOut = 2

	posts, err := c.Posts.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(posts))
	}
	wantIDs := []int64{3, 2, 1}
	wantVotes := []domain.Vote{domain.VoteUp, domain.VoteNone, domain.VoteDown}
	for i, p := range posts {
		if p.ID != wantIDs[i] || p.Votes != int(wantIDs[i]) || p.Vote != wantVotes[i] {
			t.Fatalf("post %d: unexpected %+v", i, p)
		}
	}
	if posts[2].Updated == nil || posts[2].Updated.Month() != time.February {
		t.Fatalf("expected updated timestamp on post 1, got %v", posts[2].Updated)
	}
}

func TestPosts_List_SubRequestFailureFailsWhole(t *testing.T) {
	f := newFakeAPI()
	f.handle("GET /posts/", http.StatusOK, `[{"id":1,"created":"2024-01-01T00:00:00Z"},{"id":2,"created":"2024-01-01T00:00:00Z"}]`)
	f.handle("GET /posts/1/votes", http.StatusOK, `0`)
	f.handle("GET /posts/1/vote", http.StatusOK, `"null"`)
	f.handle("GET /posts/2/votes", http.StatusInternalServerError, ``)
	f.handle("GET /posts/2/vote", http.StatusOK, `"null"`)
	c := newTestClient(t, f)

	if _, err := c.Posts.List(ctx); !errors.Is(err, domain.ErrUnknown) {
		t.Fatalf("expected ErrUnknown, got %v", err)
	}
}

func TestClient_LogsUnclassifiedAndFanOutFailures(t *testing.T) {
	f := newFakeAPI()
	f.handle("GET /posts/", http.StatusOK, `[{"id":2,"created":"2024-01-01T00:00:00Z"}]`)
	f.handle("GET /posts/2/votes", http.StatusInternalServerError, ``)
	f.handle("GET /posts/2/vote", http.StatusOK, `"null"`)
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	var buf syncBuffer
	c := New(transport.New(srv.URL), session.New(nil),
		WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))

	if _, err := c.Posts.List(ctx); !errors.Is(err, domain.ErrUnknown) {
		t.Fatalf("expected ErrUnknown, got %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`"level":"warn"`, `"status":500`, `"resource":"Post"`, `"message":"unclassified response"`,
		`"message":"vote lookup failed"`, `"message":"list item conversion failed"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %s:\n%s", want, out)
		}
	}
}

// syncBuffer serialises writes from the fan-out goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestPosts_MalformedTimestamp(t *testing.T) {
	f := newFakeAPI()
	f.handle("GET /posts/1", http.StatusOK, `{"id":1,"created":"not-a-date"}`)
	c := newTestClient(t, f)

	_, err := c.Posts.Get(ctx, 1)
	if err == nil || !strings.Contains(err.Error(), "malformed timestamp") {
		t.Fatalf("expected malformed timestamp error, got %v", err)
	}
}

func TestPosts_CastVote(t *testing.T) {
	f := newFakeAPI()
	f.handle("POST /posts/4/vote", http.StatusCreated, `null`)
	c := newTestClient(t, f)

	for _, v := range []domain.Vote{domain.VoteUp, domain.VoteDown, domain.VoteNone} {
		if err := c.Posts.CastVote(ctx, 4, v); err != nil {
			t.Fatalf("CastVote(%v) error: %v", v, err)
		}
		if !f.seen("POST /posts/4/vote?type=" + v.String()) {
			t.Fatalf("expected vote query type=%s, saw %v", v, f.requests)
		}
	}
}

func TestPosts_CastVote_NotFound(t *testing.T) {
	f := newFakeAPI()
	f.handle("POST /posts/4/vote", http.StatusNotFound, ``)
	c := newTestClient(t, f)

	if err := c.Posts.CastVote(ctx, 4, domain.VoteUp); err == nil || err.Error() != "Post '4' not found" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPosts_Comments(t *testing.T) {
	f := newFakeAPI()
	f.handle("GET /posts/4/comments", http.StatusOK, `[{"id":10,"created":"2024-01-01T00:00:00Z","author":2,"content":"hi","post":4}]`)
	f.handle("GET /comments/10/votes", http.StatusOK, `-1`)
	f.handle("GET /comments/10/vote", http.StatusOK, `"false"`)
	c := newTestClient(t, f)

	comments, err := c.Posts.Comments(ctx, 4)
	if err != nil {
		t.Fatalf("Comments error: %v", err)
	}
	if len(comments) != 1 || comments[0].Post != 4 || comments[0].Votes != -1 || comments[0].Vote != domain.VoteDown {
		t.Fatalf("unexpected comments: %+v", comments)
	}
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

func TestUsers_UpdateSendsOnlySetFields(t *testing.T) {
	f := newFakeAPI()
	var body string
	f.mux.HandleFunc("PUT /users/3", func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		_, _ = io.WriteString(w, `{"id":3,"created":"2024-01-01T00:00:00Z","updated":"2024-01-02T00:00:00Z","username":"ada","first_name":"Augusta"}`)
	})
	c := newTestClient(t, f)

	first := "Augusta"
	user, err := c.Users.Update(ctx, 3, domain.UserUpdate{FirstName: &first})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if body != `{"first_name":"Augusta"}` {
		t.Fatalf("expected partial body, got %s", body)
	}
	if user.FirstName != "Augusta" || user.Updated == nil {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestUsers_ImageURL(t *testing.T) {
	c := New(transport.New("https://api.example.com/"), nil)
	if got := c.Users.ImageURL(12); got != "https://api.example.com/users/12/image" {
		t.Fatalf("unexpected image url: %s", got)
	}
}

func TestUsers_UploadImage_Multipart(t *testing.T) {
	f := newFakeAPI()
	var field, filename, content string
	f.mux.HandleFunc("POST /users/3/image", func(w http.ResponseWriter, r *http.Request) {
		file, hdr, err := r.FormFile("image")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		b, _ := io.ReadAll(file)
		field, filename, content = "image", hdr.Filename, string(b)
		_, _ = io.WriteString(w, `true`)
	})
	c := newTestClient(t, f)
	c.Session().SetToken("tok")

	if err := c.Users.UploadImage(ctx, 3, "me.png", strings.NewReader("PNGDATA")); err != nil {
		t.Fatalf("UploadImage error: %v", err)
	}
	if field != "image" || filename != "me.png" || content != "PNGDATA" {
		t.Fatalf("unexpected upload: %q %q %q", field, filename, content)
	}
	h := f.header("POST /users/3/image")
	if ct := h.Get("Content-Type"); !strings.HasPrefix(ct, "multipart/form-data; boundary=") {
		t.Fatalf("expected multipart content type, got %q", ct)
	}
	if h.Get("Authorization") != "Bearer tok" {
		t.Fatalf("expected bearer token on upload")
	}
}

func TestUsers_UploadImage_NotFound(t *testing.T) {
	f := newFakeAPI()
	f.handle("POST /users/3/image", http.StatusNotFound, ``)
	c := newTestClient(t, f)

	err := c.Users.UploadImage(ctx, 3, "me.png", strings.NewReader("x"))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUsers_Image(t *testing.T) {
	f := newFakeAPI()
	f.handle("GET /users/3/image", http.StatusOK, "\xff\xd8jpeg")
	c := newTestClient(t, f)

	b, err := c.Users.Image(ctx, 3)
	if err != nil {
		t.Fatalf("Image error: %v", err)
	}
	if string(b) != "\xff\xd8jpeg" {
		t.Fatalf("unexpected image bytes: %q", b)
	}
}

func TestExternaliseUser_RoundTrip(t *testing.T) {
	updated := time.Date(2024, 3, 2, 10, 0, 0, 500, time.UTC)
	plus2 := time.FixedZone("+02:00", 2*60*60)

	cases := []struct {
		name string
		in   domain.User
		want domain.User
	}{
		{
			name: "utc",
			in: domain.User{
				ID: 3, Created: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC), Updated: &updated,
				Username: "ada", Email: "ada@example.com", Super: true, FirstName: "Ada", LastName: "Lovelace",
			},
		},
		{
			name: "offset created",
			in:   domain.User{ID: 4, Created: time.Date(2024, 3, 1, 11, 30, 0, 0, plus2), Username: "bob"},
		},
		{
			name: "zero updated is never updated",
			in:   domain.User{ID: 5, Created: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC), Updated: &time.Time{}},
			want: domain.User{ID: 5, Created: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			want := tc.in
			if tc.want.ID != 0 {
				want = tc.want
			}
			got, err := internaliseUser(ExternaliseUser(tc.in))
			if err != nil {
				t.Fatalf("internalise: %v", err)
			}
			if !got.Created.Equal(want.Created) || got.Created.Location() != time.UTC {
				t.Fatalf("created: got %v, want %v in UTC", got.Created, want.Created)
			}
			switch {
			case want.Updated == nil && got.Updated != nil:
				t.Fatalf("updated: expected nil, got %v", got.Updated)
			case want.Updated != nil && (got.Updated == nil || !got.Updated.Equal(*want.Updated)):
				t.Fatalf("updated: got %v, want %v", got.Updated, want.Updated)
			}
			got.Created, want.Created = time.Time{}, time.Time{}
			got.Updated, want.Updated = nil, nil
			if got != want {
				t.Fatalf("fields: got %+v, want %+v", got, want)
			}
		})
	}
}
