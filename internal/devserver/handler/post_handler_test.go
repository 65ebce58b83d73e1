package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/segmentation-fault/forum/internal/core/domain"
	"github.com/segmentation-fault/forum/internal/core/service"
	"github.com/segmentation-fault/forum/internal/devserver/middleware"
	"github.com/segmentation-fault/forum/internal/infrastructure/db/memory"
)

type postFixture struct {
	e     *echo.Echo
	repo  *memory.Repository
	h     *PostHandler
	alice domain.User
	bob   domain.User
}

func newPostFixture(t *testing.T) *postFixture {
	t.Helper()
	repo := memory.NewRepository()
	ctx := context.Background()
	alice, err := repo.CreateAccount(ctx, domain.Account{User: domain.User{Username: "alice", Email: "alice@example.com"}})
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}
	bob, err := repo.CreateAccount(ctx, domain.Account{User: domain.User{Username: "bob", Email: "bob@example.com"}})
	if err != nil {
		t.Fatalf("create bob: %v", err)
	}
	return &postFixture{
		e:     newEcho(),
		repo:  repo,
		h:     NewPostHandler(service.NewPostService(repo, nil)),
		alice: alice.User,
		bob:   bob.User,
	}
}

// call runs fn with the given caller and path parameter.
func (f *postFixture) call(req *http.Request, actor domain.User, id string, fn echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
	rec := httptest.NewRecorder()
	c := f.e.NewContext(req, rec)
	c.Set(middleware.ContextUser, actor)
	if id != "" {
		c.SetParamNames("post_id")
		c.SetParamValues(id)
	}
	return rec, fn(c)
}

func TestPostHandler_CreateAndGet(t *testing.T) {
	f := newPostFixture(t)

	rec, err := f.call(jsonRequest(http.MethodPost, "/posts/", `{"title":"Hello","content":"World"}`), f.alice, "", f.h.Create)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var created map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if created["author"] != float64(f.alice.ID) || created["title"] != "Hello" {
		t.Fatalf("unexpected post: %v", created)
	}

	rec, err = f.call(httptest.NewRequest(http.MethodGet, "/posts/1", nil), f.bob, "1", f.h.Get)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPostHandler_Get_NotFound(t *testing.T) {
	f := newPostFixture(t)
	_, err := f.call(httptest.NewRequest(http.MethodGet, "/posts/9", nil), f.alice, "9", f.h.Get)
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) || nf.Error() != "Post '9' not found" {
		t.Fatalf("expected post not found, got %v", err)
	}
}

func TestPostHandler_BadID(t *testing.T) {
	f := newPostFixture(t)
	_, err := f.call(httptest.NewRequest(http.MethodGet, "/posts/abc", nil), f.alice, "abc", f.h.Get)
	if code := httpCode(t, err); code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
}

func TestPostHandler_UpdateRequiresAuthor(t *testing.T) {
	f := newPostFixture(t)
	post, err := f.repo.CreatePost(context.Background(), f.alice.ID, domain.PostCreate{Title: "t", Content: "c"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	id := "1"
	if post.ID != 1 {
		t.Fatalf("expected id 1, got %d", post.ID)
	}

	_, err = f.call(jsonRequest(http.MethodPut, "/posts/1", `{"title":"x","content":"y"}`), f.bob, id, f.h.Update)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	rec, err := f.call(jsonRequest(http.MethodPut, "/posts/1", `{"title":"x","content":"y"}`), f.alice, id, f.h.Update)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	var updated map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &updated)
	if updated["title"] != "x" || updated["updated"] == nil {
		t.Fatalf("unexpected update: %v", updated)
	}
}

func TestPostHandler_Votes(t *testing.T) {
	f := newPostFixture(t)
	if _, err := f.repo.CreatePost(context.Background(), f.alice.ID, domain.PostCreate{Title: "t", Content: "c"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec, err := f.call(httptest.NewRequest(http.MethodPost, "/posts/1/vote?type=true", nil), f.bob, "1", f.h.CastVote)
	if err != nil {
		t.Fatalf("cast: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if _, err := f.call(httptest.NewRequest(http.MethodPost, "/posts/1/vote?type=false", nil), f.alice, "1", f.h.CastVote); err != nil {
		t.Fatalf("cast: %v", err)
	}
	if _, err := f.call(httptest.NewRequest(http.MethodPost, "/posts/1/vote?type=false", nil), f.alice, "1", f.h.CastVote); err != nil {
		t.Fatalf("recast: %v", err)
	}

	rec, err = f.call(httptest.NewRequest(http.MethodGet, "/posts/1/votes", nil), f.bob, "1", f.h.Votes)
	if err != nil {
		t.Fatalf("votes: %v", err)
	}
	if got := rec.Body.String(); got != "0\n" {
		t.Fatalf("expected score 0, got %q", got)
	}

	rec, err = f.call(httptest.NewRequest(http.MethodGet, "/posts/1/vote", nil), f.bob, "1", f.h.Vote)
	if err != nil {
		t.Fatalf("vote: %v", err)
	}
	if got := rec.Body.String(); got != "\"true\"\n" {
		t.Fatalf("expected \"true\", got %q", got)
	}

	_, err = f.call(httptest.NewRequest(http.MethodPost, "/posts/1/vote?type=null", nil), f.bob, "1", f.h.CastVote)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	rec, _ = f.call(httptest.NewRequest(http.MethodGet, "/posts/1/vote", nil), f.bob, "1", f.h.Vote)
	if got := rec.Body.String(); got != "\"null\"\n" {
		t.Fatalf("expected \"null\", got %q", got)
	}
}

func TestPostHandler_CastVote_InvalidType(t *testing.T) {
	f := newPostFixture(t)
	_, err := f.call(httptest.NewRequest(http.MethodPost, "/posts/1/vote?type=maybe", nil), f.alice, "1", f.h.CastVote)
	if code := httpCode(t, err); code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
}

func TestPostHandler_CastVote_TypeRequiredAndExact(t *testing.T) {
	f := newPostFixture(t)
	if _, err := f.repo.CreatePost(context.Background(), f.alice.ID, domain.PostCreate{Title: "t", Content: "c"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := f.call(httptest.NewRequest(http.MethodPost, "/posts/1/vote?type=true", nil), f.bob, "1", f.h.CastVote); err != nil {
		t.Fatalf("cast: %v", err)
	}

	cases := []struct {
		target, wantType string
	}{
		{"/posts/1/vote", "value_error.missing"},
		{"/posts/1/vote?type=", "value_error.missing"},
		{"/posts/1/vote?type=%20true%20", "type_error.enum"},
		{"/posts/1/vote?type=True", "type_error.enum"},
	}
	for _, tc := range cases {
		_, err := f.call(httptest.NewRequest(http.MethodPost, tc.target, nil), f.bob, "1", f.h.CastVote)
		var verr domain.HTTPValidationError
		if !errors.As(err, &verr) || len(verr.Detail) != 1 {
			t.Fatalf("%s: expected validation error, got %v", tc.target, err)
		}
		if d := verr.Detail[0]; d.Type != tc.wantType || d.Loc[0] != "query" || d.Loc[1] != "type" {
			t.Fatalf("%s: unexpected detail %+v", tc.target, d)
		}
	}

	rec, err := f.call(httptest.NewRequest(http.MethodGet, "/posts/1/vote", nil), f.bob, "1", f.h.Vote)
	if err != nil {
		t.Fatalf("vote: %v", err)
	}
	if got := rec.Body.String(); got != "\"true\"\n" {
		t.Fatalf("rejected casts must keep the vote, got %q", got)
	}
}

func TestPostHandler_ListNewestFirst(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()
	for _, title := range []string{"first", "second"} {
		if _, err := f.repo.CreatePost(ctx, f.alice.ID, domain.PostCreate{Title: title, Content: "c"}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	rec, err := f.call(httptest.NewRequest(http.MethodGet, "/posts/", nil), f.alice, "", f.h.List)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var posts []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &posts); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(posts) != 2 || posts[0]["title"] != "second" {
		t.Fatalf("expected newest first, got %v", posts)
	}
}
