package devserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/segmentation-fault/forum/internal/core/domain"
	"github.com/segmentation-fault/forum/internal/core/service"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   int
		detail string
	}{
		{"not found", domain.NewNotFound("Comment", 4), http.StatusNotFound, "Comment '4' not found"},
		{"unknown email", service.ErrUnknownEmail, http.StatusNotFound, "There is no user with this email"},
		{"credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "Incorrect username or password"},
		{"conflict", domain.ErrConflict, http.StatusConflict, "Username or email already taken"},
		{"forbidden", fmt.Errorf("you are not the author of this comment: %w", domain.ErrForbidden), http.StatusForbidden, "You are not the author of this comment"},
		{"token", domain.ErrInvalidToken, http.StatusBadRequest, "Invalid token"},
		{"password", domain.ErrInvalidPassword, http.StatusBadRequest, "Invalid password"},
		{"image", domain.ErrInvalidImage, http.StatusBadRequest, "Uploaded file is not an image"},
		{"vote", fmt.Errorf("%w: %q", domain.ErrInvalidVote, "x"), http.StatusUnprocessableEntity, `invalid vote type: "x"`},
		{"echo", echo.NewHTTPError(http.StatusTeapot, "short and stout"), http.StatusTeapot, "short and stout"},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, "Internal server error"},
	}

	e := echo.New()
	h := NewHTTPErrorHandler(zerolog.Nop())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			h(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body["detail"] != tc.detail {
				t.Fatalf("expected detail %q, got %q", tc.detail, body["detail"])
			}
		})
	}
}

func TestHTTPErrorHandler_UnauthorizedSetsChallenge(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrInvalidCredentials, c)

	if got := rec.Header().Get("WWW-Authenticate"); got != "Bearer" {
		t.Fatalf("expected Bearer challenge, got %q", got)
	}
}

func TestHTTPErrorHandler_CommittedResponseUntouched(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.String(http.StatusOK, "done")
	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late"), c)

	if rec.Code != http.StatusOK || rec.Body.String() != "done" {
		t.Fatalf("committed response changed: %d %q", rec.Code, rec.Body.String())
	}
}

func TestHTTPErrorHandler_ValidationEnvelope(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	verr := domain.HTTPValidationError{Detail: []domain.ValidationError{
		{Loc: []any{"path", "post_id"}, Msg: "value is not a valid integer", Type: "type_error.integer"},
	}}
	NewHTTPErrorHandler(zerolog.Nop())(verr, c)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var body struct {
		Detail []struct {
			Loc  []any  `json:"loc"`
			Msg  string `json:"msg"`
			Type string `json:"type"`
		} `json:"detail"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(body.Detail) != 1 || body.Detail[0].Type != "type_error.integer" || body.Detail[0].Loc[1] != "post_id" {
		t.Fatalf("unexpected envelope: %s", rec.Body.String())
	}
}
