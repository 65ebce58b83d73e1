package devserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/segmentation-fault/forum/internal/api/wire"
	"github.com/segmentation-fault/forum/internal/core/domain"
	"github.com/segmentation-fault/forum/internal/core/service"
	"github.com/segmentation-fault/forum/internal/devserver/handler"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Renders validation failures as 422 {"detail": [{loc, msg, type}]}.
//   - Maps domain errors to their HTTP status codes.
//   - Logs unexpected errors without leaking details to the client.
//   - Renders everything else as {"detail": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var body any
		code := http.StatusUnprocessableEntity
		var verr domain.HTTPValidationError
		if errors.As(err, &verr) {
			body = toWireValidation(verr)
		} else {
			var msg string
			code, msg = resolveError(err, log, c)
			body = handler.ErrorResponse{Detail: msg}
		}

		if code == http.StatusUnauthorized {
			c.Response().Header().Set("WWW-Authenticate", "Bearer")
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func toWireValidation(e domain.HTTPValidationError) wire.HTTPValidationError {
	detail := make([]wire.ValidationError, 0, len(e.Detail))
	for _, d := range e.Detail {
		detail = append(detail, wire.ValidationError{Loc: d.Loc, Msg: d.Msg, Type: d.Type})
	}
	return wire.HTTPValidationError{Detail: detail}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var nf *domain.NotFoundError
	switch {
	case errors.As(err, &nf):
		return http.StatusNotFound, nf.Error()
	case errors.Is(err, service.ErrUnknownEmail):
		return http.StatusNotFound, "There is no user with this email"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Incorrect username or password"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "Username or email already taken"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, capitalize(reason(err, domain.ErrForbidden))
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusBadRequest, "Invalid token"
	case errors.Is(err, domain.ErrInvalidPassword):
		return http.StatusBadRequest, "Invalid password"
	case errors.Is(err, domain.ErrInvalidImage):
		return http.StatusBadRequest, capitalize(domain.ErrInvalidImage.Error())
	case errors.Is(err, domain.ErrInvalidVote):
		return http.StatusUnprocessableEntity, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Internal server error"
}

// reason strips the wrapped sentinel from err's message, leaving the
// context the service added.
func reason(err, sentinel error) string {
	return strings.TrimSuffix(err.Error(), ": "+sentinel.Error())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
