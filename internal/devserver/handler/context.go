package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/segmentation-fault/forum/internal/core/domain"
	"github.com/segmentation-fault/forum/internal/devserver/middleware"
)

// ctxUser returns the caller stored by the Auth middleware. Its absence
// means the route was mounted without authentication.
func ctxUser(c echo.Context) (domain.User, error) {
	user, ok := c.Get(middleware.ContextUser).(domain.User)
	if !ok || user.ID == 0 {
		return domain.User{}, echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	return user, nil
}

// pathID parses the named integer path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, invalid(domain.ValidationError{
			Loc:  []any{"path", name},
			Msg:  "value is not a valid integer",
			Type: "type_error.integer",
		})
	}
	return id, nil
}

// bindValid binds the request body into req and validates it.
func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		var he *echo.HTTPError
		msg := "invalid payload"
		if errors.As(err, &he) {
			if s, ok := he.Message.(string); ok {
				msg = s
			}
		}
		return invalid(domain.ValidationError{Loc: []any{"body"}, Msg: msg, Type: "value_error.jsondecode"})
	}
	return c.Validate(req)
}

// voteParam parses the required ?type= query of the vote endpoints. Only
// the exact literals "true", "false" and "null" are accepted.
func voteParam(c echo.Context) (domain.Vote, error) {
	values, present := c.QueryParams()["type"]
	if !present || len(values) == 0 || values[0] == "" {
		return domain.VoteNone, invalid(missing("query", "type"))
	}
	raw := values[0]
	switch raw {
	case "true", "false", "null":
	default:
		return domain.VoteNone, invalid(domain.ValidationError{
			Loc:  []any{"query", "type"},
			Msg:  "value is not a valid enumeration member; permitted: 'true', 'false', 'null'",
			Type: "type_error.enum",
		})
	}
	return domain.ParseVote(raw)
}
