package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/segmentation-fault/forum/internal/core/domain"
)

// ContextUser is the echo context key holding the authenticated
// domain.User.
const ContextUser = "user"

// UserResolver loads the account a verified token subject names.
type UserResolver func(ctx context.Context, username string) (domain.User, error)

// Auth validates the bearer JWT, resolves its subject and stores the user
// under ContextUser.
func Auth(jwtSecret string, resolve UserResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return unauthorized("Not authenticated")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return unauthorized("Not authenticated")
			}

			claims := jwt.RegisteredClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], &claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid || claims.Subject == "" {
				return unauthorized("Could not validate credentials")
			}

			user, err := resolve(c.Request().Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, domain.ErrInvalidCredentials) || errors.Is(err, domain.ErrNotFound) {
					return unauthorized("Could not validate credentials")
				}
				return err
			}

			c.Set(ContextUser, user)
			return next(c)
		}
	}
}

func unauthorized(msg string) error {
	return echo.NewHTTPError(http.StatusUnauthorized, msg).SetInternal(domain.ErrInvalidCredentials)
}
