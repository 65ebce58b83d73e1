package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/segmentation-fault/forum/internal/api/wire"
	"github.com/segmentation-fault/forum/internal/core/domain"
	"github.com/segmentation-fault/forum/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username  formData  string  true  "Username"
// @Param        password  formData  string  true  "Password"
// @Success      200       {object}  wire.Token
// @Failure      401       {object}  ErrorResponse
// @Failure      422       {object}  wire.HTTPValidationError
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	var absent []domain.ValidationError
	if username == "" {
		absent = append(absent, missing("body", "username"))
	}
	if password == "" {
		absent = append(absent, missing("body", "password"))
	}
	if len(absent) > 0 {
		return invalid(absent...)
	}

	token, err := h.authService.Login(c.Request().Context(), username, password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, wire.Token{AccessToken: token.AccessToken, TokenType: token.TokenType})
}

// SignUp registers a new account and sends the verification email.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      wire.UserCreate  true  "Account details"
// @Success      201   {object}  wire.User
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      422   {object}  wire.HTTPValidationError
// @Router       /auth/sign-up [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req wire.UserCreate
	if err := bindValid(c, &req); err != nil {
		return err
	}

	user, err := h.authService.SignUp(c.Request().Context(), fromUserCreate(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toWireUser(user))
}

// VerifyEmail redeems an email verification token.
//
// @Summary      Verify email
// @Tags         auth
// @Produce      json
// @Param        token  query  string  true  "Verification token"
// @Success      200
// @Failure      400    {object}  ErrorResponse
// @Router       /auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return invalid(missing("query", "token"))
	}
	if err := h.authService.VerifyEmail(c.Request().Context(), token); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nil)
}

// ForgotPassword sends a password reset link to the account's email.
//
// @Summary      Forgot password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  wire.ForgotPasswordForm  true  "Account email"
// @Success      201
// @Failure      404   {object}  ErrorResponse
// @Failure      422   {object}  wire.HTTPValidationError
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req wire.ForgotPasswordForm
	if err := bindValid(c, &req); err != nil {
		return err
	}
	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, nil)
}

// ResetPassword sets a new password using a reset token.
//
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  wire.ResetPasswordForm  true  "Reset token and new password"
// @Success      200
// @Failure      400   {object}  ErrorResponse
// @Failure      422   {object}  wire.HTTPValidationError
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req wire.ResetPasswordForm
	if err := bindValid(c, &req); err != nil {
		return err
	}
	if err := h.authService.ResetPassword(c.Request().Context(), req.Token, req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nil)
}

// Me returns the authenticated user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  wire.User
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/ [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toWireUser(user))
}
