package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/segmentation-fault/forum/internal/api/transport"
	"github.com/segmentation-fault/forum/internal/api/wire"
	"github.com/segmentation-fault/forum/internal/core/domain"
)

const authPrefix = "/auth"

// AuthClient covers login, registration and password recovery.
type AuthClient struct {
	c *Client
}

// Login exchanges credentials for a token. It does not store the token in
// the session; see service.SessionService for the full login flow.
func (a *AuthClient) Login(ctx context.Context, credentials domain.LoginForm) (domain.Token, error) {
	form := url.Values{}
	form.Set("username", credentials.Username)
	form.Set("password", credentials.Password)

	resp, err := a.c.transport.Post(ctx, a.c.session, authPrefix+"/login",
		strings.NewReader(form.Encode()),
		transport.WithoutJSONContentType(),
		transport.WithHeader("Content-Type", "application/x-www-form-urlencoded"),
	)
	token, err := decodeChecked[wire.Token](resp, err, a.c.ok(http.StatusOK).withUnauthorized())
	if err != nil {
		return domain.Token{}, err
	}
	return internaliseToken(token), nil
}

// SignUp registers a new account.
func (a *AuthClient) SignUp(ctx context.Context, user domain.UserCreate) (domain.User, error) {
	body, err := transport.JSONBody(externaliseUserCreate(user))
	if err != nil {
		return domain.User{}, err
	}
	resp, err := a.c.transport.Post(ctx, a.c.session, authPrefix+"/sign-up", body)
	created, err := decodeChecked[wire.User](resp, err, a.c.ok(http.StatusOK, http.StatusCreated).withConflict())
	if err != nil {
		return domain.User{}, err
	}
	return internaliseUser(created)
}

// VerifyEmail redeems an email verification token.
func (a *AuthClient) VerifyEmail(ctx context.Context, token string) error {
	resp, err := a.c.transport.Post(ctx, a.c.session, authPrefix+"/verify-email", nil,
		transport.WithQuery("token", token))
	return classify(resp, err, a.c.ok())
}

// ForgotPassword asks the server to send a reset link.
func (a *AuthClient) ForgotPassword(ctx context.Context, form domain.ForgotPasswordForm) error {
	body, err := transport.JSONBody(externaliseForgotPasswordForm(form))
	if err != nil {
		return err
	}
	resp, err := a.c.transport.Post(ctx, a.c.session, authPrefix+"/forgot-password", body)
	return classify(resp, err, a.c.ok())
}

// ResetPassword sets a new password using a reset token.
func (a *AuthClient) ResetPassword(ctx context.Context, form domain.ResetPasswordForm) error {
	body, err := transport.JSONBody(externaliseResetPasswordForm(form))
	if err != nil {
		return err
	}
	resp, err := a.c.transport.Post(ctx, a.c.session, authPrefix+"/reset-password", body)
	return classify(resp, err, a.c.ok())
}

// CurrentUser returns the account the session's token belongs to.
func (a *AuthClient) CurrentUser(ctx context.Context) (domain.User, error) {
	resp, err := a.c.transport.Get(ctx, a.c.session, authPrefix+"/")
	user, err := decodeChecked[wire.User](resp, err, a.c.ok(http.StatusOK).withUnauthorized())
	if err != nil {
		return domain.User{}, err
	}
	return internaliseUser(user)
}
