package domain

// Token is the bearer credential issued by a successful login.
type Token struct {
	AccessToken string
	TokenType   string
}

// LoginForm holds the credentials submitted to the login endpoint.
type LoginForm struct {
	Username string
	Password string
}

// ForgotPasswordForm requests a password reset link for an email address.
type ForgotPasswordForm struct {
	Email string
}

// ResetPasswordForm redeems a reset token for a new password.
type ResetPasswordForm struct {
	Token    string
	Password string
}

// RememberedCredentials prefill the login form. Password is empty unless the
// store can seal it.
type RememberedCredentials struct {
	Username string
	Password string
	Remember bool
}
