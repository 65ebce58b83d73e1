package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/segmentation-fault/forum/internal/core/domain"
)

func (c *cli) loginCmd() *cobra.Command {
	var (
		form     domain.LoginForm
		remember bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session for later commands",
		Long: "Log in and keep the session for later commands.\n\n" +
			"Without --username the remembered credentials are used.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := c.app

			if form.Username == "" {
				saved, err := a.sessions.Remembered(cmd.Context())
				if err != nil {
					a.log.Warn().Err(err).Msg("remembered credentials unavailable")
				}
				form.Username = saved.Username
				if form.Password == "" {
					form.Password = saved.Password
				}
				remember = remember || saved.Remember
			}
			if err := required("username", form.Username); err != nil {
				return err
			}
			if err := required("password", form.Password); err != nil {
				return err
			}

			user, err := a.sessions.Login(cmd.Context(), form, remember)
			if err != nil && user.ID == 0 {
				return err
			}
			if saveErr := a.token.save(a.client.Session().Token()); saveErr != nil {
				return saveErr
			}
			if err != nil {
				a.log.Warn().Err(err).Msg("logged in, but the login form could not be remembered")
			}
			a.printf("logged in as %s\n", user.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&form.Username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&form.Password, "password", "p", "", "password")
	cmd.Flags().BoolVar(&remember, "remember", false, "remember the credentials for the next login")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the current session",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			a := c.app
			a.sessions.Logout()
			if err := a.token.clear(); err != nil {
				return err
			}
			a.printf("logged out\n")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := c.app
			user, err := a.client.Auth.CurrentUser(cmd.Context())
			if errors.Is(err, domain.ErrInvalidCredentials) {
				if clearErr := a.token.clear(); clearErr != nil {
					a.log.Warn().Err(clearErr).Msg("forget rejected token")
				}
				return errors.New("not logged in")
			}
			if err != nil {
				return err
			}
			printUser(a.out, user)
			return nil
		},
	}
}

func (c *cli) signUpCmd() *cobra.Command {
	var user domain.UserCreate
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account; a verification link is emailed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := c.app
			for _, f := range [][2]string{{"username", user.Username}, {"email", user.Email}, {"password", user.Password}} {
				if err := required(f[0], f[1]); err != nil {
					return err
				}
			}
			created, err := a.client.Auth.SignUp(cmd.Context(), user)
			if err != nil {
				return err
			}
			a.printf("created user %d (%s), check %s for the verification link\n", created.ID, created.Username, created.Email)
			return nil
		},
	}
	cmd.Flags().StringVarP(&user.Username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&user.Email, "email", "e", "", "email address")
	cmd.Flags().StringVarP(&user.Password, "password", "p", "", "password")
	cmd.Flags().StringVar(&user.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&user.LastName, "last-name", "", "last name")
	return cmd
}

func (c *cli) verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify TOKEN",
		Short: "Verify an email address with the emailed token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			if err := a.client.Auth.VerifyEmail(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.printf("email verified\n")
			return nil
		},
	}
}

func (c *cli) forgotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forgot EMAIL",
		Short: "Email a password reset link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			if err := a.client.Auth.ForgotPassword(cmd.Context(), domain.ForgotPasswordForm{Email: args[0]}); err != nil {
				return err
			}
			a.printf("reset link sent to %s\n", args[0])
			return nil
		},
	}
}

func (c *cli) resetCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "reset TOKEN",
		Short: "Set a new password with an emailed reset token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			if err := required("password", password); err != nil {
				return err
			}
			form := domain.ResetPasswordForm{Token: args[0], Password: password}
			if err := a.client.Auth.ResetPassword(cmd.Context(), form); err != nil {
				return err
			}
			a.printf("password changed, log in again\n")
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "new password")
	return cmd
}
