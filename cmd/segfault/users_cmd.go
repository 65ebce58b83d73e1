package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/segmentation-fault/forum/internal/core/domain"
)

func (c *cli) usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "Browse and manage accounts",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			users, err := c.app.client.Users.List(cmd.Context())
			if err != nil {
				return err
			}
			return printUsers(c.app.out, users)
		},
	}

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			user, err := c.app.client.Users.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			printUser(c.app.out, user)
			c.app.printf("image:  %s\n", c.app.client.Users.ImageURL(id))
			return nil
		},
	}

	var fields struct {
		username, email, password, firstName, lastName string
	}
	updateCmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change the given fields of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			changed := func(name string, v *string) *string {
				if flags.Changed(name) {
					return v
				}
				return nil
			}
			update := domain.UserUpdate{
				Username:  changed("username", &fields.username),
				Email:     changed("email", &fields.email),
				Password:  changed("password", &fields.password),
				FirstName: changed("first-name", &fields.firstName),
				LastName:  changed("last-name", &fields.lastName),
			}
			user, err := c.app.client.Users.Update(cmd.Context(), id, update)
			if err != nil {
				return err
			}
			printUser(c.app.out, user)
			return nil
		},
	}
	updateCmd.Flags().StringVarP(&fields.username, "username", "u", "", "new username")
	updateCmd.Flags().StringVarP(&fields.email, "email", "e", "", "new email address")
	updateCmd.Flags().StringVarP(&fields.password, "password", "p", "", "new password")
	updateCmd.Flags().StringVar(&fields.firstName, "first-name", "", "new first name")
	updateCmd.Flags().StringVar(&fields.lastName, "last-name", "", "new last name")

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := c.app.client.Users.Delete(cmd.Context(), id); err != nil {
				return err
			}
			c.app.printf("deleted user %d\n", id)
			return nil
		},
	}

	var output string
	image := &cobra.Command{
		Use:   "image ID",
		Short: "Download a profile image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			data, err := c.app.client.Users.Image(cmd.Context(), id)
			if err != nil {
				return err
			}
			if output == "" {
				output = fmt.Sprintf("user-%d-image", id)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write image: %w", err)
			}
			c.app.printf("saved %d bytes to %s\n", len(data), output)
			return nil
		},
	}
	image.Flags().StringVarP(&output, "output", "o", "", "file to write (default user-ID-image)")

	upload := &cobra.Command{
		Use:   "upload ID FILE",
		Short: "Replace a profile image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			f, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("open image: %w", err)
			}
			defer f.Close()
			if err := c.app.client.Users.UploadImage(cmd.Context(), id, filepath.Base(args[1]), f); err != nil {
				return err
			}
			c.app.printf("uploaded %s for user %d\n", filepath.Base(args[1]), id)
			return nil
		},
	}

	cmd.AddCommand(list, get, updateCmd, del, image, upload)
	return cmd
}
