package main

import (
	"github.com/spf13/cobra"

	"github.com/segmentation-fault/forum/internal/core/domain"
)

func (c *cli) commentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "comments",
		Aliases: []string{"comment"},
		Short:   "Browse and edit comments",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List every comment, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			comments, err := c.app.client.Comments.List(cmd.Context())
			if err != nil {
				return err
			}
			return printComments(c.app.out, comments)
		},
	}

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show a comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			comment, err := c.app.client.Comments.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			printComment(c.app.out, comment)
			return nil
		},
	}

	var create domain.CommentCreate
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Reply to a post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if create.Post <= 0 {
				return required("post", "")
			}
			if err := required("content", create.Content); err != nil {
				return err
			}
			comment, err := c.app.client.Comments.Create(cmd.Context(), create)
			if err != nil {
				return err
			}
			c.app.printf("created comment %d on post %d\n", comment.ID, comment.Post)
			return nil
		},
	}
	createCmd.Flags().Int64Var(&create.Post, "post", 0, "id of the post to reply to")
	createCmd.Flags().StringVarP(&create.Content, "content", "c", "", "comment body")

	var update domain.CommentUpdate
	updateCmd := &cobra.Command{
		Use:   "update ID",
		Short: "Replace a comment's body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := required("content", update.Content); err != nil {
				return err
			}
			comment, err := c.app.client.Comments.Update(cmd.Context(), id, update)
			if err != nil {
				return err
			}
			printComment(c.app.out, comment)
			return nil
		},
	}
	updateCmd.Flags().StringVarP(&update.Content, "content", "c", "", "comment body")

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := c.app.client.Comments.Delete(cmd.Context(), id); err != nil {
				return err
			}
			c.app.printf("deleted comment %d\n", id)
			return nil
		},
	}

	cmd.AddCommand(list, get, createCmd, updateCmd, del)
	return cmd
}
