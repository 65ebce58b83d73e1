package main

import (
	"github.com/spf13/cobra"

	"github.com/segmentation-fault/forum/internal/core/domain"
)

func (c *cli) postsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "posts",
		Aliases: []string{"post"},
		Short:   "Browse and edit posts",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			posts, err := c.app.client.Posts.List(cmd.Context())
			if err != nil {
				return err
			}
			return printPosts(c.app.out, posts)
		},
	}

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			post, err := c.app.client.Posts.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			printPost(c.app.out, post)
			return nil
		},
	}

	var create domain.PostCreate
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Write a new post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := required("title", create.Title); err != nil {
				return err
			}
			post, err := c.app.client.Posts.Create(cmd.Context(), create)
			if err != nil {
				return err
			}
			c.app.printf("created post %d\n", post.ID)
			return nil
		},
	}
	createCmd.Flags().StringVarP(&create.Title, "title", "t", "", "post title")
	createCmd.Flags().StringVarP(&create.Content, "content", "c", "", "post body")

	var update domain.PostUpdate
	updateCmd := &cobra.Command{
		Use:   "update ID",
		Short: "Replace a post's title and body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := required("title", update.Title); err != nil {
				return err
			}
			post, err := c.app.client.Posts.Update(cmd.Context(), id, update)
			if err != nil {
				return err
			}
			printPost(c.app.out, post)
			return nil
		},
	}
	updateCmd.Flags().StringVarP(&update.Title, "title", "t", "", "post title")
	updateCmd.Flags().StringVarP(&update.Content, "content", "c", "", "post body")

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a post with its comments and votes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := c.app.client.Posts.Delete(cmd.Context(), id); err != nil {
				return err
			}
			c.app.printf("deleted post %d\n", id)
			return nil
		},
	}

	comments := &cobra.Command{
		Use:   "comments ID",
		Short: "List the comments on a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			list, err := c.app.client.Posts.Comments(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printComments(c.app.out, list)
		},
	}

	cmd.AddCommand(list, get, createCmd, updateCmd, del, comments)
	return cmd
}
