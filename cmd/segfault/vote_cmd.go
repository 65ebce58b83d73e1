package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/segmentation-fault/forum/internal/core/domain"
)

func parseDirection(s string) (domain.Vote, error) {
	switch s {
	case "up", "+":
		return domain.VoteUp, nil
	case "down", "-":
		return domain.VoteDown, nil
	}
	return domain.VoteNone, fmt.Errorf("%w: %q, want up or down", domain.ErrInvalidVote, s)
}

func (c *cli) voteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vote post|comment ID up|down",
		Short: "Press the up or down button; pressing the active one clears the vote",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			pressed, err := parseDirection(args[2])
			if err != nil {
				return err
			}

			a := c.app
			ctx := cmd.Context()
			switch domain.VoteTarget(args[0]) {
			case domain.VoteOnPost:
				post, err := a.client.Posts.Get(ctx, id)
				if err != nil {
					return err
				}
				if post, err = a.votes.TogglePostVote(ctx, post, pressed); err != nil {
					return err
				}
				a.printf("post %d: %d votes %s\n", post.ID, post.Votes, voteMark(post.Vote))
			case domain.VoteOnComment:
				comment, err := a.client.Comments.Get(ctx, id)
				if err != nil {
					return err
				}
				if comment, err = a.votes.ToggleCommentVote(ctx, comment, pressed); err != nil {
					return err
				}
				a.printf("comment %d: %d votes %s\n", comment.ID, comment.Votes, voteMark(comment.Vote))
			default:
				return fmt.Errorf("cannot vote on %q, want post or comment", args[0])
			}
			return nil
		},
	}
}
