package domain

import "time"

// Comment is a reply attached to a post.
type Comment struct {
	ID      int64
	Created time.Time
	Updated *time.Time
	Author  int64
	Content string
	Post    int64
	Votes   int
	Vote    Vote
}

type CommentCreate struct {
	Content string
	Post    int64
}

type CommentUpdate struct {
	Content string
}
