package domain

import "time"

// Post is a top-level forum entry. Votes and Vote are derived per fetch and
// reflect the requesting user's view.
type Post struct {
	ID      int64
	Created time.Time
	Updated *time.Time
	Author  int64
	Title   string
	Content string
	Votes   int
	Vote    Vote
}

type PostCreate struct {
	Title   string
	Content string
}

type PostUpdate struct {
	Title   string
	Content string
}
