package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/segmentation-fault/forum/internal/core/domain"
)

const timeLayout = "2006-01-02 15:04"

func newTable(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func voteMark(v domain.Vote) string {
	switch v {
	case domain.VoteUp:
		return "+"
	case domain.VoteDown:
		return "-"
	}
	return " "
}

func stamp(created time.Time, updated *time.Time) string {
	s := created.Local().Format(timeLayout)
	if updated != nil {
		s += " (edited)"
	}
	return s
}

func printUsers(w io.Writer, users []domain.User) error {
	tw := newTable(w, "ID", "USERNAME", "NAME", "EMAIL", "JOINED")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Username, u.FullName(), u.Email, u.Created.Local().Format(timeLayout))
	}
	return tw.Flush()
}

func printUser(w io.Writer, u domain.User) {
	fmt.Fprintf(w, "#%d %s", u.ID, u.Username)
	if u.Super {
		fmt.Fprint(w, " [super]")
	}
	fmt.Fprintln(w)
	if name := u.FullName(); name != "" {
		fmt.Fprintf(w, "name:   %s\n", name)
	}
	fmt.Fprintf(w, "email:  %s\n", u.Email)
	fmt.Fprintf(w, "joined: %s\n", stamp(u.Created, u.Updated))
}

func printPosts(w io.Writer, posts []domain.Post) error {
	tw := newTable(w, "ID", "VOTES", "", "AUTHOR", "TITLE", "CREATED")
	for _, p := range posts {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%d\t%s\t%s\n", p.ID, p.Votes, voteMark(p.Vote), p.Author, p.Title, stamp(p.Created, p.Updated))
	}
	return tw.Flush()
}

func printPost(w io.Writer, p domain.Post) {
	fmt.Fprintf(w, "#%d %s\n", p.ID, p.Title)
	fmt.Fprintf(w, "by user %d on %s, %d votes %s\n\n", p.Author, stamp(p.Created, p.Updated), p.Votes, voteMark(p.Vote))
	fmt.Fprintln(w, p.Content)
}

func printComments(w io.Writer, comments []domain.Comment) error {
	tw := newTable(w, "ID", "POST", "VOTES", "", "AUTHOR", "CONTENT", "CREATED")
	for _, c := range comments {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%s\t%d\t%s\t%s\n", c.ID, c.Post, c.Votes, voteMark(c.Vote), c.Author, oneLine(c.Content, 60), stamp(c.Created, c.Updated))
	}
	return tw.Flush()
}

func printComment(w io.Writer, c domain.Comment) {
	fmt.Fprintf(w, "#%d on post %d\n", c.ID, c.Post)
	fmt.Fprintf(w, "by user %d on %s, %d votes %s\n\n", c.Author, stamp(c.Created, c.Updated), c.Votes, voteMark(c.Vote))
	fmt.Fprintln(w, c.Content)
}

func oneLine(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > limit {
		return string(r[:limit-1]) + "…"
	}
	return s
}
