package domain

import (
	"errors"
	"testing"
)

func TestVote_StringRoundTrip(t *testing.T) {
	for _, v := range []Vote{VoteUp, VoteDown, VoteNone} {
		got, err := ParseVote(v.String())
		if err != nil {
			t.Fatalf("ParseVote(%q) error: %v", v.String(), err)
		}
		if got != v {
			t.Fatalf("expected %v, got %v", v, got)
		}
	}
}

func TestParseVote_Invalid(t *testing.T) {
	if _, err := ParseVote("maybe"); !errors.Is(err, ErrInvalidVote) {
		t.Fatalf("expected ErrInvalidVote, got %v", err)
	}
}

func TestVote_Toggle(t *testing.T) {
	cases := []struct {
		current, pressed, want Vote
	}{
		{VoteNone, VoteUp, VoteUp},
		{VoteUp, VoteUp, VoteNone},
		{VoteUp, VoteDown, VoteDown},
		{VoteDown, VoteDown, VoteNone},
		{VoteDown, VoteUp, VoteUp},
	}
	for _, tc := range cases {
		if got := tc.current.Toggle(tc.pressed); got != tc.want {
			t.Fatalf("%v.Toggle(%v) = %v, want %v", tc.current, tc.pressed, got, tc.want)
		}
	}
}

func TestVote_Bool(t *testing.T) {
	if VoteNone.Bool() != nil {
		t.Fatalf("expected nil for VoteNone")
	}
	if b := VoteUp.Bool(); b == nil || !*b {
		t.Fatalf("expected true for VoteUp")
	}
	if b := VoteDown.Bool(); b == nil || *b {
		t.Fatalf("expected false for VoteDown")
	}
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFound("Post", 42)
	if err.Error() != "Post '42' not found" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected errors.Is(err, ErrNotFound)")
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Resource != "Post" || nf.ID != 42 {
		t.Fatalf("unexpected NotFoundError: %+v", nf)
	}
}
