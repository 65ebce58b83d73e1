package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Vote is the requesting user's vote on a post or comment.
type Vote int8

const (
	VoteNone Vote = 0
	VoteUp   Vote = 1
	VoteDown Vote = -1
)

var ErrInvalidVote = errors.New("invalid vote type")

// String returns the wire encoding used by the vote endpoints.
func (v Vote) String() string {
	switch v {
	case VoteUp:
		return "true"
	case VoteDown:
		return "false"
	default:
		return "null"
	}
}

// Valid reports whether v is one of the three known states.
func (v Vote) Valid() bool {
	return v == VoteNone || v == VoteUp || v == VoteDown
}

// Bool exposes the tri-state as an optional boolean (nil = no vote).
func (v Vote) Bool() *bool {
	if v == VoteNone {
		return nil
	}
	up := v == VoteUp
	return &up
}

// Toggle returns the vote that results from pressing the given direction:
// pressing the active direction again clears the vote.
func (v Vote) Toggle(pressed Vote) Vote {
	if pressed == v {
		return VoteNone
	}
	return pressed
}

// ParseVote decodes "true", "false" or "null".
func ParseVote(s string) (Vote, error) {
	switch strings.TrimSpace(s) {
	case "true":
		return VoteUp, nil
	case "false":
		return VoteDown, nil
	case "null", "":
		return VoteNone, nil
	}
	return VoteNone, fmt.Errorf("%w: %q", ErrInvalidVote, s)
}

// VoteTarget is the kind of record a vote is attached to.
type VoteTarget string

const (
	VoteOnPost    VoteTarget = "post"
	VoteOnComment VoteTarget = "comment"
)
