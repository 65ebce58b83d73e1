package mongo

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/segmentation-fault/forum/internal/core/domain"
)

func TestConflictOr_DuplicateKey(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key"}}}
	if err := conflictOr(dup, "insert user: %w"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	other := errors.New("socket closed")
	err := conflictOr(other, "insert user: %w")
	if errors.Is(err, domain.ErrConflict) || !errors.Is(err, other) {
		t.Fatalf("expected wrapped original error, got %v", err)
	}
}

func TestMongoUser_Account(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	doc := mongoUser{
		ID:           7,
		Username:     "ada",
		Email:        "Ada@Example.com",
		EmailLower:   "ada@example.com",
		PasswordHash: "hash",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Verified:     true,
		Created:      created,
	}
	acc := doc.account()
	if acc.ID != 7 || acc.Username != "ada" || acc.Email != "Ada@Example.com" {
		t.Fatalf("unexpected user: %+v", acc.User)
	}
	if acc.Created.Location() != time.UTC || !acc.Created.Equal(created) {
		t.Fatalf("created should be normalised to UTC, got %v", acc.Created)
	}
	if acc.Updated != nil {
		t.Fatalf("updated should stay nil, got %v", acc.Updated)
	}
	if !acc.Verified || acc.PasswordHash != "hash" {
		t.Fatalf("account fields lost: %+v", acc)
	}
}

func TestVoteFilter(t *testing.T) {
	f := voteFilter(domain.VoteOnComment, 3)
	if f["target"] != "comment" || f["record"] != int64(3) {
		t.Fatalf("unexpected filter: %v", f)
	}
}

func TestBallotWrite(t *testing.T) {
	filter, doc := ballotWrite(domain.VoteOnPost, 4, 9, domain.VoteDown)
	if filter["target"] != "post" || filter["record"] != int64(4) || filter["user"] != int64(9) {
		t.Fatalf("unexpected filter: %v", filter)
	}
	if doc == nil || doc.Type != -1 || doc.User != 9 || doc.Record != 4 || doc.Target != "post" {
		t.Fatalf("unexpected replacement: %+v", doc)
	}

	filter, doc = ballotWrite(domain.VoteOnComment, 4, 9, domain.VoteNone)
	if doc != nil {
		t.Fatalf("VoteNone must delete, got replacement %+v", doc)
	}
	if filter["target"] != "comment" || filter["user"] != int64(9) {
		t.Fatalf("unexpected filter: %v", filter)
	}
}
