package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/segmentation-fault/forum/internal/core/domain"
)

type mongoVote struct {
	Target string `bson:"target"`
	Record int64  `bson:"record"`
	User   int64  `bson:"user"`
	Type   int    `bson:"type"`
}

func voteFilter(target domain.VoteTarget, id int64) bson.M {
	return bson.M{"target": string(target), "record": id}
}

func (r *ForumRepository) exists(ctx context.Context, target domain.VoteTarget, id int64) error {
	switch target {
	case domain.VoteOnPost:
		_, err := r.GetPost(ctx, id)
		return err
	case domain.VoteOnComment:
		_, err := r.GetComment(ctx, id)
		return err
	}
	return domain.ErrInvalidVote
}

func (r *ForumRepository) dropVotes(ctx context.Context, target domain.VoteTarget, id int64) error {
	if _, err := r.votes.DeleteMany(ctx, voteFilter(target, id)); err != nil {
		return fmt.Errorf("delete %s votes: %w", target, err)
	}
	return nil
}

// Score sums the stored +1/-1 types, giving upvotes minus downvotes.
func (r *ForumRepository) Score(ctx context.Context, target domain.VoteTarget, id int64) (int, error) {
	if err := r.exists(ctx, target, id); err != nil {
		return 0, err
	}
	pipeline := bson.A{
		bson.M{"$match": voteFilter(target, id)},
		bson.M{"$group": bson.M{"_id": nil, "score": bson.M{"$sum": "$type"}}},
	}
	cur, err := r.votes.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("score %s: %w", target, err)
	}
	var rows []struct {
		Score int `bson:"score"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("decode score: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Score, nil
}

func (r *ForumRepository) UserVote(ctx context.Context, target domain.VoteTarget, id, userID int64) (domain.Vote, error) {
	if err := r.exists(ctx, target, id); err != nil {
		return domain.VoteNone, err
	}
	filter := voteFilter(target, id)
	filter["user"] = userID
	var doc mongoVote
	if err := findOne(ctx, r.votes, filter, &doc, errNoVote); err != nil {
		if errors.Is(err, errNoVote) {
			return domain.VoteNone, nil
		}
		return domain.VoteNone, err
	}
	return domain.Vote(doc.Type), nil
}

// ballotWrite returns the filter selecting userID's vote on a record and the
// document replacing it. The document is nil for VoteNone.
func ballotWrite(target domain.VoteTarget, id, userID int64, vote domain.Vote) (bson.M, *mongoVote) {
	filter := voteFilter(target, id)
	filter["user"] = userID
	if vote == domain.VoteNone {
		return filter, nil
	}
	return filter, &mongoVote{Target: string(target), Record: id, User: userID, Type: int(vote)}
}

// CastVote upserts the user's vote in place, or deletes it for VoteNone.
func (r *ForumRepository) CastVote(ctx context.Context, target domain.VoteTarget, id, userID int64, vote domain.Vote) error {
	if !vote.Valid() {
		return domain.ErrInvalidVote
	}
	if err := r.exists(ctx, target, id); err != nil {
		return err
	}
	filter, doc := ballotWrite(target, id, userID, vote)
	if doc == nil {
		if _, err := r.votes.DeleteOne(ctx, filter); err != nil {
			return fmt.Errorf("clear vote: %w", err)
		}
		return nil
	}
	if _, err := r.votes.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true)); err != nil {
		return conflictOr(err, "upsert vote: %w")
	}
	return nil
}
