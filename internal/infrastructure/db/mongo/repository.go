package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/segmentation-fault/forum/internal/core/domain"
	"github.com/segmentation-fault/forum/internal/core/ports"
)

const (
	usersCollection    = "users"
	imagesCollection   = "user_images"
	postsCollection    = "posts"
	commentsCollection = "comments"
	votesCollection    = "votes"
	countersCollection = "counters"
)

// ForumRepository implements ports.ForumRepository on MongoDB. Records use
// sequential integer ids drawn from the counters collection.
type ForumRepository struct {
	users    *mongo.Collection
	images   *mongo.Collection
	posts    *mongo.Collection
	comments *mongo.Collection
	votes    *mongo.Collection
	counters *mongo.Collection
	now      func() time.Time
}

var _ ports.ForumRepository = (*ForumRepository)(nil)

func NewForumRepository(db *mongo.Database) *ForumRepository {
	return &ForumRepository{
		users:    db.Collection(usersCollection),
		images:   db.Collection(imagesCollection),
		posts:    db.Collection(postsCollection),
		comments: db.Collection(commentsCollection),
		votes:    db.Collection(votesCollection),
		counters: db.Collection(countersCollection),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// EnsureIndexes creates the unique and lookup indexes the repository relies
// on.
func (r *ForumRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)
	if _, err := r.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "email_lower", Value: 1}}, Options: unique},
	}); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}
	if _, err := r.posts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created", Value: -1}},
	}); err != nil {
		return fmt.Errorf("posts indexes: %w", err)
	}
	if _, err := r.comments.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "post", Value: 1}, {Key: "created", Value: -1}}},
		{Keys: bson.D{{Key: "created", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("comments indexes: %w", err)
	}
	if _, err := r.votes.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "target", Value: 1}, {Key: "record", Value: 1}, {Key: "user", Value: 1}},
		Options: unique,
	}); err != nil {
		return fmt.Errorf("votes indexes: %w", err)
	}
	return nil
}

type counter struct {
	Seq int64 `bson:"seq"`
}

func (r *ForumRepository) nextID(ctx context.Context, name string) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var c counter
	err := r.counters.FindOneAndUpdate(ctx, bson.M{"_id": name}, bson.M{"$inc": bson.M{"seq": 1}}, opts).Decode(&c)
	if err != nil {
		return 0, fmt.Errorf("allocate %s id: %w", name, err)
	}
	return c.Seq, nil
}

// findOne decodes the single document matching filter into out, mapping
// a miss to notFound.
func findOne(ctx context.Context, coll *mongo.Collection, filter any, out any, notFound error) error {
	if err := coll.FindOne(ctx, filter).Decode(out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return notFound
		}
		return fmt.Errorf("find in %s: %w", coll.Name(), err)
	}
	return nil
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "created", Value: -1}, {Key: "_id", Value: -1}})
}

func optionalTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func conflictOr(err error, format string) error {
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrConflict
	}
	return fmt.Errorf(format, err)
}

var errNoVote = errors.New("no vote")
