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
)

type mongoPost struct {
	ID      int64      `bson:"_id"`
	Author  int64      `bson:"author"`
	Title   string     `bson:"title"`
	Content string     `bson:"content"`
	Created time.Time  `bson:"created"`
	Updated *time.Time `bson:"updated,omitempty"`
}

func (p mongoPost) toDomain() domain.Post {
	return domain.Post{
		ID:      p.ID,
		Created: p.Created.UTC(),
		Updated: optionalTime(p.Updated),
		Author:  p.Author,
		Title:   p.Title,
		Content: p.Content,
	}
}

func (r *ForumRepository) ListPosts(ctx context.Context) ([]domain.Post, error) {
	cur, err := r.posts.Find(ctx, bson.M{}, newestFirst())
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	var docs []mongoPost
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	posts := make([]domain.Post, 0, len(docs))
	for _, d := range docs {
		posts = append(posts, d.toDomain())
	}
	return posts, nil
}

func (r *ForumRepository) GetPost(ctx context.Context, id int64) (domain.Post, error) {
	var doc mongoPost
	if err := findOne(ctx, r.posts, bson.M{"_id": id}, &doc, domain.NewNotFound("Post", id)); err != nil {
		return domain.Post{}, err
	}
	return doc.toDomain(), nil
}

func (r *ForumRepository) CreatePost(ctx context.Context, author int64, post domain.PostCreate) (domain.Post, error) {
	id, err := r.nextID(ctx, postsCollection)
	if err != nil {
		return domain.Post{}, err
	}
	doc := mongoPost{
		ID:      id,
		Author:  author,
		Title:   post.Title,
		Content: post.Content,
		Created: r.now(),
	}
	if _, err := r.posts.InsertOne(ctx, doc); err != nil {
		return domain.Post{}, fmt.Errorf("insert post: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ForumRepository) UpdatePost(ctx context.Context, id int64, update domain.PostUpdate) (domain.Post, error) {
	set := bson.M{"title": update.Title, "content": update.Content, "updated": r.now()}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc mongoPost
	err := r.posts.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Post{}, domain.NewNotFound("Post", id)
		}
		return domain.Post{}, fmt.Errorf("update post: %w", err)
	}
	return doc.toDomain(), nil
}

// DeletePost removes the post with its comments and every attached vote.
func (r *ForumRepository) DeletePost(ctx context.Context, id int64) error {
	res, err := r.posts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.NewNotFound("Post", id)
	}

	if err := r.dropComments(ctx, bson.M{"post": id}); err != nil {
		return err
	}
	return r.dropVotes(ctx, domain.VoteOnPost, id)
}

// recordIDs lists the _id of every document in coll matching filter.
func recordIDs(ctx context.Context, coll *mongo.Collection, filter bson.M) ([]int64, error) {
	cur, err := coll.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	var rows []struct {
		ID int64 `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}

// dropComments deletes the comments matching filter and the votes on them.
func (r *ForumRepository) dropComments(ctx context.Context, filter bson.M) error {
	ids, err := recordIDs(ctx, r.comments, filter)
	if err != nil {
		return fmt.Errorf("find comments: %w", err)
	}
	if _, err := r.comments.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("delete comments: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}
	votes := bson.M{"target": string(domain.VoteOnComment), "record": bson.M{"$in": ids}}
	if _, err := r.votes.DeleteMany(ctx, votes); err != nil {
		return fmt.Errorf("delete comment votes: %w", err)
	}
	return nil
}
