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

type mongoComment struct {
	ID      int64      `bson:"_id"`
	Author  int64      `bson:"author"`
	Post    int64      `bson:"post"`
	Content string     `bson:"content"`
	Created time.Time  `bson:"created"`
	Updated *time.Time `bson:"updated,omitempty"`
}

func (c mongoComment) toDomain() domain.Comment {
	return domain.Comment{
		ID:      c.ID,
		Created: c.Created.UTC(),
		Updated: optionalTime(c.Updated),
		Author:  c.Author,
		Content: c.Content,
		Post:    c.Post,
	}
}

func (r *ForumRepository) findComments(ctx context.Context, filter bson.M) ([]domain.Comment, error) {
	cur, err := r.comments.Find(ctx, filter, newestFirst())
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	var docs []mongoComment
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	comments := make([]domain.Comment, 0, len(docs))
	for _, d := range docs {
		comments = append(comments, d.toDomain())
	}
	return comments, nil
}

func (r *ForumRepository) ListComments(ctx context.Context) ([]domain.Comment, error) {
	return r.findComments(ctx, bson.M{})
}

func (r *ForumRepository) PostComments(ctx context.Context, postID int64) ([]domain.Comment, error) {
	if _, err := r.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	return r.findComments(ctx, bson.M{"post": postID})
}

func (r *ForumRepository) GetComment(ctx context.Context, id int64) (domain.Comment, error) {
	var doc mongoComment
	if err := findOne(ctx, r.comments, bson.M{"_id": id}, &doc, domain.NewNotFound("Comment", id)); err != nil {
		return domain.Comment{}, err
	}
	return doc.toDomain(), nil
}

func (r *ForumRepository) CreateComment(ctx context.Context, author int64, comment domain.CommentCreate) (domain.Comment, error) {
	if _, err := r.GetPost(ctx, comment.Post); err != nil {
		return domain.Comment{}, err
	}
	id, err := r.nextID(ctx, commentsCollection)
	if err != nil {
		return domain.Comment{}, err
	}
	doc := mongoComment{
		ID:      id,
		Author:  author,
		Post:    comment.Post,
		Content: comment.Content,
		Created: r.now(),
	}
	if _, err := r.comments.InsertOne(ctx, doc); err != nil {
		return domain.Comment{}, fmt.Errorf("insert comment: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ForumRepository) UpdateComment(ctx context.Context, id int64, update domain.CommentUpdate) (domain.Comment, error) {
	set := bson.M{"content": update.Content, "updated": r.now()}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc mongoComment
	err := r.comments.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Comment{}, domain.NewNotFound("Comment", id)
		}
		return domain.Comment{}, fmt.Errorf("update comment: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ForumRepository) DeleteComment(ctx context.Context, id int64) error {
	res, err := r.comments.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.NewNotFound("Comment", id)
	}
	return r.dropVotes(ctx, domain.VoteOnComment, id)
}
