package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/segmentation-fault/forum/internal/core/domain"
	"github.com/segmentation-fault/forum/internal/core/ports"
)

type mongoUser struct {
	ID           int64      `bson:"_id"`
	Username     string     `bson:"username"`
	Email        string     `bson:"email"`
	EmailLower   string     `bson:"email_lower"`
	PasswordHash string     `bson:"password_hash"`
	Super        bool       `bson:"super"`
	FirstName    string     `bson:"first_name"`
	LastName     string     `bson:"last_name"`
	Verified     bool       `bson:"verified"`
	Created      time.Time  `bson:"created"`
	Updated      *time.Time `bson:"updated,omitempty"`
}

func (u mongoUser) account() domain.Account {
	return domain.Account{
		User: domain.User{
			ID:        u.ID,
			Created:   u.Created.UTC(),
			Updated:   optionalTime(u.Updated),
			Username:  u.Username,
			Email:     u.Email,
			Super:     u.Super,
			FirstName: u.FirstName,
			LastName:  u.LastName,
		},
		PasswordHash: u.PasswordHash,
		Verified:     u.Verified,
	}
}

type mongoImage struct {
	UserID      int64  `bson:"_id"`
	Data        []byte `bson:"data"`
	ContentType string `bson:"content_type"`
}

func (r *ForumRepository) CreateAccount(ctx context.Context, account domain.Account) (domain.Account, error) {
	id, err := r.nextID(ctx, usersCollection)
	if err != nil {
		return domain.Account{}, err
	}
	doc := mongoUser{
		ID:           id,
		Username:     account.Username,
		Email:        account.Email,
		EmailLower:   strings.ToLower(account.Email),
		PasswordHash: account.PasswordHash,
		Super:        account.Super,
		FirstName:    account.FirstName,
		LastName:     account.LastName,
		Verified:     account.Verified,
		Created:      r.now(),
	}
	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		return domain.Account{}, conflictOr(err, "insert user: %w")
	}
	return doc.account(), nil
}

func (r *ForumRepository) accountBy(ctx context.Context, filter bson.M, notFound error) (domain.Account, error) {
	var doc mongoUser
	if err := findOne(ctx, r.users, filter, &doc, notFound); err != nil {
		return domain.Account{}, err
	}
	return doc.account(), nil
}

func (r *ForumRepository) AccountByID(ctx context.Context, id int64) (domain.Account, error) {
	return r.accountBy(ctx, bson.M{"_id": id}, domain.NewNotFound("User", id))
}

func (r *ForumRepository) AccountByUsername(ctx context.Context, username string) (domain.Account, error) {
	return r.accountBy(ctx, bson.M{"username": username}, domain.ErrNotFound)
}

func (r *ForumRepository) AccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	return r.accountBy(ctx, bson.M{"email_lower": strings.ToLower(email)}, domain.ErrNotFound)
}

func (r *ForumRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	cur, err := r.users.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	var docs []mongoUser
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	users := make([]domain.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.account().User)
	}
	return users, nil
}

func (r *ForumRepository) UpdateAccount(ctx context.Context, id int64, update ports.AccountUpdate) (domain.Account, error) {
	set := bson.M{"updated": r.now()}
	if update.Username != nil {
		set["username"] = *update.Username
	}
	if update.Email != nil {
		set["email"] = *update.Email
		set["email_lower"] = strings.ToLower(*update.Email)
	}
	if update.PasswordHash != nil {
		set["password_hash"] = *update.PasswordHash
	}
	if update.FirstName != nil {
		set["first_name"] = *update.FirstName
	}
	if update.LastName != nil {
		set["last_name"] = *update.LastName
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc mongoUser
	err := r.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Account{}, domain.NewNotFound("User", id)
		}
		return domain.Account{}, conflictOr(err, "update user: %w")
	}
	return doc.account(), nil
}

func (r *ForumRepository) DeleteAccount(ctx context.Context, id int64) error {
	res, err := r.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.NewNotFound("User", id)
	}
	if _, err := r.images.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete user image: %w", err)
	}

	posts, err := recordIDs(ctx, r.posts, bson.M{"author": id})
	if err != nil {
		return fmt.Errorf("find user posts: %w", err)
	}
	for _, pid := range posts {
		if err := r.DeletePost(ctx, pid); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
	}
	if err := r.dropComments(ctx, bson.M{"author": id}); err != nil {
		return err
	}
	if _, err := r.votes.DeleteMany(ctx, bson.M{"user": id}); err != nil {
		return fmt.Errorf("delete user votes: %w", err)
	}
	return nil
}

func (r *ForumRepository) SetVerified(ctx context.Context, id int64) error {
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"verified": true}})
	if err != nil {
		return fmt.Errorf("verify user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.NewNotFound("User", id)
	}
	return nil
}

func (r *ForumRepository) SetImage(ctx context.Context, id int64, image domain.Image) error {
	if _, err := r.AccountByID(ctx, id); err != nil {
		return err
	}
	doc := mongoImage{UserID: id, Data: image.Data, ContentType: image.ContentType}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.images.ReplaceOne(ctx, bson.M{"_id": id}, doc, opts); err != nil {
		return fmt.Errorf("store user image: %w", err)
	}
	return nil
}

func (r *ForumRepository) Image(ctx context.Context, id int64) (domain.Image, error) {
	var doc mongoImage
	if err := findOne(ctx, r.images, bson.M{"_id": id}, &doc, domain.NewNotFound("User", id)); err != nil {
		return domain.Image{}, err
	}
	return domain.Image{Data: doc.Data, ContentType: doc.ContentType}, nil
}
