// Package memory provides in-process implementations of the storage ports,
// used by default by the development server and by tests.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/segmentation-fault/forum/internal/core/domain"
	"github.com/segmentation-fault/forum/internal/core/ports"
)

type voteKey struct {
	target domain.VoteTarget
	id     int64
	user   int64
}

// Repository implements ports.ForumRepository. It is safe for concurrent
// use.
type Repository struct {
	mu       sync.RWMutex
	now      func() time.Time
	nextID   map[string]int64
	accounts map[int64]domain.Account
	images   map[int64]domain.Image
	posts    map[int64]domain.Post
	comments map[int64]domain.Comment
	votes    map[voteKey]domain.Vote
}

var _ ports.ForumRepository = (*Repository)(nil)

// NewRepository returns an empty repository.
func NewRepository() *Repository {
	return &Repository{
		now:      func() time.Time { return time.Now().UTC() },
		nextID:   make(map[string]int64),
		accounts: make(map[int64]domain.Account),
		images:   make(map[int64]domain.Image),
		posts:    make(map[int64]domain.Post),
		comments: make(map[int64]domain.Comment),
		votes:    make(map[voteKey]domain.Vote),
	}
}

func (r *Repository) allocate(kind string) int64 {
	r.nextID[kind]++
	return r.nextID[kind]
}

func (r *Repository) stamp() *time.Time {
	t := r.now()
	return &t
}

// ── Users ─────────────────────────────────────────────────────────────────────

func (r *Repository) taken(username, email string, except int64) bool {
	for id, a := range r.accounts {
		if id == except {
			continue
		}
		if a.Username == username || strings.EqualFold(a.Email, email) {
			return true
		}
	}
	return false
}

func (r *Repository) CreateAccount(_ context.Context, account domain.Account) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.taken(account.Username, account.Email, 0) {
		return domain.Account{}, domain.ErrConflict
	}
	account.ID = r.allocate("users")
	account.Created = r.now()
	account.Updated = nil
	r.accounts[account.ID] = account
	return account, nil
}

func (r *Repository) AccountByID(_ context.Context, id int64) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[id]
	if !ok {
		return domain.Account{}, domain.NewNotFound("User", id)
	}
	return a, nil
}

func (r *Repository) AccountByUsername(_ context.Context, username string) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.Username == username {
			return a, nil
		}
	}
	return domain.Account{}, domain.ErrNotFound
}

func (r *Repository) AccountByEmail(_ context.Context, email string) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return domain.Account{}, domain.ErrNotFound
}

func (r *Repository) ListUsers(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.User, 0, len(r.accounts))
	for _, a := range r.accounts {
		users = append(users, a.User)
	}
	slices.SortFunc(users, func(a, b domain.User) int { return int(a.ID - b.ID) })
	return users, nil
}

func (r *Repository) UpdateAccount(_ context.Context, id int64, update ports.AccountUpdate) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[id]
	if !ok {
		return domain.Account{}, domain.NewNotFound("User", id)
	}
	username, email := a.Username, a.Email
	if update.Username != nil {
		username = *update.Username
	}
	if update.Email != nil {
		email = *update.Email
	}
	if r.taken(username, email, id) {
		return domain.Account{}, domain.ErrConflict
	}

	a.Username, a.Email = username, email
	if update.PasswordHash != nil {
		a.PasswordHash = *update.PasswordHash
	}
	if update.FirstName != nil {
		a.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		a.LastName = *update.LastName
	}
	a.Updated = r.stamp()
	r.accounts[id] = a
	return a, nil
}

func (r *Repository) DeleteAccount(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[id]; !ok {
		return domain.NewNotFound("User", id)
	}
	delete(r.accounts, id)
	delete(r.images, id)

	// The user's posts and comments go with the account, along with every
	// vote on them and every vote the user cast.
	for pid, p := range r.posts {
		if p.Author == id {
			r.dropPost(pid)
		}
	}
	for cid, c := range r.comments {
		if c.Author == id {
			delete(r.comments, cid)
			r.dropVotes(domain.VoteOnComment, cid)
		}
	}
	for k := range r.votes {
		if k.user == id {
			delete(r.votes, k)
		}
	}
	return nil
}

func (r *Repository) SetVerified(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[id]
	if !ok {
		return domain.NewNotFound("User", id)
	}
	a.Verified = true
	r.accounts[id] = a
	return nil
}

func (r *Repository) SetImage(_ context.Context, id int64, image domain.Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[id]; !ok {
		return domain.NewNotFound("User", id)
	}
	r.images[id] = domain.Image{Data: slices.Clone(image.Data), ContentType: image.ContentType}
	return nil
}

func (r *Repository) Image(_ context.Context, id int64) (domain.Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	img, ok := r.images[id]
	if !ok {
		return domain.Image{}, domain.NewNotFound("User", id)
	}
	return img, nil
}

// ── Posts ─────────────────────────────────────────────────────────────────────

func newestFirst[T any](items []T, created func(T) time.Time, id func(T) int64) {
	slices.SortFunc(items, func(a, b T) int {
		if c := created(b).Compare(created(a)); c != 0 {
			return c
		}
		return int(id(b) - id(a))
	})
}

func sortPosts(posts []domain.Post) {
	newestFirst(posts, func(p domain.Post) time.Time { return p.Created }, func(p domain.Post) int64 { return p.ID })
}

func sortComments(comments []domain.Comment) {
	newestFirst(comments, func(c domain.Comment) time.Time { return c.Created }, func(c domain.Comment) int64 { return c.ID })
}

func (r *Repository) ListPosts(_ context.Context) ([]domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	posts := make([]domain.Post, 0, len(r.posts))
	for _, p := range r.posts {
		posts = append(posts, p)
	}
	sortPosts(posts)
	return posts, nil
}

func (r *Repository) GetPost(_ context.Context, id int64) (domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.posts[id]
	if !ok {
		return domain.Post{}, domain.NewNotFound("Post", id)
	}
	return p, nil
}

func (r *Repository) CreatePost(_ context.Context, author int64, post domain.PostCreate) (domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := domain.Post{
		ID:      r.allocate("posts"),
		Created: r.now(),
		Author:  author,
		Title:   post.Title,
		Content: post.Content,
	}
	r.posts[p.ID] = p
	return p, nil
}

func (r *Repository) UpdatePost(_ context.Context, id int64, update domain.PostUpdate) (domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return domain.Post{}, domain.NewNotFound("Post", id)
	}
	p.Title = update.Title
	p.Content = update.Content
	p.Updated = r.stamp()
	r.posts[id] = p
	return p, nil
}

// DeletePost removes the post with its comments and every attached vote.
func (r *Repository) DeletePost(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return domain.NewNotFound("Post", id)
	}
	r.dropPost(id)
	return nil
}

// dropPost removes a post with its comments and their votes. Callers hold
// the write lock.
func (r *Repository) dropPost(id int64) {
	delete(r.posts, id)
	for cid, c := range r.comments {
		if c.Post == id {
			delete(r.comments, cid)
			r.dropVotes(domain.VoteOnComment, cid)
		}
	}
	r.dropVotes(domain.VoteOnPost, id)
}

// ── Comments ──────────────────────────────────────────────────────────────────

func (r *Repository) ListComments(_ context.Context) ([]domain.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comments := make([]domain.Comment, 0, len(r.comments))
	for _, c := range r.comments {
		comments = append(comments, c)
	}
	sortComments(comments)
	return comments, nil
}

func (r *Repository) PostComments(_ context.Context, postID int64) ([]domain.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.posts[postID]; !ok {
		return nil, domain.NewNotFound("Post", postID)
	}
	comments := make([]domain.Comment, 0)
	for _, c := range r.comments {
		if c.Post == postID {
			comments = append(comments, c)
		}
	}
	sortComments(comments)
	return comments, nil
}

func (r *Repository) GetComment(_ context.Context, id int64) (domain.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.comments[id]
	if !ok {
		return domain.Comment{}, domain.NewNotFound("Comment", id)
	}
	return c, nil
}

func (r *Repository) CreateComment(_ context.Context, author int64, comment domain.CommentCreate) (domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[comment.Post]; !ok {
		return domain.Comment{}, domain.NewNotFound("Post", comment.Post)
	}
	c := domain.Comment{
		ID:      r.allocate("comments"),
		Created: r.now(),
		Author:  author,
		Content: comment.Content,
		Post:    comment.Post,
	}
	r.comments[c.ID] = c
	return c, nil
}

func (r *Repository) UpdateComment(_ context.Context, id int64, update domain.CommentUpdate) (domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.comments[id]
	if !ok {
		return domain.Comment{}, domain.NewNotFound("Comment", id)
	}
	c.Content = update.Content
	c.Updated = r.stamp()
	r.comments[id] = c
	return c, nil
}

func (r *Repository) DeleteComment(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.comments[id]; !ok {
		return domain.NewNotFound("Comment", id)
	}
	delete(r.comments, id)
	r.dropVotes(domain.VoteOnComment, id)
	return nil
}

// ── Votes ─────────────────────────────────────────────────────────────────────

func (r *Repository) exists(target domain.VoteTarget, id int64) error {
	switch target {
	case domain.VoteOnPost:
		if _, ok := r.posts[id]; !ok {
			return domain.NewNotFound("Post", id)
		}
	case domain.VoteOnComment:
		if _, ok := r.comments[id]; !ok {
			return domain.NewNotFound("Comment", id)
		}
	default:
		return domain.ErrInvalidVote
	}
	return nil
}

func (r *Repository) dropVotes(target domain.VoteTarget, id int64) {
	for k := range r.votes {
		if k.target == target && k.id == id {
			delete(r.votes, k)
		}
	}
}

func (r *Repository) Score(_ context.Context, target domain.VoteTarget, id int64) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := r.exists(target, id); err != nil {
		return 0, err
	}
	score := 0
	for k, v := range r.votes {
		if k.target == target && k.id == id {
			score += int(v)
		}
	}
	return score, nil
}

func (r *Repository) UserVote(_ context.Context, target domain.VoteTarget, id, userID int64) (domain.Vote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := r.exists(target, id); err != nil {
		return domain.VoteNone, err
	}
	return r.votes[voteKey{target, id, userID}], nil
}

func (r *Repository) CastVote(_ context.Context, target domain.VoteTarget, id, userID int64, vote domain.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.exists(target, id); err != nil {
		return err
	}
	key := voteKey{target, id, userID}
	delete(r.votes, key)
	if vote != domain.VoteNone {
		r.votes[key] = vote
	}
	return nil
}
