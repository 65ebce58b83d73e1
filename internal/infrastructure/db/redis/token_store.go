package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/segmentation-fault/forum/internal/core/domain"
	"github.com/segmentation-fault/forum/internal/core/ports"
)

const defaultTokenTTL = 24 * time.Hour

// TokenStore keeps one-time tokens in Redis, expiring them natively.
// Key format:
//
//	onetime:<kind>:<value>        -> user id
//	onetime:user:<kind>:<user id> -> set of outstanding values
type TokenStore struct {
	client *redis.Client
	now    func() time.Time
}

var _ ports.OneTimeTokenStore = (*TokenStore)(nil)

// NewTokenStore creates a TokenStore wrapping the given Redis client.
func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client, now: time.Now}
}

func (s *TokenStore) Issue(ctx context.Context, token domain.OneTimeToken) error {
	ttl := defaultTokenTTL
	if !token.Expires.IsZero() {
		ttl = token.Expires.Sub(s.now())
		if ttl <= 0 {
			return nil
		}
	}

	userKey := s.userKey(token.Kind, token.UserID)
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.key(token.Kind, token.Value), token.UserID, ttl)
		p.SAdd(ctx, userKey, token.Value)
		p.Expire(ctx, userKey, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}
	return nil
}

func (s *TokenStore) Redeem(ctx context.Context, value string, kind domain.OneTimeKind) (domain.OneTimeToken, error) {
	raw, err := s.client.GetDel(ctx, s.key(kind, value)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.OneTimeToken{}, domain.ErrInvalidToken
	}
	if err != nil {
		return domain.OneTimeToken{}, fmt.Errorf("redeem token: %w", err)
	}

	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return domain.OneTimeToken{}, domain.ErrInvalidToken
	}
	_ = s.client.SRem(ctx, s.userKey(kind, userID), value).Err()
	return domain.OneTimeToken{Value: value, UserID: userID, Kind: kind}, nil
}

func (s *TokenStore) Revoke(ctx context.Context, userID int64, kind domain.OneTimeKind) error {
	userKey := s.userKey(kind, userID)
	values, err := s.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return fmt.Errorf("revoke tokens: %w", err)
	}

	keys := make([]string, 0, len(values)+1)
	for _, v := range values {
		keys = append(keys, s.key(kind, v))
	}
	keys = append(keys, userKey)
	return s.client.Del(ctx, keys...).Err()
}

func (s *TokenStore) key(kind domain.OneTimeKind, value string) string {
	return fmt.Sprintf("onetime:%s:%s", kind, value)
}

func (s *TokenStore) userKey(kind domain.OneTimeKind, userID int64) string {
	return fmt.Sprintf("onetime:user:%s:%d", kind, userID)
}
