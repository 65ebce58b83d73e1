package memory

import (
	"context"
	"sync"
	"time"

	"github.com/segmentation-fault/forum/internal/core/domain"
	"github.com/segmentation-fault/forum/internal/core/ports"
)

// TokenStore implements ports.OneTimeTokenStore in memory.
type TokenStore struct {
	mu     sync.Mutex
	now    func() time.Time
	tokens map[string]domain.OneTimeToken
}

var _ ports.OneTimeTokenStore = (*TokenStore)(nil)

func NewTokenStore() *TokenStore {
	return &TokenStore{
		now:    time.Now,
		tokens: make(map[string]domain.OneTimeToken),
	}
}

func (s *TokenStore) Issue(_ context.Context, token domain.OneTimeToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token.Value] = token
	return nil
}

func (s *TokenStore) Redeem(_ context.Context, value string, kind domain.OneTimeKind) (domain.OneTimeToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tokens[value]
	if !ok || t.Kind != kind {
		return domain.OneTimeToken{}, domain.ErrInvalidToken
	}
	delete(s.tokens, value)
	if !t.Expires.IsZero() && s.now().After(t.Expires) {
		return domain.OneTimeToken{}, domain.ErrInvalidToken
	}
	return t, nil
}

func (s *TokenStore) Revoke(_ context.Context, userID int64, kind domain.OneTimeKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for v, t := range s.tokens {
		if t.UserID == userID && t.Kind == kind {
			delete(s.tokens, v)
		}
	}
	return nil
}
