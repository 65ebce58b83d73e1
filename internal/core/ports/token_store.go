package ports

import (
	"context"

	"github.com/segmentation-fault/forum/internal/core/domain"
)

// OneTimeTokenStore keeps email verification and password reset tokens.
type OneTimeTokenStore interface {
	Issue(ctx context.Context, token domain.OneTimeToken) error
	// Redeem consumes a token of the given kind. Unknown, expired or
	// mismatched tokens yield domain.ErrInvalidToken.
	Redeem(ctx context.Context, value string, kind domain.OneTimeKind) (domain.OneTimeToken, error)
	// Revoke drops every outstanding token of kind held by userID.
	Revoke(ctx context.Context, userID int64, kind domain.OneTimeKind) error
}
