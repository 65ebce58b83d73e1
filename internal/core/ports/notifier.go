package ports

import (
	"context"

	"github.com/segmentation-fault/forum/internal/core/domain"
)

// Notifier queues an outgoing notification without waiting for delivery.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

// NotificationSender delivers one notification.
type NotificationSender interface {
	Send(ctx context.Context, n domain.Notification) error
}
