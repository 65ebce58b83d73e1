package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/segmentation-fault/forum/internal/core/domain"
	"github.com/segmentation-fault/forum/internal/core/ports"
)

// LogSender "delivers" notifications by writing them to the log. The
// development server has no mail transport.
type LogSender struct {
	log zerolog.Logger
}

var _ ports.NotificationSender = (*LogSender)(nil)

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, n domain.Notification) error {
	s.log.Info().
		Str("notification_id", n.ID).
		Str("kind", string(n.Kind)).
		Str("to", n.To).
		Str("subject", n.Subject).
		Str("body", n.Body).
		Msg("notification sent")
	return nil
}
