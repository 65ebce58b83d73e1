package queue

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/segmentation-fault/forum/internal/core/domain"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []domain.Notification
	fail bool
}

func (s *recordingSender) Send(_ context.Context, n domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("smtp down")
	}
	s.sent = append(s.sent, n)
	return nil
}

func (s *recordingSender) ids() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.sent))
	for _, n := range s.sent {
		out = append(out, n.ID)
	}
	return out
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(5, &recordingSender{}, zerolog.Nop(), nil)
	first := d.shardIndex("ada@example.com")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("ADA@example.com"); got != first {
			t.Fatalf("shard changed: %d vs %d", got, first)
		}
	}
	if first < 0 || first >= 5 {
		t.Fatalf("shard out of range: %d", first)
	}
}

func TestDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, &recordingSender{}, zerolog.Nop(), nil)
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}

func TestDispatcher_DeliversInOrderPerRecipient(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(3, sender, zerolog.Nop(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	for _, id := range []string{"a", "b", "c"} {
		if err := d.Notify(ctx, domain.Notification{ID: id, Kind: domain.NotifyWelcome, To: "ada@example.com"}); err != nil {
			t.Fatalf("notify %s: %v", id, err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(sender.ids()) < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	d.Wait()

	if got := strings.Join(sender.ids(), ""); got != "abc" {
		t.Fatalf("expected ordered delivery abc, got %q", got)
	}
}

func TestDispatcher_DrainsOnShutdown(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(1, sender, zerolog.Nop(), nil)

	ctx := context.Background()
	for _, id := range []string{"x", "y"} {
		if err := d.Notify(ctx, domain.Notification{ID: id, To: "bob@example.com"}); err != nil {
			t.Fatalf("notify: %v", err)
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	cancel()
	d.Start(runCtx)
	d.Wait()

	if got := strings.Join(sender.ids(), ""); got != "xy" {
		t.Fatalf("expected buffered notifications to be drained, got %q", got)
	}
}

func TestDispatcher_QueueFull(t *testing.T) {
	d := NewDispatcher(1, &recordingSender{}, zerolog.Nop(), nil)
	ctx := context.Background()
	for i := 0; i < channelBuffer; i++ {
		if err := d.Notify(ctx, domain.Notification{To: "c@example.com"}); err != nil {
			t.Fatalf("notify %d: %v", i, err)
		}
	}
	if err := d.Notify(ctx, domain.Notification{To: "c@example.com"}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
}

func TestDispatcher_CancelledContext(t *testing.T) {
	d := NewDispatcher(1, &recordingSender{}, zerolog.Nop(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := d.Notify(ctx, domain.Notification{To: "c@example.com"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDispatcher_LogsSendFailures(t *testing.T) {
	var buf bytes.Buffer
	d := NewDispatcher(1, &recordingSender{fail: true}, zerolog.New(&buf), nil)
	d.deliver(context.Background(), 0, domain.Notification{ID: "n1", Kind: domain.NotifyNewComment})

	if !strings.Contains(buf.String(), "notification delivery failed") || !strings.Contains(buf.String(), `"notification_id":"n1"`) {
		t.Fatalf("expected failure log, got %s", buf.String())
	}
}

func TestLogSender_Send(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSender(zerolog.New(&buf))
	err := s.Send(context.Background(), domain.Notification{ID: "n2", Kind: domain.NotifyWelcome, To: "ada@example.com", Subject: "Welcome to Segmentation Fault!"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	for _, want := range []string{`"to":"ada@example.com"`, `"subject":"Welcome to Segmentation Fault!"`} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("log missing %s: %s", want, buf.String())
		}
	}
}
