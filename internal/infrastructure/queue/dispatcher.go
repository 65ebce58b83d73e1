package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/segmentation-fault/forum/internal/core/domain"
	"github.com/segmentation-fault/forum/internal/core/ports"
	"github.com/segmentation-fault/forum/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// ErrQueueFull is returned by Notify when the recipient's worker channel has
// no room left.
var ErrQueueFull = errors.New("notification queue full")

// Dispatcher delivers notifications on a fixed set of workers. Each
// recipient hashes to one worker, so mail to the same address keeps its
// order.
type Dispatcher struct {
	workers []chan domain.Notification
	depths  []prometheus.Gauge
	sender  ports.NotificationSender
	log     zerolog.Logger
	metrics *metrics.Server
	wg      sync.WaitGroup
}

var _ ports.Notifier = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used. m may be nil.
func NewDispatcher(numWorkers int, sender ports.NotificationSender, log zerolog.Logger, m *metrics.Server) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.Notification, numWorkers),
		depths:  make([]prometheus.Gauge, numWorkers),
		sender:  sender,
		log:     log,
		metrics: m,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Notification, channelBuffer)
		d.depths[i] = m.QueueDepth(i)
	}
	return d
}

// Start launches the workers. They drain their channels and stop once ctx
// is cancelled; Wait blocks until they have.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Notify queues n on the worker owning its recipient. It never blocks:
// a full channel drops the notification and returns ErrQueueFull.
func (d *Dispatcher) Notify(ctx context.Context, n domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	idx := d.shardIndex(n.To)
	select {
	case d.workers[idx] <- n:
		d.depths[idx].Inc()
		return nil
	default:
		d.metrics.Notification(n.Kind, metrics.ResultDropped)
		return ErrQueueFull
	}
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(recipient)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Notification) {
	defer d.wg.Done()
	depth := d.depths[id]
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch, depth)
			return
		case n := <-ch:
			depth.Dec()
			d.deliver(ctx, id, n)
		}
	}
}

// drain delivers whatever is still buffered once shutdown has begun.
func (d *Dispatcher) drain(id int, ch <-chan domain.Notification, depth interface{ Dec() }) {
	for {
		select {
		case n := <-ch:
			depth.Dec()
			d.deliver(context.Background(), id, n)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, id int, n domain.Notification) {
	if err := d.sender.Send(ctx, n); err != nil {
		d.metrics.Notification(n.Kind, metrics.ResultError)
		d.log.Error().Err(err).
			Str("notification_id", n.ID).
			Str("kind", string(n.Kind)).
			Int("worker_id", id).
			Msg("notification delivery failed")
		return
	}
	d.metrics.Notification(n.Kind, metrics.ResultSent)
}
