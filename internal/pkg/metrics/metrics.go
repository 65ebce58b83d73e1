// Package metrics holds the Prometheus collectors of the development server.
// Services and the notification dispatcher receive a *Server; a nil *Server
// records nothing.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/segmentation-fault/forum/internal/core/domain"
)

const (
	namespace = "segfault"
	subsystem = "server"
)

// Notification outcomes.
const (
	ResultSent    = "sent"
	ResultError   = "error"
	ResultDropped = "dropped"
)

// Server groups the server-side collectors.
type Server struct {
	signUps       prometheus.Counter
	votesCast     *prometheus.CounterVec
	notifications *prometheus.CounterVec
	queueDepth    *prometheus.GaugeVec
}

// NewServer builds the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewServer(reg prometheus.Registerer) *Server {
	f := promauto.With(reg)
	return &Server{
		signUps: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "signups_total",
			Help:      "Total number of accounts created.",
		}),
		// Labels:
		//   - target: "post" or "comment"
		//   - type: "true", "false" or "null"
		votesCast: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "votes_cast_total",
			Help:      "Total number of votes submitted, by target and type.",
		}, []string{"target", "type"}),
		// Labels:
		//   - kind: welcome, password_reset, new_comment
		//   - result: sent, error or dropped
		notifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "notifications_total",
			Help:      "Total number of notifications processed.",
		}, []string{"kind", "result"}),
		queueDepth: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "notification_queue_depth",
			Help:      "Current number of notifications pending in each worker channel.",
		}, []string{"worker_id"}),
	}
}

// SignUp counts one created account.
func (m *Server) SignUp() {
	if m == nil {
		return
	}
	m.signUps.Inc()
}

// VoteCast counts one stored vote.
func (m *Server) VoteCast(target domain.VoteTarget, vote domain.Vote) {
	if m == nil {
		return
	}
	m.votesCast.WithLabelValues(string(target), vote.String()).Inc()
}

// Notification counts one notification outcome.
func (m *Server) Notification(kind domain.NotificationKind, result string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(string(kind), result).Inc()
}

// QueueDepth returns the pending-notification gauge of one worker. A nil
// Server hands out a detached gauge.
func (m *Server) QueueDepth(worker int) prometheus.Gauge {
	if m == nil {
		return prometheus.NewGauge(prometheus.GaugeOpts{Name: "notification_queue_depth"})
	}
	return m.queueDepth.WithLabelValues(strconv.Itoa(worker))
}
