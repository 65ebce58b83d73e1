// Package metrics defines the Prometheus metrics of the access layer. All
// metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "segfault"

// ClientRequestsTotal counts requests issued by the transport.
// Labels:
//   - method: HTTP method
//   - resource: first path segment (auth, users, posts, comments)
//   - code: response status code, or "error" when no response arrived
var ClientRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "requests_total",
		Help:      "Total number of API requests issued by the client.",
	},
	[]string{"method", "resource", "code"},
)

// ClientRequestDuration measures round-trip latency per resource.
var ClientRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "request_duration_seconds",
		Help:      "Round-trip duration of API requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "resource"},
)

// ClientRedirectsTotal counts unauthorized responses that sent the session
// back to the login screen.
var ClientRedirectsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "login_redirects_total",
		Help:      "Total number of redirects to the login screen.",
	},
)

// ClientFanOutTotal counts vote sub-requests issued while assembling posts
// and comments.
// Label:
//   - kind: "votes" (aggregate count) or "vote" (current user's vote)
var ClientFanOutTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "fanout_requests_total",
		Help:      "Total number of vote sub-requests issued by conversions.",
	},
	[]string{"kind"},
)
