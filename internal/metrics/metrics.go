// SPDX-License-Identifier: EPL-2.0

// Package metrics wires the engine's drop and exhaustion events into
// Prometheus collectors, for hosts that want to scrape engine health
// alongside everything else in a process.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics implements transport.DropObserver and engine.PoolObserver,
// recording every drop/exhaustion event as a Prometheus counter.
type Metrics struct {
	commandsDropped      prometheus.Counter
	notificationsDropped prometheus.Counter
	gcDropped            prometheus.Counter
	poolExhausted        prometheus.Counter
}

// New registers the engine's counters against reg. Pass
// prometheus.NewRegistry() for an isolated registry, or
// prometheus.DefaultRegisterer to join the process-wide default.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		commandsDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "audiograph",
			Subsystem: "transport",
			Name:      "commands_dropped_total",
			Help:      "Commands dropped because the command queue was full.",
		}),
		notificationsDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "audiograph",
			Subsystem: "transport",
			Name:      "notifications_dropped_total",
			Help:      "Notifications dropped because the notification queue was full.",
		}),
		gcDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "audiograph",
			Subsystem: "transport",
			Name:      "gc_dropped_total",
			Help:      "Retired objects dropped because the GC queue was full.",
		}),
		poolExhausted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "audiograph",
			Subsystem: "engine",
			Name:      "buffer_pool_exhausted_total",
			Help:      "Times a buffer pool acquisition failed because the free list was empty.",
		}),
	}
}

// CommandDropped implements transport.DropObserver.
func (m *Metrics) CommandDropped() { m.commandsDropped.Inc() }

// NotificationDropped implements transport.DropObserver.
func (m *Metrics) NotificationDropped() { m.notificationsDropped.Inc() }

// GCDropped implements transport.DropObserver.
func (m *Metrics) GCDropped() { m.gcDropped.Inc() }

// PoolExhausted implements engine.PoolObserver.
func (m *Metrics) PoolExhausted() { m.poolExhausted.Inc() }
