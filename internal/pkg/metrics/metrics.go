// Package metrics exposes Prometheus collectors for the engine's hot
// paths: commands processed, journal append latency, actor mailbox depth,
// and dispute index size.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CommandsProcessedTotal counts every command the engine finishes
	// processing, partitioned by kind and outcome ("ok" or "error").
	CommandsProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_commands_processed_total",
			Help: "Total number of commands processed by the engine, by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	// JournalAppendDuration observes how long Journal.Append takes,
	// including the dedup-hit fast path.
	JournalAppendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "payment_journal_append_duration_seconds",
			Help:    "Duration of Journal.Append calls in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)

	// JournalHighestSequence tracks the journal's current sequence
	// counter, a proxy for total events appended.
	JournalHighestSequence = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "payment_journal_highest_sequence",
			Help: "Highest sequence number currently assigned by the journal.",
		},
	)

	// DisputeIndexSize tracks how many transactions are currently marked
	// disputed.
	DisputeIndexSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "payment_dispute_index_size",
			Help: "Current number of transactions marked as disputed.",
		},
	)

	// ActorMailboxDepth tracks the number of buffered-but-unprocessed
	// messages per client actor at the moment a new message is enqueued.
	ActorMailboxDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "payment_actor_mailbox_depth",
			Help: "Number of buffered messages in a client actor's mailbox.",
		},
		[]string{"client_id"},
	)

	// RegistryClientsTotal tracks how many distinct client actors a
	// registry has spawned.
	RegistryClientsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "payment_registry_clients_total",
			Help: "Number of client actors currently tracked by the registry.",
		},
	)

	// ActorCallTimeoutsTotal counts ProcessCommand/GetState calls that hit
	// their deadline.
	ActorCallTimeoutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_actor_call_timeouts_total",
			Help: "Total number of actor calls that exceeded their deadline, by call kind.",
		},
		[]string{"call"},
	)
)

// RecordCommand records the terminal outcome of processing a command.
func RecordCommand(kind, outcome string) {
	CommandsProcessedTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordActorCallTimeout records a timed-out actor call of the given kind
// ("process_command" or "get_state").
func RecordActorCallTimeout(call string) {
	ActorCallTimeoutsTotal.WithLabelValues(call).Inc()
}
