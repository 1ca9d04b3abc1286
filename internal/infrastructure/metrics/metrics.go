package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics of the service
type Metrics struct {
	// Matching engine
	InterestsTotal   prometheus.Counter
	PromotionsTotal  prometheus.Counter
	BlocksTotal      prometheus.Counter
	MatchingErrors   *prometheus.CounterVec
	ConflictRetries  *prometheus.CounterVec
	MatchingDuration *prometheus.HistogramVec

	// Chat
	MessagesAppended prometheus.Counter
	MessagesRead     prometheus.Counter
	ChatErrors       *prometheus.CounterVec
	AppendDuration   prometheus.Histogram

	// Events
	EventsCreated prometheus.Counter
	EventsClosed  *prometheus.CounterVec

	// Kafka
	KafkaMessagesProduced prometheus.Counter
	KafkaProduceErrors    *prometheus.CounterVec
	KafkaProduceDuration  prometheus.Histogram

	// Bulk load
	ImportedRows   *prometheus.CounterVec
	ImportFailures *prometheus.CounterVec
}

var (
	DefaultMetrics *Metrics
	once           sync.Once
)

// GetDefaultMetrics returns the singleton metrics instance
func GetDefaultMetrics() *Metrics {
	once.Do(func() {
		DefaultMetrics = NewMetrics()
	})
	return DefaultMetrics
}

func init() {
	GetDefaultMetrics()
}

// NewMetrics registers every collector with the default registry.
// Call it once per process; use GetDefaultMetrics everywhere else.
func NewMetrics() *Metrics {
	return &Metrics{
		InterestsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clique_match_interests_total",
			Help: "Total number of match records created by expressed interest",
		}),
		PromotionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clique_match_promotions_total",
			Help: "Total number of records promoted to a mutual match",
		}),
		BlocksTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clique_match_blocks_total",
			Help: "Total number of blocked channels",
		}),
		MatchingErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clique_match_errors_total",
				Help: "Total number of failed matching operations",
			},
			[]string{"operation", "error_type"},
		),
		ConflictRetries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clique_conflict_retries_total",
				Help: "Total number of transactions retried after a write conflict",
			},
			[]string{"operation"},
		),
		MatchingDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "clique_match_operation_duration_seconds",
				Help:    "Duration of matching operations in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
			},
			[]string{"operation"},
		),

		MessagesAppended: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clique_chat_messages_appended_total",
			Help: "Total number of accepted chat messages",
		}),
		MessagesRead: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clique_chat_messages_read_total",
			Help: "Total number of chat messages returned to readers",
		}),
		ChatErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clique_chat_errors_total",
				Help: "Total number of failed chat operations",
			},
			[]string{"operation", "error_type"},
		),
		AppendDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "clique_chat_append_duration_seconds",
			Help:    "Duration of chat appends in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),

		EventsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clique_events_created_total",
			Help: "Total number of created events",
		}),
		EventsClosed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clique_events_closed_total",
				Help: "Total number of closed events",
			},
			[]string{"reason"},
		),

		KafkaMessagesProduced: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clique_kafka_messages_produced_total",
			Help: "Total number of messages produced to Kafka",
		}),
		KafkaProduceErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clique_kafka_produce_errors_total",
				Help: "Total number of Kafka produce errors",
			},
			[]string{"error_type"},
		),
		KafkaProduceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "clique_kafka_produce_duration_seconds",
			Help:    "Duration of Kafka produce calls in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),

		ImportedRows: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clique_import_rows_total",
				Help: "Total number of rows committed by bulk loads",
			},
			[]string{"table"},
		),
		ImportFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clique_import_failures_total",
				Help: "Total number of rolled back bulk loads",
			},
			[]string{"table"},
		),
	}
}

// RecordInterest records a newly created pending record
func (m *Metrics) RecordInterest() {
	m.InterestsTotal.Inc()
}

// RecordPromotion records a record becoming mutual
func (m *Metrics) RecordPromotion() {
	m.PromotionsTotal.Inc()
}

// RecordBlock records a channel entering the blocked state
func (m *Metrics) RecordBlock() {
	m.BlocksTotal.Inc()
}

// RecordMatchingError records a failed matching operation
func (m *Metrics) RecordMatchingError(operation, errorType string) {
	if errorType == "" {
		errorType = "unknown"
	}
	m.MatchingErrors.WithLabelValues(operation, errorType).Inc()
}

// RecordConflictRetry records one retried transaction
func (m *Metrics) RecordConflictRetry(operation string) {
	m.ConflictRetries.WithLabelValues(operation).Inc()
}

// ObserveMatching records the duration of a matching operation
func (m *Metrics) ObserveMatching(operation string, seconds float64) {
	m.MatchingDuration.WithLabelValues(operation).Observe(seconds)
}

// RecordMessage records an accepted chat message with its append duration
func (m *Metrics) RecordMessage(seconds float64) {
	m.MessagesAppended.Inc()
	m.AppendDuration.Observe(seconds)
}

// RecordMessagesRead adds n to the read counter
func (m *Metrics) RecordMessagesRead(n int) {
	if n > 0 {
		m.MessagesRead.Add(float64(n))
	}
}

// RecordChatError records a failed chat operation
func (m *Metrics) RecordChatError(operation, errorType string) {
	if errorType == "" {
		errorType = "unknown"
	}
	m.ChatErrors.WithLabelValues(operation, errorType).Inc()
}

// RecordEventCreated records a new event
func (m *Metrics) RecordEventCreated() {
	m.EventsCreated.Inc()
}

// RecordEventClosed records a closure; reason is "initiator" or "policy"
func (m *Metrics) RecordEventClosed(reason string) {
	m.EventsClosed.WithLabelValues(reason).Inc()
}

// RecordKafkaMessage records a Kafka message production with duration
func (m *Metrics) RecordKafkaMessage(duration float64) {
	m.KafkaMessagesProduced.Inc()
	m.KafkaProduceDuration.Observe(duration)
}

// RecordKafkaError records a Kafka production error with error type
func (m *Metrics) RecordKafkaError(errorType string) {
	if errorType == "" {
		errorType = "unknown"
	}
	m.KafkaProduceErrors.WithLabelValues(errorType).Inc()
}

// RecordImport records a committed bulk load
func (m *Metrics) RecordImport(table string, rows int) {
	if rows > 0 {
		m.ImportedRows.WithLabelValues(table).Add(float64(rows))
	}
}

// RecordImportFailure records a rolled back bulk load
func (m *Metrics) RecordImportFailure(table string) {
	m.ImportFailures.WithLabelValues(table).Inc()
}
