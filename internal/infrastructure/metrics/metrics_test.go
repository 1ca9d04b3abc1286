package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGetDefaultMetrics_Singleton(t *testing.T) {
	assert.Same(t, GetDefaultMetrics(), GetDefaultMetrics())
	assert.Same(t, DefaultMetrics, GetDefaultMetrics())
}

// TestMetrics_RecordPromotion checks the counter moves by one per call
func TestMetrics_RecordPromotion(t *testing.T) {
	before := testutil.ToFloat64(DefaultMetrics.PromotionsTotal)
	DefaultMetrics.RecordPromotion()
	assert.Equal(t, before+1, testutil.ToFloat64(DefaultMetrics.PromotionsTotal))
}

func TestMetrics_RecordMatchingError(t *testing.T) {
	DefaultMetrics.RecordMatchingError("express_interest", "")
	got := testutil.ToFloat64(DefaultMetrics.MatchingErrors.WithLabelValues("express_interest", "unknown"))
	assert.GreaterOrEqual(t, got, 1.0)
}

func TestMetrics_RecordMessagesRead(t *testing.T) {
	before := testutil.ToFloat64(DefaultMetrics.MessagesRead)
	DefaultMetrics.RecordMessagesRead(3)
	DefaultMetrics.RecordMessagesRead(0)
	DefaultMetrics.RecordMessagesRead(-2)
	assert.Equal(t, before+3, testutil.ToFloat64(DefaultMetrics.MessagesRead))
}

func TestMetrics_RecordImport(t *testing.T) {
	before := testutil.ToFloat64(DefaultMetrics.ImportedRows.WithLabelValues("users"))
	DefaultMetrics.RecordImport("users", 5)
	DefaultMetrics.RecordImportFailure("users")
	assert.Equal(t, before+5, testutil.ToFloat64(DefaultMetrics.ImportedRows.WithLabelValues("users")))
}

// TestMetrics_NoPanics exercises the remaining recorders
func TestMetrics_NoPanics(t *testing.T) {
	assert.NotPanics(t, func() {
		DefaultMetrics.RecordInterest()
		DefaultMetrics.RecordBlock()
		DefaultMetrics.RecordConflictRetry("reciprocate")
		DefaultMetrics.ObserveMatching("block", 0.01)
		DefaultMetrics.RecordMessage(0.002)
		DefaultMetrics.RecordChatError("append", "blocked")
		DefaultMetrics.RecordEventCreated()
		DefaultMetrics.RecordEventClosed("policy")
		DefaultMetrics.RecordKafkaMessage(0.01)
		DefaultMetrics.RecordKafkaError("")
	})
}
