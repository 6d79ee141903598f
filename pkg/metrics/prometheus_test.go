package metrics

import (
	"fraud_report/internal/domain"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCollector_RecordBatch(t *testing.T) {
	m := NewMetricsCollector(nil)

	m.RecordBatch(10*time.Millisecond, domain.Summary{TotalTransactions: 5, FlaggedCount: 4, FraudRate: 0.8}, 0)
	m.RecordBatch(time.Millisecond, domain.Summary{}, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.batchesProcessed))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.transactionsScanned))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.transactionsFlagged))
}

func TestMetricsCollector_RuleCounters(t *testing.T) {
	m := NewMetricsCollector(nil)

	m.RecordRuleHit("highAmount")
	m.RecordRuleHit("highAmount")
	m.RecordRuleHit("rapidTransactions")
	m.RecordInvalidData("rapidTransactions")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ruleHits.WithLabelValues("highAmount")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ruleHits.WithLabelValues("rapidTransactions")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.invalidData.WithLabelValues("rapidTransactions")))
}
