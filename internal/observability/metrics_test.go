package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(entriesCompleted.WithLabelValues("water"))
	RecordCompletion("water")
	RecordCompletion("water")
	assert.Equal(t, before+2, testutil.ToFloat64(entriesCompleted.WithLabelValues("water")))

	before = testutil.ToFloat64(logsRejected.WithLabelValues("cooldown"))
	RecordRejection("cooldown")
	assert.Equal(t, before+1, testutil.ToFloat64(logsRejected.WithLabelValues("cooldown")))

	before = testutil.ToFloat64(dailyResets)
	RecordDailyReset()
	assert.Equal(t, before+1, testutil.ToFloat64(dailyResets))
}

func TestGoalsInCooldownGauge(t *testing.T) {
	SetGoalsInCooldown(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(goalsInCooldown))
	SetGoalsInCooldown(0)
	assert.Equal(t, 0.0, testutil.ToFloat64(goalsInCooldown))
}
