package metrics

import (
	"bytes"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounts(t *testing.T) {
	t.Parallel()
	c := NewCollector("test")

	c.RecordAction("ADD_SESSION")
	c.RecordAction("ADD_SESSION")
	c.RecordWrite("sessions", "put", nil)
	c.RecordWrite("sessions", "put", errors.New("boom"))
	c.RecordAchievement("rare")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.actionsDispatched.WithLabelValues("ADD_SESSION")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.persistWrites.WithLabelValues("sessions", "put")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.persistFailures.WithLabelValues("sessions", "put")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.achievementsUnlocked.WithLabelValues("rare")))
}

func TestNilCollectorIsSafe(t *testing.T) {
	t.Parallel()
	var c *Collector
	c.RecordAction("x")
	c.RecordWrite("k", "put", nil)
	c.RecordProviderCall("p", nil)
}

func TestWriteText(t *testing.T) {
	t.Parallel()
	c := NewCollector("")
	c.RecordSession("mind")

	var buf bytes.Buffer
	require.NoError(t, c.WriteText(&buf))
	assert.Contains(t, buf.String(), `fivepillars_sessions_recorded_total{pillar="mind"} 1`)
}
