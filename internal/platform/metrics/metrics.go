// Package metrics wraps a private Prometheus registry with the counters the
// tracker and the insight host report into.
package metrics

import (
	"fmt"
	"io"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

type Collector struct {
	registry *prometheus.Registry

	actionsDispatched    *prometheus.CounterVec
	persistWrites        *prometheus.CounterVec
	persistFailures      *prometheus.CounterVec
	achievementsUnlocked *prometheus.CounterVec
	sessionsRecorded     *prometheus.CounterVec
	providerCalls        *prometheus.CounterVec
}

func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "fivepillars"
	}
	c := &Collector{registry: prometheus.NewRegistry()}

	c.actionsDispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "actions_total",
			Help:      "Actions dispatched through the state store",
		},
		[]string{"action"},
	)
	c.persistWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "persist",
			Name:      "writes_total",
			Help:      "Completed storage writes and deletes per key",
		},
		[]string{"key", "op"},
	)
	c.persistFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "persist",
			Name:      "failures_total",
			Help:      "Failed storage operations per key",
		},
		[]string{"key", "op"},
	)
	c.achievementsUnlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "achievements",
			Name:      "unlocked_total",
			Help:      "Achievements unlocked by rarity",
		},
		[]string{"rarity"},
	)
	c.sessionsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "recorded_total",
			Help:      "Sessions recorded by pillar",
		},
		[]string{"pillar"},
	)
	c.providerCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "insight",
			Name:      "provider_calls_total",
			Help:      "Insight provider invocations by result",
		},
		[]string{"provider", "result"},
	)

	c.registry.MustRegister(
		c.actionsDispatched,
		c.persistWrites,
		c.persistFailures,
		c.achievementsUnlocked,
		c.sessionsRecorded,
		c.providerCalls,
	)
	return c
}

// nil receivers are allowed so components can run without metrics.

func (c *Collector) RecordAction(action string) {
	if c == nil {
		return
	}
	c.actionsDispatched.WithLabelValues(action).Inc()
}

func (c *Collector) RecordWrite(key, op string, err error) {
	if c == nil {
		return
	}
	if err != nil {
		c.persistFailures.WithLabelValues(key, op).Inc()
		return
	}
	c.persistWrites.WithLabelValues(key, op).Inc()
}

func (c *Collector) RecordAchievement(rarity string) {
	if c == nil {
		return
	}
	c.achievementsUnlocked.WithLabelValues(rarity).Inc()
}

func (c *Collector) RecordSession(pillar string) {
	if c == nil {
		return
	}
	c.sessionsRecorded.WithLabelValues(pillar).Inc()
}

func (c *Collector) RecordProviderCall(provider string, err error) {
	if c == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.providerCalls.WithLabelValues(provider, result).Inc()
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WriteText dumps every family in the Prometheus text format, sorted by name.
func (c *Collector) WriteText(w io.Writer) error {
	families, err := c.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	sort.Slice(families, func(i, j int) bool { return families[i].GetName() < families[j].GetName() })
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return fmt.Errorf("encode %s: %w", family.GetName(), err)
		}
	}
	return nil
}
