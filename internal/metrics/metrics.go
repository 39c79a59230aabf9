package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StateSaves counts bond state writes by outcome
	StateSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bond_state_saves_total",
			Help: "Bond state save attempts",
		},
		[]string{"status"},
	)

	// StateLoads counts bond state reads by the surface that requested them
	StateLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bond_state_loads_total",
			Help: "Bond state loads from shared storage",
		},
		[]string{"source"},
	)

	// StorageErrors counts storage failures that were degraded to defaults
	StorageErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bond_storage_errors_total",
			Help: "Shared storage errors by key and operation",
		},
		[]string{"key", "op"},
	)

	// TimelineRequests counts passive-display provider calls
	TimelineRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "widget_timeline_requests_total",
			Help: "Widget provider requests",
		},
		[]string{"kind"},
	)
)
