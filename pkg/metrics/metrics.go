package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// EntitiesPublished counts entities published into each keyed service,
// labeled by service name and whether the publish was an add or an update.
var EntitiesPublished = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bondoffice_entities_published_total",
		Help: "Total number of entities published into keyed services",
	},
	[]string{"service", "event"},
)

// FanoutDuration records how long a full synchronous listener fan-out takes.
var FanoutDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "bondoffice_fanout_duration_seconds",
		Help:    "Duration of synchronous listener fan-out per publish",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"service"},
)

// ListenerFailures counts listener callbacks that returned an error and
// aborted the remainder of a fan-out.
var ListenerFailures = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bondoffice_listener_failures_total",
		Help: "Total number of listener callbacks that failed during fan-out",
	},
	[]string{"service"},
)

// HistoryWrites counts records persisted by the historical data sink.
var HistoryWrites = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bondoffice_history_writes_total",
		Help: "Total number of entities persisted by the historical sink",
	},
	[]string{"service"},
)

func init() {
	prometheus.MustRegister(EntitiesPublished, FanoutDuration)
	prometheus.MustRegister(ListenerFailures, HistoryWrites)
}
