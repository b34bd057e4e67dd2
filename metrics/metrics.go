// Package metrics exposes Prometheus instruments for the map hosts. The
// core packages never touch these; hosts record around their calls.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "netmap_mutations_total",
		Help: "Total number of map mutations applied, labelled by operation.",
	}, []string{"op"})

	SessionEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "netmap_session_events_total",
		Help: "Total number of editing events fed to the session, labelled by type.",
	}, []string{"type"})

	SessionTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "netmap_session_transitions_total",
		Help: "Total number of session state outcomes after an event, labelled by state.",
	}, []string{"state"})

	DocumentReloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "netmap_document_reloads_total",
		Help: "Total number of map document reloads from disk.",
	})

	RenderedPathPoints = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "netmap_rendered_path_points",
		Help:    "Point counts of rendered link paths.",
		Buckets: []float64{2, 8, 15, 29, 43, 85, 170, 400},
	})

	RequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "netmap_http_request_duration_ms",
		Help:    "HTTP request latency in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})

	MapDevices = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "netmap_devices",
		Help: "Current number of devices on the map.",
	})

	MapLinks = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "netmap_links",
		Help: "Current number of links on the map.",
	})
)
