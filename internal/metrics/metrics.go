package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_probes_total",
			Help: "Total number of health probes by outcome",
		},
		[]string{"outcome"},
	)

	FetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_fetches_total",
			Help: "Total number of content fetches by outcome",
		},
		[]string{"outcome"},
	)

	ItemsIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_items_ingested_total",
			Help: "Total number of content items handed to the draft pipeline",
		},
	)

	InflightOperations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ingest_operations_inflight",
			Help: "Number of probe/fetch operations currently running",
		},
	)

	MessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_messages_published_total",
			Help: "Total number of draft queue messages published",
		},
		[]string{"status"},
	)
)
