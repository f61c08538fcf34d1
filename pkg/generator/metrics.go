package generator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	generateDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ttgen_generate_duration_seconds",
			Help:    "Duration of a complete generation run in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
	)

	generateTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ttgen_generate_total",
			Help: "Total number of generation runs",
		},
		[]string{"status"}, // success, error or canceled
	)

	tablesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ttgen_tables_generated_total",
			Help: "Total number of precision tables generated",
		},
		[]string{"fallback"}, // true or false
	)

	filesWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ttgen_files_written_total",
			Help: "Total number of files written",
		},
	)
)
