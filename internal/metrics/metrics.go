package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every ytscout collector. It is private to the process so
// the textfile dump only contains our own series.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// YouTube Data API metrics
	APIRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ytscout_api_requests_total",
			Help: "Total number of YouTube Data API requests",
		},
		[]string{"endpoint", "status"},
	)

	APIRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ytscout_api_request_duration_seconds",
			Help:    "YouTube Data API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	QuotaUnitsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ytscout_quota_units_total",
			Help: "Estimated YouTube Data API quota units spent",
		},
		[]string{"endpoint"},
	)

	RowsCollectedTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ytscout_rows_collected_total",
			Help: "Total number of flattened result rows",
		},
		[]string{"endpoint"},
	)

	// Audio and transcription metrics
	AudioDownloadsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ytscout_audio_downloads_total",
			Help: "Total number of audio stream downloads",
		},
		[]string{"itag", "status"},
	)

	AudioBytesTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "ytscout_audio_bytes_total",
			Help: "Total number of audio bytes written to disk",
		},
	)

	TranscriptionsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ytscout_transcriptions_total",
			Help: "Total number of transcribed audio files",
		},
		[]string{"model", "status"},
	)
)

// Quota cost per request, from the Data API quota calculator.
var quotaCost = map[string]float64{
	"search":         100,
	"commentThreads": 1,
	"videos":         1,
	"playlistItems":  1,
}

// ObserveAPICall records one Data API request. Failed requests still count
// against quota.
func ObserveAPICall(endpoint string, started time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	APIRequestsTotal.WithLabelValues(endpoint, status).Inc()
	APIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(started).Seconds())
	if cost, ok := quotaCost[endpoint]; ok {
		QuotaUnitsTotal.WithLabelValues(endpoint).Add(cost)
	}
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
