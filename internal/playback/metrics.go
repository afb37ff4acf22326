package playback

import "github.com/prometheus/client_golang/prometheus"

var (
	statusUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "player_status_updates_total", Help: "Status callbacks received"},
		[]string{"result"},
	)
	phraseSeeks = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "player_phrase_seeks_total", Help: "Phrase seeks issued"},
		[]string{"direction"},
	)
	loadFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "player_load_failures_total", Help: "Audio sources that failed to load"},
	)
	loadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "player_load_duration_seconds",
			Help:    "Time to acquire a playback resource",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
		},
	)
	completions = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "player_completions_total", Help: "Recordings played to the end"},
	)
)

func RegisterMetrics() {
	prometheus.MustRegister(statusUpdates, phraseSeeks, loadFailures, loadDuration, completions)
}
