package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	sessionsLoggedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "traininglog",
		Subsystem: "sessions",
		Name:      "logged_total",
		Help:      "Number of training sessions logged, labeled by activity.",
	}, []string{"activity"})

	lastSessionGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "traininglog",
		Subsystem: "sessions",
		Name:      "last_logged_timestamp_seconds",
		Help:      "Unix timestamp of the most recent session persisted to Postgres.",
	})
)

func init() {
	prometheus.MustRegister(sessionsLoggedCounter, lastSessionGauge)
}

// RecordSessionLogged updates the session counters and the persistence
// watermark gauge.
func RecordSessionLogged(activity string, ts time.Time) {
	sessionsLoggedCounter.WithLabelValues(activity).Inc()
	if ts.IsZero() {
		return
	}
	lastSessionGauge.Set(float64(ts.Unix()))
}
