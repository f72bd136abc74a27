package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Queue metrics
	NotificationsScheduled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "aquabuddy_notifications_scheduled_total",
			Help: "Total number of notifications queued for later delivery",
		},
	)

	NotificationsDelivered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aquabuddy_notifications_delivered_total",
			Help: "Total number of push sends by source and result",
		},
		[]string{"source", "result"},
	)

	NotificationsCleaned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "aquabuddy_notifications_cleaned_total",
			Help: "Total number of sent notifications removed by cleanup",
		},
	)

	// Task metrics
	TaskRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aquabuddy_task_runs_total",
			Help: "Total number of periodic task runs by task and outcome",
		},
		[]string{"task", "outcome"},
	)

	TaskDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aquabuddy_task_duration_seconds",
			Help:    "Periodic task run duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"task"},
	)

	// API metrics
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aquabuddy_api_requests_total",
			Help: "Total number of API requests by path and status",
		},
		[]string{"path", "status"},
	)
)

func init() {
	prometheus.MustRegister(NotificationsScheduled)
	prometheus.MustRegister(NotificationsDelivered)
	prometheus.MustRegister(NotificationsCleaned)
	prometheus.MustRegister(TaskRuns)
	prometheus.MustRegister(TaskDuration)
	prometheus.MustRegister(APIRequestsTotal)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer measures a single operation.
type Timer struct {
	start time.Time
}

func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// ObserveDuration records the elapsed time into the histogram for label.
func (t *Timer) ObserveDuration(h *prometheus.HistogramVec, label string) {
	h.WithLabelValues(label).Observe(t.Duration().Seconds())
}
