package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the mixing service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	creditsPurchased   prometheus.Counter
	tracksCreated      prometheus.Counter
	tracksDeleted      prometheus.Counter
	creditsRefunded    prometheus.Counter
	trackRejections    *prometheus.CounterVec
	projectTransitions *prometheus.CounterVec
	paymentFailures    *prometheus.CounterVec
	archiveBytes       prometheus.Counter
	requestLatency     *prometheus.HistogramVec
}

// NewMetrics creates and registers all service metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		creditsPurchased: factory.NewCounter(prometheus.CounterOpts{
			Name: "mixing_credits_purchased_total",
			Help: "Total number of track credits bought",
		}),
		tracksCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "mixing_tracks_created_total",
			Help: "Total number of tracks created (one credit each)",
		}),
		tracksDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "mixing_tracks_deleted_total",
			Help: "Total number of tracks deleted by their owner",
		}),
		creditsRefunded: factory.NewCounter(prometheus.CounterOpts{
			Name: "mixing_credits_refunded_total",
			Help: "Total number of credits returned because tracks were removed",
		}),
		trackRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mixing_track_rejections_total",
			Help: "Track creations refused, by reason",
		}, []string{"reason"}),
		projectTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mixing_project_transitions_total",
			Help: "Project status changes, by new status",
		}, []string{"status"}),
		paymentFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mixing_payment_failures_total",
			Help: "Failed credit purchases, by kind",
		}, []string{"kind"}),
		archiveBytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "mixing_archive_bytes_total",
			Help: "Bytes streamed in project track archives",
		}),
		requestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mixing_http_request_duration_ms",
			Help:    "Latency of HTTP requests in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"method", "route", "status"}),
	}
}

// AddCreditsPurchased records bought credits.
func (m *Metrics) AddCreditsPurchased(n uint) {
	if m == nil {
		return
	}
	m.creditsPurchased.Add(float64(n))
}

// IncTracksCreated records one created track.
func (m *Metrics) IncTracksCreated() {
	if m == nil {
		return
	}
	m.tracksCreated.Inc()
}

// IncTracksDeleted records one deleted track.
func (m *Metrics) IncTracksDeleted() {
	if m == nil {
		return
	}
	m.tracksDeleted.Inc()
}

// AddCreditsRefunded records credits returned by deletions.
func (m *Metrics) AddCreditsRefunded(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.creditsRefunded.Add(float64(n))
}

// IncTrackRejection records a refused track creation.
func (m *Metrics) IncTrackRejection(reason string) {
	if m == nil {
		return
	}
	m.trackRejections.WithLabelValues(reason).Inc()
}

// IncProjectTransition records a status change.
func (m *Metrics) IncProjectTransition(status uint) {
	if m == nil {
		return
	}
	m.projectTransitions.WithLabelValues(strconv.FormatUint(uint64(status), 10)).Inc()
}

// IncPaymentFailure records a failed purchase.
func (m *Metrics) IncPaymentFailure(kind string) {
	if m == nil {
		return
	}
	m.paymentFailures.WithLabelValues(kind).Inc()
}

// AddArchiveBytes records bytes streamed in a zip download.
func (m *Metrics) AddArchiveBytes(n int64) {
	if m == nil {
		return
	}
	m.archiveBytes.Add(float64(n))
}

// ObserveRequest records the latency of one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestLatency.WithLabelValues(method, route, strconv.Itoa(status)).
		Observe(float64(elapsed.Microseconds()) / 1000.0)
}
