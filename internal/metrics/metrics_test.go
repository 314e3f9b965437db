package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecord(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.AddCreditsPurchased(5)
	m.IncTracksCreated()
	m.IncTracksCreated()
	m.IncTrackRejection("insufficient_credit")
	m.IncProjectTransition(2)
	m.AddCreditsRefunded(0)
	m.AddCreditsRefunded(3)
	m.ObserveRequest("GET", "/api/projects", 200, 12*time.Millisecond)

	assert.Equal(t, 5.0, testutil.ToFloat64(m.creditsPurchased))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.tracksCreated))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.creditsRefunded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.trackRejections.WithLabelValues("insufficient_credit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.projectTransitions.WithLabelValues("2")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.AddCreditsPurchased(1)
		m.IncTracksCreated()
		m.IncTracksDeleted()
		m.IncTrackRejection("x")
		m.IncProjectTransition(1)
		m.IncPaymentFailure("declined")
		m.AddArchiveBytes(10)
		m.ObserveRequest("GET", "/", 200, time.Millisecond)
	})
}
