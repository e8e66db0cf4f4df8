package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.GameStarted("classic", 8)
	m.GameStarted("classic", 8)
	m.Click(OutcomePlaced)
	m.Click(OutcomeRejected)
	m.Click(OutcomeRejected)
	m.Win(8)
	m.DailySolved()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.gamesStarted.WithLabelValues("classic", "8")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.clicks.WithLabelValues(OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.wins.WithLabelValues("8")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dailySolves))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.Win(5)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `queens_wins_total{size="5"} 1`)
}

func TestRegistriesAreIndependent(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
