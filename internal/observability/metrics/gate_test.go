package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	g, err := NewGate(reg)
	require.NoError(t, err)

	g.Navigation(ResultProceed)
	g.Navigation(ResultProceed)
	g.Navigation(ResultRedirectLogin)
	g.SessionInvalidated(true)
	g.SessionInvalidated(false)
	g.StoreError("get", context.Canceled)

	assert.InDelta(t, 2, testutil.ToFloat64(g.navigations.WithLabelValues(ResultProceed)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(g.navigations.WithLabelValues(ResultRedirectLogin)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(g.invalidations.WithLabelValues("true")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(g.invalidations.WithLabelValues("false")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(g.storeErrors.WithLabelValues("get", "canceled")), 0)
}

func TestNewGate_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewGate(reg)
	require.NoError(t, err)
	second, err := NewGate(reg)
	require.NoError(t, err)

	second.Navigation(ResultRedirectHome)
	assert.InDelta(t, 1, testutil.ToFloat64(first.navigations.WithLabelValues(ResultRedirectHome)), 0)
}

func TestHTTP_MiddlewareLabelsByPattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	h, err := NewHTTP(reg)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(h.Middleware)
	r.Get("/company/{id}/edit", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, id := range []string{"1", "2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/company/"+id+"/edit", nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	}

	got := testutil.ToFloat64(h.requests.WithLabelValues(http.MethodGet, "/company/{id}/edit", "418"))
	assert.InDelta(t, 2, got, 0)
}

func TestNop(t *testing.T) {
	var rec GateRecorder = Nop{}
	rec.Navigation(ResultProceed)
	rec.SessionInvalidated(true)
	rec.StoreError("clear", errors.New("x"))
}
