package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/tui-idle/internal/bignum"
	"github.com/vovakirdan/tui-idle/internal/core"
)

func TestObserveEvents(t *testing.T) {
	const game = "observe-events"
	ObserveEvents(game, []core.Event{
		{Kind: core.EventPurchase, Track: "a", Levels: 7},
		{Kind: core.EventMilestone, Track: "a", Level: 10},
		{Kind: core.EventPurchase, Track: "b", Levels: 1},
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(PurchasesTotal.WithLabelValues(game)))
	assert.Equal(t, 8.0, testutil.ToFloat64(LevelsBoughtTotal.WithLabelValues(game)))
	assert.Equal(t, 1.0, testutil.ToFloat64(MilestonesTotal.WithLabelValues(game)))
}

func TestObserveOffline(t *testing.T) {
	const game = "observe-offline"
	ObserveOffline(game, core.OfflineReport{Elapsed: time.Hour, Gain: bignum.Zero})
	assert.Equal(t, 0.0, testutil.ToFloat64(OfflineApplicationsTotal.WithLabelValues(game)))

	ObserveOffline(game, core.OfflineReport{Elapsed: 2 * time.Hour, Credited: time.Hour, Gain: bignum.FromInt(5)})
	assert.Equal(t, 1.0, testutil.ToFloat64(OfflineApplicationsTotal.WithLabelValues(game)))
	assert.Equal(t, 3600.0, testutil.ToFloat64(OfflineSecondsCredited.WithLabelValues(game)))
}

func TestObserveSave(t *testing.T) {
	const game = "observe-save"
	ObserveSave(game, nil)
	ObserveSave(game, nil)
	ObserveSave(game, errors.New("disk full"))

	assert.Equal(t, 2.0, testutil.ToFloat64(AutosavesTotal.WithLabelValues(game, ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(AutosavesTotal.WithLabelValues(game, ResultError)))
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/things/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/things/"+id, nil))
	}

	got := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/things/{id}", "418"))
	assert.Equal(t, 3.0, got)
}
