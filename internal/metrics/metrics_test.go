package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorCounters(t *testing.T) {
	c := NewCollector()

	c.TripCreated("walk", 3)
	c.TripCreated("walk", 2)
	c.IngestFailed("validation")
	c.WindowQueried("blocked", 0)
	c.WindowQueried("disclosed", 203)
	c.EventPublished(nil)
	c.EventPublished(errors.New("nats: connection closed"))

	if got := testutil.ToFloat64(c.TripsCreated.WithLabelValues("walk")); got != 2 {
		t.Errorf("trips_created_total{walk} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.PointsIngested); got != 5 {
		t.Errorf("points ingested = %v, want 5", got)
	}
	if got := testutil.ToFloat64(c.WindowQueries.WithLabelValues("blocked")); got != 1 {
		t.Errorf("blocked queries = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.EventPublishErrors); got != 1 {
		t.Errorf("publish errors = %v, want 1", got)
	}
}

func TestHandlerExposesSeries(t *testing.T) {
	c := NewCollector()
	c.ObserveRequest(http.MethodGet, "/points/window/:north/:south/:east/:west", 403, 5*time.Millisecond)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), `http_request_duration_seconds_count{method="GET",route="/points/window/:north/:south/:east/:west",status="403"} 1`) {
		t.Fatalf("request histogram missing from scrape:\n%s", body)
	}
}
