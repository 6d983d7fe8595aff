package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCountsResults(t *testing.T) {
	m := New()

	m.Observe("create_booking", true, 10*time.Millisecond)
	m.Observe("create_booking", true, 20*time.Millisecond)
	m.Observe("create_booking", false, time.Millisecond)
	m.Observe("", true, time.Millisecond)

	if got := testutil.ToFloat64(m.operations.WithLabelValues("create_booking", "success")); got != 2 {
		t.Errorf("expected 2 successes, got %v", got)
	}
	if got := testutil.ToFloat64(m.operations.WithLabelValues("create_booking", "error")); got != 1 {
		t.Errorf("expected 1 error, got %v", got)
	}
}

func TestBookingDecided(t *testing.T) {
	m := New()
	m.BookingDecided("APPROVED")
	m.BookingDecided("REJECTED")
	m.BookingDecided("APPROVED")

	if got := testutil.ToFloat64(m.decisions.WithLabelValues("APPROVED")); got != 2 {
		t.Errorf("expected 2 approvals, got %v", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.Observe("x", true, time.Second)
	m.BookingDecided("APPROVED")
	m.ObserveHTTP("GET", 200, time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 from nil metrics, got %d", rec.Code)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveHTTP("GET", 200, 5*time.Millisecond)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), `izposoja_http_request_duration_seconds_count{code="200",method="GET"} 1`) {
		t.Errorf("expected http histogram in output, got:\n%s", body)
	}
}
