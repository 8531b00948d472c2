package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_ConnectionCounts(t *testing.T) {
	c := NewCollector("qqr", nil)

	c.ConnAccepted()
	c.ConnAccepted()
	c.ConnRejected()
	c.ConnClosed()

	if got := testutil.ToFloat64(c.connectionsAccepted); got != 2 {
		t.Errorf("accepted = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.connectionsRejected); got != 1 {
		t.Errorf("rejected = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.connectionsActive); got != 1 {
		t.Errorf("active = %v, want 1", got)
	}
}

func TestCollector_RequestOutcomes(t *testing.T) {
	c := NewCollector("qqr", nil)

	c.RequestObserved("ok", 5*time.Millisecond, 1024)
	c.RequestObserved("ok", 2*time.Millisecond, 512)
	c.RequestObserved("invalid", time.Millisecond, 0)
	c.FrameError()

	if got := testutil.ToFloat64(c.requestsTotal.WithLabelValues("ok")); got != 2 {
		t.Errorf("requests ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.requestsTotal.WithLabelValues("invalid")); got != 1 {
		t.Errorf("requests invalid = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.frameErrors); got != 1 {
		t.Errorf("frame errors = %v, want 1", got)
	}
}

func TestCollector_NilSafe(t *testing.T) {
	var c *Collector

	// Must not panic.
	c.ConnAccepted()
	c.ConnRejected()
	c.ConnClosed()
	c.RequestObserved("ok", time.Millisecond, 1)
	c.FrameError()
	if c.Registry() != nil {
		t.Error("Expected nil registry from nil collector")
	}
}

func TestCollector_Exposition(t *testing.T) {
	c := NewCollector("qqr", nil)
	c.ConnAccepted()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	c.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "qqr_connections_accepted_total") {
		t.Errorf("Exposition missing accepted counter:\n%s", body)
	}
}
