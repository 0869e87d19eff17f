package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserve(t *testing.T) {
	m := New()

	m.ObserveRPC("/snapsplit.v1.SplitFlowService/AssignItem", "ok", 3*time.Millisecond)
	m.ObserveRPC("/snapsplit.v1.SplitFlowService/AssignItem", "ok", 5*time.Millisecond)
	m.ObserveRPC("/snapsplit.v1.SplitFlowService/AssignItem", "invalid_argument", time.Millisecond)
	m.ObserveAnalysis(OutcomeParsed)
	m.ObserveAnalysis(OutcomeCached)
	m.ObserveAnalysis(OutcomeCached)
	m.BreakdownComputed()

	if got := testutil.ToFloat64(m.rpcRequests.WithLabelValues("/snapsplit.v1.SplitFlowService/AssignItem", "ok")); got != 2 {
		t.Errorf("ok RPCs = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.analyses.WithLabelValues(OutcomeCached)); got != 2 {
		t.Errorf("cached analyses = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.breakdowns); got != 1 {
		t.Errorf("breakdowns = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveAnalysis(OutcomeSentinel)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), `snapsplit_receipt_analyses_total{outcome="sentinel"} 1`) {
		t.Errorf("metrics output missing sentinel counter:\n%s", body)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveRPC("p", "ok", time.Second)
	m.ObserveAnalysis(OutcomeError)
	m.ObserveUpstream(time.Second)
	m.BreakdownComputed()
	m.BillFinalized()
	if m.Handler() == nil {
		t.Error("nil metrics should still return a handler")
	}
}
