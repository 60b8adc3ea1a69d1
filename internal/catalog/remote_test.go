package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()

	cat := Static()
	mux := http.NewServeMux()
	mux.HandleFunc("/catalog/base-pricing", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, basePricingPayload{Shapes: cat.Shapes, Sizes: cat.Sizes})
	})
	mux.HandleFunc("/catalog/depths", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, cat.Depths)
	})
	mux.HandleFunc("/catalog/options", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, cat.Options)
	})
	mux.HandleFunc("/catalog/risk-factors", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, cat.RiskFactors)
	})
	mux.HandleFunc("/catalog/payment-schedules", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []paymentSchedulePayload{
			{PoolType: "gunite", PaymentMilestone: PaymentMilestone{DepositPct: 25, ShellOrderPct: 25, ExcavationPct: 25, FinalPct: 25}},
			{PoolType: "fiberglass", PaymentMilestone: cat.Milestones},
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("encode payload: %v", err)
	}
}

func TestLoaderLoadsAllRecordSets(t *testing.T) {
	server := newCatalogServer(t)
	loader := NewLoader(LoaderOptions{
		BaseURL:      server.URL,
		RequestDelay: time.Millisecond,
	})

	cat, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	shape, ok := cat.Shape("kidney")
	if !ok || shape.Multiplier != 1.08 {
		t.Fatalf("unexpected kidney shape: %+v (ok=%v)", shape, ok)
	}
	size, ok := cat.Size("xxl-20x40")
	if !ok || size.BasePrice != 65000 {
		t.Fatalf("unexpected xxl size: %+v (ok=%v)", size, ok)
	}
	entry, ok := cat.RiskFactor("slope", "terraced")
	if !ok || entry.CostImpact != 12000 || entry.Level != Red {
		t.Fatalf("unexpected slope condition: %+v (ok=%v)", entry, ok)
	}
	if cat.Milestones.ShellOrderPct != 40 {
		t.Fatalf("expected the fiberglass schedule, got %+v", cat.Milestones)
	}
}

func TestLoaderRetriesServerErrors(t *testing.T) {
	var failures int32
	upstream := newCatalogServer(t)

	flaky := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&failures, 1) <= 2 {
			http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
			return
		}
		resp, err := http.Get(upstream.URL + r.URL.Path)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		defer resp.Body.Close()
		w.Header().Set("Content-Type", "application/json")
		if _, err := io.Copy(w, resp.Body); err != nil {
			t.Errorf("proxy payload: %v", err)
		}
	}))
	t.Cleanup(flaky.Close)

	loader := NewLoader(LoaderOptions{
		BaseURL:      flaky.URL,
		MaxAttempts:  3,
		RequestDelay: time.Millisecond,
	})

	if _, err := loader.Load(context.Background()); err != nil {
		t.Fatalf("expected retries to recover, got %v", err)
	}
}

func TestLoaderGivesUpAfterMaxAttempts(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	loader := NewLoader(LoaderOptions{
		BaseURL:      server.URL,
		MaxAttempts:  3,
		RequestDelay: time.Millisecond,
	})

	if _, err := loader.Load(context.Background()); err == nil {
		t.Fatal("expected load to fail against a dead catalog service")
	}
	if got := atomic.LoadInt32(&requests); got != 3 {
		t.Fatalf("expected 3 attempts at the first record set, got %d", got)
	}
}

func TestLoaderDoesNotRetryNotFound(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	loader := NewLoader(LoaderOptions{
		BaseURL:      server.URL,
		MaxAttempts:  3,
		RequestDelay: time.Millisecond,
	})

	if _, err := loader.Load(context.Background()); err == nil {
		t.Fatal("expected load to fail on 404")
	}
	if got := atomic.LoadInt32(&requests); got != 1 {
		t.Fatalf("404 should not be retried, got %d requests", got)
	}
}

func TestMatchSchedule(t *testing.T) {
	fiberglass := paymentSchedulePayload{PoolType: "fiberglass", PaymentMilestone: PaymentMilestone{DepositPct: 10, ShellOrderPct: 40, ExcavationPct: 30, FinalPct: 20}}
	gunite := paymentSchedulePayload{PoolType: "gunite", PaymentMilestone: PaymentMilestone{DepositPct: 25, ShellOrderPct: 25, ExcavationPct: 25, FinalPct: 25}}

	if got := matchSchedule([]paymentSchedulePayload{gunite, fiberglass}); got != fiberglass.PaymentMilestone {
		t.Fatalf("expected the fiberglass schedule, got %+v", got)
	}
	if got := matchSchedule([]paymentSchedulePayload{gunite}); got != gunite.PaymentMilestone {
		t.Fatalf("expected fallback to the first schedule, got %+v", got)
	}
	if got := matchSchedule(nil); got != (PaymentMilestone{}) {
		t.Fatalf("expected zero milestones for an empty list, got %+v", got)
	}
}
