package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	c := httpRequestsTotal.WithLabelValues(http.MethodGet, "/items/{id}", "404")
	before := testutil.ToFloat64(c)

	for _, p := range []string{"/items/1", "/items/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	if got := testutil.ToFloat64(c) - before; got != 2 {
		t.Fatalf("expected 2 requests under one pattern, got %v", got)
	}
}

func TestMetrics_UnmatchedRoute(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	// chi builds the middleware chain only once a route exists
	r.Get("/known", func(w http.ResponseWriter, r *http.Request) {})

	c := httpRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")
	before := testutil.ToFloat64(c)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/no/such/path", nil))

	if got := testutil.ToFloat64(c) - before; got != 1 {
		t.Fatalf("expected unmatched counter to grow by 1, got %v", got)
	}
}

func TestStatusWriter_DefaultsAndFirstHeaderWins(t *testing.T) {
	rr := httptest.NewRecorder()
	w := newStatusWriter(rr)

	_, _ = w.Write([]byte("abc"))
	w.WriteHeader(http.StatusTeapot)

	if w.status != http.StatusOK {
		t.Fatalf("expected implicit 200 to stick, got %d", w.status)
	}
	if w.bytes != 3 {
		t.Fatalf("expected 3 bytes, got %d", w.bytes)
	}
	if w.Unwrap() != rr {
		t.Fatalf("expected Unwrap to return the underlying writer")
	}
}
