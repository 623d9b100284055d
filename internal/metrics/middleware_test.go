package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/documents/{id}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	req := httptest.NewRequest("GET", "/documents/7", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != 200 {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/documents/{id}", "200"))
	if val < 1 {
		t.Errorf("expected http_requests_total >= 1 for the route pattern, got %f", val)
	}

	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected http_request_duration_seconds to have observations")
	}
}

func TestMiddleware_StatusCodes(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())

	r.Get("/similarity", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	r.Post("/export/slda", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	tests := []struct {
		method string
		path   string
		status string
	}{
		{"GET", "/similarity", "400"},
		{"POST", "/export/slda", "500"},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, http.NoBody)
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(tc.method, tc.path, tc.status))
			if val < 1 {
				t.Errorf("expected requests_total for %s %s status %s >= 1, got %f", tc.method, tc.path, tc.status, val)
			}
		})
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "unknown"},
		{"/documents/{id}/neighbors", "/documents/{id}/neighbors"},
		{"/health", "/health"},
	}

	for _, tc := range tests {
		result := normalizePath(tc.input)
		if result != tc.expected {
			t.Errorf("normalizePath(%q) = %q, want %q", tc.input, result, tc.expected)
		}
	}
}

func TestCorpusMetrics(t *testing.T) {
	RegisterCorpusMetrics()
	RegisterCorpusMetrics() // idempotent

	CorpusDocumentsTotal.WithLabelValues("line").Add(3)
	CorpusTokensTotal.WithLabelValues("line").Add(42)
	ExportDocumentsTotal.Inc()

	if v := testutil.ToFloat64(CorpusDocumentsTotal.WithLabelValues("line")); v < 3 {
		t.Errorf("corpus_documents_total = %f, want >= 3", v)
	}
	if v := testutil.ToFloat64(CorpusTokensTotal.WithLabelValues("line")); v < 42 {
		t.Errorf("corpus_tokens_total = %f, want >= 42", v)
	}
	if v := testutil.ToFloat64(ExportDocumentsTotal); v < 1 {
		t.Errorf("export_documents_total = %f, want >= 1", v)
	}
}
