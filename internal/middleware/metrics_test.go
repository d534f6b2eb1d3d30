package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

type observation struct {
	method string
	route  string
	status int
}

type fakeHTTPRecorder struct {
	mu   sync.Mutex
	seen []observation
}

func (f *fakeHTTPRecorder) ObserveHTTPRequest(method, route string, status int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, observation{method, route, status})
}

func TestMetrics_LabelsByRoutePattern(t *testing.T) {
	t.Parallel()
	rec := &fakeHTTPRecorder{}

	r := chi.NewRouter()
	r.Use(Metrics(rec))
	r.Get("/v1/clubs/{idClub}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"club:a", "club:b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/clubs/"+id, nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	if len(rec.seen) != 3 {
		t.Fatalf("expected 3 observations, got %d", len(rec.seen))
	}
	for _, o := range rec.seen[:2] {
		if o.route != "/v1/clubs/{idClub}" || o.status != http.StatusNotFound || o.method != http.MethodGet {
			t.Errorf("unexpected observation %+v", o)
		}
	}
	if rec.seen[2].route != "unmatched" {
		t.Errorf("expected unmatched route, got %q", rec.seen[2].route)
	}
}

func TestMetrics_OutsideRecovery_CountsPanicAs500(t *testing.T) {
	t.Parallel()
	rec := &fakeHTTPRecorder{}

	r := chi.NewRouter()
	r.Use(Metrics(rec), Recovery)
	r.Get("/v1/clubs", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/clubs", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 response, got %d", rr.Code)
	}
	if len(rec.seen) != 1 {
		t.Fatalf("expected 1 observation, got %d", len(rec.seen))
	}
	if got := rec.seen[0]; got.status != http.StatusInternalServerError || got.route != "/v1/clubs" {
		t.Errorf("unexpected observation %+v", got)
	}
}
