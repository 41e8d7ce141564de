package http_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	phttp "branchsync/internal/platform/net/http"
)

func TestAdaptChi_RouteGroupUse(t *testing.T) {
	r, mux := newRouter()
	var seen []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				seen = append(seen, name)
				next.ServeHTTP(w, req)
			})
		}
	}

	r.Use(tag("root"))
	r.Route("/api/v1", func(api phttp.Router) {
		api.Group(func(g phttp.Router) {
			g.Use(tag("group"))
			g.Get("/snapshots/ping", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "pong") })
		})
		api.Handle("/raw", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusAccepted) }))
		if api.Mux() == nil {
			t.Fatalf("sub Mux() is nil")
		}
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/snapshots/ping", nil))
	if rec.Body.String() != "pong" {
		t.Fatalf("body = %q", rec.Body.String())
	}
	if len(seen) != 2 || seen[0] != "root" || seen[1] != "group" {
		t.Fatalf("middleware order = %v", seen)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/raw", nil))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("Handle status = %d", rec.Code)
	}
}
