package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"branchsync/internal/modkit/module"
	"branchsync/internal/platform/config"
	phttp "branchsync/internal/platform/net/http"
	"branchsync/internal/platform/testkit"
	recmod "branchsync/internal/services/reconcile/module"

	"github.com/go-chi/chi/v5"
)

func newAPI(t *testing.T, profiler bool) http.Handler {
	t.Helper()
	testkit.Serial(t)
	module.Reset()
	t.Cleanup(module.Reset)

	mux := chi.NewRouter()
	Mount(phttp.AdaptChi(mux), Options{Config: config.New(), EnableProfiler: profiler})
	return mux
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestMount_Routes(t *testing.T) {
	h := newAPI(t, false)

	cases := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/api/v1/meta/version", "", http.StatusOK},
		{http.MethodPost, "/api/v1/reconcile/normalize", `{"address": "г. Москва, ул. Тестовая, д. 1"}`, http.StatusOK},
		{http.MethodPost, "/api/v1/changes/categorize", `{"titles": ["Изменён телефон"]}`, http.StatusOK},
		{http.MethodPost, "/api/v1/snapshots/diff", `{"current": [{"id": "b-1"}]}`, http.StatusOK},
		{http.MethodPost, "/api/v1/snapshots/commit", `{"current": [{"id": "b-1"}]}`, http.StatusServiceUnavailable},
		{http.MethodGet, "/debug/pprof/", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			if rec := do(h, tc.method, tc.path, tc.body); rec.Code != tc.want {
				t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestMount_RegistersPorts(t *testing.T) {
	newAPI(t, false)
	p, ok := module.PortsAs[recmod.Ports]("reconcile")
	if !ok || p.Reconciler == nil {
		t.Fatalf("reconcile ports = %+v ok=%v", p, ok)
	}
}

func TestMount_Envelope(t *testing.T) {
	rec := do(newAPI(t, false), http.MethodGet, "/api/v1/meta/service", "")
	var env map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env["request_id"] == "" || env["request_id"] == nil {
		t.Fatalf("missing request id: %v", env)
	}
	data := env["data"].(map[string]any)
	if data["name"] != "branchsync-api" || len(data["modules"].([]any)) != 4 {
		t.Fatalf("data = %v", data)
	}
}

func TestMount_Profiler(t *testing.T) {
	if rec := do(newAPI(t, true), http.MethodGet, "/debug/pprof/", ""); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
