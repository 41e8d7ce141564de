package http

import (
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"branchsync/internal/modkit/repokit/repotest"
	phttp "branchsync/internal/platform/net/http"
	"branchsync/internal/services/changes/repo"
	"branchsync/internal/services/changes/service"

	"github.com/go-chi/chi/v5"
)

func mux(t *testing.T, ch *repotest.CH) stdhttp.Handler {
	t.Helper()
	var r repo.Repo
	if ch != nil {
		r = repo.NewCH(ch)
	}
	m := chi.NewRouter()
	Register(phttp.AdaptChi(m), service.New(r, service.Config{TZOffsetHours: 3, Lookback: 7 * 24 * time.Hour}))
	return m
}

func send(t *testing.T, h stdhttp.Handler, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return rec.Code, env
}

func TestCategorize(t *testing.T) {
	code, env := send(t, mux(t, nil), stdhttp.MethodPost, "/categorize", `{"titles": ["Обновлены часы работы"]}`)
	if code != stdhttp.StatusOK {
		t.Fatalf("status = %d %v", code, env)
	}
	first := env["data"].([]any)[0].(map[string]any)
	if first["category"] != "schedule" {
		t.Fatalf("data = %v", env["data"])
	}

	if code, _ := send(t, mux(t, nil), stdhttp.MethodPost, "/categorize", `{"titles": [""]}`); code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("blank title status = %d", code)
	}
}

func TestStats(t *testing.T) {
	body := `{"locations": [{"id": "a", "changes": [{"title": "Загружено фото", "timestamp": "bad"}]}, {"id": "b", "changes": []}]}`
	code, env := send(t, mux(t, nil), stdhttp.MethodPost, "/stats", body)
	if code != stdhttp.StatusOK {
		t.Fatalf("status = %d %v", code, env)
	}
	data := env["data"].(map[string]any)
	if data["total_changes"] != float64(1) || data["unparseable"] != float64(1) || data["total_locations"] != float64(2) {
		t.Fatalf("data = %v", data)
	}
}

func TestIngest(t *testing.T) {
	ch := &repotest.CH{}
	body := `{"locations": [{"id": "loc-1", "changes": [{"title": "Новый телефон", "timestamp": "01-03-2026 · 10:00", "new_value": "+7"}]}]}`
	code, env := send(t, mux(t, ch), stdhttp.MethodPost, "/ingest", body)
	if code != stdhttp.StatusCreated {
		t.Fatalf("status = %d %v", code, env)
	}
	if len(ch.Inserts()) != 1 {
		t.Fatalf("inserts = %+v", ch.Inserts())
	}

	code, _ = send(t, mux(t, nil), stdhttp.MethodPost, "/ingest", body)
	if code != stdhttp.StatusServiceUnavailable {
		t.Fatalf("without clickhouse status = %d", code)
	}
}

func TestStoredStats(t *testing.T) {
	ch := &repotest.CH{}
	code, env := send(t, mux(t, ch), stdhttp.MethodGet, "/stats/stored", "")
	if code != stdhttp.StatusOK {
		t.Fatalf("status = %d %v", code, env)
	}
	if q := ch.Queries(); len(q) != 1 || !strings.Contains(q[0].SQL, "FROM branch_change_log FINAL") {
		t.Fatalf("queries = %+v", q)
	}
}
