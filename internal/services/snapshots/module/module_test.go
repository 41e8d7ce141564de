package module

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"branchsync/internal/modkit"
	mmodule "branchsync/internal/modkit/module"
	"branchsync/internal/modkit/repokit/repotest"
	"branchsync/internal/platform/config"
	phttp "branchsync/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func TestFromConfig(t *testing.T) {
	c := FromConfig(config.New())
	if len(c.Published) != 3 || c.LockTimeout != 5*time.Second || c.TxAttempts != 3 {
		t.Fatalf("defaults = %+v", c)
	}

	t.Setenv("CORE_SNAPSHOT_PUBLISHED_STATUSES", "Опубликована, ,visible")
	t.Setenv("CORE_SNAPSHOT_LOCK_TIMEOUT", "250ms")
	c = FromConfig(config.New())
	if len(c.Published) != 2 || c.Published[1] != "visible" || c.LockTimeout != 250*time.Millisecond {
		t.Fatalf("config = %+v", c)
	}
}

func TestModule_CommitUsesLockTimeout(t *testing.T) {
	t.Setenv("CORE_SNAPSHOT_LOCK_TIMEOUT", "2s")
	db := &repotest.DB{}
	m := New(modkit.Deps{Cfg: config.New(), PG: db}).(*Module)
	if m.Name() != "snapshots" || m.Prefix() != "/snapshots" {
		t.Fatalf("name=%q prefix=%q", m.Name(), m.Prefix())
	}
	if p, ok := mmodule.PortsOf[Ports](m); !ok || p.Snapshots == nil {
		t.Fatalf("ports = %+v", m.Ports())
	}

	mux := chi.NewRouter()
	m.MountRoutes(phttp.AdaptChi(mux))

	req := httptest.NewRequest(http.MethodPost, "/snapshots/commit", strings.NewReader(`{"current": [{"id": "b-1"}]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if got := db.Matching("lock_timeout = '2000ms'"); len(got) != 1 || !got[0].InTx {
		t.Fatalf("calls = %+v", db.Calls())
	}
}
