package module

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"branchsync/internal/modkit"
	mmodule "branchsync/internal/modkit/module"
	"branchsync/internal/platform/config"
	phttp "branchsync/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func TestFromConfig(t *testing.T) {
	t.Setenv("CORE_RECONCILE_WORKERS", "8")
	t.Setenv("CORE_MATCH_STRICT_THRESHOLD", "0.9")
	t.Setenv("CORE_SCHEDULE_APPLY_TOLERANCE", "true")
	t.Setenv("CORE_SCHEDULE_TOLERANCE_MINUTES", "10")

	c := FromConfig(config.New())
	if c.Workers != 8 || c.Thresholds.Strict != 0.9 || c.Thresholds.Weak != 0.73 {
		t.Fatalf("config = %+v", c)
	}
	if !c.ApplyTolerance || c.ToleranceMinutes != 10 || c.TxAttempts != 3 {
		t.Fatalf("config = %+v", c)
	}
}

func TestModule_MountsUnderPrefix(t *testing.T) {
	m := New(modkit.Deps{Cfg: config.New()})
	if m.Name() != "reconcile" {
		t.Fatalf("name = %q", m.Name())
	}
	if p, ok := mmodule.PortsOf[Ports](m); !ok || p.Reconciler == nil {
		t.Fatalf("ports = %+v", m.Ports())
	}

	mux := chi.NewRouter()
	m.MountRoutes(phttp.AdaptChi(mux))

	req := httptest.NewRequest(http.MethodPost, "/reconcile/normalize", strings.NewReader(`{"address":"г. Москва, ул. Тестовая, д. 1"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	var env struct {
		Data struct {
			House string `json:"house"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil || env.Data.House != "1" {
		t.Fatalf("body = %s err=%v", rec.Body.String(), err)
	}
}
