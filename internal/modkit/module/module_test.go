package module_test

import (
	"testing"

	"branchsync/internal/modkit/module"
	phttp "branchsync/internal/platform/net/http"
	"branchsync/internal/platform/testkit"
)

type differ interface{ Diff() int }
type normalizer interface{ Normalize(string) string }

type impl struct{}

func (impl) Diff() int { return 1 }

type ports struct {
	Differ differ
	hidden normalizer
}

type fakeModule struct{ ports any }

func (fakeModule) MountRoutes(phttp.Router) {}
func (f fakeModule) Ports() any             { return f.ports }
func (fakeModule) Name() string             { return "snapshots" }

func TestPortsOf(t *testing.T) {
	m := fakeModule{ports: ports{Differ: impl{}}}
	if d, ok := module.PortsOf[differ](m); !ok || d.Diff() != 1 {
		t.Fatalf("PortsOf[differ] = %v, %v", d, ok)
	}
	if _, ok := module.PortsOf[normalizer](m); ok {
		t.Fatalf("unexported field should not be visible")
	}

	direct := fakeModule{ports: impl{}}
	if _, ok := module.PortsOf[differ](direct); !ok {
		t.Fatalf("direct implementation not found")
	}
	if _, ok := module.PortsOf[differ](fakeModule{}); ok {
		t.Fatalf("nil ports should miss")
	}

	testkit.MustPanic(t, func() { module.MustPortsOf[normalizer](m) })
}

func TestRegistry(t *testing.T) {
	testkit.Serial(t)
	module.Reset()
	t.Cleanup(module.Reset)

	module.Register("snapshots", ports{Differ: impl{}})

	got, ok := module.PortsAs[ports]("snapshots")
	if !ok || got.Differ == nil {
		t.Fatalf("PortsAs = %+v, %v", got, ok)
	}
	if _, ok := module.PortsAs[impl]("snapshots"); ok {
		t.Fatalf("wrong type should miss")
	}
	if _, ok := module.PortsAs[ports]("reconcile"); ok {
		t.Fatalf("unknown name should miss")
	}
}

func TestPortsOf_PointerBundle(t *testing.T) {
	m := fakeModule{ports: &ports{Differ: impl{}}}
	if _, ok := module.PortsOf[differ](m); !ok {
		t.Fatalf("pointer bundle not walked")
	}
}

func TestRegistry_Names(t *testing.T) {
	testkit.Serial(t)
	module.Reset()
	t.Cleanup(module.Reset)

	module.Register("snapshots", nil)
	module.Register("meta", nil)
	module.Register("reconcile", nil)
	module.Register("meta", nil)

	got := module.Names()
	if len(got) != 3 || got[0] != "meta" || got[2] != "snapshots" {
		t.Fatalf("Names = %v", got)
	}
}
