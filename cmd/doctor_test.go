package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rnwolfe/grind/internal/config"
	"github.com/rnwolfe/grind/internal/hook"
)

func TestRunDoctor_FreshInstall(t *testing.T) {
	configTestEnv(t)

	out := captureStdout(t, func() {
		if err := runDoctor(nil, nil); err != nil {
			t.Errorf("runDoctor: %v", err)
		}
	})
	for _, want := range []string{"Config", "Tracking", "Store", "Backend", "local SQLite", "Hooks", "none installed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunDoctor_BrokenConfig(t *testing.T) {
	configTestEnv(t)
	paths := config.GetPaths()
	if err := paths.EnsureDirs(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(paths.ConfigFile, []byte("[tracking\nbroken"), 0o644); err != nil {
		t.Fatal(err)
	}

	var err error
	out := captureStdout(t, func() { err = runDoctor(nil, nil) })
	if err == nil {
		t.Error("expected doctor to fail")
	}
	if !strings.Contains(out, "parse error") {
		t.Errorf("output = %q", out)
	}
}

func TestCheckTracking_BadTimezone(t *testing.T) {
	cfg := &config.Config{}
	cfg.Tracking.Timezone = "Nowhere/Special"
	if r := checkTracking(cfg); r.ok {
		t.Errorf("check = %+v, want failure", r)
	}
}

func TestCheckBackend_FirestoreWithoutProject(t *testing.T) {
	cfg := &config.Config{}
	cfg.Store.Backend = config.BackendFirestore
	r := checkBackend(nil, cfg)
	if r.ok || !strings.Contains(r.detail, "store.firestore_project") {
		t.Errorf("check = %+v", r)
	}
}

func TestCheckHooks(t *testing.T) {
	configTestEnv(t)
	if _, err := hook.CreateScript(hook.Dir(), "habit.toggled"); err != nil {
		t.Fatal(err)
	}
	r := checkHooks(hook.Dir())
	if !r.ok || !strings.Contains(r.detail, "1 script") {
		t.Errorf("check = %+v", r)
	}
	if r := checkHooks(filepath.Join(t.TempDir(), "missing")); !r.ok {
		t.Errorf("missing dir should be fine: %+v", r)
	}
}
