package npm

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dashboard-system/dashboard-root/internal/config"
	"github.com/dashboard-system/dashboard-root/internal/testutil/testlog"
)

type fakeNpmRunner struct {
	dirs    []string
	failDir string
}

func (r *fakeNpmRunner) Run(dir, name string, args ...string) ([]byte, []byte, int32, error) {
	r.dirs = append(r.dirs, dir)
	if dir == r.failDir {
		return nil, []byte("npm ERR! simulated"), 1, errors.New("exit status 1")
	}
	return nil, nil, 0, nil
}

func repoWithManifest(t *testing.T, root, name string) config.Repository {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return config.Repository{Name: name, Path: name, Markers: []string{"package.json"}}
}

func TestInstallAllRunsWhereManifestExists(t *testing.T) {
	testlog.Start(t)
	root := t.TempDir()
	a := repoWithManifest(t, root, "a")
	b := config.Repository{Name: "b", Path: "b", Markers: []string{"package.json"}}
	if err := os.MkdirAll(filepath.Join(root, "b"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	runner := &fakeNpmRunner{}
	NewInstallerWithRunner(root, runner).InstallAll([]config.Repository{a, b})

	if len(runner.dirs) != 1 || runner.dirs[0] != filepath.Join(root, "a") {
		t.Fatalf("expected one install in a, got %v", runner.dirs)
	}
}

func TestInstallAllContinuesPastFailure(t *testing.T) {
	testlog.Start(t)
	root := t.TempDir()
	a := repoWithManifest(t, root, "a")
	b := repoWithManifest(t, root, "b")
	c := repoWithManifest(t, root, "c")

	runner := &fakeNpmRunner{failDir: filepath.Join(root, "b")}
	NewInstallerWithRunner(root, runner).InstallAll([]config.Repository{a, b, c})

	if len(runner.dirs) != 3 {
		t.Fatalf("all three installs must be attempted, got %v", runner.dirs)
	}
}
