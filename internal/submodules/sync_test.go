package submodules

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dashboard-system/dashboard-root/internal/git"
	"github.com/dashboard-system/dashboard-root/internal/testutil/testlog"
)

func markGitRepo(t *testing.T, root, name string) {
	t.Helper()
	mkRepoDir(t, root, name)
	if err := os.WriteFile(filepath.Join(root, name, ".git"), []byte("gitdir: ../.git/modules/"+name+"\n"), 0o644); err != nil {
		t.Fatalf("write .git: %v", err)
	}
}

func TestSyncAllReposSucceed(t *testing.T) {
	testlog.Start(t)
	root := t.TempDir()
	for _, name := range []string{"a", "b", "c"} {
		markGitRepo(t, root, name)
	}
	runner := &fakeGitRunner{}
	cfg := testSetup(root, simpleRepo("a"), simpleRepo("b"), simpleRepo("c"))
	sync := NewSynchronizer(cfg, git.NewClientWithRunner(root, runner))

	out := sync.Sync()
	if !out.OK {
		t.Fatal("expected aggregate success")
	}
	if len(out.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(out.Results))
	}
	for _, res := range out.Results {
		if res.Status != StatusUpdated {
			t.Fatalf("repo %s: expected updated, got %s", res.Name, res.Status)
		}
	}
	if !runner.sawPrefix("submodule update --remote") {
		t.Fatal("expected top-level remote update")
	}
}

func TestSyncOneFailureIsIsolated(t *testing.T) {
	testlog.Start(t)
	root := t.TempDir()
	for _, name := range []string{"a", "b", "c"} {
		markGitRepo(t, root, name)
	}
	// Fetching in b's directory fails; a and c must still be attempted.
	runner := &scopedFailRunner{failDir: filepath.Join(root, "b"), failSub: "fetch"}
	cfg := testSetup(root, simpleRepo("a"), simpleRepo("b"), simpleRepo("c"))
	sync := NewSynchronizer(cfg, git.NewClientWithRunner(root, runner))

	out := sync.Sync()
	if out.OK {
		t.Fatal("aggregate must be false when one repo fails")
	}
	byName := map[string]RepoResult{}
	for _, res := range out.Results {
		byName[res.Name] = res
	}
	if byName["b"].Status != StatusFailed {
		t.Fatalf("b should fail, got %s", byName["b"].Status)
	}
	if byName["a"].Status != StatusUpdated || byName["c"].Status != StatusUpdated {
		t.Fatalf("a and c should still update: a=%s c=%s", byName["a"].Status, byName["c"].Status)
	}
}

func TestSyncPlainDirectoryIsSilentSuccess(t *testing.T) {
	testlog.Start(t)
	root := t.TempDir()
	mkRepoDir(t, root, "a") // no .git metadata
	runner := &fakeGitRunner{}
	cfg := testSetup(root, simpleRepo("a"))
	sync := NewSynchronizer(cfg, git.NewClientWithRunner(root, runner))

	out := sync.Sync()
	if !out.OK {
		t.Fatal("plain directory must not fail the pass")
	}
	if out.Results[0].Status != StatusUnchanged {
		t.Fatalf("expected unchanged, got %s", out.Results[0].Status)
	}
	for _, call := range runner.calls {
		if call[1] == "fetch" {
			t.Fatal("no fetch expected for a plain directory")
		}
	}
}

func TestSyncTopLevelRemoteUpdateFailureFlipsAggregate(t *testing.T) {
	testlog.Start(t)
	root := t.TempDir()
	markGitRepo(t, root, "a")
	runner := &fakeGitRunner{failOn: map[string]error{
		"submodule update --remote": errors.New("remote update failed"),
	}}
	cfg := testSetup(root, simpleRepo("a"))
	sync := NewSynchronizer(cfg, git.NewClientWithRunner(root, runner))

	out := sync.Sync()
	if out.OK {
		t.Fatal("top-level remote update failure must flip the aggregate")
	}
	if out.Results[0].Status != StatusUpdated {
		t.Fatalf("per-repo result must not be overridden, got %s", out.Results[0].Status)
	}
}

// scopedFailRunner fails one git subcommand only inside one directory.
type scopedFailRunner struct {
	failDir string
	failSub string
	calls   [][]string
}

func (r *scopedFailRunner) Run(dir, name string, args ...string) ([]byte, []byte, int32, error) {
	r.calls = append(r.calls, append([]string{dir, name}, args...))
	if dir == r.failDir && len(args) > 0 && args[0] == r.failSub {
		return nil, []byte("simulated failure"), 1, errors.New(r.failSub + " failed")
	}
	return nil, nil, 0, nil
}
