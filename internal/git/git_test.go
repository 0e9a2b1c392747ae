package git

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type recordingRunner struct {
	dirs  []string
	calls [][]string
	err   error
}

func (r *recordingRunner) Run(dir, name string, args ...string) ([]byte, []byte, int32, error) {
	r.dirs = append(r.dirs, dir)
	r.calls = append(r.calls, append([]string{name}, args...))
	if r.err != nil {
		return nil, []byte("fatal: simulated\n"), 128, r.err
	}
	return nil, nil, 0, nil
}

func TestIsRepositoryAcceptsGitFile(t *testing.T) {
	dir := t.TempDir()
	client := NewClient(dir)
	if client.IsRepository(dir) {
		t.Fatal("bare directory is not a repository")
	}
	// Submodule checkouts carry a .git file, not a directory.
	if err := os.WriteFile(filepath.Join(dir, ".git"), []byte("gitdir: elsewhere\n"), 0o644); err != nil {
		t.Fatalf("write .git: %v", err)
	}
	if !client.IsRepository(dir) {
		t.Fatal(".git file must count as repository metadata")
	}
}

func TestHasGitmodules(t *testing.T) {
	root := t.TempDir()
	client := NewClient(root)
	if client.HasGitmodules() {
		t.Fatal("no .gitmodules yet")
	}
	if err := os.WriteFile(filepath.Join(root, ".gitmodules"), nil, 0o644); err != nil {
		t.Fatalf("write .gitmodules: %v", err)
	}
	if !client.HasGitmodules() {
		t.Fatal(".gitmodules should be detected")
	}
}

func TestCommandConstruction(t *testing.T) {
	root := t.TempDir()
	runner := &recordingRunner{}
	client := NewClientWithRunner(root, runner)
	repoDir := filepath.Join(root, "svc")

	steps := []struct {
		run  func() error
		dir  string
		want string
	}{
		{func() error { return client.Fetch(repoDir, "main") }, repoDir, "git fetch origin main"},
		{func() error { return client.Checkout(repoDir, "main") }, repoDir, "git checkout main"},
		{func() error { return client.Pull(repoDir, "main") }, repoDir, "git pull origin main"},
		{func() error { return client.SubmoduleDeinitAll() }, root, "git submodule deinit --all -f"},
		{func() error { return client.SubmoduleUpdateRecursive() }, root, "git submodule update --init --recursive"},
		{func() error { return client.SubmoduleUpdateRemote() }, root, "git submodule update --remote --recursive"},
	}
	for i, step := range steps {
		if err := step.run(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if got := strings.Join(runner.calls[i], " "); got != step.want {
			t.Fatalf("step %d: got %q, want %q", i, got, step.want)
		}
		if runner.dirs[i] != step.dir {
			t.Fatalf("step %d: ran in %q, want %q", i, runner.dirs[i], step.dir)
		}
	}
}

func TestErrorCarriesStderrAndExitCode(t *testing.T) {
	runner := &recordingRunner{err: errors.New("exit status 128")}
	client := NewClientWithRunner(t.TempDir(), runner)

	err := client.Fetch(client.Root(), "main")
	if !errors.Is(err, ErrCommandFailed) {
		t.Fatalf("expected ErrCommandFailed, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "fatal: simulated") || !strings.Contains(msg, "exit 128") {
		t.Fatalf("error should carry stderr and exit code: %q", msg)
	}
}
