package submodules

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dashboard-system/dashboard-root/internal/config"
	"github.com/dashboard-system/dashboard-root/internal/logging"
)

// Snapshot preserves per-repository .env files across a destructive reset.
//
// Backup paths are keyed by repository role, not by process: two setup runs
// against different checkouts on the same host would collide on them. The
// pipeline assumes a single invocation at a time per host; see DESIGN.md.
type Snapshot struct {
	root   string
	tmpDir string
}

func NewSnapshot(root string) Snapshot {
	return NewSnapshotWithTempDir(root, os.TempDir())
}

func NewSnapshotWithTempDir(root, tmpDir string) Snapshot {
	return Snapshot{root: filepath.Clean(root), tmpDir: tmpDir}
}

// BackupPath returns the fixed role-keyed location for one repository's
// preserved .env.
func (s Snapshot) BackupPath(repo config.Repository) string {
	return filepath.Join(s.tmpDir, "dashboard-env-"+repo.Name+".bak")
}

func (s Snapshot) envPath(repo config.Repository) string {
	return filepath.Join(s.root, repo.Path, ".env")
}

// Backup copies each repository's .env, where present, to its backup path.
// A stale backup from an earlier pass is silently overwritten: at most one
// backup per role exists at a time.
func (s Snapshot) Backup(repos []config.Repository) error {
	logger := logging.New("snapshot")
	for _, repo := range repos {
		src := s.envPath(repo)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := copyFile(src, s.BackupPath(repo)); err != nil {
			return fmt.Errorf("backup %s: %w", repo.Name, err)
		}
		logger.Debug().Str("repo", repo.Name).Msg("env backed up")
	}
	return nil
}

// Restore moves each existing backup back into its repository and deletes
// the backup copy: a backup is consumed exactly once. A repository whose
// directory is missing at restore time is skipped without error, leaving the
// backup in place. Restore with no prior backup is a no-op.
func (s Snapshot) Restore(repos []config.Repository) error {
	logger := logging.New("snapshot")
	for _, repo := range repos {
		bak := s.BackupPath(repo)
		if _, err := os.Stat(bak); err != nil {
			continue
		}
		dir := filepath.Join(s.root, repo.Path)
		if !dirExists(dir) {
			logger.Warn().Str("repo", repo.Name).Msg("repository missing, env restore skipped")
			continue
		}
		if err := copyFile(bak, s.envPath(repo)); err != nil {
			return fmt.Errorf("restore %s: %w", repo.Name, err)
		}
		if err := os.Remove(bak); err != nil {
			return fmt.Errorf("restore %s: remove backup: %w", repo.Name, err)
		}
		logger.Info().Str("repo", repo.Name).Msg("env restored")
	}
	return nil
}

func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, info.Mode().Perm())
}
