package submodules

import (
	"os"
	"path/filepath"

	"github.com/dashboard-system/dashboard-root/internal/config"
)

// Probe classifies managed checkouts from the filesystem alone. Results are
// recomputed on every call and never cached: the reconciler deliberately
// re-probes between phases.
type Probe struct {
	root string
}

func NewProbe(root string) Probe {
	return Probe{root: filepath.Clean(root)}
}

// Classify returns the current state of one managed repository. For a
// repository owning a nested checkout, completeness is checked one level
// deeper: a missing child directory or a child without its own markers makes
// the parent incomplete.
func (p Probe) Classify(repo config.Repository) RepoState {
	dir := filepath.Join(p.root, repo.Path)
	if !dirExists(dir) {
		return StateAbsent
	}
	if !anyMarkerPresent(dir, repo.Markers) {
		return StateIncomplete
	}
	if repo.Child != nil {
		childDir := filepath.Join(p.root, repo.Child.Path)
		if !dirExists(childDir) || !anyMarkerPresent(childDir, repo.Child.Markers) {
			return StateIncomplete
		}
	}
	return StateComplete
}

// NeedsForceReinit reports whether any managed repository is incomplete.
// The decision is global: submodule deinit operates on every registered
// binding at once and cannot target a single repository, so one incomplete
// checkout forces reconciliation of the whole tree. Absent repositories do
// not force a reset; the ordinary update step materializes them.
func (p Probe) NeedsForceReinit(repos []config.Repository) bool {
	for _, repo := range repos {
		if p.Classify(repo) == StateIncomplete {
			return true
		}
	}
	return false
}

func dirExists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

func anyMarkerPresent(dir string, markers []string) bool {
	for _, marker := range markers {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}
