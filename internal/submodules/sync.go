package submodules

import (
	"path/filepath"

	"github.com/dashboard-system/dashboard-root/internal/config"
	"github.com/dashboard-system/dashboard-root/internal/git"
	"github.com/dashboard-system/dashboard-root/internal/logging"
)

// Synchronizer advances each managed checkout to the tip of its tracked
// branch. Repositories are processed strictly in descriptor order and each
// failure is isolated: one repository failing fetch, checkout, or pull never
// stops the loop. The ordered slice of per-repository results keeps the door
// open for a concurrent fan-out later without changing the aggregation
// contract.
type Synchronizer struct {
	cfg config.Setup
	git git.Client
}

func NewSynchronizer(cfg config.Setup, gitClient git.Client) *Synchronizer {
	return &Synchronizer{cfg: cfg, git: gitClient}
}

// Sync runs one synchronization pass over every managed checkout, including
// the nested UI checkout, then updates all submodule bindings to their
// remote tips. The aggregate OK is the AND of every per-repository outcome
// and the top-level binding update; callers treat it as advisory.
func (s *Synchronizer) Sync() Outcome {
	logger := logging.New("sync")
	out := Outcome{OK: true}

	for _, repo := range s.cfg.Flatten() {
		result := s.syncOne(repo)
		if result.Status == StatusFailed {
			out.OK = false
			logger.Warn().Str("repo", repo.Name).Err(result.Err).Msg("sync failed")
		} else {
			logger.Info().Str("repo", repo.Name).Str("status", string(result.Status)).Msg("synced")
		}
		out.Results = append(out.Results, result)
	}

	if err := s.git.SubmoduleUpdateRemote(); err != nil {
		out.OK = false
		logger.Warn().Err(err).Msg("submodule remote update failed")
	}
	return out
}

// syncOne fetches, checks out, and fast-forwards one checkout. A plain
// directory without git metadata is not a managed checkout and counts as a
// silent success.
func (s *Synchronizer) syncOne(repo config.Repository) RepoResult {
	dir := filepath.Join(s.cfg.Root, repo.Path)
	if !s.git.IsRepository(dir) {
		return RepoResult{Name: repo.Name, Status: StatusUnchanged}
	}
	branch := repo.Branch
	if branch == "" {
		branch = config.DefaultBranch
	}
	if err := s.git.Fetch(dir, branch); err != nil {
		return RepoResult{Name: repo.Name, Status: StatusFailed, Err: err}
	}
	if err := s.git.Checkout(dir, branch); err != nil {
		return RepoResult{Name: repo.Name, Status: StatusFailed, Err: err}
	}
	if err := s.git.Pull(dir, branch); err != nil {
		return RepoResult{Name: repo.Name, Status: StatusFailed, Err: err}
	}
	return RepoResult{Name: repo.Name, Status: StatusUpdated}
}
