package submodules

import (
	"os"
	"path/filepath"

	"github.com/dashboard-system/dashboard-root/internal/config"
	"github.com/dashboard-system/dashboard-root/internal/git"
	"github.com/dashboard-system/dashboard-root/internal/logging"
)

// Reconciler drives one submodule reconciliation pass:
//
//	probe -> [force?] backup -> destroy -> update -> [force?] restore
//
// Destroy is deliberately best-effort in its sub-steps: deinit and metadata
// removal failures are swallowed because the unconditional working-directory
// removal that follows is the authoritative cleanup. Only the final removal's
// outcome matters.
type Reconciler struct {
	cfg   config.Setup
	git   git.Client
	probe Probe
	snap  Snapshot
}

func NewReconciler(cfg config.Setup, gitClient git.Client) *Reconciler {
	return &Reconciler{
		cfg:   cfg,
		git:   gitClient,
		probe: NewProbe(cfg.Root),
		snap:  NewSnapshot(cfg.Root),
	}
}

// NewReconcilerWithSnapshot allows tests to redirect backup artifacts.
func NewReconcilerWithSnapshot(cfg config.Setup, gitClient git.Client, snap Snapshot) *Reconciler {
	r := NewReconciler(cfg, gitClient)
	r.snap = snap
	return r
}

// Reconcile runs one pass. Without a .gitmodules at the root the pass is
// skipped entirely. A materialization failure degrades the pass rather than
// failing it: the returned error is advisory and the process continues with
// whatever is on disk.
func (r *Reconciler) Reconcile() (ReconcileState, error) {
	logger := logging.New("reconciler")
	if !r.git.HasGitmodules() {
		logger.Info().Msg("no submodule configuration, reconciliation skipped")
		return ReconcileSkipped, nil
	}

	if r.probe.NeedsForceReinit(r.cfg.Repositories) {
		logger.Warn().Msg("incomplete checkout detected, forcing submodule reinit")
		if err := r.snap.Backup(r.cfg.Flatten()); err != nil {
			return ReconcileDegraded, err
		}
		if err := r.destroy(); err != nil {
			return ReconcileDegraded, err
		}
	}

	if err := r.git.SubmoduleUpdateRecursive(); err != nil {
		logger.Warn().Err(err).Msg("submodule materialization failed")
		return ReconcileDegraded, err
	}

	if err := r.MaybeRestore(); err != nil {
		return ReconcileDegraded, err
	}
	logger.Info().Msg("submodules reconciled")
	return ReconcileSuccess, nil
}

// MaybeRestore re-probes completeness and restores env backups only when the
// tree still needs a forced reinit. The decision is intentionally recomputed
// rather than cached from the start of the pass, so a reinit that leaves
// every marker in place skips the restore and the backups stay parked in the
// temp directory. Known quirk, preserved; see DESIGN.md. The orchestrator
// calls this a second time after dependency installation.
func (r *Reconciler) MaybeRestore() error {
	if !r.probe.NeedsForceReinit(r.cfg.Repositories) {
		return nil
	}
	return r.snap.Restore(r.cfg.Flatten())
}

// destroy tears down every submodule binding. Deinit and metadata-store
// removal results are ignored; removing the top-level working directories is
// the step that decides the outcome. Children go with their parent.
func (r *Reconciler) destroy() error {
	logger := logging.New("reconciler")
	if err := r.git.SubmoduleDeinitAll(); err != nil {
		logger.Warn().Err(err).Msg("submodule deinit failed, continuing")
	}
	if err := os.RemoveAll(filepath.Join(r.cfg.Root, ".git", "modules")); err != nil {
		logger.Warn().Err(err).Msg("submodule metadata removal failed, continuing")
	}
	for _, repo := range r.cfg.Repositories {
		if err := os.RemoveAll(filepath.Join(r.cfg.Root, repo.Path)); err != nil {
			return err
		}
		logger.Info().Str("repo", repo.Name).Msg("working directory removed")
	}
	return nil
}
