package submodules

// RepoState is the probed condition of one managed checkout.
type RepoState int

const (
	// StateAbsent means the repository path does not exist.
	StateAbsent RepoState = iota
	// StateIncomplete means the path exists but no marker file does. Git
	// metadata is irrelevant: a directory without markers is incomplete.
	StateIncomplete
	// StateComplete means the path exists and at least one marker is present
	// (transitively, for repositories owning a nested checkout).
	StateComplete
)

func (s RepoState) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateIncomplete:
		return "incomplete"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// RepoStatus records what one synchronization attempt did to a repository.
type RepoStatus string

const (
	StatusUpdated   RepoStatus = "updated"
	StatusUnchanged RepoStatus = "unchanged"
	StatusFailed    RepoStatus = "failed"
)

// RepoResult is one repository's outcome within a pass.
type RepoResult struct {
	Name   string
	Status RepoStatus
	Err    error
}

// Outcome aggregates one synchronization pass. OK is advisory: callers log a
// warning on false but never abort the surrounding initialization.
type Outcome struct {
	Results []RepoResult
	OK      bool
}

// ReconcileState is the terminal state of one reconciliation pass.
type ReconcileState int

const (
	// ReconcileSuccess means submodule materialization succeeded.
	ReconcileSuccess ReconcileState = iota
	// ReconcileDegraded means materialization failed; the process continues
	// with whatever was on disk.
	ReconcileDegraded
	// ReconcileSkipped means no submodule configuration exists at the root.
	// Not an error.
	ReconcileSkipped
)

func (s ReconcileState) String() string {
	switch s {
	case ReconcileSuccess:
		return "success"
	case ReconcileDegraded:
		return "degraded"
	case ReconcileSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}
