// Package submodules is the state engine of the setup pipeline: it probes
// nested checkouts, decides whether the tree needs a destructive reinit,
// preserves user env files across it, and brings every checkout to the tip
// of its tracked branch.
package submodules
