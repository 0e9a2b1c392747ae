// Package tools provides reusable runtime helpers shared by setup modules.
//
// Ownership boundary:
// - command execution helpers
//
// - external tool discovery
//
// - process exit-code conventions
package tools
