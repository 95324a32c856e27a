// Package cli defines the cobra command tree: bundle management commands,
// exec, doctor, config, and version. Commands print per-item outcomes and
// decide the exit status; the bundle package does the work.
package cli
