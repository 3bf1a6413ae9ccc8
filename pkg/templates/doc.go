// Package templates mirrors template sets from a source tree into the
// per-user product directory.
//
// A synchronization pass has three explicit steps. PlanSet walks the source
// tree and returns the actions and every source path it visited without
// touching the destination. Sync then reports the visited paths to a
// triggers.Reporter, removes the stale destination tree, and applies the
// actions in order. The first failing action aborts the pass and nothing is
// rolled back; running Sync again from scratch is the recovery path.
package templates
