// Package triggers reports the source paths a synchronization pass depends
// on, so that a host (a build tool, the watch command) knows when to run the
// pass again.
package triggers
