// Package command runs external commands for stencil's probes.
//
// An Executor takes one shell-style command line, runs it, and returns the
// captured output together with a failure detail that distinguishes a
// command that could not be launched from one that ran and exited
// non-zero. No timeout is imposed; callers that need one pass a context
// with a deadline.
package command
