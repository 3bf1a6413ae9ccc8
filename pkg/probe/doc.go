// Package probe runs an external command, searches its output with a
// pattern, and hands the named capture groups to a caller supplied extract
// function.
//
// Every failure before extraction is classified into exactly one Kind:
//
//   - KindCommandFailed: the command could not be launched or exited
//     non-zero. The pattern is never consulted.
//   - KindToolMissing: the command succeeded, produced no output, and so
//     nothing matched. A present tool would have said something.
//   - KindOutputUnparseable: the command produced output that the pattern
//     does not match. The tool is there but its format changed.
//
// Errors returned by the extract function are passed through untouched so
// callers keep their own error types.
package probe
