// Package filesystem provides filesystem implementations for stencil.
//
// This package contains implementations of the types.FS interface,
// including the standard OS filesystem and an afero-backed filesystem used
// by tests (in-memory trees, read-only overlays for failure injection).
package filesystem
