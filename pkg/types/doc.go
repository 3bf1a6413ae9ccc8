// Package types defines the core types and interfaces shared across stencil.
// This includes the FS boundary used by the template synchronizer, template
// sets, and the actions a synchronization plan is made of.
package types
