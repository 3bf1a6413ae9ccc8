package probe

import (
	"errors"
	"fmt"
)

// Kind classifies why a probe produced no data
type Kind int

const (
	// KindCommandFailed means the command could not run or exited non-zero
	KindCommandFailed Kind = iota + 1
	// KindOutputUnparseable means the output did not match the pattern
	KindOutputUnparseable
	// KindToolMissing means the command produced no output at all
	KindToolMissing
)

// String returns a stable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindCommandFailed:
		return "command_failed"
	case KindOutputUnparseable:
		return "output_unparseable"
	case KindToolMissing:
		return "tool_missing"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. A *Error matches the sentinel of its Kind.
var (
	ErrCommandFailed     = errors.New("command failed")
	ErrOutputUnparseable = errors.New("output did not match the expected pattern")
	ErrToolMissing       = errors.New("command produced no output")
)

// Error is the classified failure of a probe.
type Error struct {
	Kind        Kind
	CommandLine string
	// Pattern is the source of the pattern that was searched for. Empty
	// for KindCommandFailed.
	Pattern string
	// Output is the captured stdout, retained for diagnostics
	Output string
	// Err is the raw failure detail of the command for KindCommandFailed
	Err error
}

// Error implements the error interface
func (e *Error) Error() string {
	switch e.Kind {
	case KindCommandFailed:
		return fmt.Sprintf("command %q failed: %v", e.CommandLine, e.Err)
	case KindToolMissing:
		return fmt.Sprintf("command %q produced no output", e.CommandLine)
	case KindOutputUnparseable:
		return fmt.Sprintf("output of %q did not match %q: %q", e.CommandLine, e.Pattern, e.Output)
	default:
		return fmt.Sprintf("probe of %q failed", e.CommandLine)
	}
}

// Unwrap returns the raw command failure, if any
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's Kind
func (e *Error) Is(target error) bool {
	switch target {
	case ErrCommandFailed:
		return e.Kind == KindCommandFailed
	case ErrOutputUnparseable:
		return e.Kind == KindOutputUnparseable
	case ErrToolMissing:
		return e.Kind == KindToolMissing
	}
	return false
}

// KindOf returns the Kind of a probe error anywhere in err's chain, or 0.
func KindOf(err error) Kind {
	var probeErr *Error
	if errors.As(err, &probeErr) {
		return probeErr.Kind
	}
	return 0
}
