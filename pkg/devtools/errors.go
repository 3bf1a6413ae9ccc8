package devtools

import (
	"errors"
	"fmt"

	"github.com/arthur-debert/stencil/pkg/probe"
)

// Kind identifies a version detection failure
type Kind int

const (
	KindCommandFailed Kind = iota + 1
	KindToolsMissing
	KindOutputUnrecognized
	KindMajorVersionInvalid
	KindMinorVersionInvalid
)

// String returns a stable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindCommandFailed:
		return "command_failed"
	case KindToolsMissing:
		return "tools_missing"
	case KindOutputUnrecognized:
		return "output_unrecognized"
	case KindMajorVersionInvalid:
		return "major_version_invalid"
	case KindMinorVersionInvalid:
		return "minor_version_invalid"
	default:
		return "unknown"
	}
}

// Error is returned by every detection function in this package.
type Error struct {
	Kind Kind
	// Raw is the captured substring for the version-invalid kinds
	Raw string
	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindCommandFailed:
		return fmt.Sprintf("system_profiler invocation failed: %v", e.Err)
	case KindToolsMissing:
		return "Failed to query system for developer tools. Please install Xcode and try again."
	case KindOutputUnrecognized:
		return fmt.Sprintf("\tError: %v\nFailed to parse the output of system_profiler. This is a bug - please report it!", e.Err)
	case KindMajorVersionInvalid:
		return fmt.Sprintf("The major version %q wasn't a valid number: %v", e.Raw, e.Err)
	case KindMinorVersionInvalid:
		return fmt.Sprintf("The minor version %q wasn't a valid number: %v", e.Raw, e.Err)
	default:
		return fmt.Sprintf("developer tools detection failed: %v", e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of a devtools error in err's chain, or 0.
func KindOf(err error) Kind {
	var dtErr *Error
	if errors.As(err, &dtErr) {
		return dtErr.Kind
	}
	return 0
}

// fromProbe maps a probe failure onto this package's kinds. Errors that are
// not probe errors (the extract function's own) are returned as is.
func fromProbe(err error) error {
	var probeErr *probe.Error
	if !errors.As(err, &probeErr) {
		return err
	}
	switch probeErr.Kind {
	case probe.KindCommandFailed:
		return &Error{Kind: KindCommandFailed, Err: probeErr}
	case probe.KindToolMissing:
		return &Error{Kind: KindToolsMissing, Err: probeErr}
	default:
		return &Error{Kind: KindOutputUnrecognized, Err: probeErr}
	}
}
