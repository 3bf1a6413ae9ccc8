package devtools

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/arthur-debert/stencil/pkg/command"
	"github.com/arthur-debert/stencil/pkg/probe"
)

const (
	// CommandLine is the human-readable system_profiler report
	CommandLine = "system_profiler SPDeveloperToolsDataType"
	// XMLCommandLine is the same report as a plist
	XMLCommandLine = "system_profiler -xml SPDeveloperToolsDataType"
	// Pattern finds the first "Version: <major>.<minor>" line. The minor
	// must end the word; RE2's \b only knows ASCII, so the tail is spelled out.
	Pattern = `\bVersion: (?P<major>\p{Nd}+)\.(?P<minor>\p{Nd}+)` + wordEnd
	wordEnd = `(?:$|[^\p{L}\p{M}\p{Nd}\p{Pc}])`
)

var versionPattern = regexp.MustCompile(Pattern)

// Version is a developer tools version, e.g. 12.3
type Version struct {
	Major uint32 `json:"major" yaml:"major"`
	Minor uint32 `json:"minor" yaml:"minor"`
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// AtLeast reports whether v is major.minor or newer.
func (v Version) AtLeast(major, minor uint32) bool {
	if v.Major != major {
		return v.Major > major
	}
	return v.Minor >= minor
}

// ParseVersion converts the "major" and "minor" capture groups into a
// Version. A missing group parses as the empty string and fails.
func ParseVersion(groups map[string]string) (Version, error) {
	raw := groups["major"]
	major, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return Version{}, &Error{Kind: KindMajorVersionInvalid, Raw: raw, Err: err}
	}

	raw = groups["minor"]
	minor, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return Version{}, &Error{Kind: KindMinorVersionInvalid, Raw: raw, Err: err}
	}

	return Version{Major: uint32(major), Minor: uint32(minor)}, nil
}

// DetectVersion runs system_profiler once and extracts the version.
func DetectVersion(ctx context.Context, exec command.Executor) (Version, error) {
	return DetectVersionWith(ctx, exec, versionPattern)
}

// DetectVersionWith is DetectVersion with a caller-supplied pattern. The
// pattern must define "major" and "minor" groups.
func DetectVersionWith(ctx context.Context, exec command.Executor, pattern *regexp.Regexp) (Version, error) {
	v, err := probe.Run(ctx, exec, CommandLine, pattern, ParseVersion)
	if err != nil {
		return Version{}, fromProbe(err)
	}
	return v, nil
}
