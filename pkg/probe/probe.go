package probe

import (
	"context"
	"regexp"

	"github.com/arthur-debert/stencil/pkg/command"
	"github.com/arthur-debert/stencil/pkg/logging"
)

// Search returns the named capture groups of the first match of pattern in
// text. Unnamed groups are ignored. ok is false when nothing matches.
func Search(text string, pattern *regexp.Regexp) (groups map[string]string, ok bool) {
	match := pattern.FindStringSubmatchIndex(text)
	if match == nil {
		return nil, false
	}

	groups = make(map[string]string)
	for i, name := range pattern.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		// Optional groups that did not participate are left out.
		if start := match[2*i]; start >= 0 {
			groups[name] = text[start:match[2*i+1]]
		}
	}
	return groups, true
}

// Run executes commandLine once, searches stdout for pattern, and calls
// extract with the named groups of the first match. See the package
// documentation for how failures are classified.
func Run[T any](
	ctx context.Context,
	exec command.Executor,
	commandLine string,
	pattern *regexp.Regexp,
	extract func(groups map[string]string) (T, error),
) (T, error) {
	var zero T
	logger := logging.GetLogger("probe")

	result := exec.Execute(ctx, commandLine)
	if !result.Succeeded() {
		logger.Debug().
			Str("command", commandLine).
			Err(result.Err).
			Msg("Probe command failed")
		return zero, &Error{
			Kind:        KindCommandFailed,
			CommandLine: commandLine,
			Output:      result.Stdout,
			Err:         result.Err,
		}
	}

	groups, ok := Search(result.Stdout, pattern)
	if !ok {
		kind := KindOutputUnparseable
		if result.Stdout == "" {
			kind = KindToolMissing
		}
		logger.Debug().
			Str("command", commandLine).
			Str("kind", kind.String()).
			Int("outputLen", len(result.Stdout)).
			Msg("Probe pattern did not match")
		return zero, &Error{
			Kind:        kind,
			CommandLine: commandLine,
			Pattern:     pattern.String(),
			Output:      result.Stdout,
		}
	}

	logger.Trace().
		Str("command", commandLine).
		Interface("groups", groups).
		Msg("Probe pattern matched")

	return extract(groups)
}
