package stencil

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/stencil/pkg/devtools"
	"github.com/arthur-debert/stencil/pkg/errors"
	"github.com/fatih/color"
)

var (
	errorLabel  = color.New(color.FgRed, color.Bold).SprintFunc()
	errorMsg    = color.New(color.FgRed).SprintFunc()
	fixLabel    = color.New(color.FgGreen, color.Bold).SprintFunc()
	bullet      = color.New(color.FgGreen).SprintFunc()
	categoryFmt = color.New(color.FgYellow).SprintFunc()
)

// FormatError renders err with its category and remediation steps. Colors
// follow fatih/color's terminal detection.
func FormatError(err error) string {
	return formatError(err, !color.NoColor)
}

// FormatErrorPlain renders err without colors.
func FormatErrorPlain(err error) string {
	return formatError(err, false)
}

// PrintError writes the formatted error to w.
func PrintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(err))
}

func formatError(err error, useColors bool) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	category := errorCategory(err)

	if useColors {
		sb.WriteString(errorLabel("Error"))
		sb.WriteString(" [")
		sb.WriteString(categoryFmt(category))
		sb.WriteString("]: ")
		sb.WriteString(errorMsg(err.Error()))
	} else {
		sb.WriteString("Error [")
		sb.WriteString(category)
		sb.WriteString("]: ")
		sb.WriteString(err.Error())
	}
	sb.WriteString("\n")

	if steps := remediation(err); len(steps) > 0 {
		sb.WriteString("\n")
		if useColors {
			sb.WriteString(fixLabel("To fix this:"))
		} else {
			sb.WriteString("To fix this:")
		}
		sb.WriteString("\n")
		for _, step := range steps {
			if useColors {
				sb.WriteString("  ")
				sb.WriteString(bullet("•"))
				sb.WriteString(" ")
			} else {
				sb.WriteString("  • ")
			}
			sb.WriteString(step)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func errorCategory(err error) string {
	if kind := devtools.KindOf(err); kind != 0 {
		return kind.String()
	}
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		return string(code)
	}
	return "error"
}

func remediation(err error) []string {
	switch devtools.KindOf(err) {
	case devtools.KindToolsMissing:
		return []string{"Install Xcode or the Command Line Tools: xcode-select --install"}
	case devtools.KindCommandFailed:
		return []string{"Check that system_profiler is available: which system_profiler"}
	case devtools.KindOutputUnrecognized, devtools.KindMajorVersionInvalid, devtools.KindMinorVersionInvalid:
		return []string{"Try the plist report instead: stencil devtools --xml"}
	}

	switch errors.GetErrorCode(err) {
	case errors.ErrConfigLoad, errors.ErrConfigParse:
		return []string{
			"Check the TOML syntax of the config file",
			"Run 'stencil config --defaults' to see the expected layout",
		}
	case errors.ErrConfigValid:
		return []string{"Run 'stencil config' to see the effective values"}
	case errors.ErrTemplateSetInvalid, errors.ErrInvalidInput:
		return []string{"Set names must be plain directory names without path separators"}
	case errors.ErrNotFound, errors.ErrTraverse:
		return []string{
			"Check sync.source_root and that <set>-templates exists under it",
			"Run 'stencil doctor' for a full report",
		}
	case errors.ErrFileAccess, errors.ErrFileCopy, errors.ErrFileRemove, errors.ErrDirCreate:
		return []string{"Check the permissions of the source and destination directories"}
	case errors.ErrWatch:
		return []string{"Raise the inotify limits: sysctl fs.inotify.max_user_watches"}
	}
	return nil
}
