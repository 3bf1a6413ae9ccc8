package devtools

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"testing"

	"github.com/arthur-debert/stencil/pkg/command"
	"github.com/arthur-debert/stencil/pkg/probe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReport = `Developer:

    Developer Tools:

      Version: 12.3 (12C33)
      Location: /Applications/Xcode.app
      Applications:
          Xcode: 12.3 (17715)
          Instruments: 12.3 (64566.158)
`

func ok(stdout string) command.Result {
	return command.Result{Stdout: stdout, Launched: true}
}

func TestDetectVersion(t *testing.T) {
	tests := []struct {
		name     string
		result   command.Result
		want     Version
		wantKind Kind
		wantRaw  string
	}{
		{
			name:   "full report",
			result: ok(sampleReport),
			want:   Version{Major: 12, Minor: 3},
		},
		{
			name:   "single line",
			result: ok("Version: 12.3"),
			want:   Version{Major: 12, Minor: 3},
		},
		{
			name:   "first occurrence wins",
			result: ok("Version: 11.7\nVersion: 14.0\n"),
			want:   Version{Major: 11, Minor: 7},
		},
		{
			name:     "empty output means tools missing",
			result:   ok(""),
			wantKind: KindToolsMissing,
		},
		{
			name:     "unrelated output",
			result:   ok("Hardware:\n    Model Name: MacBook Pro\n"),
			wantKind: KindOutputUnrecognized,
		},
		{
			name:     "lowercase label does not match",
			result:   ok("version: 12.3"),
			wantKind: KindOutputUnrecognized,
		},
		{
			name:     "minor followed by letter",
			result:   ok("Version: 12.3x"),
			wantKind: KindOutputUnrecognized,
		},
		{
			name:     "minor followed by underscore",
			result:   ok("Version: 12.3_beta"),
			wantKind: KindOutputUnrecognized,
		},
		{
			name:     "minor followed by non-ascii letter",
			result:   ok("Version: 12.3é"),
			wantKind: KindOutputUnrecognized,
		},
		{
			name:   "minor followed by punctuation",
			result: ok("Version: 12.3, build 12C33"),
			want:   Version{Major: 12, Minor: 3},
		},
		{
			name:     "launch failure",
			result:   command.Result{ExitCode: -1, Err: errors.New("exec: \"system_profiler\": executable file not found in $PATH")},
			wantKind: KindCommandFailed,
		},
		{
			name:     "non-zero exit",
			result:   command.Result{Stdout: "Version: 12.3", Launched: true, ExitCode: 1, Err: errors.New("exit status 1")},
			wantKind: KindCommandFailed,
		},
		{
			name:     "major overflows uint32",
			result:   ok("Version: 99999999999.1"),
			wantKind: KindMajorVersionInvalid,
			wantRaw:  "99999999999",
		},
		{
			name:     "non-ascii digit in minor",
			result:   ok("Version: 12.٣"),
			wantKind: KindMinorVersionInvalid,
			wantRaw:  "٣",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := command.NewStatic(map[string]command.Result{CommandLine: tt.result})

			got, err := DetectVersion(context.Background(), exec)

			assert.Equal(t, []string{CommandLine}, exec.Calls())
			if tt.wantKind == 0 {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}

			require.Error(t, err)
			assert.Equal(t, Version{}, got)
			assert.Equal(t, tt.wantKind, KindOf(err))

			var dtErr *Error
			require.ErrorAs(t, err, &dtErr)
			assert.Equal(t, tt.wantRaw, dtErr.Raw)
		})
	}
}

func TestDetectVersion_ErrorMessages(t *testing.T) {
	exec := command.NewStatic(map[string]command.Result{CommandLine: ok("")})
	_, err := DetectVersion(context.Background(), exec)
	require.Error(t, err)
	assert.Equal(t, "Failed to query system for developer tools. Please install Xcode and try again.", err.Error())

	exec = command.NewStatic(map[string]command.Result{CommandLine: ok("garbage")})
	_, err = DetectVersion(context.Background(), exec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "This is a bug - please report it!")
	assert.Contains(t, err.Error(), "garbage")
}

func TestDetectVersion_CommandFailedKeepsProbeError(t *testing.T) {
	exec := command.NewStatic(nil)
	exec.Fallback = command.Result{ExitCode: -1, Err: errors.New("not found")}

	_, err := DetectVersion(context.Background(), exec)

	require.Error(t, err)
	assert.ErrorIs(t, err, probe.ErrCommandFailed)
	assert.Equal(t, probe.KindCommandFailed, probe.KindOf(err))
}

func TestDetectVersionWith_LoosePattern(t *testing.T) {
	loose := regexp.MustCompile(`\bVersion: (?P<major>\S+?)\.(?P<minor>\S+)`)

	tests := []struct {
		name     string
		stdout   string
		wantKind Kind
		wantRaw  string
	}{
		{name: "minor not a number", stdout: "Version: 12.x", wantKind: KindMinorVersionInvalid, wantRaw: "x"},
		{name: "major not a number", stdout: "Version: beta.3", wantKind: KindMajorVersionInvalid, wantRaw: "beta"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := command.NewStatic(map[string]command.Result{CommandLine: ok(tt.stdout)})

			_, err := DetectVersionWith(context.Background(), exec, loose)

			require.Error(t, err)
			var dtErr *Error
			require.ErrorAs(t, err, &dtErr)
			assert.Equal(t, tt.wantKind, dtErr.Kind)
			assert.Equal(t, tt.wantRaw, dtErr.Raw)

			var numErr *strconv.NumError
			assert.ErrorAs(t, err, &numErr)
		})
	}
}

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion(map[string]string{"major": "15", "minor": "0"})
	require.NoError(t, err)
	assert.Equal(t, Version{Major: 15, Minor: 0}, v)

	_, err = ParseVersion(map[string]string{"major": "15"})
	require.Error(t, err)
	assert.Equal(t, KindMinorVersionInvalid, KindOf(err))
	assert.Contains(t, err.Error(), `The minor version "" wasn't a valid number`)

	_, err = ParseVersion(map[string]string{"major": "-1", "minor": "0"})
	require.Error(t, err)
	assert.Equal(t, KindMajorVersionInvalid, KindOf(err))
}

func TestVersion(t *testing.T) {
	v := Version{Major: 12, Minor: 3}
	assert.Equal(t, "12.3", v.String())

	assert.True(t, v.AtLeast(12, 3))
	assert.True(t, v.AtLeast(12, 0))
	assert.True(t, v.AtLeast(11, 9))
	assert.False(t, v.AtLeast(12, 4))
	assert.False(t, v.AtLeast(13, 0))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "tools_missing", KindToolsMissing.String())
	assert.Equal(t, "output_unrecognized", KindOutputUnrecognized.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
