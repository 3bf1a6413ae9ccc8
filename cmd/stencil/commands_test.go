package stencil

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/stencil/pkg/command"
	"github.com/arthur-debert/stencil/pkg/config"
	"github.com/arthur-debert/stencil/pkg/devtools"
	"github.com/arthur-debert/stencil/pkg/errors"
	"github.com/arthur-debert/stencil/pkg/filesystem"
	"github.com/arthur-debert/stencil/pkg/types"
	"github.com/arthur-debert/stencil/pkg/ui/display"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	sourceRoot string
	userRoot   string
	exec       *command.Static
}

// setupEnv points every configuration source at a temp tree with one
// "app" template set containing a.txt and sub/b.txt.
func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	tmp := t.TempDir()
	env := &testEnv{
		sourceRoot: filepath.Join(tmp, "src"),
		userRoot:   filepath.Join(tmp, "home"),
		exec:       command.NewStatic(nil),
	}

	appSrc := filepath.Join(env.sourceRoot, "app-templates")
	require.NoError(t, os.MkdirAll(filepath.Join(appSrc, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(appSrc, "a.txt"), []byte("a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(appSrc, "sub", "b.txt"), []byte("b"), 0644))
	require.NoError(t, os.MkdirAll(env.userRoot, 0755))

	t.Setenv("STENCIL_CONFIG_DIR", filepath.Join(tmp, "config"))
	t.Setenv("STENCIL_SYNC__SOURCE_ROOT", env.sourceRoot)
	t.Setenv("STENCIL_SYNC__USER_ROOT", env.userRoot)
	t.Setenv("STENCIL_SYNC__SETS", "app")
	return env
}

func (e *testEnv) run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	return e.runContext(t, context.Background(), args...)
}

func (e *testEnv) runContext(t *testing.T, ctx context.Context, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmdWithDeps(Deps{FS: filesystem.NewOS(), Executor: e.exec})
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

func (e *testEnv) dest(parts ...string) string {
	return filepath.Join(append([]string{e.userRoot, ".stencil", "app-templates"}, parts...)...)
}

func TestSyncCommand(t *testing.T) {
	env := setupEnv(t)
	appSrc := filepath.Join(env.sourceRoot, "app-templates")

	stdout, stderr, err := env.run(t, "sync")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"rerun-if-changed=" + appSrc,
		"rerun-if-changed=" + filepath.Join(appSrc, "a.txt"),
		"rerun-if-changed=" + filepath.Join(appSrc, "sub"),
		"rerun-if-changed=" + filepath.Join(appSrc, "sub", "b.txt"),
	}, strings.Split(strings.TrimSpace(stdout), "\n"))
	assert.Contains(t, stderr, "app: 1 directories, 2 files -> "+env.dest())
	assert.NotContains(t, stderr, "(replaced)")

	content, err := os.ReadFile(env.dest("sub", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "b", string(content))
}

func TestSyncCommandReplacesStaleDestination(t *testing.T) {
	env := setupEnv(t)
	require.NoError(t, os.MkdirAll(env.dest(), 0755))
	require.NoError(t, os.WriteFile(env.dest("stale.txt"), []byte("old"), 0644))

	_, stderr, err := env.run(t, "sync")
	require.NoError(t, err)

	assert.Contains(t, stderr, "(replaced)")
	assert.NoFileExists(t, env.dest("stale.txt"))
	assert.FileExists(t, env.dest("a.txt"))
}

func TestSyncCommandRemovesLegacyDir(t *testing.T) {
	env := setupEnv(t)
	legacy := filepath.Join(env.userRoot, "templates")
	require.NoError(t, os.MkdirAll(filepath.Join(legacy, "old"), 0755))

	_, stderr, err := env.run(t, "sync")
	require.NoError(t, err)

	assert.NoDirExists(t, legacy)
	assert.Contains(t, stderr, "removed obsolete templates directory "+legacy)
}

func TestSyncCommandKeepsLegacyDirWhenDisabled(t *testing.T) {
	env := setupEnv(t)
	t.Setenv("STENCIL_SYNC__REMOVE_LEGACY", "false")
	legacy := filepath.Join(env.userRoot, "templates")
	require.NoError(t, os.MkdirAll(legacy, 0755))

	_, _, err := env.run(t, "sync")
	require.NoError(t, err)
	assert.DirExists(t, legacy)
}

func TestSyncCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.ErrorCode
	}{
		{"missing source", []string{"sync", "platform"}, errors.ErrTraverse},
		{"set name with separator", []string{"sync", "../app"}, errors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupEnv(t)
			_, _, err := env.run(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetErrorCode(err))
			assert.Equal(t, ExitFailure, ExitCode(err))
		})
	}
}

func TestPlanCommandJSON(t *testing.T) {
	env := setupEnv(t)

	stdout, _, err := env.run(t, "plan", "--format", "json")
	require.NoError(t, err)

	var result display.PlanResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	require.Len(t, result.Sets, 1)
	set := result.Sets[0]
	assert.Equal(t, "app", set.Name)
	require.Len(t, set.Actions, 3)
	assert.Equal(t, types.ActionCreateDirectory, set.Actions[0].Type)
	assert.Equal(t, env.dest("sub"), set.Actions[0].Dest)
	assert.Equal(t, types.ActionCopyFile, set.Actions[1].Type)
	assert.Len(t, set.Visited, 4)

	assert.NoDirExists(t, env.dest(), "plan must not write the destination")
}

func TestPlanCommandText(t *testing.T) {
	env := setupEnv(t)

	stdout, _, err := env.run(t, "plan", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, stdout, "app: ")
	assert.Contains(t, stdout, "(1 directories, 2 files)")
}

func TestInvalidFormat(t *testing.T) {
	env := setupEnv(t)
	_, _, err := env.run(t, "plan", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --format")
}

func TestDevtoolsCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		results  map[string]command.Result
		wantOut  string
		wantExit int
	}{
		{
			name: "text report",
			args: []string{"devtools"},
			results: map[string]command.Result{
				devtools.CommandLine: {Stdout: "Developer:\n\n    Version: 12.3 (12C33)\n", Launched: true},
			},
			wantOut:  "developer tools 12.3",
			wantExit: ExitOK,
		},
		{
			name: "plist report",
			args: []string{"devtools", "--xml"},
			results: map[string]command.Result{
				devtools.XMLCommandLine: {Stdout: `<plist version="1.0"><array><dict>` +
					`<key>spdevtools_version</key><string>14.1 (14B47b)</string>` +
					`</dict></array></plist>`, Launched: true},
			},
			wantOut:  "developer tools 14.1",
			wantExit: ExitOK,
		},
		{
			name:     "tools missing",
			args:     []string{"devtools"},
			results:  map[string]command.Result{devtools.CommandLine: {Launched: true}},
			wantOut:  "Error [tools_missing]",
			wantExit: ExitToolsMissing,
		},
		{
			name: "unrecognized output",
			args: []string{"devtools"},
			results: map[string]command.Result{
				devtools.CommandLine: {Stdout: "Developer:\n", Launched: true},
			},
			wantOut:  "Error [output_unrecognized]",
			wantExit: ExitFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupEnv(t)
			env.exec.Results = tt.results

			stdout, _, err := env.run(t, tt.args...)
			assert.Contains(t, stdout, tt.wantOut)
			assert.Equal(t, tt.wantExit, ExitCode(err))
			if err != nil {
				assert.True(t, IsReported(err))
			}
			assert.Len(t, env.exec.Calls(), 1)
		})
	}
}

func TestDevtoolsCommandUsesConfiguredMode(t *testing.T) {
	env := setupEnv(t)
	t.Setenv("STENCIL_DEVTOOLS__MODE", config.DevtoolsModeXML)

	_, _, _ = env.run(t, "devtools")
	assert.Equal(t, []string{devtools.XMLCommandLine}, env.exec.Calls())
}

func TestDoctorCommand(t *testing.T) {
	env := setupEnv(t)
	env.exec.Results = map[string]command.Result{
		devtools.CommandLine: {Stdout: "Version: 15.0\n", Launched: true},
	}

	stdout, _, err := env.run(t, "doctor", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, stdout, "[ok] config: loaded")
	assert.Contains(t, stdout, "[ok] app source:")
	assert.Contains(t, stdout, "[warning] app destination:")
	assert.Contains(t, stdout, "[ok] devtools: 15.0")
}

func TestDoctorCommandUnhealthy(t *testing.T) {
	env := setupEnv(t)
	t.Setenv("STENCIL_SYNC__SETS", "app,platform")

	stdout, _, err := env.run(t, "doctor", "--format", "text")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, ExitCode(err))
	assert.True(t, IsReported(err))
	assert.Contains(t, stdout, "[error] platform source:")
	// the fake executor returns an empty, successful result by default
	assert.Contains(t, stdout, "[warning] devtools:")
}

func TestConfigCommand(t *testing.T) {
	env := setupEnv(t)

	stdout, _, err := env.run(t, "config", "--defaults")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultsContent(), stdout)

	stdout, _, err = env.run(t, "config")
	require.NoError(t, err)
	assert.Contains(t, stdout, env.sourceRoot)
	assert.Contains(t, stdout, "rerun-if-changed=")
}

func TestSetFlag(t *testing.T) {
	env := setupEnv(t)

	stdout, _, err := env.run(t, "--set", "triggers.prefix=dep:", "sync")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "dep:"+filepath.Join(env.sourceRoot, "app-templates")))

	_, _, err = env.run(t, "--set", "triggers.prefix", "sync")
	require.Error(t, err)
	assert.Equal(t, errors.ErrInvalidInput, errors.GetErrorCode(err))
}

func TestConfigFileFlag(t *testing.T) {
	env := setupEnv(t)
	path := filepath.Join(t.TempDir(), "extra.toml")
	require.NoError(t, os.WriteFile(path, []byte("[triggers]\nprefix = \"watch:\"\n"), 0644))

	stdout, _, err := env.run(t, "--config", path, "sync")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "watch:"+filepath.Join(env.sourceRoot, "app-templates")))

	_, _, err = env.run(t, "--config", filepath.Join(t.TempDir(), "missing.toml"), "sync")
	require.Error(t, err)
	assert.Equal(t, errors.ErrConfigLoad, errors.GetErrorCode(err))
}

func TestVersionCommand(t *testing.T) {
	env := setupEnv(t)
	stdout, _, err := env.run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "stencil version "))
}

func TestCompletionCommand(t *testing.T) {
	env := setupEnv(t)
	stdout, _, err := env.run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, stdout, "stencil")

	_, _, err = env.run(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestManCommand(t *testing.T) {
	env := setupEnv(t)
	dir := filepath.Join(t.TempDir(), "man")

	_, _, err := env.run(t, "man", dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "stencil.1"))
	assert.FileExists(t, filepath.Join(dir, "stencil-sync.1"))
}

func TestAffectedSets(t *testing.T) {
	sets := []types.TemplateSet{
		{Name: "app", SourceRoot: "/src/app-templates"},
		{Name: "platform", SourceRoot: "/src/platform-templates"},
	}

	tests := []struct {
		name    string
		changed []string
		want    []string
	}{
		{"nested file", []string{"/src/app-templates/sub/a.txt"}, []string{"app"}},
		{"root itself", []string{"/src/platform-templates"}, []string{"platform"}},
		{"both in set order", []string{"/src/platform-templates/x", "/src/app-templates/y"}, []string{"app", "platform"}},
		{"sibling with shared prefix", []string{"/src/app-templates-old/a"}, nil},
		{"outside", []string{"/elsewhere"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, affectedSets(sets, tt.changed))
		})
	}
}

func TestWatchRoots(t *testing.T) {
	fsys := filesystem.NewMemory()
	for _, dir := range []string{"/src/app-templates/sub", "/src/platform-templates"} {
		require.NoError(t, fsys.MkdirAll(dir, 0755))
	}
	require.NoError(t, fsys.WriteFile("/src/app-templates/a.txt", []byte("a"), 0644))

	reported := []string{
		"/src/app-templates",
		"/src/app-templates/a.txt",
		"/src/app-templates/sub",
		"/src/platform-templates",
		"/src/gone",
	}
	assert.Equal(t, []string{"/src/app-templates", "/src/platform-templates"}, watchRoots(fsys, reported))
	assert.Nil(t, watchRoots(fsys, nil))
}

func TestHelpTopics(t *testing.T) {
	env := setupEnv(t)

	stdout, _, err := env.run(t, "help", "topics")
	require.NoError(t, err)
	for _, name := range []string{"config", "devtools", "layout", "triggers", "--xml"} {
		assert.Contains(t, stdout, "  "+name+"\n")
	}

	stdout, _, err = env.run(t, "help", "triggers")
	require.NoError(t, err)
	assert.Contains(t, stdout, "rerun-if-changed=")

	stdout, _, err = env.run(t, "help", "sync")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Sync computes the plan")
}

func TestWatchCommandSyncsThenStops(t *testing.T) {
	env := setupEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stdout, stderr, err := env.runContext(t, ctx, "watch")
	require.NoError(t, err)

	assert.Contains(t, stdout, "rerun-if-changed=")
	assert.FileExists(t, env.dest("a.txt"))
	assert.Contains(t, stderr, "Watching 1 template sources")
	assert.Contains(t, stderr, MsgWatchStopped)
}
