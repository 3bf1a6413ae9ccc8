package stencil

import (
	"fmt"
	"io"

	"github.com/arthur-debert/stencil/internal/version"
	"github.com/arthur-debert/stencil/pkg/command"
	"github.com/arthur-debert/stencil/pkg/config"
	"github.com/arthur-debert/stencil/pkg/filesystem"
	"github.com/arthur-debert/stencil/pkg/logging"
	"github.com/arthur-debert/stencil/pkg/types"
	"github.com/arthur-debert/stencil/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Deps are the external boundaries the commands run against.
type Deps struct {
	FS       types.FS
	Executor command.Executor
	// SetupLogging configures logging for the -v count; nil leaves the
	// global logger untouched.
	SetupLogging func(verbosity int, stderr io.Writer)
}

// DefaultDeps uses the OS filesystem and real process execution.
func DefaultDeps() Deps {
	return Deps{
		FS:           filesystem.NewOS(),
		Executor:     command.NewShellExecutor(),
		SetupLogging: logging.SetupLoggerWithOutput,
	}
}

// app carries the parsed global flags and dependencies into subcommands
type app struct {
	deps       Deps
	verbosity  int
	configFile string
	overrides  []string
	format     string
}

func (a *app) loadConfig() (*config.Config, error) {
	overrides, err := config.ParseOverrides(a.overrides)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(config.LoadOptions{ConfigFile: a.configFile, Overrides: overrides})
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}
	return cfg, nil
}

func (a *app) outputFormat() (ui.Format, error) {
	f, err := ui.ParseFormat(a.format)
	if err != nil {
		return ui.FormatAuto, fmt.Errorf(MsgErrInvalidFormat, err)
	}
	return f, nil
}

func (a *app) renderer(w io.Writer) (ui.Renderer, error) {
	f, err := a.outputFormat()
	if err != nil {
		return nil, err
	}
	return ui.NewRenderer(f, w)
}

// NewRootCmd creates the root command with the default dependencies
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithDeps(DefaultDeps())
}

// NewRootCmdWithDeps creates the root command running against deps
func NewRootCmdWithDeps(deps Deps) *cobra.Command {
	a := &app{deps: deps}

	rootCmd := &cobra.Command{
		Use:     "stencil",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if a.deps.SetupLogging != nil {
				a.deps.SetupLogging(a.verbosity, cmd.ErrOrStderr())
			}
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf(MsgNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringArrayVar(&a.overrides, "set", nil, MsgFlagSet)
	rootCmd.PersistentFlags().StringVar(&a.format, "format", "auto", MsgFlagFormat)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.AddCommand(newSyncCmd(a))
	rootCmd.AddCommand(newPlanCmd(a))
	rootCmd.AddCommand(newWatchCmd(a))
	rootCmd.AddCommand(newDevtoolsCmd(a))
	rootCmd.AddCommand(newDoctorCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	if err := installTopics(rootCmd); err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}

	return rootCmd
}

// setNamesCompletion completes the configured template set names
func setNamesCompletion(a *app) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := a.loadConfig()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}

		var names []string
		for _, name := range cfg.Sync.Sets {
			found := false
			for _, arg := range args {
				if arg == name {
					found = true
					break
				}
			}
			if !found {
				names = append(names, name)
			}
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}
