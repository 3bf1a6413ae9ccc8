package stencil

// Short messages (one-liners)
const (
	MsgRootShort       = "Mirror template sets and probe developer tools"
	MsgSyncShort       = "Synchronize template sets into the user directory"
	MsgPlanShort       = "Show the actions a sync would perform"
	MsgDevtoolsShort   = "Detect the installed developer tools version"
	MsgDoctorShort     = "Check configuration, template sources and tools"
	MsgWatchShort      = "Re-run sync whenever template sources change"
	MsgConfigShort     = "Print the effective configuration"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages"
)

// Long descriptions
const (
	MsgRootLong = `stencil mirrors named template trees (<set>-templates) from a source
directory into <user_root>/.<product>/<set>-templates, replacing whatever was
there before, and probes external developer tools through their output.`

	MsgSyncLong = `Sync computes the plan for every template set, prints one build trigger
line per source path on stdout, deletes the existing destination tree and
recreates it from the source.

With no arguments the sets listed in sync.sets are synchronized.`

	MsgPlanLong = `Plan walks the template sources and prints the create and copy actions
without touching the destination.`

	MsgDevtoolsLong = `Devtools runs system_profiler once and reports the developer tools
version.

Exit status is 0 when a version was found, 3 when the tools are not
installed and 1 for every other failure.`

	MsgDoctorLong = `Doctor reports whether each configured template source exists, whether it
has been synchronized, and whether the developer tools can be probed.`

	MsgWatchLong = `Watch synchronizes once and then re-synchronizes the affected sets each
time files under their sources change. Stop it with Ctrl-C.`

	MsgCompletionLong = `To load completions:

Bash:
  $ source <(stencil completion bash)

Zsh:
  $ stencil completion zsh > "${fpath[1]}/_stencil"

Fish:
  $ stencil completion fish > ~/.config/fish/completions/stencil.fish`

	MsgConfigLong = `Config prints the configuration after merging the built-in defaults, the
user file, --config and STENCIL_* environment variables.`
)

// Examples
const (
	MsgSyncExample = `  stencil sync
  stencil sync app
  STENCIL_SYNC__SOURCE_ROOT=./templates stencil sync`

	MsgPlanExample = `  stencil plan
  stencil plan --format json platform`
)

// Flags
const (
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig   = "Config file layered over the user config"
	MsgFlagSet      = "Override a config key, e.g. --set sync.product=acme (repeatable)"
	MsgFlagFormat   = "Output format: auto, term, text, json or yaml"
	MsgFlagXML      = "Parse the plist report instead of the text report"
	MsgFlagDefaults = "Print the built-in defaults instead of the effective configuration"
)

// Status and error messages
const (
	MsgNoCommand        = "no command specified"
	MsgWatching         = "Watching %d template sources, press Ctrl-C to stop"
	MsgWatchStopped     = "Stopped watching"
	MsgVersionFormat    = "stencil version %s\n  commit: %s\n  built:  %s\n"
	MsgManWritten       = "Man pages written to %s"
	MsgErrLoadConfig    = "failed to load configuration: %w"
	MsgErrInvalidFormat = "invalid --format: %w"
	MsgErrUnhealthy     = "doctor found problems"
)
