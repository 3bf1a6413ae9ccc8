package stencil

import (
	"github.com/arthur-debert/stencil/pkg/config"
	"github.com/arthur-debert/stencil/pkg/logging"
	"github.com/arthur-debert/stencil/pkg/templates"
	"github.com/arthur-debert/stencil/pkg/triggers"
	"github.com/arthur-debert/stencil/pkg/ui/display"
	"github.com/spf13/cobra"
)

func newSyncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:               "sync [sets...]",
		Short:             MsgSyncShort,
		Long:              MsgSyncLong,
		Example:           MsgSyncExample,
		GroupID:           "core",
		ValidArgsFunction: setNamesCompletion(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			reporter := &triggers.LineReporter{W: cmd.OutOrStdout(), Prefix: cfg.Triggers.Prefix}
			result, err := runSync(a, cfg, reporter, args)
			if err != nil {
				return err
			}

			renderer, err := a.renderer(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return renderer.RenderResult(result)
		},
	}
}

// runSync removes the legacy directory when configured and synchronizes the
// named sets (all configured sets when names is empty).
func runSync(a *app, cfg *config.Config, reporter triggers.Reporter, names []string) (*display.SyncResult, error) {
	logger := logging.GetLogger("cmd.sync")

	sets, err := cfg.TemplateSets(names...)
	if err != nil {
		return nil, err
	}

	sync := templates.NewSynchronizer(a.deps.FS, reporter)

	legacyRemoved := ""
	if cfg.Sync.RemoveLegacy {
		removed, err := sync.RemoveLegacyDir(cfg.LegacyDir())
		if err != nil {
			return nil, err
		}
		if removed {
			legacyRemoved = cfg.LegacyDir()
		}
	}

	logger.Info().
		Str("product", cfg.Sync.Product).
		Int("sets", len(sets)).
		Msg("Synchronizing template sets")

	results, err := sync.SyncAll(sets)
	if err != nil {
		return nil, err
	}
	return display.NewSyncResult(results, legacyRemoved), nil
}
