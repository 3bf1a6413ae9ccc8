package stencil

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/arthur-debert/stencil/pkg/config"
	"github.com/arthur-debert/stencil/pkg/logging"
	"github.com/arthur-debert/stencil/pkg/triggers"
	"github.com/arthur-debert/stencil/pkg/types"
	"github.com/arthur-debert/stencil/pkg/ui"
	"github.com/arthur-debert/stencil/pkg/watch"
	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:               "watch [sets...]",
		Short:             MsgWatchShort,
		Long:              MsgWatchLong,
		GroupID:           "core",
		ValidArgsFunction: setNamesCompletion(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			sets, err := cfg.TemplateSets(args...)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runWatch(ctx, cmd, a, cfg, sets, args)
		},
	}
}

func runWatch(ctx context.Context, cmd *cobra.Command, a *app, cfg *config.Config, sets []types.TemplateSet, names []string) error {
	logger := logging.GetLogger("cmd.watch")
	// the collector keeps the last pass's trigger paths for the watch roots
	collector := &triggers.Collector{}
	reporter := triggers.Multi{
		&triggers.LineReporter{W: cmd.OutOrStdout(), Prefix: cfg.Triggers.Prefix},
		collector,
	}

	format, err := a.outputFormat()
	if err != nil {
		return err
	}
	renderer, err := ui.NewRenderer(format, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	// structured output carries results only
	say := func(msg string) {
		if !format.IsStructured() {
			_ = renderer.RenderMessage(msg)
		}
	}

	result, err := runSync(a, cfg, reporter, names)
	if err != nil {
		return err
	}
	if err := renderer.RenderResult(result); err != nil {
		return err
	}

	roots := watchRoots(a.deps.FS, collector.Paths())
	logger.Debug().Strs("roots", roots).Int("paths", len(collector.Paths())).Msg("Watching reported trigger paths")

	w, err := watch.New(watch.Config{
		Roots:    roots,
		Debounce: cfg.Watch.Debounce,
		OnChange: func(ctx context.Context, changed []string) error {
			affected := affectedSets(sets, changed)
			if len(affected) == 0 {
				return nil
			}
			logger.Info().Strs("sets", affected).Int("changed", len(changed)).Msg("Template sources changed")

			collector.Reset()
			result, err := runSync(a, cfg, reporter, affected)
			logger.Debug().Int("paths", len(collector.Paths())).Msg("Reported trigger paths")
			if err != nil {
				_ = renderer.RenderError(err)
				return err
			}
			return renderer.RenderResult(result)
		},
	})
	if err != nil {
		return err
	}

	say(fmt.Sprintf(MsgWatching, len(roots)))
	if err := w.Run(ctx); err != nil {
		return err
	}
	say(MsgWatchStopped)
	return nil
}

// affectedSets returns the names of the sets whose source tree contains any
// of the changed paths, in set order.
func affectedSets(sets []types.TemplateSet, changed []string) []string {
	var names []string
	for _, set := range sets {
		for _, path := range changed {
			if under(set.SourceRoot, path) {
				names = append(names, set.Name)
				break
			}
		}
	}
	return names
}

// watchRoots picks the outermost directories among the reported trigger
// paths, in report order. Files are covered by their directory's watch.
func watchRoots(fsys types.FS, reported []string) []string {
	var roots []string
next:
	for _, path := range reported {
		info, err := fsys.Stat(path)
		if err != nil || !info.IsDir() {
			continue
		}
		for _, root := range roots {
			if under(root, path) {
				continue next
			}
		}
		roots = append(roots, path)
	}
	return roots
}

// under reports whether path is root or lies below it.
func under(root, path string) bool {
	root, path = filepath.Clean(root), filepath.Clean(path)
	return path == root || strings.HasPrefix(path, root+string(filepath.Separator))
}
