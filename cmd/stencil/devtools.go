package stencil

import (
	"context"

	"github.com/arthur-debert/stencil/pkg/config"
	"github.com/arthur-debert/stencil/pkg/devtools"
	"github.com/arthur-debert/stencil/pkg/ui/display"
	"github.com/spf13/cobra"
)

func newDevtoolsCmd(a *app) *cobra.Command {
	var useXML bool

	cmd := &cobra.Command{
		Use:     "devtools",
		Short:   MsgDevtoolsShort,
		Long:    MsgDevtoolsLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			xml := useXML || cfg.Devtools.Mode == config.DevtoolsModeXML
			v, detectErr := detectDevtools(cmd.Context(), a, xml)

			renderer, err := a.renderer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := renderer.RenderResult(display.NewDevtoolsResult(v, detectErr)); err != nil {
				return err
			}

			if detectErr != nil {
				code := ExitFailure
				if devtools.KindOf(detectErr) == devtools.KindToolsMissing {
					code = ExitToolsMissing
				}
				return &ExitError{Code: code, Err: detectErr, Reported: true}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&useXML, "xml", false, MsgFlagXML)
	return cmd
}

func detectDevtools(ctx context.Context, a *app, xml bool) (devtools.Version, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if xml {
		return devtools.DetectVersionXML(ctx, a.deps.Executor)
	}
	return devtools.DetectVersion(ctx, a.deps.Executor)
}
