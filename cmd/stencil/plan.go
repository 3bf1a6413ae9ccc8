package stencil

import (
	"github.com/arthur-debert/stencil/pkg/templates"
	"github.com/arthur-debert/stencil/pkg/ui/display"
	"github.com/spf13/cobra"
)

func newPlanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:               "plan [sets...]",
		Short:             MsgPlanShort,
		Long:              MsgPlanLong,
		Example:           MsgPlanExample,
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

			sync := templates.NewSynchronizer(a.deps.FS, nil)
			plans := make([]*templates.Plan, 0, len(sets))
			for _, set := range sets {
				plan, err := sync.PlanSet(set)
				if err != nil {
					return err
				}
				plans = append(plans, plan)
			}

			renderer, err := a.renderer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return renderer.RenderResult(display.NewPlanResult(plans))
		},
	}
}
