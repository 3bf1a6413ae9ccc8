package stencil

import (
	"fmt"
	"os"

	"github.com/arthur-debert/stencil/pkg/config"
	"github.com/arthur-debert/stencil/pkg/devtools"
	"github.com/arthur-debert/stencil/pkg/templates"
	"github.com/arthur-debert/stencil/pkg/ui/display"
	"github.com/spf13/cobra"
)

func newDoctorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "doctor",
		Short:   MsgDoctorShort,
		Long:    MsgDoctorLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result := &display.DoctorResult{}

			cfg, err := a.loadConfig()
			if err != nil {
				result.Checks = append(result.Checks, display.Check{
					Name: "config", Status: display.StatusError, Message: err.Error(),
				})
			} else {
				result.Checks = append(result.Checks, display.Check{
					Name: "config", Status: display.StatusOK, Message: "loaded",
				})
				result.Checks = append(result.Checks, setChecks(a, cfg)...)

				xml := cfg.Devtools.Mode == config.DevtoolsModeXML
				v, detectErr := detectDevtools(cmd.Context(), a, xml)
				result.Checks = append(result.Checks, devtoolsCheck(v, detectErr))
			}

			renderer, err := a.renderer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := renderer.RenderResult(result); err != nil {
				return err
			}
			if !result.Healthy() {
				return &ExitError{Code: ExitFailure, Err: fmt.Errorf(MsgErrUnhealthy), Reported: true}
			}
			return nil
		},
	}
}

func setChecks(a *app, cfg *config.Config) []display.Check {
	var checks []display.Check

	sets, err := cfg.TemplateSets()
	if err != nil {
		return append(checks, display.Check{Name: "sets", Status: display.StatusError, Message: err.Error()})
	}

	sync := templates.NewSynchronizer(a.deps.FS, nil)
	for _, set := range sets {
		plan, err := sync.PlanSet(set)
		if err != nil {
			checks = append(checks, display.Check{
				Name: set.Name + " source", Status: display.StatusError, Message: err.Error(),
			})
			continue
		}
		dirs, files := plan.Counts()
		checks = append(checks, display.Check{
			Name:    set.Name + " source",
			Status:  display.StatusOK,
			Message: fmt.Sprintf("%s (%d directories, %d files)", set.SourceRoot, dirs, files),
		})

		if _, err := a.deps.FS.Stat(set.DestinationRoot); err != nil {
			checks = append(checks, display.Check{
				Name: set.Name + " destination", Status: display.StatusWarning,
				Message: fmt.Sprintf("%s has not been synchronized", set.DestinationRoot),
			})
		} else {
			checks = append(checks, display.Check{
				Name: set.Name + " destination", Status: display.StatusOK, Message: set.DestinationRoot,
			})
		}
	}

	legacy := cfg.LegacyDir()
	if _, err := a.deps.FS.Stat(legacy); err == nil {
		msg := fmt.Sprintf("%s is obsolete, enable sync.remove_legacy to delete it", legacy)
		if cfg.Sync.RemoveLegacy {
			msg = fmt.Sprintf("%s is obsolete and will be removed on the next sync", legacy)
		}
		checks = append(checks, display.Check{Name: "legacy templates", Status: display.StatusWarning, Message: msg})
	} else if !os.IsNotExist(err) {
		checks = append(checks, display.Check{Name: "legacy templates", Status: display.StatusError, Message: err.Error()})
	}

	return checks
}

// devtoolsCheck treats an unusable or missing tool as a warning and output
// the parser cannot read as an error.
func devtoolsCheck(v devtools.Version, err error) display.Check {
	if err == nil {
		return display.Check{Name: "devtools", Status: display.StatusOK, Message: v.String()}
	}
	status := display.StatusError
	switch devtools.KindOf(err) {
	case devtools.KindCommandFailed, devtools.KindToolsMissing:
		status = display.StatusWarning
	}
	return display.Check{Name: "devtools", Status: status, Message: err.Error()}
}
