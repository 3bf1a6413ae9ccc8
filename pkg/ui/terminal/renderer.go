// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"

	"github.com/arthur-debert/stencil/pkg/style"
	"github.com/arthur-debert/stencil/pkg/types"
	"github.com/arthur-debert/stencil/pkg/ui/display"
	"github.com/pterm/pterm"
)

// Renderer provides rich terminal output using lipgloss styles
type Renderer struct {
	output   io.Writer
	writeErr error
}

// New creates a new terminal renderer
func New(w io.Writer) *Renderer {
	return &Renderer{output: w}
}

// RenderResult renders any result type with rich terminal formatting
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *display.PlanResult:
		r.renderPlan(v)
	case *display.SyncResult:
		r.renderSync(v)
	case *display.DevtoolsResult:
		r.renderDevtools(v)
	case *display.DoctorResult:
		r.renderDoctor(v)
	default:
		r.println(fmt.Sprintf("%+v", result))
	}
	err := r.writeErr
	r.writeErr = nil
	return err
}

func (r *Renderer) renderPlan(p *display.PlanResult) {
	for i, set := range p.Sets {
		if i > 0 {
			r.println("")
		}
		r.println(fmt.Sprintf("%s %s %s",
			style.TitleStyle.Render(set.Name),
			style.PathStyle.Render(set.Source),
			style.MutedStyle.Render("→ "+set.Destination)))
		if len(set.Actions) == 0 {
			r.println(style.Indent(style.MutedStyle.Render("nothing to do"), 1))
			continue
		}
		for _, a := range set.Actions {
			label := "dir "
			target := a.Dest
			if a.Type == types.ActionCopyFile {
				label = "file"
			}
			r.println(style.Indent(fmt.Sprintf("%s %s",
				style.ActionStyle(a.Type).Render(label), target), 1))
		}
	}
}

func (r *Renderer) renderSync(s *display.SyncResult) {
	if s.LegacyRemoved != "" {
		r.println(fmt.Sprintf("%s removed obsolete %s", style.WarningIndicator, style.PathStyle.Render(s.LegacyRemoved)))
	}
	for _, set := range s.Sets {
		line := fmt.Sprintf("%s %s %s %s",
			style.SuccessIndicator,
			style.TitleStyle.Render(set.Name),
			style.MutedStyle.Render(fmt.Sprintf("%d dirs, %d files →", set.Directories, set.Files)),
			style.PathStyle.Render(set.Destination))
		if set.Replaced {
			line += style.MutedStyle.Render(" (replaced)")
		}
		r.println(line)
	}
}

func (r *Renderer) renderDevtools(d *display.DevtoolsResult) {
	if d.Found {
		r.println(fmt.Sprintf("%s developer tools %s", style.SuccessIndicator, style.Bold(d.Version)))
		return
	}
	indicator := style.ErrorIndicator
	if d.Kind == "tools_missing" {
		indicator = style.WarningIndicator
	}
	r.println(fmt.Sprintf("%s %s", indicator, d.Message))
}

func (r *Renderer) renderDoctor(d *display.DoctorResult) {
	data := pterm.TableData{{"", "Check", "Result"}}
	for _, c := range d.Checks {
		indicator := style.SuccessIndicator
		switch c.Status {
		case display.StatusWarning:
			indicator = style.WarningIndicator
		case display.StatusError:
			indicator = style.ErrorIndicator
		}
		data = append(data, []string{indicator, style.Bold(c.Name), style.MutedStyle.Render(c.Message)})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		r.writeErr = err
		return
	}
	r.println(table)
}

// RenderError renders an error with appropriate formatting
func (r *Renderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.output, "%s %s\n", style.ErrorIndicator, style.ErrorStyle.Render(err.Error()))
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintf(r.output, "%s %s\n", style.InfoIndicator, msg)
	return err
}

func (r *Renderer) println(s string) {
	if r.writeErr != nil {
		return
	}
	_, r.writeErr = fmt.Fprintln(r.output, s)
}
