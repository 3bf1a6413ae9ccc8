// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"

	"github.com/arthur-debert/stencil/pkg/types"
	"github.com/arthur-debert/stencil/pkg/ui/display"
)

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output   io.Writer
	writeErr error
}

// New creates a new text renderer
func New(output io.Writer) *Renderer {
	return &Renderer{output: output}
}

// RenderResult renders any result type as plain text
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *display.PlanResult:
		return r.renderPlan(v)
	case *display.SyncResult:
		return r.renderSync(v)
	case *display.DevtoolsResult:
		return r.renderDevtools(v)
	case *display.DoctorResult:
		return r.renderDoctor(v)
	default:
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
}

func (r *Renderer) renderPlan(p *display.PlanResult) error {
	for i, set := range p.Sets {
		if i > 0 {
			r.printf("\n")
		}
		r.printf("%s: %s -> %s\n", set.Name, set.Source, set.Destination)
		if len(set.Actions) == 0 {
			r.printf("  nothing to do\n")
			continue
		}
		dirs, files := 0, 0
		for _, a := range set.Actions {
			if a.Type == types.ActionCreateDirectory {
				dirs++
			} else {
				files++
			}
			r.printf("  %s\n", a.Description())
		}
		r.printf("  (%d directories, %d files)\n", dirs, files)
	}
	return r.err()
}

func (r *Renderer) renderSync(s *display.SyncResult) error {
	if s.LegacyRemoved != "" {
		r.printf("removed obsolete templates directory %s\n", s.LegacyRemoved)
	}
	for _, set := range s.Sets {
		replaced := ""
		if set.Replaced {
			replaced = " (replaced)"
		}
		r.printf("%s: %d directories, %d files -> %s%s\n",
			set.Name, set.Directories, set.Files, set.Destination, replaced)
	}
	return r.err()
}

func (r *Renderer) renderDevtools(d *display.DevtoolsResult) error {
	if d.Found {
		r.printf("developer tools %s\n", d.Version)
	} else {
		r.printf("Error [%s]: %s\n", d.Kind, d.Message)
	}
	return r.err()
}

func (r *Renderer) renderDoctor(d *display.DoctorResult) error {
	for _, c := range d.Checks {
		r.printf("[%s] %s: %s\n", c.Status, c.Name, c.Message)
	}
	return r.err()
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	_, err2 := fmt.Fprintf(r.output, "Error: %v\n", err)
	return err2
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

// printf remembers the first write error so render methods can report it
// once at the end.
func (r *Renderer) printf(format string, args ...interface{}) {
	if r.writeErr != nil {
		return
	}
	_, r.writeErr = fmt.Fprintf(r.output, format, args...)
}

func (r *Renderer) err() error {
	err := r.writeErr
	r.writeErr = nil
	return err
}
