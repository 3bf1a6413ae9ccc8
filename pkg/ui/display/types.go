// Package display holds the view models every renderer understands. They
// are built from the synchronizer and probe results and carry json/yaml
// tags for the structured formats.
package display

import (
	"github.com/arthur-debert/stencil/pkg/devtools"
	"github.com/arthur-debert/stencil/pkg/templates"
	"github.com/arthur-debert/stencil/pkg/types"
)

// SetPlan is the plan of one template set
type SetPlan struct {
	Name        string         `json:"name" yaml:"name"`
	Source      string         `json:"source" yaml:"source"`
	Destination string         `json:"destination" yaml:"destination"`
	Actions     []types.Action `json:"actions" yaml:"actions"`
	Visited     []string       `json:"visited" yaml:"visited"`
}

// PlanResult is rendered by `stencil plan`
type PlanResult struct {
	Sets []SetPlan `json:"sets" yaml:"sets"`
}

// SetSync summarizes one synchronized set
type SetSync struct {
	Name        string `json:"name" yaml:"name"`
	Destination string `json:"destination" yaml:"destination"`
	Directories int    `json:"directories" yaml:"directories"`
	Files       int    `json:"files" yaml:"files"`
	Replaced    bool   `json:"replaced" yaml:"replaced"`
}

// SyncResult is rendered by `stencil sync`
type SyncResult struct {
	Sets []SetSync `json:"sets" yaml:"sets"`
	// LegacyRemoved is the obsolete directory deleted before syncing, if any
	LegacyRemoved string `json:"legacyRemoved,omitempty" yaml:"legacy_removed,omitempty"`
}

// DevtoolsResult is rendered by `stencil devtools`
type DevtoolsResult struct {
	Found   bool   `json:"found" yaml:"found"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	Major   uint32 `json:"major,omitempty" yaml:"major,omitempty"`
	Minor   uint32 `json:"minor,omitempty" yaml:"minor,omitempty"`
	// Kind is the devtools error kind when detection failed
	Kind    string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Status of a doctor check
type Status string

const (
	StatusOK      Status = "ok"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// Check is one line of the doctor report
type Check struct {
	Name    string `json:"name" yaml:"name"`
	Status  Status `json:"status" yaml:"status"`
	Message string `json:"message" yaml:"message"`
}

// DoctorResult is rendered by `stencil doctor`
type DoctorResult struct {
	Checks []Check `json:"checks" yaml:"checks"`
}

// Healthy reports whether no check failed. Warnings do not count.
func (d *DoctorResult) Healthy() bool {
	for _, c := range d.Checks {
		if c.Status == StatusError {
			return false
		}
	}
	return true
}

// NewPlanResult converts synchronizer plans.
func NewPlanResult(plans []*templates.Plan) *PlanResult {
	result := &PlanResult{Sets: make([]SetPlan, 0, len(plans))}
	for _, p := range plans {
		result.Sets = append(result.Sets, SetPlan{
			Name:        p.Set.Name,
			Source:      p.Set.SourceRoot,
			Destination: p.Set.DestinationRoot,
			Actions:     p.Actions,
			Visited:     p.Visited,
		})
	}
	return result
}

// NewSyncResult converts synchronizer results.
func NewSyncResult(results []*templates.Result, legacyRemoved string) *SyncResult {
	out := &SyncResult{Sets: make([]SetSync, 0, len(results)), LegacyRemoved: legacyRemoved}
	for _, r := range results {
		dirs, files := r.Plan.Counts()
		out.Sets = append(out.Sets, SetSync{
			Name:        r.Plan.Set.Name,
			Destination: r.Plan.Set.DestinationRoot,
			Directories: dirs,
			Files:       files,
			Replaced:    r.Replaced,
		})
	}
	return out
}

// NewDevtoolsResult converts the outcome of a version probe.
func NewDevtoolsResult(v devtools.Version, err error) *DevtoolsResult {
	if err != nil {
		return &DevtoolsResult{Kind: devtools.KindOf(err).String(), Message: err.Error()}
	}
	return &DevtoolsResult{Found: true, Version: v.String(), Major: v.Major, Minor: v.Minor}
}
