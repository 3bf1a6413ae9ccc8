package types

import (
	"path/filepath"
	"strings"
)

// TemplateSet is one named category of templates (e.g. "platform", "app")
// mirrored from SourceRoot into DestinationRoot. Template sets are built
// fresh for every synchronization run and never persisted.
type TemplateSet struct {
	// Name identifies the set
	Name string `json:"name" yaml:"name"`

	// SourceRoot is the directory the templates are read from
	SourceRoot string `json:"source_root" yaml:"source_root"`

	// DestinationRoot is the directory the templates are mirrored into.
	// It is derived from the product identifier and Name, see
	// paths.TemplateSetDir.
	DestinationRoot string `json:"destination_root" yaml:"destination_root"`
}

// Validate reports the first problem with the set, if any: a missing
// field, or roots that overlap. Syncing overlapping roots would remove the
// source before it is copied.
func (s TemplateSet) Validate() string {
	switch {
	case strings.TrimSpace(s.Name) == "":
		return "template set name is empty"
	case s.SourceRoot == "":
		return "template set source root is empty"
	case s.DestinationRoot == "":
		return "template set destination root is empty"
	case within(s.SourceRoot, s.DestinationRoot) || within(s.DestinationRoot, s.SourceRoot):
		return "template set source root and destination root overlap"
	}
	return ""
}

// within reports whether path equals parent or lies below it.
func within(parent, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(parent), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
