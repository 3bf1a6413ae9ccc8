package types

import "fmt"

// ActionType defines the kind of filesystem work an Action performs
type ActionType string

const (
	// ActionCreateDirectory creates a directory at Dest
	ActionCreateDirectory ActionType = "create_directory"

	// ActionCopyFile copies Source to Dest byte for byte
	ActionCopyFile ActionType = "copy_file"
)

// Action is one unit of synchronization work. Actions are computed before
// any filesystem mutation happens.
type Action struct {
	// Type is the type of action
	Type ActionType `json:"type" yaml:"type"`

	// Source is the source path. Empty for ActionCreateDirectory.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// Dest is the destination path
	Dest string `json:"dest" yaml:"dest"`
}

// NewCreateDirectory returns an action creating dest.
func NewCreateDirectory(dest string) Action {
	return Action{Type: ActionCreateDirectory, Dest: dest}
}

// NewCopyFile returns an action copying src to dest.
func NewCopyFile(src, dest string) Action {
	return Action{Type: ActionCopyFile, Source: src, Dest: dest}
}

// Description returns a human readable description of the action
func (a Action) Description() string {
	switch a.Type {
	case ActionCreateDirectory:
		return fmt.Sprintf("create directory %s", a.Dest)
	case ActionCopyFile:
		return fmt.Sprintf("copy %s to %s", a.Source, a.Dest)
	default:
		return fmt.Sprintf("%s %s", a.Type, a.Dest)
	}
}
