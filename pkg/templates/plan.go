package templates

import (
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/stencil/pkg/errors"
	"github.com/arthur-debert/stencil/pkg/types"
)

// Plan is the ordered work for one template set, computed before any
// filesystem mutation.
type Plan struct {
	Set types.TemplateSet `json:"set" yaml:"set"`

	// Actions holds every CreateDirectory action followed by every CopyFile
	// action, each group in walk order.
	Actions []types.Action `json:"actions" yaml:"actions"`

	// Visited holds the source root followed by every source entry walked.
	Visited []string `json:"visited" yaml:"visited"`
}

// Counts returns the number of directories and files in the plan.
func (p *Plan) Counts() (dirs, files int) {
	for _, a := range p.Actions {
		switch a.Type {
		case types.ActionCreateDirectory:
			dirs++
		case types.ActionCopyFile:
			files++
		}
	}
	return dirs, files
}

// PlanSet walks set.SourceRoot and computes its plan. The destination is
// not consulted.
func (s *Synchronizer) PlanSet(set types.TemplateSet) (*Plan, error) {
	if msg := set.Validate(); msg != "" {
		return nil, errors.New(errors.ErrTemplateSetInvalid, msg).
			WithDetail("set", set.Name)
	}

	info, err := s.fs.Stat(set.SourceRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTraverse, "cannot read template source %s", set.SourceRoot).
			WithDetail("set", set.Name)
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrTraverse, "template source %s is not a directory", set.SourceRoot).
			WithDetail("set", set.Name)
	}

	w := &walker{fs: s.fs, visited: []string{set.SourceRoot}}
	if err := w.walk(set.SourceRoot, set.DestinationRoot); err != nil {
		return nil, err
	}

	actions := make([]types.Action, 0, len(w.dirs)+len(w.files))
	actions = append(actions, w.dirs...)
	actions = append(actions, w.files...)

	s.logger.Debug().
		Str("set", set.Name).
		Int("directories", len(w.dirs)).
		Int("files", len(w.files)).
		Msg("Computed template plan")

	return &Plan{Set: set, Actions: actions, Visited: w.visited}, nil
}

type walker struct {
	fs      types.FS
	dirs    []types.Action
	files   []types.Action
	visited []string
}

// walk visits src depth first in lexical order, recording one action per
// entry at the matching path under dest.
func (w *walker) walk(src, dest string) error {
	entries, err := w.fs.ReadDir(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrTraverse, "failed to read directory %s", src)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		destPath := filepath.Join(dest, entry.Name())
		w.visited = append(w.visited, srcPath)

		if entry.IsDir() {
			w.dirs = append(w.dirs, types.NewCreateDirectory(destPath))
			if err := w.walk(srcPath, destPath); err != nil {
				return err
			}
			continue
		}
		if entry.Type()&fs.ModeSymlink != 0 {
			if err := w.checkLink(srcPath); err != nil {
				return err
			}
		}
		w.files = append(w.files, types.NewCopyFile(srcPath, destPath))
	}
	return nil
}

// checkLink rejects a symlink that cannot be copied as a file. It runs at
// plan time so a bad link fails the set before the destination is removed.
func (w *walker) checkLink(path string) error {
	info, err := w.fs.Stat(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrTraverse, "cannot follow symlink %s", path)
	}
	if info.IsDir() {
		return errors.Newf(errors.ErrTraverse, "symlinked directory %s is not supported", path)
	}
	return nil
}
