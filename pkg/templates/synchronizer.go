package templates

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/stencil/pkg/errors"
	"github.com/arthur-debert/stencil/pkg/logging"
	"github.com/arthur-debert/stencil/pkg/paths"
	"github.com/arthur-debert/stencil/pkg/triggers"
	"github.com/arthur-debert/stencil/pkg/types"
	"github.com/rs/zerolog"
)

const dirPerm = 0755

// Result is the outcome of a successful Sync.
type Result struct {
	Plan *Plan `json:"plan" yaml:"plan"`
	// Applied is the number of actions executed
	Applied int `json:"applied" yaml:"applied"`
	// Replaced is true when a previous destination tree was removed
	Replaced bool `json:"replaced" yaml:"replaced"`
}

// Synchronizer mirrors template sets through a types.FS.
type Synchronizer struct {
	fs       types.FS
	reporter triggers.Reporter
	logger   zerolog.Logger
}

// NewSynchronizer creates a Synchronizer. A nil reporter discards reports.
func NewSynchronizer(fs types.FS, reporter triggers.Reporter) *Synchronizer {
	if reporter == nil {
		reporter = triggers.Nop
	}
	return &Synchronizer{
		fs:       fs,
		reporter: reporter,
		logger:   logging.GetLogger("templates"),
	}
}

// Sync plans set, reports the visited source paths, removes the existing
// destination tree and applies the plan.
func (s *Synchronizer) Sync(set types.TemplateSet) (*Result, error) {
	defer logging.LogOperationStart(s.logger, "sync "+set.Name)()

	plan, err := s.PlanSet(set)
	if err != nil {
		return nil, err
	}

	for _, path := range plan.Visited {
		if err := s.reporter.Report(path); err != nil {
			return nil, errors.Wrapf(err, errors.ErrTriggerReport, "failed to report %s", path)
		}
	}

	replaced, err := s.removeExisting(set.DestinationRoot)
	if err != nil {
		return nil, err
	}

	result := &Result{Plan: plan, Replaced: replaced}
	for _, action := range plan.Actions {
		if err := s.apply(action); err != nil {
			s.logger.Error().
				Err(err).
				Str("set", set.Name).
				Int("applied", result.Applied).
				Int("total", len(plan.Actions)).
				Msg("Template sync aborted")
			return result, err
		}
		result.Applied++
	}

	s.logger.Info().
		Str("set", paths.Describe(set.Name, set.SourceRoot, set.DestinationRoot)).
		Int("actions", result.Applied).
		Bool("replaced", replaced).
		Msg("Template set synchronized")
	return result, nil
}

// SyncAll synchronizes sets in order and stops at the first error. The
// results of the sets completed so far are returned with it.
func (s *Synchronizer) SyncAll(sets []types.TemplateSet) ([]*Result, error) {
	results := make([]*Result, 0, len(sets))
	for _, set := range sets {
		result, err := s.Sync(set)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

// RemoveLegacyDir deletes path if it is a directory. It reports whether
// anything was removed.
func (s *Synchronizer) RemoveLegacyDir(path string) (bool, error) {
	info, err := s.fs.Stat(path)
	if err != nil || !info.IsDir() {
		return false, nil
	}
	if err := s.fs.RemoveAll(path); err != nil {
		return false, errors.Wrapf(err, errors.ErrFileRemove, "failed to delete obsolete templates directory %s", path)
	}
	s.logger.Info().Str("path", path).Msg("Removed obsolete templates directory")
	return true, nil
}

func (s *Synchronizer) removeExisting(dest string) (bool, error) {
	if _, err := s.fs.Stat(dest); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect destination %s", dest)
	}
	if err := s.fs.RemoveAll(dest); err != nil {
		return false, errors.Wrapf(err, errors.ErrFileRemove, "failed to delete old templates at %s", dest)
	}
	s.logger.Debug().Str("dest", dest).Msg("Removed stale destination")
	return true, nil
}

func (s *Synchronizer) apply(action types.Action) error {
	switch action.Type {
	case types.ActionCreateDirectory:
		if err := s.fs.MkdirAll(action.Dest, dirPerm); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory %s", action.Dest)
		}
	case types.ActionCopyFile:
		if err := s.copyFile(action.Source, action.Dest); err != nil {
			return err
		}
	default:
		return errors.Newf(errors.ErrInternal, "unsupported action type %q", action.Type)
	}
	s.logger.Trace().Str("action", action.Description()).Msg("Applied action")
	return nil
}

// copyFile copies src to dest byte for byte with src's permission bits.
// The parent of dest is created when missing; plans carry no
// CreateDirectory action for the set root itself.
func (s *Synchronizer) copyFile(src, dest string) error {
	info, err := s.fs.Stat(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "failed to stat %s", src)
	}
	data, err := s.fs.ReadFile(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "failed to read %s", src)
	}
	if err := s.fs.MkdirAll(filepath.Dir(dest), dirPerm); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory %s", filepath.Dir(dest))
	}
	if err := s.fs.WriteFile(dest, data, info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "failed to copy %s to %s", src, dest)
	}
	return nil
}
