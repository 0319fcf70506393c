package materialize

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/Serenacula/templative/pkg/errors"
	"github.com/Serenacula/templative/pkg/types"
)

type entryKind int

const (
	kindDir entryKind = iota
	kindFile
	kindSymlink
)

type action int

const (
	actCreate action = iota
	actOverwrite
	actSkip
)

// planEntry is the computed fate of one source-tree node.
type planEntry struct {
	rel  string
	kind entryKind
	act  action
	perm os.FileMode
	// resolved is the final chain target for symlinks in resolve mode,
	// computed during planning so cycles abort before any write.
	resolved string
}

// buildPlan walks the source tree in lexical order and classifies every
// entry against the current destination state and write mode. Fatal
// collisions (no-overwrite) and symlink cycles (resolve mode) surface
// here, before execution writes anything.
func (e *Engine) buildPlan(ctx *copyContext) ([]planEntry, error) {
	var plan []planEntry
	if err := e.planDir(ctx, "", &plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (e *Engine) planDir(ctx *copyContext, relDir string, plan *[]planEntry) error {
	dirPath := filepath.Join(ctx.source, relDir)
	dirEntries, err := os.ReadDir(dirPath)
	if err != nil {
		if relDir == "" {
			return errors.Wrapf(err, errors.ErrSourceUnreadable, "template source unreadable: %s", dirPath)
		}
		return errors.Wrapf(err, errors.ErrIoFailure, "failed to read directory %s", dirPath)
	}

	// os.ReadDir sorts by name, which gives the deterministic
	// traversal order diagnostics rely on.
	for _, dirEntry := range dirEntries {
		rel := filepath.Join(relDir, dirEntry.Name())
		if ctx.excl.skip(rel) {
			e.logger.Debug().Str("path", rel).Msg("Excluded")
			continue
		}

		info, err := dirEntry.Info()
		if err != nil {
			return errors.Wrapf(err, errors.ErrIoFailure, "failed to stat %s", rel)
		}

		switch {
		case dirEntry.IsDir():
			if err := e.planDirEntry(ctx, rel, info, plan); err != nil {
				return err
			}
		case info.Mode()&fs.ModeSymlink != 0:
			if err := e.planSymlinkEntry(ctx, rel, plan); err != nil {
				return err
			}
		case info.Mode().IsRegular():
			if err := e.planFileEntry(ctx, rel, info, plan); err != nil {
				return err
			}
		default:
			// Sockets, fifos and devices have no meaning in a template.
			e.logger.Debug().Str("path", rel).Msg("Skipping special file")
		}
	}
	return nil
}

func (e *Engine) planDirEntry(ctx *copyContext, rel string, info os.FileInfo, plan *[]planEntry) error {
	dest := filepath.Join(ctx.target, rel)
	destInfo, err := os.Lstat(dest)
	switch {
	case destMissing(err):
		*plan = append(*plan, planEntry{rel: rel, kind: kindDir, act: actCreate, perm: info.Mode()})
	case err != nil:
		return errors.Wrapf(err, errors.ErrIoFailure, "failed to inspect destination %s", dest)
	case destInfo.IsDir():
		// Directory collision: descend and merge.
	default:
		// A non-directory sits where a directory must go.
		act, err := e.collisionAction(rel)
		if err != nil {
			return err
		}
		if act == actSkip {
			e.logger.Debug().Str("path", rel).Msg("Skipping subtree, destination entry kept")
			*plan = append(*plan, planEntry{rel: rel, kind: kindDir, act: actSkip, perm: info.Mode()})
			return nil
		}
		*plan = append(*plan, planEntry{rel: rel, kind: kindDir, act: actOverwrite, perm: info.Mode()})
	}
	return e.planDir(ctx, rel, plan)
}

func (e *Engine) planFileEntry(ctx *copyContext, rel string, info os.FileInfo, plan *[]planEntry) error {
	act, err := e.destAction(ctx, rel)
	if err != nil {
		return err
	}
	*plan = append(*plan, planEntry{rel: rel, kind: kindFile, act: act, perm: info.Mode()})
	return nil
}

func (e *Engine) planSymlinkEntry(ctx *copyContext, rel string, plan *[]planEntry) error {
	entry := planEntry{rel: rel, kind: kindSymlink}

	// Resolve mode must walk the full chain before any write so a
	// cycle aborts the whole materialization.
	if e.opts.Symlinks == types.SymlinkResolve {
		resolved, err := resolveChain(filepath.Join(ctx.source, rel))
		if err != nil {
			return err
		}
		entry.resolved = resolved
	}

	act, err := e.destAction(ctx, rel)
	if err != nil {
		return err
	}
	entry.act = act
	*plan = append(*plan, entry)
	return nil
}

// destAction applies the write-mode collision table for a non-directory
// entry landing at rel.
func (e *Engine) destAction(ctx *copyContext, rel string) (action, error) {
	dest := filepath.Join(ctx.target, rel)
	if _, err := os.Lstat(dest); err != nil {
		if destMissing(err) {
			return actCreate, nil
		}
		return 0, errors.Wrapf(err, errors.ErrIoFailure, "failed to inspect destination %s", dest)
	}
	return e.collisionAction(rel)
}

// destMissing reports stat errors meaning nothing usable exists at the
// destination: the path is absent, or a parent component is a non-dir
// that an earlier overwrite entry will have replaced by execution time.
func destMissing(err error) bool {
	if err == nil {
		return false
	}
	return os.IsNotExist(err) || stderrors.Is(err, syscall.ENOTDIR)
}

// collisionAction maps (write mode, collision) to an action. Strict
// cannot collide: the target was verified empty before planning.
func (e *Engine) collisionAction(rel string) (action, error) {
	switch e.opts.WriteMode {
	case types.WriteOverwrite:
		return actOverwrite, nil
	case types.WriteSkipOverwrite:
		return actSkip, nil
	case types.WriteNoOverwrite:
		return 0, errors.Newf(errors.ErrCollisionNoOverwrite, "destination entry already exists: %s", rel).
			WithDetail("path", rel)
	case types.WriteAsk:
		if e.prompter == nil {
			return 0, errors.New(errors.ErrInvalidInput, "ask write mode requires an interactive prompt")
		}
		overwrite, err := e.prompter.ConfirmOverwrite(rel)
		if err != nil {
			return 0, errors.Wrapf(err, errors.ErrIoFailure, "failed to read answer for %s", rel)
		}
		if overwrite {
			return actOverwrite, nil
		}
		return actSkip, nil
	default:
		return 0, errors.Newf(errors.ErrInvalidInput, "unexpected collision in %s mode at %s", e.opts.WriteMode, rel)
	}
}
