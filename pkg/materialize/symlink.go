package materialize

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Serenacula/templative/pkg/errors"
	"github.com/Serenacula/templative/pkg/types"
)

// materializeSymlink reproduces one symlink at the destination
// according to the configured symlink mode.
func (e *Engine) materializeSymlink(ctx *copyContext, entry planEntry, summary *Summary) error {
	src := filepath.Join(ctx.source, entry.rel)
	dest := filepath.Join(ctx.target, entry.rel)

	text, err := os.Readlink(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIoFailure, "failed to read symlink %s", src)
	}

	switch e.opts.Symlinks {
	case types.SymlinkLiteral:
		// Verbatim target text, no reinterpretation.
		if err := os.Symlink(text, dest); err != nil {
			return errors.Wrapf(err, errors.ErrIoFailure, "failed to create symlink %s", dest)
		}
		summary.FilesWritten++
		return nil

	case types.SymlinkResolve:
		// The chain was resolved (and cycle-checked) during planning.
		return e.copyResolved(entry.resolved, dest, summary)

	default:
		return e.reinterpretSymlink(ctx, entry.rel, src, dest, text, summary)
	}
}

// reinterpretSymlink implements the default mode. Links that resolve
// inside the template become relative so they stay valid after the tree
// relocates; links that resolve outside become absolute; dangling links
// are recreated with their original target text plus a warning.
func (e *Engine) reinterpretSymlink(ctx *copyContext, rel, src, dest, text string, summary *Summary) error {
	joined := text
	if !filepath.IsAbs(joined) {
		joined = filepath.Join(filepath.Dir(src), joined)
	}

	resolved, err := filepath.EvalSymlinks(joined)
	if err != nil {
		e.logger.Warn().Str("path", rel).Str("target", text).Msg("Symlink target does not resolve, copying unresolved")
		summary.SymlinkWarnings++
		if linkErr := os.Symlink(text, dest); linkErr != nil {
			return errors.Wrapf(linkErr, errors.ErrIoFailure, "failed to create symlink %s", dest)
		}
		summary.FilesWritten++
		return nil
	}

	var linkTarget string
	if pathWithin(resolved, ctx.source) {
		insideRel, err := filepath.Rel(ctx.source, resolved)
		if err != nil {
			return errors.Wrapf(err, errors.ErrIoFailure, "failed to relativize symlink target %s", resolved)
		}
		mapped := filepath.Join(ctx.target, insideRel)
		linkTarget, err = filepath.Rel(filepath.Dir(dest), mapped)
		if err != nil {
			return errors.Wrapf(err, errors.ErrIoFailure, "failed to relativize symlink %s", dest)
		}
	} else {
		linkTarget = resolved
	}

	if err := os.Symlink(linkTarget, dest); err != nil {
		return errors.Wrapf(err, errors.ErrIoFailure, "failed to create symlink %s", dest)
	}
	summary.FilesWritten++
	return nil
}

// copyResolved places a real copy of the chain's final target at dest.
// Directories are copied recursively; symlinks inside a copied
// directory are reproduced verbatim.
func (e *Engine) copyResolved(resolved, dest string, summary *Summary) error {
	info, err := os.Stat(resolved)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIoFailure, "failed to stat resolved target %s", resolved)
	}
	if !info.IsDir() {
		if err := copyFile(resolved, dest, info.Mode()); err != nil {
			return err
		}
		summary.FilesWritten++
		return nil
	}

	if err := os.MkdirAll(dest, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrIoFailure, "failed to create directory %s", dest)
	}
	_ = os.Chmod(dest, info.Mode().Perm())
	summary.DirsCreated++

	entries, err := os.ReadDir(resolved)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIoFailure, "failed to read directory %s", resolved)
	}
	for _, entry := range entries {
		childSrc := filepath.Join(resolved, entry.Name())
		childDest := filepath.Join(dest, entry.Name())
		childInfo, err := entry.Info()
		if err != nil {
			return errors.Wrapf(err, errors.ErrIoFailure, "failed to stat %s", childSrc)
		}
		switch {
		case childInfo.Mode()&fs.ModeSymlink != 0:
			text, err := os.Readlink(childSrc)
			if err != nil {
				return errors.Wrapf(err, errors.ErrIoFailure, "failed to read symlink %s", childSrc)
			}
			if err := os.Symlink(text, childDest); err != nil {
				return errors.Wrapf(err, errors.ErrIoFailure, "failed to create symlink %s", childDest)
			}
			summary.FilesWritten++
		case childInfo.IsDir():
			if err := e.copyResolved(childSrc, childDest, summary); err != nil {
				return err
			}
		default:
			if err := copyFile(childSrc, childDest, childInfo.Mode()); err != nil {
				return err
			}
			summary.FilesWritten++
		}
	}
	return nil
}

// resolveChain follows a symlink chain to its final non-link target,
// reporting a SymlinkCycle error when a canonical path repeats.
func resolveChain(linkPath string) (string, error) {
	visited := make(map[string]bool)
	cur := linkPath
	for {
		abs, err := filepath.Abs(cur)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrIoFailure, "cannot resolve symlink chain at %s", cur)
		}
		clean := filepath.Clean(abs)
		if visited[clean] {
			return "", errors.Newf(errors.ErrSymlinkCycle, "symlink cycle detected at %s", clean).
				WithDetail("path", clean)
		}
		visited[clean] = true

		info, err := os.Lstat(clean)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrIoFailure, "symlink chain leads to unreadable path %s", clean)
		}
		if info.Mode()&fs.ModeSymlink == 0 {
			return clean, nil
		}
		text, err := os.Readlink(clean)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrIoFailure, "failed to read symlink %s", clean)
		}
		if !filepath.IsAbs(text) {
			text = filepath.Join(filepath.Dir(clean), text)
		}
		cur = text
	}
}
