package materialize

import (
	"os"
	"path/filepath"

	"github.com/Serenacula/templative/pkg/errors"
)

// execute applies one plan entry. Entries arrive in the order they were
// planned, parents before children.
func (e *Engine) execute(ctx *copyContext, entry planEntry, summary *Summary) error {
	src := filepath.Join(ctx.source, entry.rel)
	dest := filepath.Join(ctx.target, entry.rel)

	switch entry.kind {
	case kindDir:
		switch entry.act {
		case actSkip:
			return nil
		case actOverwrite:
			if err := os.RemoveAll(dest); err != nil {
				return errors.Wrapf(err, errors.ErrIoFailure, "failed to replace %s", dest)
			}
			fallthrough
		default:
			if err := os.MkdirAll(dest, 0755); err != nil {
				return errors.Wrapf(err, errors.ErrIoFailure, "failed to create directory %s", dest)
			}
			_ = os.Chmod(dest, entry.perm.Perm())
			summary.DirsCreated++
		}

	case kindFile:
		switch entry.act {
		case actSkip:
			e.logger.Debug().Str("path", entry.rel).Msg("Skipping existing file")
			summary.FilesSkipped++
			return nil
		case actOverwrite:
			if err := os.RemoveAll(dest); err != nil {
				return errors.Wrapf(err, errors.ErrIoFailure, "failed to replace %s", dest)
			}
		}
		if err := copyFile(src, dest, entry.perm); err != nil {
			return err
		}
		summary.FilesWritten++

	case kindSymlink:
		switch entry.act {
		case actSkip:
			e.logger.Debug().Str("path", entry.rel).Msg("Skipping existing entry for symlink")
			summary.FilesSkipped++
			return nil
		case actOverwrite:
			if err := os.RemoveAll(dest); err != nil {
				return errors.Wrapf(err, errors.ErrIoFailure, "failed to replace %s", dest)
			}
		}
		return e.materializeSymlink(ctx, entry, summary)
	}
	return nil
}
