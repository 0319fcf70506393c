// Package materialize copies a template tree into a target location
// under exclusion, collision and symlink policy.
//
// The engine works in two passes: a dry planning pass that classifies
// every source entry and surfaces fatal collisions or symlink cycles
// before anything is written, and an execution pass that applies the
// plan in deterministic lexical order. Modes that can abort (strict,
// no-overwrite) therefore never leave a half-written target.
package materialize

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Serenacula/templative/pkg/errors"
	"github.com/Serenacula/templative/pkg/logging"
	"github.com/Serenacula/templative/pkg/types"
)

// Options are the resolved settings the engine needs.
type Options struct {
	WriteMode types.WriteMode
	Symlinks  types.SymlinkMode
	Exclude   []string
}

// Summary reports what one Copy invocation did.
type Summary struct {
	FilesWritten    int
	FilesSkipped    int
	DirsCreated     int
	SymlinkWarnings int
}

// Prompter answers per-collision questions for the ask write mode.
type Prompter interface {
	ConfirmOverwrite(relPath string) (bool, error)
}

// Engine materializes template trees.
type Engine struct {
	opts     Options
	prompter Prompter
	logger   zerolog.Logger
}

// New creates an engine. prompter may be nil unless the write mode is
// ask.
func New(opts Options, prompter Prompter) *Engine {
	return &Engine{
		opts:     opts,
		prompter: prompter,
		logger:   logging.GetLogger("materialize"),
	}
}

// copyContext holds the per-invocation state shared between planning
// and execution.
type copyContext struct {
	source string // canonical source root
	target string // target root as given (created by Copy)
	excl   *excluder
}

// Copy materializes sourceRoot at targetRoot and returns a summary of
// the work performed.
func (e *Engine) Copy(sourceRoot, targetRoot string) (*Summary, error) {
	info, err := os.Stat(sourceRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSourceUnreadable, "template source unreadable: %s", sourceRoot)
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrSourceUnreadable, "template source is not a directory: %s", sourceRoot)
	}

	sourceCanon, err := canonicalPath(sourceRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIoFailure, "cannot canonicalize source %s", sourceRoot)
	}
	targetCanon, err := canonicalPath(targetRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIoFailure, "cannot canonicalize target %s", targetRoot)
	}

	// Recursion guard: refuse before touching the filesystem.
	if pathWithin(targetCanon, sourceCanon) {
		return nil, errors.Newf(errors.ErrRecursiveInit, "target %s is inside template source %s", targetCanon, sourceCanon).
			WithDetail("source", sourceCanon).
			WithDetail("target", targetCanon)
	}

	excl, err := newExcluder(e.opts.Exclude)
	if err != nil {
		return nil, err
	}

	if e.opts.WriteMode == types.WriteStrict {
		empty, err := dirEmptyOrMissing(targetCanon)
		if err != nil {
			return nil, err
		}
		if !empty {
			return nil, errors.Newf(errors.ErrCollisionStrict, "target directory is not empty: %s", targetCanon)
		}
	}

	ctx := &copyContext{source: sourceCanon, target: targetCanon, excl: excl}

	plan, err := e.buildPlan(ctx)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(targetCanon, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrIoFailure, "failed to create target %s", targetCanon)
	}

	summary := &Summary{}
	for _, entry := range plan {
		if err := e.execute(ctx, entry, summary); err != nil {
			return nil, err
		}
	}

	e.logger.Info().
		Str("source", sourceCanon).
		Str("target", targetCanon).
		Int("written", summary.FilesWritten).
		Int("skipped", summary.FilesSkipped).
		Int("dirs", summary.DirsCreated).
		Int("symlinkWarnings", summary.SymlinkWarnings).
		Msg("Materialization complete")
	return summary, nil
}

// canonicalPath resolves symlinks in the longest existing prefix of p
// and rejoins the non-existing remainder, so paths that do not exist
// yet still compare canonically.
func canonicalPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	rest := ""
	cur := abs
	for {
		resolved, err := filepath.EvalSymlinks(cur)
		if err == nil {
			return filepath.Join(resolved, rest), nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return abs, nil
		}
		rest = filepath.Join(filepath.Base(cur), rest)
		cur = parent
	}
}

// pathWithin reports whether child equals parent or lives below it.
func pathWithin(child, parent string) bool {
	if child == parent {
		return true
	}
	return strings.HasPrefix(child, parent+string(filepath.Separator))
}

func dirEmptyOrMissing(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, errors.Wrapf(err, errors.ErrIoFailure, "failed to read target directory %s", path)
	}
	return len(entries) == 0, nil
}

// copyFile copies a regular file byte-for-byte and mirrors its
// permission bits best-effort.
func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIoFailure, "failed to open %s", src)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm.Perm())
	if err != nil {
		return errors.Wrapf(err, errors.ErrIoFailure, "failed to create %s", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.Wrapf(err, errors.ErrIoFailure, "failed to copy %s to %s", src, dst)
	}
	if err := out.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrIoFailure, "failed to finish writing %s", dst)
	}
	_ = os.Chmod(dst, perm.Perm())
	return nil
}
