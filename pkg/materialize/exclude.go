package materialize

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/Serenacula/templative/pkg/errors"
)

// excluder decides which relative paths are left out of the copy.
// `.git` is always excluded. User patterns are glob matched against
// each path component and against the full slash-separated relative
// path, so a matching directory prunes its whole subtree.
type excluder struct {
	patterns []string
}

func newExcluder(patterns []string) (*excluder, error) {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Newf(errors.ErrInvalidInput, "invalid exclude pattern: %s", pattern)
		}
	}
	return &excluder{patterns: patterns}, nil
}

// skip reports whether the entry at rel (OS-native separators) is
// excluded.
func (x *excluder) skip(rel string) bool {
	slashed := filepath.ToSlash(rel)
	for _, component := range strings.Split(slashed, "/") {
		if component == ".git" {
			return true
		}
		for _, pattern := range x.patterns {
			if ok, _ := doublestar.Match(pattern, component); ok {
				return true
			}
		}
	}
	for _, pattern := range x.patterns {
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return true
		}
	}
	return false
}

// PruneExcluded removes entries matching the exclude patterns from an
// already-materialized tree. Preserve mode uses this after cloning,
// since the clone carries the full template. `.git` itself is never
// pruned there; the clone's history is the point of preserve mode.
func PruneExcluded(root string, patterns []string) error {
	excl, err := newExcluder(patterns)
	if err != nil {
		return err
	}
	return pruneDir(root, "", excl)
}

func pruneDir(root, relDir string, excl *excluder) error {
	entries, err := os.ReadDir(filepath.Join(root, relDir))
	if err != nil {
		return errors.Wrapf(err, errors.ErrIoFailure, "failed to read directory %s", filepath.Join(root, relDir))
	}
	for _, entry := range entries {
		rel := filepath.Join(relDir, entry.Name())
		if relDir == "" && entry.Name() == ".git" {
			continue
		}
		if excl.skip(rel) {
			if err := os.RemoveAll(filepath.Join(root, rel)); err != nil {
				return errors.Wrapf(err, errors.ErrIoFailure, "failed to prune %s", rel)
			}
			continue
		}
		if entry.IsDir() {
			if err := pruneDir(root, rel, excl); err != nil {
				return err
			}
		}
	}
	return nil
}
