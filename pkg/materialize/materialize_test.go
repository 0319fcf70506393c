package materialize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Serenacula/templative/pkg/errors"
	"github.com/Serenacula/templative/pkg/types"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// scriptedPrompter answers overwrite questions from a fixed table and
// records what it was asked.
type scriptedPrompter struct {
	answers map[string]bool
	asked   []string
}

func (p *scriptedPrompter) ConfirmOverwrite(rel string) (bool, error) {
	p.asked = append(p.asked, rel)
	return p.answers[rel], nil
}

func newEngine(mode types.WriteMode, exclude ...string) *Engine {
	return New(Options{WriteMode: mode, Symlinks: types.SymlinkDefault, Exclude: exclude}, nil)
}

func TestCopyBasicTree(t *testing.T) {
	source := t.TempDir()
	target := filepath.Join(t.TempDir(), "project")
	writeFile(t, filepath.Join(source, "a.txt"), "alpha")
	writeFile(t, filepath.Join(source, "sub", "b.txt"), "beta")

	summary, err := newEngine(types.WriteStrict).Copy(source, target)
	require.NoError(t, err)

	assert.Equal(t, "alpha", readFile(t, filepath.Join(target, "a.txt")))
	assert.Equal(t, "beta", readFile(t, filepath.Join(target, "sub", "b.txt")))
	assert.Equal(t, 2, summary.FilesWritten)
	assert.Equal(t, 1, summary.DirsCreated)
	assert.Equal(t, 0, summary.FilesSkipped)
}

func TestCopyAlwaysExcludesGit(t *testing.T) {
	source := t.TempDir()
	target := filepath.Join(t.TempDir(), "project")
	writeFile(t, filepath.Join(source, ".git", "config"), "repo config")
	writeFile(t, filepath.Join(source, "sub", ".git", "HEAD"), "ref")
	writeFile(t, filepath.Join(source, "a.txt"), "alpha")

	_, err := newEngine(types.WriteStrict).Copy(source, target)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(target, ".git"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(target, "sub", ".git"))
	assert.True(t, os.IsNotExist(err))
	assert.FileExists(t, filepath.Join(target, "a.txt"))
}

func TestCopyExcludePatterns(t *testing.T) {
	source := t.TempDir()
	target := filepath.Join(t.TempDir(), "project")
	writeFile(t, filepath.Join(source, "a.txt"), "keep")
	writeFile(t, filepath.Join(source, "sub", "b.txt"), "pruned with dir")
	writeFile(t, filepath.Join(source, "deep", "trace.log"), "component match")
	writeFile(t, filepath.Join(source, "docs", "internal", "x.txt"), "full path match")
	writeFile(t, filepath.Join(source, "docs", "public.txt"), "keep")

	_, err := newEngine(types.WriteStrict, "sub", "*.log", "docs/internal").Copy(source, target)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(target, "a.txt"))
	assert.FileExists(t, filepath.Join(target, "docs", "public.txt"))
	assert.NoDirExists(t, filepath.Join(target, "sub"))
	assert.NoDirExists(t, filepath.Join(target, "docs", "internal"))
	_, err = os.Stat(filepath.Join(target, "deep", "trace.log"))
	assert.True(t, os.IsNotExist(err))
}

func TestCopyRejectsInvalidExcludePattern(t *testing.T) {
	source := t.TempDir()
	writeFile(t, filepath.Join(source, "a.txt"), "x")

	_, err := newEngine(types.WriteStrict, "[").Copy(source, filepath.Join(t.TempDir(), "out"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrInvalidInput))
}

func TestCopySourceMissing(t *testing.T) {
	_, err := newEngine(types.WriteStrict).Copy(filepath.Join(t.TempDir(), "nope"), t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrSourceUnreadable))
}

func TestCopySourceIsFile(t *testing.T) {
	source := filepath.Join(t.TempDir(), "file.txt")
	writeFile(t, source, "not a dir")

	_, err := newEngine(types.WriteStrict).Copy(source, t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrSourceUnreadable))
}

func TestCopyStrictRejectsNonEmptyTarget(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()
	writeFile(t, filepath.Join(source, "a.txt"), "new")
	writeFile(t, filepath.Join(target, "existing.txt"), "old")

	_, err := newEngine(types.WriteStrict).Copy(source, target)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCollisionStrict))

	// Nothing was written.
	_, err = os.Stat(filepath.Join(target, "a.txt"))
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, "old", readFile(t, filepath.Join(target, "existing.txt")))
}

func TestCopyRefusesTargetInsideSource(t *testing.T) {
	source := t.TempDir()
	writeFile(t, filepath.Join(source, "a.txt"), "x")
	target := filepath.Join(source, "nested", "target")

	_, err := newEngine(types.WriteStrict).Copy(source, target)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrRecursiveInit))
	assert.NoDirExists(t, target)
}

func TestCopyRefusesTargetEqualToSource(t *testing.T) {
	source := t.TempDir()
	writeFile(t, filepath.Join(source, "a.txt"), "x")

	_, err := newEngine(types.WriteOverwrite).Copy(source, source)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrRecursiveInit))
}

func TestCopyRecursionGuardSeesThroughSymlinks(t *testing.T) {
	root := t.TempDir()
	source := filepath.Join(root, "source")
	writeFile(t, filepath.Join(source, "a.txt"), "x")
	link := filepath.Join(root, "link")
	require.NoError(t, os.Symlink(source, link))

	_, err := newEngine(types.WriteStrict).Copy(source, filepath.Join(link, "inner"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrRecursiveInit))
}

func TestCopyNoOverwriteAbortsBeforeWriting(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()
	writeFile(t, filepath.Join(source, "a.txt"), "new a")
	writeFile(t, filepath.Join(source, "z.txt"), "new z")
	writeFile(t, filepath.Join(target, "z.txt"), "old z")

	_, err := newEngine(types.WriteNoOverwrite).Copy(source, target)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCollisionNoOverwrite))

	// Planning failed, so even the collision-free file is absent.
	_, statErr := os.Stat(filepath.Join(target, "a.txt"))
	assert.True(t, os.IsNotExist(statErr))
	assert.Equal(t, "old z", readFile(t, filepath.Join(target, "z.txt")))
}

func TestCopyNoOverwriteCleanTarget(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()
	writeFile(t, filepath.Join(source, "a.txt"), "alpha")

	summary, err := newEngine(types.WriteNoOverwrite).Copy(source, target)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.FilesWritten)
}

func TestCopySkipOverwriteKeepsExisting(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()
	writeFile(t, filepath.Join(source, "a.txt"), "new a")
	writeFile(t, filepath.Join(source, "b.txt"), "new b")
	writeFile(t, filepath.Join(target, "a.txt"), "old a")

	summary, err := newEngine(types.WriteSkipOverwrite).Copy(source, target)
	require.NoError(t, err)

	assert.Equal(t, "old a", readFile(t, filepath.Join(target, "a.txt")))
	assert.Equal(t, "new b", readFile(t, filepath.Join(target, "b.txt")))
	assert.Equal(t, 1, summary.FilesWritten)
	assert.Equal(t, 1, summary.FilesSkipped)
}

func TestCopySkipOverwriteFileBlockingDirectory(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()
	writeFile(t, filepath.Join(source, "sub", "b.txt"), "inside")
	writeFile(t, filepath.Join(target, "sub"), "i am a file")

	_, err := newEngine(types.WriteSkipOverwrite).Copy(source, target)
	require.NoError(t, err)

	// The blocking file survives and the subtree is not descended into.
	assert.Equal(t, "i am a file", readFile(t, filepath.Join(target, "sub")))
}

func TestCopyOverwriteReplacesExisting(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()
	writeFile(t, filepath.Join(source, "a.txt"), "new a")
	writeFile(t, filepath.Join(target, "a.txt"), "old a")

	summary, err := newEngine(types.WriteOverwrite).Copy(source, target)
	require.NoError(t, err)

	assert.Equal(t, "new a", readFile(t, filepath.Join(target, "a.txt")))
	assert.Equal(t, 1, summary.FilesWritten)
	assert.Equal(t, 0, summary.FilesSkipped)
}

func TestCopyOverwriteReplacesFileWithDirectory(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()
	writeFile(t, filepath.Join(source, "sub", "b.txt"), "inside")
	writeFile(t, filepath.Join(target, "sub"), "i am a file")

	_, err := newEngine(types.WriteOverwrite).Copy(source, target)
	require.NoError(t, err)

	assert.Equal(t, "inside", readFile(t, filepath.Join(target, "sub", "b.txt")))
}

func TestCopyAskModePerCollision(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()
	writeFile(t, filepath.Join(source, "a.txt"), "new a")
	writeFile(t, filepath.Join(source, "b.txt"), "new b")
	writeFile(t, filepath.Join(source, "c.txt"), "new c")
	writeFile(t, filepath.Join(target, "a.txt"), "old a")
	writeFile(t, filepath.Join(target, "b.txt"), "old b")

	prompter := &scriptedPrompter{answers: map[string]bool{"a.txt": true, "b.txt": false}}
	engine := New(Options{WriteMode: types.WriteAsk, Symlinks: types.SymlinkDefault}, prompter)

	summary, err := engine.Copy(source, target)
	require.NoError(t, err)

	assert.Equal(t, "new a", readFile(t, filepath.Join(target, "a.txt")))
	assert.Equal(t, "old b", readFile(t, filepath.Join(target, "b.txt")))
	assert.Equal(t, "new c", readFile(t, filepath.Join(target, "c.txt")))
	// Only actual collisions prompt.
	assert.Equal(t, []string{"a.txt", "b.txt"}, prompter.asked)
	assert.Equal(t, 2, summary.FilesWritten)
	assert.Equal(t, 1, summary.FilesSkipped)
}

func TestCopyAskModeRequiresPrompter(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()
	writeFile(t, filepath.Join(source, "a.txt"), "new")
	writeFile(t, filepath.Join(target, "a.txt"), "old")

	_, err := newEngine(types.WriteAsk).Copy(source, target)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrInvalidInput))
}

func TestCopyMergesIntoExistingDirectories(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()
	writeFile(t, filepath.Join(source, "sub", "new.txt"), "new")
	writeFile(t, filepath.Join(target, "sub", "kept.txt"), "kept")

	_, err := newEngine(types.WriteSkipOverwrite).Copy(source, target)
	require.NoError(t, err)

	assert.Equal(t, "kept", readFile(t, filepath.Join(target, "sub", "kept.txt")))
	assert.Equal(t, "new", readFile(t, filepath.Join(target, "sub", "new.txt")))
}

func TestCopyPreservesFilePermissions(t *testing.T) {
	source := t.TempDir()
	target := filepath.Join(t.TempDir(), "project")
	script := filepath.Join(source, "run.sh")
	writeFile(t, script, "#!/bin/sh\n")
	require.NoError(t, os.Chmod(script, 0755))

	_, err := newEngine(types.WriteStrict).Copy(source, target)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(target, "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestCanonicalPathOnNonexistentSuffix(t *testing.T) {
	root := t.TempDir()
	real := filepath.Join(root, "real")
	require.NoError(t, os.Mkdir(real, 0755))
	link := filepath.Join(root, "alias")
	require.NoError(t, os.Symlink(real, link))

	got, err := canonicalPath(filepath.Join(link, "does", "not", "exist"))
	require.NoError(t, err)

	realCanon, err := filepath.EvalSymlinks(real)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(realCanon, "does", "not", "exist"), got)
}

func TestPathWithin(t *testing.T) {
	assert.True(t, pathWithin("/a/b", "/a/b"))
	assert.True(t, pathWithin("/a/b/c", "/a/b"))
	assert.False(t, pathWithin("/a/bc", "/a/b"))
	assert.False(t, pathWithin("/a", "/a/b"))
}
