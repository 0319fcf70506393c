package gitcmd

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Serenacula/templative/pkg/errors"
)

func requireGit(t *testing.T) {
	t.Helper()
	if !IsAvailable() {
		t.Skip("git not installed")
	}
}

// setTestIdentity points git at a throwaway global config so tests never
// depend on (or touch) the developer's real identity.
func setTestIdentity(t *testing.T) {
	t.Helper()
	gitconfig := filepath.Join(t.TempDir(), "gitconfig")
	content := "[user]\n\tname = Test User\n\temail = test@example.com\n[init]\n\tdefaultBranch = main\n"
	require.NoError(t, os.WriteFile(gitconfig, []byte(content), 0644))
	t.Setenv("GIT_CONFIG_GLOBAL", gitconfig)
	t.Setenv("GIT_CONFIG_SYSTEM", os.DevNull)
}

func initRepoWithCommit(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file.txt"), []byte("one"), 0644))
	require.NoError(t, InitAndCommit(dir, "fixture"))
	return dir
}

func TestIsCommitHash(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{"abc1234", true},
		{"0123456789abcdef0123456789abcdef01234567", true},
		{"abc123", false},
		{"", false},
		{"main", false},
		{"v1.2.3", false},
		{"ABC1234", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isCommitHash(tt.ref), "ref %q", tt.ref)
	}
}

func TestRefKindString(t *testing.T) {
	assert.Equal(t, "branch", RefBranch.String())
	assert.Equal(t, "tag", RefTag.String())
	assert.Equal(t, "commit", RefCommit.String())
}

func TestCheckIdentityMissing(t *testing.T) {
	requireGit(t)
	empty := filepath.Join(t.TempDir(), "gitconfig")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	t.Setenv("GIT_CONFIG_GLOBAL", empty)
	t.Setenv("GIT_CONFIG_SYSTEM", os.DevNull)

	err := CheckIdentity()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrGitIdentity))
	assert.Contains(t, err.Error(), "user.name")
	assert.Contains(t, err.Error(), "user.email")
}

func TestCheckIdentityConfigured(t *testing.T) {
	requireGit(t)
	setTestIdentity(t)

	assert.NoError(t, CheckIdentity())
}

func TestInitAndCommit(t *testing.T) {
	requireGit(t)
	setTestIdentity(t)
	dir := initRepoWithCommit(t)

	assert.True(t, IsRepo(dir))

	head, err := Head(dir)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{40}$`), head)

	res, err := run(dir, "log", "-1", "--format=%s")
	require.NoError(t, err)
	assert.Equal(t, "Initial commit from template: fixture", strings.TrimSpace(res.Stdout))

	res, err = run(dir, "rev-list", "--count", "HEAD")
	require.NoError(t, err)
	assert.Equal(t, "1", strings.TrimSpace(res.Stdout))

	dirty, err := StatusDirty(dir)
	require.NoError(t, err)
	assert.False(t, dirty)
}

func TestStatusDirty(t *testing.T) {
	requireGit(t)
	setTestIdentity(t)
	dir := initRepoWithCommit(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("x"), 0644))

	dirty, err := StatusDirty(dir)
	require.NoError(t, err)
	assert.True(t, dirty)
}

func TestClassifyRef(t *testing.T) {
	requireGit(t)
	setTestIdentity(t)
	dir := initRepoWithCommit(t)

	res, err := run(dir, "branch", "--show-current")
	require.NoError(t, err)
	branch := strings.TrimSpace(res.Stdout)
	require.NotEmpty(t, branch)

	_, err = run(dir, "tag", "v1")
	require.NoError(t, err)
	head, err := Head(dir)
	require.NoError(t, err)

	assert.Equal(t, RefBranch, ClassifyRef(dir, branch))
	assert.Equal(t, RefTag, ClassifyRef(dir, "v1"))
	assert.Equal(t, RefCommit, ClassifyRef(dir, head))
}

func TestResolveRefAndRefExists(t *testing.T) {
	requireGit(t)
	setTestIdentity(t)
	dir := initRepoWithCommit(t)

	head, err := Head(dir)
	require.NoError(t, err)

	resolved, err := ResolveRef(dir, "HEAD")
	require.NoError(t, err)
	assert.Equal(t, head, resolved)

	assert.True(t, RefExists(dir, head))
	assert.False(t, RefExists(dir, "does-not-exist"))
}

func TestCloneLocalIsIndependent(t *testing.T) {
	requireGit(t)
	setTestIdentity(t)
	src := initRepoWithCommit(t)
	dest := filepath.Join(t.TempDir(), "clone")

	require.NoError(t, CloneLocal(src, dest))
	assert.True(t, IsRepo(dest))

	srcHead, err := Head(src)
	require.NoError(t, err)
	destHead, err := Head(dest)
	require.NoError(t, err)
	assert.Equal(t, srcHead, destHead)
	assert.FileExists(t, filepath.Join(dest, "file.txt"))
}

func TestSetRemoteURL(t *testing.T) {
	requireGit(t)
	setTestIdentity(t)
	src := initRepoWithCommit(t)
	dest := filepath.Join(t.TempDir(), "clone")
	require.NoError(t, CloneLocal(src, dest))

	require.NoError(t, SetRemoteURL(dest, "https://example.com/repo.git"))

	res, err := run(dest, "remote", "get-url", "origin")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/repo.git", strings.TrimSpace(res.Stdout))
}

func TestResolveRemoteRef(t *testing.T) {
	requireGit(t)
	setTestIdentity(t)
	src := initRepoWithCommit(t)

	head, err := Head(src)
	require.NoError(t, err)

	// Empty ref resolves the remote HEAD.
	got, err := ResolveRemoteRef(src, "")
	require.NoError(t, err)
	assert.Equal(t, head, got)

	// A commit pin that ls-remote cannot list resolves to itself.
	pin := "0123456789abcdef0123456789abcdef01234567"
	got, err = ResolveRemoteRef(src, pin)
	require.NoError(t, err)
	assert.Equal(t, pin, got)

	_, err = ResolveRemoteRef(src, "no-such-branch")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrGitFailed))
}

func TestResolveRemoteRefPeelsAnnotatedTag(t *testing.T) {
	requireGit(t)
	setTestIdentity(t)
	src := initRepoWithCommit(t)
	head, err := Head(src)
	require.NoError(t, err)

	_, err = run(src, "tag", "-a", "v1", "-m", "release v1")
	require.NoError(t, err)

	tagObj, err := run(src, "rev-parse", "refs/tags/v1")
	require.NoError(t, err)
	require.NotEqual(t, head, strings.TrimSpace(tagObj.Stdout))

	// The annotated tag resolves to the commit it names, not the tag
	// object ls-remote lists first.
	got, err := ResolveRemoteRef(src, "v1")
	require.NoError(t, err)
	assert.Equal(t, head, got)
}

func TestResolveRemoteRefLightweightTag(t *testing.T) {
	requireGit(t)
	setTestIdentity(t)
	src := initRepoWithCommit(t)
	head, err := Head(src)
	require.NoError(t, err)

	_, err = run(src, "tag", "v1")
	require.NoError(t, err)

	got, err := ResolveRemoteRef(src, "v1")
	require.NoError(t, err)
	assert.Equal(t, head, got)
}

func TestResolveRemoteRefPrefersBranchOverTag(t *testing.T) {
	requireGit(t)
	setTestIdentity(t)
	src := initRepoWithCommit(t)

	// Tag "dual" at the first commit, branch "dual" at a later one.
	_, err := run(src, "tag", "dual")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(src, "file.txt"), []byte("two"), 0644))
	require.NoError(t, AddAll(src))
	require.NoError(t, Commit(src, "second"))
	_, err = run(src, "branch", "dual")
	require.NoError(t, err)
	head, err := Head(src)
	require.NoError(t, err)

	got, err := ResolveRemoteRef(src, "dual")
	require.NoError(t, err)
	assert.Equal(t, head, got)
}

func TestPickRemoteRef(t *testing.T) {
	output := "aaa\trefs/heads/dual\n" +
		"bbb\trefs/tags/dual\n" +
		"ccc\trefs/tags/dual^{}\n" +
		"ddd\tHEAD\n"

	assert.Equal(t, "aaa", pickRemoteRef(output, "dual"))
	assert.Equal(t, "ddd", pickRemoteRef(output, "HEAD"))
	assert.Equal(t, "", pickRemoteRef(output, "other"))

	tagOnly := "bbb\trefs/tags/v1\nccc\trefs/tags/v1^{}\n"
	assert.Equal(t, "ccc", pickRemoteRef(tagOnly, "v1"))
	assert.Equal(t, "bbb", pickRemoteRef("bbb\trefs/tags/v1\n", "v1"))
}

func TestRunFailureIsStructured(t *testing.T) {
	requireGit(t)

	_, err := run("", "rev-parse", "--verify", "--quiet", "this-ref-cannot-exist")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrGitFailed))
}
