// Package gitcmd is a narrow capability over the git executable. Each
// operation shells out, captures output and maps non-zero exits onto
// structured errors. Nothing beyond each operation's contract is parsed
// from stdout.
package gitcmd

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/Serenacula/templative/pkg/errors"
	"github.com/Serenacula/templative/pkg/logging"
)

// Result is the structured outcome of one git invocation.
type Result struct {
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
}

// RefKind classifies a git ref for update semantics: branches move,
// tags and commits are immutable pins.
type RefKind int

const (
	RefBranch RefKind = iota
	RefTag
	RefCommit
)

func (k RefKind) String() string {
	switch k {
	case RefBranch:
		return "branch"
	case RefTag:
		return "tag"
	default:
		return "commit"
	}
}

// run executes git with the given working directory ("" for inherit).
func run(dir string, args ...string) (Result, error) {
	logger := logging.GetLogger("gitcmd")
	logger.Debug().Str("dir", dir).Strs("args", args).Msg("Running git")

	cmd := exec.Command("git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Args:   args,
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			res.ExitCode = exitErr.ExitCode()
			return res, errors.Newf(errors.ErrGitFailed, "git %s failed", strings.Join(args, " ")).
				WithDetail("exitCode", res.ExitCode).
				WithDetail("output", strings.TrimSpace(res.Stdout+res.Stderr))
		}
		return res, errors.Wrap(err, errors.ErrGitMissing, "failed to execute git")
	}
	return res, nil
}

// IsAvailable reports whether the git executable is on PATH.
func IsAvailable() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// CheckIdentity verifies that user.name and user.email are configured,
// returning actionable guidance when they are not.
func CheckIdentity() error {
	var missing []string
	for _, probe := range []struct{ key, example string }{
		{"user.name", `git config --global user.name "Your Name"`},
		{"user.email", `git config --global user.email "you@example.com"`},
	} {
		res, err := run("", "config", probe.key)
		// Exit code 1 means the key is unset.
		if err != nil && res.ExitCode != 1 {
			return err
		}
		if strings.TrimSpace(res.Stdout) == "" {
			missing = append(missing, "  "+probe.example)
		}
	}
	if len(missing) > 0 {
		return errors.Newf(errors.ErrGitIdentity, "git identity not set; run:\n%s", strings.Join(missing, "\n"))
	}
	return nil
}

// Init creates an empty repository at dir.
func Init(dir string) error {
	_, err := run(dir, "init")
	return err
}

// AddAll stages every change in dir.
func AddAll(dir string) error {
	_, err := run(dir, "add", "-A")
	return err
}

// Commit records one commit with the given message.
func Commit(dir, message string) error {
	_, err := run(dir, "commit", "-m", message)
	return err
}

// InitAndCommit runs the full fresh-history sequence: identity check,
// init, stage, single commit naming the template.
func InitAndCommit(dir, templateName string) error {
	if err := CheckIdentity(); err != nil {
		return err
	}
	if err := Init(dir); err != nil {
		return err
	}
	if err := AddAll(dir); err != nil {
		return err
	}
	return Commit(dir, fmt.Sprintf("Initial commit from template: %s", templateName))
}

// Clone clones url into dest.
func Clone(url, dest string) error {
	_, err := run("", "clone", url, dest)
	return err
}

// CloneLocal clones a local repository into dest with real object
// copies, so the target does not share storage with the template.
func CloneLocal(src, dest string) error {
	_, err := run("", "clone", "--no-hardlinks", src, dest)
	return err
}

// Fetch updates remote tracking refs and tags.
func Fetch(dir string) error {
	_, err := run(dir, "fetch", "origin", "--tags")
	return err
}

// CheckoutRef checks out a branch, tag or commit.
func CheckoutRef(dir, ref string) error {
	_, err := run(dir, "checkout", ref)
	return err
}

// SetRemoteURL points origin at url.
func SetRemoteURL(dir, url string) error {
	_, err := run(dir, "remote", "set-url", "origin", url)
	return err
}

// Head returns the commit hash of HEAD.
func Head(dir string) (string, error) {
	res, err := run(dir, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

// ResolveRef resolves a local ref to a commit hash.
func ResolveRef(dir, ref string) (string, error) {
	res, err := run(dir, "rev-parse", "--verify", ref+"^{commit}")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

// ResolveRemoteRef resolves ref against the remote at url without a
// local clone, always to a commit hash: annotated tags peel to the
// commit they name. An empty ref resolves the remote HEAD. Commit-hash
// pins resolve to themselves: ls-remote cannot list arbitrary commits.
func ResolveRemoteRef(url, ref string) (string, error) {
	target := "HEAD"
	if ref != "" {
		target = ref
	}
	res, err := run("", "ls-remote", url, target)
	if err != nil {
		return "", err
	}
	if hash := pickRemoteRef(res.Stdout, target); hash != "" {
		return hash, nil
	}
	if isCommitHash(ref) {
		return ref, nil
	}
	return "", errors.Newf(errors.ErrGitFailed, "ref %q not found on remote %s", target, url)
}

// pickRemoteRef chooses one hash from ls-remote output. A branch wins
// over a same-named tag, mirroring what checkout does with the name
// later, and an annotated tag's peeled `^{}` line wins over the tag
// object so the result is always a commit.
func pickRemoteRef(output, ref string) string {
	byName := make(map[string]string)
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 2 {
			byName[fields[1]] = fields[0]
		}
	}
	for _, name := range []string{
		"refs/heads/" + ref,
		"refs/tags/" + ref + "^{}",
		"refs/tags/" + ref,
		ref,
	} {
		if hash, ok := byName[name]; ok {
			return hash
		}
	}
	return ""
}

func isCommitHash(ref string) bool {
	if len(ref) < 7 || len(ref) > 40 {
		return false
	}
	for _, r := range ref {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}

// ClassifyRef reports whether ref names a branch, a tag or a commit in
// the repository at dir.
func ClassifyRef(dir, ref string) RefKind {
	if _, err := run(dir, "show-ref", "--verify", "--quiet", "refs/heads/"+ref); err == nil {
		return RefBranch
	}
	if _, err := run(dir, "show-ref", "--verify", "--quiet", "refs/remotes/origin/"+ref); err == nil {
		return RefBranch
	}
	if _, err := run(dir, "show-ref", "--verify", "--quiet", "refs/tags/"+ref); err == nil {
		return RefTag
	}
	return RefCommit
}

// RefExists reports whether ref resolves in the repository at dir.
func RefExists(dir, ref string) bool {
	_, err := ResolveRef(dir, ref)
	return err == nil
}

// IsRepo reports whether dir is inside a git work tree.
func IsRepo(dir string) bool {
	res, err := run(dir, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(res.Stdout) == "true"
}

// PullFFOnly fast-forwards the current branch.
func PullFFOnly(dir string) error {
	_, err := run(dir, "pull", "--ff-only")
	return err
}

// ResetHardOrigin discards local state in favor of the remote default
// branch.
func ResetHardOrigin(dir string) error {
	_, err := run(dir, "reset", "--hard", "origin/HEAD")
	return err
}

// StatusDirty reports whether the work tree has uncommitted changes.
func StatusDirty(dir string) (bool, error) {
	res, err := run(dir, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(res.Stdout) != "", nil
}
