// Package gitcache stores local clones of URL templates keyed by
// (url, ref), so repeated inits avoid network fetches. Each entry is a
// directory holding the clone plus a manifest recording the last
// resolved commit.
//
// No locking is provided: concurrent invocations against the same cache
// key race at the filesystem level. This is a documented limitation.
package gitcache

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Serenacula/templative/pkg/errors"
	"github.com/Serenacula/templative/pkg/gitcmd"
	"github.com/Serenacula/templative/pkg/logging"
	"github.com/Serenacula/templative/pkg/paths"
)

const (
	repoDirName      = "repo"
	manifestFileName = "manifest.yaml"
)

// Entry is the persisted cache metadata for one (url, ref) key.
type Entry struct {
	URL    string `yaml:"url"`
	Ref    string `yaml:"ref,omitempty"`
	Commit string `yaml:"commit"`
}

// Store is a cache rooted at a directory.
type Store struct {
	root string
}

// NewStore creates a store rooted at root.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Default returns the store at the standard cache location.
func Default() *Store {
	return NewStore(paths.CacheDir())
}

// key derives a stable directory name from (url, ref).
func key(url, ref string) string {
	sum := sha256.Sum256([]byte(url + "\n" + ref))
	return hex.EncodeToString(sum[:])[:16]
}

// Dir returns the directory for one cache entry.
func (s *Store) Dir(url, ref string) string {
	return filepath.Join(s.root, key(url, ref))
}

// RepoPath returns the clone directory for one cache entry.
func (s *Store) RepoPath(url, ref string) string {
	return filepath.Join(s.Dir(url, ref), repoDirName)
}

func (s *Store) manifestPath(url, ref string) string {
	return filepath.Join(s.Dir(url, ref), manifestFileName)
}

// Ensure returns the cached clone for (url, ref), cloning on a miss. A
// cache directory that is no longer a usable repository is discarded
// and recloned rather than failing the invocation.
func (s *Store) Ensure(url, ref string) (string, error) {
	logger := logging.GetLogger("gitcache")
	repo := s.RepoPath(url, ref)

	if _, err := os.Stat(repo); err == nil {
		if gitcmd.IsRepo(repo) {
			return repo, nil
		}
		logger.Warn().Str("repo", repo).Msg("Cache entry unusable, recloning")
		if err := os.RemoveAll(s.Dir(url, ref)); err != nil {
			return "", errors.Wrapf(err, errors.ErrCacheCorrupt, "failed to discard corrupt cache entry %s", repo)
		}
	}

	if err := os.MkdirAll(s.Dir(url, ref), 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrIoFailure, "failed to create cache dir for %s", url)
	}
	if err := gitcmd.Clone(url, repo); err != nil {
		return "", err
	}
	if ref != "" {
		if err := gitcmd.CheckoutRef(repo, ref); err != nil {
			return "", err
		}
	}
	if err := s.writeManifest(url, ref, repo); err != nil {
		return "", err
	}
	logger.Info().Str("url", url).Str("ref", ref).Str("repo", repo).Msg("Template cached")
	return repo, nil
}

// Entry reads the manifest for (url, ref).
func (s *Store) Entry(url, ref string) (Entry, error) {
	data, err := os.ReadFile(s.manifestPath(url, ref))
	if err != nil {
		return Entry{}, errors.Wrapf(err, errors.ErrCacheCorrupt, "cache manifest unreadable for %s", url)
	}
	var entry Entry
	if err := yaml.Unmarshal(data, &entry); err != nil {
		return Entry{}, errors.Wrapf(err, errors.ErrCacheCorrupt, "cache manifest corrupt for %s", url)
	}
	return entry, nil
}

func (s *Store) writeManifest(url, ref, repo string) error {
	commit, err := gitcmd.Head(repo)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(Entry{URL: url, Ref: ref, Commit: commit})
	if err != nil {
		return errors.Wrap(err, errors.ErrIoFailure, "failed to serialize cache manifest")
	}
	path := s.manifestPath(url, ref)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrIoFailure, "failed to write cache manifest %s", path)
	}
	return nil
}

// Check compares the cache's stored commit against the remote's current
// resolution of the same ref. It never mutates the cache.
func (s *Store) Check(url, ref string) (cached, remote string, err error) {
	entry, err := s.Entry(url, ref)
	if err != nil {
		return "", "", err
	}
	remote, err = gitcmd.ResolveRemoteRef(url, ref)
	if err != nil {
		return "", "", err
	}
	return entry.Commit, remote, nil
}

// Refresh fetches and moves the cached clone to the ref's current
// remote state, rewriting the manifest. Returns the new commit.
func (s *Store) Refresh(url, ref string) (string, error) {
	repo, err := s.Ensure(url, ref)
	if err != nil {
		return "", err
	}
	if err := gitcmd.Fetch(repo); err != nil {
		return "", err
	}
	if ref != "" {
		if err := gitcmd.CheckoutRef(repo, ref); err != nil {
			return "", err
		}
		// A branch checkout may still sit behind its remote.
		if gitcmd.ClassifyRef(repo, ref) == gitcmd.RefBranch {
			if err := gitcmd.PullFFOnly(repo); err != nil {
				return "", err
			}
		}
	} else {
		if err := gitcmd.ResetHardOrigin(repo); err != nil {
			return "", err
		}
	}
	if err := s.writeManifest(url, ref, repo); err != nil {
		return "", err
	}
	return gitcmd.Head(repo)
}
