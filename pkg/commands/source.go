package commands

import (
	"os"

	"github.com/Serenacula/templative/pkg/errors"
	"github.com/Serenacula/templative/pkg/gitcache"
	"github.com/Serenacula/templative/pkg/gitcmd"
	"github.com/Serenacula/templative/pkg/logging"
	"github.com/Serenacula/templative/pkg/options"
	"github.com/Serenacula/templative/pkg/registry"
	"github.com/Serenacula/templative/pkg/types"
)

// pinnedRef returns the effective ref for a template: an exact commit
// pin wins over a branch/tag ref.
func pinnedRef(resolved options.Resolved) string {
	if resolved.Commit != "" {
		return resolved.Commit
	}
	return resolved.GitRef
}

// resolveSource turns a template location into a readable directory.
// URL templates come from the cache or an invocation-scoped temporary
// clone; the cleanup func releases the latter.
func resolveSource(tmpl *registry.Template, resolved options.Resolved) (string, func(), error) {
	logger := logging.GetLogger("commands.source")
	noop := func() {}

	if !tmpl.IsURL() {
		// A ref-less local template under update-on-init=always is
		// moved to its remote state first; failures are non-fatal,
		// matching the cache refresh behavior.
		if resolved.UpdateOnInit == types.UpdateAlways && pinnedRef(resolved) == "" && gitcmd.IsRepo(tmpl.Location) {
			if err := gitcmd.Fetch(tmpl.Location); err == nil {
				_ = gitcmd.ResetHardOrigin(tmpl.Location)
			}
		}
		return tmpl.Location, noop, nil
	}

	ref := pinnedRef(resolved)

	if resolved.NoCache {
		tmp, err := os.MkdirTemp("", "templative-clone-")
		if err != nil {
			return "", noop, errors.Wrap(err, errors.ErrIoFailure, "failed to create temporary clone directory")
		}
		cleanup := func() { _ = os.RemoveAll(tmp) }
		if err := gitcmd.Clone(tmpl.Location, tmp); err != nil {
			cleanup()
			return "", noop, err
		}
		if ref != "" {
			if err := gitcmd.CheckoutRef(tmp, ref); err != nil {
				cleanup()
				return "", noop, err
			}
		}
		return tmp, cleanup, nil
	}

	store := gitcache.Default()
	repo, err := store.Ensure(tmpl.Location, ref)
	if err != nil {
		return "", noop, err
	}
	if resolved.UpdateOnInit != types.UpdateNever {
		if _, err := store.Refresh(tmpl.Location, ref); err != nil {
			// Refresh is best-effort; a stale cache still materializes.
			logger.Warn().Err(err).Str("url", tmpl.Location).Msg("Cache refresh failed, using cached state")
		}
	}
	return repo, noop, nil
}
