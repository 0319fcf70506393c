// Package commands implements the per-invocation orchestration behind
// each CLI subcommand, keeping the cobra layer thin.
package commands

import (
	"os"
	"path/filepath"

	"github.com/Serenacula/templative/pkg/config"
	"github.com/Serenacula/templative/pkg/errors"
	"github.com/Serenacula/templative/pkg/gitcmd"
	"github.com/Serenacula/templative/pkg/hooks"
	"github.com/Serenacula/templative/pkg/logging"
	"github.com/Serenacula/templative/pkg/materialize"
	"github.com/Serenacula/templative/pkg/options"
	"github.com/Serenacula/templative/pkg/registry"
	"github.com/Serenacula/templative/pkg/types"
)

// InitRequest carries everything the init command resolved from its
// arguments and flags.
type InitRequest struct {
	TemplateName string
	TargetPath   string
	Overrides    options.Overrides
	Prompter     materialize.Prompter
}

// InitResult reports a completed init. PostInitErr is the non-fatal
// post-init hook failure, if any.
type InitResult struct {
	Target      string
	Summary     *materialize.Summary
	PostInitErr error
}

// Init materializes a template: registry lookup, option resolution,
// source resolution, pre-init hook, copy, git lifecycle, post-init
// hook. Each step is gated on the success of the previous one.
func Init(cfg config.Config, req InitRequest) (*InitResult, error) {
	logger := logging.GetLogger("commands.init")

	reg, err := registry.Load()
	if err != nil {
		return nil, err
	}
	tmpl := reg.Get(req.TemplateName)
	if tmpl == nil {
		return nil, errors.Newf(errors.ErrTemplateNotFound, "template not found: %s (run 'templative list' to see available templates)", req.TemplateName)
	}

	resolved := options.Resolve(req.Overrides, tmpl, cfg)

	src, cleanup, err := resolveSource(tmpl, resolved)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if info, statErr := os.Stat(src); statErr != nil || !info.IsDir() {
		return nil, errors.Newf(errors.ErrTemplateMissing, "template path missing or unreadable: %s", src)
	}

	// Pre-init runs in the template source, strictly before target
	// validation. A hook writing into the target can therefore make a
	// later emptiness check fail; that is the documented contract.
	if resolved.PreInit != "" {
		if err := hooks.Run(resolved.PreInit, src); err != nil {
			return nil, err
		}
	}

	target, err := filepath.Abs(req.TargetPath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid target path %s", req.TargetPath)
	}
	if isDangerousPath(target) {
		return nil, errors.Newf(errors.ErrDangerousPath, "refusing to operate on %s", target)
	}

	result := &InitResult{Target: target}

	if resolved.Git == types.GitPreserve {
		if err := applyPreserve(tmpl, resolved, src, target); err != nil {
			return nil, err
		}
	} else {
		engine := materialize.New(materialize.Options{
			WriteMode: resolved.WriteMode,
			Symlinks:  resolved.Symlinks,
			Exclude:   resolved.Exclude,
		}, req.Prompter)
		summary, err := engine.Copy(src, target)
		if err != nil {
			return nil, err
		}
		result.Summary = summary

		if resolved.Git == types.GitFresh {
			if err := applyFresh(target, req.TemplateName); err != nil {
				return nil, err
			}
		}
	}

	if resolved.PostInit != "" {
		if err := hooks.Run(resolved.PostInit, target); err != nil {
			logger.Warn().Err(err).Msg("Post-init hook failed")
			result.PostInitErr = err
		}
	}

	return result, nil
}

// applyFresh gives the target a brand-new single-commit history.
func applyFresh(target, templateName string) error {
	// The engine never copies .git, but a pre-existing target or a
	// pre-init hook may have left one behind.
	if err := os.RemoveAll(filepath.Join(target, ".git")); err != nil {
		return errors.Wrapf(err, errors.ErrIoFailure, "failed to remove stale .git in %s", target)
	}
	return gitcmd.InitAndCommit(target, templateName)
}

// applyPreserve carries the template's history into the target: the
// work tree originates from a clone, exclusions are pruned from it, and
// any divergence from the pristine clone gets one checkpoint commit.
func applyPreserve(tmpl *registry.Template, resolved options.Resolved, src, target string) error {
	entries, err := os.ReadDir(target)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrIoFailure, "failed to read target directory %s", target)
	}
	if len(entries) > 0 {
		return errors.Newf(errors.ErrCollisionStrict, "preserve mode requires an empty target, %s is not", target)
	}

	if err := gitcmd.CloneLocal(src, target); err != nil {
		return err
	}
	if resolved.Commit != "" {
		if err := gitcmd.CheckoutRef(target, resolved.Commit); err != nil {
			return err
		}
	}

	if err := materialize.PruneExcluded(target, resolved.Exclude); err != nil {
		return err
	}
	dirty, err := gitcmd.StatusDirty(target)
	if err != nil {
		return err
	}
	if dirty {
		if err := gitcmd.CheckIdentity(); err != nil {
			return err
		}
		if err := gitcmd.AddAll(target); err != nil {
			return err
		}
		if err := gitcmd.Commit(target, "Checkpoint: template exclusions applied"); err != nil {
			return err
		}
	}

	if tmpl.IsURL() {
		if err := gitcmd.SetRemoteURL(target, tmpl.Location); err != nil {
			return err
		}
	}
	return nil
}

// isDangerousPath refuses the filesystem root and the home directory as
// init targets.
func isDangerousPath(path string) bool {
	if path == string(filepath.Separator) {
		return true
	}
	home, err := os.UserHomeDir()
	return err == nil && home != "" && path == home
}
