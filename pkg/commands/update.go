package commands

import (
	"fmt"

	"github.com/Serenacula/templative/pkg/errors"
	"github.com/Serenacula/templative/pkg/gitcache"
	"github.com/Serenacula/templative/pkg/gitcmd"
	"github.com/Serenacula/templative/pkg/registry"
)

// UpdateStatus is the per-template outcome of an update run.
type UpdateStatus struct {
	Name   string
	Status string
	Err    error
}

// Update refreshes (or, in check mode, inspects) the cache of URL
// templates. Naming a template restricts the run to it; otherwise every
// registered template is visited. Local templates are not applicable to
// update and report as such.
func Update(name string, check bool, store *gitcache.Store) ([]UpdateStatus, error) {
	reg, err := registry.Load()
	if err != nil {
		return nil, err
	}

	var templates []registry.Template
	if name != "" {
		tmpl := reg.Get(name)
		if tmpl == nil {
			return nil, errors.Newf(errors.ErrTemplateNotFound, "template not found: %s", name)
		}
		templates = []registry.Template{*tmpl}
	} else {
		templates = reg.Sorted()
	}

	statuses := make([]UpdateStatus, 0, len(templates))
	for _, tmpl := range templates {
		status, err := updateTemplate(tmpl, check, store)
		statuses = append(statuses, UpdateStatus{Name: tmpl.Name, Status: status, Err: err})
	}
	return statuses, nil
}

func updateTemplate(tmpl registry.Template, check bool, store *gitcache.Store) (string, error) {
	if !tmpl.IsURL() {
		return "not applicable (local template)", nil
	}

	ref := refPin(tmpl)

	if check {
		// Check mode compares without mutating the cache, so a miss is
		// reported rather than filled.
		if !gitcmd.IsRepo(store.RepoPath(tmpl.Location, ref)) {
			return "not cached", nil
		}
		cached, remote, err := store.Check(tmpl.Location, ref)
		if err != nil {
			return "", err
		}
		if cached != remote {
			return fmt.Sprintf("update available (%.7s -> %.7s)", cached, remote), nil
		}
		return "up to date", nil
	}

	repo, err := store.Ensure(tmpl.Location, ref)
	if err != nil {
		return "", err
	}

	if ref != "" && gitcmd.RefExists(repo, ref) {
		switch gitcmd.ClassifyRef(repo, ref) {
		case gitcmd.RefTag, gitcmd.RefCommit:
			return "skipped (pinned to immutable ref)", nil
		}
	}

	if _, err := store.Refresh(tmpl.Location, ref); err != nil {
		return "", err
	}
	return "updated", nil
}
