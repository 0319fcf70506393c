package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Serenacula/templative/pkg/gitcache"
	"github.com/Serenacula/templative/pkg/gitcmd"
	"github.com/Serenacula/templative/pkg/registry"
	"github.com/Serenacula/templative/pkg/ui"
)

// ListRows builds the status-annotated rows for the list command. Row
// severity drives colorization: broken locations render struck-through
// red, degraded ones red or yellow, informational states blue.
func ListRows(reg *registry.Registry, store *gitcache.Store) []ui.TemplateRow {
	templates := reg.Sorted()
	rows := make([]ui.TemplateRow, 0, len(templates))
	for _, tmpl := range templates {
		status, severity := templateStatus(tmpl, store)
		rows = append(rows, ui.TemplateRow{
			Name:        tmpl.Name,
			Status:      status,
			Description: tmpl.Description,
			Location:    tmpl.Location,
			Severity:    severity,
		})
	}
	return rows
}

func templateStatus(tmpl registry.Template, store *gitcache.Store) (string, ui.Severity) {
	if tmpl.IsURL() {
		return urlStatus(tmpl, store)
	}

	info, lerr := os.Lstat(tmpl.Location)
	isSymlink := lerr == nil && info.Mode()&os.ModeSymlink != 0
	resolved, serr := os.Stat(tmpl.Location)

	switch {
	case lerr != nil:
		return "(folder missing)", ui.SeverityBroken
	case isSymlink && serr != nil:
		return "(symlink broken)", ui.SeverityBroken
	case serr == nil && !resolved.IsDir():
		return "(single file)", ui.SeverityInfo
	}

	entries, err := os.ReadDir(tmpl.Location)
	if err == nil && len(entries) == 0 {
		return "(folder empty)", ui.SeverityError
	}

	if ref := refPin(tmpl); ref != "" {
		return localRefStatus(tmpl, ref)
	}
	if isSymlink {
		return "(symlink)", ui.SeverityInfo
	}
	if _, err := os.Stat(filepath.Join(tmpl.Location, ".git")); os.IsNotExist(err) {
		return "(no git)", ui.SeverityWarning
	}
	return "", ui.SeverityNormal
}

func urlStatus(tmpl registry.Template, store *gitcache.Store) (string, ui.Severity) {
	ref := refPin(tmpl)
	repo := store.RepoPath(tmpl.Location, ref)
	if !gitcmd.IsRepo(repo) {
		if ref != "" {
			return fmt.Sprintf("(git ref %s, not cached)", ref), ui.SeverityInfo
		}
		return "(not cached)", ui.SeverityInfo
	}
	if ref == "" {
		return "(cached)", ui.SeverityInfo
	}
	if !gitcmd.RefExists(repo, ref) {
		return fmt.Sprintf("(git %s missing)", ref), ui.SeverityError
	}
	return refDescription(repo, tmpl, ref), ui.SeverityInfo
}

func localRefStatus(tmpl registry.Template, ref string) (string, ui.Severity) {
	if _, err := os.Stat(filepath.Join(tmpl.Location, ".git")); os.IsNotExist(err) {
		return fmt.Sprintf("(git ref %s)", ref), ui.SeverityInfo
	}
	if !gitcmd.RefExists(tmpl.Location, ref) {
		return fmt.Sprintf("(git %s missing)", ref), ui.SeverityError
	}
	return refDescription(tmpl.Location, tmpl, ref), ui.SeverityInfo
}

func refDescription(repo string, tmpl registry.Template, ref string) string {
	if tmpl.Commit != "" {
		return fmt.Sprintf("(at git commit %s)", ref)
	}
	switch gitcmd.ClassifyRef(repo, ref) {
	case gitcmd.RefBranch:
		return fmt.Sprintf("(in git branch %s)", ref)
	case gitcmd.RefTag:
		return fmt.Sprintf("(at git tag %s)", ref)
	default:
		return fmt.Sprintf("(at git commit %s)", ref)
	}
}

func refPin(tmpl registry.Template) string {
	if tmpl.Commit != "" {
		return tmpl.Commit
	}
	return tmpl.GitRef
}
