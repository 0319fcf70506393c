package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Serenacula/templative/pkg/gitcmd"
	"github.com/Serenacula/templative/pkg/paths"
	"github.com/Serenacula/templative/pkg/registry"
)

// setupDirs points the config and cache locations at per-test temp
// directories so tests never touch the real user state.
func setupDirs(t *testing.T) {
	t.Helper()
	t.Setenv(paths.EnvConfigDir, t.TempDir())
	t.Setenv(paths.EnvCacheDir, t.TempDir())
}

func registerTemplate(t *testing.T, tmpl registry.Template) {
	t.Helper()
	reg, err := registry.Load()
	require.NoError(t, err)
	require.NoError(t, reg.Add(tmpl))
	require.NoError(t, reg.Save())
}

func writeTemplateFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func requireGit(t *testing.T) {
	t.Helper()
	if !gitcmd.IsAvailable() {
		t.Skip("git not installed")
	}
}

func setTestIdentity(t *testing.T) {
	t.Helper()
	gitconfig := filepath.Join(t.TempDir(), "gitconfig")
	content := "[user]\n\tname = Test User\n\temail = test@example.com\n[init]\n\tdefaultBranch = main\n"
	require.NoError(t, os.WriteFile(gitconfig, []byte(content), 0644))
	t.Setenv("GIT_CONFIG_GLOBAL", gitconfig)
	t.Setenv("GIT_CONFIG_SYSTEM", os.DevNull)
}
