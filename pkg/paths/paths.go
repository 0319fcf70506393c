// Package paths provides centralized path handling for templative.
// Locations follow the XDG Base Directory specification with explicit
// environment overrides for tests and unusual setups.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvConfigDir overrides the config directory for templative
	EnvConfigDir = "TEMPLATIVE_CONFIG_DIR"

	// EnvCacheDir overrides the cache directory for templative
	EnvCacheDir = "TEMPLATIVE_CACHE_DIR"
)

// File and directory names inside templative's own directories. These
// are not user-configurable; they form the on-disk contract.
const (
	appDirName = "templative"

	// ConfigFileName is the global config file name
	ConfigFileName = "config.toml"

	// RegistryFileName is the template registry file name
	RegistryFileName = "templates.json"

	// gitCacheDirName holds cached clones of URL templates
	gitCacheDirName = "git"
)

// ConfigDir returns the directory holding the config file and registry.
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	return filepath.Join(xdg.ConfigHome, appDirName)
}

// ConfigFilePath returns the global config file location.
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}

// RegistryPath returns the template registry file location.
func RegistryPath() string {
	return filepath.Join(ConfigDir(), RegistryFileName)
}

// CacheDir returns the root directory for cached template clones.
func CacheDir() string {
	if dir := os.Getenv(EnvCacheDir); dir != "" {
		return dir
	}
	return filepath.Join(xdg.CacheHome, appDirName, gitCacheDirName)
}
