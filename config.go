package cove

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the .cove.yaml configuration file.
type Config struct {
	// Completion holds completion engine options.
	Completion CompletionConfig `yaml:"completion,omitempty"`

	// Modules configures module discovery for the session.
	Modules ModulesConfig `yaml:"modules,omitempty"`
}

// CompletionConfig mirrors the engine's option surface.
type CompletionConfig struct {
	// LiteralPaths suppresses wildcard-escaping of [ and ] during path
	// completion.
	LiteralPaths bool `yaml:"literal_paths,omitempty"`

	// RelativePaths forces relative (true) or absolute (false) rendering of
	// path candidates. When absent the engine decides from the typed word.
	RelativePaths *bool `yaml:"relative_paths,omitempty"`

	// IgnoreHiddenShares excludes administrative network shares from UNC
	// path completion.
	IgnoreHiddenShares bool `yaml:"ignore_hidden_shares,omitempty"`

	// CustomCompleters maps command names to scripts that produce candidates
	// for that command's arguments.
	CustomCompleters map[string]string `yaml:"custom_completers,omitempty"`

	// NativeCompleters is the same for external (native) executables.
	NativeCompleters map[string]string `yaml:"native_completers,omitempty"`
}

// ModulesConfig configures the module loader.
type ModulesConfig struct {
	// Roots are directories searched for .cove module files.
	Roots []string `yaml:"roots,omitempty"`

	// Watch enables invalidation of the type catalog when module files
	// change on disk.
	Watch bool `yaml:"watch,omitempty"`
}

// DefaultConfigNames are the filenames we search for.
var DefaultConfigNames = []string{".cove.yaml", ".cove.yml", "cove.yaml", "cove.yml"}

// LoadConfig finds and loads the nearest .cove.yaml walking up from dir.
func LoadConfig(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}

	return LoadConfigFile(path)
}

// FindConfig searches for a config file starting from dir and walking up.
func FindConfig(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for dir := absDir; ; {
		for _, name := range DefaultConfigNames {
			path := filepath.Join(dir, name)

			_, err := os.Stat(path)
			if err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}

		dir = parent
	}
}

// LoadConfigFile loads a config from a specific path.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var cfg Config

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
