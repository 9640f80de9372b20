package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/coveshell/cove"
	"github.com/coveshell/cove/completion"
	"github.com/coveshell/cove/modules"
	"github.com/coveshell/cove/shellenv"
)

// environment bundles the live collaborators one invocation works with.
type environment struct {
	config  *cove.Config
	history *shellenv.History
	loader  *modules.Loader
	opts    *completion.Options
}

// buildEnvironment loads the nearest config and wires the completion
// collaborators. A missing config file is not an error; everything falls
// back to the built-in surface.
func buildEnvironment(literalPaths bool) (*environment, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	config, err := cove.LoadConfig(cwd)
	if err != nil {
		if !errors.Is(err, cove.ErrConfigNotFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}

		config = &cove.Config{}
	}

	catalog := cove.Builtin()
	history := shellenv.NewHistory(0)

	loader := modules.NewLoader(config.Modules.Roots)
	if len(config.Modules.Roots) > 0 {
		// Parse failures in individual module files degrade to a smaller
		// surface, not a startup failure.
		_ = loader.Load()
		loader.RegisterCommands(catalog)
	}

	opts := &completion.Options{
		Catalog:            catalog,
		Paths:              shellenv.FS{},
		Variables:          shellenv.NewVars(),
		History:            history,
		Processes:          shellenv.Processes{},
		Modules:            loader,
		Types:              completion.NewTypeCache(completion.BuiltinTypes(), loader),
		ClassMembers:       loader.ClassMembers,
		LiteralPaths:       literalPaths || config.Completion.LiteralPaths,
		RelativePaths:      config.Completion.RelativePaths,
		IgnoreHiddenShares: config.Completion.IgnoreHiddenShares,
	}
	opts.Registry = buildRegistry(opts, &config.Completion)

	return &environment{
		config:  config,
		history: history,
		loader:  loader,
		opts:    opts,
	}, nil
}

// buildRegistry extends the engine's builtin registry with the helper
// scripts the config declares. With no scripts configured the builtin
// registry is left implicit.
func buildRegistry(opts *completion.Options, cfg *cove.CompletionConfig) *completion.Registry {
	if len(cfg.CustomCompleters)+len(cfg.NativeCompleters) == 0 {
		return nil
	}

	registry := completion.DefaultRegistry(opts)

	for key, script := range cfg.CustomCompleters {
		registry.Register(key, shellenv.ScriptCompleter(script))
	}

	for name, script := range cfg.NativeCompleters {
		registry.RegisterNative(name, shellenv.ScriptCompleter(script))
	}

	return registry
}
