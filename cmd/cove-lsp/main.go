// Command cove-lsp is a Language Server Protocol server for cove scripts.
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"io/fs"
	"os"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/coveshell/cove"
	"github.com/coveshell/cove/completion"
	"github.com/coveshell/cove/lsp"
	"github.com/coveshell/cove/modules"
	"github.com/coveshell/cove/shellenv"
)

var debugFlag = flag.Bool("debug", false, "Enable debug logging")

func main() {
	flag.Parse()

	// Log to stderr; stdout carries the LSP stream.
	config := zap.NewDevelopmentConfig()
	config.OutputPaths = []string{"stderr"}
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	if *debugFlag {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := config.Build()
	if err != nil {
		panic(err)
	}

	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("Starting cove-lsp server")

	if err := run(context.Background(), logger, os.Stdin, os.Stdout); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}

func run(ctx context.Context, logger *zap.Logger, in io.Reader, out io.Writer) error {
	stream := jsonrpc2.NewStream(&readWriteCloser{in, out})
	conn := jsonrpc2.NewConn(stream)

	client := protocol.ClientDispatcher(conn, logger)

	server := lsp.NewServer(client, logger, buildOptions(logger))

	conn.Go(ctx, lsp.Handler(server))

	<-conn.Done()

	return conn.Err()
}

// buildOptions wires the completion collaborators for the editor session.
func buildOptions(logger *zap.Logger) *completion.Options {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	config, err := cove.LoadConfig(cwd)
	if err != nil {
		if !errors.Is(err, cove.ErrConfigNotFound) && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Config load failed", zap.Error(err))
		}

		config = &cove.Config{}
	}

	catalog := cove.Builtin()

	loader := modules.NewLoader(config.Modules.Roots)
	if len(config.Modules.Roots) > 0 {
		if err := loader.Load(); err != nil {
			logger.Warn("Module load incomplete", zap.Error(err))
		}
		loader.RegisterCommands(catalog)
	}

	opts := &completion.Options{
		Catalog:            catalog,
		Paths:              shellenv.FS{},
		Variables:          shellenv.NewVars(),
		Processes:          shellenv.Processes{},
		Modules:            loader,
		Types:              completion.NewTypeCache(completion.BuiltinTypes(), loader),
		ClassMembers:       loader.ClassMembers,
		LiteralPaths:       config.Completion.LiteralPaths,
		RelativePaths:      config.Completion.RelativePaths,
		IgnoreHiddenShares: config.Completion.IgnoreHiddenShares,
	}

	if len(config.Completion.CustomCompleters)+len(config.Completion.NativeCompleters) > 0 {
		registry := completion.DefaultRegistry(opts)
		for key, script := range config.Completion.CustomCompleters {
			registry.Register(key, shellenv.ScriptCompleter(script))
		}
		for name, script := range config.Completion.NativeCompleters {
			registry.RegisterNative(name, shellenv.ScriptCompleter(script))
		}
		opts.Registry = registry
	}

	return opts
}

// readWriteCloser wraps separate reader/writer into an io.ReadWriteCloser.
type readWriteCloser struct {
	io.Reader
	io.Writer
}

func (rwc *readWriteCloser) Close() error {
	var errs []error

	if c, ok := rwc.Reader.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	if c, ok := rwc.Writer.(io.Closer); ok {
		errs = append(errs, c.Close())
	}

	return errors.Join(errs...)
}
