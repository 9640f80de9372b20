package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/coveshell/cove/interact"
)

func replCommand() *cli.Command {
	return &cli.Command{
		Name:  "repl",
		Usage: "Start the interactive prompt",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "literal-paths",
				Usage: "treat wildcard characters in paths as literal text",
			},
		},
		Action: runRepl,
	}
}

func runRepl(ctx context.Context, cmd *cli.Command) error {
	env, err := buildEnvironment(cmd.Bool("literal-paths"))
	if err != nil {
		return err
	}

	// Keep the completion surface current while module files change on
	// disk.
	if env.config.Modules.Watch && len(env.config.Modules.Roots) > 0 {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		go func() {
			_ = env.loader.Watch(watchCtx, func() {
				env.opts.Types.Invalidate()
				env.loader.RegisterCommands(env.opts.Catalog)
			})
		}()
	}

	return interact.Run(env.opts, env.history)
}
