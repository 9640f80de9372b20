// Command cove is the cove shell front end: one-shot completion queries for
// scripting and an interactive prompt.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "cove",
		Usage: "cove shell tooling",
		Commands: []*cli.Command{
			completeCommand(),
			replCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "cove:", err)
		os.Exit(1)
	}
}
