package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/coveshell/cove/completion"
)

// ErrNoInput is returned when the complete command gets no input line.
var ErrNoInput = errors.New("no input line given")

func completeCommand() *cli.Command {
	return &cli.Command{
		Name:      "complete",
		Usage:     "Resolve completions for an input line",
		ArgsUsage: "<line>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "cursor",
				Aliases: []string{"c"},
				Usage:   "byte offset of the cursor (default: end of line)",
				Value:   -1,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "output candidates as JSON",
			},
			&cli.BoolFlag{
				Name:  "literal-paths",
				Usage: "treat wildcard characters in paths as literal text",
			},
		},
		Action: runComplete,
	}
}

// jsonCandidate is the machine-readable candidate shape.
type jsonCandidate struct {
	Replacement string `json:"replacement"`
	Display     string `json:"display"`
	Kind        string `json:"kind"`
	Tooltip     string `json:"tooltip,omitempty"`
}

type jsonResult struct {
	ReplacementStart  int             `json:"replacement_start"`
	ReplacementLength int             `json:"replacement_length"`
	Candidates        []jsonCandidate `json:"candidates"`
}

func runComplete(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		return ErrNoInput
	}

	line := args[0]

	cursor := int(cmd.Int("cursor"))
	if cursor < 0 {
		cursor = len(line)
	}

	env, err := buildEnvironment(cmd.Bool("literal-paths"))
	if err != nil {
		return err
	}

	session, err := completion.Complete(ctx, line, cursor, env.opts)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return writeJSON(session)
	}

	for _, c := range session.Candidates {
		fmt.Printf("%s\t%s\t%s\n", c.Replacement, c.Kind, c.Tooltip)
	}

	return nil
}

func writeJSON(session *completion.Session) error {
	result := jsonResult{
		ReplacementStart:  session.ReplacementStart,
		ReplacementLength: session.ReplacementLength,
		Candidates:        make([]jsonCandidate, 0, len(session.Candidates)),
	}

	for _, c := range session.Candidates {
		result.Candidates = append(result.Candidates, jsonCandidate{
			Replacement: c.Replacement,
			Display:     c.Display,
			Kind:        c.Kind.String(),
			Tooltip:     c.Tooltip,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(result)
}
