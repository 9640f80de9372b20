package shellenv

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/coveshell/cove/completion"
)

// ScriptCompleter runs a shell helper to produce argument candidates, one
// per stdout line; text after a tab becomes the tooltip. The helper sees
// the request through COVE_COMMAND, COVE_PARAMETER, and COVE_WORD.
func ScriptCompleter(script string) completion.ArgumentCompleter {
	return func(ctx context.Context, req completion.ArgumentRequest) ([]completion.Candidate, error) {
		cmd := exec.CommandContext(ctx, "/bin/sh", "-c", script)
		cmd.Env = append(os.Environ(),
			"COVE_COMMAND="+req.Command,
			"COVE_PARAMETER="+req.Parameter,
			"COVE_WORD="+req.Prefix,
		)

		output, err := cmd.Output()
		if err != nil {
			return nil, err
		}

		var out []completion.Candidate

		sc := bufio.NewScanner(bytes.NewReader(output))
		for sc.Scan() {
			line := strings.TrimRight(sc.Text(), "\r")
			if line == "" {
				continue
			}

			value, tooltip, _ := strings.Cut(line, "\t")
			if !strings.HasPrefix(strings.ToLower(value), strings.ToLower(req.Prefix)) {
				continue
			}

			cand := completion.Candidate{
				Replacement: completion.Render(value, req.Quote, false),
				Display:     value,
				Kind:        completion.KindParameterValue,
				Tooltip:     value,
			}
			if tooltip != "" {
				cand.Tooltip = tooltip
			}

			out = append(out, cand)
		}

		return out, sc.Err()
	}
}
