package shellenv

import (
	"context"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/coveshell/cove/completion"
)

// Processes enumerates live OS processes.
type Processes struct{}

var _ completion.ProcessSource = Processes{}

// Processes lists the running processes. Individual processes that vanish
// or deny access mid-enumeration are skipped; cancellation aborts with the
// context's error.
func (Processes) Processes(ctx context.Context) ([]completion.ProcessInfo, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]completion.ProcessInfo, 0, len(procs))
	for _, p := range procs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name, err := p.NameWithContext(ctx)
		if err != nil || name == "" {
			continue
		}

		out = append(out, completion.ProcessInfo{PID: p.Pid, Name: name})
	}

	return out, nil
}
