package completion

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// VariableInfo describes one shell variable available for completion.
type VariableInfo struct {
	Name  string
	Value any
}

// VariableSource enumerates the variables of the current session.
type VariableSource interface {
	Variables() []VariableInfo
}

// HistoryEntry is one previously executed input line.
type HistoryEntry struct {
	ID   int
	Line string
}

// HistorySource exposes the session's command history, oldest first.
type HistorySource interface {
	History() []HistoryEntry
}

// ProcessInfo identifies one live process.
type ProcessInfo struct {
	PID  int32
	Name string
}

// ProcessSource enumerates live processes. Enumeration can be slow, so it
// takes a context and may return a partial list on cancellation.
type ProcessSource interface {
	Processes(ctx context.Context) ([]ProcessInfo, error)
}

// ModuleInfo describes one loadable command module.
type ModuleInfo struct {
	Name string
	Path string
}

// ModuleSource enumerates the modules visible on the configured roots.
type ModuleSource interface {
	Modules() []ModuleInfo
}

// ArgumentRequest carries everything an argument completer needs: the
// command and canonical parameter name being completed, the unquoted word
// prefix under the cursor, and its quoting context.
type ArgumentRequest struct {
	Command   string
	Parameter string
	Prefix    string
	Quote     QuoteContext
}

// ArgumentCompleter contributes candidates for one parameter's value. A
// returned error marks the source as failed; the engine drops its output
// and continues with other sources.
type ArgumentCompleter func(ctx context.Context, req ArgumentRequest) ([]Candidate, error)

// Registry routes a command and parameter to the completer that supplies
// its values. Custom entries are consulted first, then native entries,
// which exist for commands outside the catalog. Keys are either
// "command:parameter" or a bare parameter name matching that parameter on
// any command.
type Registry struct {
	custom map[string]ArgumentCompleter
	native map[string]ArgumentCompleter
}

func NewRegistry() *Registry {
	return &Registry{
		custom: make(map[string]ArgumentCompleter),
		native: make(map[string]ArgumentCompleter),
	}
}

// Register installs a custom completer under "command:parameter", or a
// bare parameter name to match any command.
func (r *Registry) Register(key string, fn ArgumentCompleter) {
	r.custom[strings.ToLower(key)] = fn
}

// RegisterNative installs a completer for a command the catalog does not
// declare. The key is the command name.
func (r *Registry) RegisterNative(command string, fn ArgumentCompleter) {
	r.native[strings.ToLower(command)] = fn
}

// lookup resolves the completer for a command and parameter, most specific
// key first.
func (r *Registry) lookup(command, parameter string) (ArgumentCompleter, bool) {
	command = strings.ToLower(command)
	parameter = strings.ToLower(parameter)

	if fn, ok := r.custom[command+":"+parameter]; ok {
		return fn, true
	}

	if parameter != "" {
		if fn, ok := r.custom[parameter]; ok {
			return fn, true
		}
	}

	if fn, ok := r.native[command]; ok {
		return fn, true
	}

	return nil, false
}

// DefaultRegistry returns the registry Complete falls back to when
// Options.Registry is nil, ready for additional Register calls.
func DefaultRegistry(opts *Options) *Registry {
	return defaultRegistry(opts)
}

// defaultRegistry wires the builtin value completers for catalog commands
// whose parameters name live session state.
func defaultRegistry(opts *Options) *Registry {
	r := NewRegistry()

	if opts.Processes != nil {
		names := processNameCompleter(opts.Processes)
		r.Register("get-process:name", names)
		r.Register("stop-process:name", names)
		r.Register("get-process:id", processIDCompleter(opts.Processes))
		r.Register("stop-process:id", processIDCompleter(opts.Processes))
	}

	if opts.Modules != nil {
		r.Register("import-module:name", moduleNameCompleter(opts.Modules))
	}

	if opts.History != nil {
		r.Register("get-history:id", historyIDCompleter(opts.History))
	}

	return r
}

func processNameCompleter(src ProcessSource) ArgumentCompleter {
	return func(ctx context.Context, req ArgumentRequest) ([]Candidate, error) {
		procs, err := src.Processes(ctx)
		if err != nil {
			return nil, err
		}

		var out []Candidate

		for _, p := range procs {
			if !strings.HasPrefix(strings.ToLower(p.Name), strings.ToLower(req.Prefix)) {
				continue
			}

			out = append(out, Candidate{
				Replacement: Render(p.Name, req.Quote, false),
				Display:     p.Name,
				Kind:        KindParameterValue,
				Tooltip:     fmt.Sprintf("%s (%d)", p.Name, p.PID),
			})
		}

		return out, nil
	}
}

func processIDCompleter(src ProcessSource) ArgumentCompleter {
	return func(ctx context.Context, req ArgumentRequest) ([]Candidate, error) {
		procs, err := src.Processes(ctx)
		if err != nil {
			return nil, err
		}

		var out []Candidate

		for _, p := range procs {
			id := strconv.Itoa(int(p.PID))
			if !strings.HasPrefix(id, req.Prefix) {
				continue
			}

			out = append(out, Candidate{
				Replacement: id,
				Display:     id,
				Kind:        KindParameterValue,
				Tooltip:     fmt.Sprintf("%d %s", p.PID, p.Name),
			})
		}

		return out, nil
	}
}

func moduleNameCompleter(src ModuleSource) ArgumentCompleter {
	return func(ctx context.Context, req ArgumentRequest) ([]Candidate, error) {
		var out []Candidate

		for _, m := range src.Modules() {
			if !strings.HasPrefix(strings.ToLower(m.Name), strings.ToLower(req.Prefix)) {
				continue
			}

			out = append(out, Candidate{
				Replacement: Render(m.Name, req.Quote, false),
				Display:     m.Name,
				Kind:        KindParameterValue,
				Tooltip:     m.Path,
			})
		}

		return out, nil
	}
}

func historyIDCompleter(src HistorySource) ArgumentCompleter {
	return func(ctx context.Context, req ArgumentRequest) ([]Candidate, error) {
		var out []Candidate

		for _, h := range src.History() {
			id := strconv.Itoa(h.ID)
			if !strings.HasPrefix(id, req.Prefix) {
				continue
			}

			out = append(out, Candidate{
				Replacement: id,
				Display:     id,
				Kind:        KindHistory,
				Tooltip:     h.Line,
			})
		}

		return out, nil
	}
}
