// Package analysis provides semantic analysis for cove source: parameter
// binding, static type inference, and safe expression evaluation.
package analysis

import (
	"errors"
	"strings"

	"github.com/coveshell/cove"
)

// ArgumentPair is one parsed parameter/argument pairing of a command
// invocation, in source order. A positional argument has a nil Parameter; a
// switch parameter or a parameter still waiting for its value has a nil
// Argument.
type ArgumentPair struct {
	Parameter *cove.ParameterArg
	Argument  *cove.Expr

	// Info is the resolved declaration for a named parameter. It stays nil
	// for positional pairs, unknown parameters and ambiguous names.
	Info *cove.ParameterInfo
}

// Positional reports whether the pair is an unnamed argument.
func (p *ArgumentPair) Positional() bool { return p.Parameter == nil }

// StartOffset returns the byte offset where the pair begins in source.
func (p *ArgumentPair) StartOffset() int {
	if p.Parameter != nil {
		return p.Parameter.Pos.Offset
	}
	if p.Argument != nil {
		return p.Argument.Pos.Offset
	}

	return 0
}

// EndOffset returns the byte offset just past the pair in source.
func (p *ArgumentPair) EndOffset() int {
	if p.Argument != nil {
		return p.Argument.EndPos.Offset
	}
	if p.Parameter != nil {
		return p.Parameter.EndPos.Offset
	}

	return 0
}

// Contains reports whether the byte offset falls inside the pair, inclusive
// at both ends.
func (p *ArgumentPair) Contains(offset int) bool {
	return p.StartOffset() <= offset && offset <= p.EndOffset()
}

// BindingResult is the outcome of matching a command invocation's elements
// against the command's declared parameters.
type BindingResult struct {
	// Command is the resolved declaration, nil when the command is unknown.
	Command *cove.CommandInfo

	// Pairs lists every parameter/argument pair in source order, including
	// pairs that could not be resolved against a declaration.
	Pairs []*ArgumentPair

	// Bound maps canonical parameter names to the pair that bound them.
	Bound map[string]*ArgumentPair

	// Unbound lists declared parameters not bound by any pair.
	Unbound []*cove.ParameterInfo

	// DefaultSet is the command's default parameter set, empty if none.
	DefaultSet string
}

// Bind matches the elements of a command invocation against the catalog.
//
// Binding is deliberately forgiving: an unknown command still produces pairs
// (with no declaration metadata) so the completion engine can reason about
// argument positions, and an ambiguous parameter name is reported via
// cove.ErrAmbiguousParameter while the rest of the result stays usable. The
// caller is expected to fall back to scanning Unbound directly in that case.
func Bind(cmd *cove.Command, cat *cove.Catalog) (*BindingResult, error) {
	result := &BindingResult{
		Bound: make(map[string]*ArgumentPair),
	}

	var bindErr error

	if cmd == nil {
		return result, nil
	}

	if info, ok := cat.Lookup(cmd.Name.Text()); ok {
		result.Command = info
		result.DefaultSet = info.DefaultSet
	} else if name := cmd.Name.Text(); name != "" {
		bindErr = cove.ErrUnknownCommand
	}

	elements := cmd.Elements

	for i := 0; i < len(elements); i++ {
		el := elements[i]

		if el.Parameter == nil {
			if el.Argument != nil {
				result.Pairs = append(result.Pairs, &ArgumentPair{Argument: el.Argument})
			}

			continue
		}

		pair := &ArgumentPair{Parameter: el.Parameter}

		if result.Command != nil {
			info, err := result.Command.Parameter(el.Parameter.Name())
			switch {
			case err == nil:
				pair.Info = info
			case errors.Is(err, cove.ErrAmbiguousParameter):
				bindErr = err
			}
		}

		// A switch parameter takes no value unless the user forced one with
		// the : separator.
		wantsValue := pair.Info == nil || !pair.Info.Switch || el.Parameter.HasSeparator()

		if wantsValue && i+1 < len(elements) && elements[i+1].Argument != nil {
			pair.Argument = elements[i+1].Argument
			i++
		}

		result.Pairs = append(result.Pairs, pair)

		if pair.Info != nil {
			result.Bound[canonical(pair.Info.Name)] = pair
		}
	}

	if result.Command != nil {
		for _, p := range result.Command.Parameters {
			if _, ok := result.Bound[canonical(p.Name)]; !ok {
				result.Unbound = append(result.Unbound, p)
			}
		}
	}

	return result, bindErr
}

// PositionalCount returns the number of positional pairs that start strictly
// before the byte offset.
func (r *BindingResult) PositionalCount(before int) int {
	count := 0

	for _, p := range r.Pairs {
		if p.Positional() && p.StartOffset() < before {
			count++
		}
	}

	return count
}

func canonical(name string) string { return strings.ToLower(name) }
