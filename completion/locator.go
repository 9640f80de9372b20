package completion

import (
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/coveshell/cove"
	"github.com/coveshell/cove/analysis"
)

// Location describes where, relative to the already-bound arguments of a
// command, the cursor sits. Either a new or existing positional slot, or a
// named parameter's value region.
type Location struct {
	// Positional reports whether the cursor completes an unnamed
	// argument. Position is only meaningful when it is set.
	Positional bool

	// Position is the zero-based positional slot at the cursor.
	Position int

	// Pair is the bound pair the cursor is attached to, nil for a fresh
	// positional slot.
	Pair *analysis.ArgumentPair
}

// LocateAtToken maps a cursor token to a completion slot within the bound
// pairs of a command. Pairs are in source order, as the binder produces
// them.
//
// A named parameter claims the cursor when its value region contains it or
// when the parameter token itself starts exactly at the cursor token. A
// parameter whose name the user already terminated with the value
// separator claims the cursor too, even with no value typed yet. Otherwise
// the slot is positional: the first pair starting after the cursor ends
// the scan, and the slot index is the count of positional pairs strictly
// before the cursor.
func LocateAtToken(pairs []*analysis.ArgumentPair, tok lexer.Token) Location {
	cursor := tok.Pos.Offset
	positionals := 0

	for _, pair := range pairs {
		if !pair.Positional() {
			if pair.Parameter.Pos.Offset == cursor {
				return Location{Pair: pair}
			}

			if pair.StartOffset() > cursor {
				return Location{Positional: true, Position: positionals}
			}

			if pair.Argument != nil && pair.Argument.Contains(cursor) {
				return Location{Pair: pair}
			}

			// Name already terminated with the separator but no
			// value yet: the cursor belongs to this pair's value,
			// not to a new positional slot.
			if pair.Argument == nil && pair.Parameter.HasSeparator() &&
				cursor >= pair.Parameter.EndPos.Offset {
				return Location{Pair: pair}
			}

			continue
		}

		if pair.StartOffset() > cursor {
			return Location{Positional: true, Position: positionals}
		}

		if pair.Contains(cursor) {
			return Location{Positional: true, Position: positionals, Pair: pair}
		}

		positionals++
	}

	return Location{Positional: true, Position: positionals}
}

// LocateAtNode maps a target expression node to a completion slot. The
// second result is false when no pair holds the node; that outcome is
// ordinary and tells the caller to apply its default heuristics.
func LocateAtNode(pairs []*analysis.ArgumentPair, target cove.Node) (Location, bool) {
	if target == nil {
		return Location{}, false
	}

	span := target.Span()
	positionals := 0

	for _, pair := range pairs {
		arg := pair.Argument
		holds := arg != nil && (cove.Node(arg) == target ||
			(arg.Pos.Offset <= span.Start.Offset && span.End.Offset <= arg.EndPos.Offset))

		if !pair.Positional() {
			if holds {
				return Location{Pair: pair}, true
			}

			continue
		}

		if holds {
			return Location{Positional: true, Position: positionals, Pair: pair}, true
		}

		positionals++
	}

	return Location{}, false
}

// CompletePositionalArgument selects the unbound parameter that should
// receive the positional argument at position. Selection prefers the
// declared position closest to, and not less than, the requested one; a
// match inside the default parameter set wins over any match outside it,
// even a numerically closer one. When nothing is declared at or beyond the
// position, a parameter accepting all remaining arguments from an earlier
// position serves as the fallback.
func CompletePositionalArgument(unbound []*cove.ParameterInfo, position int, defaultSet string) *cove.ParameterInfo {
	type match struct {
		param    *cove.ParameterInfo
		declared int
	}

	var inDefault, elsewhere, remaining *match

	consider := func(slot **match, p *cove.ParameterInfo, declared int) {
		if *slot == nil || declared < (*slot).declared {
			*slot = &match{param: p, declared: declared}
		}
	}

	for _, p := range unbound {
		for set, info := range p.Sets {
			if info.Position == cove.PositionNone {
				continue
			}

			inSet := set == cove.AllSets || (defaultSet != "" && set == defaultSet)

			if info.Position >= position {
				if inSet {
					consider(&inDefault, p, info.Position)
				} else {
					consider(&elsewhere, p, info.Position)
				}

				continue
			}

			if info.Remaining {
				consider(&remaining, p, info.Position)
			}
		}
	}

	switch {
	case inDefault != nil:
		return inDefault.param
	case elsewhere != nil:
		return elsewhere.param
	case remaining != nil:
		return remaining.param
	default:
		return nil
	}
}
