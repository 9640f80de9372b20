package analysis

import (
	"strconv"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/coveshell/cove"
)

// TryEval evaluates an expression that provably cannot invoke arbitrary
// code: literals, variable reads, member access and nothing else. Anything
// outside that subset, and any evaluation failure, returns (nil, false).
//
// The restricted source is reconstructed and run with expr-lang against a
// value-only environment, so evaluation is side-effect-free by construction.
func TryEval(e *cove.Expr, vars map[string]any) (any, bool) {
	src, ok := safeSource(e)
	if !ok {
		return nil, false
	}

	if vars == nil {
		vars = map[string]any{}
	}

	program, err := expr.Compile(src, expr.Env(vars), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, false
	}

	out, err := expr.Run(program, vars)
	if err != nil {
		return nil, false
	}

	return out, true
}

// safeSource renders the restricted expression subset as expr-lang source.
// It refuses subexpressions, hash literals and type literals: those can
// reach evaluation machinery this path must never touch.
func safeSource(e *cove.Expr) (string, bool) {
	if e == nil || e.Primary == nil {
		return "", false
	}

	var b strings.Builder

	p := e.Primary

	switch {
	case p.Variable != nil:
		b.WriteString(strings.TrimPrefix(*p.Variable, "$"))
	case p.Str != nil:
		b.WriteString(strconv.Quote(p.Str.Value()))
	case p.Number != nil:
		b.WriteString(*p.Number)
	case p.Bare != nil:
		word, err := cove.UnquoteWord(*p.Bare)
		if err != nil {
			return "", false
		}

		b.WriteString(strconv.Quote(word))
	default:
		return "", false
	}

	for _, m := range e.Members {
		if m.Name == "" {
			return "", false
		}

		b.WriteByte('.')
		b.WriteString(m.Name)
	}

	return b.String(), true
}
