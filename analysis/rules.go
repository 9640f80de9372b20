package analysis

import (
	"errors"
	"fmt"

	"github.com/coveshell/cove"
)

// Rule is one semantic check over an analyzed file.
type Rule struct {
	Name string
	Doc  string
	Run  func(*AnalyzedFile)
}

// DefaultRules returns the standard rule set.
func DefaultRules() []*Rule {
	return []*Rule{
		ruleUnknownCommand(),
		ruleUnknownParameter(),
	}
}

// eachCommand applies fn to every command invocation in the file, including
// commands nested in subexpressions.
func eachCommand(f *AnalyzedFile, fn func(*cove.Command)) {
	if f.Script == nil {
		return
	}

	var walk func(n cove.Node)
	walk = func(n cove.Node) {
		if cmd, ok := n.(*cove.Command); ok {
			fn(cmd)
		}

		for _, ch := range cove.Children(n) {
			walk(ch)
		}
	}

	walk(f.Script)
}

// ruleUnknownCommand reports command names not present in the catalog.
func ruleUnknownCommand() *Rule {
	return &Rule{
		Name: "unknown-command",
		Doc:  "Reports command names that are not declared in the catalog.",
		Run: func(f *AnalyzedFile) {
			eachCommand(f, func(cmd *cove.Command) {
				name := cmd.Name.Text()
				if name == "" || cmd.Invoked {
					// Invocation-operator targets are paths or expressions,
					// not catalog names.
					return
				}

				if _, ok := f.Catalog.Lookup(name); !ok {
					f.Diagnostics = append(f.Diagnostics, Diagnostic{
						Span:     cmd.Name.Span(),
						Severity: SeverityWarning,
						Message:  fmt.Sprintf("unknown command %q", name),
						Code:     "unknown-command",
						Source:   "cove",
					})
				}
			})
		},
	}
}

// ruleUnknownParameter reports parameters that do not resolve against the
// command's declaration. Ambiguous prefixes get their own message.
func ruleUnknownParameter() *Rule {
	return &Rule{
		Name: "unknown-parameter",
		Doc:  "Reports parameters that match no declared parameter of the command.",
		Run: func(f *AnalyzedFile) {
			eachCommand(f, func(cmd *cove.Command) {
				info, ok := f.Catalog.Lookup(cmd.Name.Text())
				if !ok {
					return
				}

				for _, el := range cmd.Elements {
					if el.Parameter == nil {
						continue
					}

					_, err := info.Parameter(el.Parameter.Name())
					if err == nil {
						continue
					}

					msg := fmt.Sprintf("unknown parameter -%s for %s", el.Parameter.Name(), info.Name)
					if errors.Is(err, cove.ErrAmbiguousParameter) {
						msg = fmt.Sprintf("ambiguous parameter -%s for %s", el.Parameter.Name(), info.Name)
					}

					f.Diagnostics = append(f.Diagnostics, Diagnostic{
						Span:     el.Parameter.Span(),
						Severity: SeverityWarning,
						Message:  msg,
						Code:     "unknown-parameter",
						Source:   "cove",
					})
				}
			})
		},
	}
}
