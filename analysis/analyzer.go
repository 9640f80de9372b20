package analysis

import (
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/coveshell/cove"
)

// Analyzer performs semantic analysis on cove source.
type Analyzer struct {
	// catalog is the command surface used for binding checks.
	catalog *cove.Catalog

	// rules is the set of semantic checks to run.
	rules []*Rule
}

// AnalyzedFile is the result of parsing and analyzing one input.
type AnalyzedFile struct {
	Path   string
	Source string

	// Script is the best-effort AST. It can be non-nil even when ParseError
	// is set; nodes before the error are still usable.
	Script *cove.Script

	// Tokens is the full token stream including whitespace.
	Tokens []lexer.Token

	ParseError  error
	Diagnostics []Diagnostic

	Catalog *cove.Catalog
}

// Diagnostic is one reported finding.
type Diagnostic struct {
	Span     cove.Span
	Severity Severity
	Message  string
	Code     string
	Source   string
}

// Severity of a diagnostic.
type Severity int

// Severity levels.
const (
	SeverityError Severity = iota + 1
	SeverityWarning
	SeverityInfo
	SeverityHint
)

// NewAnalyzer creates an analyzer over the given command catalog with the
// default rules. A nil catalog falls back to the builtin command surface.
func NewAnalyzer(catalog *cove.Catalog) *Analyzer {
	if catalog == nil {
		catalog = cove.Builtin()
	}

	return &Analyzer{
		catalog: catalog,
		rules:   DefaultRules(),
	}
}

// NewAnalyzerWithRules creates an analyzer with custom rules.
func NewAnalyzerWithRules(catalog *cove.Catalog, rules []*Rule) *Analyzer {
	if catalog == nil {
		catalog = cove.Builtin()
	}

	return &Analyzer{catalog: catalog, rules: rules}
}

// Analyze parses and analyzes cove source. On parse errors the partial AST
// and token stream are still populated so completion keeps working while the
// user types.
func (a *Analyzer) Analyze(path string, content []byte) *AnalyzedFile {
	source := string(content)

	result := &AnalyzedFile{
		Path:        path,
		Source:      source,
		Tokens:      cove.Tokenize(source),
		Diagnostics: []Diagnostic{},
		Catalog:     a.catalog,
	}

	script, err := cove.Parse(content)
	result.Script = script
	result.ParseError = err

	if err != nil {
		result.Diagnostics = append(result.Diagnostics, parseErrorToDiagnostic(err))
	}

	if script != nil {
		for _, rule := range a.rules {
			rule.Run(result)
		}
	}

	return result
}

// parseErrorToDiagnostic converts a parse error to a diagnostic.
func parseErrorToDiagnostic(err error) Diagnostic {
	span := cove.Span{}
	msg := err.Error()

	// participle errors expose Position() and Message().
	type participleError interface {
		Position() lexer.Position
		Message() string
	}

	var pe participleError
	if ok := asError(err, &pe); ok {
		pos := pe.Position()
		span = cove.Span{Start: pos, End: pos}
		msg = pe.Message()
	}

	return Diagnostic{
		Span:     span,
		Severity: SeverityError,
		Message:  msg,
		Code:     "parse-error",
		Source:   "cove",
	}
}

func asError[T any](err error, target *T) bool {
	if v, ok := err.(T); ok { //nolint:errorlint // participle errors are concrete values
		*target = v

		return true
	}

	return false
}
