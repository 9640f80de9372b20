package completion

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/coveshell/cove"
	"github.com/coveshell/cove/analysis"
)

// ErrInvalidArgument reports a malformed request: a cursor offset outside
// the input, or a missing tree or token stream. It is the engine's only
// hard failure; every other problem degrades to fewer candidates.
var ErrInvalidArgument = errors.New("completion: invalid argument")

// Override is a caller-supplied replacement for the whole resolution path.
// When set it runs first and its session is used as-is if well-formed;
// otherwise the engine's own resolution continues.
type Override func(ctx context.Context, source string, cursor int) (*Session, error)

// Options configures one completion request. All collaborator fields are
// optional; a nil collaborator simply removes the candidate sources that
// need it.
type Options struct {
	// Catalog declares the known commands. Defaults to cove.Builtin().
	Catalog *cove.Catalog

	// Paths lists file system children for path completion.
	Paths PathProvider

	// Variables, History, Processes and Modules feed the corresponding
	// candidate sources.
	Variables VariableSource
	History   HistorySource
	Processes ProcessSource
	Modules   ModuleSource

	// Types is the shared type and namespace catalog.
	Types *TypeCache

	// ClassMembers resolves the declared members of a named type, for
	// member and hashtable-key completion against user-defined classes.
	ClassMembers func(typeName string) []Member

	// Registry routes parameter values to argument completers. When nil
	// a registry over the collaborators above is built per request.
	Registry *Registry

	// Override cedes control to a caller-defined completer first.
	Override Override

	// LiteralPaths treats wildcard metacharacters in paths as literal
	// text. RelativePaths, when set, forces relative or absolute path
	// rendering instead of following the input's notation.
	// IgnoreHiddenShares drops administrative share names.
	LiteralPaths       bool
	RelativePaths      *bool
	IgnoreHiddenShares bool
}

func (o *Options) catalog() *cove.Catalog {
	if o.Catalog != nil {
		return o.Catalog
	}

	return cove.Builtin()
}

func (o *Options) registry() *Registry {
	if o.Registry != nil {
		return o.Registry
	}

	return defaultRegistry(o)
}

func (o *Options) pathOptions() pathOptions {
	return pathOptions{
		literalPaths:       o.LiteralPaths,
		relativePaths:      o.RelativePaths,
		ignoreHiddenShares: o.IgnoreHiddenShares,
	}
}

// Complete resolves the cursor position within source and synthesizes the
// candidate replacements for it. cursor is a byte offset and must lie
// within [0, len(source)]; anything else fails with ErrInvalidArgument.
// The input is never mutated and the returned session is independent of
// it. A request that resolves to nothing returns an empty session, not an
// error.
func Complete(ctx context.Context, source string, cursor int, opts *Options) (*Session, error) {
	if opts == nil {
		opts = &Options{}
	}

	if cursor < 0 || cursor > len(source) {
		return nil, ErrInvalidArgument
	}

	if opts.Override != nil {
		if s := runOverride(ctx, source, cursor, opts.Override); s != nil {
			return s, nil
		}
	}

	script, _ := cove.ParseString(source)
	tokens := cove.Tokenize(source)

	return CompleteScript(ctx, script, tokens, source, cursor, opts)
}

// CompleteScript is the tree-level entry point for callers that already
// parsed the input, such as the language server. script may be nil when
// parsing failed completely; tokens must cover the source.
func CompleteScript(ctx context.Context, script *cove.Script, tokens []lexer.Token, source string, cursor int, opts *Options) (*Session, error) {
	if opts == nil {
		opts = &Options{}
	}

	if cursor < 0 || cursor > len(source) {
		return nil, ErrInvalidArgument
	}

	if tokens == nil {
		return nil, ErrInvalidArgument
	}

	req := &request{
		ctx:     ctx,
		source:  source,
		cursor:  cursor,
		script:  script,
		tokens:  tokens,
		opts:    opts,
		catalog: opts.catalog(),
	}

	req.resolveWord()

	candidates := req.dispatch()
	merged := mergeCandidates(candidates)

	start, length := req.span()
	if len(merged) == 0 && req.word == "" && req.tok == nil {
		start, length = -1, -1
	}

	return newSession(merged, start, length), nil
}

// request is the per-call state: one completion attempt, no sharing.
type request struct {
	ctx     context.Context
	source  string
	cursor  int
	script  *cove.Script
	tokens  []lexer.Token
	opts    *Options
	catalog *cove.Catalog

	// tok is the non-whitespace token under the cursor, nil in gaps.
	// word is its text up to the cursor, unquoted; quote is the
	// context derived from the raw text.
	tok   *lexer.Token
	word  string
	raw   string
	quote QuoteContext

	path []cove.Node

	// wholeLine marks history recall, where a candidate replaces the
	// entire input rather than one word.
	wholeLine bool
}

func (r *request) resolveWord() {
	r.tok = analysis.TokenAtOffset(r.tokens, r.cursor)
	r.quote = QuoteContext{Style: StyleBare, Literal: r.opts.LiteralPaths}

	if r.tok != nil && wordToken(r.tok.Type) {
		r.raw = r.tok.Value[:r.cursor-r.tok.Pos.Offset]
		r.quote = ContextForWord(r.raw)
		r.quote.Literal = r.quote.Literal || r.opts.LiteralPaths
		r.word, _ = cove.UnquoteWord(r.raw)
	}

	if r.script != nil {
		r.path = cove.PathTo(r.script, r.cursor)
	}
}

func wordToken(t lexer.TokenType) bool {
	switch t {
	case cove.TokenBareword, cove.TokenString, cove.TokenVariable,
		cove.TokenParameter, cove.TokenNumber:
		return true
	default:
		return false
	}
}

// span reports the replacement region: the full token under the cursor, or
// an empty region at the cursor when completion starts in a gap.
func (r *request) span() (start, length int) {
	if r.wholeLine {
		return 0, len(r.source)
	}

	if r.tok != nil && wordToken(r.tok.Type) {
		return r.tok.Pos.Offset, len(r.tok.Value)
	}

	return r.cursor, 0
}

func (r *request) cancelled() bool {
	return r.ctx != nil && r.ctx.Err() != nil
}

// dispatch classifies the cursor's syntactic position and runs the
// matching candidate sources. An unclassifiable position is not an error;
// it yields nothing.
func (r *request) dispatch() []Candidate {
	if r.historyPosition() {
		// A recalled line replaces the whole input.
		r.wholeLine = true

		return r.completeHistory()
	}

	if r.memberPosition() {
		return r.completeMember()
	}

	if r.tok != nil && r.tok.Type == cove.TokenVariable {
		return r.completeVariables()
	}

	if lit := r.typeLiteral(); lit != nil {
		return r.completeTypes(lit)
	}

	if hash := r.hashLiteral(); hash != nil {
		return r.completeHashKeys(hash)
	}

	// A lone dash has not lexed as a parameter token yet, but the user
	// is clearly starting one.
	if r.tok != nil && (r.tok.Type == cove.TokenParameter || strings.HasPrefix(r.raw, "-")) {
		return r.completeParameterNames()
	}

	if r.commandPosition() {
		return r.completeCommands()
	}

	return r.completeArgument()
}

// historyPosition holds for an empty input or one introduced with the
// history recall prefix.
func (r *request) historyPosition() bool {
	trimmed := strings.TrimSpace(r.source)

	return trimmed == "" || strings.HasPrefix(trimmed, "!")
}

func (r *request) completeHistory() []Candidate {
	if r.opts.History == nil {
		return nil
	}

	prefix := strings.TrimPrefix(strings.TrimSpace(r.source[:r.cursor]), "!")

	var out []Candidate

	entries := r.opts.History.History()

	// Recent entries first.
	for i := len(entries) - 1; i >= 0; i-- {
		if r.cancelled() {
			break
		}

		h := entries[i]
		if !strings.HasPrefix(strings.ToLower(h.Line), strings.ToLower(prefix)) {
			continue
		}

		out = append(out, Candidate{
			Replacement: h.Line,
			Display:     h.Line,
			Kind:        KindHistory,
			Tooltip:     h.Line,
		})
	}

	return out
}

// memberPosition holds when the cursor sits on a member-access dot or on
// the name right after one.
func (r *request) memberPosition() bool {
	if r.tok != nil && r.tok.Type == cove.TokenDot {
		return true
	}

	prev := analysis.PrevToken(r.tokens, r.startOfWord())

	return prev != nil && prev.Type == cove.TokenDot
}

// startOfWord is the offset where the word under the cursor begins, or the
// cursor itself in a gap.
func (r *request) startOfWord() int {
	if r.tok != nil {
		return r.tok.Pos.Offset
	}

	return r.cursor
}

func (r *request) completeMember() []Candidate {
	expr := r.enclosingExpr()
	if expr == nil {
		return nil
	}

	prefix := r.word
	if r.tok != nil && r.tok.Type == cove.TokenDot {
		prefix = ""
	}

	members := r.membersOf(expr)
	if len(members) == 0 {
		return nil
	}

	return UnifyMembers(members, MemberOptions{
		Prefix:               prefix,
		AddMethodParenthesis: true,
	})
}

// enclosingExpr finds the innermost expression with a member chain on the
// cursor's ancestor path.
func (r *request) enclosingExpr() *cove.Expr {
	for i := len(r.path) - 1; i >= 0; i-- {
		if e, ok := r.path[i].(*cove.Expr); ok && len(e.Members) > 0 {
			return e
		}
	}

	return nil
}

// membersOf resolves the member set of the expression's base: safe
// evaluation and inference first, then declared class members for named
// types. The final typed segment is the one being completed and is not
// followed.
func (r *request) membersOf(expr *cove.Expr) []Member {
	base := &cove.Expr{Primary: expr.Primary}
	if n := len(expr.Members); n > 0 {
		base.Members = expr.Members[:n-1]
	}

	env := &analysis.Env{Vars: r.variableValues()}

	var members []Member

	for _, desc := range analysis.InferTypes(base, env) {
		if desc.HasValue() {
			members = append(members, reflectMembers(desc.Value)...)

			continue
		}

		if desc.Type != nil && desc.Type.Kind == cove.TypeKindNamed && r.opts.ClassMembers != nil {
			members = append(members, r.opts.ClassMembers(desc.Type.String())...)
		}
	}

	return members
}

func (r *request) variableValues() map[string]any {
	if r.opts.Variables == nil {
		return nil
	}

	vars := r.opts.Variables.Variables()
	out := make(map[string]any, len(vars))

	for _, v := range vars {
		out[v.Name] = v.Value
	}

	return out
}

func (r *request) completeVariables() []Candidate {
	if r.opts.Variables == nil {
		return nil
	}

	prefix := strings.TrimPrefix(r.raw, "$")

	var out []Candidate

	for _, v := range r.opts.Variables.Variables() {
		if !strings.HasPrefix(strings.ToLower(v.Name), strings.ToLower(prefix)) {
			continue
		}

		out = append(out, Candidate{
			Replacement: "$" + v.Name,
			Display:     "$" + v.Name,
			Kind:        KindVariable,
			Tooltip:     variableTooltip(v),
		})
	}

	return out
}

func variableTooltip(v VariableInfo) string {
	if v.Value == nil {
		return "$" + v.Name
	}

	rt := reflect.TypeOf(v.Value)

	return "[" + rt.String() + "] $" + v.Name
}

// typeLiteral returns the innermost open type literal on the ancestor
// path, nil when the cursor is not inside one.
func (r *request) typeLiteral() *cove.TypeLit {
	for i := len(r.path) - 1; i >= 0; i-- {
		if lit, ok := r.path[i].(*cove.TypeLit); ok {
			return lit
		}
	}

	return nil
}

func (r *request) completeTypes(lit *cove.TypeLit) []Candidate {
	if r.opts.Types == nil {
		return nil
	}

	partial := lit.Name
	if r.tok != nil && r.tok.Type == cove.TokenBareword {
		partial = r.word
	}

	return r.opts.Types.candidates(partial)
}

// hashLiteral returns the innermost hash literal when the cursor sits at a
// key position inside it.
func (r *request) hashLiteral() *cove.HashLit {
	for i := len(r.path) - 1; i >= 0; i-- {
		if h, ok := r.path[i].(*cove.HashLit); ok {
			if r.atHashKey(h, i) {
				return h
			}

			return nil
		}
	}

	return nil
}

// atHashKey reports whether the cursor is at a key position of the hash:
// on a key itself, or in the gap before any entry's value.
func (r *request) atHashKey(h *cove.HashLit, pathIndex int) bool {
	for j := pathIndex + 1; j < len(r.path); j++ {
		if e, ok := r.path[j].(*cove.HashEntry); ok {
			return e.Value == nil || !e.Value.Contains(r.cursor)
		}
	}

	// No entry under the cursor: a fresh key is being typed.
	return true
}

// completeHashKeys proposes member names of the type the hash is being
// assigned to, minus keys already present.
func (r *request) completeHashKeys(hash *cove.HashLit) []Candidate {
	typeName := r.hashTargetType(hash)
	if typeName == "" || r.opts.ClassMembers == nil {
		return nil
	}

	exclude := make(map[string]struct{})

	for _, k := range hash.Keys() {
		if r.tok != nil && r.tok.Value == k {
			continue
		}

		exclude[strings.ToLower(k)] = struct{}{}
	}

	return UnifyMembers(r.opts.ClassMembers(typeName), MemberOptions{
		Prefix:  r.word,
		Exclude: exclude,
	})
}

// hashTargetType resolves the declared type of the parameter the hash
// literal is bound to, empty when unknown.
func (r *request) hashTargetType(hash *cove.HashLit) string {
	cmd := r.enclosingCommand()
	if cmd == nil {
		return ""
	}

	binding, _ := analysis.Bind(cmd, r.catalog)

	for _, pair := range binding.Pairs {
		if pair.Info == nil || pair.Argument == nil {
			continue
		}

		if pair.Argument.Contains(hash.Pos.Offset) && pair.Info.Type != "" {
			t, perr := cove.ParseTypeString(pair.Info.Type)
			if perr == nil && t.Kind == cove.TypeKindNamed {
				return t.String()
			}
		}
	}

	return ""
}

func (r *request) enclosingCommand() *cove.Command {
	for i := len(r.path) - 1; i >= 0; i-- {
		if c, ok := r.path[i].(*cove.Command); ok {
			return c
		}
	}

	return nil
}

func (r *request) completeParameterNames() []Candidate {
	cmd := r.enclosingCommand()
	if cmd == nil {
		return nil
	}

	// An ambiguous name elsewhere in the input does not block offering
	// candidates; the binder's partial result is still usable.
	binding, _ := analysis.Bind(cmd, r.catalog)
	if binding.Command == nil {
		return nil
	}

	// Parameters bound by other pairs are taken; the pair under the
	// cursor is the one being (re)typed and does not count against
	// itself.
	taken := make(map[string]struct{})

	for _, pair := range binding.Pairs {
		if pair.Info == nil || pair.Parameter == nil {
			continue
		}

		if r.tok != nil && pair.Parameter.Pos.Offset == r.tok.Pos.Offset {
			continue
		}

		taken[strings.ToLower(pair.Info.Name)] = struct{}{}
	}

	prefix := strings.ToLower(strings.TrimPrefix(strings.TrimSuffix(r.raw, ":"), "-"))

	var out []Candidate

	for _, p := range binding.Command.Parameters {
		if _, bound := taken[strings.ToLower(p.Name)]; bound {
			continue
		}

		if !strings.HasPrefix(strings.ToLower(p.Name), prefix) {
			continue
		}

		out = append(out, Candidate{
			Replacement: "-" + p.Name,
			Display:     "-" + p.Name,
			Kind:        KindParameterName,
			Tooltip:     parameterTooltip(p),
		})
	}

	return out
}

func parameterTooltip(p *cove.ParameterInfo) string {
	if p.Switch {
		return "-" + p.Name + " (switch)"
	}

	if p.Type != "" {
		return "-" + p.Name + " [" + p.Type + "]"
	}

	return "-" + p.Name
}

// commandPosition holds when the word under the cursor is a command name:
// the first word of an invocation, or the bare token right after the
// invocation operator.
func (r *request) commandPosition() bool {
	cmd := r.enclosingCommand()
	if cmd == nil {
		// Gaps at statement starts have no command node yet.
		return r.tok == nil && r.afterStatementBoundary()
	}

	if cmd.Invoked && cmd.Name != nil && len(cmd.Elements) == 0 {
		// A single bare token after & completes as a command name.
		return true
	}

	return cmd.Name != nil && r.tok != nil &&
		cmd.Name.Pos.Offset == r.tok.Pos.Offset
}

func (r *request) afterStatementBoundary() bool {
	prev := analysis.PrevToken(r.tokens, r.cursor)
	if prev == nil {
		return true
	}

	switch prev.Type {
	case cove.TokenSemi, cove.TokenPipe, cove.TokenAmp:
		return true
	default:
		return false
	}
}

func (r *request) completeCommands() []Candidate {
	var out []Candidate

	for _, name := range r.catalog.Names(r.word) {
		info, _ := r.catalog.Lookup(name)

		tooltip := name
		if info != nil && info.Synopsis != "" {
			tooltip = info.Synopsis
		}

		out = append(out, Candidate{
			Replacement: name,
			Display:     name,
			Kind:        KindCommand,
			Tooltip:     tooltip,
		})
	}

	if r.opts.Modules != nil {
		for _, m := range r.opts.Modules.Modules() {
			if r.cancelled() {
				break
			}

			if !strings.HasPrefix(strings.ToLower(m.Name), strings.ToLower(r.word)) {
				continue
			}

			out = append(out, Candidate{
				Replacement: m.Name,
				Display:     m.Name,
				Kind:        KindCommand,
				Tooltip:     m.Path,
			})
		}
	}

	// Keywords complete alongside commands at statement starts.
	for _, kw := range statementKeywords {
		if strings.HasPrefix(kw, strings.ToLower(r.word)) {
			out = append(out, NewCandidate(kw, KindKeyword))
		}
	}

	return out
}

var statementKeywords = []string{"if", "else", "foreach", "while", "return"}

// completeArgument handles the cursor inside a command's element list: the
// binder locates the slot, the registry supplies declared value sources,
// and path completion is the fallback for anything path-shaped or
// unresolved.
func (r *request) completeArgument() []Candidate {
	cmd := r.enclosingCommand()
	if cmd == nil {
		return r.pathCandidates()
	}

	binding, err := analysis.Bind(cmd, r.catalog)

	var param *cove.ParameterInfo

	loc := r.locate(binding)

	switch {
	case loc.Pair != nil && loc.Pair.Info != nil:
		param = loc.Pair.Info
	case loc.Positional:
		param = CompletePositionalArgument(binding.Unbound, loc.Position, binding.DefaultSet)
	}

	// An ambiguous parameter name means the pair's resolution cannot be
	// trusted; the positional scan over Unbound above already covered
	// the fallback.
	if errors.Is(err, cove.ErrAmbiguousParameter) && loc.Pair != nil && loc.Pair.Info == nil {
		param = CompletePositionalArgument(binding.Unbound, 0, binding.DefaultSet)
	}

	commandName := cmd.Name.Text()

	var out []Candidate

	if param != nil {
		if fn, ok := r.opts.registry().lookup(commandName, param.Name); ok {
			out = append(out, r.runCompleter(fn, commandName, param.Name)...)
		}
	} else if fn, ok := r.opts.registry().lookup(commandName, ""); ok {
		out = append(out, r.runCompleter(fn, commandName, "")...)
	}

	if len(out) == 0 && pathParameter(param) {
		out = append(out, r.pathCandidates()...)
	}

	if len(out) == 0 && param == nil {
		out = append(out, r.pathCandidates()...)
	}

	return out
}

// locate maps the cursor to an argument slot. With a token under the
// cursor the token-based variant runs directly; in a gap a zero-width
// synthetic token at the cursor position stands in for it.
func (r *request) locate(binding *analysis.BindingResult) Location {
	if r.tok != nil && wordToken(r.tok.Type) {
		return LocateAtToken(binding.Pairs, *r.tok)
	}

	synthetic := lexer.Token{Pos: lexer.Position{Offset: r.cursor}}

	return LocateAtToken(binding.Pairs, synthetic)
}

// pathParameter reports whether a declared parameter is path-shaped and
// should fall back to provider completion.
func pathParameter(p *cove.ParameterInfo) bool {
	if p == nil {
		return false
	}

	name := strings.ToLower(p.Name)

	return strings.Contains(name, "path") || strings.Contains(name, "file")
}

// runCompleter invokes one argument completer with local error recovery: a
// failing or panicking source contributes nothing and completion continues.
func (r *request) runCompleter(fn ArgumentCompleter, command, parameter string) (out []Candidate) {
	if r.cancelled() {
		return nil
	}

	ctx := r.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	defer func() {
		if recover() != nil {
			out = nil
		}
	}()

	out, err := fn(ctx, ArgumentRequest{
		Command:   command,
		Parameter: parameter,
		Prefix:    r.word,
		Quote:     r.quote,
	})
	if err != nil {
		return nil
	}

	return out
}

func (r *request) pathCandidates() []Candidate {
	if r.cancelled() {
		return nil
	}

	return completePaths(r.word, r.quote, r.opts.Paths, r.opts.pathOptions())
}

// runOverride runs the caller's completer and validates its result. A
// failed, panicking, or malformed override falls through to the engine's
// own path.
func runOverride(ctx context.Context, source string, cursor int, fn Override) (result *Session) {
	defer func() {
		if recover() != nil {
			result = nil
		}
	}()

	s, err := fn(ctx, source, cursor)
	if err != nil || s == nil {
		return nil
	}

	if !wellFormed(s, len(source)) {
		return nil
	}

	return s
}

// wellFormed checks the structural invariants an override result must
// satisfy before the engine trusts it.
func wellFormed(s *Session, sourceLen int) bool {
	if s.CursorIndex < -1 || s.CursorIndex >= len(s.Candidates) && s.CursorIndex != -1 {
		return false
	}

	if s.ReplacementStart < -1 || s.ReplacementLength < -1 {
		return false
	}

	if s.ReplacementStart >= 0 && s.ReplacementStart+max(0, s.ReplacementLength) > sourceLen {
		return false
	}

	for _, c := range s.Candidates {
		if c.Replacement == "" || c.Display == "" || c.Tooltip == "" {
			return false
		}
	}

	return true
}

// reflectMembers projects a live value's members for completion: map keys
// and struct fields become properties, methods become method groups.
func reflectMembers(v any) []Member {
	var out []Member

	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil
	}

	rt := rv.Type()

	for i := 0; i < rt.NumMethod(); i++ {
		m := rt.Method(i)
		out = append(out, ReflectedMethodGroup{
			Name:      m.Name,
			Overloads: []string{m.Type.String()},
		})
	}

	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return out
		}

		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return stringKey(keys[i]) < stringKey(keys[j])
		})

		for _, k := range keys {
			out = append(out, ReflectedProperty{
				Name: stringKey(k),
				Type: rv.MapIndex(k).Type().String(),
			})
		}

	case reflect.Struct:
		rt := rv.Type()

		for i := 0; i < rt.NumField(); i++ {
			f := rt.Field(i)
			if !f.IsExported() {
				continue
			}

			out = append(out, ReflectedField{
				Name: f.Name,
				Type: f.Type.String(),
			})
		}
	}

	return out
}

func stringKey(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}

	return k.Type().String()
}
