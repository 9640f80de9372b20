package completion

import (
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/coveshell/cove"
)

// PathEntry is one child item reported by a file system provider.
type PathEntry struct {
	Name   string
	Dir    bool
	Hidden bool
}

// PathProvider abstracts the file system for path completion. Home returns
// the provider's home directory and Cwd its current directory, either may
// be empty when not applicable; List enumerates the children of a
// directory.
type PathProvider interface {
	Home() string
	Cwd() string
	List(dir string) ([]PathEntry, error)
}

// BuildPathText composes the final replacement text for a path candidate
// from an already-resolved base path and an unescaped leaf name. A quoted
// context wraps the result in its quote unconditionally; a bare context
// quotes only when escaping demands it or forceQuotes is set, choosing
// double quotes when the text carries interpolation that must stay live.
func BuildPathText(basePath, leafName string, ctx QuoteContext, hasInterpolation, forceQuotes bool) string {
	raw := basePath + leafName

	if ctx.Style == StyleBare && forceQuotes && !hasInterpolation {
		s, _ := Escape(raw, QuoteContext{Style: StyleSingle, Literal: ctx.Literal})

		return string(cove.SingleQuote) + s + string(cove.SingleQuote)
	}

	if ctx.Style == StyleBare && forceQuotes {
		s, _ := Escape(raw, QuoteContext{Style: StyleDouble, Literal: ctx.Literal})

		return string(cove.DoubleQuote) + s + string(cove.DoubleQuote)
	}

	return Render(raw, ctx, false)
}

// ContractHome replaces the home-directory prefix of an absolute path with
// the home marker so completions preserve relative-to-home notation. The
// path is returned unchanged when home is empty or not a prefix.
func ContractHome(p, home string) string {
	if home == "" || !strings.HasPrefix(p, home) {
		return p
	}

	rest := strings.TrimPrefix(p, home)
	if rest != "" && rest[0] != '/' {
		return p
	}

	return string(cove.HomeMarker) + rest
}

// pathOptions is the subset of request options path completion consumes.
type pathOptions struct {
	literalPaths       bool
	relativePaths      *bool
	ignoreHiddenShares bool
}

// completePaths expands the word under the cursor against the provider.
// The word's directory part is listed and the leaf part becomes a glob
// pattern with a trailing wildcard; in literal mode the leaf matches as a
// plain case-insensitive prefix instead. A provider error means this
// source contributes nothing.
func completePaths(word string, ctx QuoteContext, provider PathProvider, opts pathOptions) []Candidate {
	if provider == nil {
		return nil
	}

	expanded := word
	contract := false

	if strings.HasPrefix(word, string(cove.HomeMarker)) {
		if home := provider.Home(); home != "" {
			expanded = home + word[1:]
			contract = true
		}
	}

	dir, leaf := splitPathWord(expanded)

	entries, err := provider.List(listDir(dir))
	if err != nil {
		return nil
	}

	base := dir
	if contract {
		base = ContractHome(dir, provider.Home())
	}

	// An explicit RelativePaths setting overrides the rendering the user's
	// input implied.
	if opts.relativePaths != nil && !contract {
		base = renderBase(base, provider.Cwd(), *opts.relativePaths)
	}

	ctx.Literal = ctx.Literal || opts.literalPaths

	var out []Candidate

	for _, e := range entries {
		if !matchLeaf(e.Name, leaf, opts.literalPaths) {
			continue
		}

		if opts.ignoreHiddenShares && strings.HasSuffix(e.Name, "$") {
			continue
		}

		name := e.Name
		kind := KindProviderItem

		if e.Dir {
			name += "/"
			kind = KindProviderContainer
		}

		hasInterp := strings.ContainsRune(base, '$')

		out = append(out, Candidate{
			Replacement: BuildPathText(base, name, ctx, hasInterp, false),
			Display:     e.Name,
			Kind:        kind,
			Tooltip:     base + name,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Display < out[j].Display })

	return out
}

// splitPathWord divides a partial path into the directory portion to list,
// kept verbatim including its trailing separator, and the leaf prefix
// being typed.
func splitPathWord(word string) (dir, leaf string) {
	i := strings.LastIndexByte(word, '/')
	if i < 0 {
		return "", word
	}

	return word[:i+1], word[i+1:]
}

// renderBase forces the directory portion relative or absolute. Without a
// current directory to anchor against it stays as typed.
func renderBase(base, cwd string, relative bool) string {
	if cwd == "" {
		return base
	}

	if relative {
		trimmed := strings.TrimPrefix(base, strings.TrimSuffix(cwd, "/")+"/")
		if trimmed != base {
			return trimmed
		}

		return base
	}

	if strings.HasPrefix(base, "/") {
		return base
	}

	return strings.TrimSuffix(cwd, "/") + "/" + base
}

func listDir(dir string) string {
	if dir == "" {
		return "."
	}

	return path.Clean(dir)
}

func matchLeaf(name, leaf string, literal bool) bool {
	if leaf == "" {
		return true
	}

	if literal {
		return strings.HasPrefix(strings.ToLower(name), strings.ToLower(leaf))
	}

	ok, err := doublestar.Match(strings.ToLower(leaf)+"*", strings.ToLower(name))

	return err == nil && ok
}
