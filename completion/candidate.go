// Package completion resolves a cursor position within partially typed
// input to a syntactic slot and synthesizes the candidate replacements for
// that slot: command names, parameter names and values, members, variables,
// paths, types and hashtable keys.
package completion

import "sort"

// Kind classifies a candidate so front ends can pick icons and grouping.
type Kind int

const (
	KindText Kind = iota
	KindHistory
	KindCommand
	KindProviderItem
	KindProviderContainer
	KindProperty
	KindMethod
	KindParameterName
	KindParameterValue
	KindVariable
	KindNamespace
	KindType
	KindKeyword
	KindDynamicKeyword
)

var kindNames = map[Kind]string{
	KindText:              "text",
	KindHistory:           "history",
	KindCommand:           "command",
	KindProviderItem:      "provider-item",
	KindProviderContainer: "provider-container",
	KindProperty:          "property",
	KindMethod:            "method",
	KindParameterName:     "parameter-name",
	KindParameterValue:    "parameter-value",
	KindVariable:          "variable",
	KindNamespace:         "namespace",
	KindType:              "type",
	KindKeyword:           "keyword",
	KindDynamicKeyword:    "dynamic-keyword",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}

	return "text"
}

// Candidate is one proposed replacement for the text at the cursor.
// Replacement is the exact source fragment to insert, already quoted and
// escaped; Display is what a menu shows; Tooltip is a one-line description.
type Candidate struct {
	Replacement string
	Display     string
	Kind        Kind
	Tooltip     string
}

// NewCandidate fills Display and Tooltip from Replacement when the caller
// has nothing better, upholding the rule that all three are non-empty.
func NewCandidate(replacement string, kind Kind) Candidate {
	return Candidate{
		Replacement: replacement,
		Display:     replacement,
		Kind:        kind,
		Tooltip:     replacement,
	}
}

// handled is the in-band marker a contributor returns to say "this slot was
// mine and it produced nothing, stop default processing". It must never
// reach a caller; mergeCandidates strips it.
var handled = Candidate{}

func (c Candidate) isHandled() bool {
	return c.Replacement == "" && c.Display == "" && c.Tooltip == ""
}

// kindRank orders candidate groups in merged output. Properties sort before
// methods so member lists read data-first.
func kindRank(k Kind) int {
	switch k {
	case KindProperty:
		return 0
	case KindMethod:
		return 1
	default:
		return int(k) + 2
	}
}

// mergeCandidates produces the final ordered candidate sequence: grouped by
// kind, lexicographic by display text within a group, with duplicates (same
// replacement text) collapsed to the first occurrence. The in-band handled
// marker is dropped.
func mergeCandidates(candidates []Candidate) []Candidate {
	kept := make([]Candidate, 0, len(candidates))

	for _, c := range candidates {
		if c.isHandled() {
			continue
		}

		kept = append(kept, c)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		ri, rj := kindRank(kept[i].Kind), kindRank(kept[j].Kind)
		if ri != rj {
			return ri < rj
		}

		// History keeps its recency order; everything else sorts by
		// display text within its group.
		if kept[i].Kind == KindHistory {
			return false
		}

		return kept[i].Display < kept[j].Display
	})

	seen := make(map[string]struct{}, len(kept))
	out := kept[:0]

	for _, c := range kept {
		if _, dup := seen[c.Replacement]; dup {
			continue
		}

		seen[c.Replacement] = struct{}{}
		out = append(out, c)
	}

	return out
}
