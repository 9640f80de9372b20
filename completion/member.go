package completion

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// UnifiedMember is the normalized projection of any member shape the
// engine completes: name, method-versus-property classification, hidden
// flag and a tooltip built only when a candidate is actually emitted.
type UnifiedMember struct {
	Name    string
	Method  bool
	Hidden  bool
	Tooltip func() string
}

// Member is the closed set of member representations the unifier accepts.
type Member interface {
	unify() UnifiedMember
}

// ReflectedProperty is a property discovered by runtime reflection.
type ReflectedProperty struct {
	Name   string
	Type   string
	Hidden bool
}

func (m ReflectedProperty) unify() UnifiedMember {
	return UnifiedMember{
		Name:    m.Name,
		Hidden:  m.Hidden,
		Tooltip: func() string { return m.Type + " " + m.Name },
	}
}

// ReflectedField is a field discovered by runtime reflection.
type ReflectedField struct {
	Name   string
	Type   string
	Hidden bool
}

func (m ReflectedField) unify() UnifiedMember {
	return UnifiedMember{
		Name:    m.Name,
		Hidden:  m.Hidden,
		Tooltip: func() string { return m.Type + " " + m.Name },
	}
}

// ReflectedMethodGroup is a set of overloads sharing one method name.
type ReflectedMethodGroup struct {
	Name      string
	Overloads []string
	Hidden    bool
}

func (m ReflectedMethodGroup) unify() UnifiedMember {
	return UnifiedMember{
		Name:   m.Name,
		Method: true,
		Hidden: m.Hidden,
		Tooltip: func() string {
			if len(m.Overloads) == 0 {
				return m.Name + "()"
			}

			return strings.Join(m.Overloads, "\n")
		},
	}
}

// DynamicMember is a member reported at runtime by a dynamic object.
type DynamicMember struct {
	Name string
}

func (m DynamicMember) unify() UnifiedMember {
	return UnifiedMember{
		Name:    m.Name,
		Tooltip: func() string { return m.Name },
	}
}

// StructuredDeclaration is a property declared by structured data, such as
// a hash literal key or a record field parsed from configuration.
type StructuredDeclaration struct {
	Name  string
	Value string
}

func (m StructuredDeclaration) unify() UnifiedMember {
	return UnifiedMember{
		Name: m.Name,
		Tooltip: func() string {
			if m.Value == "" {
				return m.Name
			}

			return m.Name + " = " + m.Value
		},
	}
}

// ClassMember is a member of a user-defined class. Constructors are
// represented uniformly as a method named "new".
type ClassMember struct {
	Name      string
	Method    bool
	Hidden    bool
	Signature string
}

// NewConstructor represents a class constructor as the method "new".
func NewConstructor(signature string) ClassMember {
	return ClassMember{Name: "new", Method: true, Signature: signature}
}

func (m ClassMember) unify() UnifiedMember {
	return UnifiedMember{
		Name:   m.Name,
		Method: m.Method,
		Hidden: m.Hidden,
		Tooltip: func() string {
			if m.Signature != "" {
				return m.Signature
			}

			return m.Name
		},
	}
}

// MemberOptions controls candidate synthesis from unified members.
type MemberOptions struct {
	// Prefix is the partially typed member name; matching is a
	// case-insensitive glob of the prefix plus a trailing wildcard.
	Prefix string

	// Exclude drops members by lower-cased name, e.g. hash keys the user
	// already bound.
	Exclude map[string]struct{}

	// AddMethodParenthesis appends an opening parenthesis to method
	// replacements while the display text stays the bare name.
	AddMethodParenthesis bool
}

// UnifyMembers projects raw members into merged candidates: hidden members
// are dropped before pattern matching, then the name filter and exclusion
// set apply, and the survivors are grouped, ordered and de-duplicated by
// mergeCandidates.
func UnifyMembers(members []Member, opts MemberOptions) []Candidate {
	pattern := strings.ToLower(opts.Prefix) + "*"

	var out []Candidate

	for _, raw := range members {
		m := raw.unify()

		if m.Hidden {
			continue
		}

		if ok, err := doublestar.Match(pattern, strings.ToLower(m.Name)); err != nil || !ok {
			continue
		}

		if _, drop := opts.Exclude[strings.ToLower(m.Name)]; drop {
			continue
		}

		c := Candidate{
			Replacement: m.Name,
			Display:     m.Name,
			Kind:        KindProperty,
			Tooltip:     m.Name,
		}

		if m.Tooltip != nil {
			c.Tooltip = m.Tooltip()
		}

		if m.Method {
			c.Kind = KindMethod

			if opts.AddMethodParenthesis {
				c.Replacement = m.Name + "("
			}
		}

		out = append(out, c)
	}

	// Beyond the shared replacement-text uniqueness, member lists collapse
	// on the member name itself: a property and a method group sharing a
	// name yield one entry, and the kind ordering makes it the property.
	merged := mergeCandidates(out)
	seen := make(map[string]struct{}, len(merged))
	unique := merged[:0]

	for _, c := range merged {
		key := strings.ToLower(c.Display)
		if _, dup := seen[key]; dup {
			continue
		}

		seen[key] = struct{}{}
		unique = append(unique, c)
	}

	return unique
}
