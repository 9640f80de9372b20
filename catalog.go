package cove

import (
	"fmt"
	"sort"
	"strings"
)

// PositionNone marks a parameter that can only be bound by name.
const PositionNone = -1

// ParameterSetInfo is per-parameter-set placement metadata for one parameter.
type ParameterSetInfo struct {
	// Position is the declared ordinal of the parameter within the set, or
	// PositionNone for named-only binding.
	Position int

	// Remaining marks a parameter that absorbs all remaining positional
	// arguments at and after its position.
	Remaining bool

	// Mandatory marks the parameter as required in this set.
	Mandatory bool
}

// ParameterInfo describes one declared parameter of a command.
type ParameterInfo struct {
	Name    string
	Type    string // cove type string, see ParseTypeString
	Aliases []string

	// Sets maps parameter-set name to placement within that set. A parameter
	// present in every set uses the AllSets key.
	Sets map[string]ParameterSetInfo

	// Switch parameters take no value.
	Switch bool
}

// AllSets is the parameter-set key for parameters that belong to every set.
const AllSets = "*"

// SetInfo returns the placement of the parameter in the named set and whether
// the parameter participates in that set.
func (p *ParameterInfo) SetInfo(set string) (ParameterSetInfo, bool) {
	if info, ok := p.Sets[set]; ok {
		return info, true
	}

	info, ok := p.Sets[AllSets]

	return info, ok
}

// CommandInfo describes a declared command and its parameters.
type CommandInfo struct {
	Name       string
	Synopsis   string
	DefaultSet string
	Parameters []*ParameterInfo
}

// SetNames returns every parameter-set name declared across the command's
// parameters, sorted, excluding the AllSets marker.
func (c *CommandInfo) SetNames() []string {
	seen := map[string]bool{}
	for _, p := range c.Parameters {
		for set := range p.Sets {
			if set != AllSets {
				seen[set] = true
			}
		}
	}

	names := make([]string, 0, len(seen))
	for set := range seen {
		names = append(names, set)
	}

	sort.Strings(names)

	return names
}

// Parameter resolves a typed parameter name against the declared parameters,
// matching full names first, then aliases, then unique prefixes, all
// case-insensitively. A prefix matching several parameters returns
// ErrAmbiguousParameter.
func (c *CommandInfo) Parameter(name string) (*ParameterInfo, error) {
	lower := strings.ToLower(name)

	for _, p := range c.Parameters {
		if strings.ToLower(p.Name) == lower {
			return p, nil
		}
	}

	for _, p := range c.Parameters {
		for _, a := range p.Aliases {
			if strings.ToLower(a) == lower {
				return p, nil
			}
		}
	}

	var matches []*ParameterInfo

	for _, p := range c.Parameters {
		if strings.HasPrefix(strings.ToLower(p.Name), lower) {
			matches = append(matches, p)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: -%s on %s", ErrUnknownParameter, name, c.Name)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: -%s on %s", ErrAmbiguousParameter, name, c.Name)
	}
}

// Catalog is the set of declared commands visible to binding and completion.
type Catalog struct {
	commands map[string]*CommandInfo
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{commands: make(map[string]*CommandInfo)}
}

// Register adds or replaces a command declaration.
func (c *Catalog) Register(info *CommandInfo) {
	c.commands[strings.ToLower(info.Name)] = info
}

// Lookup finds a command by exact name, case-insensitively.
func (c *Catalog) Lookup(name string) (*CommandInfo, bool) {
	info, ok := c.commands[strings.ToLower(name)]

	return info, ok
}

// Names returns all command names with the given prefix, sorted.
// An empty prefix returns every name.
func (c *Catalog) Names(prefix string) []string {
	lower := strings.ToLower(prefix)

	var names []string

	for name := range c.commands {
		if strings.HasPrefix(name, lower) {
			names = append(names, c.commands[name].Name)
		}
	}

	sort.Strings(names)

	return names
}
