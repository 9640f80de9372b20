package modules

import (
	"strconv"
	"strings"

	"github.com/coveshell/cove"
)

// Command and class surfaces are declared in module files with the
// `command` and `class` statements. The first argument names the
// declaration; each following hash literal describes one parameter or
// member:
//
//	command get-widget @{ synopsis = 'Gets widgets.' } @{ name = 'Name'; type = 'string'; position = '0' }
//	class acme.Widget @{ name = 'Name'; type = 'string' } @{ name = 'Spin'; method = 'true' }
const (
	declCommand = "command"
	declClass   = "class"
)

// ClassDecl is one class declared by a module.
type ClassDecl struct {
	// FullName is the dotted type name, namespace included.
	FullName string

	Members []MemberDecl
}

// MemberDecl is one declared class member.
type MemberDecl struct {
	Name      string
	Type      string
	Method    bool
	Hidden    bool
	Signature string
}

// fileDecls is everything one module file declares.
type fileDecls struct {
	commands []*cove.CommandInfo
	classes  []ClassDecl
}

// extractDecls walks a parsed module script and collects its declarations.
// Statements that are not declarations are module body code and ignored.
func extractDecls(script *cove.Script) fileDecls {
	var out fileDecls

	for _, stmt := range script.Statements {
		for _, cmd := range stmt.Pipeline.Commands {
			switch strings.ToLower(cmd.Name.Text()) {
			case declCommand:
				if info := commandDecl(cmd); info != nil {
					out.commands = append(out.commands, info)
				}
			case declClass:
				if cls, ok := classDecl(cmd); ok {
					out.classes = append(out.classes, cls)
				}
			}
		}
	}

	return out
}

// commandDecl builds a CommandInfo from a `command` statement, or nil when
// the declaration is malformed.
func commandDecl(cmd *cove.Command) *cove.CommandInfo {
	name, rest := declName(cmd)
	if name == "" {
		return nil
	}

	info := &cove.CommandInfo{Name: name}
	position := 0

	for _, h := range rest {
		fields := hashFields(h)

		if syn, ok := fields["synopsis"]; ok {
			info.Synopsis = syn

			if set, ok := fields["default_set"]; ok {
				info.DefaultSet = set
			}

			continue
		}

		pname, ok := fields["name"]
		if !ok {
			continue
		}

		param := &cove.ParameterInfo{
			Name:   pname,
			Type:   fields["type"],
			Switch: fields["switch"] == "true",
			Sets:   map[string]cove.ParameterSetInfo{},
		}

		set := fields["set"]
		if set == "" {
			set = cove.AllSets
		}

		placement := cove.ParameterSetInfo{Position: cove.PositionNone}
		if pos, ok := fields["position"]; ok {
			if n, err := strconv.Atoi(pos); err == nil {
				placement.Position = n
				position = n + 1
			}
		} else if fields["positional"] == "true" {
			placement.Position = position
			position++
		}
		placement.Remaining = fields["remaining"] == "true"
		placement.Mandatory = fields["mandatory"] == "true"

		if aliases, ok := fields["aliases"]; ok {
			for _, a := range strings.Split(aliases, " ") {
				if a != "" {
					param.Aliases = append(param.Aliases, a)
				}
			}
		}

		param.Sets[set] = placement
		info.Parameters = append(info.Parameters, param)
	}

	return info
}

// classDecl builds a ClassDecl from a `class` statement.
func classDecl(cmd *cove.Command) (ClassDecl, bool) {
	name, rest := declName(cmd)
	if name == "" {
		return ClassDecl{}, false
	}

	cls := ClassDecl{FullName: name}

	for _, h := range rest {
		fields := hashFields(h)

		mname, ok := fields["name"]
		if !ok {
			continue
		}

		cls.Members = append(cls.Members, MemberDecl{
			Name:      mname,
			Type:      fields["type"],
			Method:    fields["method"] == "true",
			Hidden:    fields["hidden"] == "true",
			Signature: fields["signature"],
		})
	}

	return cls, true
}

// declName returns the declared name and the hash-literal descriptors that
// follow it.
func declName(cmd *cove.Command) (string, []*cove.HashLit) {
	var (
		name   string
		hashes []*cove.HashLit
	)

	for _, el := range cmd.Elements {
		if el.Argument == nil || el.Argument.Primary == nil {
			continue
		}

		p := el.Argument.Primary

		switch {
		case p.Hash != nil && p.Hash.IsComplete():
			hashes = append(hashes, p.Hash)
		case name == "":
			name = literalText(el.Argument)
		}
	}

	return name, hashes
}

// hashFields flattens a hash literal's entries into lowercase key to
// literal string value.
func hashFields(h *cove.HashLit) map[string]string {
	fields := make(map[string]string, len(h.Entries))

	for _, e := range h.Entries {
		if e.Value == nil {
			continue
		}

		fields[strings.ToLower(e.Key)] = literalText(e.Value)
	}

	return fields
}

// literalText reads a bare, string or number expression as plain text.
// Anything else yields "".
func literalText(e *cove.Expr) string {
	if e.Primary == nil || len(e.Members) > 0 {
		return ""
	}

	switch p := e.Primary; {
	case p.Bare != nil:
		word, err := cove.UnquoteWord(*p.Bare)
		if err != nil {
			return ""
		}

		return word
	case p.Str != nil:
		return p.Str.Value()
	case p.Number != nil:
		return *p.Number
	}

	return ""
}
