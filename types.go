package cove

import (
	"errors"
	"fmt"
	"strings"
)

// Type parsing errors.
var (
	ErrEmptyTypeString  = errors.New("empty type string")
	ErrInvalidListType  = errors.New("invalid list type")
	ErrInvalidMapType   = errors.New("invalid map type")
	ErrUnrecognizedType = errors.New("unrecognized type")
)

// TypeKind represents the kind of a type.
type TypeKind string

// Type kind constants.
const (
	TypeKindPrimitive TypeKind = "primitive" // string, int, bool, float, any
	TypeKindList      TypeKind = "list"      // [T]
	TypeKindMap       TypeKind = "map"       // {K: V}
	TypeKindNamed     TypeKind = "named"     // record/class types, possibly namespaced
)

// Type is the language-level type model used by parameter declarations and
// static inference. It is recursive so [ {string: User} ] round-trips.
type Type struct {
	// Kind is the category of this type.
	Kind TypeKind

	// Name is the type name. For primitives: "string", "int", "bool",
	// "float", "any". For named types the declared name, e.g. "User".
	Name string

	// Namespace is the dotted module path for named types ("net.http").
	// Empty for primitives.
	Namespace string

	// Elem is the element type for lists and map values.
	Elem *Type

	// Key is the key type for maps.
	Key *Type
}

// String returns the cove-syntax representation of the type.
func (t *Type) String() string {
	if t == nil {
		return ""
	}

	switch t.Kind {
	case TypeKindPrimitive:
		return t.Name
	case TypeKindList:
		return "[" + t.Elem.String() + "]"
	case TypeKindMap:
		return "{" + t.Key.String() + ": " + t.Elem.String() + "}"
	case TypeKindNamed:
		if t.Namespace != "" {
			return t.Namespace + "." + t.Name
		}

		return t.Name
	default:
		return t.Name
	}
}

// primitiveNames are the builtin scalar types.
var primitiveNames = map[string]bool{
	"string": true,
	"int":    true,
	"float":  true,
	"bool":   true,
	"any":    true,
}

// ParseTypeString parses a cove type string into a Type.
// Supports: string, int, float, bool, any, [T], {K: V}, and dotted named
// types like net.http.request.
//
// Examples:
//
//	"string"          -> primitive string
//	"[string]"        -> list of string
//	"{string: int}"   -> map string to int
//	"net.url"         -> named url in namespace net
func ParseTypeString(s string) (*Type, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptyTypeString
	}

	// List: [T]
	if strings.HasPrefix(s, "[") {
		if !strings.HasSuffix(s, "]") {
			return nil, fmt.Errorf("%w: %s", ErrInvalidListType, s)
		}

		elem, err := ParseTypeString(s[1 : len(s)-1])
		if err != nil {
			return nil, err
		}

		return &Type{Kind: TypeKindList, Elem: elem}, nil
	}

	// Map: {K: V}
	if strings.HasPrefix(s, "{") {
		if !strings.HasSuffix(s, "}") {
			return nil, fmt.Errorf("%w: %s", ErrInvalidMapType, s)
		}

		inner := s[1 : len(s)-1]

		key, rest, ok := splitMapInner(inner)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidMapType, s)
		}

		keyType, err := ParseTypeString(key)
		if err != nil {
			return nil, err
		}

		elemType, err := ParseTypeString(rest)
		if err != nil {
			return nil, err
		}

		return &Type{Kind: TypeKindMap, Key: keyType, Elem: elemType}, nil
	}

	if primitiveNames[s] {
		return &Type{Kind: TypeKindPrimitive, Name: s}, nil
	}

	// Named type, possibly namespaced.
	if !isTypeName(s) {
		return nil, fmt.Errorf("%w: %s", ErrUnrecognizedType, s)
	}

	if i := strings.LastIndex(s, "."); i >= 0 {
		return &Type{Kind: TypeKindNamed, Namespace: s[:i], Name: s[i+1:]}, nil
	}

	return &Type{Kind: TypeKindNamed, Name: s}, nil
}

// splitMapInner splits "K: V" at the top-level colon, ignoring colons nested
// inside brackets or braces.
func splitMapInner(s string) (key, value string, ok bool) {
	depth := 0

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[', '{':
			depth++
		case ']', '}':
			depth--
		case ':':
			if depth == 0 {
				return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:]), true
			}
		}
	}

	return "", "", false
}

func isTypeName(s string) bool {
	for _, part := range strings.Split(s, ".") {
		if part == "" {
			return false
		}

		for j, r := range part {
			if j == 0 && !isIdentStart(r) {
				return false
			}
			if j > 0 && !isIdentContinue(r) {
				return false
			}
		}
	}

	return true
}
