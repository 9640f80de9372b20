package analysis

import (
	"reflect"

	"github.com/coveshell/cove"
)

// TypeDescriptor describes what is known about an expression's result.
// Value carries a sample value when safe evaluation produced one; Type is
// the language-level type and may be present without a value when only a
// declaration is known.
type TypeDescriptor struct {
	Type  *cove.Type
	Value any
}

// HasValue reports whether the descriptor carries a concrete sample value.
func (d TypeDescriptor) HasValue() bool { return d.Value != nil }

// Env supplies what inference may consult: live variable values for safe
// evaluation and declared types for variables that have no value yet.
type Env struct {
	Vars     map[string]any
	VarTypes map[string]*cove.Type
}

// InferTypes determines the possible result types of an expression. Safe
// evaluation is tried first; when the expression or environment rules that
// out, inference falls back to static shapes. An empty result means nothing
// could be determined, which callers must treat as "complete nothing", not
// as an error.
func InferTypes(e *cove.Expr, env *Env) []TypeDescriptor {
	if e == nil || e.Primary == nil {
		return nil
	}

	if env == nil {
		env = &Env{}
	}

	if v, ok := TryEval(e, env.Vars); ok && v != nil {
		return []TypeDescriptor{{Type: typeOfValue(v), Value: v}}
	}

	if len(e.Members) > 0 {
		// Static inference does not follow member chains; without a
		// value there is nothing reliable to say about the result.
		return nil
	}

	return staticPrimary(e.Primary, env)
}

func staticPrimary(p *cove.Primary, env *Env) []TypeDescriptor {
	switch {
	case p.Variable != nil:
		name := (*p.Variable)[1:]
		if t, ok := env.VarTypes[name]; ok && t != nil {
			return []TypeDescriptor{{Type: t}}
		}

		return nil

	case p.Str != nil:
		return []TypeDescriptor{{Type: primitiveType("string")}}

	case p.Number != nil:
		return []TypeDescriptor{{Type: primitiveType("int")}}

	case p.Hash != nil:
		return []TypeDescriptor{{Type: &cove.Type{
			Kind: cove.TypeKindMap,
			Key:  primitiveType("string"),
			Elem: primitiveType("any"),
		}}}

	case p.Type != nil:
		if p.Type.Name == "" {
			return nil
		}

		t, err := cove.ParseTypeString(p.Type.Name)
		if err != nil {
			return nil
		}

		return []TypeDescriptor{{Type: t}}

	default:
		return nil
	}
}

func primitiveType(name string) *cove.Type {
	return &cove.Type{Kind: cove.TypeKindPrimitive, Name: name}
}

// typeOfValue maps a runtime value onto the language's type model.
func typeOfValue(v any) *cove.Type {
	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.String:
		return primitiveType("string")
	case reflect.Bool:
		return primitiveType("bool")
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return primitiveType("int")
	case reflect.Float32, reflect.Float64:
		return primitiveType("float")
	case reflect.Slice, reflect.Array:
		return &cove.Type{Kind: cove.TypeKindList, Elem: primitiveType("any")}
	case reflect.Map:
		return &cove.Type{
			Kind: cove.TypeKindMap,
			Key:  primitiveType("string"),
			Elem: primitiveType("any"),
		}
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil
		}

		return typeOfValue(rv.Elem().Interface())
	default:
		t := rv.Type()

		return &cove.Type{Kind: cove.TypeKindNamed, Name: t.Name(), Namespace: t.PkgPath()}
	}
}
