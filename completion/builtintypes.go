package completion

// builtinTypeTable is the language's core type surface: the primitives plus
// their container forms as written in type literals.
var builtinTypeTable = []TypeEntry{
	{FullName: "any", Kind: TypeEntryConcrete, Synopsis: "any value"},
	{FullName: "bool", Kind: TypeEntryConcrete, Synopsis: "boolean"},
	{FullName: "float", Kind: TypeEntryConcrete, Synopsis: "floating point number"},
	{FullName: "int", Kind: TypeEntryConcrete, Synopsis: "integer"},
	{FullName: "string", Kind: TypeEntryConcrete, Synopsis: "text"},
}

type builtinTypeSource struct{}

func (builtinTypeSource) TypeEntries() []TypeEntry { return builtinTypeTable }

// BuiltinTypes is the type source for the language's core types. Compose it
// with module-loaded sources in a shared TypeCache.
func BuiltinTypes() TypeSource { return builtinTypeSource{} }
