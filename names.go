package cove

// Parameter set names used by the builtin commands.
const (
	SetPath    = "Path"
	SetLiteral = "Literal"
	SetName    = "Name"
	SetID      = "Id"
)

// Builtin returns a catalog populated with the built-in command surface.
// Host shells extend this via Register and the module loader.
func Builtin() *Catalog {
	cat := NewCatalog()
	for _, info := range builtinCommands {
		cat.Register(info)
	}

	return cat
}

func pos(n int) ParameterSetInfo { return ParameterSetInfo{Position: n} }

func named() ParameterSetInfo { return ParameterSetInfo{Position: PositionNone} }

var builtinCommands = []*CommandInfo{
	{
		Name:       "get-item",
		Synopsis:   "Gets items at the specified location.",
		DefaultSet: SetPath,
		Parameters: []*ParameterInfo{
			{Name: "Path", Type: "[string]", Sets: map[string]ParameterSetInfo{SetPath: pos(0)}},
			{Name: "LiteralPath", Type: "[string]", Aliases: []string{"PSPath"},
				Sets: map[string]ParameterSetInfo{SetLiteral: pos(0)}},
			{Name: "Filter", Type: "string", Sets: map[string]ParameterSetInfo{AllSets: pos(1)}},
			{Name: "Force", Switch: true, Sets: map[string]ParameterSetInfo{AllSets: named()}},
			{Name: "Recurse", Switch: true, Sets: map[string]ParameterSetInfo{AllSets: named()}},
		},
	},
	{
		Name:       "set-location",
		Synopsis:   "Sets the current working location.",
		DefaultSet: SetPath,
		Parameters: []*ParameterInfo{
			{Name: "Path", Type: "string", Sets: map[string]ParameterSetInfo{SetPath: pos(0)}},
			{Name: "LiteralPath", Type: "string", Sets: map[string]ParameterSetInfo{SetLiteral: pos(0)}},
			{Name: "PassThru", Switch: true, Sets: map[string]ParameterSetInfo{AllSets: named()}},
		},
	},
	{
		Name:       "get-process",
		Synopsis:   "Gets running processes.",
		DefaultSet: SetName,
		Parameters: []*ParameterInfo{
			{Name: "Name", Type: "[string]", Aliases: []string{"ProcessName"},
				Sets: map[string]ParameterSetInfo{SetName: pos(0)}},
			{Name: "Id", Type: "[int]", Aliases: []string{"PID"},
				Sets: map[string]ParameterSetInfo{SetID: named()}},
		},
	},
	{
		Name:     "stop-process",
		Synopsis: "Stops running processes.",
		Parameters: []*ParameterInfo{
			{Name: "Name", Type: "[string]", Sets: map[string]ParameterSetInfo{SetName: pos(0)}},
			{Name: "Id", Type: "[int]", Sets: map[string]ParameterSetInfo{SetID: pos(0)}},
			{Name: "Force", Switch: true, Sets: map[string]ParameterSetInfo{AllSets: named()}},
		},
		DefaultSet: SetID,
	},
	{
		Name:     "get-command",
		Synopsis: "Gets declared commands.",
		Parameters: []*ParameterInfo{
			{Name: "Name", Type: "[string]",
				Sets: map[string]ParameterSetInfo{AllSets: {Position: 0, Remaining: true}}},
			{Name: "Module", Type: "[string]", Sets: map[string]ParameterSetInfo{AllSets: named()}},
		},
	},
	{
		Name:     "get-member",
		Synopsis: "Gets the members of objects.",
		Parameters: []*ParameterInfo{
			{Name: "Name", Type: "[string]", Sets: map[string]ParameterSetInfo{AllSets: pos(0)}},
			{Name: "InputObject", Type: "any", Sets: map[string]ParameterSetInfo{AllSets: named()}},
			{Name: "Static", Switch: true, Sets: map[string]ParameterSetInfo{AllSets: named()}},
		},
	},
	{
		Name:     "new-object",
		Synopsis: "Creates an instance of a type.",
		Parameters: []*ParameterInfo{
			{Name: "TypeName", Type: "string", Sets: map[string]ParameterSetInfo{AllSets: pos(0)}},
			{Name: "Property", Type: "{string: any}", Sets: map[string]ParameterSetInfo{AllSets: named()}},
			{Name: "ArgumentList", Type: "[any]",
				Sets: map[string]ParameterSetInfo{AllSets: {Position: 1, Remaining: true}}},
		},
	},
	{
		Name:     "import-module",
		Synopsis: "Loads a cove module into the session.",
		Parameters: []*ParameterInfo{
			{Name: "Name", Type: "[string]",
				Sets: map[string]ParameterSetInfo{AllSets: {Position: 0, Remaining: true}}},
			{Name: "Force", Switch: true, Sets: map[string]ParameterSetInfo{AllSets: named()}},
		},
	},
	{
		Name:     "get-history",
		Synopsis: "Gets session command history.",
		Parameters: []*ParameterInfo{
			{Name: "Id", Type: "[int]", Sets: map[string]ParameterSetInfo{AllSets: pos(0)}},
			{Name: "Count", Type: "int", Sets: map[string]ParameterSetInfo{AllSets: pos(1)}},
		},
	},
	{
		Name:     "write-output",
		Synopsis: "Writes objects to the pipeline.",
		Parameters: []*ParameterInfo{
			{Name: "InputObject", Type: "[any]",
				Sets: map[string]ParameterSetInfo{AllSets: {Position: 0, Remaining: true}}},
			{Name: "NoEnumerate", Switch: true, Sets: map[string]ParameterSetInfo{AllSets: named()}},
		},
	},
	{
		Name:     "where-object",
		Synopsis: "Filters pipeline objects by property values.",
		Parameters: []*ParameterInfo{
			{Name: "Property", Type: "string", Sets: map[string]ParameterSetInfo{AllSets: pos(0)}},
			{Name: "Value", Type: "any", Sets: map[string]ParameterSetInfo{AllSets: pos(1)}},
		},
	},
	{
		Name:     "foreach-object",
		Synopsis: "Runs a block against each pipeline object.",
		Parameters: []*ParameterInfo{
			{Name: "Process", Type: "any", Sets: map[string]ParameterSetInfo{AllSets: pos(0)}},
		},
	},
}
