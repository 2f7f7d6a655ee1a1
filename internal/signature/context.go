// Package signature renders human-readable names and declarations of symbols.
//
// Every function is a pure function of its arguments and a render Context:
// rendering the same symbol twice under the same context is byte-identical.
package signature

// Context controls how names are rendered.
type Context struct {
	// Open and Close delimit generic argument lists.
	Open  string
	Close string
	// AliasPrimitives collapses framework names such as System.Int32 to keywords.
	AliasPrimitives bool
	// IncludeParameterNames appends parameter names in parameter lists.
	IncludeParameterNames bool
}

var (
	// Code renders declarations inside fenced code blocks.
	Code = Context{Open: "<", Close: ">", AliasPrimitives: true, IncludeParameterNames: true}
	// Prose renders titles, table cells and link text.
	Prose = Context{Open: "&lt;", Close: "&gt;"}
	// ProseAliased is Prose with keyword aliases, used for parameter detail lines.
	ProseAliased = Context{Open: "&lt;", Close: "&gt;", AliasPrimitives: true}
)

var aliases = map[string]string{
	"System.Byte":    "byte",
	"System.SByte":   "sbyte",
	"System.Int16":   "short",
	"System.UInt16":  "ushort",
	"System.Int32":   "int",
	"System.UInt32":  "uint",
	"System.Int64":   "long",
	"System.UInt64":  "ulong",
	"System.Single":  "float",
	"System.Double":  "double",
	"System.Decimal": "decimal",
	"System.Object":  "object",
	"System.Boolean": "bool",
	"System.Char":    "char",
	"System.String":  "string",
	"System.Void":    "void",
}

// Alias returns the keyword alias of a framework type name.
func Alias(fullName string) (string, bool) {
	a, ok := aliases[fullName]
	return a, ok
}

// Plain renders names for metadata such as page front matter: literal
// delimiters, framework names, no parameter names.
var Plain = Context{Open: "<", Close: ">"}
