package dataset

import "strings"

// Type is the semantic type of a column.
type Type string

// Supported column types.
const (
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeDouble  Type = "double"
	TypeBoolean Type = "boolean"
	TypeDate    Type = "date"
	TypeAny     Type = "any"
)

var knownTypes = map[string]Type{
	"string":  TypeString,
	"text":    TypeString,
	"integer": TypeInteger,
	"int":     TypeInteger,
	"double":  TypeDouble,
	"float":   TypeDouble,
	"numeric": TypeDouble,
	"boolean": TypeBoolean,
	"bool":    TypeBoolean,
	"date":    TypeDate,
	"any":     TypeAny,
}

// ParseType maps a type name to a Type. Unknown names fall back to TypeString.
func ParseType(name string) Type {
	if t, ok := knownTypes[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t
	}
	return TypeString
}

// IsNumeric reports whether values of this type are numbers.
func (t Type) IsNumeric() bool {
	return t == TypeInteger || t == TypeDouble
}

// String returns the type name.
func (t Type) String() string { return string(t) }
