package types

import "asbindgen/internal/ast"

// Engine names of the primitive types.
const (
	Void   = "void"
	Bool   = "bool"
	Int8   = "int8"
	Int16  = "int16"
	Int32  = "int"
	Int64  = "int64"
	UInt8  = "uint8"
	UInt16 = "uint16"
	UInt32 = "uint"
	UInt64 = "uint64"
	Float  = "float"
	Double = "double"
)

// The map of builtin C++ type kinds to engine primitive names
var builtInKinds map[ast.TypeKind]string = map[ast.TypeKind]string{
	ast.TypeVoid:      Void,
	ast.TypeBool:      Bool,
	ast.TypeChar:      Int8,
	ast.TypeSChar:     Int8,
	ast.TypeUChar:     UInt8,
	ast.TypeShort:     Int16,
	ast.TypeUShort:    UInt16,
	ast.TypeInt:       Int32,
	ast.TypeUInt:      UInt32,
	ast.TypeLong:      Int64,
	ast.TypeULong:     UInt64,
	ast.TypeLongLong:  Int64,
	ast.TypeULongLong: UInt64,
	ast.TypeFloat:     Float,
	ast.TypeDouble:    Double,
}

// The map of spelled type names that are normalized no matter how the
// headers alias them
var builtInSynonyms map[string]string = map[string]string{
	"int8_t":             Int8,
	"int16_t":            Int16,
	"int32_t":            Int32,
	"int64_t":            Int64,
	"uint8_t":            UInt8,
	"uint16_t":           UInt16,
	"uint32_t":           UInt32,
	"uint64_t":           UInt64,
	"size_t":             UInt64,
	"ssize_t":            Int64,
	"intptr_t":           Int64,
	"uintptr_t":          UInt64,
	"ptrdiff_t":          Int64,
	"char":               Int8,
	"signed char":        Int8,
	"unsigned char":      UInt8,
	"short":              Int16,
	"unsigned short":     UInt16,
	"unsigned":           UInt32,
	"unsigned int":       UInt32,
	"long":               Int64,
	"unsigned long":      UInt64,
	"long long":          Int64,
	"unsigned long long": UInt64,
}

var builtInNames = map[string]bool{
	Void: true, Bool: true,
	Int8: true, Int16: true, Int32: true, Int64: true,
	UInt8: true, UInt16: true, UInt32: true, UInt64: true,
	Float: true, Double: true,
}

// IsBuiltinName reports whether name is an engine primitive.
func IsBuiltinName(name string) bool {
	return builtInNames[name]
}

// IsSynonym reports whether name is normalized by the fixed synonym table.
func IsSynonym(name string) bool {
	_, found := builtInSynonyms[name]
	return found
}

// IsNumeric reports an engine primitive usable as a typedef target.
func IsNumeric(name string) bool {
	return IsBuiltinName(name) && name != Void && name != Bool
}

// BuiltinName returns the engine name of a builtin type kind.
func BuiltinName(kind ast.TypeKind) (string, bool) {
	name, found := builtInKinds[kind]
	return name, found
}
