// Package ast describes the declaration tree a frontend hands to the binding
// generator. Frontends (libclang, Windows metadata) adapt their own cursors to
// these interfaces; the generator never sees frontend types.
package ast

// CursorKind is the closed set of declaration node variants the generator
// understands. Anything else arrives as KindOther.
type CursorKind int

const (
	KindOther CursorKind = iota
	KindTranslationUnit
	KindNamespace
	KindMacro
	KindFunction
	KindTypedef
	KindClass
	KindStruct
	KindField
	KindMethod
	KindConstructor
	KindDestructor
	KindBaseSpecifier
	KindAccessSpecifier
	KindParam
	KindEnum
	KindEnumConstant
)

var cursorKindNames = [...]string{
	KindOther:           "Other",
	KindTranslationUnit: "TranslationUnit",
	KindNamespace:       "Namespace",
	KindMacro:           "Macro",
	KindFunction:        "Function",
	KindTypedef:         "Typedef",
	KindClass:           "Class",
	KindStruct:          "Struct",
	KindField:           "Field",
	KindMethod:          "Method",
	KindConstructor:     "Constructor",
	KindDestructor:      "Destructor",
	KindBaseSpecifier:   "BaseSpecifier",
	KindAccessSpecifier: "AccessSpecifier",
	KindParam:           "Param",
	KindEnum:            "Enum",
	KindEnumConstant:    "EnumConstant",
}

func (kind CursorKind) String() string {
	if kind < 0 || int(kind) >= len(cursorKindNames) {
		return "Other"
	}
	return cursorKindNames[kind]
}

// Access is a C++ member or base access level.
type Access int

const (
	AccessInvalid Access = iota
	AccessPublic
	AccessProtected
	AccessPrivate
)

// TypeKind mirrors the subset of libclang type kinds the resolver inspects.
type TypeKind int

const (
	TypeInvalid TypeKind = iota
	TypeUnexposed

	TypeVoid
	TypeBool
	TypeChar
	TypeSChar
	TypeUChar
	TypeShort
	TypeUShort
	TypeInt
	TypeUInt
	TypeLong
	TypeULong
	TypeLongLong
	TypeULongLong
	TypeFloat
	TypeDouble
	TypeLongDouble

	TypePointer
	TypeLValueReference
	TypeRValueReference
	TypeRecord
	TypeEnum
	TypeTypedef
	TypeConstantArray
	TypeFunctionProto
)

// IsBuiltin reports whether the kind is a builtin arithmetic type or void.
func (kind TypeKind) IsBuiltin() bool {
	return kind >= TypeVoid && kind <= TypeLongDouble
}

// TokenKind classifies a lexical token.
type TokenKind int

const (
	TokenPunctuation TokenKind = iota
	TokenKeyword
	TokenIdentifier
	TokenLiteral
	TokenComment
)

// Token is a single lexical token of a declaration's source range.
type Token struct {
	Kind     TokenKind
	Spelling string
}

// Cursor is one node of the declaration tree.
type Cursor interface {
	Kind() CursorKind
	Spelling() string
	// DisplayName is the human readable name including scope, used in
	// diagnostics only.
	DisplayName() string
	// Type is the declared type of fields, params, typedef names and records.
	Type() Type
	// ResultType is the return type of functions, methods and constructors.
	ResultType() Type
	// UnderlyingType is the aliased type of a typedef.
	UnderlyingType() Type
	// File is the path of the file the declaration was read from.
	File() string
	Children() []Cursor
	// Access is the access level of access-specifier and base-specifier nodes.
	Access() Access
	IsStatic() bool
	// IsConst reports a const-qualified method.
	IsConst() bool
	// Tokens returns the token range of the declaration.
	Tokens() []Token
	// EnumValue is the value of an enum constant.
	EnumValue() int64
}

// Type is a type handle supporting kind introspection.
type Type interface {
	Kind() TypeKind
	Spelling() string
	IsConst() bool
	// Pointee is the pointed-to or referenced type of pointers and references.
	Pointee() Type
	// Element is the element type of constant arrays.
	Element() Type
	ArraySize() int64
	// Declaration is the declaring cursor of records, enums and typedefs, or
	// nil when the frontend exposes none.
	Declaration() Cursor
}

// TranslationUnit is a parsed input.
type TranslationUnit interface {
	Root() Cursor
	// Diagnostics are the frontend's own warnings and errors.
	Diagnostics() []string
}
