// Package clangast parses C and C++ headers with libclang and converts the
// result into an in-memory ast tree.
package clangast

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-clang/clang-v13/clang"

	"asbindgen/internal/ast"
)

var cursorKinds = map[clang.CursorKind]ast.CursorKind{
	clang.Cursor_MacroDefinition:    ast.KindMacro,
	clang.Cursor_FunctionDecl:       ast.KindFunction,
	clang.Cursor_TypedefDecl:        ast.KindTypedef,
	clang.Cursor_TypeAliasDecl:      ast.KindTypedef,
	clang.Cursor_ClassDecl:          ast.KindClass,
	clang.Cursor_StructDecl:         ast.KindStruct,
	clang.Cursor_FieldDecl:          ast.KindField,
	clang.Cursor_CXXMethod:          ast.KindMethod,
	clang.Cursor_Constructor:        ast.KindConstructor,
	clang.Cursor_Destructor:         ast.KindDestructor,
	clang.Cursor_CXXBaseSpecifier:   ast.KindBaseSpecifier,
	clang.Cursor_CXXAccessSpecifier: ast.KindAccessSpecifier,
	clang.Cursor_ParmDecl:           ast.KindParam,
	clang.Cursor_EnumDecl:           ast.KindEnum,
	clang.Cursor_EnumConstantDecl:   ast.KindEnumConstant,
	clang.Cursor_Namespace:          ast.KindNamespace,
}

var typeKinds = map[clang.TypeKind]ast.TypeKind{
	clang.Type_Void:             ast.TypeVoid,
	clang.Type_Bool:             ast.TypeBool,
	clang.Type_Char_U:           ast.TypeChar,
	clang.Type_Char_S:           ast.TypeChar,
	clang.Type_SChar:            ast.TypeSChar,
	clang.Type_UChar:            ast.TypeUChar,
	clang.Type_Short:            ast.TypeShort,
	clang.Type_UShort:           ast.TypeUShort,
	clang.Type_Int:              ast.TypeInt,
	clang.Type_UInt:             ast.TypeUInt,
	clang.Type_Long:             ast.TypeLong,
	clang.Type_ULong:            ast.TypeULong,
	clang.Type_LongLong:         ast.TypeLongLong,
	clang.Type_ULongLong:        ast.TypeULongLong,
	clang.Type_Float:            ast.TypeFloat,
	clang.Type_Double:           ast.TypeDouble,
	clang.Type_LongDouble:       ast.TypeLongDouble,
	clang.Type_Pointer:          ast.TypePointer,
	clang.Type_LValueReference:  ast.TypeLValueReference,
	clang.Type_RValueReference:  ast.TypeRValueReference,
	clang.Type_Record:           ast.TypeRecord,
	clang.Type_Enum:             ast.TypeEnum,
	clang.Type_Typedef:          ast.TypeTypedef,
	clang.Type_ConstantArray:    ast.TypeConstantArray,
	clang.Type_FunctionProto:    ast.TypeFunctionProto,
	clang.Type_FunctionNoProto:  ast.TypeFunctionProto,
}

var accessLevels = map[clang.AccessSpecifier]ast.Access{
	clang.AccessSpecifier_Public:    ast.AccessPublic,
	clang.AccessSpecifier_Protected: ast.AccessProtected,
	clang.AccessSpecifier_Private:   ast.AccessPrivate,
}

var tokenKinds = map[clang.TokenKind]ast.TokenKind{
	clang.Token_Punctuation: ast.TokenPunctuation,
	clang.Token_Keyword:     ast.TokenKeyword,
	clang.Token_Identifier:  ast.TokenIdentifier,
	clang.Token_Literal:     ast.TokenLiteral,
	clang.Token_Comment:     ast.TokenComment,
}

// Parse parses path with the given compiler arguments. Declarations from
// system headers are left out. Headers are parsed as C++ unless the
// arguments select a language.
func Parse(path string, args []string) (*ast.Unit, error) {
	index := clang.NewIndex(0, 0)
	defer index.Dispose()

	options := uint32(clang.TranslationUnit_DetailedPreprocessingRecord | clang.TranslationUnit_SkipFunctionBodies)
	tu := index.ParseTranslationUnit(path, WithLanguage(args), nil, options)
	if tu == (clang.TranslationUnit{}) {
		return nil, fmt.Errorf("libclang could not parse %s", path)
	}
	defer tu.Dispose()

	converter := &converter{tu: tu}
	root := &ast.Node{NodeKind: ast.KindTranslationUnit, Name: tu.Spelling()}
	root.Nodes = converter.declarations(tu.TranslationUnitCursor())

	unit := &ast.Unit{RootNode: root}
	for i := uint32(0); i < tu.NumDiagnostics(); i++ {
		diagnostic := tu.Diagnostic(i)
		if diagnostic.Severity() >= clang.Diagnostic_Warning {
			unit.Messages = append(unit.Messages, diagnostic.FormatDiagnostic(uint32(clang.Diagnostic_DisplaySourceLocation)))
		}
		diagnostic.Dispose()
	}
	return unit, nil
}

// WithLanguage prepends "-x c++" unless args already select a language.
func WithLanguage(args []string) []string {
	if slices.ContainsFunc(args, func(arg string) bool { return strings.HasPrefix(arg, "-x") }) {
		return args
	}
	return append([]string{"-x", "c++"}, args...)
}

type converter struct {
	tu clang.TranslationUnit
}

// declarations converts the children of a namespace-level cursor. Linkage
// specifications are transparent; preprocessor bookkeeping is dropped.
func (converter *converter) declarations(parent clang.Cursor) []*ast.Node {
	var nodes []*ast.Node
	parent.Visit(func(cursor, _ clang.Cursor) clang.ChildVisitResult {
		if cursor.Location().IsInSystemHeader() {
			return clang.ChildVisit_Continue
		}
		switch cursor.Kind() {
		case clang.Cursor_LinkageSpec:
			nodes = append(nodes, converter.declarations(cursor)...)
		case clang.Cursor_MacroExpansion, clang.Cursor_InclusionDirective:
		default:
			if node := converter.node(cursor); node != nil {
				nodes = append(nodes, node)
			}
		}
		return clang.ChildVisit_Continue
	})
	return nodes
}

func (converter *converter) node(cursor clang.Cursor) *ast.Node {
	path := fileOf(cursor)
	if path == "" {
		// Builtin macros and other compiler-provided entities.
		return nil
	}

	kind, known := cursorKinds[cursor.Kind()]
	if !known {
		kind = ast.KindOther
	}
	node := &ast.Node{
		NodeKind: kind,
		Name:     cursor.Spelling(),
		Display:  cursor.DisplayName(),
		Path:     path,
	}

	switch kind {
	case ast.KindOther:
		node.Display = fmt.Sprintf("%s (%s)", cursor.DisplayName(), cursor.Kind().Spelling())
	case ast.KindMacro:
		node.TokenList = converter.tokens(cursor)
	case ast.KindTypedef:
		node.Underlying = converter.typeRef(cursor.TypedefDeclUnderlyingType())
	case ast.KindFunction, ast.KindMethod, ast.KindConstructor, ast.KindDestructor:
		node.Result = converter.typeRef(cursor.ResultType())
		node.Static = cursor.CXXMethod_IsStatic()
		node.ConstMethod = cursor.CXXMethod_IsConst()
		node.Nodes = converter.params(cursor)
	case ast.KindField, ast.KindParam:
		node.Typ = converter.typeRef(cursor.Type())
	case ast.KindBaseSpecifier:
		node.Typ = converter.typeRef(cursor.Type())
		node.Name = node.Typ.Spelling()
		node.AccessLevel = accessLevels[cursor.AccessSpecifier()]
	case ast.KindAccessSpecifier:
		node.AccessLevel = accessLevels[cursor.AccessSpecifier()]
	case ast.KindClass, ast.KindStruct:
		node.Nodes = converter.members(cursor)
	case ast.KindEnum:
		node.Nodes = converter.enumerators(cursor)
	case ast.KindEnumConstant:
		node.ConstantValue = cursor.EnumConstantDeclValue()
	case ast.KindNamespace:
		node.Nodes = converter.declarations(cursor)
	}
	return node
}

func (converter *converter) members(record clang.Cursor) []*ast.Node {
	var nodes []*ast.Node
	record.Visit(func(cursor, _ clang.Cursor) clang.ChildVisitResult {
		if node := converter.node(cursor); node != nil {
			nodes = append(nodes, node)
		}
		return clang.ChildVisit_Continue
	})
	return nodes
}

func (converter *converter) params(function clang.Cursor) []*ast.Node {
	var params []*ast.Node
	for i := int32(0); i < function.NumArguments(); i++ {
		param := function.Argument(uint32(i))
		params = append(params, &ast.Node{
			NodeKind: ast.KindParam,
			Name:     param.Spelling(),
			Typ:      converter.typeRef(param.Type()),
			Path:     fileOf(function),
		})
	}
	return params
}

func (converter *converter) enumerators(enum clang.Cursor) []*ast.Node {
	var constants []*ast.Node
	enum.Visit(func(cursor, _ clang.Cursor) clang.ChildVisitResult {
		if cursor.Kind() == clang.Cursor_EnumConstantDecl {
			constants = append(constants, converter.node(cursor))
		}
		return clang.ChildVisit_Continue
	})
	return constants
}

func (converter *converter) tokens(cursor clang.Cursor) []ast.Token {
	var tokens []ast.Token
	for _, token := range converter.tu.Tokenize(cursor.Extent()) {
		tokens = append(tokens, ast.Token{
			Kind:     tokenKinds[token.Kind()],
			Spelling: converter.tu.TokenSpelling(token),
		})
	}
	return tokens
}

// typeRef converts a libclang type. Elaborated spellings ("struct Foo",
// "ns::Foo") are unwrapped to the type they name.
func (converter *converter) typeRef(typ clang.Type) *ast.TypeRef {
	if typ.Kind() == clang.Type_Elaborated {
		ref := converter.typeRef(typ.NamedType())
		if typ.IsConstQualifiedType() {
			return ast.Const(ref)
		}
		return ref
	}

	kind, known := typeKinds[typ.Kind()]
	if !known {
		kind = ast.TypeUnexposed
	}
	ref := &ast.TypeRef{TypeKind: kind, Const: typ.IsConstQualifiedType()}
	switch kind {
	case ast.TypePointer, ast.TypeLValueReference, ast.TypeRValueReference:
		ref.Inner = converter.typeRef(typ.PointeeType())
	case ast.TypeConstantArray:
		ref.Inner = converter.typeRef(typ.ElementType())
		ref.Size = typ.ArraySize()
	case ast.TypeRecord, ast.TypeEnum, ast.TypeTypedef:
		decl := typ.Declaration()
		declKind := cursorKinds[decl.Kind()]
		ref.Decl = &ast.Node{NodeKind: declKind, Name: decl.Spelling(), Path: fileOf(decl)}
		ref.Name = strings.TrimPrefix(typ.Spelling(), "const ")
	case ast.TypeUnexposed:
		ref.Name = strings.TrimPrefix(typ.Spelling(), "const ")
	}
	return ref
}

func fileOf(cursor clang.Cursor) string {
	file, _, _, _ := cursor.Location().FileLocation()
	if file == (clang.File{}) {
		return ""
	}
	return file.Name()
}
