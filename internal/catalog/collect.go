package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"asbindgen/internal/ast"
	"asbindgen/internal/config"
	"asbindgen/internal/diag"
	"asbindgen/internal/types"
)

// ErrNoTranslationUnit is returned when the frontend produced nothing to walk.
var ErrNoTranslationUnit = errors.New("no translation unit could be produced from the input")

type collector struct {
	catalog *Catalog
	options *config.Options
	log     *diag.Log
	// scope is the namespace and class path of the node being walked, for
	// diagnostics.
	scope []string
}

// Collect walks the translation unit once and builds its catalog. Path,
// object and signature filters run while each declaration is constructed,
// before any of its type uses reach the scoreboard.
func Collect(unit ast.TranslationUnit, options *config.Options, log *diag.Log) (*Catalog, error) {
	if unit == nil || unit.Root() == nil {
		return nil, ErrNoTranslationUnit
	}

	collector := &collector{catalog: New(), options: options, log: log}
	collector.walk(unit.Root())

	for _, message := range unit.Diagnostics() {
		log.Warnf("frontend reported: %s", message)
	}
	return collector.catalog, nil
}

func (collector *collector) walk(cursor ast.Cursor) {
	for _, child := range cursor.Children() {
		collector.declaration(child)
	}
}

func (collector *collector) declaration(cursor ast.Cursor) {
	switch cursor.Kind() {
	case ast.KindMacro:
		collector.macro(cursor)
	case ast.KindFunction:
		collector.function(cursor)
	case ast.KindTypedef:
		collector.typedef(cursor)
	case ast.KindClass, ast.KindStruct:
		collector.object(cursor)
	case ast.KindEnum:
		collector.enum(cursor)
	case ast.KindNamespace:
		collector.scope = append(collector.scope, cursor.Spelling())
		collector.walk(cursor)
		collector.scope = collector.scope[:len(collector.scope)-1]
	default:
		collector.log.Warnf("unhandled cursor: %s, %s", cursor.DisplayName(), cursor.Kind())
	}
}

func (collector *collector) qualified(name string) string {
	if len(collector.scope) == 0 {
		return name
	}
	return strings.Join(collector.scope, "::") + "::" + name
}

func (collector *collector) admitsFile(file string) bool {
	return config.Admits(collector.options.FileInclude, collector.options.FileExclude, file)
}

// commit publishes the type uses of a declaration that survived
// construction.
func (collector *collector) commit(resolved ...types.Resolved) {
	for _, typ := range resolved {
		collector.catalog.Scoreboard.Record(typ)
	}
}

func (collector *collector) macro(cursor ast.Cursor) {
	name := cursor.Spelling()
	if !collector.admitsFile(cursor.File()) {
		collector.log.Skip(name, "file filtered")
		return
	}

	tokens := cursor.Tokens()
	if len(tokens) != 2 ||
		tokens[0].Kind != ast.TokenIdentifier ||
		tokens[1].Kind != ast.TokenLiteral ||
		!IsIntegerLiteral(tokens[1].Spelling) {
		collector.log.Debugf("macro %s is not an integer constant", name)
		return
	}

	collector.addConstant(collector.catalog.macroEnum(cursor.File()), Constant{
		Name:  tokens[0].Spelling,
		Value: tokens[1].Spelling,
		File:  cursor.File(),
	})
}

func (collector *collector) addConstant(enum *Enum, constant Constant) {
	for _, existing := range enum.Values {
		if existing.Name == constant.Name {
			collector.log.Skipf(enum.Name+"::"+constant.Name, "duplicate constant, keeping the one from %s", existing.File)
			return
		}
	}
	enum.Values = append(enum.Values, constant)
}

// IsIntegerLiteral reports a C integer literal: decimal, hex, octal or
// binary, with optional unsigned/long suffixes.
func IsIntegerLiteral(literal string) bool {
	digits := strings.TrimRight(literal, "uUlL")
	if digits == "" {
		return false
	}
	if _, err := strconv.ParseInt(digits, 0, 64); err == nil {
		return true
	}
	_, err := strconv.ParseUint(digits, 0, 64)
	return err == nil
}

func (collector *collector) typedef(cursor ast.Cursor) {
	name := cursor.Spelling()
	admitted := collector.admitsFile(cursor.File())

	target, ok := typedefTarget(cursor.UnderlyingType())
	if !ok {
		if admitted {
			collector.log.Warnf("typedef too complex, ignoring: %s", collector.qualified(name))
		} else {
			collector.log.Debugf("typedef too complex, ignoring: %s", collector.qualified(name))
		}
		return
	}

	// The alias table is never filtered; later declarations may resolve
	// through it even when the typedef itself is not registered.
	collector.catalog.Resolver.AddTypedef(name, target)
	if !admitted {
		collector.log.Skip(name, "file filtered")
		return
	}

	resolved, err := collector.catalog.Resolver.Unwind(name)
	if err != nil {
		collector.log.Skip(name, err.Error())
		return
	}
	if !types.IsNumeric(resolved) || types.IsSynonym(name) || types.IsBuiltinName(name) {
		return
	}
	collector.catalog.Typedefs = append(collector.catalog.Typedefs, &Typedef{
		Name:   name,
		Target: resolved,
		File:   cursor.File(),
	})
}

// typedefTarget accepts only plain named targets; aliases of pointers,
// functions and anonymous records are too complex.
func typedefTarget(underlying ast.Type) (string, bool) {
	if underlying == nil {
		return "", false
	}
	if name, found := types.BuiltinName(underlying.Kind()); found {
		return name, true
	}
	switch underlying.Kind() {
	case ast.TypeRecord, ast.TypeEnum, ast.TypeTypedef:
		decl := underlying.Declaration()
		if decl == nil || !types.UsableName(decl.Spelling()) {
			return "", false
		}
		return decl.Spelling(), true
	}
	return "", false
}

func (collector *collector) enum(cursor ast.Cursor) {
	name := cursor.Spelling()
	children := cursor.Children()
	if len(children) == 0 {
		collector.log.Debugf("enum %s is only declared here", collector.qualified(name))
		return
	}
	if !collector.admitsFile(cursor.File()) {
		collector.log.Skip(collector.qualified(name), "file filtered")
		return
	}

	var values []Constant
	for _, child := range children {
		if child.Kind() != ast.KindEnumConstant {
			collector.log.Warnf("unhandled enum member: %s, %s", child.DisplayName(), child.Kind())
			continue
		}
		values = append(values, Constant{
			Name:  child.Spelling(),
			Value: strconv.FormatInt(child.EnumValue(), 10),
			File:  cursor.File(),
		})
	}

	if !types.UsableName(name) {
		macros := collector.catalog.macroEnum(cursor.File())
		for _, value := range values {
			collector.addConstant(macros, value)
		}
		return
	}
	if existing := collector.catalog.Enum(name); existing != nil {
		collector.log.Warnf("%s redeclared in %s, keeping the declaration from %s", collector.qualified(name), cursor.File(), existing.File)
		return
	}
	collector.catalog.AddEnum(&Enum{Name: name, Values: values, File: cursor.File()})
}

func (collector *collector) function(cursor ast.Cursor) {
	function, ok := collector.buildFunction(cursor, "")
	if ok {
		collector.catalog.Functions = append(collector.catalog.Functions, function)
	}
}

// buildFunction constructs a function or method. Any failure is a logged
// skip, and nothing reaches the scoreboard unless the function is kept.
func (collector *collector) buildFunction(cursor ast.Cursor, owner string) (*Function, bool) {
	subject := collector.qualified(cursor.Spelling())
	if !collector.admitsFile(cursor.File()) {
		collector.log.Skip(subject, "file filtered")
		return nil, false
	}

	function := &Function{
		Name:       cursor.Spelling(),
		ScriptName: cursor.Spelling(),
		Owner:      owner,
		Const:      cursor.IsConst(),
		File:       cursor.File(),
	}

	result := cursor.ResultType()
	returnType, err := collector.catalog.Resolver.Resolve(result)
	if err != nil {
		collector.log.Skipf(subject, "return type: %v", err)
		return nil, false
	}
	function.Return = returnType
	function.ReturnNative = result.Spelling()

	function.Params, err = collector.params(cursor)
	if err != nil {
		collector.log.Skip(subject, err.Error())
		return nil, false
	}

	signature := function.Signature()
	if !config.Admits(collector.options.MethodInclude, collector.options.MethodExclude, signature) {
		collector.log.Skip(signature, "signature filtered")
		return nil, false
	}
	if err := bindable(function.Params, &function.Return); err != nil {
		collector.log.Skip(signature, err.Error())
		return nil, false
	}

	collector.commit(function.Types()...)
	return function, true
}

func (collector *collector) params(cursor ast.Cursor) ([]Param, error) {
	var params []Param
	for _, child := range cursor.Children() {
		if child.Kind() != ast.KindParam {
			continue
		}
		resolved, err := collector.catalog.Resolver.Resolve(child.Type())
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", len(params), err)
		}
		name := child.Spelling()
		if name == "" {
			name = fmt.Sprintf("a%d", len(params))
		}
		params = append(params, Param{Name: name, Type: resolved, Native: child.Type().Spelling()})
	}
	return params, nil
}

// bindable rejects signatures naming types the engine has no spelling for.
func bindable(params []Param, result *types.Resolved) error {
	if result != nil {
		if err := bindableType("return type", *result); err != nil {
			return err
		}
	}
	for i, param := range params {
		if param.Type.IsVoid() {
			return fmt.Errorf("parameter %d: void parameter", i)
		}
		if err := bindableType(fmt.Sprintf("parameter %d", i), param.Type); err != nil {
			return err
		}
	}
	return nil
}

func bindableType(what string, typ types.Resolved) error {
	switch {
	case typ.ArrayLen > 0:
		return fmt.Errorf("%s: arrays cannot be bound", what)
	case typ.Pointer && typ.Name == types.Void:
		return fmt.Errorf("%s: void pointers cannot be bound", what)
	case typ.Pointer && typ.IsBuiltin():
		return fmt.Errorf("%s: pointers to primitive types cannot be bound", what)
	case typ.Reference && typ.Name == types.Void:
		return fmt.Errorf("%s: invalid reference to void", what)
	}
	return nil
}
