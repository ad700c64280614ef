package mapping

import (
	"strings"

	"asbindgen/internal/catalog"
	"asbindgen/internal/types"
)

// Position is where a type occurs in a script declaration.
type Position int

const (
	Parameter Position = iota
	Return
	Property
)

// ScriptType spells a resolved type in script syntax. Pointers to reference
// types are handles ("Foo@"); references are "in" references when passed
// and plain references when returned.
func (mapper *Mapper) ScriptType(typ types.Resolved, position Position) string {
	var builder strings.Builder
	// Constness of a copied value does not reach the script.
	if typ.Const && !typ.ByValue() {
		builder.WriteString("const ")
	}
	builder.WriteString(typ.Name)
	switch {
	case typ.Pointer:
		builder.WriteString("@")
	case typ.Reference && position == Parameter:
		builder.WriteString(" &in")
	case typ.Reference:
		builder.WriteString(" &")
	}
	return builder.String()
}

// FunctionDecl is the script declaration of a free function or method, e.g.
// "float dot(Vec2, Vec2)" or "Vec2 opAdd(const Vec2 &in) const".
func (mapper *Mapper) FunctionDecl(function *catalog.Function) string {
	var builder strings.Builder
	builder.WriteString(mapper.ScriptType(function.Return, Return))
	builder.WriteString(" ")
	builder.WriteString(function.ScriptName)
	builder.WriteString("(")
	builder.WriteString(mapper.paramDecls(scriptParams(function)))
	builder.WriteString(")")
	if function.Const {
		builder.WriteString(" const")
	}
	return builder.String()
}

// BehaviourDecl is the script declaration of a behaviour. Behaviour names are
// fixed by the engine, so every declaration is named f.
func (mapper *Mapper) BehaviourDecl(behaviour *catalog.Behaviour) string {
	switch behaviour.Kind {
	case catalog.Construct:
		return "void f(" + mapper.paramDecls(behaviour.Params) + ")"
	case catalog.Factory:
		return behaviour.Owner + "@ f(" + mapper.paramDecls(behaviour.Params) + ")"
	case catalog.ImplicitCast, catalog.Cast:
		return behaviour.Target + "@ f()"
	}
	return "void f()"
}

// PropertyDecl is the script declaration of a field, e.g. "float x".
func (mapper *Mapper) PropertyDecl(field *catalog.Field) string {
	return mapper.ScriptType(field.Type, Property) + " " + field.Name
}

// isPostfix reports a postfix increment or decrement, whose int parameter
// only tells C++ overloads apart.
func isPostfix(function *catalog.Function) bool {
	return function.ScriptName == "opPostInc" || function.ScriptName == "opPostDec"
}

// scriptParams are the parameters the script passes.
func scriptParams(function *catalog.Function) []catalog.Param {
	if isPostfix(function) {
		return nil
	}
	return function.Params
}

func (mapper *Mapper) paramDecls(params []catalog.Param) string {
	decls := make([]string, len(params))
	for i, param := range params {
		decls[i] = mapper.ScriptType(param.Type, Parameter)
	}
	return strings.Join(decls, ", ")
}
