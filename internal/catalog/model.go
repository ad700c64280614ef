// Package catalog holds every declaration collected from one translation
// unit, together with the usage scoreboard that drives classification.
package catalog

import (
	"fmt"
	"strings"

	"asbindgen/internal/config"
	"asbindgen/internal/types"
)

// MacroEnum is the enum integer macros and anonymous enum values are
// registered under.
const MacroEnum = "HASH_DEFINES"

// Param is one parameter of a function or behaviour.
type Param struct {
	Name string
	Type types.Resolved
	// Native is the C++ spelling of the parameter type.
	Native string
}

// Function is a free function or a method. Owner is empty for free
// functions.
type Function struct {
	Name string
	// ScriptName is the name registered with the engine; it differs from
	// Name for operators.
	ScriptName string
	Owner      string
	// Declarer is the class that declares an inherited method; empty when
	// it is Owner.
	Declarer     string
	Return       types.Resolved
	ReturnNative string
	Params       []Param
	Const        bool
	File         string
}

// Signature pretty prints the function, e.g. "Foo Bar::baz(Foo*) const".
func (function *Function) Signature() string {
	var builder strings.Builder
	builder.WriteString(function.Return.String())
	builder.WriteString(" ")
	if function.Owner != "" {
		builder.WriteString(function.Owner)
		builder.WriteString("::")
	}
	builder.WriteString(function.Name)
	builder.WriteString("(")
	builder.WriteString(paramList(function.Params))
	builder.WriteString(")")
	if function.Const {
		builder.WriteString(" const")
	}
	return builder.String()
}

// Types returns the return type followed by every parameter type.
func (function *Function) Types() []types.Resolved {
	all := []types.Resolved{function.Return}
	for _, param := range function.Params {
		all = append(all, param.Type)
	}
	return all
}

// NativeParams is the parenthesised C++ parameter list used by the cast
// macros, e.g. "(const Vec2 &, float)".
func (function *Function) NativeParams() string {
	return nativeParamList(function.Params)
}

// CloneFor deep-copies the function with its owner rebound to owner. The
// clone remembers the class that declares it.
func (function *Function) CloneFor(owner string) *Function {
	clone := *function
	clone.Declarer = function.DeclaringClass()
	clone.Owner = owner
	clone.Params = append([]Param(nil), function.Params...)
	return &clone
}

// DeclaringClass is the class whose member pointer names the method.
func (function *Function) DeclaringClass() string {
	if function.Declarer != "" {
		return function.Declarer
	}
	return function.Owner
}

// Field is a public data member.
type Field struct {
	Name   string
	Owner  string
	Type   types.Resolved
	Native string
	File   string
}

// Signature pretty prints the field, e.g. "float Vec2::x".
func (field *Field) Signature() string {
	return fmt.Sprintf("%s %s::%s", field.Type.String(), field.Owner, field.Name)
}

// CloneFor deep-copies the field with its owner rebound to owner.
func (field *Field) CloneFor(owner string) *Field {
	clone := *field
	clone.Owner = owner
	return &clone
}

// Typedef is an alias declaration. Only aliases of numeric builtins are
// registered with the engine; the rest only feed type resolution.
type Typedef struct {
	Name   string
	Target string
	File   string
}

// Constant is one enum value or integer macro.
type Constant struct {
	Name  string
	Value string
	File  string
}

// Enum is a named enum or the synthetic MacroEnum.
type Enum struct {
	Name   string
	Values []Constant
	File   string
}

// BehaviourKind is an engine lifecycle hook.
type BehaviourKind int

const (
	Construct BehaviourKind = iota
	Factory
	Destruct
	AddRef
	Release
	// ImplicitCast is an upcast registered on the child type.
	ImplicitCast
	// Cast is a checked downcast registered on the parent type.
	Cast
)

var behaviourNames = [...]string{
	Construct:    "construct",
	Factory:      "factory",
	Destruct:     "destruct",
	AddRef:       "addref",
	Release:      "release",
	ImplicitCast: "implicit_ref_cast",
	Cast:         "ref_cast",
}

func (kind BehaviourKind) String() string {
	return behaviourNames[kind]
}

// Behaviour is a special registration distinct from an ordinary method.
type Behaviour struct {
	Kind   BehaviourKind
	Owner  string
	Params []Param
	// Target is the other side of a cast.
	Target string
	File   string
}

// Signature pretty prints the behaviour. Constructors and destructors read
// like their C++ declarations, e.g. "Vec2::Vec2(float, float)".
func (behaviour *Behaviour) Signature() string {
	switch behaviour.Kind {
	case Construct, Factory:
		return fmt.Sprintf("%s::%s(%s)", behaviour.Owner, behaviour.Owner, paramList(behaviour.Params))
	case Destruct:
		return fmt.Sprintf("%s::~%s()", behaviour.Owner, behaviour.Owner)
	case ImplicitCast, Cast:
		return fmt.Sprintf("%s %s -> %s", behaviour.Kind, behaviour.Owner, behaviour.Target)
	}
	return fmt.Sprintf("%s %s", behaviour.Kind, behaviour.Owner)
}

// Types returns the parameter types.
func (behaviour *Behaviour) Types() []types.Resolved {
	all := make([]types.Resolved, 0, len(behaviour.Params))
	for _, param := range behaviour.Params {
		all = append(all, param.Type)
	}
	return all
}

// NativeParams is the parenthesised C++ parameter list.
func (behaviour *Behaviour) NativeParams() string {
	return nativeParamList(behaviour.Params)
}

// ObjectType is a class or struct.
type ObjectType struct {
	Name string
	// Order is the first-seen position; object types are registered in it.
	Order   int
	Parents []string
	Methods []*Function
	Fields  []*Field
	// Struct is set when declared with the struct keyword.
	Struct         bool
	HasConstructor bool
	HasDestructor  bool
	File           string
	// Override is the configured override, if any.
	Override *config.ObjectOverride
}

func paramList(params []Param) string {
	parts := make([]string, len(params))
	for i, param := range params {
		parts[i] = param.Type.String()
	}
	return strings.Join(parts, ", ")
}

func nativeParamList(params []Param) string {
	parts := make([]string, len(params))
	for i, param := range params {
		parts[i] = param.Native
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
