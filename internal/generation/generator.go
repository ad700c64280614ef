package generation

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"asbindgen/internal/catalog"
	"asbindgen/internal/config"
	"asbindgen/internal/mapping"
)

// StatementKind identifies the engine call a statement makes.
type StatementKind int

const (
	ObjectTypeStatement StatementKind = iota
	TypedefStatement
	EnumStatement
	EnumValueStatement
	FunctionStatement
	BehaviourStatement
	MethodStatement
	PropertyStatement
)

var engineCalls = [...]string{
	ObjectTypeStatement: "RegisterObjectType",
	TypedefStatement:    "RegisterTypedef",
	EnumStatement:       "RegisterEnum",
	EnumValueStatement:  "RegisterEnumValue",
	FunctionStatement:   "RegisterGlobalFunction",
	BehaviourStatement:  "RegisterObjectBehaviour",
	MethodStatement:     "RegisterObjectMethod",
	PropertyStatement:   "RegisterObjectProperty",
}

// Call is the asIScriptEngine method the statement invokes.
func (kind StatementKind) Call() string {
	return engineCalls[kind]
}

// Statement is one registration call.
type Statement struct {
	Kind StatementKind
	// Object is the registered object type, enum or typedef, if any.
	Object string
	// Decl is the script-side declaration or name.
	Decl string
	// Args are the C++ arguments of the call, already spelled.
	Args []string
}

// Section groups the statements of one emission stage.
type Section struct {
	Title      string
	Statements []Statement
}

type Generator struct {
	Sections     []Section
	Thunks       []*mapping.Thunk
	Includes     []string
	FunctionName string
	AssertChecks bool

	catalog *catalog.Catalog
	mapper  *mapping.Mapper
	options *config.Options
}

func NewGenerator(cat *catalog.Catalog, mapper *mapping.Mapper, options *config.Options) *Generator {
	return &Generator{
		Includes:     options.Includes,
		FunctionName: options.FunctionName,
		AssertChecks: options.AssertChecks,
		catalog:      cat,
		mapper:       mapper,
		options:      options,
	}
}

// Build lays out every registration in dependency order: object types,
// typedefs, enums and constants, free functions, behaviours, methods,
// fields.
func (generator *Generator) Build() {
	generator.Sections = nil
	generator.Thunks = nil

	generator.section("Object types")
	for _, object := range generator.catalog.Objects {
		generator.RegisterObjectType(object)
	}
	generator.section("Typedefs")
	for _, typedef := range generator.catalog.Typedefs {
		generator.RegisterTypedef(typedef)
	}
	generator.section("Enums")
	for _, enum := range generator.catalog.Enums {
		generator.RegisterEnum(enum)
	}
	generator.section("Functions")
	for _, function := range generator.catalog.Functions {
		generator.RegisterFunction(function)
	}
	generator.section("Behaviours")
	for _, behaviour := range generator.catalog.Behaviours {
		generator.RegisterBehaviour(behaviour)
	}
	generator.section("Methods")
	for _, method := range generator.catalog.Methods() {
		generator.RegisterMethod(method)
	}
	generator.section("Properties")
	for _, object := range generator.catalog.Objects {
		for _, field := range object.Fields {
			generator.RegisterProperty(field)
		}
	}

	generator.Sections = slices.DeleteFunc(generator.Sections, func(section Section) bool {
		return len(section.Statements) == 0
	})
}

// Statements returns every statement in emission order.
func (generator *Generator) Statements() []Statement {
	var statements []Statement
	for _, section := range generator.Sections {
		statements = append(statements, section.Statements...)
	}
	return statements
}

func (generator *Generator) section(title string) {
	generator.Sections = append(generator.Sections, Section{Title: title})
}

func (generator *Generator) add(statement Statement) {
	current := &generator.Sections[len(generator.Sections)-1]
	current.Statements = append(current.Statements, statement)
}

func (generator *Generator) addThunk(thunk *mapping.Thunk) {
	if thunk != nil {
		generator.Thunks = append(generator.Thunks, thunk)
	}
}

func (generator *Generator) RegisterObjectType(object *catalog.ObjectType) {
	size := "0"
	if !generator.mapper.IsReference(object.Name) {
		size = fmt.Sprintf("sizeof(%s)", object.Name)
	}
	generator.add(Statement{
		Kind:   ObjectTypeStatement,
		Object: object.Name,
		Decl:   object.Name,
		Args:   []string{quote(object.Name), size, strings.Join(generator.objectFlags(object), " | ")},
	})
}

// objectFlags computes the registration flags. Configured flags replace the
// computed ones; extra flags are appended either way.
func (generator *Generator) objectFlags(object *catalog.ObjectType) []string {
	var flags []string
	override, found := generator.options.Override(object.Name)
	switch {
	case found && len(override.Flags) > 0:
		flags = slices.Clone(override.Flags)
	case generator.mapper.IsReference(object.Name):
		flags = []string{config.FlagReference}
	default:
		flags = []string{config.FlagValue, valueClassFlag(object)}
		if !object.HasConstructor && !object.HasDestructor {
			flags = append(flags, "asOBJ_POD")
		}
	}
	if found {
		for _, extra := range override.ExtraFlags {
			if !slices.Contains(flags, extra) {
				flags = append(flags, extra)
			}
		}
	}
	return flags
}

func valueClassFlag(object *catalog.ObjectType) string {
	suffix := ""
	if object.HasConstructor {
		suffix += "C"
	}
	if object.HasDestructor {
		suffix += "D"
	}
	if suffix == "" {
		return "asOBJ_APP_CLASS"
	}
	return "asOBJ_APP_CLASS_" + suffix
}

func (generator *Generator) RegisterTypedef(typedef *catalog.Typedef) {
	generator.add(Statement{
		Kind:   TypedefStatement,
		Object: typedef.Name,
		Decl:   typedef.Target,
		Args:   []string{quote(typedef.Name), quote(typedef.Target)},
	})
}

func (generator *Generator) RegisterEnum(enum *catalog.Enum) {
	generator.add(Statement{
		Kind:   EnumStatement,
		Object: enum.Name,
		Decl:   enum.Name,
		Args:   []string{quote(enum.Name)},
	})
	for _, value := range enum.Values {
		generator.add(Statement{
			Kind:   EnumValueStatement,
			Object: enum.Name,
			Decl:   value.Name,
			Args:   []string{quote(enum.Name), quote(value.Name), value.Value},
		})
	}
}

func (generator *Generator) RegisterFunction(function *catalog.Function) {
	binding := generator.mapper.FunctionBinding(function)
	generator.addThunk(binding.Thunk)
	decl := generator.mapper.FunctionDecl(function)
	generator.add(Statement{
		Kind: FunctionStatement,
		Decl: decl,
		Args: []string{quote(decl), binding.Pointer, binding.Convention},
	})
}

func (generator *Generator) RegisterBehaviour(behaviour *catalog.Behaviour) {
	binding := generator.mapper.BehaviourBinding(behaviour)
	generator.addThunk(binding.Thunk)
	decl := generator.mapper.BehaviourDecl(behaviour)
	generator.add(Statement{
		Kind:   BehaviourStatement,
		Object: behaviour.Owner,
		Decl:   decl,
		Args:   []string{quote(behaviour.Owner), behaviourFlag(behaviour.Kind), quote(decl), binding.Pointer, binding.Convention},
	})
}

func behaviourFlag(kind catalog.BehaviourKind) string {
	switch kind {
	case catalog.Construct:
		return "asBEHAVE_CONSTRUCT"
	case catalog.Factory:
		return "asBEHAVE_FACTORY"
	case catalog.Destruct:
		return "asBEHAVE_DESTRUCT"
	case catalog.AddRef:
		return "asBEHAVE_ADDREF"
	case catalog.Release:
		return "asBEHAVE_RELEASE"
	case catalog.ImplicitCast:
		return "asBEHAVE_IMPLICIT_REF_CAST"
	}
	return "asBEHAVE_REF_CAST"
}

func (generator *Generator) RegisterMethod(method *catalog.Function) {
	binding := generator.mapper.FunctionBinding(method)
	generator.addThunk(binding.Thunk)
	decl := generator.mapper.FunctionDecl(method)
	generator.add(Statement{
		Kind:   MethodStatement,
		Object: method.Owner,
		Decl:   decl,
		Args:   []string{quote(method.Owner), quote(decl), binding.Pointer, binding.Convention},
	})
}

func (generator *Generator) RegisterProperty(field *catalog.Field) {
	decl := generator.mapper.PropertyDecl(field)
	generator.add(Statement{
		Kind:   PropertyStatement,
		Object: field.Owner,
		Decl:   decl,
		Args:   []string{quote(field.Owner), quote(decl), fmt.Sprintf("asOFFSET(%s, %s)", field.Owner, field.Name)},
	})
}

// quote spells s as a C++ string literal.
func quote(s string) string {
	return strconv.Quote(s)
}
