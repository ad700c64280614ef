package mapping

import (
	"fmt"
	"strings"

	"asbindgen/internal/catalog"
	"asbindgen/internal/types"
)

// Calling conventions of the engine.
const (
	CallCDecl        = "asCALL_CDECL"
	CallThisCall     = "asCALL_THISCALL"
	CallCDeclObjLast = "asCALL_CDECL_OBJLAST"
	CallGeneric      = "asCALL_GENERIC"
)

// ThunkKind selects the shape of a manufactured function.
type ThunkKind int

const (
	// GenericCall reads its arguments from an asIScriptGeneric context and
	// writes the result back to it. Generic construction, factories and
	// destruction are GenericCalls too; only their Call differs.
	GenericCall ThunkKind = iota
	// NativeConstruct placement-constructs the object passed last.
	NativeConstruct
	// NativeDestruct calls the destructor of the object passed last.
	NativeDestruct
	// NativeCast casts the object passed last with dynamic_cast.
	NativeCast
)

// Arg is one argument of a thunk.
type Arg struct {
	Name string
	// Native is the C++ type of the argument.
	Native string
	// Expr reads the argument from the generic context; unused by native
	// wrappers, which take their arguments as parameters.
	Expr string
}

// Result is how a generic thunk hands back the native return value.
type Result struct {
	Native string
	// Set is the statement storing the local named result into the context.
	Set string
}

// Thunk is a manufactured function the registrations bind to.
type Thunk struct {
	Kind ThunkKind
	Name string
	// Self is the object type the thunk operates on; empty for free
	// functions and generic construction.
	Self string
	// Target is the type a cast produces.
	Target string
	Args   []Arg
	// Call is the native invocation of a generic thunk.
	Call   string
	Result *Result
	// AddRef makes a successful cast take a reference.
	AddRef bool
}

// Binding is what a registration statement binds a declaration to.
type Binding struct {
	// Pointer is the function pointer expression, e.g. asFUNCTION(f).
	Pointer    string
	Convention string
	// Thunk is the manufactured function Pointer names, if any.
	Thunk *Thunk
}

// FunctionBinding binds a free function or a method, directly or through a
// generic thunk.
func (mapper *Mapper) FunctionBinding(function *catalog.Function) Binding {
	if mapper.NeedsGeneric(function.Signature()) {
		thunk := mapper.genericCall(function)
		return Binding{Pointer: "asFUNCTION(" + thunk.Name + ")", Convention: CallGeneric, Thunk: thunk}
	}
	if function.Owner == "" {
		return Binding{
			Pointer:    fmt.Sprintf("asFUNCTIONPR(%s, %s, %s)", function.Name, function.NativeParams(), returnNative(function)),
			Convention: CallCDecl,
		}
	}
	params := function.NativeParams()
	if function.Const {
		params += " const"
	}
	return Binding{
		Pointer:    fmt.Sprintf("asMETHODPR(%s, %s, %s, %s)", function.DeclaringClass(), function.Name, params, returnNative(function)),
		Convention: CallThisCall,
	}
}

// BehaviourBinding binds a behaviour. Constructors and destructors cannot be
// addressed in C++, so they always go through a manufactured function.
func (mapper *Mapper) BehaviourBinding(behaviour *catalog.Behaviour) Binding {
	switch behaviour.Kind {
	case catalog.AddRef:
		return Binding{Pointer: fmt.Sprintf("asMETHOD(%s, AddRef)", behaviour.Owner), Convention: CallThisCall}
	case catalog.Release:
		return Binding{Pointer: fmt.Sprintf("asMETHOD(%s, Release)", behaviour.Owner), Convention: CallThisCall}
	}

	var thunk *Thunk
	convention := CallCDeclObjLast
	generic := mapper.BehaviourNeedsGeneric(behaviour)
	switch {
	case behaviour.Kind == catalog.ImplicitCast || behaviour.Kind == catalog.Cast:
		thunk = &Thunk{
			Kind:   NativeCast,
			Name:   mapper.thunkName(behaviour.Owner + "_To_" + behaviour.Target),
			Self:   behaviour.Owner,
			Target: behaviour.Target,
			AddRef: !mapper.NoCount(behaviour.Owner) && !mapper.NoCount(behaviour.Target),
		}
	case generic:
		thunk = mapper.genericBehaviour(behaviour)
		convention = CallGeneric
	case behaviour.Kind == catalog.Destruct:
		thunk = &Thunk{Kind: NativeDestruct, Name: mapper.thunkName(behaviour.Owner + "_Destruct"), Self: behaviour.Owner}
	default:
		thunk = &Thunk{
			Kind: NativeConstruct,
			Name: mapper.thunkName(behaviour.Owner + "_Construct"),
			Self: behaviour.Owner,
			Args: nativeArgs(behaviour.Params),
		}
	}
	return Binding{Pointer: "asFUNCTION(" + thunk.Name + ")", Convention: convention, Thunk: thunk}
}

func (mapper *Mapper) genericCall(function *catalog.Function) *Thunk {
	base := function.ScriptName + "_Generic"
	callee := function.Name
	self := ""
	if function.Owner != "" {
		base = function.Owner + "_" + base
		callee = "self->" + function.Name
		if declarer := function.DeclaringClass(); declarer != function.Owner {
			callee = "self->" + declarer + "::" + function.Name
		}
		self = function.Owner
	}
	args := mapper.genericArgs(scriptParams(function))
	callArgs := argNames(args)
	if isPostfix(function) {
		callArgs = "0"
	}
	return &Thunk{
		Kind:   GenericCall,
		Name:   mapper.thunkName(base),
		Self:   self,
		Args:   args,
		Call:   callee + "(" + callArgs + ")",
		Result: mapper.result(function.Return, returnNative(function)),
	}
}

func (mapper *Mapper) genericBehaviour(behaviour *catalog.Behaviour) *Thunk {
	owner := behaviour.Owner
	args := mapper.genericArgs(behaviour.Params)
	thunk := &Thunk{Kind: GenericCall, Args: args}
	switch behaviour.Kind {
	case catalog.Factory:
		thunk.Name = mapper.thunkName(owner + "_Factory")
		thunk.Call = fmt.Sprintf("gen->SetReturnAddress(new %s(%s))", owner, argNames(args))
	case catalog.Destruct:
		thunk.Name = mapper.thunkName(owner + "_Destruct_Generic")
		thunk.Self = owner
		thunk.Call = fmt.Sprintf("self->~%s()", owner)
	default:
		thunk.Name = mapper.thunkName(owner + "_Construct_Generic")
		thunk.Call = fmt.Sprintf("new (gen->GetObject()) %s(%s)", owner, argNames(args))
	}
	return thunk
}

// thunkName makes base unique among the thunks of this run. Overloads get a
// numeric suffix in declaration order.
func (mapper *Mapper) thunkName(base string) string {
	mapper.thunkNames[base]++
	if count := mapper.thunkNames[base]; count > 1 {
		return fmt.Sprintf("%s_%d", base, count)
	}
	return base
}

func nativeArgs(params []catalog.Param) []Arg {
	args := make([]Arg, len(params))
	for i, param := range params {
		args[i] = Arg{Name: fmt.Sprintf("a%d", i), Native: nativeType(param.Native, param.Type)}
	}
	return args
}

func (mapper *Mapper) genericArgs(params []catalog.Param) []Arg {
	args := make([]Arg, len(params))
	for i, param := range params {
		args[i] = Arg{
			Name:   fmt.Sprintf("a%d", i),
			Native: nativeType(param.Native, param.Type),
			Expr:   mapper.argExpr(param.Type, nativeType(param.Native, param.Type), i),
		}
	}
	return args
}

func argNames(args []Arg) string {
	names := make([]string, len(args))
	for i, arg := range args {
		names[i] = arg.Name
	}
	return strings.Join(names, ", ")
}

// Accessors of asIScriptGeneric by primitive width.
var (
	argGetters = map[string]string{
		types.Bool: "GetArgByte", types.Int8: "GetArgByte", types.UInt8: "GetArgByte",
		types.Int16: "GetArgWord", types.UInt16: "GetArgWord",
		types.Int32: "GetArgDWord", types.UInt32: "GetArgDWord",
		types.Int64: "GetArgQWord", types.UInt64: "GetArgQWord",
		types.Float: "GetArgFloat", types.Double: "GetArgDouble",
	}
	returnSetters = map[string]string{
		types.Bool: "SetReturnByte", types.Int8: "SetReturnByte", types.UInt8: "SetReturnByte",
		types.Int16: "SetReturnWord", types.UInt16: "SetReturnWord",
		types.Int32: "SetReturnDWord", types.UInt32: "SetReturnDWord",
		types.Int64: "SetReturnQWord", types.UInt64: "SetReturnQWord",
		types.Float: "SetReturnFloat", types.Double: "SetReturnDouble",
	}
	// cppNames spell engine primitives in C++ for casts.
	cppNames = map[string]string{
		types.Void: "void", types.Bool: "bool",
		types.Int8: "int8_t", types.Int16: "int16_t", types.Int32: "int32_t", types.Int64: "int64_t",
		types.UInt8: "uint8_t", types.UInt16: "uint16_t", types.UInt32: "uint32_t", types.UInt64: "uint64_t",
		types.Float: "float", types.Double: "double",
	}
)

func (mapper *Mapper) argExpr(typ types.Resolved, native string, index int) string {
	base := cppBase(typ)
	switch {
	case typ.Reference:
		return fmt.Sprintf("*static_cast<%s*>(gen->GetArgAddress(%d))", base, index)
	case typ.Pointer:
		return fmt.Sprintf("static_cast<%s*>(gen->GetArgAddress(%d))", base, index)
	case typ.Name == types.Bool:
		return fmt.Sprintf("gen->GetArgByte(%d) != 0", index)
	case typ.IsBuiltin():
		return fmt.Sprintf("static_cast<%s>(gen->%s(%d))", native, argGetters[typ.Name], index)
	case mapper.catalog.Enum(typ.Name) != nil:
		return fmt.Sprintf("static_cast<%s>(gen->GetArgDWord(%d))", native, index)
	}
	return fmt.Sprintf("*static_cast<%s*>(gen->GetArgObject(%d))", base, index)
}

func (mapper *Mapper) result(typ types.Resolved, native string) *Result {
	var set string
	switch {
	case typ.IsVoid():
		return nil
	case typ.Reference:
		set = "gen->SetReturnAddress((void*)&result)"
	case typ.Pointer:
		set = "gen->SetReturnAddress((void*)result)"
	case typ.IsBuiltin():
		set = fmt.Sprintf("gen->%s(result)", returnSetters[typ.Name])
	case mapper.catalog.Enum(typ.Name) != nil:
		set = "gen->SetReturnDWord(static_cast<asDWORD>(result))"
	default:
		set = "gen->SetReturnObject(&result)"
	}
	return &Result{Native: native, Set: set}
}

func cppBase(typ types.Resolved) string {
	if name, found := cppNames[typ.Name]; found {
		return name
	}
	return typ.Name
}

// nativeType prefers the frontend's spelling and falls back to one derived
// from the resolved type.
func nativeType(spelled string, typ types.Resolved) string {
	if spelled != "" {
		return spelled
	}
	var builder strings.Builder
	if typ.Const {
		builder.WriteString("const ")
	}
	builder.WriteString(cppBase(typ))
	switch {
	case typ.Pointer:
		builder.WriteString("*")
	case typ.Reference:
		builder.WriteString("&")
	}
	return builder.String()
}

func returnNative(function *catalog.Function) string {
	return nativeType(function.ReturnNative, function.Return)
}
