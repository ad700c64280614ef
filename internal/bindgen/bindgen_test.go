package bindgen

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"asbindgen/internal/ast"
	"asbindgen/internal/config"
	"asbindgen/internal/diag"
)

func vec2Unit() *ast.Unit {
	float := func() *ast.TypeRef { return ast.Builtin(ast.TypeFloat) }
	vec := ast.Struct("Vec2",
		ast.Field("x", float()),
		ast.Field("y", float()),
		ast.Constructor("Vec2", ast.Param("x", float()), ast.Param("y", float())),
	)
	dot := ast.Function("dot", float(), ast.Param("a", ast.RecordOf(vec)), ast.Param("b", ast.RecordOf(vec)))
	return ast.NewUnit(vec.In("vec2.h"), dot.In("vec2.h"))
}

func generate(t *testing.T, unit ast.TranslationUnit, options *config.Options) (*Result, *diag.Log) {
	t.Helper()
	log := diag.Discard()
	result, err := Generate(unit, options, log)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	return result, log
}

func registrations(result *Result) []string {
	var lines []string
	for _, statement := range result.Generator.Statements() {
		lines = append(lines, statement.Kind.Call()+"("+strings.Join(statement.Args, ", ")+")")
	}
	return lines
}

func TestEndToEndValueType(t *testing.T) {
	result, log := generate(t, vec2Unit(), config.Default())

	want := []string{
		`RegisterObjectType("Vec2", sizeof(Vec2), asOBJ_VALUE | asOBJ_APP_CLASS_C)`,
		`RegisterGlobalFunction("float dot(Vec2, Vec2)", asFUNCTIONPR(dot, (Vec2, Vec2), float), asCALL_CDECL)`,
		`RegisterObjectBehaviour("Vec2", asBEHAVE_CONSTRUCT, "void f(float, float)", asFUNCTION(Vec2_Construct), asCALL_CDECL_OBJLAST)`,
		`RegisterObjectProperty("Vec2", "float x", asOFFSET(Vec2, x))`,
		`RegisterObjectProperty("Vec2", "float y", asOFFSET(Vec2, y))`,
	}
	if diff := cmp.Diff(want, registrations(result)); diff != "" {
		t.Errorf("registrations mismatch (-want +got):\n%s", diff)
	}
	if log.Warnings() != 0 {
		t.Errorf("Warnings() = %d, want 0: %v", log.Warnings(), log.Entries())
	}
}

func TestGenerateIsIdempotent(t *testing.T) {
	options := config.Default()
	options.GenericWrapper = config.MustPattern(`dot`)

	first, _ := generate(t, vec2Unit(), options)
	second, _ := generate(t, vec2Unit(), options)
	if !bytes.Equal(first.Source, second.Source) {
		t.Errorf("two runs differ:\n%s\n---\n%s", first.Source, second.Source)
	}

	firstManifest, err := first.Manifest("bindings")
	if err != nil {
		t.Fatal(err)
	}
	secondManifest, err := second.Manifest("bindings")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(firstManifest, secondManifest) {
		t.Error("two manifests differ")
	}
}

func TestOverrideRequestsValueStorage(t *testing.T) {
	foo := ast.Struct("Foo", ast.Field("id", ast.Builtin(ast.TypeInt)))
	var declarations []*ast.Node
	declarations = append(declarations, foo)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		declarations = append(declarations, ast.Function(name, ast.Builtin(ast.TypeVoid), ast.Param("foo", ast.Pointer(ast.RecordOf(foo)))))
	}
	unit := ast.NewUnit(declarations...)
	for _, declaration := range declarations {
		declaration.In("foo.h")
	}

	no := false
	options := config.Default()
	options.Objects["Foo"] = config.ObjectOverride{Reference: &no}
	result, _ := generate(t, unit, options)

	if got := registrations(result)[0]; got != `RegisterObjectType("Foo", sizeof(Foo), asOBJ_VALUE | asOBJ_APP_CLASS | asOBJ_POD)` {
		t.Errorf("object registration = %s, want value storage", got)
	}
	if functions := result.Catalog.Functions; len(functions) != 0 {
		t.Errorf("pointer uses of a value type survived: %d functions", len(functions))
	}
}

func TestReferenceTypeLifecycle(t *testing.T) {
	mesh := ast.Class("Mesh",
		ast.Label(ast.AccessPublic),
		ast.Constructor("Mesh", ast.Param("vertices", ast.Builtin(ast.TypeInt))),
		ast.Destructor("Mesh"),
		ast.Method("vertexCount", ast.Builtin(ast.TypeInt)),
	)
	load := ast.Function("load", ast.Pointer(ast.RecordOf(mesh)), ast.Param("path", ast.Builtin(ast.TypeInt)))
	draw := ast.Function("draw", ast.Builtin(ast.TypeVoid), ast.Param("mesh", ast.Pointer(ast.RecordOf(mesh))))
	unit := ast.NewUnit(mesh.In("mesh.h"), load.In("mesh.h"), draw.In("mesh.h"))

	result, _ := generate(t, unit, config.Default())

	var behaviours []string
	for _, behaviour := range result.Catalog.Behaviours {
		behaviours = append(behaviours, behaviour.Kind.String())
	}
	if diff := cmp.Diff([]string{"factory", "addref", "release"}, behaviours); diff != "" {
		t.Errorf("behaviours mismatch (-want +got):\n%s", diff)
	}
	source := string(result.Source)
	for _, want := range []string{
		`engine->RegisterObjectType("Mesh", 0, asOBJ_REF)`,
		`engine->RegisterObjectBehaviour("Mesh", asBEHAVE_FACTORY, "Mesh@ f(int)", asFUNCTION(Mesh_Factory), asCALL_GENERIC)`,
		"\tint a0 = static_cast<int>(gen->GetArgDWord(0));\n\tgen->SetReturnAddress(new Mesh(a0));\n",
		`engine->RegisterGlobalFunction("Mesh@ load(int)", asFUNCTIONPR(load, (int), Mesh *), asCALL_CDECL)`,
	} {
		if !strings.Contains(source, want) {
			t.Errorf("source is missing %q:\n%s", want, source)
		}
	}
	if strings.Contains(source, "asBEHAVE_DESTRUCT") {
		t.Error("reference type destructor was registered")
	}
}

func TestInheritanceEndToEnd(t *testing.T) {
	base := ast.Class("Base", ast.Label(ast.AccessPublic), ast.Method("get", ast.Builtin(ast.TypeInt)))
	derived := ast.Class("Derived", ast.Base(ast.AccessPublic, base))
	create := ast.Function("create", ast.Pointer(ast.RecordOf(derived)))
	use := ast.Function("use", ast.Builtin(ast.TypeVoid), ast.Param("b", ast.Pointer(ast.RecordOf(base))))
	unit := ast.NewUnit(base.In("i.h"), derived.In("i.h"), create.In("i.h"), use.In("i.h"))

	result, _ := generate(t, unit, config.Default())

	derivedType := result.Catalog.Object("Derived")
	if len(derivedType.Methods) != 1 || derivedType.Methods[0].Owner != "Derived" {
		t.Fatalf("Derived methods = %v, want one inherited get()", derivedType.Methods)
	}
	source := string(result.Source)
	for _, want := range []string{
		`engine->RegisterObjectMethod("Derived", "int get()", asMETHODPR(Base, get, (), int), asCALL_THISCALL)`,
		`engine->RegisterObjectBehaviour("Derived", asBEHAVE_IMPLICIT_REF_CAST, "Base@ f()", asFUNCTION(Derived_To_Base), asCALL_CDECL_OBJLAST)`,
		`engine->RegisterObjectBehaviour("Base", asBEHAVE_REF_CAST, "Derived@ f()", asFUNCTION(Base_To_Derived), asCALL_CDECL_OBJLAST)`,
		"static Derived* Base_To_Derived(Base* self)",
	} {
		if !strings.Contains(source, want) {
			t.Errorf("source is missing %q:\n%s", want, source)
		}
	}
}

func TestGenerateWithoutUnit(t *testing.T) {
	if _, err := Generate(nil, config.Default(), diag.Discard()); err == nil {
		t.Error("Generate(nil) succeeded, want an error")
	}
}

func TestConstructedAndDestroyedValueType(t *testing.T) {
	buf := ast.Struct("Buf",
		ast.Field("size", ast.Builtin(ast.TypeInt)),
		ast.Constructor("Buf"),
		ast.Destructor("Buf"),
	)
	fill := ast.Function("fill", ast.Builtin(ast.TypeVoid), ast.Param("buf", ast.RecordOf(buf)))
	result, _ := generate(t, ast.NewUnit(buf.In("buf.h"), fill.In("buf.h")), config.Default())

	if got := registrations(result)[0]; got != `RegisterObjectType("Buf", sizeof(Buf), asOBJ_VALUE | asOBJ_APP_CLASS_CD)` {
		t.Errorf("object registration = %s", got)
	}
}

func TestOverloadHidingInheritedMethod(t *testing.T) {
	base := ast.Class("Base", ast.Label(ast.AccessPublic), ast.Method("get", ast.Builtin(ast.TypeInt)))
	derived := ast.Class("Derived",
		ast.Base(ast.AccessPublic, base),
		ast.Label(ast.AccessPublic),
		ast.Method("get", ast.Builtin(ast.TypeInt), ast.Param("slot", ast.Builtin(ast.TypeInt))),
	)
	use := ast.Function("use", ast.Builtin(ast.TypeVoid), ast.Param("d", ast.Pointer(ast.RecordOf(derived))))
	unit := ast.NewUnit(base.In("h.h"), derived.In("h.h"), use.In("h.h"))

	result, _ := generate(t, unit, config.Default())

	source := string(result.Source)
	for _, want := range []string{
		`engine->RegisterObjectMethod("Derived", "int get(int)", asMETHODPR(Derived, get, (int), int), asCALL_THISCALL)`,
		`engine->RegisterObjectMethod("Derived", "int get()", asMETHODPR(Base, get, (), int), asCALL_THISCALL)`,
	} {
		if !strings.Contains(source, want) {
			t.Errorf("source is missing %q:\n%s", want, source)
		}
	}
}
