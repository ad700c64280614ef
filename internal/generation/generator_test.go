package generation

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"asbindgen/internal/catalog"
	"asbindgen/internal/config"
	"asbindgen/internal/mapping"
	"asbindgen/internal/types"
)

type stubClassifier map[string]bool

func (classifier stubClassifier) IsReference(name string) bool { return classifier[name] }

func newGenerator(cat *catalog.Catalog, references stubClassifier, options *config.Options) *Generator {
	generator := NewGenerator(cat, mapping.New(cat, references, options), options)
	generator.Build()
	return generator
}

func sampleCatalog() *catalog.Catalog {
	cat := catalog.New()
	floatType := types.Resolved{Name: types.Float}
	cat.AddObject(&catalog.ObjectType{
		Name:           "Vec2",
		HasConstructor: true,
		Fields: []*catalog.Field{
			{Name: "x", Owner: "Vec2", Type: floatType, Native: "float"},
		},
		Methods: []*catalog.Function{
			{Name: "length", ScriptName: "length", Owner: "Vec2", Return: floatType, ReturnNative: "float", Const: true},
		},
	})
	cat.AddObject(&catalog.ObjectType{Name: "Mesh"})
	cat.Typedefs = []*catalog.Typedef{{Name: "Handle", Target: types.UInt32}}
	cat.AddEnum(&catalog.Enum{Name: "Color", Values: []catalog.Constant{{Name: "Red", Value: "0"}}})
	cat.Functions = []*catalog.Function{{
		Name: "dot", ScriptName: "dot", Return: floatType, ReturnNative: "float",
		Params: []catalog.Param{{Type: types.Resolved{Name: "Vec2"}, Native: "Vec2"}, {Type: types.Resolved{Name: "Vec2"}, Native: "Vec2"}},
	}}
	cat.Behaviours = []*catalog.Behaviour{
		{Kind: catalog.Construct, Owner: "Vec2", Params: []catalog.Param{{Type: floatType, Native: "float"}}},
		{Kind: catalog.Factory, Owner: "Mesh"},
		{Kind: catalog.AddRef, Owner: "Mesh"},
		{Kind: catalog.Release, Owner: "Mesh"},
	}
	return cat
}

func TestBuildOrder(t *testing.T) {
	generator := newGenerator(sampleCatalog(), stubClassifier{"Mesh": true}, config.Default())

	var calls []string
	for _, statement := range generator.Statements() {
		calls = append(calls, statement.Kind.Call()+" "+statement.Decl)
	}
	want := []string{
		"RegisterObjectType Vec2",
		"RegisterObjectType Mesh",
		"RegisterTypedef uint",
		"RegisterEnum Color",
		"RegisterEnumValue Red",
		"RegisterGlobalFunction float dot(Vec2, Vec2)",
		"RegisterObjectBehaviour void f(float)",
		"RegisterObjectBehaviour Mesh@ f()",
		"RegisterObjectBehaviour void f()",
		"RegisterObjectBehaviour void f()",
		"RegisterObjectMethod float length() const",
		"RegisterObjectProperty float x",
	}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Errorf("statements mismatch (-want +got):\n%s", diff)
	}

	var thunks []string
	for _, thunk := range generator.Thunks {
		thunks = append(thunks, thunk.Name)
	}
	if diff := cmp.Diff([]string{"Vec2_Construct", "Mesh_Factory"}, thunks); diff != "" {
		t.Errorf("thunks mismatch (-want +got):\n%s", diff)
	}
}

func TestObjectFlags(t *testing.T) {
	no := false
	tests := []struct {
		name     string
		object   *catalog.ObjectType
		ref      bool
		override *config.ObjectOverride
		want     string
	}{
		{name: "pod", object: &catalog.ObjectType{Name: "T"}, want: `"T", sizeof(T), asOBJ_VALUE | asOBJ_APP_CLASS | asOBJ_POD`},
		{name: "constructed", object: &catalog.ObjectType{Name: "T", HasConstructor: true}, want: `"T", sizeof(T), asOBJ_VALUE | asOBJ_APP_CLASS_C`},
		{name: "full", object: &catalog.ObjectType{Name: "T", HasConstructor: true, HasDestructor: true}, want: `"T", sizeof(T), asOBJ_VALUE | asOBJ_APP_CLASS_CD`},
		{name: "reference", object: &catalog.ObjectType{Name: "T"}, ref: true, want: `"T", 0, asOBJ_REF`},
		{
			name:     "replaced flags",
			object:   &catalog.ObjectType{Name: "T"},
			ref:      true,
			override: &config.ObjectOverride{Flags: []string{"asOBJ_REF", "asOBJ_NOCOUNT"}},
			want:     `"T", 0, asOBJ_REF | asOBJ_NOCOUNT`,
		},
		{
			name:     "extra flags",
			object:   &catalog.ObjectType{Name: "T", HasDestructor: true},
			override: &config.ObjectOverride{Reference: &no, ExtraFlags: []string{"asOBJ_APP_CLASS_ALLINTS"}},
			want:     `"T", sizeof(T), asOBJ_VALUE | asOBJ_APP_CLASS_D | asOBJ_APP_CLASS_ALLINTS`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			options := config.Default()
			if tt.override != nil {
				options.Objects["T"] = *tt.override
			}
			cat := catalog.New()
			cat.AddObject(tt.object)
			generator := newGenerator(cat, stubClassifier{"T": tt.ref}, options)
			if got := strings.Join(generator.Statements()[0].Args, ", "); got != tt.want {
				t.Errorf("args = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRender(t *testing.T) {
	options := config.Default()
	options.Includes = []string{"vec2.h", "<mesh.h>"}
	generator := newGenerator(sampleCatalog(), stubClassifier{"Mesh": true}, options)

	var out bytes.Buffer
	if err := generator.Render(&out); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	source := out.String()

	for _, want := range []string{
		"// Code generated by asbindgen. DO NOT EDIT.\n",
		"#include <angelscript.h>\n#include \"vec2.h\"\n#include <mesh.h>\n",
		"static void Vec2_Construct(float a0, Vec2* self)\n{\n\tnew (self) Vec2(a0);\n}\n",
		"static void Mesh_Factory(asIScriptGeneric* gen)\n{\n\tgen->SetReturnAddress(new Mesh());\n}\n",
		"int RegisterBindings(asIScriptEngine* engine)\n{\n",
		"\t// Object types\n\tr = engine->RegisterObjectType(\"Vec2\", sizeof(Vec2), asOBJ_VALUE | asOBJ_APP_CLASS_C); if (r < 0) failed++;\n",
		"\tr = engine->RegisterGlobalFunction(\"float dot(Vec2, Vec2)\", asFUNCTIONPR(dot, (Vec2, Vec2), float), asCALL_CDECL); if (r < 0) failed++;\n",
		"\tr = engine->RegisterObjectBehaviour(\"Mesh\", asBEHAVE_ADDREF, \"void f()\", asMETHOD(Mesh, AddRef), asCALL_THISCALL); if (r < 0) failed++;\n",
		"\tr = engine->RegisterObjectMethod(\"Vec2\", \"float length() const\", asMETHODPR(Vec2, length, () const, float), asCALL_THISCALL); if (r < 0) failed++;\n",
		"\tr = engine->RegisterObjectProperty(\"Vec2\", \"float x\", asOFFSET(Vec2, x)); if (r < 0) failed++;\n",
		"\treturn failed;\n}\n",
	} {
		if !strings.Contains(source, want) {
			t.Errorf("rendered source is missing %q:\n%s", want, source)
		}
	}
	if strings.Index(source, "Mesh_Factory(asIScriptGeneric") > strings.Index(source, "int RegisterBindings") {
		t.Error("thunks must precede the registration function")
	}
}

func TestRenderAssertChecks(t *testing.T) {
	options := config.Default()
	options.AssertChecks = true
	options.FunctionName = "RegisterMath"
	generator := newGenerator(sampleCatalog(), stubClassifier{"Mesh": true}, options)

	var out bytes.Buffer
	if err := generator.Render(&out); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	source := out.String()
	if !strings.Contains(source, "int RegisterMath(asIScriptEngine* engine)") {
		t.Error("configured function name not used")
	}
	if strings.Contains(source, "failed++") {
		t.Error("assert checks still count failures")
	}
	if got := strings.Count(source, "assert(r >= 0);"); got != len(generator.Statements()) {
		t.Errorf("found %d asserts, want one per statement (%d)", got, len(generator.Statements()))
	}
}

func TestRenderCastThunk(t *testing.T) {
	cat := catalog.New()
	cat.AddObject(&catalog.ObjectType{Name: "Node"})
	cat.AddObject(&catalog.ObjectType{Name: "Sprite", Parents: []string{"Node"}})
	cat.Behaviours = []*catalog.Behaviour{{Kind: catalog.ImplicitCast, Owner: "Sprite", Target: "Node"}}
	generator := newGenerator(cat, stubClassifier{"Node": true, "Sprite": true}, config.Default())

	var out bytes.Buffer
	if err := generator.Render(&out); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := "static Node* Sprite_To_Node(Sprite* self)\n{\n\tNode* result = dynamic_cast<Node*>(self);\n\tif (result)\n\t\tresult->AddRef();\n\treturn result;\n}\n"
	if !strings.Contains(out.String(), want) {
		t.Errorf("cast thunk missing:\n%s", out.String())
	}
}

func TestRenderManifest(t *testing.T) {
	generator := newGenerator(sampleCatalog(), stubClassifier{"Mesh": true}, config.Default())

	var out bytes.Buffer
	if err := generator.RenderManifest("bindings", &out); err != nil {
		t.Fatalf("RenderManifest() error = %v", err)
	}
	manifest := out.String()
	for _, want := range []string{
		"package bindings",
		"type Registration struct",
		"var Registrations = []Registration{",
		`"RegisterGlobalFunction"`,
		`"float dot(Vec2, Vec2)"`,
		`var Thunks = []string{"Vec2_Construct", "Mesh_Factory"}`,
	} {
		if !strings.Contains(manifest, want) {
			t.Errorf("manifest is missing %q:\n%s", want, manifest)
		}
	}
}
