package inherit

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"asbindgen/internal/catalog"
	"asbindgen/internal/diag"
	"asbindgen/internal/types"
)

func method(owner string, name string, result string) *catalog.Function {
	return &catalog.Function{Name: name, ScriptName: name, Owner: owner, Return: types.Resolved{Name: result}}
}

func TestFlattenCopiesWithoutAliasing(t *testing.T) {
	cat := catalog.New()
	base := &catalog.ObjectType{Name: "Base", Methods: []*catalog.Function{method("Base", "get", types.Int32)}}
	derived := &catalog.ObjectType{Name: "Derived", Parents: []string{"Base"}}
	cat.AddObject(base)
	cat.AddObject(derived)

	Flatten(cat, diag.Discard())

	if len(derived.Methods) != 1 {
		t.Fatalf("Derived has %d methods, want 1", len(derived.Methods))
	}
	got := derived.Methods[0]
	if got.Owner != "Derived" || got.Signature() != "int Derived::get()" {
		t.Errorf("inherited method = %q owned by %s", got.Signature(), got.Owner)
	}
	if len(base.Methods) != 1 || base.Methods[0].Owner != "Base" {
		t.Errorf("Base methods changed: %v", base.Methods)
	}
	if got == base.Methods[0] {
		t.Error("Derived aliases Base's method")
	}

	got.Name = "renamed"
	if base.Methods[0].Name != "get" {
		t.Error("mutating the copy changed the parent")
	}
}

func TestFlattenChainsAndOverrides(t *testing.T) {
	cat := catalog.New()
	root := &catalog.ObjectType{
		Name:    "Root",
		Methods: []*catalog.Function{method("Root", "id", types.Int32), method("Root", "name", types.Int32)},
		Fields:  []*catalog.Field{{Name: "flags", Owner: "Root", Type: types.Resolved{Name: types.UInt32}}},
	}
	middle := &catalog.ObjectType{
		Name:    "Middle",
		Parents: []string{"Root"},
		Methods: []*catalog.Function{method("Middle", "name", types.Int32)},
	}
	leaf := &catalog.ObjectType{Name: "Leaf", Parents: []string{"Middle"}}
	cat.AddObject(root)
	cat.AddObject(middle)
	cat.AddObject(leaf)

	Flatten(cat, diag.Discard())

	var signatures []string
	for _, method := range leaf.Methods {
		signatures = append(signatures, method.Signature())
	}
	want := []string{"int Leaf::name()", "int Leaf::id()"}
	if diff := cmp.Diff(want, signatures); diff != "" {
		t.Errorf("Leaf methods mismatch (-want +got):\n%s", diff)
	}
	if len(leaf.Fields) != 1 || leaf.Fields[0].Signature() != "uint Leaf::flags" {
		t.Errorf("Leaf fields = %v, want [uint Leaf::flags]", leaf.Fields)
	}
	if len(middle.Methods) != 2 {
		t.Errorf("Middle has %d methods, want its own name() plus id()", len(middle.Methods))
	}

	var declarers []string
	for _, method := range leaf.Methods {
		declarers = append(declarers, method.DeclaringClass())
	}
	if diff := cmp.Diff([]string{"Middle", "Root"}, declarers); diff != "" {
		t.Errorf("Leaf method declarers mismatch (-want +got):\n%s", diff)
	}
}

type stubClassifier map[string]bool

func (classifier stubClassifier) IsReference(name string) bool { return classifier[name] }

func TestSynthesizeCasts(t *testing.T) {
	cat := catalog.New()
	cat.AddObject(&catalog.ObjectType{Name: "Node"})
	cat.AddObject(&catalog.ObjectType{Name: "Color"})
	cat.AddObject(&catalog.ObjectType{Name: "Sprite", Parents: []string{"Node", "Color"}})
	cat.AddObject(&catalog.ObjectType{Name: "Tint", Parents: []string{"Color"}})

	log := diag.Discard()
	SynthesizeCasts(cat, stubClassifier{"Node": true, "Sprite": true}, log)

	var casts []string
	for _, behaviour := range cat.Behaviours {
		casts = append(casts, behaviour.Signature())
	}
	want := []string{
		"implicit_ref_cast Sprite -> Node",
		"ref_cast Node -> Sprite",
	}
	if diff := cmp.Diff(want, casts); diff != "" {
		t.Errorf("casts mismatch (-want +got):\n%s", diff)
	}
	if len(log.Skips()) != 1 {
		t.Errorf("recorded %d skips, want 1 for the value parent", len(log.Skips()))
	}
}
