package types

import (
	"errors"
	"testing"

	"asbindgen/internal/ast"
)

func TestResolveBuiltins(t *testing.T) {
	tests := []struct {
		kind ast.TypeKind
		want string
	}{
		{ast.TypeVoid, "void"},
		{ast.TypeBool, "bool"},
		{ast.TypeChar, "int8"},
		{ast.TypeUChar, "uint8"},
		{ast.TypeShort, "int16"},
		{ast.TypeUInt, "uint"},
		{ast.TypeULong, "uint64"},
		{ast.TypeLongLong, "int64"},
		{ast.TypeFloat, "float"},
		{ast.TypeDouble, "double"},
	}

	resolver := NewResolver()
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := resolver.Resolve(ast.Builtin(tt.kind))
			if err != nil {
				t.Fatalf("Resolve(%v) error = %v", tt.kind, err)
			}
			if got.Name != tt.want {
				t.Errorf("Resolve(%v).Name = %q, want %q", tt.kind, got.Name, tt.want)
			}
		})
	}
}

func TestResolveLongDoubleFails(t *testing.T) {
	_, err := NewResolver().Resolve(ast.Builtin(ast.TypeLongDouble))
	var unresolvedErr *UnresolvedTypeError
	if !errors.As(err, &unresolvedErr) {
		t.Fatalf("Resolve(long double) error = %v, want UnresolvedTypeError", err)
	}
}

func TestTypedefChainKeepsOccurrenceQualifiers(t *testing.T) {
	// typedef unsigned long C; typedef C B; typedef B A;
	cDecl := ast.Typedef("C", ast.Builtin(ast.TypeULong))
	bDecl := ast.Typedef("B", ast.TypedefOf(cDecl))
	aDecl := ast.Typedef("A", ast.Const(ast.TypedefOf(bDecl)))

	resolver := NewResolver()
	resolver.AddTypedef("C", "unsigned long")
	resolver.AddTypedef("B", "C")
	resolver.AddTypedef("A", "B")

	tests := []struct {
		name string
		typ  *ast.TypeRef
		want Resolved
	}{
		{"plain", ast.TypedefOf(aDecl), Resolved{Name: "uint64"}},
		{"pointer", ast.Pointer(ast.TypedefOf(aDecl)), Resolved{Name: "uint64", Pointer: true}},
		{"const reference", ast.Reference(ast.Const(ast.TypedefOf(aDecl))), Resolved{Name: "uint64", Reference: true, Const: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolver.Resolve(tt.typ)
			if err != nil {
				t.Fatalf("Resolve error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestUnwindDetectsCycle(t *testing.T) {
	resolver := NewResolver()
	resolver.AddTypedef("A", "B")
	resolver.AddTypedef("B", "A")

	_, err := resolver.Unwind("A")
	if !errors.Is(err, ErrTypedefCycle) {
		t.Fatalf("Unwind(A) error = %v, want ErrTypedefCycle", err)
	}
}

func TestSelfTypedefIsIgnored(t *testing.T) {
	resolver := NewResolver()
	resolver.AddTypedef("Vec2", "Vec2")

	got, err := resolver.Unwind("Vec2")
	if err != nil || got != "Vec2" {
		t.Fatalf("Unwind(Vec2) = %q, %v", got, err)
	}
}

func TestSynonymsWinOverHeaderAliases(t *testing.T) {
	// uint32_t is normalized even if the header aliases it to something odd.
	resolver := NewResolver()
	resolver.AddTypedef("uint32_t", "__uint32_t")
	decl := ast.Typedef("uint32_t", nil)

	got, err := resolver.Resolve(ast.TypedefOf(decl))
	if err != nil {
		t.Fatalf("Resolve error = %v", err)
	}
	if got.Name != "uint" {
		t.Errorf("Resolve(uint32_t).Name = %q, want uint", got.Name)
	}
}

func TestResolveRecords(t *testing.T) {
	foo := ast.Struct("Foo")
	anonymous := ast.Struct("(anonymous struct at foo.h:3:1)")
	resolver := NewResolver()

	got, err := resolver.Resolve(ast.Pointer(ast.Const(ast.RecordOf(foo))))
	if err != nil {
		t.Fatalf("Resolve(const Foo*) error = %v", err)
	}
	if want := (Resolved{Name: "Foo", Pointer: true, Const: true}); got != want {
		t.Errorf("Resolve(const Foo*) = %+v, want %+v", got, want)
	}

	if _, err := resolver.Resolve(ast.RecordOf(anonymous)); err == nil {
		t.Error("Resolve(anonymous struct) succeeded, want error")
	}
	if _, err := resolver.Resolve(&ast.TypeRef{TypeKind: ast.TypeRecord}); err == nil {
		t.Error("Resolve(record without declaration) succeeded, want error")
	}
}

func TestResolveIndirections(t *testing.T) {
	foo := ast.Struct("Foo")
	resolver := NewResolver()

	if _, err := resolver.Resolve(ast.Pointer(ast.Pointer(ast.RecordOf(foo)))); err == nil {
		t.Error("Resolve(Foo**) succeeded, want error")
	}
	if _, err := resolver.Resolve(ast.Pointer(&ast.TypeRef{TypeKind: ast.TypeFunctionProto})); err == nil {
		t.Error("Resolve(function pointer) succeeded, want error")
	}
}

func TestResolveArrays(t *testing.T) {
	resolver := NewResolver()

	got, err := resolver.Resolve(ast.Array(ast.Builtin(ast.TypeFloat), 4))
	if err != nil {
		t.Fatalf("Resolve(float[4]) error = %v", err)
	}
	if got.Name != "float" || got.ArrayLen != 4 {
		t.Errorf("Resolve(float[4]) = %+v", got)
	}
	if got.String() != "float[4]" {
		t.Errorf("String() = %q, want float[4]", got.String())
	}

	_, err = resolver.Resolve(ast.Array(&ast.TypeRef{TypeKind: ast.TypeRecord}, 2))
	var unresolvedErr *UnresolvedTypeError
	if !errors.As(err, &unresolvedErr) {
		t.Fatalf("Resolve(array of unresolved) error = %v, want UnresolvedTypeError", err)
	}
}
