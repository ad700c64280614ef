package metadata

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/microsoft/go-winmd/flags"

	"asbindgen/internal/ast"
	"asbindgen/internal/types"
)

func TestReadNames(t *testing.T) {
	input := "MessageBoxW\n\n# structs\n  RECT  \nPOINT\n"
	got, err := ReadNames(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"MessageBoxW", "RECT", "POINT"}, got); diff != "" {
		t.Errorf("ReadNames() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuiltinElementTypesResolve(t *testing.T) {
	tests := []struct {
		element flags.ElementType
		want    string
	}{
		{flags.ElementType_BOOLEAN, types.Bool},
		{flags.ElementType_I4, types.Int32},
		{flags.ElementType_U8, types.UInt64},
		{flags.ElementType_R4, types.Float},
		{flags.ElementType_R8, types.Double},
	}
	resolver := types.NewResolver()
	for _, tt := range tests {
		resolved, err := resolver.Resolve(ast.Builtin(builtInElementTypes[tt.element]))
		if err != nil {
			t.Errorf("element %v: %v", tt.element, err)
			continue
		}
		if resolved.Name != tt.want {
			t.Errorf("element %v resolved to %s, want %s", tt.element, resolved.Name, tt.want)
		}
	}
}

func TestNativeTypedefsKeepTheirSpelling(t *testing.T) {
	ref := &ast.TypeRef{TypeKind: builtInTypeDefs["BOOL"], Name: "BOOL"}
	resolved, err := types.NewResolver().Resolve(ref)
	if err != nil {
		t.Fatal(err)
	}
	if resolved.Name != types.Int32 || ref.Spelling() != "BOOL" {
		t.Errorf("BOOL = %s spelled %s, want %s spelled BOOL", resolved.Name, ref.Spelling(), types.Int32)
	}
}

func TestParamName(t *testing.T) {
	names := []string{"hWnd", "lpText"}
	if got := paramName(names, 1); got != "lpText" {
		t.Errorf("paramName(1) = %s", got)
	}
	if got := paramName(names, 3); got != "p3" {
		t.Errorf("paramName(3) = %s", got)
	}
}

func TestCachedRecordForgetsFailedStructs(t *testing.T) {
	reader := &WinMdReader{records: make(map[string]*ast.Node)}
	failure := errors.New("field signature unreadable")

	if _, err := reader.cachedRecord("RECT", "Windows.Win32.Foundation", func(*ast.Node) error { return failure }); !errors.Is(err, failure) {
		t.Fatalf("cachedRecord() error = %v, want %v", err, failure)
	}
	if _, found := reader.records["RECT"]; found {
		t.Error("failed record is still cached")
	}

	calls := 0
	fill := func(record *ast.Node) error {
		calls++
		record.Add(ast.Field("left", ast.Builtin(ast.TypeInt)))
		return nil
	}
	first, err := reader.cachedRecord("RECT", "Windows.Win32.Foundation", fill)
	if err != nil {
		t.Fatal(err)
	}
	second, err := reader.cachedRecord("RECT", "Windows.Win32.Foundation", fill)
	if err != nil {
		t.Fatal(err)
	}
	if first != second || calls != 1 {
		t.Errorf("record built %d times, want once and shared", calls)
	}
	if len(reader.order) != 1 || reader.order[0] != first || first.Path != "Windows.Win32.Foundation" {
		t.Errorf("order = %v, want the rebuilt RECT once", reader.order)
	}
}
