// Package metadata reads Windows metadata (.winmd) files and presents the
// requested methods and structs as an ast translation unit.
package metadata

import (
	"bufio"
	"debug/pe"
	"fmt"
	"io"
	"strings"

	"github.com/microsoft/go-winmd"
	"github.com/microsoft/go-winmd/flags"

	"asbindgen/internal/ast"
)

// The map of metadata element types to C types
var builtInElementTypes = map[flags.ElementType]ast.TypeKind{
	flags.ElementType_VOID:    ast.TypeVoid,
	flags.ElementType_BOOLEAN: ast.TypeBool,
	flags.ElementType_CHAR:    ast.TypeUShort,
	flags.ElementType_I1:      ast.TypeSChar,
	flags.ElementType_I2:      ast.TypeShort,
	flags.ElementType_I4:      ast.TypeInt,
	flags.ElementType_I8:      ast.TypeLongLong,
	flags.ElementType_U1:      ast.TypeUChar,
	flags.ElementType_U2:      ast.TypeUShort,
	flags.ElementType_U4:      ast.TypeUInt,
	flags.ElementType_U8:      ast.TypeULongLong,
	flags.ElementType_R4:      ast.TypeFloat,
	flags.ElementType_R8:      ast.TypeDouble,
}

// Native typedefs the metadata wraps in single-field structs.
var builtInTypeDefs = map[string]ast.TypeKind{
	"BOOL":    ast.TypeInt,
	"BOOLEAN": ast.TypeUChar,
	"HRESULT": ast.TypeInt,
	"WPARAM":  ast.TypeULongLong,
	"LPARAM":  ast.TypeLongLong,
}

type WinMdReader struct {
	metadata winmd.Metadata
	// records holds every struct converted so far, in first-reference order.
	records map[string]*ast.Node
	order   []*ast.Node
}

// NewReader opens the metadata file under given path.
func NewReader(winMdPath string) (*WinMdReader, error) {
	peFile, err := pe.Open(winMdPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", winMdPath, err)
	}
	defer peFile.Close()

	winmdMetadata, err := winmd.New(peFile)
	if err != nil {
		return nil, fmt.Errorf("reading metadata from %s: %w", winMdPath, err)
	}

	return &WinMdReader{metadata: *winmdMetadata, records: make(map[string]*ast.Node)}, nil
}

// ReadNames reads one method or type name per line. Blank lines and lines
// starting with '#' are ignored.
func ReadNames(input io.Reader) ([]string, error) {
	var names []string
	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}
		names = append(names, name)
	}
	return names, scanner.Err()
}

// Unit converts the named methods and structs into a translation unit.
// Functions are filed under the DLL that exports them and structs under
// their namespace. Structs reached through signatures are included even when
// not named. Names matching nothing become unit diagnostics.
func (reader *WinMdReader) Unit(names []string) (*ast.Unit, error) {
	unit := ast.NewUnit()
	var functions []*ast.Node
	for _, name := range names {
		if methodDef := reader.tryGetMethodDef(name); methodDef != nil {
			function, err := reader.getMethod(methodDef)
			if err != nil {
				unit.Messages = append(unit.Messages, fmt.Sprintf("method %s: %v", name, err))
				continue
			}
			functions = append(functions, function)
			continue
		}

		if typeDef := reader.tryGetTypeDef(name); typeDef != nil {
			if _, err := reader.getRecord(typeDef); err != nil {
				unit.Messages = append(unit.Messages, fmt.Sprintf("type %s: %v", name, err))
			}
			continue
		}

		unit.Messages = append(unit.Messages, fmt.Sprintf("%s was not found in the metadata", name))
	}

	unit.RootNode.Add(reader.order...)
	unit.RootNode.Add(functions...)
	return unit, nil
}

func (reader *WinMdReader) getType(sigType winmd.SigType) (*ast.TypeRef, error) {
	if kind, found := builtInElementTypes[sigType.Kind]; found {
		return ast.Builtin(kind), nil
	}

	switch sigType.Kind {
	case flags.ElementType_PTR:
		innerSigType, _ := sigType.Value.(winmd.SigType)
		innerType, err := reader.getType(innerSigType)
		if err != nil {
			return nil, err
		}
		return ast.Pointer(innerType), nil
	case flags.ElementType_ARRAY, flags.ElementType_SZARRAY:
		innerSigType, _ := sigType.Value.(winmd.SigType)
		innerType, err := reader.getType(innerSigType)
		if err != nil {
			return nil, err
		}
		return &ast.TypeRef{TypeKind: ast.TypeUnexposed, Name: innerType.Spelling() + "[]"}, nil
	case flags.ElementType_VALUETYPE, flags.ElementType_CLASS:
	default:
		return &ast.TypeRef{TypeKind: ast.TypeUnexposed, Name: fmt.Sprintf("element type %#x", uint8(sigType.Kind))}, nil
	}

	typeDef, err := reader.getTypeDef(sigType)
	if err != nil {
		return nil, fmt.Errorf("no matching type definition for type was found: %w", err)
	}

	if kind, found := builtInTypeDefs[typeDef.Name.String()]; found {
		return &ast.TypeRef{TypeKind: kind, Name: typeDef.Name.String()}, nil
	}

	record, err := reader.getRecord(typeDef)
	if err != nil {
		return nil, err
	}
	return ast.RecordOf(record), nil
}

// getRecord converts a struct once.
func (reader *WinMdReader) getRecord(typeDef *winmd.TypeDef) (*ast.Node, error) {
	name := typeDef.Name.String()
	return reader.cachedRecord(name, typeDef.Namespace.String(), func(record *ast.Node) error {
		for i := typeDef.FieldList.Start; i < typeDef.FieldList.End; i++ {
			field, err := reader.metadata.Tables.Field.Record(i)
			if err != nil {
				return fmt.Errorf("no matching field was found: %w", err)
			}
			property, err := reader.getProperty(field)
			if err != nil {
				return fmt.Errorf("struct %s: %w", name, err)
			}
			record.Add(property.In(record.Path))
		}
		return nil
	})
}

// cachedRecord returns the record called name, building it with fill on
// first use. The node is cached before fill runs so self-referencing structs
// terminate; a failed fill forgets it again.
func (reader *WinMdReader) cachedRecord(name string, namespace string, fill func(*ast.Node) error) (*ast.Node, error) {
	if record, found := reader.records[name]; found {
		return record, nil
	}

	record := ast.Struct(name).In(namespace)
	reader.records[name] = record
	if err := fill(record); err != nil {
		delete(reader.records, name)
		return nil, err
	}
	reader.order = append(reader.order, record)
	return record, nil
}

func (reader *WinMdReader) getProperty(field *winmd.Field) (*ast.Node, error) {
	fieldSignature, err := reader.metadata.FieldSignature(field.Signature)
	if err != nil {
		return nil, fmt.Errorf("no matching field signature for field '%s' was found: %w", field.Name.String(), err)
	}
	propertyType, err := reader.getType(fieldSignature.Type)
	if err != nil {
		return nil, fmt.Errorf("could not determine type of field '%s': %w", field.Name.String(), err)
	}

	return ast.Field(field.Name.String(), propertyType), nil
}

func (reader *WinMdReader) getTypeDef(sigType winmd.SigType) (*winmd.TypeDef, error) {
	sigTypeIndex, ok := sigType.Value.(winmd.CodedIndex)
	if !ok {
		return nil, fmt.Errorf("type signature carries no type reference")
	}
	retTypeRef, err := reader.metadata.Tables.TypeRef.Record(sigTypeIndex.Index)
	if err != nil {
		return nil, fmt.Errorf("did not find matching type reference: %w", err)
	}

	typeDef := findElementInTable(reader.metadata.Tables.TypeDef, func(typeDef *winmd.TypeDef) bool {
		return typeDef.Name.String() == retTypeRef.Name.String() && typeDef.Namespace.String() == retTypeRef.Namespace.String()
	})
	if typeDef == nil {
		return nil, fmt.Errorf("did not find type definition of %s.%s", retTypeRef.Namespace.String(), retTypeRef.Name.String())
	}

	return typeDef, nil
}

func (reader *WinMdReader) tryGetTypeDef(name string) *winmd.TypeDef {
	return findElementInTable(reader.metadata.Tables.TypeDef, func(typeDef *winmd.TypeDef) bool {
		return typeDef.Name.String() == name
	})
}

// Gets the name of the *.dll file that implements given member.
func (reader *WinMdReader) getImportingDll(memberName string) (string, error) {
	implMap := findElementInTable(reader.metadata.Tables.ImplMap, func(implMap *winmd.ImplMap) bool {
		return implMap.ImportName.String() == memberName
	})
	if implMap == nil {
		return "", fmt.Errorf("%s is not imported from any module", memberName)
	}
	dllImport, err := reader.metadata.Tables.ModuleRef.Record(implMap.ImportScope)
	if err != nil {
		return "", err
	}
	return dllImport.Name.String(), nil
}

func (reader *WinMdReader) getMethod(methodDef *winmd.MethodDef) (*ast.Node, error) {
	methodSignature, err := reader.metadata.MethodDefSignature(methodDef.Signature)
	if err != nil {
		return nil, err
	}

	returnType, err := reader.getType(methodSignature.RetType.Type)
	if err != nil {
		return nil, fmt.Errorf("return type: %w", err)
	}

	dllName, err := reader.getImportingDll(methodDef.Name.String())
	if err != nil {
		return nil, err
	}
	function := ast.Function(methodDef.Name.String(), returnType)

	// The first row of the param list describes the return value.
	var paramNames []string
	for idx := methodDef.ParamList.Start + 1; idx < methodDef.ParamList.End; idx++ {
		param, err := reader.metadata.Tables.Param.Record(idx)
		if err != nil {
			return nil, err
		}
		paramNames = append(paramNames, param.Name.String())
	}

	for i, methodParam := range methodSignature.Param {
		paramType, err := reader.getType(methodParam.Type)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i, err)
		}
		function.Add(ast.Param(paramName(paramNames, i), paramType))
	}

	return function.In(dllName), nil
}

func paramName(names []string, i int) string {
	if i < len(names) {
		return names[i]
	}
	return fmt.Sprintf("p%d", i)
}

func (reader *WinMdReader) tryGetMethodDef(name string) *winmd.MethodDef {
	return findElementInTable(
		reader.metadata.Tables.MethodDef,
		func(methodDef *winmd.MethodDef) bool { return methodDef.Name.String() == name })
}

// Finds element in given table and returns it. If element is not found then `nil` is returned.
func findElementInTable[T any, TP winmd.Record[T]](table winmd.Table[T, TP], match func(TP) bool) TP {
	for idx := uint32(0); idx < table.Len; idx++ {
		element, err := table.Record(winmd.Index(idx))
		if err != nil {
			// Record fails only for indices past the end of the table.
			break
		}
		if match(element) {
			return element
		}
	}
	return nil
}
