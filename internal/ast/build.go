package ast

// Builtin returns a builtin type of the given kind.
func Builtin(kind TypeKind) *TypeRef {
	return &TypeRef{TypeKind: kind}
}

// Pointer returns a pointer to inner.
func Pointer(inner *TypeRef) *TypeRef {
	return &TypeRef{TypeKind: TypePointer, Inner: inner}
}

// Reference returns an lvalue reference to inner.
func Reference(inner *TypeRef) *TypeRef {
	return &TypeRef{TypeKind: TypeLValueReference, Inner: inner}
}

// Const returns a const-qualified copy of ref.
func Const(ref *TypeRef) *TypeRef {
	qualified := *ref
	qualified.Const = true
	return &qualified
}

// Array returns a constant array of size elements.
func Array(element *TypeRef, size int64) *TypeRef {
	return &TypeRef{TypeKind: TypeConstantArray, Inner: element, Size: size}
}

// RecordOf returns the record type declared by decl.
func RecordOf(decl *Node) *TypeRef {
	return &TypeRef{TypeKind: TypeRecord, Decl: decl}
}

// EnumOf returns the enum type declared by decl.
func EnumOf(decl *Node) *TypeRef {
	return &TypeRef{TypeKind: TypeEnum, Decl: decl}
}

// TypedefOf returns the alias type declared by decl.
func TypedefOf(decl *Node) *TypeRef {
	return &TypeRef{TypeKind: TypeTypedef, Decl: decl}
}

// Struct declares a struct. Its members are appended with Add.
func Struct(name string, members ...*Node) *Node {
	return &Node{NodeKind: KindStruct, Name: name, Nodes: members}
}

// Class declares a class. Members default to private until an access
// specifier says otherwise.
func Class(name string, members ...*Node) *Node {
	return &Node{NodeKind: KindClass, Name: name, Nodes: members}
}

// Typedef declares name as an alias of underlying.
func Typedef(name string, underlying *TypeRef) *Node {
	return &Node{NodeKind: KindTypedef, Name: name, Underlying: underlying}
}

// Function declares a free function.
func Function(name string, result *TypeRef, params ...*Node) *Node {
	return &Node{NodeKind: KindFunction, Name: name, Result: result, Nodes: params}
}

// Method declares a member function.
func Method(name string, result *TypeRef, params ...*Node) *Node {
	return &Node{NodeKind: KindMethod, Name: name, Result: result, Nodes: params}
}

// Constructor declares a constructor of owner.
func Constructor(owner string, params ...*Node) *Node {
	return &Node{NodeKind: KindConstructor, Name: owner, Result: Builtin(TypeVoid), Nodes: params}
}

// Destructor declares the destructor of owner.
func Destructor(owner string) *Node {
	return &Node{NodeKind: KindDestructor, Name: "~" + owner, Result: Builtin(TypeVoid)}
}

// Param declares a parameter.
func Param(name string, ref *TypeRef) *Node {
	return &Node{NodeKind: KindParam, Name: name, Typ: ref}
}

// Field declares a data member.
func Field(name string, ref *TypeRef) *Node {
	return &Node{NodeKind: KindField, Name: name, Typ: ref}
}

// Base declares a base-class specifier.
func Base(access Access, parent *Node) *Node {
	return &Node{NodeKind: KindBaseSpecifier, Name: parent.Name, Typ: RecordOf(parent), AccessLevel: access}
}

// Label declares an access specifier.
func Label(access Access) *Node {
	return &Node{NodeKind: KindAccessSpecifier, AccessLevel: access}
}

// Macro declares an object-like macro from its tokens.
func Macro(name string, tokens ...Token) *Node {
	return &Node{NodeKind: KindMacro, Name: name, TokenList: tokens}
}

// Enum declares an enum with its constants.
func Enum(name string, constants ...*Node) *Node {
	return &Node{NodeKind: KindEnum, Name: name, Nodes: constants}
}

// EnumConstant declares one enumerator.
func EnumConstant(name string, value int64) *Node {
	return &Node{NodeKind: KindEnumConstant, Name: name, ConstantValue: value}
}

// Namespace declares a namespace.
func Namespace(name string, declarations ...*Node) *Node {
	return &Node{NodeKind: KindNamespace, Name: name, Nodes: declarations}
}
