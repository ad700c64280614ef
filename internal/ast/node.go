package ast

// Node is an in-memory Cursor. The metadata frontend builds its trees out of
// Nodes, and tests use them to describe headers without libclang.
type Node struct {
	NodeKind      CursorKind
	Name          string
	Display       string
	Typ           *TypeRef
	Result        *TypeRef
	Underlying    *TypeRef
	Path          string
	Nodes         []*Node
	AccessLevel   Access
	Static        bool
	ConstMethod   bool
	TokenList     []Token
	ConstantValue int64
}

func (node *Node) Kind() CursorKind { return node.NodeKind }
func (node *Node) Spelling() string { return node.Name }
func (node *Node) File() string { return node.Path }
func (node *Node) Access() Access { return node.AccessLevel }
func (node *Node) IsStatic() bool { return node.Static }
func (node *Node) IsConst() bool { return node.ConstMethod }
func (node *Node) Tokens() []Token { return node.TokenList }
func (node *Node) EnumValue() int64 { return node.ConstantValue }

func (node *Node) DisplayName() string {
	if node.Display != "" {
		return node.Display
	}
	return node.Name
}

func (node *Node) Type() Type { return typeOrNil(node.Typ) }
func (node *Node) ResultType() Type { return typeOrNil(node.Result) }
func (node *Node) UnderlyingType() Type { return typeOrNil(node.Underlying) }

func (node *Node) Children() []Cursor {
	children := make([]Cursor, len(node.Nodes))
	for i, child := range node.Nodes {
		children[i] = child
	}
	return children
}

// Add appends children and returns the node.
func (node *Node) Add(children ...*Node) *Node {
	node.Nodes = append(node.Nodes, children...)
	return node
}

// In sets the file of the node and all of its descendants that have none.
func (node *Node) In(path string) *Node {
	if node.Path == "" {
		node.Path = path
	}
	for _, child := range node.Nodes {
		child.In(path)
	}
	return node
}

// TypeRef is an in-memory Type.
type TypeRef struct {
	TypeKind TypeKind
	Name     string
	Const    bool
	Inner    *TypeRef
	Size     int64
	Decl     *Node
}

// typeOrNil keeps a nil *TypeRef from turning into a non-nil Type interface.
func typeOrNil(ref *TypeRef) Type {
	if ref == nil {
		return nil
	}
	return ref
}

func (ref *TypeRef) Kind() TypeKind { return ref.TypeKind }
func (ref *TypeRef) IsConst() bool { return ref.Const }
func (ref *TypeRef) ArraySize() int64 { return ref.Size }
func (ref *TypeRef) Pointee() Type { return typeOrNil(ref.Inner) }
func (ref *TypeRef) Element() Type { return typeOrNil(ref.Inner) }

func (ref *TypeRef) Declaration() Cursor {
	if ref.Decl == nil {
		return nil
	}
	return ref.Decl
}

func (ref *TypeRef) Spelling() string {
	prefix := ""
	if ref.Const {
		prefix = "const "
	}
	switch ref.TypeKind {
	case TypePointer:
		return ref.Inner.Spelling() + " *" + constSuffix(ref.Const)
	case TypeLValueReference:
		return ref.Inner.Spelling() + " &"
	case TypeRValueReference:
		return ref.Inner.Spelling() + " &&"
	}
	if ref.Name != "" {
		return prefix + ref.Name
	}
	if ref.Decl != nil {
		return prefix + ref.Decl.Name
	}
	return prefix + builtinSpellings[ref.TypeKind]
}

func constSuffix(isConst bool) string {
	if isConst {
		return "const"
	}
	return ""
}

var builtinSpellings = map[TypeKind]string{
	TypeVoid:       "void",
	TypeBool:       "bool",
	TypeChar:       "char",
	TypeSChar:      "signed char",
	TypeUChar:      "unsigned char",
	TypeShort:      "short",
	TypeUShort:     "unsigned short",
	TypeInt:        "int",
	TypeUInt:       "unsigned int",
	TypeLong:       "long",
	TypeULong:      "unsigned long",
	TypeLongLong:   "long long",
	TypeULongLong:  "unsigned long long",
	TypeFloat:      "float",
	TypeDouble:     "double",
	TypeLongDouble: "long double",
}

// Unit is an in-memory TranslationUnit.
type Unit struct {
	RootNode *Node
	Messages []string
}

func (unit *Unit) Root() Cursor { return unit.RootNode }
func (unit *Unit) Diagnostics() []string { return unit.Messages }

// NewUnit wraps top-level declarations into a translation unit.
func NewUnit(declarations ...*Node) *Unit {
	return &Unit{RootNode: &Node{NodeKind: KindTranslationUnit, Nodes: declarations}}
}
