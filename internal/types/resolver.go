package types

import (
	"errors"
	"fmt"
	"strings"

	"asbindgen/internal/ast"
)

// ErrTypedefCycle is returned when unwinding an alias revisits itself.
var ErrTypedefCycle = errors.New("typedef cycle")

// UnresolvedTypeError reports a type the resolver cannot map to a
// declaration or a builtin.
type UnresolvedTypeError struct {
	Spelling string
	Reason   string
}

func (err *UnresolvedTypeError) Error() string {
	return fmt.Sprintf("unresolved type '%s': %s", err.Spelling, err.Reason)
}

func unresolved(typ ast.Type, reason string) error {
	spelling := "<nil>"
	if typ != nil {
		spelling = typ.Spelling()
	}
	return &UnresolvedTypeError{Spelling: spelling, Reason: reason}
}

// Resolver turns frontend types into Resolved descriptors. It owns the
// typedef table of one generation run.
type Resolver struct {
	typedefs map[string]string
}

func NewResolver() *Resolver {
	return &Resolver{typedefs: make(map[string]string)}
}

// AddTypedef records alias as a name for target. Target may itself be an
// alias; it is unwound lazily. The C idiom "typedef struct Foo Foo" is not
// an alias.
func (resolver *Resolver) AddTypedef(alias string, target string) {
	if alias == target {
		return
	}
	resolver.typedefs[alias] = target
}

// HasTypedef reports whether alias is known.
func (resolver *Resolver) HasTypedef(alias string) bool {
	_, found := resolver.typedefs[alias]
	return found
}

// Unwind follows the typedef table from name until it reaches a name that is
// not an alias, normalizing builtin synonyms on the way.
func (resolver *Resolver) Unwind(name string) (string, error) {
	seen := make(map[string]bool)
	for {
		if synonym, found := builtInSynonyms[name]; found {
			return synonym, nil
		}
		target, found := resolver.typedefs[name]
		if !found {
			return name, nil
		}
		if seen[name] {
			return "", fmt.Errorf("%w through '%s'", ErrTypedefCycle, name)
		}
		seen[name] = true
		name = target
	}
}

// Resolve canonicalizes typ. Qualifiers come from typ itself, never from
// the aliases it passes through.
func (resolver *Resolver) Resolve(typ ast.Type) (Resolved, error) {
	if typ == nil {
		return Resolved{}, unresolved(typ, "no type information")
	}

	switch typ.Kind() {
	case ast.TypePointer, ast.TypeLValueReference:
		inner := typ.Pointee()
		if inner == nil {
			return Resolved{}, unresolved(typ, "no pointee")
		}
		switch inner.Kind() {
		case ast.TypePointer, ast.TypeLValueReference, ast.TypeRValueReference:
			return Resolved{}, unresolved(typ, "indirection of more than one level")
		case ast.TypeFunctionProto:
			return Resolved{}, unresolved(typ, "function pointer")
		}
		name, err := resolver.resolveName(inner)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{
			Name:      name,
			Pointer:   typ.Kind() == ast.TypePointer,
			Reference: typ.Kind() == ast.TypeLValueReference,
			Const:     inner.IsConst(),
		}, nil

	case ast.TypeConstantArray:
		element := typ.Element()
		if element == nil {
			return Resolved{}, unresolved(typ, "array without element type")
		}
		resolved, err := resolver.Resolve(element)
		if err != nil {
			return Resolved{}, unresolved(typ, fmt.Sprintf("array element: %v", err))
		}
		if resolved.Pointer || resolved.Reference || resolved.ArrayLen > 0 {
			return Resolved{}, unresolved(typ, "array of indirections")
		}
		resolved.ArrayLen = typ.ArraySize()
		if resolved.ArrayLen <= 0 {
			resolved.ArrayLen = 1
		}
		return resolved, nil
	}

	name, err := resolver.resolveName(typ)
	if err != nil {
		return Resolved{}, err
	}
	return Resolved{Name: name, Const: typ.IsConst()}, nil
}

// resolveName maps a non-indirect type to its canonical name.
func (resolver *Resolver) resolveName(typ ast.Type) (string, error) {
	kind := typ.Kind()
	if builtInType, found := builtInKinds[kind]; found {
		return builtInType, nil
	}

	switch kind {
	case ast.TypeRecord, ast.TypeEnum:
		decl := typ.Declaration()
		if decl == nil || !UsableName(decl.Spelling()) {
			return "", unresolved(typ, "no declaration")
		}
		return resolver.Unwind(decl.Spelling())

	case ast.TypeTypedef:
		name := ""
		if decl := typ.Declaration(); decl != nil {
			name = decl.Spelling()
		}
		if name == "" {
			name = strings.TrimPrefix(typ.Spelling(), "const ")
		}
		if !resolver.HasTypedef(name) && !IsSynonym(name) {
			return "", unresolved(typ, "alias of an unsupported type")
		}
		return resolver.Unwind(name)
	}

	return "", unresolved(typ, "unsupported type kind")
}

// UsableName rejects the placeholder spellings frontends give anonymous
// records.
func UsableName(name string) bool {
	return name != "" && !strings.Contains(name, "(anonymous") && !strings.Contains(name, "(unnamed")
}
