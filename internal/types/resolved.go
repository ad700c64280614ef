// Package types canonicalizes frontend type handles into Resolved
// descriptors the rest of the generator can compare and classify.
package types

import (
	"strconv"
	"strings"
)

// Resolved is a canonical type descriptor. Name is never a typedef alias.
type Resolved struct {
	Name      string
	Pointer   bool
	Reference bool
	Const     bool
	// ArrayLen is set for constant arrays of Name.
	ArrayLen int64
}

// IsBuiltin reports whether Name is one of the engine's primitive types.
func (resolved Resolved) IsBuiltin() bool {
	return IsBuiltinName(resolved.Name)
}

// IsVoid reports a plain void.
func (resolved Resolved) IsVoid() bool {
	return resolved.Name == Void && !resolved.Pointer && !resolved.Reference
}

// ByValue reports an occurrence that is neither a pointer nor a reference.
func (resolved Resolved) ByValue() bool {
	return !resolved.Pointer && !resolved.Reference
}

// String renders the descriptor in C-like form, e.g. "const Foo*".
func (resolved Resolved) String() string {
	var builder strings.Builder
	if resolved.Const {
		builder.WriteString("const ")
	}
	builder.WriteString(resolved.Name)
	switch {
	case resolved.Pointer:
		builder.WriteString("*")
	case resolved.Reference:
		builder.WriteString("&")
	}
	if resolved.ArrayLen > 0 {
		builder.WriteString("[")
		builder.WriteString(strconv.FormatInt(resolved.ArrayLen, 10))
		builder.WriteString("]")
	}
	return builder.String()
}
