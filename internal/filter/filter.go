// Package filter runs the post-collection stages of the filter pipeline over
// a catalog. The path and signature stages run earlier, inside the catalog,
// while each declaration is constructed.
package filter

import (
	"github.com/samber/lo"

	"asbindgen/internal/catalog"
	"asbindgen/internal/config"
	"asbindgen/internal/diag"
	"asbindgen/internal/types"
)

// Classifier is the part of catalog.Classifier the filters need.
type Classifier interface {
	Classify(name string) catalog.Kind
}

// declaration is what every stage needs to know about a function, method,
// field or behaviour.
type declaration interface {
	Signature() string
	Types() []types.Resolved
}

type fieldDeclaration struct{ *catalog.Field }

func (field fieldDeclaration) Types() []types.Resolved { return []types.Resolved{field.Type} }

// A check returns why a declaration must go, or "" to keep it.
type check func(declaration) string

// Run applies, in order: the reference/value mismatch filter, the unknown
// type filter (unless KeepUnknowns), the duplicate filter and the reference
// type destructor filter. Every removal is logged as a skip.
func Run(cat *catalog.Catalog, classifier Classifier, options *config.Options, log *diag.Log) {
	apply(cat, mismatch(cat, classifier), log)
	if !options.KeepUnknowns {
		apply(cat, unknown(cat), log)
	}
	duplicates(cat, log)
	refDestructors(cat, classifier, log)
}

func apply(cat *catalog.Catalog, check check, log *diag.Log) {
	keep := func(item declaration) bool {
		reason := check(item)
		if reason != "" {
			log.Skip(item.Signature(), reason)
		}
		return reason == ""
	}

	cat.Functions = lo.Filter(cat.Functions, func(function *catalog.Function, _ int) bool { return keep(function) })
	cat.Behaviours = lo.Filter(cat.Behaviours, func(behaviour *catalog.Behaviour, _ int) bool { return keep(behaviour) })
	for _, object := range cat.Objects {
		object.Methods = lo.Filter(object.Methods, func(method *catalog.Function, _ int) bool { return keep(method) })
		object.Fields = lo.Filter(object.Fields, func(field *catalog.Field, _ int) bool { return keep(fieldDeclaration{field}) })
	}
}

// mismatch drops declarations using an object type in the form its final
// classification disfavours: a value type by pointer, a reference type by
// value. References are accepted for both.
func mismatch(cat *catalog.Catalog, classifier Classifier) check {
	return func(item declaration) string {
		for _, typ := range item.Types() {
			if typ.IsBuiltin() || typ.Reference || cat.Object(typ.Name) == nil {
				continue
			}
			switch classifier.Classify(typ.Name) {
			case catalog.Value:
				if typ.Pointer {
					return typ.Name + " is a value type used by pointer"
				}
			case catalog.Reference:
				if !typ.Pointer {
					return typ.Name + " is a reference type used by value"
				}
			}
		}
		return ""
	}
}

// unknown drops declarations naming a type this run does not register.
func unknown(cat *catalog.Catalog) check {
	return func(item declaration) string {
		for _, typ := range item.Types() {
			if !cat.IsKnown(typ.Name) {
				return "unknown type " + typ.Name
			}
		}
		return ""
	}
}

// duplicates keeps the first declaration of every pretty-printed signature.
func duplicates(cat *catalog.Catalog, log *diag.Log) {
	seen := make(map[string]bool)
	first := func(item declaration) bool {
		signature := item.Signature()
		if seen[signature] {
			log.Skip(signature, "duplicate signature")
			return false
		}
		seen[signature] = true
		return true
	}

	cat.Functions = lo.Filter(cat.Functions, func(function *catalog.Function, _ int) bool { return first(function) })
	cat.Behaviours = lo.Filter(cat.Behaviours, func(behaviour *catalog.Behaviour, _ int) bool { return first(behaviour) })
	for _, object := range cat.Objects {
		object.Methods = lo.Filter(object.Methods, func(method *catalog.Function, _ int) bool { return first(method) })
		object.Fields = lo.Filter(object.Fields, func(field *catalog.Field, _ int) bool { return first(fieldDeclaration{field}) })
	}
}

// refDestructors drops destructors of reference types; their lifetime is
// managed by the addref and release behaviours.
func refDestructors(cat *catalog.Catalog, classifier Classifier, log *diag.Log) {
	cat.Behaviours = lo.Reject(cat.Behaviours, func(behaviour *catalog.Behaviour, _ int) bool {
		drop := behaviour.Kind == catalog.Destruct && classifier.Classify(behaviour.Owner) == catalog.Reference
		if drop {
			log.Skip(behaviour.Signature(), "reference types are released, not destroyed")
		}
		return drop
	})
}
