// Package inherit propagates inherited members into derived object types and
// synthesizes the cast behaviours between them.
package inherit

import (
	"asbindgen/internal/catalog"
	"asbindgen/internal/diag"
)

// Flatten copies the public methods and fields of every parent into each
// child, rebinding the copies to the child. Object types are visited in
// declaration order, so a parent is complete before its children copy it.
// A child member with the same signature hides the inherited one.
func Flatten(cat *catalog.Catalog, log *diag.Log) {
	for _, child := range cat.Objects {
		for _, parentName := range child.Parents {
			parent := cat.Object(parentName)
			if parent == nil {
				log.Warnf("%s: parent %s disappeared before flattening", child.Name, parentName)
				continue
			}
			inheritMethods(child, parent, log)
			inheritFields(child, parent, log)
		}
	}
}

func inheritMethods(child *catalog.ObjectType, parent *catalog.ObjectType, log *diag.Log) {
	existing := make(map[string]bool, len(child.Methods))
	for _, method := range child.Methods {
		existing[method.CloneFor(child.Name).Signature()] = true
	}
	for _, method := range parent.Methods {
		if method.Owner != parent.Name {
			continue
		}
		clone := method.CloneFor(child.Name)
		signature := clone.Signature()
		if existing[signature] {
			log.Debugf("%s hides %s", signature, method.Signature())
			continue
		}
		existing[signature] = true
		child.Methods = append(child.Methods, clone)
	}
}

func inheritFields(child *catalog.ObjectType, parent *catalog.ObjectType, log *diag.Log) {
	existing := make(map[string]bool, len(child.Fields))
	for _, field := range child.Fields {
		existing[field.Name] = true
	}
	for _, field := range parent.Fields {
		if field.Owner != parent.Name {
			continue
		}
		if existing[field.Name] {
			log.Debugf("%s::%s hides %s", child.Name, field.Name, field.Signature())
			continue
		}
		existing[field.Name] = true
		child.Fields = append(child.Fields, field.CloneFor(child.Name))
	}
}

// Classifier is the part of catalog.Classifier cast synthesis needs.
type Classifier interface {
	IsReference(name string) bool
}

// SynthesizeCasts appends an upcast and a checked downcast behaviour for
// every parent edge of a reference-classified child. Edges to value-type
// parents are skipped: only handles can be cast.
func SynthesizeCasts(cat *catalog.Catalog, classifier Classifier, log *diag.Log) {
	for _, child := range cat.Objects {
		if !classifier.IsReference(child.Name) {
			continue
		}
		for _, parentName := range child.Parents {
			if !classifier.IsReference(parentName) {
				log.Skipf(child.Name+" -> "+parentName, "parent %s is a value type, no handle cast possible", parentName)
				continue
			}
			cat.Behaviours = append(cat.Behaviours,
				&catalog.Behaviour{Kind: catalog.ImplicitCast, Owner: child.Name, Target: parentName, File: child.File},
				&catalog.Behaviour{Kind: catalog.Cast, Owner: parentName, Target: child.Name, File: child.File},
			)
		}
	}
}
