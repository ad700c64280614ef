// Package mapping decides how each collected declaration is presented to the
// script engine: operator names, lifecycle behaviours, script declarations
// and the calling convention it is bound with.
package mapping

import (
	"github.com/samber/lo"

	"asbindgen/internal/catalog"
	"asbindgen/internal/config"
	"asbindgen/internal/diag"
)

// Classifier is the part of catalog.Classifier the mapper needs.
type Classifier interface {
	IsReference(name string) bool
}

// Mapper holds the run-wide state the mapping decisions depend on.
type Mapper struct {
	catalog    *catalog.Catalog
	classifier Classifier
	options    *config.Options
	// thunkNames guards against colliding thunk names across overloads.
	thunkNames map[string]int
}

func New(cat *catalog.Catalog, classifier Classifier, options *config.Options) *Mapper {
	return &Mapper{
		catalog:    cat,
		classifier: classifier,
		options:    options,
		thunkNames: make(map[string]int),
	}
}

// IsReference reports the classification of name.
func (mapper *Mapper) IsReference(name string) bool {
	return mapper.classifier.IsReference(name)
}

// NoCount reports whether the reference type name opts out of reference
// counting.
func (mapper *Mapper) NoCount(name string) bool {
	override, found := mapper.options.Override(name)
	return found && override.NoCount()
}

// Apply maps operator overloads to script names, dropping the ones that
// cannot be expressed, and rewrites the behaviour list into its final form:
// grouped by object type, constructors of reference types turned into
// factories, and addref/release added to counted reference types.
func (mapper *Mapper) Apply(log *diag.Log) {
	mapper.catalog.Functions = lo.Reject(mapper.catalog.Functions, func(function *catalog.Function, _ int) bool {
		if IsOperator(function.Name) {
			log.Skip(function.Signature(), "operator overloads are only bound as methods")
			return true
		}
		return false
	})

	for _, object := range mapper.catalog.Objects {
		object.Methods = lo.Filter(object.Methods, func(method *catalog.Function, _ int) bool {
			if !IsOperator(method.Name) {
				return true
			}
			script, err := OperatorName(method.Name, len(method.Params))
			if err != nil {
				log.Skip(method.Signature(), err.Error())
				return false
			}
			method.ScriptName = script
			return true
		})
	}

	mapper.catalog.Behaviours = mapper.lifecycle()
}

func (mapper *Mapper) lifecycle() []*catalog.Behaviour {
	var behaviours []*catalog.Behaviour
	for _, object := range mapper.catalog.Objects {
		owned := lo.Filter(mapper.catalog.Behaviours, func(behaviour *catalog.Behaviour, _ int) bool {
			return behaviour.Owner == object.Name
		})
		ofKind := func(kinds ...catalog.BehaviourKind) []*catalog.Behaviour {
			return lo.Filter(owned, func(behaviour *catalog.Behaviour, _ int) bool {
				return lo.Contains(kinds, behaviour.Kind)
			})
		}

		reference := mapper.IsReference(object.Name)
		for _, constructor := range ofKind(catalog.Construct, catalog.Factory) {
			if reference {
				constructor.Kind = catalog.Factory
			}
			behaviours = append(behaviours, constructor)
		}
		if reference && !mapper.NoCount(object.Name) {
			behaviours = append(behaviours,
				&catalog.Behaviour{Kind: catalog.AddRef, Owner: object.Name, File: object.File},
				&catalog.Behaviour{Kind: catalog.Release, Owner: object.Name, File: object.File},
			)
		}
		behaviours = append(behaviours, ofKind(catalog.Destruct)...)
		behaviours = append(behaviours, ofKind(catalog.ImplicitCast, catalog.Cast)...)
	}
	return behaviours
}

// NeedsGeneric reports whether a declaration must be bound through a generic
// thunk: its signature matches the generic wrapper pattern, or it creates or
// destroys a reference type.
func (mapper *Mapper) NeedsGeneric(signature string) bool {
	return mapper.options.GenericWrapper.Matches(signature)
}

// BehaviourNeedsGeneric is NeedsGeneric for behaviours.
func (mapper *Mapper) BehaviourNeedsGeneric(behaviour *catalog.Behaviour) bool {
	switch behaviour.Kind {
	case catalog.Construct, catalog.Factory, catalog.Destruct:
		if mapper.IsReference(behaviour.Owner) {
			return true
		}
		return mapper.NeedsGeneric(behaviour.Signature())
	}
	return false
}
