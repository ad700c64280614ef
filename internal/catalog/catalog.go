package catalog

import (
	"asbindgen/internal/types"
)

// Catalog exclusively owns every declaration of one generation run. Slices
// keep first-seen order; the maps are lookup indexes only.
type Catalog struct {
	Objects []*ObjectType
	// Typedefs are the aliases registered with the engine.
	Typedefs   []*Typedef
	Enums      []*Enum
	Functions  []*Function
	Behaviours []*Behaviour

	Scoreboard *Scoreboard
	Resolver   *types.Resolver

	objects map[string]*ObjectType
	enums   map[string]*Enum
}

func New() *Catalog {
	return &Catalog{
		Scoreboard: NewScoreboard(),
		Resolver:   types.NewResolver(),
		objects:    make(map[string]*ObjectType),
		enums:      make(map[string]*Enum),
	}
}

// Object returns the object type called name, or nil.
func (catalog *Catalog) Object(name string) *ObjectType {
	return catalog.objects[name]
}

// Enum returns the enum called name, or nil.
func (catalog *Catalog) Enum(name string) *Enum {
	return catalog.enums[name]
}

// IsKnown reports whether name is a builtin or registered by this run.
func (catalog *Catalog) IsKnown(name string) bool {
	if types.IsBuiltinName(name) {
		return true
	}
	_, isObject := catalog.objects[name]
	_, isEnum := catalog.enums[name]
	return isObject || isEnum
}

// AddObject appends an object type, assigning its declaration order.
func (catalog *Catalog) AddObject(object *ObjectType) {
	object.Order = len(catalog.Objects)
	catalog.Objects = append(catalog.Objects, object)
	catalog.objects[object.Name] = object
}

// AddEnum appends an enum.
func (catalog *Catalog) AddEnum(enum *Enum) {
	catalog.Enums = append(catalog.Enums, enum)
	catalog.enums[enum.Name] = enum
}

// macroEnum returns the synthetic enum for macros, creating it on first use.
func (catalog *Catalog) macroEnum(file string) *Enum {
	if enum, found := catalog.enums[MacroEnum]; found {
		return enum
	}
	enum := &Enum{Name: MacroEnum, File: file}
	catalog.AddEnum(enum)
	return enum
}

// Methods returns every method of every object type, in registration order.
func (catalog *Catalog) Methods() []*Function {
	var methods []*Function
	for _, object := range catalog.Objects {
		methods = append(methods, object.Methods...)
	}
	return methods
}
