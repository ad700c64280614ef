package catalog

import (
	"asbindgen/internal/ast"
	"asbindgen/internal/config"
	"asbindgen/internal/types"
)

func (collector *collector) object(cursor ast.Cursor) {
	name := cursor.Spelling()
	children := cursor.Children()
	if len(children) == 0 {
		// A forward declaration, not a definition.
		collector.log.Debugf("%s is only declared here, not defined", collector.qualified(name))
		return
	}
	if !types.UsableName(name) {
		collector.log.Warnf("skipping anonymous %s in %s", cursor.Kind(), cursor.File())
		return
	}
	if !collector.admitsFile(cursor.File()) {
		collector.log.Skip(collector.qualified(name), "file filtered")
		return
	}
	if !config.Admits(collector.options.ObjectInclude, collector.options.ObjectExclude, name) {
		collector.log.Skip(collector.qualified(name), "object filtered")
		return
	}
	if existing := collector.catalog.Object(name); existing != nil {
		collector.log.Warnf("%s redeclared in %s, keeping the declaration from %s", collector.qualified(name), cursor.File(), existing.File)
		return
	}

	object := &ObjectType{
		Name:   name,
		Struct: cursor.Kind() == ast.KindStruct,
		File:   cursor.File(),
	}
	if override, found := collector.options.Override(name); found {
		object.Override = &override
	}
	collector.catalog.AddObject(object)

	collector.scope = append(collector.scope, name)
	collector.members(object, children)
	collector.scope = collector.scope[:len(collector.scope)-1]
}

// members collects the public members of one class segment. Access starts at
// the keyword's default: private for class, public for struct.
func (collector *collector) members(object *ObjectType, children []ast.Cursor) {
	access := ast.AccessPrivate
	if object.Struct {
		access = ast.AccessPublic
	}

	for _, member := range children {
		kind := member.Kind()
		switch kind {
		case ast.KindAccessSpecifier:
			access = member.Access()
			continue
		case ast.KindBaseSpecifier:
			collector.base(object, member)
			continue
		case ast.KindClass, ast.KindStruct:
			collector.object(member)
			continue
		case ast.KindConstructor:
			object.HasConstructor = true
		case ast.KindDestructor:
			object.HasDestructor = true
		}

		if access != ast.AccessPublic {
			collector.log.Debugf("%s is not public", collector.qualified(member.Spelling()))
			continue
		}

		switch kind {
		case ast.KindConstructor:
			collector.constructor(object, member)
		case ast.KindDestructor:
			collector.destructor(object, member)
		case ast.KindMethod:
			if member.IsStatic() {
				collector.log.Skip(collector.qualified(member.Spelling()), "static methods cannot be bound with the instance calling convention")
				continue
			}
			if method, ok := collector.buildFunction(member, object.Name); ok {
				object.Methods = append(object.Methods, method)
			}
		case ast.KindField:
			collector.field(object, member)
		case ast.KindEnum:
			collector.enum(member)
		case ast.KindTypedef:
			collector.typedef(member)
		default:
			collector.log.Warnf("unhandled member cursor: %s, %s", member.DisplayName(), kind)
		}
	}
}

// base records a public parent edge. Members are flattened later, once
// every filter has run.
func (collector *collector) base(object *ObjectType, cursor ast.Cursor) {
	if cursor.Access() != ast.AccessPublic {
		collector.log.Debugf("%s: non-public base %s is not inherited", object.Name, cursor.Spelling())
		return
	}
	parentType, err := collector.catalog.Resolver.Resolve(cursor.Type())
	if err != nil {
		collector.log.Warnf("%s: base %s: %v", object.Name, cursor.Spelling(), err)
		return
	}
	if collector.catalog.Object(parentType.Name) == nil {
		collector.log.Warnf("%s: base %s is not a collected object type", object.Name, parentType.Name)
		return
	}
	object.Parents = append(object.Parents, parentType.Name)
}

func (collector *collector) constructor(object *ObjectType, cursor ast.Cursor) {
	behaviour, ok := collector.buildBehaviour(Construct, object, cursor)
	if ok {
		collector.catalog.Behaviours = append(collector.catalog.Behaviours, behaviour)
	}
}

func (collector *collector) destructor(object *ObjectType, cursor ast.Cursor) {
	behaviour, ok := collector.buildBehaviour(Destruct, object, cursor)
	if ok {
		collector.catalog.Behaviours = append(collector.catalog.Behaviours, behaviour)
	}
}

func (collector *collector) buildBehaviour(kind BehaviourKind, object *ObjectType, cursor ast.Cursor) (*Behaviour, bool) {
	subject := collector.qualified(cursor.Spelling())
	if !collector.admitsFile(cursor.File()) {
		collector.log.Skip(subject, "file filtered")
		return nil, false
	}

	params, err := collector.params(cursor)
	if err != nil {
		collector.log.Skip(subject, err.Error())
		return nil, false
	}
	behaviour := &Behaviour{Kind: kind, Owner: object.Name, Params: params, File: cursor.File()}

	signature := behaviour.Signature()
	if !config.Admits(collector.options.MethodInclude, collector.options.MethodExclude, signature) {
		collector.log.Skip(signature, "signature filtered")
		return nil, false
	}
	if err := bindable(params, nil); err != nil {
		collector.log.Skip(signature, err.Error())
		return nil, false
	}

	collector.commit(behaviour.Types()...)
	return behaviour, true
}

func (collector *collector) field(object *ObjectType, cursor ast.Cursor) {
	subject := collector.qualified(cursor.Spelling())
	if !collector.admitsFile(cursor.File()) {
		collector.log.Skip(subject, "file filtered")
		return
	}

	resolved, err := collector.catalog.Resolver.Resolve(cursor.Type())
	if err != nil {
		collector.log.Skip(subject, err.Error())
		return
	}
	field := &Field{
		Name:   cursor.Spelling(),
		Owner:  object.Name,
		Type:   resolved,
		Native: cursor.Type().Spelling(),
		File:   cursor.File(),
	}

	signature := field.Signature()
	if !config.Admits(collector.options.FieldInclude, collector.options.FieldExclude, signature) {
		collector.log.Skip(signature, "field filtered")
		return
	}
	if err := bindableType("field type", field.Type); err != nil {
		collector.log.Skip(signature, err.Error())
		return
	}
	if field.Type.Reference {
		collector.log.Skip(signature, "reference members cannot be bound as properties")
		return
	}

	collector.commit(field.Type)
	object.Fields = append(object.Fields, field)
}
