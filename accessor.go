/*
 * Copyright © 2025 Hatchstone Labs, All rights reserved.
 */

package objectlayer

import (
	"github.com/hatchstone/objectlayer/errors"
	"github.com/hatchstone/objectlayer/schema"
	"github.com/hatchstone/objectlayer/transport"
)

// Get reads a property by name. Stored null yields nil. Link properties
// resolve to *Object, list and set properties to *List and *Set, and
// computed backlink properties to *Backlinks.
func (o *Object) Get(name string) (any, error) {
	if err := o.checkValid(); err != nil {
		return nil, err
	}
	prop, ok := o.class.Property(name)
	if !ok {
		return nil, errors.NewPropertyNotFound(o.class.Name(), name)
	}
	if prop.Computed {
		return o.backlinksOf(prop)
	}

	switch prop.Shape {
	case schema.ShapeList:
		col, err := o.collection(prop)
		if err != nil {
			return nil, err
		}
		return &List{elements: elements{obj: o, prop: prop, col: col}}, nil
	case schema.ShapeSet:
		col, err := o.collection(prop)
		if err != nil {
			return nil, err
		}
		return &Set{elements: elements{obj: o, prop: prop, col: col}}, nil
	case schema.ShapeDictionary:
		return nil, errors.NewUnknownCollectionShape(o.class.Name(), name, prop.Shape.String())
	}

	val, err := o.row.Get(prop.Key)
	if err != nil {
		return nil, errors.Translate(err, o.class.Name(), name, nil)
	}
	return o.exportValue(prop, val)
}

// Set writes a property by name. The declared metadata is validated before
// any store call: primary-key writes are rejected first, then shape, kind
// and nullability of the value, so a type error can never leave a partial
// write behind.
func (o *Object) Set(name string, value any) error {
	if err := o.checkValid(); err != nil {
		return err
	}
	prop, ok := o.class.Property(name)
	if !ok {
		return errors.NewPropertyNotFound(o.class.Name(), name)
	}
	if prop.PrimaryKey {
		return errors.NewPrimaryKeyImmutable(o.class.Name(), name)
	}
	if prop.Computed {
		return errors.NewSchemaMismatch(o.class.Name(), name, "writable property", prop.Describe())
	}
	if !o.session.engine.InWriteTransaction() {
		return errors.NewNotInTransaction(o.class.Name(), name)
	}

	sc := transport.NewScope()
	defer sc.Close()

	cache := make(importCache)
	return o.setProperty(sc, prop, value, PolicyUpdateExisting, cache)
}

// CheckPropertyType resolves a property by name and validates the
// requested shape, element kind and nullability against the declared
// metadata. Any disagreement fails with a SchemaMismatchError carrying
// both descriptors.
func (o *Object) CheckPropertyType(name string, shape schema.Shape, kind schema.Kind, nullable bool) (*schema.Property, error) {
	prop, ok := o.class.Property(name)
	if !ok {
		return nil, errors.NewPropertyNotFound(o.class.Name(), name)
	}
	if prop.Shape != shape || prop.Kind != kind || prop.Nullable != nullable {
		return nil, errors.NewSchemaMismatch(o.class.Name(), name,
			prop.Describe(), schema.DescribeType(shape, kind, nullable))
	}
	return prop, nil
}

// checkPropertyForValue is the value-inferring overload of
// CheckPropertyType: shape, kind and nullability are derived from the
// runtime value for write-time dynamic validation.
func (o *Object) checkPropertyForValue(name string, value any) (*schema.Property, error) {
	prop, ok := o.class.Property(name)
	if !ok {
		return nil, errors.NewPropertyNotFound(o.class.Name(), name)
	}
	if err := checkValueAgainst(o.class, prop, value); err != nil {
		return nil, err
	}
	return prop, nil
}

func checkValueAgainst(class *schema.Class, prop *schema.Property, value any) error {
	if value == nil || isNilValue(value) {
		if prop.Shape == schema.ShapeNone && !prop.Nullable {
			return errors.NewSchemaMismatch(class.Name(), prop.Name, prop.Describe(), "null")
		}
		return nil
	}

	shape, kind, err := inferValueType(value)
	if err != nil {
		return errors.NewUnsupportedValue(class.Name(), prop.Name, value)
	}
	if shape != prop.Shape && !(shape == schema.ShapeList && prop.Shape == schema.ShapeSet) {
		return errors.NewSchemaMismatch(class.Name(), prop.Name,
			prop.Describe(), schema.DescribeType(shape, kind, false))
	}
	if !kindAccepts(prop.Kind, kind) {
		return errors.NewSchemaMismatch(class.Name(), prop.Name,
			prop.Describe(), schema.DescribeType(shape, kind, false))
	}
	return nil
}

// inferValueType derives shape and element kind from a runtime value.
// Slices infer as lists (a *Set source infers as a set); object-like
// values infer as links.
func inferValueType(value any) (schema.Shape, schema.Kind, error) {
	switch src := value.(type) {
	case *List:
		return schema.ShapeList, src.prop.Kind, nil
	case *Set:
		return schema.ShapeSet, src.prop.Kind, nil
	}
	if isObjectLike(value) {
		return schema.ShapeNone, schema.KindLink, nil
	}
	if elems, ok := sliceElements(value); ok {
		kind := schema.KindAny
		for _, e := range elems {
			if e == nil {
				continue
			}
			_, k, err := inferValueType(e)
			if err != nil {
				return schema.ShapeList, schema.KindInvalid, err
			}
			kind = k
			break
		}
		return schema.ShapeList, kind, nil
	}
	kind, err := transport.Infer(value)
	if err != nil {
		return schema.ShapeNone, schema.KindInvalid, err
	}
	return schema.ShapeNone, kind, nil
}

// kindAccepts reports whether a value of the inferred kind may be stored
// into a property of the declared kind. Nothing coerces silently; the only
// admitted widenings are numeric int-to-double and the canonical string
// encodings of decimal128, objectId and uuid, which still fail UnsupportedValue
// when the literal does not parse.
func kindAccepts(declared, inferred schema.Kind) bool {
	if declared == inferred {
		return true
	}
	switch declared {
	case schema.KindAny:
		return true
	case schema.KindDouble:
		return inferred == schema.KindInt || inferred == schema.KindFloat
	case schema.KindDecimal128, schema.KindObjectID, schema.KindUUID:
		return inferred == schema.KindString
	case schema.KindLink, schema.KindEmbedded:
		return inferred == schema.KindLink
	default:
		return false
	}
}

// setProperty routes a validated write. Callers have already rejected
// primary-key and computed writes and confirmed the write transaction.
func (o *Object) setProperty(sc *transport.Scope, prop *schema.Property, value any, policy UpdatePolicy, cache importCache) error {
	switch prop.Shape {
	case schema.ShapeList, schema.ShapeSet:
		return o.setCollection(sc, prop, value, policy, cache)
	case schema.ShapeDictionary:
		return errors.NewUnknownCollectionShape(o.class.Name(), prop.Name, prop.Shape.String())
	}

	if err := checkValueAgainst(o.class, prop, value); err != nil {
		return err
	}
	if value == nil || isNilValue(value) {
		if err := o.row.Put(prop.Key, transport.Null()); err != nil {
			return errors.Translate(err, o.class.Name(), prop.Name, nil)
		}
		return nil
	}

	switch {
	case prop.Kind == schema.KindEmbedded:
		// Embedded slots are never shared or updated in place: a fresh row
		// replaces whatever the slot held.
		child, err := o.row.CreateEmbedded(prop.Key)
		if err != nil {
			return errors.Translate(err, o.class.Name(), prop.Name, value)
		}
		target, err := o.session.reg.Class(prop.Target)
		if err != nil {
			return err
		}
		childObj := &Object{session: o.session, class: target, row: child}
		return assignTo(sc, childObj, value, policy, cache)

	case prop.Kind == schema.KindLink,
		prop.Kind == schema.KindAny && isObjectLike(value):
		target, err := o.session.importLinkTarget(sc, o.class, prop, value, policy, cache)
		if err != nil {
			return err
		}
		if target == nil {
			return o.setProperty(sc, prop, nil, policy, cache)
		}
		if err := o.row.Put(prop.Key, transport.LinkTo(target.link())); err != nil {
			return errors.Translate(err, o.class.Name(), prop.Name, value)
		}
		return nil

	default:
		val, err := toPropertyValue(sc, o.class, prop, value)
		if err != nil {
			return err
		}
		if err := o.row.Put(prop.Key, val); err != nil {
			return errors.Translate(err, o.class.Name(), prop.Name, value)
		}
		return nil
	}
}

// toPropertyValue converts a domain value for a property, decorating
// converter failures with the class and property names.
func toPropertyValue(sc *transport.Scope, class *schema.Class, prop *schema.Property, value any) (transport.Value, error) {
	val, err := transport.ToValue(sc, prop.Kind, value)
	if err != nil {
		return transport.Null(), errors.NewUnsupportedValue(class.Name(), prop.Name, value)
	}
	return val, nil
}

// exportValue turns a stored transport value into its caller-facing form,
// resolving links to managed objects.
func (o *Object) exportValue(prop *schema.Property, val transport.Value) (any, error) {
	if val.IsNull() {
		return nil, nil
	}
	if val.Type() == transport.TypeLink {
		return o.session.resolve(val.Link())
	}
	out, err := transport.FromValue(val, prop.Kind)
	if err != nil {
		return nil, errors.NewUnsupportedValue(o.class.Name(), prop.Name, val.Type().String())
	}
	return out, nil
}

func (o *Object) collection(prop *schema.Property) (storeCollection, error) {
	col, err := o.row.Collection(prop.Key)
	if err != nil {
		return nil, errors.Translate(err, o.class.Name(), prop.Name, nil)
	}
	return col, nil
}
