/*
 * Copyright © 2025 Hatchstone Labs, All rights reserved.
 */

package objectlayer

import (
	"github.com/hatchstone/objectlayer/errors"
	"github.com/hatchstone/objectlayer/schema"
	"github.com/hatchstone/objectlayer/transport"
)

// DynamicValue reads a single-valued property checked against the
// declared kind and nullability. A disagreement between the caller's
// expectation and the schema fails before the store is touched.
func (o *Object) DynamicValue(name string, kind schema.Kind, nullable bool) (any, error) {
	if err := o.checkValid(); err != nil {
		return nil, err
	}
	if _, err := o.CheckPropertyType(name, schema.ShapeNone, kind, nullable); err != nil {
		return nil, err
	}
	return o.Get(name)
}

// DynamicList returns the list bound to a property checked against the
// declared element kind and nullability.
func (o *Object) DynamicList(name string, kind schema.Kind, nullable bool) (*List, error) {
	if err := o.checkValid(); err != nil {
		return nil, err
	}
	if _, err := o.CheckPropertyType(name, schema.ShapeList, kind, nullable); err != nil {
		return nil, err
	}
	v, err := o.Get(name)
	if err != nil {
		return nil, err
	}
	return v.(*List), nil
}

// DynamicSet returns the set bound to a property checked against the
// declared element kind and nullability.
func (o *Object) DynamicSet(name string, kind schema.Kind, nullable bool) (*Set, error) {
	if err := o.checkValid(); err != nil {
		return nil, err
	}
	if _, err := o.CheckPropertyType(name, schema.ShapeSet, kind, nullable); err != nil {
		return nil, err
	}
	v, err := o.Get(name)
	if err != nil {
		return nil, err
	}
	return v.(*Set), nil
}

// DynamicSetValue writes a property after validating the runtime value
// against the declared metadata. Primary-key writes are rejected before
// any other check so the immutability error wins over type errors.
func (o *Object) DynamicSetValue(name string, value any) error {
	if err := o.checkValid(); err != nil {
		return err
	}
	if prop, ok := o.class.Property(name); ok && prop.PrimaryKey {
		return errors.NewPrimaryKeyImmutable(o.class.Name(), name)
	}
	prop, err := o.checkPropertyForValue(name, value)
	if err != nil {
		return err
	}
	if prop.Computed {
		return errors.NewSchemaMismatch(o.class.Name(), name, "writable property", prop.Describe())
	}
	if !o.session.engine.InWriteTransaction() {
		return errors.NewNotInTransaction(o.class.Name(), name)
	}

	sc := transport.NewScope()
	defer sc.Close()

	return o.setProperty(sc, prop, value, PolicyUpdateExisting, make(importCache))
}

// Backlinks returns the live view over a computed backlink property.
func (o *Object) Backlinks(name string) (*BacklinkView, error) {
	if err := o.checkValid(); err != nil {
		return nil, err
	}
	prop, ok := o.class.Property(name)
	if !ok {
		return nil, errors.NewPropertyNotFound(o.class.Name(), name)
	}
	if prop.Kind != schema.KindBacklink {
		return nil, errors.NewSchemaMismatch(o.class.Name(), name,
			schema.DescribeType(schema.ShapeNone, schema.KindBacklink, false), prop.Describe())
	}
	v, err := o.backlinksOf(prop)
	if err != nil {
		return nil, err
	}
	return v.(*BacklinkView), nil
}

// backlinksOf builds the view for a backlink property, resolving the
// origin class and the forward property the backlink inverts.
func (o *Object) backlinksOf(prop *schema.Property) (any, error) {
	origin, err := o.session.reg.Class(prop.Target)
	if err != nil {
		return nil, err
	}
	originProp, ok := origin.Property(prop.Origin)
	if !ok {
		return nil, errors.NewPropertyNotFound(origin.Name(), prop.Origin)
	}
	return &BacklinkView{obj: o, origin: origin, originProp: originProp}, nil
}

// BacklinkView is a live, re-evaluated view of the objects whose forward
// link property currently references one target object. It holds no
// snapshot; every call consults the store.
type BacklinkView struct {
	obj        *Object
	origin     *schema.Class
	originProp *schema.Property
}

// Origin returns the class the backlink points back from.
func (b *BacklinkView) Origin() *schema.Class { return b.origin }

// Objects returns the current referrers, ordered by row key.
func (b *BacklinkView) Objects() ([]*Object, error) {
	if err := b.obj.checkValid(); err != nil {
		return nil, err
	}
	rows, err := b.obj.session.engine.Backlinks(b.obj.row, b.origin.Key(), b.originProp.Key)
	if err != nil {
		return nil, errors.Translate(err, b.origin.Name(), b.originProp.Name, nil)
	}
	out := make([]*Object, len(rows))
	for i, r := range rows {
		out[i] = &Object{session: b.obj.session, class: b.origin, row: r}
	}
	return out, nil
}

// Len returns the current number of referrers.
func (b *BacklinkView) Len() (int, error) {
	objs, err := b.Objects()
	if err != nil {
		return 0, err
	}
	return len(objs), nil
}
