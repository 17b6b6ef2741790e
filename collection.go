/*
 * Copyright © 2025 Hatchstone Labs, All rights reserved.
 */

package objectlayer

import (
	"reflect"

	"github.com/hatchstone/objectlayer/errors"
	"github.com/hatchstone/objectlayer/schema"
	"github.com/hatchstone/objectlayer/store"
	"github.com/hatchstone/objectlayer/transport"
)

type storeCollection = store.Collection

// elements is the shared core of the managed List and Set wrappers: one
// collection handle plus the metadata needed to validate and convert
// elements.
type elements struct {
	obj  *Object
	prop *schema.Property
	col  storeCollection
}

// Len returns the number of stored elements.
func (e *elements) Len() (int, error) {
	n, err := e.col.Len()
	if err != nil {
		return 0, errors.Translate(err, e.obj.class.Name(), e.prop.Name, nil)
	}
	return n, nil
}

// Get reads the element at i, resolving link elements to managed objects.
func (e *elements) Get(i int) (any, error) {
	val, err := e.col.Get(i)
	if err != nil {
		return nil, errors.Translate(err, e.obj.class.Name(), e.prop.Name, i)
	}
	return e.obj.exportValue(e.prop, val)
}

// Elements reads every element in order.
func (e *elements) Elements() ([]any, error) {
	n, err := e.Len()
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, n)
	for i := 0; i < n; i++ {
		v, err := e.Get(i)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Clear removes every element. Embedded elements are discarded with the
// collection.
func (e *elements) Clear() error {
	if err := e.writable(); err != nil {
		return err
	}
	if err := e.col.Clear(); err != nil {
		return errors.Translate(err, e.obj.class.Name(), e.prop.Name, nil)
	}
	return nil
}

func (e *elements) writable() error {
	if err := e.obj.checkValid(); err != nil {
		return err
	}
	if !e.obj.session.engine.InWriteTransaction() {
		return errors.NewNotInTransaction(e.obj.class.Name(), e.prop.Name)
	}
	return nil
}

func (e *elements) insertAll(i int, values []any, policy UpdatePolicy, cache importCache) error {
	if err := e.writable(); err != nil {
		return err
	}
	sc := transport.NewScope()
	defer sc.Close()

	op, err := e.obj.session.operatorFor(e.obj.class, e.prop)
	if err != nil {
		return err
	}
	for n, v := range values {
		if err := op.insert(sc, e.obj, e.col, i+n, v, policy, cache); err != nil {
			return err
		}
	}
	return nil
}

// List is a managed, ordered collection bound to one object property.
type List struct {
	elements
}

// Append adds values at the end of the list.
func (l *List) Append(values ...any) error {
	n, err := l.col.Len()
	if err != nil {
		return errors.Translate(err, l.obj.class.Name(), l.prop.Name, nil)
	}
	return l.insertAll(n, values, PolicyUpdateExisting, make(importCache))
}

// Insert places values starting at index i, shifting later elements.
func (l *List) Insert(i int, values ...any) error {
	return l.insertAll(i, values, PolicyUpdateExisting, make(importCache))
}

// Set is a managed, unordered, de-duplicating collection bound to one
// object property.
type Set struct {
	elements
}

// Add inserts values; elements already present are left alone.
func (s *Set) Add(values ...any) error {
	return s.insertAll(0, values, PolicyUpdateExisting, make(importCache))
}

// collectionOperator is the per-element-kind strategy for collection
// mutation. Operators are stateless per-call values constructed for one
// access; they hold no identity across calls.
type collectionOperator interface {
	insert(sc *transport.Scope, owner *Object, col storeCollection, i int, elem any, policy UpdatePolicy, cache importCache) error
}

// operatorFor selects the operator variant for the property's element
// kind.
func (s *Session) operatorFor(owner *schema.Class, prop *schema.Property) (collectionOperator, error) {
	switch prop.Kind {
	case schema.KindLink:
		target, err := s.reg.Class(prop.Target)
		if err != nil {
			return nil, err
		}
		return &linkOperator{session: s, prop: prop, target: target}, nil
	case schema.KindEmbedded:
		target, err := s.reg.Class(prop.Target)
		if err != nil {
			return nil, err
		}
		return &embeddedOperator{session: s, prop: prop, target: target}, nil
	case schema.KindAny:
		return &anyOperator{session: s, prop: prop}, nil
	case schema.KindBacklink:
		return nil, errors.NewSchemaMismatch(owner.Name(), prop.Name, "stored collection", prop.Describe())
	default:
		return &primitiveOperator{prop: prop}, nil
	}
}

// primitiveOperator passes elements straight through the converter.
type primitiveOperator struct {
	prop *schema.Property
}

func (p *primitiveOperator) insert(sc *transport.Scope, owner *Object, col storeCollection, i int, elem any, policy UpdatePolicy, cache importCache) error {
	class := owner.class
	if elem == nil || isNilValue(elem) {
		if !p.prop.Nullable {
			return errors.NewSchemaMismatch(class.Name(), p.prop.Name, p.prop.Describe(), "null element")
		}
		if err := col.Insert(i, transport.Null()); err != nil {
			return errors.Translate(err, class.Name(), p.prop.Name, nil)
		}
		return nil
	}
	kind, err := transport.Infer(elem)
	if err != nil || !kindAccepts(p.prop.Kind, kind) {
		return errors.NewSchemaMismatch(class.Name(), p.prop.Name,
			p.prop.Describe(), schema.DescribeType(schema.ShapeNone, kind, false))
	}
	val, err := toPropertyValue(sc, class, p.prop, elem)
	if err != nil {
		return err
	}
	if err := col.Insert(i, val); err != nil {
		return errors.Translate(err, class.Name(), p.prop.Name, elem)
	}
	return nil
}

// anyOperator tags each element per its runtime value; object-like
// elements become links through the importer.
type anyOperator struct {
	session *Session
	prop    *schema.Property
}

func (a *anyOperator) insert(sc *transport.Scope, owner *Object, col storeCollection, i int, elem any, policy UpdatePolicy, cache importCache) error {
	// Typed nils take the null path, not the import path.
	elem = normalizeNil(elem)
	if isObjectLike(elem) {
		target, err := a.session.importLinkTarget(sc, owner.class, a.prop, elem, policy, cache)
		if err != nil {
			return err
		}
		if err := col.Insert(i, transport.LinkTo(target.link())); err != nil {
			return errors.Translate(err, owner.class.Name(), a.prop.Name, elem)
		}
		return nil
	}
	prim := primitiveOperator{prop: a.prop}
	return prim.insert(sc, owner, col, i, elem, policy, cache)
}

// linkOperator imports or locates referenced objects, deduplicating
// through the per-call import cache.
type linkOperator struct {
	session *Session
	prop    *schema.Property
	target  *schema.Class
}

func (l *linkOperator) insert(sc *transport.Scope, owner *Object, col storeCollection, i int, elem any, policy UpdatePolicy, cache importCache) error {
	class := owner.class
	if elem == nil || isNilValue(elem) {
		if !l.prop.Nullable {
			return errors.NewSchemaMismatch(class.Name(), l.prop.Name, l.prop.Describe(), "null element")
		}
		if err := col.Insert(i, transport.Null()); err != nil {
			return errors.Translate(err, class.Name(), l.prop.Name, nil)
		}
		return nil
	}
	target, err := l.session.importObject(sc, l.target, elem, policy, cache)
	if err != nil {
		return err
	}
	if err := col.Insert(i, transport.LinkTo(target.link())); err != nil {
		return errors.Translate(err, class.Name(), l.prop.Name, elem)
	}
	return nil
}

// embeddedOperator always allocates a fresh embedded row per element and
// recursively assigns the element's properties into it; embedded slots
// are never shared or updated in place.
type embeddedOperator struct {
	session *Session
	prop    *schema.Property
	target  *schema.Class
}

func (e *embeddedOperator) insert(sc *transport.Scope, owner *Object, col storeCollection, i int, elem any, policy UpdatePolicy, cache importCache) error {
	class := owner.class
	if elem == nil || isNilValue(elem) {
		if !e.prop.Nullable {
			return errors.NewSchemaMismatch(class.Name(), e.prop.Name, e.prop.Describe(), "null element")
		}
		if err := col.Insert(i, transport.Null()); err != nil {
			return errors.Translate(err, class.Name(), e.prop.Name, nil)
		}
		return nil
	}
	child, err := col.CreateEmbedded(i)
	if err != nil {
		return errors.Translate(err, class.Name(), e.prop.Name, elem)
	}
	childObj := &Object{session: e.session, class: e.target, row: child}
	return assignTo(sc, childObj, elem, policy, cache)
}

// setCollection replaces the whole collection: clear-then-insert-all, not
// diff-based. Assigning the collection the property already holds is a
// no-op detected by handle identity.
func (o *Object) setCollection(sc *transport.Scope, prop *schema.Property, value any, policy UpdatePolicy, cache importCache) error {
	col, err := o.collection(prop)
	if err != nil {
		return err
	}

	switch src := value.(type) {
	case *List:
		if src.col.Handle() == col.Handle() {
			return nil
		}
	case *Set:
		if src.col.Handle() == col.Handle() {
			return nil
		}
	}

	elems, err := collectionElements(o.class, prop, value)
	if err != nil {
		return err
	}
	if err := col.Clear(); err != nil {
		return errors.Translate(err, o.class.Name(), prop.Name, nil)
	}

	op, err := o.session.operatorFor(o.class, prop)
	if err != nil {
		return err
	}
	for i, e := range elems {
		if err := op.insert(sc, o, col, i, e, policy, cache); err != nil {
			return err
		}
	}
	return nil
}

// collectionElements extracts the incoming elements of a whole-collection
// assignment. A nil source empties the collection.
func collectionElements(class *schema.Class, prop *schema.Property, value any) ([]any, error) {
	switch src := value.(type) {
	case nil:
		return nil, nil
	case *List:
		return src.Elements()
	case *Set:
		return src.Elements()
	}
	if isNilValue(value) {
		return nil, nil
	}
	if elems, ok := sliceElements(value); ok {
		return elems, nil
	}
	return nil, errors.NewSchemaMismatch(class.Name(), prop.Name, prop.Describe(), describeRuntime(value))
}

// sliceElements flattens any slice or array into []any.
func sliceElements(value any) ([]any, bool) {
	if elems, ok := value.([]any); ok {
		return elems, true
	}
	// []byte is a scalar payload, not a collection of ints.
	if _, ok := value.([]byte); ok {
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		e := rv.Index(i)
		if isNilReflect(e) {
			out[i] = nil
			continue
		}
		out[i] = e.Interface()
	}
	return out, true
}
