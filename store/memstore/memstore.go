/*
 * Copyright © 2025 Hatchstone Labs, All rights reserved.
 */

// Package memstore provides an in-memory storage engine implementing the
// store interfaces, for tests and embedding scenarios.
package memstore

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hatchstone/objectlayer/errors"
	"github.com/hatchstone/objectlayer/schema"
	"github.com/hatchstone/objectlayer/store"
	"github.com/hatchstone/objectlayer/transport"
)

// Store is an in-memory implementation of store.Engine. It is schema-aware:
// writes are checked against the registered metadata and failures surface
// through the closed low-level error set in the errors package, exactly as
// a production engine would report them.
type Store struct {
	mu         sync.RWMutex
	reg        *schema.Registry
	rows       map[int64]map[store.RowKey]*row
	nextRow    uint64
	nextHandle uint64
	inWrite    bool
}

// New creates an empty engine over the given schema.
func New(reg *schema.Registry) *Store {
	return &Store{
		reg:  reg,
		rows: make(map[int64]map[store.RowKey]*row),
	}
}

// BeginWrite opens a write transaction. The object layer never calls this;
// it belongs to the session owner.
func (s *Store) BeginWrite() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inWrite = true
}

// EndWrite closes the active write transaction.
func (s *Store) EndWrite() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inWrite = false
}

// InWriteTransaction reports whether a write transaction is active.
func (s *Store) InWriteTransaction() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inWrite
}

// CreateRow inserts a new row of the given class.
func (s *Store) CreateRow(classKey int64, pk *transport.Value) (store.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.createRowLocked(classKey, pk, false)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Store) createRowLocked(classKey int64, pk *transport.Value, embedded bool) (*row, error) {
	if !s.inWrite {
		return nil, fmt.Errorf("create row: %w", errors.ErrStoreLogic)
	}
	class, err := s.reg.ClassByKey(classKey)
	if err != nil {
		return nil, fmt.Errorf("create row: %w", err)
	}

	r := &row{
		st:       s,
		class:    class,
		valid:    true,
		embedded: embedded,
		fields:   make(map[int64]any),
		colls:    make(map[int64]*coll),
	}
	if pk != nil {
		pkProp := class.PrimaryKey()
		if pkProp == nil {
			return nil, fmt.Errorf("class %s has no primary key: %w", class.Name(), errors.ErrStoreLogic)
		}
		if _, found := s.findByPrimaryKeyLocked(classKey, *pk); found {
			return nil, fmt.Errorf("class %s: %w", class.Name(), errors.ErrStoreDuplicateKey)
		}
		stored, err := storedOf(*pk)
		if err != nil {
			return nil, err
		}
		r.fields[pkProp.Key] = stored
	}

	s.nextRow++
	r.key = store.RowKey(s.nextRow)
	if s.rows[classKey] == nil {
		s.rows[classKey] = make(map[store.RowKey]*row)
	}
	s.rows[classKey][r.key] = r
	return r, nil
}

// FindByPrimaryKey locates a row by its primary-key value.
func (s *Store) FindByPrimaryKey(classKey int64, pk transport.Value) (store.Row, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.findByPrimaryKeyLocked(classKey, pk)
	if !ok {
		return nil, false, nil
	}
	return r, true, nil
}

func (s *Store) findByPrimaryKeyLocked(classKey int64, pk transport.Value) (*row, bool) {
	class, err := s.reg.ClassByKey(classKey)
	if err != nil || class.PrimaryKey() == nil {
		return nil, false
	}
	want, err := storedOf(pk)
	if err != nil {
		return nil, false
	}
	pkKey := class.PrimaryKey().Key
	for _, r := range s.rows[classKey] {
		if r.valid && storedEqual(r.fields[pkKey], want) {
			return r, true
		}
	}
	return nil, false
}

// ResolveLink resolves a transport link to its live row.
func (s *Store) ResolveLink(l transport.Link) (store.Row, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rows[l.ClassKey][store.RowKey(l.RowKey)]
	if !ok || !r.valid {
		return nil, false
	}
	return r, true
}

// DeleteRow removes a row, its embedded children, and every link to it.
func (s *Store) DeleteRow(target store.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.inWrite {
		return fmt.Errorf("delete row: %w", errors.ErrStoreLogic)
	}
	r, ok := target.(*row)
	if !ok || !r.valid {
		return fmt.Errorf("delete row: %w", errors.ErrStoreLogic)
	}
	s.deleteRowLocked(r)
	return nil
}

func (s *Store) deleteRowLocked(r *row) {
	r.valid = false
	delete(s.rows[r.class.Key()], r.key)
	for _, v := range r.fields {
		s.discardEmbeddedLocked(v)
	}
	for _, c := range r.colls {
		for _, e := range c.elems {
			if c.prop.Kind == schema.KindEmbedded {
				s.discardEmbeddedLocked(e)
			}
		}
	}
	s.nullifyLinksLocked(transport.Link{ClassKey: r.class.Key(), RowKey: uint64(r.key)})
}

func (s *Store) discardEmbeddedLocked(v any) {
	l, ok := v.(transport.Link)
	if !ok {
		return
	}
	if child, found := s.rows[l.ClassKey][store.RowKey(l.RowKey)]; found && child.embedded {
		s.deleteRowLocked(child)
	}
}

func (s *Store) nullifyLinksLocked(dead transport.Link) {
	for _, class := range s.rows {
		for _, r := range class {
			for key, v := range r.fields {
				if l, ok := v.(transport.Link); ok && l == dead {
					r.fields[key] = nil
				}
			}
			for _, c := range r.colls {
				kept := c.elems[:0]
				for _, e := range c.elems {
					if l, ok := e.(transport.Link); ok && l == dead {
						continue
					}
					kept = append(kept, e)
				}
				c.elems = kept
			}
		}
	}
}

// Backlinks returns the origin-class rows referencing target through the
// origin property, ordered by row key.
func (s *Store) Backlinks(target store.Row, originClassKey, originPropKey int64) ([]store.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	originClass, err := s.reg.ClassByKey(originClassKey)
	if err != nil {
		return nil, fmt.Errorf("backlinks: %w", err)
	}
	originProp, ok := originClass.PropertyByKey(originPropKey)
	if !ok {
		return nil, fmt.Errorf("backlinks: origin property %d: %w", originPropKey, errors.ErrStoreLogic)
	}
	want := transport.Link{ClassKey: target.ClassKey(), RowKey: uint64(target.Key())}

	var out []store.Row
	for _, r := range s.rows[originClassKey] {
		if !r.valid {
			continue
		}
		if originProp.Shape == schema.ShapeNone {
			if l, ok := r.fields[originPropKey].(transport.Link); ok && l == want {
				out = append(out, r)
			}
			continue
		}
		if c := r.colls[originPropKey]; c != nil {
			for _, e := range c.elems {
				if l, ok := e.(transport.Link); ok && l == want {
					out = append(out, r)
					break
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out, nil
}

// row implements store.Row.
type row struct {
	st       *Store
	class    *schema.Class
	key      store.RowKey
	valid    bool
	embedded bool
	fields   map[int64]any
	colls    map[int64]*coll
}

func (r *row) Key() store.RowKey { return r.key }
func (r *row) ClassKey() int64   { return r.class.Key() }

func (r *row) IsValid() bool {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	return r.valid
}

func (r *row) Get(propKey int64) (transport.Value, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	if !r.valid {
		return transport.Null(), fmt.Errorf("get: %w", errors.ErrStoreLogic)
	}
	if _, ok := r.class.PropertyByKey(propKey); !ok {
		return transport.Null(), fmt.Errorf("get: property %d: %w", propKey, errors.ErrStoreLogic)
	}
	return valueOf(r.fields[propKey]), nil
}

func (r *row) Put(propKey int64, v transport.Value) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	prop, err := r.writableProp(propKey)
	if err != nil {
		return err
	}
	if prop.Shape != schema.ShapeNone {
		return fmt.Errorf("put %s.%s: %w", r.class.Name(), prop.Name, errors.ErrStoreLogic)
	}
	if v.IsNull() {
		if !prop.Nullable {
			return fmt.Errorf("put %s.%s: %w", r.class.Name(), prop.Name, errors.ErrStoreNotNullable)
		}
		r.st.discardEmbeddedLocked(r.fields[propKey])
		r.fields[propKey] = nil
		return nil
	}
	if prop.Kind == schema.KindEmbedded {
		// Embedded slots are only written through CreateEmbedded.
		return fmt.Errorf("put %s.%s: %w", r.class.Name(), prop.Name, errors.ErrStoreLogic)
	}
	if err := checkValueKind(prop, v); err != nil {
		return fmt.Errorf("put %s.%s: %w", r.class.Name(), prop.Name, err)
	}
	stored, err := storedOf(v)
	if err != nil {
		return err
	}
	r.fields[propKey] = stored
	return nil
}

func (r *row) CreateEmbedded(propKey int64) (store.Row, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	prop, err := r.writableProp(propKey)
	if err != nil {
		return nil, err
	}
	if prop.Kind != schema.KindEmbedded || prop.Shape != schema.ShapeNone {
		return nil, fmt.Errorf("create embedded %s.%s: %w", r.class.Name(), prop.Name, errors.ErrStoreLogic)
	}
	child, err := r.st.newEmbeddedLocked(prop)
	if err != nil {
		return nil, err
	}
	r.st.discardEmbeddedLocked(r.fields[propKey])
	r.fields[propKey] = transport.Link{ClassKey: child.class.Key(), RowKey: uint64(child.key)}
	return child, nil
}

func (s *Store) newEmbeddedLocked(prop *schema.Property) (*row, error) {
	target, err := s.reg.Class(prop.Target)
	if err != nil {
		return nil, fmt.Errorf("create embedded: %w", err)
	}
	return s.createRowLocked(target.Key(), nil, true)
}

func (r *row) Collection(propKey int64) (store.Collection, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	if !r.valid {
		return nil, fmt.Errorf("collection: %w", errors.ErrStoreLogic)
	}
	prop, ok := r.class.PropertyByKey(propKey)
	if !ok {
		return nil, fmt.Errorf("collection: property %d: %w", propKey, errors.ErrStoreLogic)
	}
	if prop.Shape != schema.ShapeList && prop.Shape != schema.ShapeSet {
		return nil, fmt.Errorf("collection %s.%s: %w", r.class.Name(), prop.Name, errors.ErrStoreLogic)
	}
	c := r.colls[propKey]
	if c == nil {
		r.st.nextHandle++
		c = &coll{st: r.st, row: r, prop: prop, handle: r.st.nextHandle}
		r.colls[propKey] = c
	}
	return c, nil
}

func (r *row) writableProp(propKey int64) (*schema.Property, error) {
	if !r.st.inWrite {
		return nil, fmt.Errorf("write: %w", errors.ErrStoreLogic)
	}
	if !r.valid {
		return nil, fmt.Errorf("write: %w", errors.ErrStoreLogic)
	}
	prop, ok := r.class.PropertyByKey(propKey)
	if !ok {
		return nil, fmt.Errorf("write: property %d: %w", propKey, errors.ErrStoreLogic)
	}
	if prop.Computed {
		return nil, fmt.Errorf("write %s.%s: %w", r.class.Name(), prop.Name, errors.ErrStoreLogic)
	}
	return prop, nil
}

// coll implements store.Collection.
type coll struct {
	st     *Store
	row    *row
	prop   *schema.Property
	handle uint64
	elems  []any
}

func (c *coll) Handle() uint64 { return c.handle }

func (c *coll) Len() (int, error) {
	c.st.mu.RLock()
	defer c.st.mu.RUnlock()
	if !c.row.valid {
		return 0, fmt.Errorf("len: %w", errors.ErrStoreLogic)
	}
	return len(c.elems), nil
}

func (c *coll) Get(i int) (transport.Value, error) {
	c.st.mu.RLock()
	defer c.st.mu.RUnlock()
	if !c.row.valid {
		return transport.Null(), fmt.Errorf("get: %w", errors.ErrStoreLogic)
	}
	if i < 0 || i >= len(c.elems) {
		return transport.Null(), fmt.Errorf("get element %d of %d: %w", i, len(c.elems), errors.ErrStoreLogic)
	}
	return valueOf(c.elems[i]), nil
}

func (c *coll) Insert(i int, v transport.Value) error {
	c.st.mu.Lock()
	defer c.st.mu.Unlock()

	if err := c.writable(); err != nil {
		return err
	}
	if v.IsNull() && !c.prop.Nullable {
		return fmt.Errorf("insert into %s.%s: %w", c.row.class.Name(), c.prop.Name, errors.ErrStoreNotNullable)
	}
	if !v.IsNull() {
		if c.prop.Kind == schema.KindEmbedded {
			return fmt.Errorf("insert into %s.%s: %w", c.row.class.Name(), c.prop.Name, errors.ErrStoreLogic)
		}
		if err := checkValueKind(c.prop, v); err != nil {
			return fmt.Errorf("insert into %s.%s: %w", c.row.class.Name(), c.prop.Name, err)
		}
	}
	stored, err := storedOf(v)
	if err != nil {
		return err
	}
	if c.prop.Shape == schema.ShapeSet {
		for _, e := range c.elems {
			if storedEqual(e, stored) {
				return nil
			}
		}
		c.elems = append(c.elems, stored)
		return nil
	}
	if i < 0 || i > len(c.elems) {
		return fmt.Errorf("insert at %d of %d: %w", i, len(c.elems), errors.ErrStoreLogic)
	}
	c.elems = append(c.elems, nil)
	copy(c.elems[i+1:], c.elems[i:])
	c.elems[i] = stored
	return nil
}

func (c *coll) CreateEmbedded(i int) (store.Row, error) {
	c.st.mu.Lock()
	defer c.st.mu.Unlock()

	if err := c.writable(); err != nil {
		return nil, err
	}
	if c.prop.Kind != schema.KindEmbedded {
		return nil, fmt.Errorf("create embedded in %s.%s: %w", c.row.class.Name(), c.prop.Name, errors.ErrStoreLogic)
	}
	child, err := c.st.newEmbeddedLocked(c.prop)
	if err != nil {
		return nil, err
	}
	link := transport.Link{ClassKey: child.class.Key(), RowKey: uint64(child.key)}
	if c.prop.Shape == schema.ShapeSet {
		c.elems = append(c.elems, link)
		return child, nil
	}
	if i < 0 || i > len(c.elems) {
		c.st.deleteRowLocked(child)
		return nil, fmt.Errorf("insert at %d of %d: %w", i, len(c.elems), errors.ErrStoreLogic)
	}
	c.elems = append(c.elems, nil)
	copy(c.elems[i+1:], c.elems[i:])
	c.elems[i] = link
	return child, nil
}

func (c *coll) Clear() error {
	c.st.mu.Lock()
	defer c.st.mu.Unlock()

	if err := c.writable(); err != nil {
		return err
	}
	if c.prop.Kind == schema.KindEmbedded {
		for _, e := range c.elems {
			c.st.discardEmbeddedLocked(e)
		}
	}
	c.elems = nil
	return nil
}

func (c *coll) writable() error {
	if !c.st.inWrite {
		return fmt.Errorf("write: %w", errors.ErrStoreLogic)
	}
	if !c.row.valid {
		return fmt.Errorf("write: %w", errors.ErrStoreLogic)
	}
	return nil
}

// Stored representation: plain Go natives keyed by their dynamic type, so
// the transport tag can be reconstructed without a side table.

func storedOf(v transport.Value) (any, error) {
	switch v.Type() {
	case transport.TypeNull:
		return nil, nil
	case transport.TypeBool:
		return v.Bool(), nil
	case transport.TypeInt:
		return v.Int(), nil
	case transport.TypeFloat:
		return v.Float(), nil
	case transport.TypeDouble:
		return v.Double(), nil
	case transport.TypeString:
		return v.String(), nil
	case transport.TypeBytes:
		return v.BytesCopy(), nil
	case transport.TypeTimestamp:
		return v.Timestamp(), nil
	case transport.TypeDecimal128:
		return v.Decimal(), nil
	case transport.TypeObjectID:
		return v.ObjectID(), nil
	case transport.TypeUUID:
		return v.UUID(), nil
	case transport.TypeLink:
		return v.Link(), nil
	default:
		return nil, fmt.Errorf("stored value: %w", errors.ErrStoreTypeMismatch)
	}
}

func valueOf(stored any) transport.Value {
	switch x := stored.(type) {
	case nil:
		return transport.Null()
	case bool:
		return transport.Bool(x)
	case int64:
		return transport.Int(x)
	case float32:
		return transport.Float(x)
	case float64:
		return transport.Double(x)
	case string:
		return transport.String(x)
	case []byte:
		return transport.BytesOf(x)
	case time.Time:
		return transport.Timestamp(x)
	case primitive.Decimal128:
		return transport.Decimal(x)
	case primitive.ObjectID:
		return transport.ObjectID(x)
	case uuid.UUID:
		return transport.UUID(x)
	case transport.Link:
		return transport.LinkTo(x)
	default:
		return transport.Null()
	}
}

func storedEqual(a, b any) bool {
	ab, aok := a.([]byte)
	bb, bok := b.([]byte)
	if aok || bok {
		return aok && bok && bytes.Equal(ab, bb)
	}
	at, aok := a.(time.Time)
	bt, bok := b.(time.Time)
	if aok || bok {
		return aok && bok && at.Equal(bt)
	}
	return a == b
}

func checkValueKind(prop *schema.Property, v transport.Value) error {
	want, ok := expectedType(prop.Kind)
	if !ok {
		// Polymorphic columns accept any tagged value.
		return nil
	}
	if v.Type() != want {
		return errors.ErrStoreTypeMismatch
	}
	return nil
}

func expectedType(kind schema.Kind) (transport.Type, bool) {
	switch kind {
	case schema.KindBool:
		return transport.TypeBool, true
	case schema.KindInt:
		return transport.TypeInt, true
	case schema.KindFloat:
		return transport.TypeFloat, true
	case schema.KindDouble:
		return transport.TypeDouble, true
	case schema.KindString:
		return transport.TypeString, true
	case schema.KindBytes:
		return transport.TypeBytes, true
	case schema.KindTimestamp:
		return transport.TypeTimestamp, true
	case schema.KindDecimal128:
		return transport.TypeDecimal128, true
	case schema.KindObjectID:
		return transport.TypeObjectID, true
	case schema.KindUUID:
		return transport.TypeUUID, true
	case schema.KindLink, schema.KindEmbedded:
		return transport.TypeLink, true
	default:
		return transport.TypeNull, false
	}
}
