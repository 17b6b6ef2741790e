/*
 * Copyright © 2025 Hatchstone Labs, All rights reserved.
 */

package objectlayer

import (
	"fmt"

	"github.com/hatchstone/objectlayer/errors"
	"github.com/hatchstone/objectlayer/schema"
	"github.com/hatchstone/objectlayer/store"
	"github.com/hatchstone/objectlayer/transport"
)

// Session binds a storage engine to a schema snapshot. Every operation
// executes synchronously on the caller's thread inside a transaction scope
// the caller already opened; the session never begins, commits or rolls
// back transactions. A Session and the objects resolved through it are
// confined to one thread; cross-thread access must be arbitrated outside
// this layer.
type Session struct {
	engine store.Engine
	reg    *schema.Registry
}

// NewSession creates a session over an open engine and its schema.
func NewSession(engine store.Engine, reg *schema.Registry) *Session {
	return &Session{engine: engine, reg: reg}
}

// Schema returns the session's schema registry.
func (s *Session) Schema() *schema.Registry { return s.reg }

// Engine returns the underlying storage engine.
func (s *Session) Engine() store.Engine { return s.engine }

// Create inserts a new managed object of the given class. Classes with a
// declared primary key require exactly one primaryKey argument; the key is
// immutable afterwards.
func (s *Session) Create(className string, primaryKey ...any) (*Object, error) {
	class, err := s.reg.Class(className)
	if err != nil {
		return nil, err
	}
	if !s.engine.InWriteTransaction() {
		return nil, errors.NewNotInTransaction(className, "")
	}

	sc := transport.NewScope()
	defer sc.Close()

	var pkVal *transport.Value
	var pkRaw any
	pkProp := class.PrimaryKey()
	switch {
	case pkProp == nil && len(primaryKey) > 0:
		return nil, fmt.Errorf("class %s declares no primary key", className)
	case pkProp != nil:
		if len(primaryKey) != 1 {
			return nil, errors.NewSchemaMismatch(className, pkProp.Name, pkProp.Describe(), "missing primary key value")
		}
		pkRaw = primaryKey[0]
		v, err := toPropertyValue(sc, class, pkProp, pkRaw)
		if err != nil {
			return nil, err
		}
		pkVal = &v
	}

	row, err := s.engine.CreateRow(class.Key(), pkVal)
	if err != nil {
		return nil, errors.Translate(err, className, "", pkRaw)
	}
	return &Object{session: s, class: class, row: row}, nil
}

// Find locates a managed object by its primary-key value. A missing object
// returns nil with no error.
func (s *Session) Find(className string, primaryKey any) (*Object, error) {
	class, err := s.reg.Class(className)
	if err != nil {
		return nil, err
	}
	pkProp := class.PrimaryKey()
	if pkProp == nil {
		return nil, fmt.Errorf("class %s declares no primary key", className)
	}

	sc := transport.NewScope()
	defer sc.Close()

	pkVal, err := toPropertyValue(sc, class, pkProp, primaryKey)
	if err != nil {
		return nil, err
	}
	row, found, err := s.engine.FindByPrimaryKey(class.Key(), pkVal)
	if err != nil {
		return nil, errors.Translate(err, className, pkProp.Name, primaryKey)
	}
	if !found {
		return nil, nil
	}
	return &Object{session: s, class: class, row: row}, nil
}

// Delete removes a managed object; outstanding references to it become
// invalid and fail fast on use.
func (s *Session) Delete(obj *Object) error {
	if err := obj.checkValid(); err != nil {
		return err
	}
	if !s.engine.InWriteTransaction() {
		return errors.NewNotInTransaction(obj.class.Name(), "")
	}
	if err := s.engine.DeleteRow(obj.row); err != nil {
		return errors.Translate(err, obj.class.Name(), "", nil)
	}
	return nil
}

func (s *Session) resolve(l transport.Link) (*Object, error) {
	row, ok := s.engine.ResolveLink(l)
	if !ok {
		class, err := s.reg.ClassByKey(l.ClassKey)
		name := "unknown"
		if err == nil {
			name = class.Name()
		}
		return nil, errors.NewInvalidObject(name)
	}
	class, err := s.reg.ClassByKey(l.ClassKey)
	if err != nil {
		return nil, err
	}
	return &Object{session: s, class: class, row: row}, nil
}

// Object is a managed reference to one live row. Wrappers over the same
// row share the row handle; once the row is deleted every operation fails
// with errors.ErrInvalidObject.
type Object struct {
	session *Session
	class   *schema.Class
	row     store.Row
}

// Session returns the owning session.
func (o *Object) Session() *Session { return o.session }

// Class returns the object's class metadata.
func (o *Object) Class() *schema.Class { return o.class }

// Key returns the row key within the class.
func (o *Object) Key() store.RowKey { return o.row.Key() }

// IsValid reports whether the backing row is still live.
func (o *Object) IsValid() bool {
	return o != nil && o.row.IsValid()
}

func (o *Object) checkValid() error {
	if o == nil || o.row == nil {
		return errors.NewInvalidObject("unknown")
	}
	if !o.row.IsValid() {
		return errors.NewInvalidObject(o.class.Name())
	}
	return nil
}

func (o *Object) link() transport.Link {
	return transport.Link{ClassKey: o.class.Key(), RowKey: uint64(o.row.Key())}
}

// identity keys the detach cache: one unmanaged copy per live row.
type identity struct {
	classKey int64
	rowKey   store.RowKey
}

func (o *Object) identity() identity {
	return identity{classKey: o.class.Key(), rowKey: o.row.Key()}
}
