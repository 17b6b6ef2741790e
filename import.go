/*
 * Copyright © 2025 Hatchstone Labs, All rights reserved.
 */

package objectlayer

import (
	"github.com/hatchstone/objectlayer/errors"
	"github.com/hatchstone/objectlayer/schema"
	"github.com/hatchstone/objectlayer/transport"
)

// UpdatePolicy selects how Import treats a candidate whose primary key
// already exists in the store.
type UpdatePolicy int

const (
	// PolicyErrorOnConflict fails the whole import when any candidate's
	// primary key is already present.
	PolicyErrorOnConflict UpdatePolicy = iota

	// PolicyUpdateExisting reuses the existing row and assigns the
	// candidate's properties over it.
	PolicyUpdateExisting

	// PolicyAlwaysCreate inserts every candidate as a new row and fails
	// when a primary key collides.
	PolicyAlwaysCreate
)

// importCache deduplicates candidate sources within one import call so a
// cyclic graph materializes each node exactly once. Keys are source
// identities; registration happens before recursion.
type importCache map[any]*Object

// Import materializes a candidate object graph into managed objects of
// the named class. The same source instance reached twice, including
// through a cycle, yields the same managed object.
func (s *Session) Import(className string, source any, policy UpdatePolicy) (*Object, error) {
	if !s.engine.InWriteTransaction() {
		return nil, errors.NewNotInTransaction(className, "")
	}
	class, err := s.reg.Class(className)
	if err != nil {
		return nil, err
	}
	sc := transport.NewScope()
	defer sc.Close()

	return s.importObject(sc, class, source, policy, make(importCache))
}

// importObject materializes one candidate node. The created object is
// cached before its properties are assigned so recursive references back
// to the node resolve through the cache instead of recursing forever.
func (s *Session) importObject(sc *transport.Scope, class *schema.Class, source any, policy UpdatePolicy, cache importCache) (*Object, error) {
	if source == nil || isNilValue(source) {
		return nil, nil
	}
	cand, err := candidateNode(source)
	if err != nil {
		return nil, errors.NewUnsupportedValue(class.Name(), "", source)
	}
	if cand.managed != nil {
		if cand.managed.session != s {
			return nil, errors.NewInvalidObject(cand.managed.class.Name())
		}
		if err := cand.managed.checkValid(); err != nil {
			return nil, err
		}
		if cand.managed.class.Key() != class.Key() {
			return nil, errors.NewSchemaMismatch(class.Name(), "", class.Name(), cand.managed.class.Name())
		}
		return cand.managed, nil
	}
	if cand.identity != nil {
		if obj, ok := cache[cand.identity]; ok {
			return obj, nil
		}
	}

	obj, err := s.locateOrCreate(sc, class, cand, policy)
	if err != nil {
		return nil, err
	}
	if cand.identity != nil {
		cache[cand.identity] = obj
	}

	return obj, assignFields(sc, obj, cand, policy, cache)
}

// locateOrCreate resolves the candidate's primary key against the store
// and applies the conflict policy.
func (s *Session) locateOrCreate(sc *transport.Scope, class *schema.Class, cand *candidate, policy UpdatePolicy) (*Object, error) {
	pkProp := class.PrimaryKey()
	if pkProp == nil {
		row, err := s.engine.CreateRow(class.Key(), nil)
		if err != nil {
			return nil, errors.Translate(err, class.Name(), "", nil)
		}
		return &Object{session: s, class: class, row: row}, nil
	}

	pkValue, ok := cand.field(pkProp.Name)
	if !ok || pkValue == nil {
		row, err := s.engine.CreateRow(class.Key(), nil)
		if err != nil {
			return nil, errors.Translate(err, class.Name(), pkProp.Name, nil)
		}
		return &Object{session: s, class: class, row: row}, nil
	}

	pk, err := toPropertyValue(sc, class, pkProp, pkValue)
	if err != nil {
		return nil, err
	}
	existing, found, err := s.engine.FindByPrimaryKey(class.Key(), pk)
	if err != nil {
		return nil, errors.Translate(err, class.Name(), pkProp.Name, pkValue)
	}
	if found {
		switch policy {
		case PolicyUpdateExisting:
			return &Object{session: s, class: class, row: existing}, nil
		default:
			return nil, errors.NewConstraintViolation(class.Name(), pkValue)
		}
	}

	row, err := s.engine.CreateRow(class.Key(), &pk)
	if err != nil {
		return nil, errors.Translate(err, class.Name(), pkProp.Name, pkValue)
	}
	return &Object{session: s, class: class, row: row}, nil
}

// assignFields writes the candidate's fields onto a managed object.
// Unknown names fail, computed properties are skipped, and the primary
// key is skipped because locateOrCreate already consumed it.
func assignFields(sc *transport.Scope, obj *Object, cand *candidate, policy UpdatePolicy, cache importCache) error {
	for _, f := range cand.fields {
		prop, ok := obj.class.Property(f.name)
		if !ok {
			return errors.NewPropertyNotFound(obj.class.Name(), f.name)
		}
		if prop.PrimaryKey || prop.Computed {
			continue
		}
		if err := obj.setProperty(sc, prop, f.value, policy, cache); err != nil {
			return err
		}
	}
	return nil
}

// importLinkTarget materializes the target of a link-valued write on a
// property of the owning class. The target class comes from the
// property's declared target, or from the candidate itself when the
// property is kind any.
func (s *Session) importLinkTarget(sc *transport.Scope, owner *schema.Class, prop *schema.Property, value any, policy UpdatePolicy, cache importCache) (*Object, error) {
	if value == nil || isNilValue(value) {
		return nil, nil
	}
	if obj, ok := value.(*Object); ok {
		if obj.session != s {
			return nil, errors.NewInvalidObject(obj.class.Name())
		}
		if err := obj.checkValid(); err != nil {
			return nil, err
		}
		if prop.Kind == schema.KindLink && obj.class.Name() != prop.Target {
			return nil, errors.NewSchemaMismatch(owner.Name(), prop.Name, prop.Describe(), obj.class.Name())
		}
		return obj, nil
	}

	targetName := prop.Target
	if prop.Kind == schema.KindAny {
		u, ok := value.(*Unmanaged)
		if !ok || u.Class() == "" {
			return nil, errors.NewUnsupportedValue(owner.Name(), prop.Name, value)
		}
		targetName = u.Class()
	}
	class, err := s.reg.Class(targetName)
	if err != nil {
		return nil, err
	}
	return s.importObject(sc, class, value, policy, cache)
}
