/*
 * Copyright © 2025 Hatchstone Labs, All rights reserved.
 */

package objectlayer

import (
	"github.com/hatchstone/objectlayer/errors"
	"github.com/hatchstone/objectlayer/schema"
	"github.com/hatchstone/objectlayer/transport"
)

// Assign writes every property of a candidate source onto the receiver.
// Computed properties and the primary key are skipped; everything else
// goes through the same validation and conversion as Set.
func (o *Object) Assign(source any, policy UpdatePolicy) error {
	if err := o.checkValid(); err != nil {
		return err
	}
	if !o.session.engine.InWriteTransaction() {
		return errors.NewNotInTransaction(o.class.Name(), "")
	}
	sc := transport.NewScope()
	defer sc.Close()

	return assignTo(sc, o, source, policy, make(importCache))
}

// assignTo is the recursive core shared by Assign, the importer and the
// embedded write path. The target is registered under the source's
// identity before any field is written so self-references in the source
// graph link back to the target instead of spawning new rows.
func assignTo(sc *transport.Scope, target *Object, source any, policy UpdatePolicy, cache importCache) error {
	if source == nil || isNilValue(source) {
		return nil
	}
	cand, err := candidateNode(source)
	if err != nil {
		return errors.NewUnsupportedValue(target.class.Name(), "", source)
	}
	if cand.managed != nil {
		return assignManaged(sc, target, cand.managed, policy, cache)
	}
	if cand.identity != nil {
		if _, ok := cache[cand.identity]; !ok {
			cache[cand.identity] = target
		}
	}
	return assignFields(sc, target, cand, policy, cache)
}

// assignManaged copies property values from one managed object onto
// another. Assigning an object over itself is a no-op.
func assignManaged(sc *transport.Scope, target, src *Object, policy UpdatePolicy, cache importCache) error {
	if src.session != target.session {
		return errors.NewInvalidObject(src.class.Name())
	}
	if err := src.checkValid(); err != nil {
		return err
	}
	if src.identity() == target.identity() {
		return nil
	}
	for _, prop := range src.class.Properties() {
		if prop.PrimaryKey || prop.Computed || prop.Shape == schema.ShapeDictionary {
			continue
		}
		tprop, ok := target.class.Property(prop.Name)
		if !ok {
			return errors.NewPropertyNotFound(target.class.Name(), prop.Name)
		}
		v, err := src.Get(prop.Name)
		if err != nil {
			return err
		}
		if err := target.setProperty(sc, tprop, v, policy, cache); err != nil {
			return err
		}
	}
	return nil
}
