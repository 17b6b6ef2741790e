/*
 * Copyright © 2025 Hatchstone Labs, All rights reserved.
 */

package objectlayer

import "github.com/hatchstone/objectlayer/schema"

// detachEntry tracks one already-copied node and the remaining depth it
// was copied at, so a revisit with more depth left can deepen the same
// node instead of duplicating it.
type detachEntry struct {
	node  *Unmanaged
	depth int
}

// Detach copies the object graph into unmanaged values. Links and
// embedded objects are followed up to maxDepth hops; slots past the
// horizon read nil, and collections past it keep their length with nil
// elements. Scalar properties are copied at every level regardless of
// depth. A negative maxDepth means unlimited. The copy shares structure
// the way the store does: each row reached twice, including through a
// cycle, yields the same unmanaged node.
func (o *Object) Detach(maxDepth int) (*Unmanaged, error) {
	if err := o.checkValid(); err != nil {
		return nil, err
	}
	return o.detachObject(maxDepth, make(map[identity]*detachEntry))
}

func (o *Object) detachObject(remaining int, seen map[identity]*detachEntry) (*Unmanaged, error) {
	key := o.identity()
	ent, ok := seen[key]
	if ok && ent.depth >= remaining {
		return ent.node, nil
	}
	if !ok {
		ent = &detachEntry{node: NewUnmanaged(o.class.Name())}
		seen[key] = ent
	}
	ent.depth = remaining

	for _, prop := range o.class.Properties() {
		if prop.Computed || prop.Shape == schema.ShapeDictionary {
			continue
		}
		v, err := o.Get(prop.Name)
		if err != nil {
			return nil, err
		}
		dv, err := detachValue(v, remaining, seen)
		if err != nil {
			return nil, err
		}
		ent.node.Set(prop.Name, dv)
	}
	return ent.node, nil
}

// detachValue copies one read value. Managed objects recurse with one
// less hop; collections copy element-wise; everything else was already
// exported as an owned copy by the read path.
func detachValue(v any, remaining int, seen map[identity]*detachEntry) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case *Object:
		if remaining == 0 {
			return nil, nil
		}
		return t.detachObject(remaining-1, seen)
	case *List:
		elems, err := t.Elements()
		if err != nil {
			return nil, err
		}
		return detachElements(elems, remaining, seen)
	case *Set:
		elems, err := t.Elements()
		if err != nil {
			return nil, err
		}
		return detachElements(elems, remaining, seen)
	default:
		return v, nil
	}
}

func detachElements(elems []any, remaining int, seen map[identity]*detachEntry) ([]any, error) {
	out := make([]any, len(elems))
	for i, e := range elems {
		dv, err := detachValue(e, remaining, seen)
		if err != nil {
			return nil, err
		}
		out[i] = dv
	}
	return out, nil
}
