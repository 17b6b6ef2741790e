/*
 * Copyright © 2025 Hatchstone Labs, All rights reserved.
 */

package schema

import "fmt"

// Kind identifies the storage kind of a property value.
type Kind int

const (
	KindInvalid Kind = iota

	// Primitive kinds
	KindBool
	KindInt
	KindFloat  // 32-bit
	KindDouble // 64-bit
	KindString
	KindBytes
	KindTimestamp
	KindDecimal128
	KindObjectID // 96-bit identifier
	KindUUID     // 128-bit identifier

	// KindLink references an object of the declared target class.
	KindLink
	// KindEmbedded references an embedded object exclusively owned by the
	// parent row; embedded targets are never shared and are recreated on
	// every reassignment.
	KindEmbedded
	// KindAny holds any supported kind, decided per stored value.
	KindAny
	// KindBacklink is a computed, read-only view of the objects referencing
	// the receiver through a declared forward link. Never stored.
	KindBacklink
)

var kindNames = map[Kind]string{
	KindBool:       "bool",
	KindInt:        "int",
	KindFloat:      "float",
	KindDouble:     "double",
	KindString:     "string",
	KindBytes:      "bytes",
	KindTimestamp:  "timestamp",
	KindDecimal128: "decimal128",
	KindObjectID:   "objectId",
	KindUUID:       "uuid",
	KindLink:       "link",
	KindEmbedded:   "embedded",
	KindAny:        "any",
	KindBacklink:   "backlink",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsPrimitive reports whether the kind is a plain value kind, as opposed to
// a link, embedded, polymorphic or computed kind.
func (k Kind) IsPrimitive() bool {
	return k >= KindBool && k <= KindUUID
}

// IsLink reports whether the kind references another object.
func (k Kind) IsLink() bool {
	return k == KindLink || k == KindEmbedded
}

// Shape identifies the collection shape of a property.
type Shape int

const (
	ShapeNone Shape = iota
	ShapeList
	ShapeSet
	// ShapeDictionary is reserved; no operations are implemented for it.
	ShapeDictionary
)

func (s Shape) String() string {
	switch s {
	case ShapeNone:
		return "single"
	case ShapeList:
		return "list"
	case ShapeSet:
		return "set"
	case ShapeDictionary:
		return "dictionary"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// Property is the immutable metadata of one declared property.
type Property struct {
	// Key is the stable key the store resolves this property by.
	Key int64
	// Name is the declared property name.
	Name string
	// Kind is the storage kind of a single element.
	Kind Kind
	// Shape is the collection shape.
	Shape Shape
	// Nullable reports whether the stored value (or a collection element)
	// may be null.
	Nullable bool
	// PrimaryKey marks the class primary key; immutable after creation.
	PrimaryKey bool
	// Computed marks properties that are derived on read (backlinks) and
	// never written to storage.
	Computed bool
	// UserDefined distinguishes user-declared properties from ones the
	// store synthesizes.
	UserDefined bool
	// Target names the link target class for link, embedded and backlink
	// kinds.
	Target string
	// Origin names the forward link property on the target class that a
	// backlink inverts.
	Origin string
}

// Describe renders the declared type of the property for error messages,
// e.g. "list<link<Person>>" or "string?".
func (p *Property) Describe() string {
	return describeType(p.Shape, p.Kind, p.Target, p.Nullable)
}

func describeType(shape Shape, kind Kind, target string, nullable bool) string {
	elem := kind.String()
	if kind.IsLink() || kind == KindBacklink {
		if target != "" {
			elem = fmt.Sprintf("%s<%s>", kind, target)
		}
	}
	if nullable {
		elem += "?"
	}
	if shape == ShapeNone {
		return elem
	}
	return fmt.Sprintf("%s<%s>", shape, elem)
}

// DescribeType renders an arbitrary shape/kind/nullability triple the same
// way Property.Describe does, for expected-vs-actual error reporting.
func DescribeType(shape Shape, kind Kind, nullable bool) string {
	return describeType(shape, kind, "", nullable)
}

// Class is the immutable metadata of one declared class.
type Class struct {
	key        int64
	name       string
	props      []*Property
	byName     map[string]*Property
	byKey      map[int64]*Property
	primaryKey *Property
}

// NewClass builds a Class from declared properties. Property keys must be
// unique within the class; exactly one property may be flagged PrimaryKey.
func NewClass(key int64, name string, props []*Property) (*Class, error) {
	c := &Class{
		key:    key,
		name:   name,
		props:  props,
		byName: make(map[string]*Property, len(props)),
		byKey:  make(map[int64]*Property, len(props)),
	}
	for _, p := range props {
		if _, exists := c.byName[p.Name]; exists {
			return nil, fmt.Errorf("schema: class %q declares property %q twice", name, p.Name)
		}
		if _, exists := c.byKey[p.Key]; exists {
			return nil, fmt.Errorf("schema: class %q reuses property key %d", name, p.Key)
		}
		c.byName[p.Name] = p
		c.byKey[p.Key] = p
		if p.PrimaryKey {
			if c.primaryKey != nil {
				return nil, fmt.Errorf("schema: class %q declares multiple primary keys", name)
			}
			if p.Shape != ShapeNone || !p.Kind.IsPrimitive() {
				return nil, fmt.Errorf("schema: class %q primary key %q must be a single primitive value", name, p.Name)
			}
			c.primaryKey = p
		}
		if p.Kind == KindBacklink && !p.Computed {
			return nil, fmt.Errorf("schema: class %q backlink property %q must be computed", name, p.Name)
		}
	}
	return c, nil
}

// Key returns the stable class key.
func (c *Class) Key() int64 { return c.key }

// Name returns the declared class name.
func (c *Class) Name() string { return c.name }

// Properties returns the declared properties in declaration order. The
// returned slice is shared and must not be mutated.
func (c *Class) Properties() []*Property { return c.props }

// Property resolves a property by name.
func (c *Class) Property(name string) (*Property, bool) {
	p, ok := c.byName[name]
	return p, ok
}

// PropertyByKey resolves a property by its stable key.
func (c *Class) PropertyByKey(key int64) (*Property, bool) {
	p, ok := c.byKey[key]
	return p, ok
}

// PrimaryKey returns the primary-key property, or nil when the class does
// not declare one.
func (c *Class) PrimaryKey() *Property { return c.primaryKey }
