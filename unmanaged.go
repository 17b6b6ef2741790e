/*
 * Copyright © 2025 Hatchstone Labs, All rights reserved.
 */

package objectlayer

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Unmanaged is an order-preserving bag of property values used to stage
// an object before it is imported into a session. Property order follows
// first Set call, which keeps import behavior deterministic.
type Unmanaged struct {
	class string
	names []string
	props map[string]any
}

// NewUnmanaged returns an empty staging object for the named class.
func NewUnmanaged(class string) *Unmanaged {
	return &Unmanaged{class: class, props: make(map[string]any)}
}

// Set records a property value and returns the receiver for chaining.
// Setting a name again overwrites the value but keeps its original
// position.
func (u *Unmanaged) Set(name string, value any) *Unmanaged {
	if _, ok := u.props[name]; !ok {
		u.names = append(u.names, name)
	}
	u.props[name] = value
	return u
}

// Get returns a recorded value and whether the name was ever set.
func (u *Unmanaged) Get(name string) (any, bool) {
	v, ok := u.props[name]
	return v, ok
}

// Names returns the recorded property names in first-set order.
func (u *Unmanaged) Names() []string {
	out := make([]string, len(u.names))
	copy(out, u.names)
	return out
}

// Class returns the class name given at construction, which may be empty
// when the caller relies on the declared target of the property being
// assigned.
func (u *Unmanaged) Class() string {
	return u.class
}

// candidateField is one property of a candidate source in traversal
// order.
type candidateField struct {
	name  string
	value any
}

// candidate is the normalized view of an import source: either an
// already-managed object or a field list, plus an identity key for
// cycle-safe deduplication when the source has one.
type candidate struct {
	managed  *Object
	identity any
	fields   []candidateField
}

// candidateNode normalizes a source value into a candidate. Supported
// sources are *Unmanaged, map[string]any, *Object and plain structs or
// struct pointers read through a shallow exported-field walk.
func candidateNode(value any) (*candidate, error) {
	switch src := value.(type) {
	case *Unmanaged:
		c := &candidate{identity: identityOf(src)}
		for _, name := range src.names {
			c.fields = append(c.fields, candidateField{name: name, value: normalizeNil(src.props[name])})
		}
		return c, nil
	case map[string]any:
		names := make([]string, 0, len(src))
		for name := range src {
			names = append(names, name)
		}
		sort.Strings(names)
		c := &candidate{identity: identityOf(src)}
		for _, name := range names {
			c.fields = append(c.fields, candidateField{name: name, value: normalizeNil(src[name])})
		}
		return c, nil
	case *Object:
		return &candidate{managed: src, identity: src.identity()}, nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("nil candidate source")
		}
		c := structCandidate(rv.Elem())
		if c == nil {
			return nil, fmt.Errorf("unsupported candidate source %T", value)
		}
		c.identity = identityOf(value)
		return c, nil
	}
	if c := structCandidate(rv); c != nil {
		return c, nil
	}
	return nil, fmt.Errorf("unsupported candidate source %T", value)
}

// structCandidate walks the exported fields of a struct one level deep.
// A json tag renames or skips a field the way encoding/json would read
// it.
func structCandidate(rv reflect.Value) *candidate {
	if rv.Kind() != reflect.Struct || isScalarStruct(rv.Type()) {
		return nil
	}
	t := rv.Type()
	c := &candidate{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		fv := rv.Field(i)
		if isNilReflect(fv) {
			c.fields = append(c.fields, candidateField{name: name})
			continue
		}
		c.fields = append(c.fields, candidateField{name: name, value: fv.Interface()})
	}
	return c
}

// field returns the candidate's value for a property name.
func (c *candidate) field(name string) (any, bool) {
	for _, f := range c.fields {
		if f.name == name {
			return f.value, true
		}
	}
	return nil, false
}

// sourceIdentity is the cache key for pointer-backed candidate sources.
type sourceIdentity struct {
	ptr uintptr
	typ reflect.Type
}

// identityOf derives a dedup key for a candidate source. Only sources
// with pointer identity get one; value structs import as distinct
// objects every time.
func identityOf(value any) any {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map:
		return sourceIdentity{ptr: rv.Pointer(), typ: rv.Type()}
	default:
		return nil
	}
}

// isObjectLike reports whether a value can serve as a link or embedded
// candidate source.
func isObjectLike(value any) bool {
	switch value.(type) {
	case *Unmanaged, *Object, map[string]any:
		return true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	return rv.Kind() == reflect.Struct && !isScalarStruct(rv.Type())
}

// isScalarStruct filters struct types the converter treats as scalars so
// they never enter the object-graph walk.
func isScalarStruct(t reflect.Type) bool {
	switch t {
	case reflect.TypeOf(time.Time{}),
		reflect.TypeOf(primitive.Decimal128{}),
		reflect.TypeOf(primitive.ObjectID{}),
		reflect.TypeOf(uuid.UUID{}),
		reflect.TypeOf(strfmt.DateTime{}):
		return true
	}
	return false
}

// isNilValue reports whether a non-nil interface wraps a nil pointer,
// map or slice.
func isNilValue(value any) bool {
	if value == nil {
		return true
	}
	return isNilReflect(reflect.ValueOf(value))
}

func isNilReflect(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

// normalizeNil collapses typed-nil values to the untyped nil the write
// path expects.
func normalizeNil(value any) any {
	if isNilValue(value) {
		return nil
	}
	return value
}

// describeRuntime names a runtime value's type for error messages.
func describeRuntime(value any) string {
	return fmt.Sprintf("%T", value)
}
