/*
 * Copyright © 2025 Hatchstone Labs, All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrSchemaMismatch is returned when a requested shape, kind or
	// nullability disagrees with the declared property metadata.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrUnsupportedValue is returned when a runtime value matches no
	// declared storage kind.
	ErrUnsupportedValue = errors.New("unsupported value")

	// ErrPrimaryKeyImmutable is returned on writes to a primary-key
	// property after object creation.
	ErrPrimaryKeyImmutable = errors.New("primary key is immutable")

	// ErrNotInTransaction is returned when a mutation is attempted outside
	// an active write transaction.
	ErrNotInTransaction = errors.New("not in a write transaction")

	// ErrConstraintViolation is returned when an import would duplicate an
	// existing primary key.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrUnknownCollectionShape is returned when a reserved or
	// unimplemented collection shape is requested.
	ErrUnknownCollectionShape = errors.New("unknown collection shape")

	// ErrPropertyNotFound is returned when a property name resolves to no
	// declared property.
	ErrPropertyNotFound = errors.New("property not found")

	// ErrInvalidObject is returned when an invalidated object reference is
	// used.
	ErrInvalidObject = errors.New("object is no longer valid")
)

// SchemaMismatchError reports a disagreement between a requested property
// type and the declared one, carrying both descriptors.
type SchemaMismatchError struct {
	Class    string
	Property string
	Expected string
	Actual   string
}

func (e *SchemaMismatchError) Error() string {
	if e.Property == "" {
		return fmt.Sprintf("schema mismatch on %s: expected %s, got %s",
			e.Class, e.Expected, e.Actual)
	}
	return fmt.Sprintf("schema mismatch on %s.%s: expected %s, got %s",
		e.Class, e.Property, e.Expected, e.Actual)
}

func (e *SchemaMismatchError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

// UnsupportedValueError reports a value whose runtime shape matches no
// declared storage kind.
type UnsupportedValueError struct {
	Class    string
	Property string
	Value    any
}

func (e *UnsupportedValueError) Error() string {
	if e.Class == "" && e.Property == "" {
		return fmt.Sprintf("unsupported value %v (%T)", e.Value, e.Value)
	}
	return fmt.Sprintf("unsupported value %v (%T) for %s.%s", e.Value, e.Value, e.Class, e.Property)
}

func (e *UnsupportedValueError) Is(target error) bool {
	return target == ErrUnsupportedValue
}

// PrimaryKeyError reports a rejected write to a primary-key property.
type PrimaryKeyError struct {
	Class    string
	Property string
}

func (e *PrimaryKeyError) Error() string {
	return fmt.Sprintf("cannot modify primary key %s.%s after creation", e.Class, e.Property)
}

func (e *PrimaryKeyError) Is(target error) bool {
	return target == ErrPrimaryKeyImmutable
}

// NotInTransactionError reports a mutation attempted outside a write
// transaction.
type NotInTransactionError struct {
	Class    string
	Property string
}

func (e *NotInTransactionError) Error() string {
	if e.Property == "" {
		return fmt.Sprintf("cannot modify %s outside of a write transaction", e.Class)
	}
	return fmt.Sprintf("cannot modify %s.%s outside of a write transaction", e.Class, e.Property)
}

func (e *NotInTransactionError) Is(target error) bool {
	return target == ErrNotInTransaction
}

// ConstraintViolationError reports a duplicate primary key.
type ConstraintViolationError struct {
	Class string
	Key   any
}

func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("object of class %s with primary key %v already exists", e.Class, e.Key)
}

func (e *ConstraintViolationError) Is(target error) bool {
	return target == ErrConstraintViolation
}

// UnknownCollectionShapeError reports a request for a reserved or
// unimplemented collection shape.
type UnknownCollectionShapeError struct {
	Class    string
	Property string
	Shape    string
}

func (e *UnknownCollectionShapeError) Error() string {
	return fmt.Sprintf("collection shape %s of %s.%s is not implemented", e.Shape, e.Class, e.Property)
}

func (e *UnknownCollectionShapeError) Is(target error) bool {
	return target == ErrUnknownCollectionShape
}

// PropertyNotFoundError reports a property name with no declaration.
type PropertyNotFoundError struct {
	Class    string
	Property string
}

func (e *PropertyNotFoundError) Error() string {
	return fmt.Sprintf("class %s has no property named %q", e.Class, e.Property)
}

func (e *PropertyNotFoundError) Is(target error) bool {
	return target == ErrPropertyNotFound
}

// InvalidObjectError reports a use of an invalidated object reference.
type InvalidObjectError struct {
	Class string
}

func (e *InvalidObjectError) Error() string {
	return fmt.Sprintf("object of class %s has been deleted or invalidated", e.Class)
}

func (e *InvalidObjectError) Is(target error) bool {
	return target == ErrInvalidObject
}

// Helper functions for creating errors

// NewSchemaMismatch creates a new SchemaMismatchError.
func NewSchemaMismatch(class, property, expected, actual string) error {
	return &SchemaMismatchError{Class: class, Property: property, Expected: expected, Actual: actual}
}

// NewUnsupportedValue creates a new UnsupportedValueError.
func NewUnsupportedValue(class, property string, value any) error {
	return &UnsupportedValueError{Class: class, Property: property, Value: value}
}

// NewPrimaryKeyImmutable creates a new PrimaryKeyError.
func NewPrimaryKeyImmutable(class, property string) error {
	return &PrimaryKeyError{Class: class, Property: property}
}

// NewNotInTransaction creates a new NotInTransactionError.
func NewNotInTransaction(class, property string) error {
	return &NotInTransactionError{Class: class, Property: property}
}

// NewConstraintViolation creates a new ConstraintViolationError.
func NewConstraintViolation(class string, key any) error {
	return &ConstraintViolationError{Class: class, Key: key}
}

// NewUnknownCollectionShape creates a new UnknownCollectionShapeError.
func NewUnknownCollectionShape(class, property, shape string) error {
	return &UnknownCollectionShapeError{Class: class, Property: property, Shape: shape}
}

// NewPropertyNotFound creates a new PropertyNotFoundError.
func NewPropertyNotFound(class, property string) error {
	return &PropertyNotFoundError{Class: class, Property: property}
}

// NewInvalidObject creates a new InvalidObjectError.
func NewInvalidObject(class string) error {
	return &InvalidObjectError{Class: class}
}

// IsSchemaMismatch checks if an error is a schema mismatch error.
func IsSchemaMismatch(err error) bool {
	return errors.Is(err, ErrSchemaMismatch)
}

// IsUnsupportedValue checks if an error is an unsupported value error.
func IsUnsupportedValue(err error) bool {
	return errors.Is(err, ErrUnsupportedValue)
}

// IsPrimaryKeyImmutable checks if an error is a primary-key write rejection.
func IsPrimaryKeyImmutable(err error) bool {
	return errors.Is(err, ErrPrimaryKeyImmutable)
}

// IsNotInTransaction checks if an error is a missing write transaction error.
func IsNotInTransaction(err error) bool {
	return errors.Is(err, ErrNotInTransaction)
}

// IsConstraintViolation checks if an error is a duplicate primary key error.
func IsConstraintViolation(err error) bool {
	return errors.Is(err, ErrConstraintViolation)
}

// IsUnknownCollectionShape checks if an error is an unimplemented shape error.
func IsUnknownCollectionShape(err error) bool {
	return errors.Is(err, ErrUnknownCollectionShape)
}

// IsPropertyNotFound checks if an error is a missing property error.
func IsPropertyNotFound(err error) bool {
	return errors.Is(err, ErrPropertyNotFound)
}

// IsInvalidObject checks if an error is an invalidated reference error.
func IsInvalidObject(err error) bool {
	return errors.Is(err, ErrInvalidObject)
}
