/*
 * Copyright © 2025 Hatchstone Labs, All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSchemaMismatchError(t *testing.T) {
	err := NewSchemaMismatch("Person", "age", "int", "string")

	// Test error message
	expected := "schema mismatch on Person.age: expected int, got string"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	// Test Is method
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Error("SchemaMismatchError should match ErrSchemaMismatch")
	}

	// Test helper function
	if !IsSchemaMismatch(err) {
		t.Error("IsSchemaMismatch should return true for SchemaMismatchError")
	}
}

func TestUnsupportedValueError(t *testing.T) {
	err := NewUnsupportedValue("Person", "age", "abc")

	expected := `unsupported value abc (string) for Person.age`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
	if !errors.Is(err, ErrUnsupportedValue) {
		t.Error("UnsupportedValueError should match ErrUnsupportedValue")
	}
	if !IsUnsupportedValue(err) {
		t.Error("IsUnsupportedValue should return true for UnsupportedValueError")
	}

	// Without class and property context
	bare := NewUnsupportedValue("", "", 1.5)
	if bare.Error() != "unsupported value 1.5 (float64)" {
		t.Errorf("Unexpected bare message %q", bare.Error())
	}
}

func TestPrimaryKeyError(t *testing.T) {
	err := NewPrimaryKeyImmutable("Person", "id")

	expected := "cannot modify primary key Person.id after creation"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
	if !errors.Is(err, ErrPrimaryKeyImmutable) {
		t.Error("PrimaryKeyError should match ErrPrimaryKeyImmutable")
	}
	if !IsPrimaryKeyImmutable(err) {
		t.Error("IsPrimaryKeyImmutable should return true for PrimaryKeyError")
	}
}

func TestNotInTransactionError(t *testing.T) {
	tests := []struct {
		name     string
		class    string
		property string
		expected string
	}{
		{
			name:     "with property",
			class:    "Person",
			property: "name",
			expected: "cannot modify Person.name outside of a write transaction",
		},
		{
			name:     "class only",
			class:    "Person",
			property: "",
			expected: "cannot modify Person outside of a write transaction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewNotInTransaction(tt.class, tt.property)
			if err.Error() != tt.expected {
				t.Errorf("Expected error message %q, got %q", tt.expected, err.Error())
			}
			if !IsNotInTransaction(err) {
				t.Error("IsNotInTransaction should return true")
			}
		})
	}
}

func TestConstraintViolationError(t *testing.T) {
	err := NewConstraintViolation("Person", int64(42))

	expected := "object of class Person with primary key 42 already exists"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
	if !IsConstraintViolation(err) {
		t.Error("IsConstraintViolation should return true for ConstraintViolationError")
	}
}

func TestUnknownCollectionShapeError(t *testing.T) {
	err := NewUnknownCollectionShape("Person", "tags", "dictionary")

	expected := "collection shape dictionary of Person.tags is not implemented"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
	if !IsUnknownCollectionShape(err) {
		t.Error("IsUnknownCollectionShape should return true")
	}
}

func TestPropertyNotFoundError(t *testing.T) {
	err := NewPropertyNotFound("Person", "agee")

	expected := `class Person has no property named "agee"`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
	if !IsPropertyNotFound(err) {
		t.Error("IsPropertyNotFound should return true for PropertyNotFoundError")
	}
}

func TestInvalidObjectError(t *testing.T) {
	err := NewInvalidObject("Person")

	expected := "object of class Person has been deleted or invalidated"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
	if !IsInvalidObject(err) {
		t.Error("IsInvalidObject should return true for InvalidObjectError")
	}
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name  string
		in    error
		check func(error) bool
	}{
		{"not nullable", ErrStoreNotNullable, IsSchemaMismatch},
		{"type mismatch", ErrStoreTypeMismatch, IsUnsupportedValue},
		{"duplicate key", ErrStoreDuplicateKey, IsConstraintViolation},
		{"logic error", ErrStoreLogic, IsNotInTransaction},
		{"unrecognized", errors.New("boom"), IsNotInTransaction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Translate(tt.in, "Person", "name", "v")
			if !tt.check(out) {
				t.Errorf("Translate(%v) = %v, wrong domain class", tt.in, out)
			}
		})
	}
}

func TestTranslateWrapped(t *testing.T) {
	// Engines wrap sentinels with context; Translate unwraps through them.
	wrapped := fmt.Errorf("put Person.name: %w", ErrStoreNotNullable)
	if !IsSchemaMismatch(Translate(wrapped, "Person", "name", nil)) {
		t.Error("wrapped sentinel should translate by errors.Is")
	}
}

func TestTranslatePassthrough(t *testing.T) {
	if Translate(nil, "Person", "name", nil) != nil {
		t.Error("nil should pass through")
	}

	domain := NewPrimaryKeyImmutable("Person", "id")
	if Translate(domain, "Person", "id", nil) != domain {
		t.Error("domain errors should pass through unchanged")
	}
}
