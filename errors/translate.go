/*
 * Copyright © 2025 Hatchstone Labs, All rights reserved.
 */

package errors

import "errors"

// Low-level store errors. Storage engines surface failures through this
// closed set; Translate maps them onto the domain taxonomy above.
var (
	// ErrStoreNotNullable reports a null write to a non-nullable column.
	ErrStoreNotNullable = errors.New("store: column is not nullable")

	// ErrStoreTypeMismatch reports a value whose stored type disagrees with
	// the column type.
	ErrStoreTypeMismatch = errors.New("store: value type mismatch")

	// ErrStoreDuplicateKey reports a uniqueness violation on insert.
	ErrStoreDuplicateKey = errors.New("store: duplicate key")

	// ErrStoreLogic reports a generic illegal operation inside the engine.
	ErrStoreLogic = errors.New("store: logic error")
)

// Translate maps a low-level store error onto the domain error taxonomy,
// attaching the class and property under access and the attempted value.
// A nil error passes through. Errors already belonging to the domain
// taxonomy pass through unchanged. Unrecognized engine failures are, in
// practice, mutations attempted outside a write transaction, and default
// to that message.
func Translate(err error, class, property string, value any) error {
	if err == nil {
		return nil
	}
	if isDomain(err) {
		return err
	}

	switch {
	case errors.Is(err, ErrStoreNotNullable):
		return NewSchemaMismatch(class, property, "non-null value", "null")
	case errors.Is(err, ErrStoreTypeMismatch):
		return NewUnsupportedValue(class, property, value)
	case errors.Is(err, ErrStoreDuplicateKey):
		return NewConstraintViolation(class, value)
	case errors.Is(err, ErrStoreLogic):
		return NewNotInTransaction(class, property)
	default:
		return NewNotInTransaction(class, property)
	}
}

func isDomain(err error) bool {
	for _, sentinel := range []error{
		ErrSchemaMismatch,
		ErrUnsupportedValue,
		ErrPrimaryKeyImmutable,
		ErrNotInTransaction,
		ErrConstraintViolation,
		ErrUnknownCollectionShape,
		ErrPropertyNotFound,
		ErrInvalidObject,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
