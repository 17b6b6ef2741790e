/*
Package errors provides semantic error types for the objectlayer library.

The package defines the closed domain error taxonomy with specific types
that can be checked using the standard errors.Is() function or the
provided helper functions.

Common Errors:

	var (
	    ErrSchemaMismatch         = errors.New("schema mismatch")
	    ErrUnsupportedValue       = errors.New("unsupported value")
	    ErrPrimaryKeyImmutable    = errors.New("primary key is immutable")
	    ErrNotInTransaction       = errors.New("not in a write transaction")
	    ErrConstraintViolation    = errors.New("constraint violation")
	    ErrUnknownCollectionShape = errors.New("unknown collection shape")
	    ErrPropertyNotFound       = errors.New("property not found")
	    ErrInvalidObject          = errors.New("object is no longer valid")
	)

Usage:

	// Check error type
	err := obj.Set("age", "forty")
	if err != nil {
	    if errors.IsSchemaMismatch(err) {
	        // Handle the type disagreement
	    }
	    return err
	}

	// Create typed errors
	err := errors.NewSchemaMismatch("Person", "age", "int", "string")
	err := errors.NewConstraintViolation("Person", "p-1")

The package also declares the closed set of low-level store errors that
storage engines surface, and Translate, which maps them onto the domain
taxonomy while attaching the class and property under access and the
attempted value. Every detected mismatch fails before any store mutation;
nothing at this layer is retried.

The error types implement the error interface and support wrapping,
making them compatible with Go's standard error handling patterns.
*/
package errors
