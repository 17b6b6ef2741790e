/*
 * Copyright © 2025 Hatchstone Labs, All rights reserved.
 */

package store

import (
	"github.com/hatchstone/objectlayer/transport"
)

// RowKey identifies a row within its class.
type RowKey uint64

// Engine is the storage engine surface this layer consumes. Everything
// here executes synchronously on the caller's thread inside a transaction
// scope the caller already opened; the engine never begins, commits or
// rolls back transactions on behalf of this layer.
type Engine interface {
	// InWriteTransaction reports whether a write transaction is active on
	// the owning session.
	InWriteTransaction() bool

	// CreateRow inserts a new row of the given class. When pk is non-nil
	// the row is created with that primary-key value; a duplicate fails
	// with ErrStoreDuplicateKey.
	CreateRow(classKey int64, pk *transport.Value) (Row, error)

	// FindByPrimaryKey locates the row of the class whose primary key
	// equals pk.
	FindByPrimaryKey(classKey int64, pk transport.Value) (Row, bool, error)

	// ResolveLink resolves a transport link to its live row.
	ResolveLink(l transport.Link) (Row, bool)

	// DeleteRow removes a row; its handles become invalid.
	DeleteRow(r Row) error

	// Backlinks returns the rows of the origin class currently referencing
	// target through the origin property, re-evaluated on each call.
	Backlinks(target Row, originClassKey, originPropKey int64) ([]Row, error)
}

// Row is the handle to one live row. Handles over the same row share
// identity through Key and ClassKey; a deleted row's handle reports
// IsValid false and every operation on it fails fast.
type Row interface {
	Key() RowKey
	ClassKey() int64
	IsValid() bool

	// Get reads the stored value of a single-valued property.
	Get(propKey int64) (transport.Value, error)

	// Put writes the transport value of a single-valued property.
	Put(propKey int64, v transport.Value) error

	// CreateEmbedded allocates a fresh embedded row in a single-valued
	// embedded slot, discarding any previously stored embedded row.
	CreateEmbedded(propKey int64) (Row, error)

	// Collection returns the handle of a list- or set-shaped property.
	Collection(propKey int64) (Collection, error)
}

// Collection is the handle to one list or set. Set-shaped collections
// de-duplicate on insert; list-shaped ones honor the insert index.
type Collection interface {
	// Handle is a stable identity for the backing collection, used to
	// detect whole-collection self-assignment.
	Handle() uint64

	Len() (int, error)
	Get(i int) (transport.Value, error)
	Insert(i int, v transport.Value) error

	// CreateEmbedded allocates a fresh embedded row as the element at i.
	CreateEmbedded(i int) (Row, error)

	Clear() error
}
