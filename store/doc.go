/*
Package store defines the storage-engine surface the object layer
consumes: row handles addressed by stable property keys, list and set
collection handles with stable identity, embedded-row allocation, and
backlink resolution.

The engine itself (row storage, transactions, indexes, queries) lives
behind these interfaces and is not implemented here. Engines report
failures through the closed low-level error set in the errors package
(errors.ErrStoreNotNullable and friends), which errors.Translate maps
onto the domain taxonomy.

The memstore subpackage provides an in-memory engine for tests and
embedding scenarios.
*/
package store
