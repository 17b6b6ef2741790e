/*
Package objectlayer provides the property marshalling and object graph
materialization layer between application values and a schema-described
embedded object store.

The library sits between two worlds:
  - Application side: plain Go structs, maps, *Unmanaged staging objects
    and managed *Object handles
  - Store side: a storage engine speaking tagged transport values behind
    the store.Engine interface

Key Features:
  - Schema-validated property access with typed error taxonomy
  - Tagged transport values with pooled scratch allocation
  - Cycle-safe object graph import with conflict policies
  - Detached deep copies with a configurable link-depth horizon
  - Live, re-evaluated backlink views
  - Dynamic read and write access checked against declared metadata
  - In-memory reference engine for testing

Basic Usage:

	// Load a schema and open a session over an engine
	reg, _ := schema.LoadYAML(specBytes)
	eng := memstore.New(reg)
	sess := objectlayer.NewSession(eng, reg)

	// Materialize a candidate graph inside a write transaction
	eng.BeginWrite()
	person, _ := sess.Import("Person", objectlayer.NewUnmanaged("Person").
		Set("id", int64(1)).
		Set("name", "Ada"), objectlayer.PolicyUpdateExisting)
	eng.EndWrite()

	// Read it back
	name, _ := person.Get("name")

Type Widenings:

Writes never coerce between kinds silently. The only admitted widenings
are numeric: a Go int or float32 value is accepted by a double property
(int64 values above 2^53 lose precision on that path), and the canonical
string encodings of decimal128, objectId and uuid are accepted by
properties of those kinds, failing with UnsupportedValue when the
literal does not parse. Everything else is a SchemaMismatch.

For more information, see the documentation at https://github.com/hatchstone/objectlayer
*/
package objectlayer
