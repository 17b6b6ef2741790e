/*
 * Copyright © 2025 Hatchstone Labs, All rights reserved.
 */

/*
Package schema describes the classes and properties of an object store
session as immutable metadata.

A Registry holds one Class per declared class name; each Class indexes its
Properties both by name and by stable key. Metadata never changes for the
lifetime of a session, so lookups require no defensive copies.

Schemas are usually produced by the store's metadata compiler, but a
declarative YAML form is accepted as well:

	Person:
	  properties:
	    name:       {type: string, primaryKey: true}
	    age:        {type: int}
	    bestFriend: {type: link, target: Person, nullable: true}
	    tags:       {type: string, shape: list}

	reg, err := schema.LoadYAML(data)
*/
package schema
