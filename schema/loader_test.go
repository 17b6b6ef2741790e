/*
 * Copyright © 2025 Hatchstone Labs, All rights reserved.
 */

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personSchema = `
Person:
  properties:
    id:
      type: int
      primaryKey: true
    name:
      type: string
    age:
      type: int
      nullable: true
    bestFriend:
      type: link
      target: Person
    address:
      type: embedded
      target: Address
      nullable: true
    tags:
      type: string
      shape: set
    scores:
      type: double
      shape: list
    fans:
      type: backlink
      target: Person
      origin: bestFriend
Address:
  properties:
    street:
      type: string
    city:
      type: string
      nullable: true
`

func TestLoadYAML(t *testing.T) {
	reg, err := LoadYAML([]byte(personSchema))
	require.NoError(t, err)

	person, err := reg.Class("Person")
	require.NoError(t, err)
	address, err := reg.Class("Address")
	require.NoError(t, err)

	// Keys are assigned in declaration order
	assert.Equal(t, int64(1), person.Key())
	assert.Equal(t, int64(2), address.Key())

	id, ok := person.Property("id")
	require.True(t, ok)
	assert.Equal(t, int64(1), id.Key)
	assert.True(t, id.PrimaryKey)
	assert.Same(t, id, person.PrimaryKey())

	name, ok := person.Property("name")
	require.True(t, ok)
	assert.Equal(t, int64(2), name.Key)
	assert.False(t, name.Nullable)

	age, ok := person.Property("age")
	require.True(t, ok)
	assert.True(t, age.Nullable)

	// Single regular links are forced nullable
	bestFriend, ok := person.Property("bestFriend")
	require.True(t, ok)
	assert.Equal(t, KindLink, bestFriend.Kind)
	assert.True(t, bestFriend.Nullable)
	assert.Equal(t, "Person", bestFriend.Target)

	tags, ok := person.Property("tags")
	require.True(t, ok)
	assert.Equal(t, ShapeSet, tags.Shape)
	assert.Equal(t, KindString, tags.Kind)

	fans, ok := person.Property("fans")
	require.True(t, ok)
	assert.Equal(t, KindBacklink, fans.Kind)
	assert.True(t, fans.Computed)
	assert.Equal(t, "bestFriend", fans.Origin)
}

func TestLoadYAMLStableKeys(t *testing.T) {
	a, err := LoadYAML([]byte(personSchema))
	require.NoError(t, err)
	b, err := LoadYAML([]byte(personSchema))
	require.NoError(t, err)

	pa, _ := a.Class("Person")
	pb, _ := b.Class("Person")
	require.Equal(t, len(pa.Properties()), len(pb.Properties()))
	for i, p := range pa.Properties() {
		assert.Equal(t, p.Key, pb.Properties()[i].Key)
		assert.Equal(t, p.Name, pb.Properties()[i].Name)
	}
}

func TestLoadYAMLErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "unknown type",
			doc:     "Person:\n  properties:\n    name:\n      type: varchar\n",
			wantErr: `unknown type "varchar"`,
		},
		{
			name:    "unknown shape",
			doc:     "Person:\n  properties:\n    name:\n      type: string\n      shape: bag\n",
			wantErr: `unknown shape "bag"`,
		},
		{
			name:    "link without target",
			doc:     "Person:\n  properties:\n    friend:\n      type: link\n",
			wantErr: "requires a target class",
		},
		{
			name:    "link to unknown class",
			doc:     "Person:\n  properties:\n    friend:\n      type: link\n      target: Ghost\n",
			wantErr: `targets unknown class "Ghost"`,
		},
		{
			name:    "backlink without origin",
			doc:     "Person:\n  properties:\n    fans:\n      type: backlink\n      target: Person\n",
			wantErr: "requires target and origin",
		},
		{
			name: "backlink inverting a non-link",
			doc: "Person:\n  properties:\n    name:\n      type: string\n" +
				"    fans:\n      type: backlink\n      target: Person\n      origin: name\n",
			wantErr: "does not link back",
		},
		{
			name:    "no properties",
			doc:     "Person: {}\n",
			wantErr: "declares no properties",
		},
		{
			name:    "empty document",
			doc:     "",
			wantErr: "empty document",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadYAML([]byte(tt.doc))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
