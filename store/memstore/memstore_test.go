/*
 * Copyright © 2025 Hatchstone Labs, All rights reserved.
 */

package memstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hatchstone/objectlayer/errors"
	"github.com/hatchstone/objectlayer/schema"
	"github.com/hatchstone/objectlayer/store"
	"github.com/hatchstone/objectlayer/transport"
)

const testSchema = `
Person:
  properties:
    id:
      type: int
      primaryKey: true
    name:
      type: string
    nickname:
      type: string
      nullable: true
    bestFriend:
      type: link
      target: Person
    address:
      type: embedded
      target: Address
      nullable: true
    friends:
      type: link
      target: Person
      shape: list
    tags:
      type: string
      shape: set
Address:
  properties:
    street:
      type: string
`

func newStore(t *testing.T) (*Store, *schema.Registry) {
	t.Helper()
	reg, err := schema.LoadYAML([]byte(testSchema))
	require.NoError(t, err)
	return New(reg), reg
}

func personClass(t *testing.T, reg *schema.Registry) *schema.Class {
	t.Helper()
	class, err := reg.Class("Person")
	require.NoError(t, err)
	return class
}

func propKey(t *testing.T, class *schema.Class, name string) int64 {
	t.Helper()
	prop, ok := class.Property(name)
	require.True(t, ok)
	return prop.Key
}

func createPerson(t *testing.T, s *Store, reg *schema.Registry, id int64) store.Row {
	t.Helper()
	class := personClass(t, reg)
	pk := transport.Int(id)
	r, err := s.CreateRow(class.Key(), &pk)
	require.NoError(t, err)
	return r
}

func TestWriteTransactionGate(t *testing.T) {
	s, reg := newStore(t)
	class := personClass(t, reg)

	pk := transport.Int(1)
	_, err := s.CreateRow(class.Key(), &pk)
	assert.ErrorIs(t, err, errors.ErrStoreLogic)

	s.BeginWrite()
	r, err := s.CreateRow(class.Key(), &pk)
	require.NoError(t, err)
	s.EndWrite()

	assert.ErrorIs(t, r.Put(propKey(t, class, "name"), transport.String("Ada")), errors.ErrStoreLogic)
}

func TestDuplicatePrimaryKey(t *testing.T) {
	s, reg := newStore(t)
	s.BeginWrite()
	defer s.EndWrite()

	createPerson(t, s, reg, 1)
	class := personClass(t, reg)
	pk := transport.Int(1)
	_, err := s.CreateRow(class.Key(), &pk)
	assert.ErrorIs(t, err, errors.ErrStoreDuplicateKey)
}

func TestFindByPrimaryKey(t *testing.T) {
	s, reg := newStore(t)
	s.BeginWrite()
	r := createPerson(t, s, reg, 42)
	s.EndWrite()

	class := personClass(t, reg)
	got, found, err := s.FindByPrimaryKey(class.Key(), transport.Int(42))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, r.Key(), got.Key())

	_, found, err = s.FindByPrimaryKey(class.Key(), transport.Int(99))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPutChecks(t *testing.T) {
	s, reg := newStore(t)
	s.BeginWrite()
	defer s.EndWrite()

	class := personClass(t, reg)
	r := createPerson(t, s, reg, 1)

	// Kind mismatch
	err := r.Put(propKey(t, class, "name"), transport.Int(5))
	assert.ErrorIs(t, err, errors.ErrStoreTypeMismatch)

	// Null into non-nullable
	err = r.Put(propKey(t, class, "name"), transport.Null())
	assert.ErrorIs(t, err, errors.ErrStoreNotNullable)

	// Null into nullable
	require.NoError(t, r.Put(propKey(t, class, "nickname"), transport.Null()))

	// Embedded slots reject Put
	err = r.Put(propKey(t, class, "address"), transport.String("nope"))
	assert.ErrorIs(t, err, errors.ErrStoreLogic)

	// Valid write reads back
	require.NoError(t, r.Put(propKey(t, class, "name"), transport.String("Ada")))
	v, err := r.Get(propKey(t, class, "name"))
	require.NoError(t, err)
	assert.Equal(t, "Ada", v.String())
}

func TestEmbeddedReplaceDiscardsChild(t *testing.T) {
	s, reg := newStore(t)
	s.BeginWrite()
	defer s.EndWrite()

	class := personClass(t, reg)
	r := createPerson(t, s, reg, 1)
	key := propKey(t, class, "address")

	first, err := r.CreateEmbedded(key)
	require.NoError(t, err)
	second, err := r.CreateEmbedded(key)
	require.NoError(t, err)

	assert.False(t, first.IsValid())
	assert.True(t, second.IsValid())

	// The slot reads back as a link to the live child.
	v, err := r.Get(key)
	require.NoError(t, err)
	require.Equal(t, transport.TypeLink, v.Type())
	assert.Equal(t, uint64(second.Key()), v.Link().RowKey)
}

func TestDeleteNullifiesLinks(t *testing.T) {
	s, reg := newStore(t)
	s.BeginWrite()
	defer s.EndWrite()

	class := personClass(t, reg)
	a := createPerson(t, s, reg, 1)
	b := createPerson(t, s, reg, 2)

	link := transport.Link{ClassKey: class.Key(), RowKey: uint64(b.Key())}
	require.NoError(t, a.Put(propKey(t, class, "bestFriend"), transport.LinkTo(link)))

	col, err := a.Collection(propKey(t, class, "friends"))
	require.NoError(t, err)
	require.NoError(t, col.Insert(0, transport.LinkTo(link)))

	require.NoError(t, s.DeleteRow(b))
	assert.False(t, b.IsValid())

	// Single-valued link slot reads null.
	v, err := a.Get(propKey(t, class, "bestFriend"))
	require.NoError(t, err)
	assert.True(t, v.IsNull())

	// Collection element is removed, not nulled.
	n, err := col.Len()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSetDeduplicates(t *testing.T) {
	s, reg := newStore(t)
	s.BeginWrite()
	defer s.EndWrite()

	class := personClass(t, reg)
	r := createPerson(t, s, reg, 1)
	col, err := r.Collection(propKey(t, class, "tags"))
	require.NoError(t, err)

	require.NoError(t, col.Insert(0, transport.String("go")))
	require.NoError(t, col.Insert(0, transport.String("db")))
	require.NoError(t, col.Insert(0, transport.String("go")))

	n, err := col.Len()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestListInsertBounds(t *testing.T) {
	s, reg := newStore(t)
	s.BeginWrite()
	defer s.EndWrite()

	class := personClass(t, reg)
	r := createPerson(t, s, reg, 1)
	b := createPerson(t, s, reg, 2)
	col, err := r.Collection(propKey(t, class, "friends"))
	require.NoError(t, err)

	link := transport.LinkTo(transport.Link{ClassKey: class.Key(), RowKey: uint64(b.Key())})
	assert.ErrorIs(t, col.Insert(1, link), errors.ErrStoreLogic)
	require.NoError(t, col.Insert(0, link))

	// Handles are stable per property.
	again, err := r.Collection(propKey(t, class, "friends"))
	require.NoError(t, err)
	assert.Equal(t, col.Handle(), again.Handle())
}

func TestBacklinks(t *testing.T) {
	s, reg := newStore(t)
	s.BeginWrite()
	defer s.EndWrite()

	class := personClass(t, reg)
	target := createPerson(t, s, reg, 1)
	f1 := createPerson(t, s, reg, 2)
	f2 := createPerson(t, s, reg, 3)

	link := transport.LinkTo(transport.Link{ClassKey: class.Key(), RowKey: uint64(target.Key())})
	require.NoError(t, f1.Put(propKey(t, class, "bestFriend"), link))
	require.NoError(t, f2.Put(propKey(t, class, "bestFriend"), link))

	rows, err := s.Backlinks(target, class.Key(), propKey(t, class, "bestFriend"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, f1.Key(), rows[0].Key())
	assert.Equal(t, f2.Key(), rows[1].Key())

	// The view is re-evaluated: nulling one forward link shrinks it.
	require.NoError(t, f1.Put(propKey(t, class, "bestFriend"), transport.Null()))
	rows, err = s.Backlinks(target, class.Key(), propKey(t, class, "bestFriend"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, f2.Key(), rows[0].Key())
}
