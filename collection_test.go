/*
 * Copyright © 2025 Hatchstone Labs, All rights reserved.
 */

package objectlayer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hatchstone/objectlayer/errors"
)

func personTags(t *testing.T, obj *Object) *Set {
	t.Helper()
	v, err := obj.Get("tags")
	require.NoError(t, err)
	s, ok := v.(*Set)
	require.True(t, ok)
	return s
}

func personFriends(t *testing.T, obj *Object) *List {
	t.Helper()
	v, err := obj.Get("friends")
	require.NoError(t, err)
	l, ok := v.(*List)
	require.True(t, ok)
	return l
}

func TestListAppendAndGet(t *testing.T) {
	eng, sess := newFixture(t)
	eng.BeginWrite()
	defer eng.EndWrite()

	a := createPerson(t, sess, 1, "Ada")
	b := createPerson(t, sess, 2, "Eve")
	c := createPerson(t, sess, 3, "Kay")

	friends := personFriends(t, a)
	require.NoError(t, friends.Append(b, c))

	n, err := friends.Len()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	first, err := friends.Get(0)
	require.NoError(t, err)
	assert.Equal(t, b.Key(), first.(*Object).Key())

	// Insert shifts later elements
	d := createPerson(t, sess, 4, "Liv")
	require.NoError(t, friends.Insert(0, d))
	first, err = friends.Get(0)
	require.NoError(t, err)
	assert.Equal(t, d.Key(), first.(*Object).Key())

	elems, err := friends.Elements()
	require.NoError(t, err)
	assert.Len(t, elems, 3)
}

func TestSetAddDeduplicates(t *testing.T) {
	eng, sess := newFixture(t)
	eng.BeginWrite()
	defer eng.EndWrite()

	obj := createPerson(t, sess, 1, "Ada")
	tags := personTags(t, obj)
	require.NoError(t, tags.Add("go", "db", "go"))

	n, err := tags.Len()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestWholeCollectionAssignment(t *testing.T) {
	eng, sess := newFixture(t)
	eng.BeginWrite()
	defer eng.EndWrite()

	obj := createPerson(t, sess, 1, "Ada")
	require.NoError(t, obj.Set("tags", []string{"a", "b", "c"}))

	tags := personTags(t, obj)
	n, err := tags.Len()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// Reassignment clears and reinserts
	require.NoError(t, obj.Set("tags", []string{"x"}))
	n, err = tags.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	got, err := tags.Get(0)
	require.NoError(t, err)
	assert.Equal(t, "x", got)

	// Nil empties
	require.NoError(t, obj.Set("tags", nil))
	n, err = tags.Len()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSelfAssignmentIsNoOp(t *testing.T) {
	eng, sess := newFixture(t)
	eng.BeginWrite()
	defer eng.EndWrite()

	obj := createPerson(t, sess, 1, "Ada")
	require.NoError(t, obj.Set("tags", []string{"a", "b"}))

	tags := personTags(t, obj)
	require.NoError(t, obj.Set("tags", tags))

	n, err := tags.Len()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCollectionElementTypeCheck(t *testing.T) {
	eng, sess := newFixture(t)
	eng.BeginWrite()
	defer eng.EndWrite()

	obj := createPerson(t, sess, 1, "Ada")
	tags := personTags(t, obj)

	err := tags.Add(42)
	assert.True(t, errors.IsSchemaMismatch(err))

	// Null elements need a nullable element declaration
	err = tags.Add(nil)
	assert.True(t, errors.IsSchemaMismatch(err))
}

func TestCollectionWriteOutsideTransaction(t *testing.T) {
	eng, sess := newFixture(t)
	eng.BeginWrite()
	obj := createPerson(t, sess, 1, "Ada")
	tags := personTags(t, obj)
	eng.EndWrite()

	err := tags.Add("late")
	assert.True(t, errors.IsNotInTransaction(err))

	// Reads stay open
	n, err := tags.Len()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestLinkListImportsCandidates(t *testing.T) {
	eng, sess := newFixture(t)
	eng.BeginWrite()
	defer eng.EndWrite()

	a := createPerson(t, sess, 1, "Ada")
	friends := personFriends(t, a)
	require.NoError(t, friends.Append(
		NewUnmanaged("Person").Set("id", int64(2)).Set("name", "Eve"),
	))

	got, err := friends.Get(0)
	require.NoError(t, err)
	eve := got.(*Object)
	name, err := eve.Get("name")
	require.NoError(t, err)
	assert.Equal(t, "Eve", name)

	// The import went through the session: the row is findable by key
	found, err := sess.Find("Person", int64(2))
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, eve.Key(), found.Key())
}

func TestAnyListNilElements(t *testing.T) {
	eng, sess := newFixture(t)
	eng.BeginWrite()
	defer eng.EndWrite()

	obj := createPerson(t, sess, 1, "Ada")
	v, err := obj.Get("notes")
	require.NoError(t, err)
	notes := v.(*List)

	// Typed nils store as null, same as untyped nil
	var u *Unmanaged
	require.NoError(t, notes.Append("kept", map[string]any(nil), u, nil))

	n, err := notes.Len()
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	got, err := notes.Get(0)
	require.NoError(t, err)
	assert.Equal(t, "kept", got)
	for i := 1; i < 4; i++ {
		got, err = notes.Get(i)
		require.NoError(t, err)
		assert.Nil(t, got)
	}
}

func TestLinkListRejectsWrongClass(t *testing.T) {
	eng, sess := newFixture(t)
	eng.BeginWrite()
	defer eng.EndWrite()

	a := createPerson(t, sess, 1, "Ada")
	addr, err := sess.Create("Address")
	require.NoError(t, err)
	require.NoError(t, addr.Set("street", "Main"))

	friends := personFriends(t, a)
	err = friends.Append(addr)
	assert.True(t, errors.IsSchemaMismatch(err))
	assert.Contains(t, err.Error(), "Address")

	n, err := friends.Len()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCollectionAssignRejectsScalar(t *testing.T) {
	eng, sess := newFixture(t)
	eng.BeginWrite()
	defer eng.EndWrite()

	obj := createPerson(t, sess, 1, "Ada")
	err := obj.Set("tags", "not a collection")
	assert.True(t, errors.IsSchemaMismatch(err))
}
