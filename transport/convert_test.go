/*
 * Copyright © 2025 Hatchstone Labs, All rights reserved.
 */

package transport

import (
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hatchstone/objectlayer/errors"
	"github.com/hatchstone/objectlayer/schema"
)

func TestRoundtrip(t *testing.T) {
	sc := NewScope()
	defer sc.Close()

	now := time.Now().UTC()
	dec, err := primitive.ParseDecimal128("12.50")
	require.NoError(t, err)
	oid := primitive.NewObjectID()
	uid := uuid.New()

	tests := []struct {
		name string
		kind schema.Kind
		in   any
		want any
	}{
		{"bool", schema.KindBool, true, true},
		{"int", schema.KindInt, int64(42), int64(42)},
		{"int widening", schema.KindInt, 42, int64(42)},
		{"int from int8", schema.KindInt, int8(-5), int64(-5)},
		{"float", schema.KindFloat, float32(1.5), float32(1.5)},
		{"double", schema.KindDouble, 2.5, 2.5},
		{"double from int", schema.KindDouble, 3, 3.0},
		{"string", schema.KindString, "hello", "hello"},
		{"timestamp", schema.KindTimestamp, now, now},
		{"timestamp from strfmt", schema.KindTimestamp, strfmt.DateTime(now), now},
		{"decimal128", schema.KindDecimal128, dec, dec},
		{"decimal128 from string", schema.KindDecimal128, "12.50", dec},
		{"objectId", schema.KindObjectID, oid, oid},
		{"objectId from hex", schema.KindObjectID, oid.Hex(), oid},
		{"uuid", schema.KindUUID, uid, uid},
		{"uuid from string", schema.KindUUID, uid.String(), uid},
		{"uuid from strfmt", schema.KindUUID, strfmt.UUID(uid.String()), uid},
		{"link", schema.KindLink, Link{ClassKey: 1, RowKey: 7}, Link{ClassKey: 1, RowKey: 7}},
		{"any infers", schema.KindAny, "poly", "poly"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			val, err := ToValue(sc, tt.kind, tt.in)
			require.NoError(t, err)
			out, err := FromValue(val, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestNullRoundtrip(t *testing.T) {
	sc := NewScope()
	defer sc.Close()

	val, err := ToValue(sc, schema.KindString, nil)
	require.NoError(t, err)
	assert.True(t, val.IsNull())

	out, err := FromValue(val, schema.KindString)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestBytesOwnership(t *testing.T) {
	sc := NewScope()

	src := []byte("payload")
	val, err := ToValue(sc, schema.KindBytes, src)
	require.NoError(t, err)

	// Mutating the source must not reach the stored copy.
	src[0] = 'X'
	out, err := FromValue(val, schema.KindBytes)
	require.NoError(t, err)
	require.IsType(t, []byte(nil), out)
	assert.Equal(t, []byte("payload"), out.([]byte))

	// The exported copy survives the scope.
	sc.Close()
	assert.Equal(t, []byte("payload"), out.([]byte))
}

func TestUnsupportedValues(t *testing.T) {
	sc := NewScope()
	defer sc.Close()

	tests := []struct {
		name string
		kind schema.Kind
		in   any
	}{
		{"string into int", schema.KindInt, "42"},
		{"int into string", schema.KindString, 42},
		{"float into int", schema.KindInt, 1.5},
		{"bad decimal literal", schema.KindDecimal128, "not a number"},
		{"bad objectId literal", schema.KindObjectID, "zzzz"},
		{"bad uuid literal", schema.KindUUID, "not-a-uuid"},
		{"struct", schema.KindAny, struct{ X int }{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToValue(sc, tt.kind, tt.in)
			assert.True(t, errors.IsUnsupportedValue(err), "got %v", err)
		})
	}
}

func TestFromValueTypeCheck(t *testing.T) {
	out, err := FromValue(Int(1), schema.KindString)
	assert.Nil(t, out)
	assert.True(t, errors.IsUnsupportedValue(err))
}

func TestInfer(t *testing.T) {
	kind, err := Infer(uuid.New())
	require.NoError(t, err)
	assert.Equal(t, schema.KindUUID, kind)

	kind, err = Infer([]byte{1})
	require.NoError(t, err)
	assert.Equal(t, schema.KindBytes, kind)

	_, err = Infer(make(chan int))
	assert.Error(t, err)
}

func TestScopeReuse(t *testing.T) {
	sc := NewScope()

	// Force more than one chunk.
	big := make([]byte, scopeChunkSize*2)
	for i := range big {
		big[i] = byte(i)
	}
	small := sc.copyBytes([]byte("abc"))
	large := sc.copyBytes(big)
	assert.Equal(t, []byte("abc"), small)
	assert.Equal(t, big, large)

	sc.Close()

	// A fresh scope hands out clean buffers.
	sc2 := NewScope()
	defer sc2.Close()
	again := sc2.copyBytes([]byte("xyz"))
	assert.Equal(t, []byte("xyz"), again)
}

func TestValueEqual(t *testing.T) {
	sc := NewScope()
	defer sc.Close()

	assert.True(t, Int(1).Equal(Int(1)))
	assert.False(t, Int(1).Equal(Int(2)))
	assert.False(t, Int(1).Equal(Double(1)))
	assert.True(t, Null().Equal(Null()))

	a := Bytes(sc, []byte("same"))
	b := Bytes(sc, []byte("same"))
	assert.True(t, a.Equal(b))
}
