/*
 * Copyright © 2025 Hatchstone Labs, All rights reserved.
 */

package transport

import (
	"bytes"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Type tags the variant a Value currently holds.
type Type uint8

const (
	TypeNull Type = iota
	TypeBool
	TypeInt
	TypeFloat  // 32-bit
	TypeDouble // 64-bit
	TypeString
	TypeBytes
	TypeTimestamp
	TypeDecimal128
	TypeObjectID
	TypeUUID
	TypeLink
)

var typeNames = map[Type]string{
	TypeNull:       "null",
	TypeBool:       "bool",
	TypeInt:        "int",
	TypeFloat:      "float",
	TypeDouble:     "double",
	TypeString:     "string",
	TypeBytes:      "bytes",
	TypeTimestamp:  "timestamp",
	TypeDecimal128: "decimal128",
	TypeObjectID:   "objectId",
	TypeUUID:       "uuid",
	TypeLink:       "link",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// Link identifies a referenced row by class key and row key. It is the
// transport form of an object reference.
type Link struct {
	ClassKey int64
	RowKey   uint64
}

// Value is the tagged generic value exchanged with the store. A Value is
// scoped to the call that produced it: byte payloads live in the producing
// Scope and are reclaimed when that scope closes, so a Value must never be
// retained across calls.
type Value struct {
	typ  Type
	b    bool
	i    int64
	f    float64
	s    string
	raw  []byte
	ts   time.Time
	dec  primitive.Decimal128
	oid  primitive.ObjectID
	uid  uuid.UUID
	link Link
}

// Constructors

func Null() Value                          { return Value{typ: TypeNull} }
func Bool(b bool) Value                    { return Value{typ: TypeBool, b: b} }
func Int(i int64) Value                    { return Value{typ: TypeInt, i: i} }
func Float(f float32) Value                { return Value{typ: TypeFloat, f: float64(f)} }
func Double(f float64) Value               { return Value{typ: TypeDouble, f: f} }
func String(s string) Value                { return Value{typ: TypeString, s: s} }
func Timestamp(t time.Time) Value          { return Value{typ: TypeTimestamp, ts: t} }
func Decimal(d primitive.Decimal128) Value { return Value{typ: TypeDecimal128, dec: d} }
func ObjectID(id primitive.ObjectID) Value { return Value{typ: TypeObjectID, oid: id} }
func UUID(u uuid.UUID) Value               { return Value{typ: TypeUUID, uid: u} }
func LinkTo(l Link) Value                  { return Value{typ: TypeLink, link: l} }

// Bytes copies b into the scope and returns a Value referencing the copy,
// so the caller's buffer may be reused immediately.
func Bytes(sc *Scope, b []byte) Value {
	return Value{typ: TypeBytes, raw: sc.copyBytes(b)}
}

// BytesOf returns a Value referencing b without copying. Intended for
// engines handing out storage-owned payloads; consumers copy on export.
func BytesOf(b []byte) Value {
	return Value{typ: TypeBytes, raw: b}
}

// Accessors. Each is meaningful only when the Value holds the matching
// variant; Type must be consulted first.

func (v Value) Type() Type                     { return v.typ }
func (v Value) IsNull() bool                   { return v.typ == TypeNull }
func (v Value) Bool() bool                     { return v.b }
func (v Value) Int() int64                     { return v.i }
func (v Value) Float() float32                 { return float32(v.f) }
func (v Value) Double() float64                { return v.f }
func (v Value) String() string                 { return v.s }
func (v Value) Timestamp() time.Time           { return v.ts }
func (v Value) Decimal() primitive.Decimal128  { return v.dec }
func (v Value) ObjectID() primitive.ObjectID   { return v.oid }
func (v Value) UUID() uuid.UUID                { return v.uid }
func (v Value) Link() Link                     { return v.link }

// RawBytes returns the scope-owned byte payload. The result is only valid
// until the producing scope closes; use BytesCopy to keep it.
func (v Value) RawBytes() []byte { return v.raw }

// BytesCopy returns an independent copy of the byte payload.
func (v Value) BytesCopy() []byte {
	if v.raw == nil {
		return nil
	}
	out := make([]byte, len(v.raw))
	copy(out, v.raw)
	return out
}

// Equal reports whether two values hold the same variant and payload.
func (v Value) Equal(other Value) bool {
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case TypeNull:
		return true
	case TypeBool:
		return v.b == other.b
	case TypeInt:
		return v.i == other.i
	case TypeFloat, TypeDouble:
		return v.f == other.f
	case TypeString:
		return v.s == other.s
	case TypeBytes:
		return bytes.Equal(v.raw, other.raw)
	case TypeTimestamp:
		return v.ts.Equal(other.ts)
	case TypeDecimal128:
		return v.dec == other.dec
	case TypeObjectID:
		return v.oid == other.oid
	case TypeUUID:
		return v.uid == other.uid
	case TypeLink:
		return v.link == other.link
	default:
		return false
	}
}
