/*
 * Copyright © 2025 Hatchstone Labs, All rights reserved.
 */

package transport

import (
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hatchstone/objectlayer/errors"
	"github.com/hatchstone/objectlayer/schema"
)

// ToValue converts a domain value into its transport form for the given
// storage kind. Byte-owning inputs are copied into the scope. A nil value
// converts to null; nullability against the declared metadata is the
// accessor's concern, checked before any store call.
//
// Inputs may be plain Go values or the go-openapi/strfmt wrappers that
// generated models carry (strfmt.DateTime, strfmt.UUID, strfmt.Base64).
// A value whose runtime shape matches no declared kind fails with
// ErrUnsupportedValue naming the value.
func ToValue(sc *Scope, kind schema.Kind, v any) (Value, error) {
	if v == nil {
		return Null(), nil
	}
	if kind == schema.KindAny {
		inferred, err := Infer(v)
		if err != nil {
			return Null(), err
		}
		kind = inferred
	}

	switch kind {
	case schema.KindBool:
		if b, ok := v.(bool); ok {
			return Bool(b), nil
		}
	case schema.KindInt:
		switch n := v.(type) {
		case int:
			return Int(int64(n)), nil
		case int8:
			return Int(int64(n)), nil
		case int16:
			return Int(int64(n)), nil
		case int32:
			return Int(int64(n)), nil
		case int64:
			return Int(n), nil
		case uint8:
			return Int(int64(n)), nil
		case uint16:
			return Int(int64(n)), nil
		case uint32:
			return Int(int64(n)), nil
		}
	case schema.KindFloat:
		if f, ok := v.(float32); ok {
			return Float(f), nil
		}
	case schema.KindDouble:
		switch f := v.(type) {
		case float64:
			return Double(f), nil
		case float32:
			return Double(float64(f)), nil
		case int:
			return Double(float64(f)), nil
		case int64:
			return Double(float64(f)), nil
		}
	case schema.KindString:
		if s, ok := v.(string); ok {
			return String(s), nil
		}
	case schema.KindBytes:
		switch b := v.(type) {
		case []byte:
			return Bytes(sc, b), nil
		case strfmt.Base64:
			return Bytes(sc, b), nil
		}
	case schema.KindTimestamp:
		switch t := v.(type) {
		case time.Time:
			return Timestamp(t), nil
		case strfmt.DateTime:
			return Timestamp(time.Time(t)), nil
		}
	case schema.KindDecimal128:
		switch d := v.(type) {
		case primitive.Decimal128:
			return Decimal(d), nil
		case string:
			dec, err := primitive.ParseDecimal128(d)
			if err != nil {
				return Null(), errors.NewUnsupportedValue("", "", v)
			}
			return Decimal(dec), nil
		}
	case schema.KindObjectID:
		switch id := v.(type) {
		case primitive.ObjectID:
			return ObjectID(id), nil
		case string:
			oid, err := primitive.ObjectIDFromHex(id)
			if err != nil {
				return Null(), errors.NewUnsupportedValue("", "", v)
			}
			return ObjectID(oid), nil
		}
	case schema.KindUUID:
		switch u := v.(type) {
		case uuid.UUID:
			return UUID(u), nil
		case strfmt.UUID:
			parsed, err := uuid.Parse(u.String())
			if err != nil {
				return Null(), errors.NewUnsupportedValue("", "", v)
			}
			return UUID(parsed), nil
		case string:
			parsed, err := uuid.Parse(u)
			if err != nil {
				return Null(), errors.NewUnsupportedValue("", "", v)
			}
			return UUID(parsed), nil
		}
	case schema.KindLink, schema.KindEmbedded:
		if l, ok := v.(Link); ok {
			return LinkTo(l), nil
		}
	}
	return Null(), errors.NewUnsupportedValue("", "", v)
}

// FromValue converts a transport value back into its domain form for the
// given storage kind. Stored null yields nil. Byte payloads are copied out
// of the producing scope, so the result outlives it.
func FromValue(val Value, kind schema.Kind) (any, error) {
	if val.IsNull() {
		return nil, nil
	}
	if kind == schema.KindAny {
		return export(val), nil
	}

	expected, ok := transportType(kind)
	if !ok || val.Type() != expected {
		return nil, errors.NewUnsupportedValue("", "", val.Type().String())
	}
	return export(val), nil
}

func export(val Value) any {
	switch val.Type() {
	case TypeBool:
		return val.Bool()
	case TypeInt:
		return val.Int()
	case TypeFloat:
		return val.Float()
	case TypeDouble:
		return val.Double()
	case TypeString:
		return val.String()
	case TypeBytes:
		return val.BytesCopy()
	case TypeTimestamp:
		return val.Timestamp()
	case TypeDecimal128:
		return val.Decimal()
	case TypeObjectID:
		return val.ObjectID()
	case TypeUUID:
		return val.UUID()
	case TypeLink:
		return val.Link()
	default:
		return nil
	}
}

func transportType(kind schema.Kind) (Type, bool) {
	switch kind {
	case schema.KindBool:
		return TypeBool, true
	case schema.KindInt:
		return TypeInt, true
	case schema.KindFloat:
		return TypeFloat, true
	case schema.KindDouble:
		return TypeDouble, true
	case schema.KindString:
		return TypeString, true
	case schema.KindBytes:
		return TypeBytes, true
	case schema.KindTimestamp:
		return TypeTimestamp, true
	case schema.KindDecimal128:
		return TypeDecimal128, true
	case schema.KindObjectID:
		return TypeObjectID, true
	case schema.KindUUID:
		return TypeUUID, true
	case schema.KindLink, schema.KindEmbedded:
		return TypeLink, true
	default:
		return TypeNull, false
	}
}

// Infer derives the storage kind of a runtime value, for polymorphic
// properties and write-time dynamic validation.
func Infer(v any) (schema.Kind, error) {
	switch v.(type) {
	case bool:
		return schema.KindBool, nil
	case int, int8, int16, int32, int64, uint8, uint16, uint32:
		return schema.KindInt, nil
	case float32:
		return schema.KindFloat, nil
	case float64:
		return schema.KindDouble, nil
	case string:
		return schema.KindString, nil
	case []byte, strfmt.Base64:
		return schema.KindBytes, nil
	case time.Time, strfmt.DateTime:
		return schema.KindTimestamp, nil
	case primitive.Decimal128:
		return schema.KindDecimal128, nil
	case primitive.ObjectID:
		return schema.KindObjectID, nil
	case uuid.UUID, strfmt.UUID:
		return schema.KindUUID, nil
	case Link:
		return schema.KindLink, nil
	default:
		return schema.KindInvalid, errors.NewUnsupportedValue("", "", v)
	}
}
