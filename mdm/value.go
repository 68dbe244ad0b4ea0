// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package mdm

import (
	"fmt"
	"unicode/utf16"
)

// Kind is the type tag of a [Value].
type Kind uint8

const (
	// KindOther is any representation without a string form:
	// arrays, timestamps, GUIDs, composite values and the like.
	KindOther Kind = iota
	KindInt16
	KindInt32
	KindInt64
	KindUInt16
	KindUInt32
	KindUInt64
	KindBool
	KindString
)

var kindNames = [...]string{
	KindOther:  "Other",
	KindInt16:  "Int16",
	KindInt32:  "Int32",
	KindInt64:  "Int64",
	KindUInt16: "UInt16",
	KindUInt32: "UInt32",
	KindUInt64: "UInt64",
	KindBool:   "Boolean",
	KindString: "String",
}

// String implements [fmt.Stringer].
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Value is a settings value tagged with its primitive type, as stored by
// the platform settings store. The zero Value is of [KindOther].
type Value struct {
	kind Kind
	bits uint64 // integer and boolean payload; signed values are sign-extended
	str  string // KindString payload, or the type name for KindOther
}

// Int16Value returns a [KindInt16] value.
func Int16Value(v int16) Value { return Value{kind: KindInt16, bits: uint64(int64(v))} }

// Int32Value returns a [KindInt32] value.
func Int32Value(v int32) Value { return Value{kind: KindInt32, bits: uint64(int64(v))} }

// Int64Value returns a [KindInt64] value.
func Int64Value(v int64) Value { return Value{kind: KindInt64, bits: uint64(v)} }

// UInt16Value returns a [KindUInt16] value.
func UInt16Value(v uint16) Value { return Value{kind: KindUInt16, bits: uint64(v)} }

// UInt32Value returns a [KindUInt32] value.
func UInt32Value(v uint32) Value { return Value{kind: KindUInt32, bits: uint64(v)} }

// UInt64Value returns a [KindUInt64] value.
func UInt64Value(v uint64) Value { return Value{kind: KindUInt64, bits: v} }

// BoolValue returns a [KindBool] value.
func BoolValue(v bool) Value {
	var bits uint64
	if v {
		bits = 1
	}
	return Value{kind: KindBool, bits: bits}
}

// StringValue returns a [KindString] value holding s.
// s need not be valid UTF-8; invalid sequences are replaced when the
// value is coerced.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// UTF16Value returns a [KindString] value decoded from UTF-16 code units.
// Unpaired surrogates decode to U+FFFD.
func UTF16Value(u []uint16) Value {
	return Value{kind: KindString, str: decodeUTF16(u)}
}

// decodeUTF16 decodes u, replacing unpaired surrogates with U+FFFD.
func decodeUTF16(u []uint16) string {
	return string(utf16.Decode(u))
}

// OtherValue returns a [KindOther] value. typeName describes the
// underlying representation and is only used in diagnostics.
func OtherValue(typeName string) Value { return Value{kind: KindOther, str: typeName} }

// Kind reports the type tag of v.
func (v Value) Kind() Kind { return v.kind }

// String implements [fmt.Stringer] for diagnostics.
// Use [CoerceValue] to obtain the canonical string form.
func (v Value) String() string {
	if v.kind == KindOther {
		if v.str != "" {
			return "Other(" + v.str + ")"
		}
		return "Other"
	}
	s, _ := CoerceValue(v)
	return fmt.Sprintf("%v(%q)", v.kind, s)
}

// Entry is a single key/value pair enumerated from a settings container.
type Entry struct {
	Key   string
	Value Value
	// Err is non-nil if the entry's key or value could not be read,
	// in which case Key and Value are not meaningful.
	Err error
}
