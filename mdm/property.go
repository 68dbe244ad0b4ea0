// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package mdm

import (
	"fmt"

	"github.com/mdmconfig/mdmconfig/util/winrt"
)

// propertyValue is a boxed Windows Runtime primitive, as exposed by
// IPropertyValue.
type propertyValue interface {
	Type() (winrt.PropertyType, error)
	GetInt16() (int16, error)
	GetInt32() (int32, error)
	GetInt64() (int64, error)
	GetUInt16() (uint16, error)
	GetUInt32() (uint32, error)
	GetUInt64() (uint64, error)
	GetBoolean() (bool, error)
	GetString() ([]uint16, error)
}

// valueFromProperty converts pv to a [Value]. Property types without a
// coercion become [KindOther] named after the type.
func valueFromProperty(pv propertyValue) (Value, error) {
	typ, err := pv.Type()
	if err != nil {
		return Value{}, err
	}
	switch typ {
	case winrt.PropertyTypeInt16:
		return valueOf(pv.GetInt16, Int16Value)
	case winrt.PropertyTypeInt32:
		return valueOf(pv.GetInt32, Int32Value)
	case winrt.PropertyTypeInt64:
		return valueOf(pv.GetInt64, Int64Value)
	case winrt.PropertyTypeUInt16:
		return valueOf(pv.GetUInt16, UInt16Value)
	case winrt.PropertyTypeUInt32:
		return valueOf(pv.GetUInt32, UInt32Value)
	case winrt.PropertyTypeUInt64:
		return valueOf(pv.GetUInt64, UInt64Value)
	case winrt.PropertyTypeBoolean:
		return valueOf(pv.GetBoolean, BoolValue)
	case winrt.PropertyTypeString:
		return valueOf(pv.GetString, UTF16Value)
	default:
		return OtherValue(typ.String()), nil
	}
}

func valueOf[T any](get func() (T, error), wrap func(T) Value) (Value, error) {
	v, err := get()
	if err != nil {
		return Value{}, err
	}
	return wrap(v), nil
}

// containerIndex is the read-only view of a container's sub-containers.
type containerIndex interface {
	Size() (uint32, error)
	HasKey(name string) (bool, error)
}

// hasContainer reports whether idx holds a container with the given name.
// An empty index is answered without a key lookup.
func hasContainer(idx containerIndex, name string) (bool, error) {
	n, err := idx.Size()
	if err != nil {
		return false, fmt.Errorf("Containers.Size: %w", err)
	}
	if n == 0 {
		return false, nil
	}
	found, err := idx.HasKey(name)
	if err != nil {
		return false, fmt.Errorf("Containers.HasKey: %w", err)
	}
	return found, nil
}
