// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

// Package winrt contains the small subset of Windows Runtime bindings needed
// to read an application's local settings: Windows.Storage.ApplicationData,
// ApplicationDataContainer and Windows.Foundation.IPropertyValue.
//
// The bindings are only available on Windows. [PropertyType] is available
// everywhere so that code classifying settings values can be tested on any
// platform.
package winrt

import "strconv"

// PropertyType mirrors Windows.Foundation.PropertyType, the type tag
// reported by IPropertyValue.
type PropertyType int32

const (
	PropertyTypeEmpty       PropertyType = 0
	PropertyTypeUInt8       PropertyType = 1
	PropertyTypeInt16       PropertyType = 2
	PropertyTypeUInt16      PropertyType = 3
	PropertyTypeInt32       PropertyType = 4
	PropertyTypeUInt32      PropertyType = 5
	PropertyTypeInt64       PropertyType = 6
	PropertyTypeUInt64      PropertyType = 7
	PropertyTypeSingle      PropertyType = 8
	PropertyTypeDouble      PropertyType = 9
	PropertyTypeChar16      PropertyType = 10
	PropertyTypeBoolean     PropertyType = 11
	PropertyTypeString      PropertyType = 12
	PropertyTypeInspectable PropertyType = 13
	PropertyTypeDateTime    PropertyType = 14
	PropertyTypeTimeSpan    PropertyType = 15
	PropertyTypeGuid        PropertyType = 16
	PropertyTypePoint       PropertyType = 17
	PropertyTypeSize        PropertyType = 18
	PropertyTypeRect        PropertyType = 19
	PropertyTypeOtherType   PropertyType = 20

	// arrayFlag is set on the array variant of each scalar type,
	// e.g. PropertyTypeUInt8Array is 1025.
	arrayFlag PropertyType = 1024

	PropertyTypeUInt8Array     = PropertyTypeUInt8 | arrayFlag
	PropertyTypeInt32Array     = PropertyTypeInt32 | arrayFlag
	PropertyTypeStringArray    = PropertyTypeString | arrayFlag
	PropertyTypeOtherTypeArray = PropertyTypeOtherType | arrayFlag
)

var propertyTypeNames = [...]string{
	PropertyTypeEmpty:       "Empty",
	PropertyTypeUInt8:       "UInt8",
	PropertyTypeInt16:       "Int16",
	PropertyTypeUInt16:      "UInt16",
	PropertyTypeInt32:       "Int32",
	PropertyTypeUInt32:      "UInt32",
	PropertyTypeInt64:       "Int64",
	PropertyTypeUInt64:      "UInt64",
	PropertyTypeSingle:      "Single",
	PropertyTypeDouble:      "Double",
	PropertyTypeChar16:      "Char16",
	PropertyTypeBoolean:     "Boolean",
	PropertyTypeString:      "String",
	PropertyTypeInspectable: "Inspectable",
	PropertyTypeDateTime:    "DateTime",
	PropertyTypeTimeSpan:    "TimeSpan",
	PropertyTypeGuid:        "Guid",
	PropertyTypePoint:       "Point",
	PropertyTypeSize:        "Size",
	PropertyTypeRect:        "Rect",
	PropertyTypeOtherType:   "OtherType",
}

// IsArray reports whether t is the array variant of a scalar type.
func (t PropertyType) IsArray() bool {
	elem := t.Elem()
	return t&arrayFlag != 0 && elem >= PropertyTypeUInt8 && elem <= PropertyTypeOtherType
}

// Elem returns the element type of an array type, or t itself.
func (t PropertyType) Elem() PropertyType {
	return t &^ arrayFlag
}

// String implements [fmt.Stringer].
func (t PropertyType) String() string {
	elem := t.Elem()
	switch {
	case t.IsArray():
		return propertyTypeNames[elem] + "Array"
	case t >= 0 && int(t) < len(propertyTypeNames):
		return propertyTypeNames[t]
	default:
		return "PropertyType(" + strconv.Itoa(int(t)) + ")"
	}
}
