// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package mdm

import (
	"errors"
	"math"
	"testing"

	"github.com/mdmconfig/mdmconfig/util/winrt"
)

// fakeProperty is a boxed value of type typ holding v. Getters for any
// other type fail, as IPropertyValue does with TYPE_E_TYPEMISMATCH.
type fakeProperty struct {
	typ     winrt.PropertyType
	v       any
	typeErr error
	getErr  error
}

var errTypeMismatch = errors.New("type mismatch")

func get[T any](p fakeProperty) (T, error) {
	if p.getErr != nil {
		var zero T
		return zero, p.getErr
	}
	v, ok := p.v.(T)
	if !ok {
		var zero T
		return zero, errTypeMismatch
	}
	return v, nil
}

func (p fakeProperty) Type() (winrt.PropertyType, error) { return p.typ, p.typeErr }
func (p fakeProperty) GetInt16() (int16, error)          { return get[int16](p) }
func (p fakeProperty) GetInt32() (int32, error)          { return get[int32](p) }
func (p fakeProperty) GetInt64() (int64, error)          { return get[int64](p) }
func (p fakeProperty) GetUInt16() (uint16, error)        { return get[uint16](p) }
func (p fakeProperty) GetUInt32() (uint32, error)        { return get[uint32](p) }
func (p fakeProperty) GetUInt64() (uint64, error)        { return get[uint64](p) }
func (p fakeProperty) GetBoolean() (bool, error)         { return get[bool](p) }
func (p fakeProperty) GetString() ([]uint16, error)      { return get[[]uint16](p) }

func TestValueFromProperty(t *testing.T) {
	tests := []struct {
		name string
		pv   fakeProperty
		want Value
	}{
		{"Int16", fakeProperty{typ: winrt.PropertyTypeInt16, v: int16(-7)}, Int16Value(-7)},
		{"Int32", fakeProperty{typ: winrt.PropertyTypeInt32, v: int32(5)}, Int32Value(5)},
		{"Int64", fakeProperty{typ: winrt.PropertyTypeInt64, v: int64(math.MinInt64)}, Int64Value(math.MinInt64)},
		{"UInt16", fakeProperty{typ: winrt.PropertyTypeUInt16, v: uint16(65535)}, UInt16Value(65535)},
		{"UInt32", fakeProperty{typ: winrt.PropertyTypeUInt32, v: uint32(4294967295)}, UInt32Value(4294967295)},
		{"UInt64", fakeProperty{typ: winrt.PropertyTypeUInt64, v: uint64(math.MaxUint64)}, UInt64Value(math.MaxUint64)},
		{"Boolean", fakeProperty{typ: winrt.PropertyTypeBoolean, v: true}, BoolValue(true)},
		{"String", fakeProperty{typ: winrt.PropertyTypeString, v: []uint16{'h', 'i'}}, StringValue("hi")},
		{"LoneSurrogate", fakeProperty{typ: winrt.PropertyTypeString, v: []uint16{'a', 0xD800}}, StringValue("a\uFFFD")},
		{"UInt8", fakeProperty{typ: winrt.PropertyTypeUInt8, v: uint8(1)}, OtherValue("UInt8")},
		{"Double", fakeProperty{typ: winrt.PropertyTypeDouble, v: 1.5}, OtherValue("Double")},
		{"DateTime", fakeProperty{typ: winrt.PropertyTypeDateTime}, OtherValue("DateTime")},
		{"StringArray", fakeProperty{typ: winrt.PropertyTypeStringArray}, OtherValue("StringArray")},
		{"Unknown", fakeProperty{typ: winrt.PropertyType(99)}, OtherValue("PropertyType(99)")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := valueFromProperty(tt.pv)
			if err != nil {
				t.Fatalf("valueFromProperty: %v", err)
			}
			if got != tt.want {
				t.Errorf("valueFromProperty = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestValueFromPropertyErrors(t *testing.T) {
	errRead := errors.New("read failed")
	tests := []struct {
		name string
		pv   fakeProperty
		want error
	}{
		{"Type", fakeProperty{typeErr: errRead}, errRead},
		{"Getter", fakeProperty{typ: winrt.PropertyTypeInt32, getErr: errRead}, errRead},
		{"Mismatch", fakeProperty{typ: winrt.PropertyTypeInt32, v: "5"}, errTypeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := valueFromProperty(tt.pv)
			if !errors.Is(err, tt.want) {
				t.Errorf("valueFromProperty error = %v; want %v", err, tt.want)
			}
		})
	}
}

type fakeIndex struct {
	names   []string
	sizeErr error
	keyErr  error
	hasKeys int
}

func (x *fakeIndex) Size() (uint32, error) { return uint32(len(x.names)), x.sizeErr }

func (x *fakeIndex) HasKey(name string) (bool, error) {
	x.hasKeys++
	if x.keyErr != nil {
		return false, x.keyErr
	}
	for _, n := range x.names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

func TestHasContainer(t *testing.T) {
	errIndex := errors.New("index failed")
	tests := []struct {
		name        string
		idx         *fakeIndex
		want        bool
		wantErr     error
		wantHasKeys int
	}{
		{"Empty", &fakeIndex{}, false, nil, 0},
		{"Present", &fakeIndex{names: []string{"Other", ContainerName}}, true, nil, 1},
		{"Absent", &fakeIndex{names: []string{"Other"}}, false, nil, 1},
		{"CaseSensitive", &fakeIndex{names: []string{"managed.app.settings"}}, false, nil, 1},
		{"SizeError", &fakeIndex{sizeErr: errIndex}, false, errIndex, 0},
		{"HasKeyError", &fakeIndex{names: []string{ContainerName}, keyErr: errIndex}, false, errIndex, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := hasContainer(tt.idx, ContainerName)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("hasContainer error = %v; want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("hasContainer = %v; want %v", got, tt.want)
			}
			if tt.idx.hasKeys != tt.wantHasKeys {
				t.Errorf("HasKey called %d times; want %d", tt.idx.hasKeys, tt.wantHasKeys)
			}
		})
	}
}
