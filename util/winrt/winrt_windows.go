// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package winrt

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"syscall"
	"unsafe"

	"github.com/dblohm7/wingoes"
	"github.com/go-ole/go-ole"
	"golang.org/x/sys/windows"
)

const (
	hrE_BOUNDS                  = wingoes.HRESULT(-2147483637) // 0x8000000B
	hrRPC_E_CHANGED_MODE        = wingoes.HRESULT(-2147417850) // 0x80010106
	hrAPPMODEL_ERROR_NO_PACKAGE = wingoes.HRESULT(-2147009196) // 0x80073D54
)

var (
	// ErrBounds is returned by a map lookup of a key that is not present.
	ErrBounds = wingoes.ErrorFromHRESULT(hrE_BOUNDS)
	// ErrNoPackageIdentity is returned by [CurrentApplicationData] when the
	// process is not running with package identity.
	ErrNoPackageIdentity = wingoes.ErrorFromHRESULT(hrAPPMODEL_ERROR_NO_PACKAGE)

	errNullObject = errors.New("winrt: unexpected null object")
)

const applicationDataClass = "Windows.Storage.ApplicationData"

var (
	IID_IApplicationDataStatics = ole.NewGUID("{5612147B-E843-45E3-94D8-06169E3C8E17}")
	IID_IPropertyValue          = ole.NewGUID("{4BD682DD-7554-40E9-9A9B-82654EDE7E62}")

	// IID_IIterable_IKeyValuePair_String_Object is the IID of
	// IIterable<IKeyValuePair<String, Object>>, implemented by IPropertySet.
	IID_IIterable_IKeyValuePair_String_Object = ole.NewGUID("{FE2F3D47-5D47-5499-8374-430C7CDA0204}")
)

var procWindowsGetStringRawBuffer = windows.NewLazySystemDLL("combase.dll").NewProc("WindowsGetStringRawBuffer")

// WithMTA calls fn on a locked OS thread that has joined the multithreaded
// apartment, and returns fn's result. All objects obtained from this package
// must be released before fn returns.
func WithMTA(fn func() error) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	switch err := windows.CoInitializeEx(0, windows.COINIT_MULTITHREADED); {
	case err == nil, isHRESULT(err, wingoes.S_FALSE):
		defer windows.CoUninitialize()
	case isHRESULT(err, hrRPC_E_CHANGED_MODE):
		// Already in a single-threaded apartment; WinRT calls work there too.
	default:
		return fmt.Errorf("CoInitializeEx: %w", err)
	}
	return fn()
}

func isHRESULT(err error, hr wingoes.HRESULT) bool {
	var errno syscall.Errno
	return errors.As(err, &errno) && wingoes.HRESULT(int32(uint32(errno))) == hr
}

// hrError returns the [wingoes.Error] for r, or nil if r is a success code.
func hrError(r uintptr) error {
	if e := wingoes.ErrorFromHRESULT(wingoes.HRESULT(int32(uint32(r)))); e.Failed() {
		return e
	}
	return nil
}

// fromOLE converts a go-ole error into a [wingoes.Error] so that callers
// can match HRESULTs with [errors.Is].
func fromOLE(err error) error {
	var oe *ole.OleError
	if errors.As(err, &oe) {
		if e := hrError(oe.Code()); e != nil {
			return e
		}
	}
	return err
}

// getObject calls a property getter whose only argument is an out pointer
// to an interface, and returns the result as a *T.
func getObject[T any](this unsafe.Pointer, method uintptr) (*T, error) {
	var out *T
	r, _, _ := syscall.SyscallN(method, uintptr(this), uintptr(unsafe.Pointer(&out)))
	if err := hrError(r); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errNullObject
	}
	return out, nil
}

// getScalar calls a property getter whose only argument is an out pointer
// to a value of type T.
func getScalar[T any](this unsafe.Pointer, method uintptr) (T, error) {
	var out T
	r, _, _ := syscall.SyscallN(method, uintptr(this), uintptr(unsafe.Pointer(&out)))
	if err := hrError(r); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// takeHString returns a copy of the UTF-16 contents of h and deletes h.
// Unlike [ole.HString.String], the code units are returned undecoded.
func takeHString(h ole.HString) []uint16 {
	if h == 0 {
		return nil
	}
	defer ole.DeleteHString(h)
	var n uint32
	r, _, _ := syscall.SyscallN(procWindowsGetStringRawBuffer.Addr(), uintptr(h), uintptr(unsafe.Pointer(&n)))
	// The buffer is owned by h and stays valid until h is deleted, after
	// the copy below.
	buf := *(**uint16)(unsafe.Pointer(&r))
	if buf == nil || n == 0 {
		return nil
	}
	return slices.Clone(unsafe.Slice(buf, n))
}

type applicationDataStatics struct {
	ole.IInspectable
}

type applicationDataStaticsVtbl struct {
	ole.IInspectableVtbl
	Get_Current uintptr
}

func (v *applicationDataStatics) vtbl() *applicationDataStaticsVtbl {
	return (*applicationDataStaticsVtbl)(unsafe.Pointer(v.RawVTable))
}

// ApplicationData is Windows.Storage.ApplicationData.
type ApplicationData struct {
	ole.IInspectable
}

type applicationDataVtbl struct {
	ole.IInspectableVtbl
	Get_Version          uintptr
	SetVersionAsync      uintptr
	ClearAllAsync        uintptr
	ClearByLocalityAsync uintptr
	Get_LocalSettings    uintptr
	// The remaining methods are not used.
}

func (v *ApplicationData) vtbl() *applicationDataVtbl {
	return (*applicationDataVtbl)(unsafe.Pointer(v.RawVTable))
}

// CurrentApplicationData returns the application data store of the
// running application. It fails with [ErrNoPackageIdentity] if the process
// does not run with package identity.
// The caller must release the returned object.
func CurrentApplicationData() (*ApplicationData, error) {
	insp, err := ole.RoGetActivationFactory(applicationDataClass, IID_IApplicationDataStatics)
	if err != nil {
		return nil, fromOLE(err)
	}
	statics := (*applicationDataStatics)(unsafe.Pointer(insp))
	defer statics.Release()

	return getObject[ApplicationData](unsafe.Pointer(statics), statics.vtbl().Get_Current)
}

// LocalSettings returns the root container of the application's local
// settings store. The caller must release the returned object.
func (v *ApplicationData) LocalSettings() (*ApplicationDataContainer, error) {
	return getObject[ApplicationDataContainer](unsafe.Pointer(v), v.vtbl().Get_LocalSettings)
}

// ApplicationDataContainer is Windows.Storage.ApplicationDataContainer.
type ApplicationDataContainer struct {
	ole.IInspectable
}

type applicationDataContainerVtbl struct {
	ole.IInspectableVtbl
	Get_Name        uintptr
	Get_Locality    uintptr
	Get_Values      uintptr
	Get_Containers  uintptr
	CreateContainer uintptr
	DeleteContainer uintptr
}

func (v *ApplicationDataContainer) vtbl() *applicationDataContainerVtbl {
	return (*applicationDataContainerVtbl)(unsafe.Pointer(v.RawVTable))
}

// Containers returns a read-only view of the container's sub-containers,
// keyed by name. The caller must release the returned object.
func (v *ApplicationDataContainer) Containers() (*ContainerMapView, error) {
	return getObject[ContainerMapView](unsafe.Pointer(v), v.vtbl().Get_Containers)
}

// Values returns the settings stored in the container.
// The caller must release the returned object.
func (v *ApplicationDataContainer) Values() (*PropertySet, error) {
	return getObject[PropertySet](unsafe.Pointer(v), v.vtbl().Get_Values)
}

// ContainerMapView is IMapView<String, ApplicationDataContainer>.
type ContainerMapView struct {
	ole.IInspectable
}

type mapViewVtbl struct {
	ole.IInspectableVtbl
	Lookup   uintptr
	Get_Size uintptr
	HasKey   uintptr
	Split    uintptr
}

func (v *ContainerMapView) vtbl() *mapViewVtbl {
	return (*mapViewVtbl)(unsafe.Pointer(v.RawVTable))
}

// Size returns the number of containers in the view.
func (v *ContainerMapView) Size() (uint32, error) {
	return getScalar[uint32](unsafe.Pointer(v), v.vtbl().Get_Size)
}

// HasKey reports whether the view contains a container with the given name.
func (v *ContainerMapView) HasKey(name string) (bool, error) {
	h, err := ole.NewHString(name)
	if err != nil {
		return false, fromOLE(err)
	}
	defer ole.DeleteHString(h)

	var found bool
	r, _, _ := syscall.SyscallN(v.vtbl().HasKey,
		uintptr(unsafe.Pointer(v)),
		uintptr(h),
		uintptr(unsafe.Pointer(&found)))
	if err := hrError(r); err != nil {
		return false, err
	}
	return found, nil
}

// Lookup returns the container with the given name. It fails with
// [ErrBounds] if there is no such container.
// The caller must release the returned object.
func (v *ContainerMapView) Lookup(name string) (*ApplicationDataContainer, error) {
	h, err := ole.NewHString(name)
	if err != nil {
		return nil, fromOLE(err)
	}
	defer ole.DeleteHString(h)

	var c *ApplicationDataContainer
	r, _, _ := syscall.SyscallN(v.vtbl().Lookup,
		uintptr(unsafe.Pointer(v)),
		uintptr(h),
		uintptr(unsafe.Pointer(&c)))
	if err := hrError(r); err != nil {
		return nil, err
	}
	if c == nil {
		return nil, errNullObject
	}
	return c, nil
}

// PropertySet is Windows.Foundation.Collections.IPropertySet.
type PropertySet struct {
	ole.IInspectable
}

type iterableVtbl struct {
	ole.IInspectableVtbl
	First uintptr
}

type kvIterable struct {
	ole.IInspectable
}

func (v *kvIterable) vtbl() *iterableVtbl {
	return (*iterableVtbl)(unsafe.Pointer(v.RawVTable))
}

type iteratorVtbl struct {
	ole.IInspectableVtbl
	Get_Current    uintptr
	Get_HasCurrent uintptr
	MoveNext       uintptr
	GetMany        uintptr
}

type kvIterator struct {
	ole.IInspectable
}

func (v *kvIterator) vtbl() *iteratorVtbl {
	return (*iteratorVtbl)(unsafe.Pointer(v.RawVTable))
}

// ForEach calls fn for each key/value pair in s, in enumeration order.
// If a pair cannot be retrieved, fn is called with a nil pair and the error,
// and iteration continues. The pair is released when fn returns, so fn must
// not retain it. ForEach stops and returns the first error returned by fn.
func (v *PropertySet) ForEach(fn func(pair *KeyValuePair, err error) error) error {
	disp, err := v.QueryInterface(IID_IIterable_IKeyValuePair_String_Object)
	if err != nil {
		return fromOLE(err)
	}
	iterable := (*kvIterable)(unsafe.Pointer(disp))
	defer iterable.Release()

	it, err := getObject[kvIterator](unsafe.Pointer(iterable), iterable.vtbl().First)
	if err != nil {
		return err
	}
	defer it.Release()

	for {
		hasCurrent, err := getScalar[bool](unsafe.Pointer(it), it.vtbl().Get_HasCurrent)
		if err != nil {
			return err
		}
		if !hasCurrent {
			return nil
		}

		pair, err := getObject[KeyValuePair](unsafe.Pointer(it), it.vtbl().Get_Current)
		if err == nil {
			err = fn(pair, nil)
			pair.Release()
		} else {
			err = fn(nil, err)
		}
		if err != nil {
			return err
		}

		if _, err := getScalar[bool](unsafe.Pointer(it), it.vtbl().MoveNext); err != nil {
			return err
		}
	}
}

// KeyValuePair is IKeyValuePair<String, Object>.
type KeyValuePair struct {
	ole.IInspectable
}

type keyValuePairVtbl struct {
	ole.IInspectableVtbl
	Get_Key   uintptr
	Get_Value uintptr
}

func (v *KeyValuePair) vtbl() *keyValuePairVtbl {
	return (*keyValuePairVtbl)(unsafe.Pointer(v.RawVTable))
}

// Key returns the UTF-16 code units of the pair's key.
func (v *KeyValuePair) Key() ([]uint16, error) {
	h, err := getScalar[ole.HString](unsafe.Pointer(v), v.vtbl().Get_Key)
	if err != nil {
		return nil, err
	}
	return takeHString(h), nil
}

// Value returns the pair's value, which is nil for a null value.
// The caller must release a non-nil result.
func (v *KeyValuePair) Value() (*ole.IInspectable, error) {
	return getScalar[*ole.IInspectable](unsafe.Pointer(v), v.vtbl().Get_Value)
}

// PropertyValue is Windows.Foundation.IPropertyValue, the interface
// implemented by boxed primitive values.
type PropertyValue struct {
	ole.IInspectable
}

type propertyValueVtbl struct {
	ole.IInspectableVtbl
	Get_Type            uintptr
	Get_IsNumericScalar uintptr
	GetUInt8            uintptr
	GetInt16            uintptr
	GetUInt16           uintptr
	GetInt32            uintptr
	GetUInt32           uintptr
	GetInt64            uintptr
	GetUInt64           uintptr
	GetSingle           uintptr
	GetDouble           uintptr
	GetChar16           uintptr
	GetBoolean          uintptr
	GetString           uintptr
	// The remaining accessors are not used.
}

func (v *PropertyValue) vtbl() *propertyValueVtbl {
	return (*propertyValueVtbl)(unsafe.Pointer(v.RawVTable))
}

// AsPropertyValue queries obj for IPropertyValue. It fails with
// E_NOINTERFACE for objects that are not boxed primitives, such as
// composite values. The caller must release the returned object.
func AsPropertyValue(obj *ole.IInspectable) (*PropertyValue, error) {
	disp, err := obj.QueryInterface(IID_IPropertyValue)
	if err != nil {
		return nil, fromOLE(err)
	}
	return (*PropertyValue)(unsafe.Pointer(disp)), nil
}

// Type returns the type tag of the boxed value.
func (v *PropertyValue) Type() (PropertyType, error) {
	return getScalar[PropertyType](unsafe.Pointer(v), v.vtbl().Get_Type)
}

func (v *PropertyValue) GetInt16() (int16, error) {
	return getScalar[int16](unsafe.Pointer(v), v.vtbl().GetInt16)
}

func (v *PropertyValue) GetInt32() (int32, error) {
	return getScalar[int32](unsafe.Pointer(v), v.vtbl().GetInt32)
}

func (v *PropertyValue) GetInt64() (int64, error) {
	return getScalar[int64](unsafe.Pointer(v), v.vtbl().GetInt64)
}

func (v *PropertyValue) GetUInt16() (uint16, error) {
	return getScalar[uint16](unsafe.Pointer(v), v.vtbl().GetUInt16)
}

func (v *PropertyValue) GetUInt32() (uint32, error) {
	return getScalar[uint32](unsafe.Pointer(v), v.vtbl().GetUInt32)
}

func (v *PropertyValue) GetUInt64() (uint64, error) {
	return getScalar[uint64](unsafe.Pointer(v), v.vtbl().GetUInt64)
}

func (v *PropertyValue) GetBoolean() (bool, error) {
	return getScalar[bool](unsafe.Pointer(v), v.vtbl().GetBoolean)
}

// GetString returns the UTF-16 code units of the boxed string.
func (v *PropertyValue) GetString() ([]uint16, error) {
	h, err := getScalar[ole.HString](unsafe.Pointer(v), v.vtbl().GetString)
	if err != nil {
		return nil, err
	}
	return takeHString(h), nil
}
