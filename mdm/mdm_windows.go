// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package mdm

import (
	"errors"
	"fmt"

	"github.com/go-ole/go-ole"
	"github.com/mdmconfig/mdmconfig/util/winrt"
)

func newPlatformSource() SettingsSource {
	return apartmentSource{NewContainerSource(openLocalSettings)}
}

// apartmentSource reads from a [SettingsSource] on a thread that has
// COM initialized, as required by the Windows Runtime.
type apartmentSource struct {
	SettingsSource
}

func (s apartmentSource) ReadSettings() (settings map[string]string, err error) {
	err = winrt.WithMTA(func() (err error) {
		settings, err = s.SettingsSource.ReadSettings()
		return err
	})
	return settings, err
}

// openLocalSettings is an [OpenStoreFunc] for ApplicationData.Current.LocalSettings.
func openLocalSettings() (Store, error) {
	appData, err := winrt.CurrentApplicationData()
	if err != nil {
		return nil, currentAppDataError(err)
	}
	defer appData.Release()

	local, err := appData.LocalSettings()
	if err != nil {
		return nil, fmt.Errorf("ApplicationData.LocalSettings: %w", err)
	}
	return &localSettings{root: local}, nil
}

// currentAppDataError classifies a failure of ApplicationData.Current.
func currentAppDataError(err error) error {
	if errors.Is(err, winrt.ErrNoPackageIdentity) {
		return fmt.Errorf("%w: %w", ErrNoApplicationContext, err)
	}
	return fmt.Errorf("ApplicationData.Current: %w", err)
}

type localSettings struct {
	root *winrt.ApplicationDataContainer
}

func (s *localSettings) LookupContainer(name string) (Container, error) {
	containers, err := s.root.Containers()
	if err != nil {
		return nil, fmt.Errorf("Containers: %w", err)
	}
	defer containers.Release()

	switch found, err := hasContainer(containers, name); {
	case err != nil:
		return nil, err
	case !found:
		return nil, ErrContainerAbsent
	}

	c, err := containers.Lookup(name)
	switch {
	case errors.Is(err, winrt.ErrBounds):
		// Deleted between HasKey and Lookup.
		return nil, ErrContainerAbsent
	case err != nil:
		return nil, fmt.Errorf("Containers.Lookup: %w", err)
	}
	return &settingsContainer{c: c}, nil
}

func (s *localSettings) Close() error {
	s.root.Release()
	return nil
}

type settingsContainer struct {
	c *winrt.ApplicationDataContainer
}

func (c *settingsContainer) Entries() ([]Entry, error) {
	values, err := c.c.Values()
	if err != nil {
		return nil, fmt.Errorf("Values: %w", err)
	}
	defer values.Release()

	var entries []Entry
	err = values.ForEach(func(pair *winrt.KeyValuePair, err error) error {
		if err != nil {
			entries = append(entries, Entry{Err: err})
		} else {
			entries = append(entries, readEntry(pair))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("Values: %w", err)
	}
	return entries, nil
}

func (c *settingsContainer) Close() error {
	c.c.Release()
	return nil
}

func readEntry(pair *winrt.KeyValuePair) Entry {
	key, err := pair.Key()
	if err != nil {
		return Entry{Err: fmt.Errorf("key: %w", err)}
	}
	e := Entry{Key: decodeUTF16(key)}

	obj, err := pair.Value()
	switch {
	case err != nil:
		e.Err = fmt.Errorf("value: %w", err)
	case obj == nil:
		e.Value = OtherValue("null")
	default:
		defer obj.Release()
		if e.Value, err = readValue(obj); err != nil {
			e.Err = fmt.Errorf("value: %w", err)
		}
	}
	return e
}

// readValue converts a settings value to a [Value]. Objects that are not
// boxed primitives, such as ApplicationDataCompositeValue, are [KindOther].
func readValue(obj *ole.IInspectable) (Value, error) {
	pv, err := winrt.AsPropertyValue(obj)
	if err != nil {
		name, _ := obj.GetRuntimeClassName()
		return OtherValue(name), nil
	}
	defer pv.Release()
	return valueFromProperty(pv)
}
