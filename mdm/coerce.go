// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package mdm

import (
	"fmt"
	"strconv"
	"strings"
)

// CoerceValue returns the canonical string form of v:
//
//   - signed integers in decimal, with a leading '-' if negative;
//   - unsigned integers in decimal;
//   - booleans as "true" or "false";
//   - strings as-is, with invalid UTF-8 replaced by U+FFFD.
//
// It reports false for any other kind.
func CoerceValue(v Value) (s string, ok bool) {
	switch v.kind {
	case KindInt16, KindInt32, KindInt64:
		return strconv.FormatInt(int64(v.bits), 10), true
	case KindUInt16, KindUInt32, KindUInt64:
		return strconv.FormatUint(v.bits, 10), true
	case KindBool:
		return strconv.FormatBool(v.bits != 0), true
	case KindString:
		return strings.ToValidUTF8(v.str, "\uFFFD"), true
	default:
		return "", false
	}
}

// CoerceAll converts entries into a map of their string forms.
// Entries that cannot be read or whose values have no string form
// are omitted. If a key repeats, the last entry wins.
// The returned map is never nil.
func CoerceAll(entries []Entry) map[string]string {
	settings, _ := coerceAll(entries, nil)
	return settings
}

// coerceAll is like [CoerceAll], but also calls onDrop, if non-nil,
// for each omitted entry and returns the number of omitted entries.
func coerceAll(entries []Entry, onDrop func(Entry, error)) (settings map[string]string, dropped int) {
	settings = make(map[string]string, len(entries))
	for _, e := range entries {
		if err := coerceInto(settings, e); err != nil {
			dropped++
			if onDrop != nil {
				onDrop(e, err)
			}
		}
	}
	return settings, dropped
}

func coerceInto(settings map[string]string, e Entry) error {
	if e.Err != nil {
		return fmt.Errorf("%w: %w", ErrUnreadableEntry, e.Err)
	}
	s, ok := CoerceValue(e.Value)
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnsupportedType, e.Value)
	}
	settings[e.Key] = s
	return nil
}
