// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"slices"

	jsonv2 "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/kballard/go-shellquote"
	"github.com/mdmconfig/mdmconfig/types/logger"
)

func validFormat(format string) bool {
	switch format {
	case "json", "env", "sh":
		return true
	}
	return false
}

// writeSettings renders settings to w in the named format. Keys are always
// emitted in sorted order. Settings that cannot be expressed in the sh format
// are reported to warnf and omitted.
func writeSettings(w io.Writer, settings map[string]string, format string, indent bool, warnf logger.Logf) error {
	switch format {
	case "json":
		return writeJSON(w, settings, indent)
	case "env":
		return writeLines(w, settings, func(k, v string) (string, bool) {
			return k + "=" + v, true
		})
	case "sh":
		return writeLines(w, settings, func(k, v string) (string, bool) {
			if !isShellName(k) {
				warnf("skipping %q: not a valid shell variable name", k)
				return "", false
			}
			return "export " + k + "=" + shellquote.Join(v), true
		})
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeJSON(w io.Writer, settings map[string]string, indent bool) error {
	opts := []jsonv2.Options{jsonv2.Deterministic(true)}
	if indent {
		opts = append(opts, jsontext.WithIndent("  "))
	}
	if err := jsonv2.MarshalWrite(w, settings, opts...); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func writeLines(w io.Writer, settings map[string]string, line func(k, v string) (string, bool)) error {
	bw := bufio.NewWriter(w)
	for _, k := range slices.Sorted(maps.Keys(settings)) {
		if s, ok := line(k, settings[k]); ok {
			bw.WriteString(s)
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

// isShellName reports whether s is a valid POSIX shell variable name.
func isShellName(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && '0' <= c && c <= '9':
		default:
			return false
		}
	}
	return true
}
