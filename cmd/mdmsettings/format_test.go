// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWriteSettings(t *testing.T) {
	settings := map[string]string{
		"ServerURL":   "https://example.com",
		"Port":        "8443",
		"Greeting":    "hello world",
		"Cost":        "$5",
		"Quote":       "it's",
		"Empty":       "",
		"bad-name":    "x",
		"1stSetting":  "y",
		"AllowUpdate": "true",
	}
	tests := []struct {
		name     string
		format   string
		indent   bool
		settings map[string]string
		want     string
		warns    []string
	}{
		{
			name:     "json-compact",
			format:   "json",
			settings: map[string]string{"b": "2", "a": "1"},
			want:     `{"a":"1","b":"2"}` + "\n",
		},
		{
			name:     "json-indent",
			format:   "json",
			indent:   true,
			settings: map[string]string{"b": "2", "a": "1"},
			want:     "{\n  \"a\": \"1\",\n  \"b\": \"2\"\n}\n",
		},
		{
			name:     "json-empty",
			format:   "json",
			settings: map[string]string{},
			want:     "{}\n",
		},
		{
			name:     "env-empty",
			format:   "env",
			settings: map[string]string{},
			want:     "",
		},
		{
			name:     "env",
			format:   "env",
			settings: settings,
			want: strings.Join([]string{
				"1stSetting=y",
				"AllowUpdate=true",
				"Cost=$5",
				"Empty=",
				"Greeting=hello world",
				"Port=8443",
				"Quote=it's",
				"ServerURL=https://example.com",
				"bad-name=x",
			}, "\n") + "\n",
		},
		{
			name:     "sh",
			format:   "sh",
			settings: settings,
			want: strings.Join([]string{
				"export AllowUpdate=true",
				`export Cost=\$5`,
				"export Empty=''",
				"export Greeting='hello world'",
				"export Port=8443",
				`export Quote=it\'s`,
				"export ServerURL=https://example.com",
			}, "\n") + "\n",
			warns: []string{
				`skipping "1stSetting": not a valid shell variable name`,
				`skipping "bad-name": not a valid shell variable name`,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf strings.Builder
			var warns []string
			warnf := func(format string, args ...any) {
				warns = append(warns, fmt.Sprintf(format, args...))
			}
			if err := writeSettings(&buf, tt.settings, tt.format, tt.indent, warnf); err != nil {
				t.Fatalf("writeSettings: %v", err)
			}
			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.warns, warns); diff != "" {
				t.Errorf("warnings mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWriteSettingsUnknownFormat(t *testing.T) {
	var buf strings.Builder
	err := writeSettings(&buf, map[string]string{"a": "1"}, "yaml", false, t.Logf)
	if err == nil {
		t.Fatal("writeSettings succeeded for unknown format")
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %q for unknown format", buf.String())
	}
	if validFormat("yaml") {
		t.Error(`validFormat("yaml") = true`)
	}
}

func TestIsShellName(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"a", true},
		{"_", true},
		{"A_1", true},
		{"1A", false},
		{"a-b", false},
		{"a.b", false},
		{"é", false},
	}
	for _, tt := range tests {
		if got := isShellName(tt.in); got != tt.want {
			t.Errorf("isShellName(%q) = %v; want %v", tt.in, got, tt.want)
		}
	}
}
