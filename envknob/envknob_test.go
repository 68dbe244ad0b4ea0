// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package envknob

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRegisterBool(t *testing.T) {
	const knob = "MDM_TEST_REGISTER_BOOL"
	t.Setenv(knob, "")
	get := RegisterBool(knob)
	if get() {
		t.Fatalf("unset knob reported true")
	}
	Setenv(knob, "true")
	if !get() {
		t.Fatalf("knob not updated by Setenv")
	}
	Setenv(knob, "0")
	if get() {
		t.Fatalf("knob not cleared by Setenv")
	}
}

func TestRegisterBoolInvalid(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	const knob = "MDM_TEST_REGISTER_BOOL_INVALID"
	t.Setenv(knob, "yes")
	get := RegisterBool(knob)
	if get() {
		t.Fatalf("invalid value at registration reported true")
	}

	Setenv(knob, "true")
	if !get() {
		t.Fatalf("knob not updated by Setenv")
	}
	Setenv(knob, "on")
	if get() {
		t.Fatalf("invalid value from Setenv reported true")
	}

	const want = `ignoring invalid boolean environment variable MDM_TEST_REGISTER_BOOL_INVALID value "yes"`
	if !strings.Contains(buf.String(), want) {
		t.Errorf("log output %q does not contain %q", buf.String(), want)
	}
}

func TestLogCurrent(t *testing.T) {
	const knob = "MDM_TEST_LOG_CURRENT"
	t.Setenv(knob, "")
	Setenv(knob, "value")
	t.Cleanup(func() { Setenv(knob, "") })

	var lines []string
	LogCurrent(func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	})
	want := `envknob: MDM_TEST_LOG_CURRENT="value"`
	if !cmp.Equal(filter(lines, want), []string{want}) {
		t.Errorf("LogCurrent output %q does not contain %q", lines, want)
	}
}

func filter(lines []string, want string) []string {
	var out []string
	for _, l := range lines {
		if l == want {
			out = append(out, l)
		}
	}
	return out
}
