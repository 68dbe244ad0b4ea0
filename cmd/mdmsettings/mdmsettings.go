// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

// The mdmsettings command prints the managed app configuration that a
// device-management agent has provisioned for this machine's application
// context. On platforms without managed app configuration it prints an
// empty result.
package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/mdmconfig/mdmconfig/envknob"
	"github.com/mdmconfig/mdmconfig/mdm"
	"github.com/peterbourgon/ff/v3"
)

func main() {
	log.SetFlags(0)

	fs := flag.NewFlagSet("mdmsettings", flag.ContinueOnError)
	var (
		format  = fs.String("format", "json", "output format: json, env or sh")
		verbose = fs.Bool("verbose", false, "log skipped entries and lookup failures to stderr")
	)
	err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("MDMSETTINGS"))
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("ff.Parse: %v", err)
	}
	if fs.NArg() > 0 {
		log.Fatalf("unexpected arguments: %q", fs.Args())
	}
	if !validFormat(*format) {
		log.Fatalf("unknown -format %q; want json, env or sh", *format)
	}
	if *verbose {
		envknob.Setenv("MDM_DEBUG_VERBOSE", "true")
		envknob.LogCurrent(log.Printf)
	}

	settings := mdm.GetSettings()
	indent := isatty.IsTerminal(os.Stdout.Fd())
	if err := writeSettings(os.Stdout, settings, *format, indent, log.Printf); err != nil {
		log.Fatal(err)
	}
}
