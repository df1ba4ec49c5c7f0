// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/grailbio/lazy/tool"
)

// version is set by the linker:
//
//	go build -ldflags "-X main.version=$(git describe --tags)"
var version string

var configFile = os.Getenv("LAZYCONFIG")

const intro = `Configuration

The environment variable LAZYCONFIG names the default configuration
file; the -config flag overrides it. Without a configuration, only
literals and builtin functions may appear in expressions:

	lazy eval "ones(3) * 2 + 1"`

func main() {
	cmd := &tool.Cmd{
		ConfigFile: configFile,
		Version:    version,
		Intro:      intro,
	}
	cmd.Flags().Parse(os.Args[1:])
	cmd.Main()
}
