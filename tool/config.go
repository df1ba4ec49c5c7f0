// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package tool

import (
	"context"
	"flag"

	"github.com/grailbio/lazy/config"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

func (c *Cmd) config(ctx context.Context, args ...string) {
	var (
		flags = flag.NewFlagSet("config", flag.ExitOnError)
		names = flags.Bool("names", false, "list the names defined by the configuration, with their digests")
		help  = `Config writes the current lazy configuration to standard output.

Lazy's configuration is a YAML file with the following toplevel keys:

log
	The log level: off, error, info or debug. The -log flag overrides
	the configured level.
inputs
	An ordered map of input names to values. Scalars (integers,
	floats, strings and bools) are used as is. A list of numbers is a
	one-dimensional array; other lists are tuples. A map describes an
	array by its shape and either a fill value or its elements in
	row-major order (data). A map may instead give a plain value.
	With own: true, the input is owned by the graph.
let
	An ordered map of names to expressions over the inputs and
	earlier bindings. Every use of a binding shares the same node.

Inputs and bindings are constructed in the order in which they are
written; this order determines the order of evaluation. For example:

	log: info
	inputs:
	  x: {shape: [3], fill: 1, own: true}
	  m: {shape: [2, 2], data: [1, 2, 3, 4]}
	  y: [1, 2, 3]
	  s: "hello"
	let:
	  e: "5 * x"
	  f: "e + e"`
	)
	c.Parse(flags, args, help, "config [-names]")
	if flags.NArg() != 0 {
		flags.Usage()
	}
	if c.Config == nil {
		c.Config = new(config.Config)
	}
	if !*names {
		b, err := c.Config.Marshal()
		c.must(err)
		c.Printf("%s", b)
		return
	}
	_, env := c.graph()
	keys := maps.Keys(env)
	slices.SortFunc(keys, func(a, b string) bool {
		if sa, sb := env[a].Stamp(), env[b].Stamp(); sa != sb {
			return sa < sb
		}
		return a < b
	})
	for _, name := range keys {
		c.Printf("%s\t%s\n", name, env[name].Digest().Short())
	}
}
