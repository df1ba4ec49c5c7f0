// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package tool

import (
	"context"
	"flag"
	"os"
)

func (c *Cmd) dot(ctx context.Context, args ...string) {
	var (
		flags  = flag.NewFlagSet("dot", flag.ExitOnError)
		output = flags.String("o", "", "write the graph to this file instead of stdout")
		help   = `Dot renders the graph of an expression in Graphviz DOT format.
Each node appears once, however many times it is used; edges point
from operations to their arguments. For example:

	lazy dot "(x + 1) * (x + 1)" | dot -Tpng > graph.png`
	)
	c.Parse(flags, args, help, "dot [-o file] expr")
	if flags.NArg() != 1 {
		flags.Usage()
	}
	l := c.exprs(flags.Args())[0]
	b, err := l.Program().Dot()
	c.must(err)
	b = append(b, '\n')
	if *output != "" {
		c.must(os.WriteFile(*output, b, 0644))
		return
	}
	_, err = c.Stdout.Write(b)
	c.must(err)
}

func (c *Cmd) tree(ctx context.Context, args ...string) {
	var (
		flags = flag.NewFlagSet("tree", flag.ExitOnError)
		help  = `Tree prints each expression as a tree of operations and their
arguments. Shared subexpressions are printed wherever they are used
and are labeled with the statement that computes them.`
	)
	c.Parse(flags, args, help, "tree expr...")
	if flags.NArg() == 0 {
		flags.Usage()
	}
	for _, l := range c.exprs(flags.Args()) {
		c.Printf("%s", l.Program().Tree())
	}
}
