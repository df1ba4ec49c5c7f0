// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package tool

import (
	"context"
	"flag"
	"strings"
)

func (c *Cmd) trace(ctx context.Context, args ...string) {
	var (
		flags = flag.NewFlagSet("trace", flag.ExitOnError)
		equiv = flags.Bool("equiv", false, "list statements that compute the same digest")
		help  = `Trace prints the trace of each expression: its digest prefix, the
inputs it depends on, and the statements that compute it, in the
order in which they would be evaluated.

With -equiv, trace also lists groups of statements that compute the
same digest. Such statements were constructed independently and are
evaluated once each; binding the subexpression with let shares it.`
	)
	c.Parse(flags, args, help, "trace [-equiv] expr...")
	if flags.NArg() == 0 {
		flags.Usage()
	}
	for _, l := range c.exprs(flags.Args()) {
		c.Println(l)
		if !*equiv {
			continue
		}
		for _, group := range l.Program().Equivalent() {
			c.Println("equivalent:", strings.Join(group, " "))
		}
	}
}
