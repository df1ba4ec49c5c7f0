// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package tool

import (
	"context"
	"flag"
)

func (c *Cmd) digest(ctx context.Context, args ...string) {
	var (
		flags = flag.NewFlagSet("digest", flag.ExitOnError)
		short = flags.Bool("short", false, "print abbreviated digests")
		help  = `Digest prints the digest of each expression, one per line.

Digests are computed from the expression's structure and the contents
of its leaves; nothing is evaluated. Expressions that compute the same
value in the same way have the same digest, regardless of when or how
often they were constructed.`
	)
	c.Parse(flags, args, help, "digest [-short] expr...")
	if flags.NArg() == 0 {
		flags.Usage()
	}
	for _, l := range c.exprs(flags.Args()) {
		if *short {
			c.Println(l.Digest().Short())
		} else {
			c.Println(l.Digest())
		}
	}
}
