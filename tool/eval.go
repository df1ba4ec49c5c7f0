// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package tool

import (
	"context"
	"flag"

	"github.com/grailbio/lazy/ndarray"
	"github.com/grailbio/lazy/values"
	"go.uber.org/multierr"
)

func (c *Cmd) eval(ctx context.Context, args ...string) {
	var (
		flags = flag.NewFlagSet("eval", flag.ExitOnError)
		data  = flags.Bool("data", false, "print the elements of array results")
		help  = `Eval evaluates each expression and prints its value.

Expressions are evaluated independently, in argument order. Statements
are evaluated in the order in which they were constructed; each is
logged at debug level. Evaluation errors are reported after all
expressions have been evaluated.`
	)
	c.Parse(flags, args, help, "eval [-data] expr...")
	if flags.NArg() == 0 {
		flags.Usage()
	}
	exprs := c.exprs(flags.Args())
	var err error
	for i, l := range exprs {
		if ctx.Err() != nil {
			err = multierr.Append(err, ctx.Err())
			break
		}
		v, e := l.Eval()
		if e != nil {
			err = multierr.Append(err, e)
			continue
		}
		c.Printf("%s = %s\n", flags.Arg(i), values.Short(v))
		if a, ok := v.(*ndarray.Array); ok && *data {
			c.Println(a.Data())
		}
	}
	if err != nil {
		c.Fatalf("%d of %d expressions failed: %v", len(multierr.Errors(err)), len(exprs), err)
	}
}
