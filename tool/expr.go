// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package tool

import (
	"github.com/grailbio/lazy"
	"github.com/grailbio/lazy/config"
	"github.com/grailbio/lazy/syntax"
	"go.uber.org/multierr"
)

// graph returns a new graph, logging to the command's logger and
// reporting progress to its status, in which the configured inputs
// and bindings have been constructed.
func (c *Cmd) graph() (*lazy.Graph, map[string]lazy.Lazy) {
	g := lazy.NewGraph()
	g.Log = c.Log
	if c.Status != nil {
		g.Status = c.Status.Group("eval")
	}
	cfg := c.Config
	if cfg == nil {
		cfg = new(config.Config)
	}
	env, err := cfg.Bind(g)
	if err != nil {
		c.Fatal(err)
	}
	return g, env
}

// exprs parses each argument as an expression in a single graph, in
// argument order, so that expressions share the configured inputs
// and bindings. All parse errors are reported together.
func (c *Cmd) exprs(args []string) []lazy.Lazy {
	g, env := c.graph()
	var (
		exprs = make([]lazy.Lazy, len(args))
		err   error
	)
	for i, arg := range args {
		var e error
		exprs[i], e = syntax.Parse(g, arg, env)
		if e != nil {
			err = multierr.Append(err, e)
		}
	}
	if err != nil {
		for _, e := range multierr.Errors(err) {
			c.Errorln(e)
		}
		c.Exit(1)
	}
	return exprs
}
