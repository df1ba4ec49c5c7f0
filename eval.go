// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package lazy

import (
	"fmt"

	"github.com/grailbio/base/status"
	"github.com/grailbio/lazy/errors"
	"github.com/grailbio/lazy/values"
)

// Eval evaluates the program's statements in order and returns the
// value of its root. Each statement is evaluated at most once, and
// the root's value is returned as soon as it is computed. Errors
// returned by operations are returned unchanged. A program whose
// root is a leaf evaluates to the leaf's value.
func (p *Program) Eval() (values.T, error) {
	root := p.nodes[p.root]
	if root.isLeaf() {
		return root.value, nil
	}
	var task *status.Task
	if p.g.Status != nil {
		task = p.g.Status.Start(root.digest.Short())
		defer task.Done()
	}
	results := make(map[NodeID]values.T, len(p.Statements))
	for i, stmt := range p.Statements {
		args := make([]values.T, len(stmt.args))
		for j, id := range stmt.args {
			if n := p.nodes[id]; n.isLeaf() {
				args[j] = n.value
				continue
			}
			v, ok := results[id]
			if !ok {
				return nil, errors.E("eval", stmt.Name, errors.Fatal,
					errors.Errorf("argument %d evaluated out of order", j))
			}
			args[j] = v
		}
		p.g.Log.Debugf("%s: %s", stmt.Name, stmt.Expr())
		if task != nil {
			task.Print(fmt.Sprintf("%d/%d %s", i+1, len(p.Statements), stmt.Name))
		}
		v, err := stmt.Op.Fn(args)
		if err != nil {
			return nil, err
		}
		if stmt.ID == p.root {
			return v, nil
		}
		results[stmt.ID] = v
	}
	return nil, errors.E("eval", root.digest, errors.Fatal,
		errors.New("program ended without evaluating its root"))
}
