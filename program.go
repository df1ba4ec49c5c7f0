// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package lazy

import (
	"fmt"

	"github.com/grailbio/base/digest"
	"github.com/grailbio/lazy/errors"
	"github.com/grailbio/lazy/values"
	"golang.org/x/exp/slices"
)

// Input is a leaf bound to a name in a program.
type Input struct {
	// Name is the input's binding: v0, v1, ...
	Name   string
	ID     NodeID
	Digest digest.Digest
	Value  values.T
}

// Statement is a single assignment of a program: it binds the result
// of applying Op to its arguments.
type Statement struct {
	// Name is the statement's binding: e0, e1, ...
	Name   string
	ID     NodeID
	Digest digest.Digest
	Op     *Op
	// Args holds, for each argument, the name of the binding it
	// refers to, or the literal rendering of an inlined leaf.
	Args []string

	args []NodeID
}

// Expr renders the statement's right-hand side, for example
// "(v0 + 4)".
func (s Statement) Expr() string {
	return s.Op.Format(s.Args)
}

// Program is the flattened form of a lazy value's graph: each node
// reachable from the root appears once, leaves as inputs and
// operations as statements, in construction order.
type Program struct {
	// Inputs are the program's non-inlined leaves, in binding order.
	Inputs []Input
	// Statements are the program's operations, in construction
	// order. If the root is an operation, it is computed by the last
	// statement. A program whose root is a leaf has no statements.
	Statements []Statement

	g     *Graph
	root  NodeID
	nodes []*node
	names map[NodeID]string
}

// Program flattens the graph rooted at root. Program panics if root
// belongs to another graph.
func (g *Graph) Program(root Lazy) *Program {
	if root.g != g {
		panic(errors.E("program", errors.Invalid, errors.New("lazy value belongs to a different graph")))
	}
	p := &Program{
		g:     g,
		root:  root.id,
		nodes: g.snapshot(),
		names: make(map[NodeID]string),
	}
	var (
		leaves, ops []NodeID
		once        = make(map[NodeID]bool)
		visit       func(NodeID)
	)
	// Arguments are visited before the operations that use them.
	// Each node is visited once; a node reachable along several
	// paths is placed by its stamp below, not by the path that
	// reached it.
	visit = func(id NodeID) {
		if once[id] {
			return
		}
		once[id] = true
		n := p.nodes[id]
		if n.isLeaf() {
			leaves = append(leaves, id)
			return
		}
		for _, arg := range n.args {
			visit(arg)
		}
		ops = append(ops, id)
	}
	visit(root.id)
	byStamp := func(i, j NodeID) bool { return i < j }
	slices.SortStableFunc(leaves, byStamp)
	slices.SortStableFunc(ops, byStamp)

	for _, id := range leaves {
		n := p.nodes[id]
		if values.Inline(n.value) {
			p.names[id] = values.Short(n.value)
			continue
		}
		name := fmt.Sprintf("v%d", len(p.Inputs))
		p.names[id] = name
		p.Inputs = append(p.Inputs, Input{Name: name, ID: id, Digest: n.digest, Value: n.value})
	}
	for _, id := range ops {
		n := p.nodes[id]
		name := fmt.Sprintf("e%d", len(p.Statements))
		p.names[id] = name
		args := make([]string, len(n.args))
		for i, arg := range n.args {
			args[i] = p.names[arg]
		}
		p.Statements = append(p.Statements, Statement{
			Name:   name,
			ID:     id,
			Digest: n.digest,
			Op:     n.op,
			Args:   args,
			args:   n.args,
		})
	}
	return p
}

// Root returns the program's root.
func (p *Program) Root() Lazy {
	return Lazy{p.g, p.root}
}

// Name returns the binding name, or the inline rendering, of the
// node with the provided ID in p.
func (p *Program) Name(id NodeID) (string, bool) {
	name, ok := p.names[id]
	return name, ok
}

// Equivalent returns groups of statements that compute the same
// digest: identical subexpressions that were constructed
// independently and are therefore evaluated more than once. Each
// group lists statement names in program order; groups are ordered
// by their first statement.
func (p *Program) Equivalent() [][]string {
	var (
		order  []digest.Digest
		groups = make(map[digest.Digest][]string)
	)
	for _, s := range p.Statements {
		if _, ok := groups[s.Digest]; !ok {
			order = append(order, s.Digest)
		}
		groups[s.Digest] = append(groups[s.Digest], s.Name)
	}
	var equiv [][]string
	for _, d := range order {
		if len(groups[d]) > 1 {
			equiv = append(equiv, groups[d])
		}
	}
	return equiv
}

func sortIDs(ids []NodeID) {
	slices.Sort(ids)
}
