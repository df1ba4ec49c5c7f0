// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package lazy

import (
	"fmt"

	"github.com/grailbio/lazy/values"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
)

// dotNode is a program node in the dot graph.
type dotNode struct {
	p  *Program
	id NodeID
}

// ID is the unique identifier for this node. Implements graph.Node.
func (n dotNode) ID() int64 {
	return int64(n.id)
}

// DOTID implements dot.Node. Bound nodes are identified by their
// binding; inlined leaves, which may share a rendering, by their
// stamp.
func (n dotNode) DOTID() string {
	if n.inline() {
		return fmt.Sprintf("lit%d", n.id)
	}
	return n.p.names[n.id]
}

func (n dotNode) inline() bool {
	nd := n.p.nodes[n.id]
	return nd.isLeaf() && values.Inline(nd.value)
}

// Attributes implements encoding.Attributer. Nodes are labeled with
// their binding, digest prefix and expression; leaves are boxes.
func (n dotNode) Attributes() []encoding.Attribute {
	nd := n.p.nodes[n.id]
	var label string
	switch {
	case n.inline():
		label = n.p.names[n.id]
	case nd.isLeaf():
		label = fmt.Sprintf("%s %s\n%s", n.p.names[n.id], hashPrefix(nd.digest), values.Short(nd.value))
	default:
		args := make([]string, len(nd.args))
		for i, arg := range nd.args {
			args[i] = n.p.names[arg]
		}
		label = fmt.Sprintf("%s %s\n%s", n.p.names[n.id], hashPrefix(nd.digest), nd.op.Format(args))
	}
	attrs := []encoding.Attribute{{Key: "label", Value: label}}
	if nd.isLeaf() {
		attrs = append(attrs, encoding.Attribute{Key: "shape", Value: "box"})
	}
	return attrs
}

// Dot renders the program's graph in Graphviz DOT format. Each node
// of the program appears once; edges lead from operations to their
// arguments.
func (p *Program) Dot() ([]byte, error) {
	g := simple.NewDirectedGraph()
	for _, in := range p.leaves() {
		g.AddNode(dotNode{p, in})
	}
	for _, s := range p.Statements {
		g.AddNode(dotNode{p, s.ID})
	}
	for _, s := range p.Statements {
		for _, arg := range s.args {
			if !g.HasEdgeFromTo(int64(s.ID), int64(arg)) {
				g.SetEdge(g.NewEdge(dotNode{p, s.ID}, dotNode{p, arg}))
			}
		}
	}
	return dot.Marshal(g, "lazy", "", "\t")
}

// leaves returns the IDs of the leaves of the program, including
// inlined ones, in stamp order.
func (p *Program) leaves() []NodeID {
	var ids []NodeID
	for id := range p.names {
		if p.nodes[id].isLeaf() {
			ids = append(ids, id)
		}
	}
	sortIDs(ids)
	return ids
}
