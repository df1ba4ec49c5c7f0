// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package lazy

import (
	"sync"

	"github.com/grailbio/base/digest"
	"github.com/grailbio/base/status"
	"github.com/grailbio/lazy/errors"
	"github.com/grailbio/lazy/log"
	"github.com/grailbio/lazy/values"
)

// NodeID addresses a node in its Graph's arena. A node's ID is also
// its construction stamp: IDs are allocated in strictly increasing
// order as nodes are constructed.
type NodeID uint64

// node is an arena entry. Nodes are immutable once added to a graph.
type node struct {
	// op is nil for leaves.
	op   *Op
	args []NodeID

	value     values.T
	immutable bool
	owned     bool

	digest digest.Digest
}

func (n *node) isLeaf() bool { return n.op == nil }

// Graph is the construction context of lazy values. It owns the
// arena of nodes and allocates their stamps. A Graph is safe for
// concurrent construction; stamps are totally ordered within a Graph.
// Lazy values from different graphs may not be combined.
type Graph struct {
	// Log receives a debug message for every statement evaluated.
	// A nil Log discards them.
	Log *log.Logger
	// Status, if set, receives evaluation progress.
	Status *status.Group

	mu    sync.Mutex
	nodes []*node
}

// NewGraph returns a new, empty graph.
func NewGraph() *Graph {
	return new(Graph)
}

// Len returns the number of nodes constructed in the graph.
func (g *Graph) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.nodes)
}

// add appends n to the arena, allocating its stamp.
func (g *Graph) add(n *node) NodeID {
	g.mu.Lock()
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, n)
	g.mu.Unlock()
	return id
}

func (g *Graph) node(id NodeID) *node {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.nodes[id]
}

// snapshot returns the arena as of now. Nodes are never modified
// after they are added, and appends never write within the
// snapshot's length, so the snapshot may be read without locking.
func (g *Graph) snapshot() []*node {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.nodes[:len(g.nodes):len(g.nodes)]
}

// Value returns v as a lazy value. If v is already a Lazy value of
// this graph it is returned unchanged. Otherwise a new leaf is
// constructed, owned if v is immutable by value. Value fails if v
// cannot be digested, or if v is a Lazy value of another graph.
func (g *Graph) Value(v values.T) (Lazy, error) {
	return g.wrap(v, false)
}

// Own is like Value, but marks the new leaf as owned by the graph.
func (g *Graph) Own(v values.T) (Lazy, error) {
	return g.wrap(v, true)
}

func (g *Graph) wrap(v values.T, own bool) (Lazy, error) {
	if l, ok := v.(Lazy); ok {
		if err := g.check(l); err != nil {
			return Lazy{}, err
		}
		return l, nil
	}
	n, err := leaf(v, own)
	if err != nil {
		return Lazy{}, err
	}
	return Lazy{g, g.add(n)}, nil
}

// check fails if l belongs to another graph.
func (g *Graph) check(l Lazy) error {
	if l.g != g {
		return errors.E("value", errors.Invalid, errors.New("lazy value belongs to a different graph"))
	}
	return nil
}

// leaf returns a new, unstamped leaf node for v.
func leaf(v values.T, own bool) (*node, error) {
	d, err := values.Digest(v)
	if err != nil {
		return nil, err
	}
	immutable := values.Immutable(v)
	return &node{
		value:     v,
		immutable: immutable,
		owned:     own || immutable,
		digest:    d,
	}, nil
}

// Apply returns a lazy value representing op applied to args. Each
// argument is first made lazy with Value. The new node's digest is
// computed from op's digest followed by the digests of the
// arguments, in order. If any argument cannot be made lazy, Apply
// fails without constructing any node.
func (g *Graph) Apply(op *Op, args ...values.T) (Lazy, error) {
	if op.Arity >= 0 && len(args) != op.Arity {
		return Lazy{}, errors.E("apply", op.Name, errors.Invalid,
			errors.Errorf("expected %d arguments, got %d", op.Arity, len(args)))
	}
	// Leaves are stamped only once every argument is known to be
	// valid, so that a failed Apply leaves the graph unchanged.
	leaves := make([]*node, len(args))
	for i, arg := range args {
		var err error
		if l, ok := arg.(Lazy); ok {
			err = g.check(l)
		} else {
			leaves[i], err = leaf(arg, false)
		}
		if err != nil {
			return Lazy{}, err
		}
	}
	ids := make([]NodeID, len(args))
	w := Digester.NewWriter()
	w.Write(op.Digest.Bytes())
	for i, arg := range args {
		if leaves[i] == nil {
			l := arg.(Lazy)
			ids[i] = l.id
			w.Write(l.Digest().Bytes())
			continue
		}
		ids[i] = g.add(leaves[i])
		w.Write(leaves[i].digest.Bytes())
	}
	n := &node{op: op, args: ids, digest: w.Digest()}
	return Lazy{g, g.add(n)}, nil
}

// Add returns the lazy value a + b.
func (g *Graph) Add(a, b values.T) (Lazy, error) { return g.Apply(AddOp, a, b) }

// Sub returns the lazy value a - b.
func (g *Graph) Sub(a, b values.T) (Lazy, error) { return g.Apply(SubOp, a, b) }

// Mul returns the lazy value a * b.
func (g *Graph) Mul(a, b values.T) (Lazy, error) { return g.Apply(MulOp, a, b) }

// Div returns the lazy value a / b.
func (g *Graph) Div(a, b values.T) (Lazy, error) { return g.Apply(DivOp, a, b) }

// RAdd returns the lazy value b + a: the reflected form of Add.
// Because operation digests are order-sensitive, RAdd(a, b) and
// Add(a, b) have different digests.
func (g *Graph) RAdd(a, b values.T) (Lazy, error) { return g.Apply(AddOp, b, a) }

// RSub returns the lazy value b - a.
func (g *Graph) RSub(a, b values.T) (Lazy, error) { return g.Apply(SubOp, b, a) }

// RMul returns the lazy value b * a.
func (g *Graph) RMul(a, b values.T) (Lazy, error) { return g.Apply(MulOp, b, a) }

// RDiv returns the lazy value b / a.
func (g *Graph) RDiv(a, b values.T) (Lazy, error) { return g.Apply(DivOp, b, a) }
