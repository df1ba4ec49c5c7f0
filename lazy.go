// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package lazy

import (
	"github.com/grailbio/base/digest"
	"github.com/grailbio/lazy/values"
)

// Lazy is a handle to a node of a Graph: a leaf wrapping a raw
// value, or an operation applied to other nodes. Lazy values are
// small, comparable and immutable; every operation on them returns a
// new Lazy value for a new node. The zero Lazy is not valid.
type Lazy struct {
	g  *Graph
	id NodeID
}

func (l Lazy) node() *node {
	return l.g.node(l.id)
}

// Graph returns the graph l belongs to.
func (l Lazy) Graph() *Graph { return l.g }

// ID returns the arena ID of l's node.
func (l Lazy) ID() NodeID { return l.id }

// Digest returns l's digest. The digest of a leaf is the digest of
// its value; the digest of an operation is computed from the
// operation's digest and the digests of its arguments.
func (l Lazy) Digest() digest.Digest { return l.node().digest }

// Stamp returns l's construction stamp.
func (l Lazy) Stamp() uint64 { return uint64(l.id) }

// IsLeaf tells whether l wraps a raw value.
func (l Lazy) IsLeaf() bool { return l.node().isLeaf() }

// Owned tells whether l is a leaf owned by its graph: either it was
// constructed with Own, or its value is immutable by value.
func (l Lazy) Owned() bool { return l.node().owned }

// Immutable tells whether l is a leaf whose value is immutable by
// value.
func (l Lazy) Immutable() bool { return l.node().immutable }

// Program returns the program computing l.
func (l Lazy) Program() *Program { return l.g.Program(l) }

// Eval evaluates l.
func (l Lazy) Eval() (values.T, error) { return l.Program().Eval() }

// Eval evaluates v if it is a Lazy value; otherwise v is returned
// unchanged.
func Eval(v values.T) (values.T, error) {
	if l, ok := v.(Lazy); ok {
		return l.Eval()
	}
	return v, nil
}

// Add returns l + v. Add panics if v cannot be made lazy in l's
// graph; use Graph.Add to handle the error.
func (l Lazy) Add(v values.T) Lazy { return must(l.g.Add(l, v)) }

// Sub returns l - v. It panics as Add.
func (l Lazy) Sub(v values.T) Lazy { return must(l.g.Sub(l, v)) }

// Mul returns l * v. It panics as Add.
func (l Lazy) Mul(v values.T) Lazy { return must(l.g.Mul(l, v)) }

// Div returns l / v. It panics as Add.
func (l Lazy) Div(v values.T) Lazy { return must(l.g.Div(l, v)) }

// RAdd returns v + l. It panics as Add.
func (l Lazy) RAdd(v values.T) Lazy { return must(l.g.RAdd(l, v)) }

// RSub returns v - l. It panics as Add.
func (l Lazy) RSub(v values.T) Lazy { return must(l.g.RSub(l, v)) }

// RMul returns v * l. It panics as Add.
func (l Lazy) RMul(v values.T) Lazy { return must(l.g.RMul(l, v)) }

// RDiv returns v / l. It panics as Add.
func (l Lazy) RDiv(v values.T) Lazy { return must(l.g.RDiv(l, v)) }

func must(l Lazy, err error) Lazy {
	if err != nil {
		panic(err)
	}
	return l
}
