// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package lazy

import (
	"fmt"
	"strings"

	"github.com/grailbio/base/digest"
	"github.com/grailbio/lazy/values"
)

// Op is an operation that may be applied to lazy values.
type Op struct {
	// Name is the operation's name. Infix operations are named by
	// their operator symbol.
	Name string
	// Digest identifies the operation itself, independently of the
	// arguments it is applied to.
	Digest digest.Digest
	// Arity is the number of arguments the operation takes. A
	// negative arity accepts any number of arguments.
	Arity int
	// Infix operations are rendered as "(a OP b)" instead of
	// "name(a, b)".
	Infix bool
	// Fn computes the operation's result from its evaluated
	// arguments. Errors returned by Fn are returned unchanged from
	// evaluation.
	Fn func(args []values.T) (values.T, error)
}

// NewOp returns a new operation rendered in call syntax, identified
// by the digest of its name.
func NewOp(name string, arity int, fn func([]values.T) (values.T, error)) *Op {
	return NewOpDigest(name, Digester.FromString(name), arity, fn)
}

// NewOpDigest returns a new operation rendered in call syntax with
// the provided identity. Operations that share a name but compute
// different functions should be given distinct digests.
func NewOpDigest(name string, d digest.Digest, arity int, fn func([]values.T) (values.T, error)) *Op {
	return &Op{Name: name, Digest: d, Arity: arity, Fn: fn}
}

func infix(symbol string, fn func(a, b values.T) (values.T, error)) *Op {
	return &Op{
		Name:   symbol,
		Digest: Digester.FromString(symbol),
		Arity:  2,
		Infix:  true,
		Fn: func(args []values.T) (values.T, error) {
			return fn(args[0], args[1])
		},
	}
}

// The builtin arithmetic operators. Their digests are the digests of
// their symbols.
var (
	AddOp = infix("+", values.Add)
	SubOp = infix("-", values.Sub)
	MulOp = infix("*", values.Mul)
	DivOp = infix("/", values.Div)
)

// Format renders the operation applied to the provided argument
// expressions.
func (op *Op) Format(args []string) string {
	if op.Infix {
		return "(" + strings.Join(args, " "+op.Name+" ") + ")"
	}
	return fmt.Sprintf("%s(%s)", op.Name, strings.Join(args, ", "))
}

func (op *Op) String() string {
	return op.Name
}
