// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

/*
Package syntax constructs lazy expressions from text.

Expressions are written in Go expression syntax:

	123                // an integer literal
	2.5                // a floating point literal
	"abc"              // a string literal
	x                  // an identifier naming a bound lazy value
	e1 + e2            // the sum of e1 and e2
	e1 - e2            // the difference of e1 and e2
	e1 * e2            // the product of e1 and e2
	e1 / e2            // the quotient of e1 and e2
	-e                 // the negation of e
	(e)                // grouping
	ones(3)            // an array of ones of shape (3,)
	zeros(2, 3)        // an array of zeros of shape (2, 3)
	full(7, 3)         // an array of shape (3,) filled with 7
	tuple(e1, e2)      // a tuple

Operations are constructed left to right as they appear in the
text, so that the construction order of a graph, and therefore the
order in which it is evaluated, follows the source. Nothing is
evaluated while parsing.
*/
package syntax

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"math/big"
	"strconv"

	"github.com/grailbio/lazy"
	"github.com/grailbio/lazy/errors"
	"github.com/grailbio/lazy/ndarray"
	"github.com/grailbio/lazy/values"
)

// Parse parses the expression src and constructs it in graph g.
// Identifiers are resolved in env.
func Parse(g *lazy.Graph, src string, env map[string]lazy.Lazy) (lazy.Lazy, error) {
	x, err := parser.ParseExpr(src)
	if err != nil {
		return lazy.Lazy{}, errors.E("parse", strconv.Quote(src), errors.Invalid, err)
	}
	b := builder{g: g, env: env}
	v, err := b.build(x)
	if err != nil {
		return lazy.Lazy{}, errors.E("parse", strconv.Quote(src), err)
	}
	return g.Value(v)
}

type builder struct {
	g   *lazy.Graph
	env map[string]lazy.Lazy
}

// build returns the raw value of a literal, or the lazy value of
// any other expression.
func (b builder) build(x ast.Expr) (values.T, error) {
	switch x := x.(type) {
	case *ast.ParenExpr:
		return b.build(x.X)
	case *ast.BasicLit:
		return literal(x)
	case *ast.Ident:
		l, ok := b.env[x.Name]
		if !ok {
			return nil, errors.E("ident", x.Name, errors.Invalid, errors.New("undefined"))
		}
		return l, nil
	case *ast.UnaryExpr:
		v, err := b.build(x.X)
		if err != nil {
			return nil, err
		}
		switch x.Op {
		case token.ADD:
			return v, nil
		case token.SUB:
			if _, ok := v.(lazy.Lazy); !ok {
				return values.Sub(0, v)
			}
			return b.g.Sub(0, v)
		}
		return nil, errors.E("unary", x.Op.String(), errors.NotSupported)
	case *ast.BinaryExpr:
		left, err := b.build(x.X)
		if err != nil {
			return nil, err
		}
		right, err := b.build(x.Y)
		if err != nil {
			return nil, err
		}
		switch x.Op {
		case token.ADD:
			return b.g.Add(left, right)
		case token.SUB:
			return b.g.Sub(left, right)
		case token.MUL:
			return b.g.Mul(left, right)
		case token.QUO:
			return b.g.Div(left, right)
		}
		return nil, errors.E("binary", x.Op.String(), errors.NotSupported)
	case *ast.CallExpr:
		return b.call(x)
	}
	return nil, errors.E("expr", fmt.Sprintf("%T", x), errors.NotSupported)
}

func literal(x *ast.BasicLit) (values.T, error) {
	switch x.Kind {
	case token.INT:
		if i, err := strconv.ParseInt(x.Value, 0, 64); err == nil {
			return i, nil
		}
		i, ok := new(big.Int).SetString(x.Value, 0)
		if !ok {
			return nil, errors.E("literal", x.Value, errors.Invalid)
		}
		return i, nil
	case token.FLOAT:
		f, err := strconv.ParseFloat(x.Value, 64)
		if err != nil {
			return nil, errors.E("literal", x.Value, errors.Invalid, err)
		}
		return f, nil
	case token.STRING:
		s, err := strconv.Unquote(x.Value)
		if err != nil {
			return nil, errors.E("literal", x.Value, errors.Invalid, err)
		}
		return s, nil
	}
	return nil, errors.E("literal", x.Value, errors.NotSupported)
}

func (b builder) call(x *ast.CallExpr) (values.T, error) {
	fn, ok := x.Fun.(*ast.Ident)
	if !ok {
		return nil, errors.E("call", fmt.Sprintf("%T", x.Fun), errors.NotSupported)
	}
	args := make([]values.T, len(x.Args))
	for i, arg := range x.Args {
		var err error
		if args[i], err = b.build(arg); err != nil {
			return nil, err
		}
	}
	switch fn.Name {
	case "tuple":
		return values.Tuple(args), nil
	case "ones", "zeros":
		shape, err := dims(fn.Name, args)
		if err != nil {
			return nil, err
		}
		var fill float64
		if fn.Name == "ones" {
			fill = 1
		}
		return full(shape, fill)
	case "full":
		if len(args) == 0 {
			return nil, errors.E("call", "full", errors.Invalid, errors.New("missing fill value"))
		}
		fill, ok := number(args[0])
		if !ok {
			return nil, errors.E("call", "full", errors.Invalid, errors.Errorf("fill value %s is not a number", values.Short(args[0])))
		}
		shape, err := dims(fn.Name, args[1:])
		if err != nil {
			return nil, err
		}
		return full(shape, fill)
	}
	return nil, errors.E("call", fn.Name, errors.Invalid, errors.New("undefined function"))
}

func full(shape []int, fill float64) (values.T, error) {
	a, err := ndarray.NewFull(shape, fill)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func dims(name string, args []values.T) ([]int, error) {
	shape := make([]int, len(args))
	for i, arg := range args {
		d, ok := arg.(int64)
		if !ok || d < 0 {
			return nil, errors.E("call", name, errors.Invalid,
				errors.Errorf("dimension %s is not a non-negative integer", values.Short(arg)))
		}
		shape[i] = int(d)
	}
	return shape, nil
}

func number(v values.T) (float64, bool) {
	switch v := v.(type) {
	case int64:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}
