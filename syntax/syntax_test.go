// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package syntax

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/grailbio/lazy"
	"github.com/grailbio/lazy/errors"
	"github.com/grailbio/lazy/ndarray"
	"github.com/grailbio/lazy/values"
)

func TestParse(t *testing.T) {
	for _, c := range []struct {
		src   string
		stmts []string
		want  values.T
	}{
		{"1 + 2", []string{"(1 + 2)"}, int64(3)},
		{"(1 + 2) * 3", []string{"(1 + 2)", "(e0 * 3)"}, int64(9)},
		{"7 / 2", []string{"(7 / 2)"}, int64(3)},
		{"7.0 / 2", []string{"(7.0 / 2)"}, 3.5},
		{"-3 - 1", []string{"(-3 - 1)"}, int64(-4)},
		{`"foo" + "bar"`, []string{`("foo" + "bar")`}, "foobar"},
		{"5", nil, int64(5)},
		{"0x10 * 2", []string{"(16 * 2)"}, int64(32)},
		{"tuple(1, 2)", nil, values.Tuple{int64(1), int64(2)}},
	} {
		g := lazy.NewGraph()
		l, err := Parse(g, c.src, nil)
		if err != nil {
			t.Errorf("%s: %v", c.src, err)
			continue
		}
		p := l.Program()
		if got, want := len(p.Statements), len(c.stmts); got != want {
			t.Errorf("%s: got %v statements, want %v", c.src, got, want)
			continue
		}
		for i, s := range p.Statements {
			if got, want := s.Expr(), c.stmts[i]; got != want {
				t.Errorf("%s: got %v, want %v", c.src, got, want)
			}
		}
		v, err := l.Eval()
		if err != nil {
			t.Errorf("%s: %v", c.src, err)
			continue
		}
		if got, want := values.Short(v), values.Short(c.want); got != want {
			t.Errorf("%s: got %v, want %v", c.src, got, want)
		}
	}
}

func TestParseEnv(t *testing.T) {
	g := lazy.NewGraph()
	x, err := g.Value(ndarray.Ones(3))
	if err != nil {
		t.Fatal(err)
	}
	env := map[string]lazy.Lazy{"x": x}
	l, err := Parse(g, "5*x + -x", env)
	if err != nil {
		t.Fatal(err)
	}
	p := l.Program()
	var stmts []string
	for _, s := range p.Statements {
		stmts = append(stmts, s.Name+" = "+s.Expr())
	}
	if diff := cmp.Diff([]string{
		"e0 = (5 * v0)",
		"e1 = (0 - v0)",
		"e2 = (e0 + e1)",
	}, stmts); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	v, err := l.Eval()
	if err != nil {
		t.Fatal(err)
	}
	if got, want := v.(*ndarray.Array), ndarray.Full([]int{3}, 4); !got.Equal(want) {
		t.Errorf("got %v, want %v", got.Data(), want.Data())
	}
}

func TestParseArrays(t *testing.T) {
	g := lazy.NewGraph()
	for _, c := range []struct {
		src  string
		want *ndarray.Array
	}{
		{"ones(3)", ndarray.Ones(3)},
		{"zeros(2, 3)", ndarray.Zeros(2, 3)},
		{"full(7, 3)", ndarray.Full([]int{3}, 7)},
		{"ones(3) * 2 + full(0.5, 3)", ndarray.Full([]int{3}, 2.5)},
	} {
		l, err := Parse(g, c.src, nil)
		if err != nil {
			t.Errorf("%s: %v", c.src, err)
			continue
		}
		v, err := l.Eval()
		if err != nil {
			t.Errorf("%s: %v", c.src, err)
			continue
		}
		if got := v.(*ndarray.Array); !got.Equal(c.want) {
			t.Errorf("%s: got %v, want %v", c.src, got, c.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	g := lazy.NewGraph()
	for _, c := range []struct {
		src  string
		kind errors.Kind
	}{
		{"1 +", errors.Invalid},
		{"y + 1", errors.Invalid},
		{"1 % 2", errors.NotSupported},
		{"!1", errors.NotSupported},
		{"'a'", errors.NotSupported},
		{"f(1)", errors.Invalid},
		{"ones(-1)", errors.Invalid},
		{"ones(1.5)", errors.Invalid},
		{"ones(3037000500, 3037000500)", errors.Invalid},
		{"zeros(4611686018427387904, 4)", errors.Invalid},
		{"full(2, 3037000500, 3037000500)", errors.Invalid},
		{"full()", errors.Invalid},
		{`full("a", 1)`, errors.Invalid},
		{"x.y", errors.NotSupported},
	} {
		_, err := Parse(g, c.src, nil)
		if !errors.Is(c.kind, err) {
			t.Errorf("%s: got %v, want %v", c.src, err, c.kind)
		}
	}
}
