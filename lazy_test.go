// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package lazy_test

import (
	"testing"

	"github.com/grailbio/lazy"
	"github.com/grailbio/lazy/errors"
	"github.com/grailbio/lazy/ndarray"
	"github.com/grailbio/lazy/values"
	"github.com/grailbio/testutil/expect"
)

func mustValue(t *testing.T, g *lazy.Graph, v values.T) lazy.Lazy {
	t.Helper()
	l, err := g.Value(v)
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func TestLeafDigest(t *testing.T) {
	g := lazy.NewGraph()
	for _, v := range []values.T{5, 2.5, "foo", []byte("bar"), values.Tuple{1, "a"}, ndarray.Ones(3), true} {
		want, err := values.Digest(v)
		if err != nil {
			t.Fatal(err)
		}
		if got := mustValue(t, g, v).Digest(); got != want {
			t.Errorf("%v: got %v, want %v", values.Short(v), got, want)
		}
	}
}

func TestValueNotSupported(t *testing.T) {
	g := lazy.NewGraph()
	_, err := g.Value(map[string]int{})
	expect.True(t, errors.Is(errors.NotSupported, err))
	expect.EQ(t, g.Len(), 0)

	// A failed application adds none of its arguments.
	_, err = g.Add(5, map[string]int{})
	expect.True(t, errors.Is(errors.NotSupported, err))
	expect.EQ(t, g.Len(), 0)

	x := mustValue(t, g, 1)
	_, err = g.Add(x, mustValue(t, lazy.NewGraph(), 2))
	expect.True(t, errors.Is(errors.Invalid, err))
	_, err = g.Add(5, lazy.NewGraph())
	expect.True(t, errors.Is(errors.NotSupported, err))
	expect.EQ(t, g.Len(), 1)
}

func TestOpDigest(t *testing.T) {
	g := lazy.NewGraph()
	x := mustValue(t, g, ndarray.Ones(3))
	y := mustValue(t, g, 4)
	for _, op := range []*lazy.Op{lazy.AddOp, lazy.SubOp, lazy.MulOp, lazy.DivOp} {
		expect.EQ(t, op.Digest, lazy.Digester.FromString(op.Name))
		l, err := g.Apply(op, x, y)
		if err != nil {
			t.Fatal(err)
		}
		w := lazy.Digester.NewWriter()
		w.Write(op.Digest.Bytes())
		w.Write(x.Digest().Bytes())
		w.Write(y.Digest().Bytes())
		if got, want := l.Digest(), w.Digest(); got != want {
			t.Errorf("%s: got %v, want %v", op.Name, got, want)
		}
	}
}

func TestDigestStability(t *testing.T) {
	g := lazy.NewGraph()
	x := mustValue(t, g, ndarray.Ones(3))
	want, err := lazy.Digester.Parse("sha256:c05fd627d0a7219845502982746e08379697f986b8190adce5ed8b9cd5ea879f")
	if err != nil {
		t.Fatal(err)
	}
	if got := x.Add(4).Digest(); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestOrderSensitive(t *testing.T) {
	g := lazy.NewGraph()
	x := mustValue(t, g, 3)
	y := mustValue(t, g, 4)
	for _, c := range []struct {
		name     string
		fwd, rev func(a, b values.T) (lazy.Lazy, error)
	}{
		{"add", g.Add, g.RAdd},
		{"sub", g.Sub, g.RSub},
		{"mul", g.Mul, g.RMul},
		{"div", g.Div, g.RDiv},
	} {
		fwd, err := c.fwd(x, y)
		if err != nil {
			t.Fatal(err)
		}
		rev, err := c.rev(x, y)
		if err != nil {
			t.Fatal(err)
		}
		if fwd.Digest() == rev.Digest() {
			t.Errorf("%s: reflected operation has the same digest", c.name)
		}
		swapped, err := c.fwd(y, x)
		if err != nil {
			t.Fatal(err)
		}
		expect.EQ(t, rev.Digest(), swapped.Digest(), c.name)
	}
	v, err := x.RSub(10).Eval()
	if err != nil {
		t.Fatal(err)
	}
	expect.EQ(t, v, int64(7))
	v, err = x.RDiv(12).Eval()
	if err != nil {
		t.Fatal(err)
	}
	expect.EQ(t, v, int64(4))
}

func TestIdempotentValue(t *testing.T) {
	g := lazy.NewGraph()
	x := mustValue(t, g, ndarray.Ones(3))
	n := g.Len()
	y := mustValue(t, g, x)
	expect.EQ(t, y, x)
	z, err := g.Own(x)
	if err != nil {
		t.Fatal(err)
	}
	expect.EQ(t, z, x)
	expect.EQ(t, g.Len(), n)
}

func TestOwned(t *testing.T) {
	g := lazy.NewGraph()
	expect.True(t, mustValue(t, g, 5).Owned())
	expect.True(t, mustValue(t, g, 5).Immutable())
	expect.False(t, mustValue(t, g, ndarray.Ones(3)).Owned())
	owned, err := g.Own(ndarray.Ones(3))
	if err != nil {
		t.Fatal(err)
	}
	expect.True(t, owned.Owned())
	expect.False(t, owned.Immutable())
	expect.True(t, owned.IsLeaf())
	expect.False(t, owned.Add(1).IsLeaf())
}

func TestStamps(t *testing.T) {
	g := lazy.NewGraph()
	x := mustValue(t, g, 1)
	y := mustValue(t, g, 2)
	z := x.Add(y)
	if !(x.Stamp() < y.Stamp() && y.Stamp() < z.Stamp()) {
		t.Errorf("stamps out of order: %d, %d, %d", x.Stamp(), y.Stamp(), z.Stamp())
	}
	// The inline literal is stamped before the operation using it.
	w := z.Mul(3)
	expect.EQ(t, w.Stamp(), z.Stamp()+2)
}

func TestCrossGraph(t *testing.T) {
	g1, g2 := lazy.NewGraph(), lazy.NewGraph()
	x := mustValue(t, g1, 1)
	y := mustValue(t, g2, 2)
	_, err := g1.Add(x, y)
	expect.True(t, errors.Is(errors.Invalid, err))
	_, err = g1.Value(lazy.Lazy{})
	expect.True(t, errors.Is(errors.Invalid, err))
}

func TestArity(t *testing.T) {
	g := lazy.NewGraph()
	neg := lazy.NewOp("neg", 1, func(args []values.T) (values.T, error) {
		return values.Sub(0, args[0])
	})
	_, err := g.Apply(neg, 1, 2)
	expect.True(t, errors.Is(errors.Invalid, err))
	l, err := g.Apply(neg, 5)
	if err != nil {
		t.Fatal(err)
	}
	v, err := l.Eval()
	if err != nil {
		t.Fatal(err)
	}
	expect.EQ(t, v, int64(-5))
}

func TestSugarPanics(t *testing.T) {
	g := lazy.NewGraph()
	x := mustValue(t, g, 1)
	defer func() {
		err, ok := recover().(error)
		if !ok {
			t.Fatal("expected panic with error")
		}
		expect.True(t, errors.Is(errors.NotSupported, err))
	}()
	x.Add(map[string]int{})
}

func TestEvalPassThrough(t *testing.T) {
	ones := ndarray.Ones(3)
	for _, v := range []values.T{"foo", 5, ones, map[string]int{"a": 1}} {
		got, err := lazy.Eval(v)
		if err != nil {
			t.Fatal(err)
		}
		expect.EQ(t, got, v)
	}
	g := lazy.NewGraph()
	got, err := lazy.Eval(mustValue(t, g, "foo"))
	if err != nil {
		t.Fatal(err)
	}
	expect.EQ(t, got, "foo")
	got, err = lazy.Eval(mustValue(t, g, ones))
	if err != nil {
		t.Fatal(err)
	}
	if got.(*ndarray.Array) != ones {
		t.Error("leaf evaluation copied its value")
	}
}
