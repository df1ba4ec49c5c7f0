// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package values

import (
	"io"
	"math/big"
	"reflect"
	"testing"

	"github.com/grailbio/lazy/errors"
	"github.com/grailbio/lazy/ndarray"
)

func TestDigestStability(t *testing.T) {
	for _, c := range []struct {
		v T
		d string
	}{
		{5, "sha256:b3117c198b786153ba2b7d1a4e9427f8580660fbaca12e5a5f3cf8129c36855e"},
		{-5, "sha256:1cc08cc124ce1e8a394923e45ca5cdd51cb7028d31c9334774b87dba8a8e95cd"},
		{0, "sha256:96eeff563b3135e3f77964e8c062328fd207c8bc9e754fc423abaf83eb3f1490"},
		{2.5, "sha256:b5d8c41c72cf6bef496f0ef0de039cef0e5df1dfa24e15a0fb7576972d955e41"},
		{"foo", "sha256:0075be9392e6bc7f5a481e8eea2e3a1a3d5deba5df5cc5510809ddc449158724"},
		{[]byte("ab"), "sha256:241d1c1fe6fbbfa2a0d530dd22a11fd5a35581966eb8ceb01301ebd2e418a16e"},
		{true, "sha256:fb8da7eb5b1b399e7321179dac9e9f65773d7331e1e30554e3911e4325e1ef19"},
		{Tuple{1, "a"}, "sha256:8ac1bea3d6fbaf930f67465bbd177c55886265f9017978d2e0ed3e07ab5d5bcf"},
		{ndarray.Ones(3), "sha256:5a8a4a4abdb537411003a776ee3122fd615b351a4a41ee30d484e39460004794"},
	} {
		want, err := Digester.Parse(c.d)
		if err != nil {
			t.Fatal(err)
		}
		got, err := Digest(c.v)
		if err != nil {
			t.Errorf("%v: %v", c.v, err)
			continue
		}
		if got != want {
			t.Errorf("%v: got %v, want %v", Short(c.v), got, want)
		}
	}
}

func TestDigestIntTypes(t *testing.T) {
	want, err := Digest(123)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range []T{int8(123), int32(123), uint64(123), big.NewInt(123)} {
		got, err := Digest(v)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("%T: got %v, want %v", v, got, want)
		}
	}
	if d, _ := Digest(123.0); d == want {
		t.Error("float and int digests collide")
	}
}

func TestDigestContents(t *testing.T) {
	a := ndarray.FromSlice([]float64{1, 1, 1})
	b := ndarray.Ones(3)
	if a == b {
		t.Fatal("expected distinct arrays")
	}
	da, _ := Digest(a)
	db, _ := Digest(b)
	if da != db {
		t.Errorf("arrays with equal contents: %v != %v", da, db)
	}
	dc, _ := Digest(ndarray.Zeros(3))
	if da == dc {
		t.Error("arrays with different contents have equal digests")
	}
}

func TestDigestNotSupported(t *testing.T) {
	_, err := Digest(map[string]int{})
	if !errors.Is(errors.NotSupported, err) {
		t.Fatalf("expected not supported, got %v", err)
	}
	if got, want := err.Error(), "digest map[string]int: operation not supported"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if _, err := Digest(Tuple{1, struct{}{}}); !errors.Is(errors.NotSupported, err) {
		t.Errorf("expected not supported, got %v", err)
	}
	if _, err := Digest(nil); !errors.Is(errors.NotSupported, err) {
		t.Errorf("expected not supported, got %v", err)
	}
}

func TestFrozenSet(t *testing.T) {
	s1, err := NewFrozenSet(1, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	s2, err := NewFrozenSet(3, 2, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := s2.Len(), 3; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	d1, _ := Digest(s1)
	d2, _ := Digest(s2)
	if d1 != d2 {
		t.Errorf("insertion order changed digest: %v != %v", d1, d2)
	}
	if got, want := Short(s2), "frozenset{1, 2, 3}"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if _, err := NewFrozenSet(map[int]int{}); !errors.Is(errors.NotSupported, err) {
		t.Errorf("expected not supported, got %v", err)
	}
}

func TestClassify(t *testing.T) {
	set, _ := NewFrozenSet("a")
	for _, c := range []struct {
		v                 T
		immutable, inline bool
	}{
		{5, true, true},
		{uint16(5), true, true},
		{big.NewInt(5), true, true},
		{2.5, true, true},
		{float32(2.5), true, true},
		{"foo", true, true},
		{"0123456789", true, true},
		{"0123456789a", true, false},
		{[]byte("foo"), true, true},
		{[]byte("0123456789a"), true, false},
		{set, true, true},
		{Tuple{1, "a"}, true, true},
		{Tuple{1, Tuple{2, 3}}, true, true},
		{Tuple{1, ndarray.Ones(1)}, false, false},
		{true, false, false},
		{ndarray.Ones(3), false, false},
		{map[string]int{}, false, false},
		{nil, false, false},
	} {
		if got, want := Immutable(c.v), c.immutable; got != want {
			t.Errorf("immutable %v: got %v, want %v", Short(c.v), got, want)
		}
		if got, want := Inline(c.v), c.inline; got != want {
			t.Errorf("inline %v: got %v, want %v", Short(c.v), got, want)
		}
	}
}

func TestShort(t *testing.T) {
	for _, c := range []struct {
		v    T
		want string
	}{
		{5, "5"},
		{big.NewInt(-12), "-12"},
		{2.5, "2.5"},
		{1.0, "1.0"},
		{1e21, "1e+21"},
		{"foo", `"foo"`},
		{[]byte("ab"), `b"ab"`},
		{true, "true"},
		{Tuple{1, 2}, "(1, 2)"},
		{Tuple{1}, "(1,)"},
		{Tuple{}, "()"},
		{ndarray.Ones(3), "ndarray(shape=(3,), dtype=float64)"},
		{struct{ A int }{1}, "{1}"},
	} {
		if got, want := Short(c.v), c.want; got != want {
			t.Errorf("got %v, want %v", got, want)
		}
	}
}

type point struct{ X, Y int }

func TestRegister(t *testing.T) {
	typ := reflect.TypeOf(point{})
	Register(typ, &Kind{
		Name:      "point",
		ID:        100,
		Immutable: func(T) bool { return true },
		WriteDigest: func(w io.Writer, v T) error {
			p := v.(point)
			writeLength(w, p.X)
			writeLength(w, p.Y)
			return nil
		},
		Short: func(v T) string { return "point" },
	})
	defer func() {
		mu.Lock()
		delete(registry, typ)
		mu.Unlock()
	}()
	if !Inline(point{1, 2}) {
		t.Error("expected point to be inlined")
	}
	if got, want := Short(point{1, 2}), "point"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	d1, err := Digest(point{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	d2, _ := Digest(point{2, 1})
	if d1 == d2 {
		t.Error("distinct points have equal digests")
	}
}
