// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package ndarray

import (
	"bytes"
	"testing"

	"github.com/grailbio/lazy/errors"
)

func TestString(t *testing.T) {
	for _, c := range []struct {
		a    *Array
		want string
	}{
		{Ones(3), "ndarray(shape=(3,), dtype=float64)"},
		{Zeros(2, 3), "ndarray(shape=(2, 3), dtype=float64)"},
		{Full(nil, 7), "ndarray(shape=(), dtype=float64)"},
	} {
		if got, want := c.a.String(), c.want; got != want {
			t.Errorf("got %v, want %v", got, want)
		}
	}
}

func TestNew(t *testing.T) {
	a, err := New([]int{2, 2}, []float64{1, 2, 3, 4})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := a.Size(), 4; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := a.Rank(), 2; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if _, err := New([]int{3}, []float64{1, 2}); !errors.Is(errors.Invalid, err) {
		t.Errorf("expected invalid, got %v", err)
	}
	if _, err := New([]int{-1}, nil); !errors.Is(errors.Invalid, err) {
		t.Errorf("expected invalid, got %v", err)
	}
	// The element count of this shape wraps to zero.
	if _, err := New([]int{1 << 62, 4}, nil); !errors.Is(errors.Invalid, err) {
		t.Errorf("expected invalid, got %v", err)
	}
}

func TestNewFull(t *testing.T) {
	a, err := NewFull([]int{2, 0, 3}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := a.Size(), 0; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	for _, shape := range [][]int{
		{3037000500, 3037000500},
		{1 << 62, 4},
		{-2, 3},
	} {
		if _, err := NewFull(shape, 1); !errors.Is(errors.Invalid, err) {
			t.Errorf("%v: expected invalid, got %v", shape, err)
		}
	}
}

func TestImmutable(t *testing.T) {
	data := []float64{1, 2, 3}
	a := FromSlice(data)
	data[0] = 100
	if got, want := a.Data()[0], 1.0; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	a.Data()[1] = 100
	a.Shape()[0] = 100
	if !a.Equal(FromSlice([]float64{1, 2, 3})) {
		t.Errorf("array was mutated: %v", a.Data())
	}
}

func TestArithmetic(t *testing.T) {
	a := FromSlice([]float64{1, 2, 3})
	b := FromSlice([]float64{4, 5, 6})
	for _, c := range []struct {
		name string
		fn   func(a, b *Array) (*Array, error)
		want []float64
	}{
		{"add", Add, []float64{5, 7, 9}},
		{"sub", Sub, []float64{-3, -3, -3}},
		{"mul", Mul, []float64{4, 10, 18}},
		{"div", Div, []float64{0.25, 0.4, 0.5}},
	} {
		got, err := c.fn(a, b)
		if err != nil {
			t.Errorf("%s: %v", c.name, err)
			continue
		}
		if want := FromSlice(c.want); !got.Equal(want) {
			t.Errorf("%s: got %v, want %v", c.name, got.Data(), want.Data())
		}
	}
	_, err := Add(a, Ones(2))
	if !errors.Is(errors.Invalid, err) {
		t.Fatalf("expected invalid, got %v", err)
	}
	if got, want := err.Error(), "add: invalid: shape mismatch: (3,) and (2,)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriteTo(t *testing.T) {
	var b1, b2 bytes.Buffer
	if _, err := Ones(3).WriteTo(&b1); err != nil {
		t.Fatal(err)
	}
	if _, err := FromSlice([]float64{1, 1, 1}).WriteTo(&b2); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b1.Bytes(), b2.Bytes()) {
		t.Error("equal arrays encoded differently")
	}
	// dtype + rank + 1 dim + 3 elements
	if got, want := b1.Len(), 1+8+8+3*8; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	var b3 bytes.Buffer
	Ones(1, 3).WriteTo(&b3)
	if bytes.Equal(b1.Bytes(), b3.Bytes()) {
		t.Error("arrays with different shapes encoded identically")
	}
}
