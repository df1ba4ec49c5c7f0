// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package ndarray implements immutable, dense, n-dimensional arrays
// of float64 elements. Arrays are the buffer-like values of lazy
// graphs: they are never inlined into traces and are digested by
// their contents, never by their address.
package ndarray

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/grailbio/lazy/errors"
	"gonum.org/v1/gonum/floats"
)

// DType is the element type of an array.
type DType byte

const (
	// Float64 is the IEEE-754 double precision element type.
	Float64 DType = iota + 1
)

// String returns the dtype's name.
func (d DType) String() string {
	switch d {
	case Float64:
		return "float64"
	default:
		return fmt.Sprintf("dtype(%d)", byte(d))
	}
}

// Array is an immutable dense array. Its elements are stored in
// row-major order.
type Array struct {
	shape []int
	data  []float64
}

// New returns an array of the given shape holding a copy of data.
// New fails if the shape does not describe exactly len(data)
// elements.
func New(shape []int, data []float64) (*Array, error) {
	n, err := size(shape)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, errors.E("ndarray", errors.Invalid,
			errors.Errorf("shape %s requires %d elements, got %d", shapeString(shape), n, len(data)))
	}
	return &Array{shape: append([]int(nil), shape...), data: append([]float64(nil), data...)}, nil
}

// NewFull returns an array of the given shape with every element set
// to v. NewFull fails if the shape has a negative dimension or if its
// element count overflows an int.
func NewFull(shape []int, v float64) (*Array, error) {
	n, err := size(shape)
	if err != nil {
		return nil, err
	}
	data := make([]float64, n)
	for i := range data {
		data[i] = v
	}
	return &Array{shape: append([]int(nil), shape...), data: data}, nil
}

// Full is like NewFull, but panics on an invalid shape.
func Full(shape []int, v float64) *Array {
	a, err := NewFull(shape, v)
	if err != nil {
		panic(err)
	}
	return a
}

// Ones returns an array of ones.
func Ones(shape ...int) *Array { return Full(shape, 1) }

// Zeros returns an array of zeros.
func Zeros(shape ...int) *Array { return Full(shape, 0) }

// FromSlice returns a one-dimensional array holding a copy of data.
func FromSlice(data []float64) *Array {
	return &Array{shape: []int{len(data)}, data: append([]float64(nil), data...)}
}

func size(shape []int) (int, error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return 0, errors.E("ndarray", errors.Invalid, errors.Errorf("negative dimension in shape %s", shapeString(shape)))
		}
		if d != 0 && n > math.MaxInt/d {
			return 0, errors.E("ndarray", errors.Invalid, errors.Errorf("shape %s is too large", shapeString(shape)))
		}
		n *= d
	}
	return n, nil
}

// Shape returns the array's dimensions.
func (a *Array) Shape() []int { return append([]int(nil), a.shape...) }

// Rank returns the number of dimensions.
func (a *Array) Rank() int { return len(a.shape) }

// Size returns the number of elements.
func (a *Array) Size() int { return len(a.data) }

// DType returns the array's element type.
func (a *Array) DType() DType { return Float64 }

// Data returns a copy of the array's elements in row-major order.
func (a *Array) Data() []float64 { return append([]float64(nil), a.data...) }

// String renders the array's shape and element type, never its
// contents; for example "ndarray(shape=(3,), dtype=float64)".
func (a *Array) String() string {
	return fmt.Sprintf("ndarray(shape=%s, dtype=%s)", shapeString(a.shape), a.DType())
}

// Equal tells whether a and b have the same shape and elements.
func (a *Array) Equal(b *Array) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !sameShape(a.shape, b.shape) {
		return false
	}
	return floats.Equal(a.data, b.data)
}

// WriteTo writes the array's canonical binary encoding to w: the
// dtype, the rank and every dimension as little-endian uint64s, and
// then each element's IEEE-754 bits, little-endian. Arrays with the
// same shape and contents always have the same encoding.
func (a *Array) WriteTo(w io.Writer) (int64, error) {
	var b bytes.Buffer
	b.WriteByte(byte(a.DType()))
	var p [8]byte
	binary.LittleEndian.PutUint64(p[:], uint64(len(a.shape)))
	b.Write(p[:])
	for _, d := range a.shape {
		binary.LittleEndian.PutUint64(p[:], uint64(d))
		b.Write(p[:])
	}
	for _, f := range a.data {
		binary.LittleEndian.PutUint64(p[:], math.Float64bits(f))
		b.Write(p[:])
	}
	return b.WriteTo(w)
}

func sameShape(s, t []int) bool {
	if len(s) != len(t) {
		return false
	}
	for i := range s {
		if s[i] != t[i] {
			return false
		}
	}
	return true
}

func shapeString(shape []int) string {
	var b bytes.Buffer
	b.WriteByte('(')
	for i, d := range shape {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(d))
	}
	if len(shape) == 1 {
		b.WriteByte(',')
	}
	b.WriteByte(')')
	return b.String()
}

func elementwise(op string, a, b *Array, fn func(dst, s, t []float64) []float64) (*Array, error) {
	if !sameShape(a.shape, b.shape) {
		return nil, errors.E(op, errors.Invalid,
			errors.Errorf("shape mismatch: %s and %s", shapeString(a.shape), shapeString(b.shape)))
	}
	dst := make([]float64, len(a.data))
	fn(dst, a.data, b.data)
	return &Array{shape: a.Shape(), data: dst}, nil
}

// Add returns the elementwise sum of a and b, which must have the
// same shape.
func Add(a, b *Array) (*Array, error) { return elementwise("add", a, b, floats.AddTo) }

// Sub returns the elementwise difference of a and b, which must have
// the same shape.
func Sub(a, b *Array) (*Array, error) { return elementwise("sub", a, b, floats.SubTo) }

// Mul returns the elementwise product of a and b, which must have the
// same shape.
func Mul(a, b *Array) (*Array, error) { return elementwise("mul", a, b, floats.MulTo) }

// Div returns the elementwise quotient of a and b, which must have the
// same shape. Division by zero follows IEEE-754.
func Div(a, b *Array) (*Array, error) { return elementwise("div", a, b, floats.DivTo) }
