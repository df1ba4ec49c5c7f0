// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package values

import (
	"fmt"
	"math/big"

	"github.com/grailbio/lazy/errors"
	"github.com/grailbio/lazy/ndarray"
)

type arith struct {
	op    string
	ints  func(z, x, y *big.Int) (*big.Int, error)
	float func(x, y float64) float64
	array func(a, b *ndarray.Array) (*ndarray.Array, error)
	// concat tells whether strings and byte slices support the
	// operation by concatenation.
	concat bool
}

var (
	addArith = arith{
		op:     "add",
		ints:   func(z, x, y *big.Int) (*big.Int, error) { return z.Add(x, y), nil },
		float:  func(x, y float64) float64 { return x + y },
		array:  ndarray.Add,
		concat: true,
	}
	subArith = arith{
		op:    "sub",
		ints:  func(z, x, y *big.Int) (*big.Int, error) { return z.Sub(x, y), nil },
		float: func(x, y float64) float64 { return x - y },
		array: ndarray.Sub,
	}
	mulArith = arith{
		op:    "mul",
		ints:  func(z, x, y *big.Int) (*big.Int, error) { return z.Mul(x, y), nil },
		float: func(x, y float64) float64 { return x * y },
		array: ndarray.Mul,
	}
	divArith = arith{
		op: "div",
		ints: func(z, x, y *big.Int) (*big.Int, error) {
			if y.Sign() == 0 {
				return nil, errors.E("div", errors.Invalid, errors.New("integer division by zero"))
			}
			return z.Quo(x, y), nil
		},
		float: func(x, y float64) float64 { return x / y },
		array: ndarray.Div,
	}
)

// Add returns a + b. Integers add to an int64 (or a *big.Int if the
// result overflows int64); if either operand is a float, the result
// is a float64. Strings and byte slices concatenate. Arrays add
// elementwise, and scalars are broadcast over arrays.
func Add(a, b T) (T, error) { return addArith.apply(a, b) }

// Sub returns a - b, with the same promotion rules as Add.
func Sub(a, b T) (T, error) { return subArith.apply(a, b) }

// Mul returns a * b, with the same promotion rules as Add.
func Mul(a, b T) (T, error) { return mulArith.apply(a, b) }

// Div returns a / b, with the same promotion rules as Add. Integer
// division truncates toward zero; integer division by zero is an
// error.
func Div(a, b T) (T, error) { return divArith.apply(a, b) }

func (ar arith) apply(a, b T) (T, error) {
	ka, kb := KindOf(a), KindOf(b)
	switch {
	case ka == intKind && kb == intKind:
		z, err := ar.ints(new(big.Int), toBig(a), toBig(b))
		if err != nil {
			return nil, err
		}
		if z.IsInt64() {
			return z.Int64(), nil
		}
		return z, nil
	case isNumber(ka) && isNumber(kb):
		return ar.float(toFloat(a), toFloat(b)), nil
	case ka == ndarrayKind && kb == ndarrayKind:
		return ar.array(a.(*ndarray.Array), b.(*ndarray.Array))
	case ka == ndarrayKind && isNumber(kb):
		x := a.(*ndarray.Array)
		return ar.array(x, ndarray.Full(x.Shape(), toFloat(b)))
	case isNumber(ka) && kb == ndarrayKind:
		y := b.(*ndarray.Array)
		return ar.array(ndarray.Full(y.Shape(), toFloat(a)), y)
	case ar.concat && ka == stringKind && kb == stringKind:
		return a.(string) + b.(string), nil
	case ar.concat && ka == bytesKind && kb == bytesKind:
		x, y := a.([]byte), b.([]byte)
		z := make([]byte, 0, len(x)+len(y))
		return append(append(z, x...), y...), nil
	}
	return nil, errors.E(ar.op, fmt.Sprintf("%T", a), fmt.Sprintf("%T", b), errors.NotSupported)
}

func isNumber(k *Kind) bool {
	return k == intKind || k == floatKind
}
