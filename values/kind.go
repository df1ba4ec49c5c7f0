// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package values

import (
	"fmt"
	"io"
	"math"
	"math/big"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/grailbio/lazy/ndarray"
)

// Kind is a capability table describing how values of a Go type
// are classified, digested and described. Kinds are registered by
// Go type with Register.
type Kind struct {
	// Name is the kind's name, used in error messages.
	Name string
	// ID is written as the first byte of every digest of a value
	// of this kind. Distinct kinds must use distinct IDs.
	ID byte
	// Immutable tells whether a value is immutable by value. A nil
	// Immutable means that no value of the kind is.
	Immutable func(T) bool
	// Inline tells whether an immutable value may be rendered
	// inline in traces. A nil Inline inlines every immutable value.
	Inline func(T) bool
	// WriteDigest writes the kind-specific digest material of a
	// value, excluding the ID byte.
	WriteDigest func(io.Writer, T) error
	// Short returns a short description of a value. Traces indent
	// any continuation lines under the value's binding. A nil Short
	// renders values with %v.
	Short func(T) string
}

// Kind IDs of the builtin kinds.
const (
	IntID byte = iota + 1
	FloatID
	StringID
	BytesID
	TupleID
	FrozenSetID
	NDArrayID
	BoolID
)

var (
	mu       sync.RWMutex
	registry = map[reflect.Type]*Kind{}
)

// Register registers kind k for values of Go type t, replacing any
// previous registration.
func Register(t reflect.Type, k *Kind) {
	mu.Lock()
	registry[t] = k
	mu.Unlock()
}

// KindOf returns the kind registered for v's type, or nil if there
// is none.
func KindOf(v T) *Kind {
	if v == nil {
		return nil
	}
	mu.RLock()
	k := registry[reflect.TypeOf(v)]
	mu.RUnlock()
	return k
}

func always(T) bool { return true }

var (
	intKind = &Kind{
		Name:        "int",
		ID:          IntID,
		Immutable:   always,
		WriteDigest: func(w io.Writer, v T) error { return writeInt(w, toBig(v)) },
		Short:       func(v T) string { return toBig(v).String() },
	}
	floatKind = &Kind{
		Name:      "float",
		ID:        FloatID,
		Immutable: always,
		WriteDigest: func(w io.Writer, v T) error {
			writeUint64(w, math.Float64bits(toFloat(v)))
			return nil
		},
		Short: func(v T) string { return formatFloat(toFloat(v)) },
	}
	stringKind = &Kind{
		Name:      "string",
		ID:        StringID,
		Immutable: always,
		Inline:    func(v T) bool { return len(v.(string)) <= maxInline },
		WriteDigest: func(w io.Writer, v T) error {
			s := v.(string)
			writeLength(w, len(s))
			_, err := io.WriteString(w, s)
			return err
		},
		Short: func(v T) string { return strconv.Quote(v.(string)) },
	}
	bytesKind = &Kind{
		Name:      "bytes",
		ID:        BytesID,
		Immutable: always,
		Inline:    func(v T) bool { return len(v.([]byte)) <= maxInline },
		WriteDigest: func(w io.Writer, v T) error {
			p := v.([]byte)
			writeLength(w, len(p))
			_, err := w.Write(p)
			return err
		},
		Short: func(v T) string { return fmt.Sprintf("b%q", v.([]byte)) },
	}
	boolKind = &Kind{
		Name: "bool",
		ID:   BoolID,
		WriteDigest: func(w io.Writer, v T) error {
			b := byte(0)
			if v.(bool) {
				b = 1
			}
			_, err := w.Write([]byte{b})
			return err
		},
		Short: func(v T) string { return strconv.FormatBool(v.(bool)) },
	}
	tupleKind = &Kind{
		Name: "tuple",
		ID:   TupleID,
		Immutable: func(v T) bool {
			for _, e := range v.(Tuple) {
				if !Immutable(e) {
					return false
				}
			}
			return true
		},
		WriteDigest: func(w io.Writer, v T) error {
			tuple := v.(Tuple)
			writeLength(w, len(tuple))
			for _, e := range tuple {
				if err := WriteDigest(w, e); err != nil {
					return err
				}
			}
			return nil
		},
		Short: func(v T) string {
			tuple := v.(Tuple)
			elems := make([]string, len(tuple))
			for i, e := range tuple {
				elems[i] = Short(e)
			}
			if len(elems) == 1 {
				return "(" + elems[0] + ",)"
			}
			return "(" + strings.Join(elems, ", ") + ")"
		},
	}
	frozenSetKind = &Kind{
		Name:      "frozenset",
		ID:        FrozenSetID,
		Immutable: always,
		WriteDigest: func(w io.Writer, v T) error {
			set := v.(FrozenSet)
			writeLength(w, len(set.digests))
			for _, d := range set.digests {
				if _, err := w.Write(d.Bytes()); err != nil {
					return err
				}
			}
			return nil
		},
		Short: func(v T) string {
			set := v.(FrozenSet)
			elems := make([]string, len(set.elems))
			for i, e := range set.elems {
				elems[i] = Short(e)
			}
			sort.Strings(elems)
			return "frozenset{" + strings.Join(elems, ", ") + "}"
		},
	}
	ndarrayKind = &Kind{
		Name: "ndarray",
		ID:   NDArrayID,
		WriteDigest: func(w io.Writer, v T) error {
			_, err := v.(*ndarray.Array).WriteTo(w)
			return err
		},
		Short: func(v T) string { return v.(*ndarray.Array).String() },
	}
)

func init() {
	for _, v := range []T{
		int(0), int8(0), int16(0), int32(0), int64(0),
		uint(0), uint8(0), uint16(0), uint32(0), uint64(0),
		new(big.Int),
	} {
		Register(reflect.TypeOf(v), intKind)
	}
	Register(reflect.TypeOf(float32(0)), floatKind)
	Register(reflect.TypeOf(float64(0)), floatKind)
	Register(reflect.TypeOf(""), stringKind)
	Register(reflect.TypeOf([]byte(nil)), bytesKind)
	Register(reflect.TypeOf(false), boolKind)
	Register(reflect.TypeOf(Tuple(nil)), tupleKind)
	Register(reflect.TypeOf(FrozenSet{}), frozenSetKind)
	Register(reflect.TypeOf((*ndarray.Array)(nil)), ndarrayKind)
}

func toBig(v T) *big.Int {
	switch v := v.(type) {
	case *big.Int:
		return v
	case int:
		return big.NewInt(int64(v))
	case int8:
		return big.NewInt(int64(v))
	case int16:
		return big.NewInt(int64(v))
	case int32:
		return big.NewInt(int64(v))
	case int64:
		return big.NewInt(v)
	case uint:
		return new(big.Int).SetUint64(uint64(v))
	case uint8:
		return new(big.Int).SetUint64(uint64(v))
	case uint16:
		return new(big.Int).SetUint64(uint64(v))
	case uint32:
		return new(big.Int).SetUint64(uint64(v))
	case uint64:
		return new(big.Int).SetUint64(v)
	}
	panic(fmt.Sprintf("not an integer: %T", v))
}

func toFloat(v T) float64 {
	switch v := v.(type) {
	case float32:
		return float64(v)
	case float64:
		return v
	}
	f, _ := new(big.Float).SetInt(toBig(v)).Float64()
	return f
}

// formatFloat renders f in its shortest form, keeping a decimal
// point so that floats are distinguishable from integers.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if strings.ContainsAny(s, ".eIN") {
		return s
	}
	return s + ".0"
}

// writeInt writes a sign byte, the length of the magnitude and the
// magnitude itself, big-endian and free of leading zeros.
func writeInt(w io.Writer, i *big.Int) error {
	sign := byte(0)
	if i.Sign() < 0 {
		sign = 1
	}
	p := i.Bytes()
	if len(p) > 0 && p[0] == 0 {
		panic("big.Int byte representation is not normalized")
	}
	if _, err := w.Write([]byte{sign}); err != nil {
		return err
	}
	writeLength(w, len(p))
	_, err := w.Write(p)
	return err
}
