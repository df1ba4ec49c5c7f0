// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package values classifies, digests and describes the raw values
// that lazy graphs are built from.
//
// Values are represented by values.T, defined as
//
//	type T = interface{}
//
// which is done to clarify code that uses raw values. Each Go type
// that may appear in a graph is registered with a Kind, a table of
// functions that decide whether its values are immutable by value,
// how they are digested, and how they are rendered in traces. The
// builtin kinds cover Go's integer and floating point types,
// *big.Int, strings, byte slices, bools, Tuples, FrozenSets and
// *ndarray.Array.
package values

import (
	"crypto" // The SHA-256 implementation is required for this package's
	// Digester.
	_ "crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/grailbio/base/digest"
	"github.com/grailbio/lazy/errors"
)

// Digester is the digester used to compute value digests.
var Digester = digest.Digester(crypto.SHA256)

// T is the type of value. It is just an alias to interface{},
// but is used throughout code for clarity.
type T = interface{}

// Strings and byte slices longer than maxInline are never rendered
// inline.
const maxInline = 10

// Tuple is a fixed-size ordered sequence of values. A tuple is
// immutable by value if all of its elements are.
type Tuple []T

// FrozenSet is an immutable set of values. Elements are identified
// by their digests.
type FrozenSet struct {
	elems   []T
	digests []digest.Digest
}

// NewFrozenSet returns the set of the provided elements, which must
// all be digestible. Duplicate elements are collapsed.
func NewFrozenSet(elems ...T) (FrozenSet, error) {
	type entry struct {
		v T
		d digest.Digest
	}
	entries := make([]entry, 0, len(elems))
	seen := make(map[digest.Digest]bool)
	for _, e := range elems {
		d, err := Digest(e)
		if err != nil {
			return FrozenSet{}, errors.E("frozenset", err)
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		entries = append(entries, entry{e, d})
	}
	// Sort the set by element digest so that it produces a
	// consistent digest regardless of insertion order.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].d.Less(entries[j].d)
	})
	set := FrozenSet{
		elems:   make([]T, len(entries)),
		digests: make([]digest.Digest, len(entries)),
	}
	for i, e := range entries {
		set.elems[i], set.digests[i] = e.v, e.d
	}
	return set, nil
}

// Len returns the number of elements in the set.
func (s FrozenSet) Len() int { return len(s.elems) }

// Elems returns the set's elements, ordered by digest.
func (s FrozenSet) Elems() []T { return append([]T(nil), s.elems...) }

// Immutable tells whether v is immutable by value. Values of
// unregistered types are never immutable.
func Immutable(v T) bool {
	k := KindOf(v)
	if k == nil || k.Immutable == nil {
		return false
	}
	return k.Immutable(v)
}

// Inline tells whether v may be rendered inline in a trace instead
// of being bound to a named input: v must be immutable by value, and
// strings and byte slices must be short.
func Inline(v T) bool {
	if !Immutable(v) {
		return false
	}
	if k := KindOf(v); k.Inline != nil {
		return k.Inline(v)
	}
	return true
}

// WriteDigest writes digest material for value v into the writer w:
// the ID of v's kind followed by the kind's encoding of v. Values of
// unregistered types cannot be digested.
func WriteDigest(w io.Writer, v T) error {
	k := KindOf(v)
	if k == nil || k.WriteDigest == nil {
		return errors.E("digest", fmt.Sprintf("%T", v), errors.NotSupported)
	}
	if _, err := w.Write([]byte{k.ID}); err != nil {
		return err
	}
	return k.WriteDigest(w, v)
}

// Digest computes the digest for value v.
func Digest(v T) (digest.Digest, error) {
	w := Digester.NewWriter()
	if err := WriteDigest(w, v); err != nil {
		return digest.Digest{}, err
	}
	return w.Digest(), nil
}

// Short returns a single-line description of v. Arrays are
// described by their shape and element type, never their contents.
// Short is total: values of unregistered types are rendered with %v.
func Short(v T) string {
	if k := KindOf(v); k != nil && k.Short != nil {
		return k.Short(v)
	}
	return fmt.Sprintf("%v", v)
}

func writeLength(w io.Writer, n int) {
	writeUint64(w, uint64(n))
}

func writeUint64(w io.Writer, n uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], n)
	w.Write(b[:])
}
