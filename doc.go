// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package lazy implements content-addressed, lazily evaluated
// expression graphs.
//
// Expressions are built from raw values (see package values) by
// applying operations to them in a Graph. Nothing is computed at
// construction time. Instead, each node of the graph carries a
// digest derived purely from its inputs and the operation applied:
// a leaf's digest is the digest of its value, and an operation's
// digest is computed from the operation's own digest followed by
// the digests of its arguments, in order. Structurally identical
// subexpressions thus have identical digests and may be detected,
// or memoized by an external cache, without evaluating them.
//
// Each node is also stamped, at construction, with its position in
// the Graph's arena. When a Lazy value is evaluated, its graph is
// flattened into a Program: a list of single-assignment statements
// in which every node reachable from the root appears exactly once,
// ordered by stamp. Shared subexpressions are therefore computed
// once, and operations run in the order in which the caller
// constructed them. Deduplication is by node identity, never by
// digest: two independently constructed but identical
// subexpressions are computed twice.
//
// The textual trace of a Lazy value (its String method) renders the
// same Program that is evaluated:
//
//	<lazy 42c4ea
//	  input:
//	    v0: 5a8a4a ndarray(shape=(3,), dtype=float64)
//	  program:
//	    e0: fee009 (5 * v0)
//	    e1: 42c4ea (e0 + e0)
//	>
//
// Short, immutable values are rendered inline; other leaves are
// bound to named inputs.
package lazy
