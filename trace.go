// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package lazy

import (
	"bytes"
	"fmt"
	"io"

	"github.com/grailbio/base/digest"
	"github.com/grailbio/lazy/values"
)

// hashPrefix renders the first three bytes of d in hexadecimal.
func hashPrefix(d digest.Digest) string {
	return d.HexN(3)
}

// String renders l's trace: its digest and the program that
// computes it. A leaf is rendered as its digest and value, for
// example "<lazy 5a8a4a ndarray(shape=(3,), dtype=float64)>".
func (l Lazy) String() string {
	n := l.node()
	if n.isLeaf() {
		return fmt.Sprintf("<lazy %s %s>", hashPrefix(n.digest), values.Short(n.value))
	}
	var b bytes.Buffer
	fmt.Fprintf(&b, "<lazy %s\n", hashPrefix(n.digest))
	l.Program().WriteTo(&b)
	b.WriteString(">")
	return b.String()
}

// WriteTo writes the program's input and program sections, as they
// appear in traces, to w.
func (p *Program) WriteTo(w io.Writer) (int64, error) {
	var b bytes.Buffer
	b.WriteString("  input:\n")
	pw := newPrefixWriter(&b, "    ")
	for _, in := range p.Inputs {
		fmt.Fprintf(pw, "%s: %s %s\n", in.Name, hashPrefix(in.Digest), values.Short(in.Value))
	}
	b.WriteString("  program:\n")
	pw = newPrefixWriter(&b, "    ")
	for _, s := range p.Statements {
		fmt.Fprintf(pw, "%s: %s %s\n", s.Name, hashPrefix(s.Digest), s.Expr())
	}
	return b.WriteTo(w)
}
