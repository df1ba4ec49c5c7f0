// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package lazy

import (
	"bytes"
	"io"
)

// prefixWriter is an io.Writer that outputs a prefix before each line.
type prefixWriter struct {
	w          io.Writer
	prefix     string
	needPrefix bool
}

func newPrefixWriter(w io.Writer, prefix string) *prefixWriter {
	return &prefixWriter{w: w, prefix: prefix, needPrefix: true}
}

func (w *prefixWriter) Write(p []byte) (n int, err error) {
	if w.needPrefix {
		if _, err := io.WriteString(w.w, w.prefix); err != nil {
			return 0, err
		}
		w.needPrefix = false
	}
	for {
		i := bytes.IndexByte(p, '\n')
		switch i {
		case len(p) - 1:
			w.needPrefix = true
			fallthrough
		case -1:
			m, err := w.w.Write(p)
			return n + m, err
		default:
			m, err := w.w.Write(p[:i+1])
			n += m
			if err != nil {
				return n, err
			}
			if _, err := io.WriteString(w.w, w.prefix); err != nil {
				return n, err
			}
			p = p[i+1:]
		}
	}
}
