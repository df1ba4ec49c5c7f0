// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package lazy

import "github.com/grailbio/lazy/values"

// Digester is the digester used to compute node and operation
// digests. It is the same digester used for values, so that a leaf's
// digest is the digest of its value.
var Digester = values.Digester
