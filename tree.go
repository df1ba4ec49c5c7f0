// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package lazy

import (
	"fmt"

	"github.com/grailbio/lazy/values"
	"github.com/xlab/treeprint"
)

// Tree renders the program's expression as an indented tree rooted
// at the program's root. A node shared by several operations appears
// under each of them, labeled with its binding.
func (p *Program) Tree() string {
	root := treeprint.NewWithRoot(p.treeLabel(p.root))
	p.addTree(root, p.root)
	return root.String()
}

func (p *Program) addTree(t treeprint.Tree, id NodeID) {
	for _, arg := range p.nodes[id].args {
		if p.nodes[arg].isLeaf() {
			t.AddNode(p.treeLabel(arg))
			continue
		}
		p.addTree(t.AddBranch(p.treeLabel(arg)), arg)
	}
}

func (p *Program) treeLabel(id NodeID) string {
	n := p.nodes[id]
	switch {
	case !n.isLeaf():
		return fmt.Sprintf("%s %s %s", p.names[id], hashPrefix(n.digest), n.op.Name)
	case values.Inline(n.value):
		return p.names[id]
	default:
		return fmt.Sprintf("%s %s %s", p.names[id], hashPrefix(n.digest), values.Short(n.value))
	}
}
