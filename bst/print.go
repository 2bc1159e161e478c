package bst

import (
	"cmp"

	"github.com/xlab/treeprint"
)

// RenderTree renders the tree as indented text, one node per line. Child
// branches are tagged [L] or [R] so single children are unambiguous.
func RenderTree[T cmp.Ordered](t *Tree[T]) string {
	if t.root == nil {
		return treeprint.NewWithRoot("(empty)").String()
	}

	type item struct {
		node   *Node[T]
		branch treeprint.Tree
	}
	root := treeprint.NewWithRoot(t.root.value)
	queue := []item{{t.root, root}}
	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]
		for _, child := range []struct {
			meta string
			node *Node[T]
		}{{"L", it.node.left}, {"R", it.node.right}} {
			if child.node == nil {
				continue
			}
			if child.node.isLeaf() {
				it.branch.AddMetaNode(child.meta, child.node.value)
				continue
			}
			branch := it.branch.AddMetaBranch(child.meta, child.node.value)
			queue = append(queue, item{child.node, branch})
		}
	}
	return root.String()
}
