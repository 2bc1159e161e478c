package bst

import "fmt"

// Delete removes value from the tree and reports whether it was present.
// Deleting an absent value is a no-op.
func (t *Tree[T]) Delete(value T) bool {
	target := t.Search(value)
	if target == nil {
		return false
	}
	t.deleteNode(target)
	return true
}

// deleteNode structurally removes target from the tree. A node with two
// children takes the value of its in-order predecessor, and the
// predecessor, which has no right child, is unlinked in its place.
func (t *Tree[T]) deleteNode(target *Node[T]) {
	switch n := target.childCount(); n {
	case 0, 1:
	case 2:
		donor := target.left.maxNode()
		target.value = donor.value
		target = donor
	default:
		panic(fmt.Sprintf("bst: node has %d children", n))
	}

	if target.childCount() == 2 {
		panic("bst: in-order predecessor has two children")
	}

	child := target.left
	if child == nil {
		child = target.right
	}
	t.replaceInParent(target, child)
	target.detach()
	t.size--
}

// replaceInParent points the slot that owns node at replacement, which may
// be nil. The slot is found by identity because during a two-children
// delete the node's value has just been copied to its ancestor.
func (t *Tree[T]) replaceInParent(node, replacement *Node[T]) {
	parent := node.parent
	if replacement != nil {
		replacement.parent = parent
	}

	switch {
	case parent == nil:
		if t.root != node {
			panic("bst: parentless node is not the root")
		}
		t.root = replacement
	case parent.left == node:
		parent.left = replacement
	case parent.right == node:
		parent.right = replacement
	default:
		panic(fmt.Sprintf("bst: node %v not found among its parent's children", node.value))
	}
}
