package bst

import "cmp"

// Node is a single entry of a Tree. The value doubles as the key.
//
// A node owns its children. The parent link is navigation only: it is
// never followed to decide ownership and is cleared when the node is
// detached from the tree.
type Node[T cmp.Ordered] struct {
	value  T
	left   *Node[T]
	right  *Node[T]
	parent *Node[T]
}

func newLeaf[T cmp.Ordered](value T, parent *Node[T]) *Node[T] {
	return &Node[T]{value: value, parent: parent}
}

// Value returns the value stored in the node.
func (node *Node[T]) Value() T {
	return node.value
}

func (node *Node[T]) Left() *Node[T] {
	return node.left
}

func (node *Node[T]) Right() *Node[T] {
	return node.right
}

// Parent returns nil for the root and for nodes that have been deleted.
func (node *Node[T]) Parent() *Node[T] {
	return node.parent
}

func (node *Node[T]) isLeaf() bool {
	return node.left == nil && node.right == nil
}

func (node *Node[T]) childCount() int {
	count := 0
	if node.left != nil {
		count++
	}
	if node.right != nil {
		count++
	}
	return count
}

// maxNode returns the right-most node of the subtree rooted at node.
func (node *Node[T]) maxNode() *Node[T] {
	for node.right != nil {
		node = node.right
	}
	return node
}

// minNode returns the left-most node of the subtree rooted at node.
func (node *Node[T]) minNode() *Node[T] {
	for node.left != nil {
		node = node.left
	}
	return node
}

// Next returns the in-order successor of node, or nil if node holds the
// largest value in the tree.
func (node *Node[T]) Next() *Node[T] {
	if node.right != nil {
		return node.right.minNode()
	}
	child, parent := node, node.parent
	for parent != nil && parent.right == child {
		child, parent = parent, parent.parent
	}
	return parent
}

// Prev returns the in-order predecessor of node, or nil if node holds the
// smallest value in the tree.
func (node *Node[T]) Prev() *Node[T] {
	if node.left != nil {
		return node.left.maxNode()
	}
	child, parent := node, node.parent
	for parent != nil && parent.left == child {
		child, parent = parent, parent.parent
	}
	return parent
}

// detach clears every link of a node that is no longer reachable from the
// tree so that stale handles do not pin the rest of the graph.
func (node *Node[T]) detach() {
	node.parent = nil
	node.left = nil
	node.right = nil
}
