// Package bst implements an unbalanced binary search tree over ordered
// scalar values. Values act as both key and payload, so the tree has set
// semantics: inserting a value that is already present does nothing.
//
// Depth depends only on insertion order; no rebalancing is performed.
// A Tree is not safe for concurrent use.
package bst

import "cmp"

// Tree is an ordered set backed by a parent-linked binary search tree.
// The zero value is an empty tree ready to use.
type Tree[T cmp.Ordered] struct {
	root *Node[T]
	size int
}

func New[T cmp.Ordered]() *Tree[T] {
	return &Tree[T]{}
}

// Len returns the number of values stored in the tree.
func (t *Tree[T]) Len() int {
	return t.size
}

// Root returns the root node for diagnostic inspection, or nil if the tree
// is empty.
func (t *Tree[T]) Root() *Node[T] {
	return t.root
}

// Insert adds value to the tree and reports whether a new node was
// created. Inserting a value that is already present is a no-op.
func (t *Tree[T]) Insert(value T) bool {
	if t.root == nil {
		t.root = newLeaf[T](value, nil)
		t.size++
		return true
	}

	node := t.root
	for {
		switch c := cmp.Compare(value, node.value); {
		case c == 0:
			return false
		case c < 0:
			if node.left == nil {
				node.left = newLeaf(value, node)
				t.size++
				return true
			}
			node = node.left
		default:
			if node.right == nil {
				node.right = newLeaf(value, node)
				t.size++
				return true
			}
			node = node.right
		}
	}
}

// Search returns the node holding value, or nil if it is not present.
func (t *Tree[T]) Search(value T) *Node[T] {
	node := t.root
	for node != nil {
		c := cmp.Compare(value, node.value)
		if c == 0 {
			return node
		}
		if c < 0 {
			node = node.left
		} else {
			node = node.right
		}
	}
	return nil
}

// Has reports whether value is stored in the tree.
func (t *Tree[T]) Has(value T) bool {
	return t.Search(value) != nil
}

// Min returns the node holding the smallest value, or nil if the tree is
// empty.
func (t *Tree[T]) Min() *Node[T] {
	if t.root == nil {
		return nil
	}
	return t.root.minNode()
}

// Max returns the node holding the largest value, or nil if the tree is
// empty.
func (t *Tree[T]) Max() *Node[T] {
	if t.root == nil {
		return nil
	}
	return t.root.maxNode()
}

// Height returns the number of nodes on the longest path from the root to
// a leaf. An empty tree has height 0.
func (t *Tree[T]) Height() int {
	if t.root == nil {
		return 0
	}
	type frame struct {
		node  *Node[T]
		depth int
	}
	height := 0
	stack := []frame{{t.root, 1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.depth > height {
			height = f.depth
		}
		if f.node.left != nil {
			stack = append(stack, frame{f.node.left, f.depth + 1})
		}
		if f.node.right != nil {
			stack = append(stack, frame{f.node.right, f.depth + 1})
		}
	}
	return height
}

// Clear removes every value from the tree.
func (t *Tree[T]) Clear() {
	t.root = nil
	t.size = 0
}
