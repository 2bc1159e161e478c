package bst

import (
	"cmp"
	"fmt"
)

// Order selects the sequence in which a traversal visits nodes.
type Order int

const (
	// InOrder visits left subtree, node, right subtree. Values come out in
	// strictly increasing order.
	InOrder Order = iota
	// PreOrder visits node, left subtree, right subtree.
	PreOrder
	// PostOrder visits left subtree, right subtree, node.
	PostOrder
)

var orderNames = map[Order]string{
	InOrder:   "inorder",
	PreOrder:  "preorder",
	PostOrder: "postorder",
}

func (o Order) String() string {
	if name, ok := orderNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Order(%d)", int(o))
}

// ParseOrder converts a name produced by Order.String back into an Order.
func ParseOrder(s string) (Order, error) {
	for o, name := range orderNames {
		if name == s {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown traversal order %q", s)
}

// Traverse returns every value in the tree in the given order. The result
// is a fresh slice; an empty tree yields an empty, non-nil slice.
func (t *Tree[T]) Traverse(o Order) []T {
	values := make([]T, 0, t.size)
	t.Walk(o, func(v T) bool {
		values = append(values, v)
		return true
	})
	return values
}

// Walk calls fn for each value in the given order until fn returns false.
// fn must not modify the tree.
func (t *Tree[T]) Walk(o Order, fn func(T) bool) {
	if t.root == nil {
		return
	}
	switch o {
	case InOrder:
		walkInOrder(t.root, fn)
	case PreOrder:
		walkPreOrder(t.root, fn)
	case PostOrder:
		walkPostOrder(t.root, fn)
	default:
		panic(fmt.Sprintf("bst: unknown traversal order %d", int(o)))
	}
}

func walkInOrder[T cmp.Ordered](root *Node[T], fn func(T) bool) {
	var stack []*Node[T]
	node := root
	for node != nil || len(stack) > 0 {
		for node != nil {
			stack = append(stack, node)
			node = node.left
		}
		node = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(node.value) {
			return
		}
		node = node.right
	}
}

func walkPreOrder[T cmp.Ordered](root *Node[T], fn func(T) bool) {
	stack := []*Node[T]{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(node.value) {
			return
		}
		// right is pushed first so that left is visited first
		if node.right != nil {
			stack = append(stack, node.right)
		}
		if node.left != nil {
			stack = append(stack, node.left)
		}
	}
}

func walkPostOrder[T cmp.Ordered](root *Node[T], fn func(T) bool) {
	var (
		stack    []*Node[T]
		node     = root
		lastSeen *Node[T]
	)
	for node != nil || len(stack) > 0 {
		for node != nil {
			stack = append(stack, node)
			node = node.left
		}
		top := stack[len(stack)-1]
		if top.right != nil && top.right != lastSeen {
			node = top.right
			continue
		}
		stack = stack[:len(stack)-1]
		if !fn(top.value) {
			return
		}
		lastSeen = top
	}
}
