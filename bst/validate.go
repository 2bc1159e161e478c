package bst

import (
	"cmp"
	"fmt"
)

// Validate walks the whole tree and returns an error describing the first
// broken structural invariant it finds. Values are checked against every
// ancestor's bound, not only the parent's.
func (t *Tree[T]) Validate() error {
	if t.root == nil {
		if t.size != 0 {
			return fmt.Errorf("empty tree reports size %d", t.size)
		}
		return nil
	}
	if t.root.parent != nil {
		return fmt.Errorf("root %v has parent %v", t.root.value, t.root.parent.value)
	}

	type bound struct {
		node     *Node[T]
		lo, hi   *Node[T] // exclusive limits, nil when unbounded
		expected *Node[T]
	}
	count := 0
	stack := []bound{{node: t.root}}
	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := b.node
		count++
		if count > t.size {
			return fmt.Errorf("more than %d nodes reachable from root", t.size)
		}

		if node.parent != b.expected {
			return fmt.Errorf("node %v has inconsistent parent link", node.value)
		}
		if b.lo != nil && cmp.Compare(node.value, b.lo.value) <= 0 {
			return fmt.Errorf("node %v is not greater than ancestor %v", node.value, b.lo.value)
		}
		if b.hi != nil && cmp.Compare(node.value, b.hi.value) >= 0 {
			return fmt.Errorf("node %v is not less than ancestor %v", node.value, b.hi.value)
		}

		if node.left != nil {
			stack = append(stack, bound{node: node.left, lo: b.lo, hi: node, expected: node})
		}
		if node.right != nil {
			stack = append(stack, bound{node: node.right, lo: node, hi: b.hi, expected: node})
		}
	}
	if count != t.size {
		return fmt.Errorf("tree reports size %d but %d nodes are reachable", t.size, count)
	}
	return nil
}
