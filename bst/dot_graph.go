package bst

import (
	"cmp"
	"fmt"

	"github.com/emicklei/dot"
)

// RenderDotGraph renders the tree as a Graphviz digraph. Edges are labelled
// "l" and "r" after the child slot they leave from.
func RenderDotGraph[T cmp.Ordered](t *Tree[T]) string {
	graph := dot.NewGraph(dot.Directed)
	if t.root == nil {
		return graph.String()
	}

	type item struct {
		node      *Node[T]
		parent    dot.Node
		hasParent bool
		direction string
	}
	stack := []item{{node: t.root}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := graph.Node(fmt.Sprint(it.node.value))
		if it.hasParent {
			it.parent.Edge(n, it.direction)
		}
		if it.node.right != nil {
			stack = append(stack, item{node: it.node.right, parent: n, hasParent: true, direction: "r"})
		}
		if it.node.left != nil {
			stack = append(stack, item{node: it.node.left, parent: n, hasParent: true, direction: "l"})
		}
	}
	return graph.String()
}
