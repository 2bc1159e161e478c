package bst

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTree(values ...int) *Tree[int] {
	tree := New[int]()
	for _, v := range values {
		tree.Insert(v)
	}
	return tree
}

func TestBasicTest(t *testing.T) {
	tree := newTree(50, 30, 70, 20, 40, 60, 80)
	require.NoError(t, tree.Validate())
	require.Equal(t, 7, tree.Len())
	require.Equal(t, []int{20, 30, 40, 50, 60, 70, 80}, tree.Traverse(InOrder))
	require.Equal(t, []int{50, 30, 20, 40, 70, 60, 80}, tree.Traverse(PreOrder))
	require.Equal(t, []int{20, 40, 30, 60, 80, 70, 50}, tree.Traverse(PostOrder))

	root := tree.Root()
	require.Equal(t, 50, root.Value())
	require.Nil(t, root.Parent())
	require.Equal(t, 30, root.Left().Value())
	require.Equal(t, 70, root.Right().Value())
	require.Same(t, root, root.Left().Parent())

	for _, v := range []int{20, 30, 40, 50, 60, 70, 80} {
		node := tree.Search(v)
		require.NotNil(t, node, "value %d should be present", v)
		require.Equal(t, v, node.Value())
	}
	require.Nil(t, tree.Search(81))
	require.False(t, tree.Has(0))
}

func TestInsertDuplicate(t *testing.T) {
	tree := newTree(5, 3, 8)
	before := tree.Traverse(PreOrder)

	require.False(t, tree.Insert(3))
	require.False(t, tree.Insert(5))
	require.Equal(t, 3, tree.Len())
	require.Equal(t, before, tree.Traverse(PreOrder))

	require.True(t, tree.Insert(4))
	require.Equal(t, 4, tree.Len())
	require.Same(t, tree.Search(3), tree.Search(4).Parent())
}

func TestEmptyTree(t *testing.T) {
	tree := New[int]()
	require.Nil(t, tree.Search(1))
	require.Nil(t, tree.Root())
	require.Nil(t, tree.Min())
	require.Nil(t, tree.Max())
	require.Equal(t, 0, tree.Height())
	require.False(t, tree.Delete(1))
	require.Equal(t, 0, tree.Len())
	for _, o := range []Order{InOrder, PreOrder, PostOrder} {
		values := tree.Traverse(o)
		require.NotNil(t, values)
		require.Empty(t, values)
	}
	require.NoError(t, tree.Validate())

	var zero Tree[string]
	require.True(t, zero.Insert("a"))
	require.Equal(t, 1, zero.Len())
}

func TestDegenerateChain(t *testing.T) {
	tree := newTree(10, 9, 8, 7)
	require.Equal(t, 4, tree.Height())
	require.NotNil(t, tree.Search(7))

	require.True(t, tree.Delete(10))
	require.Equal(t, 9, tree.Root().Value())
	require.Nil(t, tree.Root().Parent())
	require.Equal(t, 3, tree.Height())
	require.Equal(t, []int{7, 8, 9}, tree.Traverse(InOrder))
	require.NoError(t, tree.Validate())
}

func TestDeepChainTraversal(t *testing.T) {
	const n = 10_000
	tree := New[int]()
	for i := 0; i < n; i++ {
		tree.Insert(i)
	}
	require.Equal(t, n, tree.Height())

	inorder := tree.Traverse(InOrder)
	require.Len(t, inorder, n)
	require.Equal(t, 0, inorder[0])
	require.Equal(t, n-1, inorder[n-1])

	postorder := tree.Traverse(PostOrder)
	require.Equal(t, n-1, postorder[0])
	require.Equal(t, 0, postorder[n-1])

	for i := 0; i < n; i++ {
		require.True(t, tree.Delete(i))
	}
	require.Equal(t, 0, tree.Len())
	require.Nil(t, tree.Root())
}

func TestMinMaxNextPrev(t *testing.T) {
	tree := newTree(50, 30, 70, 20, 40, 60, 80, 35, 65)
	require.Equal(t, 20, tree.Min().Value())
	require.Equal(t, 80, tree.Max().Value())

	var forward []int
	for n := tree.Min(); n != nil; n = n.Next() {
		forward = append(forward, n.Value())
	}
	require.Equal(t, tree.Traverse(InOrder), forward)

	var backward []int
	for n := tree.Max(); n != nil; n = n.Prev() {
		backward = append(backward, n.Value())
	}
	require.Equal(t, []int{80, 70, 65, 60, 50, 40, 35, 30, 20}, backward)

	require.Equal(t, 50, tree.Search(40).Next().Value())
	require.Equal(t, 40, tree.Search(50).Prev().Value())
	require.Equal(t, 35, tree.Search(30).Next().Value())
}

func TestWalkStopsEarly(t *testing.T) {
	tree := newTree(50, 30, 70, 20, 40, 60, 80)
	for _, o := range []Order{InOrder, PreOrder, PostOrder} {
		var seen []int
		tree.Walk(o, func(v int) bool {
			seen = append(seen, v)
			return len(seen) < 3
		})
		require.Equal(t, tree.Traverse(o)[:3], seen, o.String())
	}
}

func TestClear(t *testing.T) {
	tree := newTree(3, 1, 2)
	tree.Clear()
	require.Equal(t, 0, tree.Len())
	require.Nil(t, tree.Root())
	require.False(t, tree.Has(2))
	require.True(t, tree.Insert(2))
	require.NoError(t, tree.Validate())
}

func TestFloatNaN(t *testing.T) {
	tree := New[float64]()
	require.True(t, tree.Insert(1.5))
	require.True(t, tree.Insert(math.NaN()))
	require.False(t, tree.Insert(math.NaN()))
	require.True(t, tree.Insert(math.Inf(-1)))
	require.Equal(t, 3, tree.Len())
	require.True(t, math.IsNaN(tree.Min().Value()))
	require.True(t, tree.Delete(math.NaN()))
	require.NoError(t, tree.Validate())
}

func TestOrderNames(t *testing.T) {
	for _, o := range []Order{InOrder, PreOrder, PostOrder} {
		parsed, err := ParseOrder(o.String())
		require.NoError(t, err)
		require.Equal(t, o, parsed)
	}
	_, err := ParseOrder("levelorder")
	require.Error(t, err)
	require.Equal(t, "Order(7)", Order(7).String())
	require.Panics(t, func() { newTree(1).Walk(Order(7), func(int) bool { return true }) })
}

func TestValidateDetectsCorruption(t *testing.T) {
	tree := newTree(50, 30, 70)
	tree.Search(30).value = 90
	require.ErrorContains(t, tree.Validate(), "not less than ancestor")

	tree = newTree(50, 30, 70)
	tree.Search(70).parent = tree.Search(30)
	require.ErrorContains(t, tree.Validate(), "inconsistent parent link")

	tree = newTree(50, 30, 70)
	tree.size = 4
	require.ErrorContains(t, tree.Validate(), "reports size 4")
}
