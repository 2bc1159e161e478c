package core

import (
	"fmt"
	"sort"

	gbtree "github.com/google/btree"
	tbtree "github.com/tidwall/btree"

	"github.com/cosmos/bst-bench/bst"
)

const (
	BackendBST    = "bst"
	BackendGBTree = "gbtree"
	BackendTBTree = "tbtree"
)

var backends = map[string]func() Tree{
	BackendBST: func() Tree {
		return &bstTree{tree: bst.New[int64]()}
	},
	BackendGBTree: func() Tree {
		return &googleBTree{tree: gbtree.NewOrderedG[int64](32)}
	},
	BackendTBTree: func() Tree {
		return &tidwallBTree{tree: tbtree.NewBTreeG(func(a, b int64) bool { return a < b })}
	},
}

// Backends lists the names accepted by NewTree.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewTree returns an empty tree of the named backend.
func NewTree(backend string) (Tree, error) {
	newFn, ok := backends[backend]
	if !ok {
		return nil, fmt.Errorf("unknown backend %q; expected one of %v", backend, Backends())
	}
	return newFn(), nil
}

// bstTree adapts the unbalanced binary search tree.
type bstTree struct {
	tree *bst.Tree[int64]
}

var (
	_ Tree      = &bstTree{}
	_ Heighter  = &bstTree{}
	_ Validator = &bstTree{}
)

func (b *bstTree) Insert(key int64) bool { return b.tree.Insert(key) }
func (b *bstTree) Delete(key int64) bool { return b.tree.Delete(key) }
func (b *bstTree) Has(key int64) bool    { return b.tree.Has(key) }
func (b *bstTree) Len() int              { return b.tree.Len() }
func (b *bstTree) Height() int           { return b.tree.Height() }
func (b *bstTree) Validate() error       { return b.tree.Validate() }

func (b *bstTree) Ascend(fn func(key int64) bool) {
	b.tree.Walk(bst.InOrder, fn)
}

// googleBTree is a reference backend built on github.com/google/btree.
type googleBTree struct {
	tree *gbtree.BTreeG[int64]
}

func (g *googleBTree) Insert(key int64) bool {
	_, replaced := g.tree.ReplaceOrInsert(key)
	return !replaced
}

func (g *googleBTree) Delete(key int64) bool {
	_, found := g.tree.Delete(key)
	return found
}

func (g *googleBTree) Has(key int64) bool { return g.tree.Has(key) }
func (g *googleBTree) Len() int           { return g.tree.Len() }

func (g *googleBTree) Ascend(fn func(key int64) bool) {
	g.tree.Ascend(fn)
}

// tidwallBTree is a reference backend built on github.com/tidwall/btree.
type tidwallBTree struct {
	tree *tbtree.BTreeG[int64]
}

func (b *tidwallBTree) Insert(key int64) bool {
	_, replaced := b.tree.Set(key)
	return !replaced
}

func (b *tidwallBTree) Delete(key int64) bool {
	_, deleted := b.tree.Delete(key)
	return deleted
}

func (b *tidwallBTree) Has(key int64) bool {
	_, ok := b.tree.Get(key)
	return ok
}

func (b *tidwallBTree) Len() int { return b.tree.Len() }

func (b *tidwallBTree) Ascend(fn func(key int64) bool) {
	b.tree.Scan(fn)
}
