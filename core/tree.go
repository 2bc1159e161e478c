package core

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"
)

// Tree is the ordered-set surface every backend is driven through.
type Tree interface {
	// Insert adds key and reports whether it was not already present.
	Insert(key int64) bool
	// Delete removes key and reports whether it was present.
	Delete(key int64) bool
	Has(key int64) bool
	Len() int
	// Ascend calls fn for every key in increasing order until fn returns false.
	Ascend(fn func(key int64) bool)
}

// Heighter is implemented by backends that can report their depth.
type Heighter interface {
	Height() int
}

// Validator is implemented by backends that can check their own
// structural invariants.
type Validator interface {
	Validate() error
}

// Hash returns the SHA-256 digest of the tree's keys in ascending order,
// each encoded as 8 big-endian bytes. Trees holding the same keys hash the
// same regardless of backend or shape.
func Hash(tree Tree) []byte {
	h := sha256.New()
	var buf [8]byte
	tree.Ascend(func(key int64) bool {
		binary.BigEndian.PutUint64(buf[:], uint64(key))
		h.Write(buf[:])
		return true
	})
	return h.Sum(nil)
}

type MultiTree interface {
	GetTree(storeKey string) (Tree, error)
	StoreKeys() []string
	// SaveVersions returns a digest over every store's Hash in store key order.
	SaveVersions() ([]byte, error)
}

type NaiveMultiTree struct {
	Trees map[string]Tree
}

func NewMultiTree() *NaiveMultiTree {
	return &NaiveMultiTree{
		Trees: make(map[string]Tree),
	}
}

// NewMultiTreeWithBackend creates one tree of the given backend per store key.
func NewMultiTreeWithBackend(backend string, storeKeys ...string) (*NaiveMultiTree, error) {
	multiTree := NewMultiTree()
	for _, storeKey := range storeKeys {
		tree, err := NewTree(backend)
		if err != nil {
			return nil, err
		}
		multiTree.Trees[storeKey] = tree
	}
	return multiTree, nil
}

func (nmt *NaiveMultiTree) GetTree(storeKey string) (Tree, error) {
	tree, ok := nmt.Trees[storeKey]
	if !ok {
		return nil, fmt.Errorf("tree with key %s not found", storeKey)
	}
	return tree, nil
}

func (nmt *NaiveMultiTree) StoreKeys() []string {
	storeKeys := make([]string, 0, len(nmt.Trees))
	for k := range nmt.Trees {
		storeKeys = append(storeKeys, k)
	}
	sort.Strings(storeKeys)
	return storeKeys
}

func (nmt *NaiveMultiTree) SaveVersions() ([]byte, error) {
	var hashes []byte
	for _, k := range nmt.StoreKeys() {
		hashes = append(hashes, Hash(nmt.Trees[k])...)
	}
	h := sha256.Sum256(hashes)
	return h[:], nil
}
