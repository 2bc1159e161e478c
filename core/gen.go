package core

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/tidwall/btree"

	"github.com/cosmos/bst-bench/core/metrics"
)

// OpKind distinguishes the three kinds of generated change.
type OpKind uint8

const (
	// OpCreate inserts a key that is not yet present.
	OpCreate OpKind = iota
	// OpUpdate re-inserts a key that is already present; on a set this must
	// be a no-op.
	OpUpdate
	// OpDelete removes a key that is present.
	OpDelete
)

var opKindNames = []string{"create", "update", "delete"}

func (k OpKind) String() string {
	if int(k) < len(opKindNames) {
		return opKindNames[k]
	}
	return fmt.Sprintf("OpKind(%d)", uint8(k))
}

func (k OpKind) MarshalText() ([]byte, error) {
	if int(k) >= len(opKindNames) {
		return nil, fmt.Errorf("unknown op kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

func (k *OpKind) UnmarshalText(text []byte) error {
	for i, name := range opKindNames {
		if name == string(text) {
			*k = OpKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown op kind %q", text)
}

type Op struct {
	StoreKey string `json:"store"`
	Key      int64  `json:"key"`
	Kind     OpKind `json:"kind"`
}

type Changeset struct {
	Version int64
	Ops     []Op
}

// Key patterns accepted by ChangesetGenerator.Pattern.
const (
	PatternUniform    = "uniform"
	PatternAscending  = "ascending"
	PatternDescending = "descending"
)

type ChangesetGenerator struct {
	StoreKey string `json:"store_key"`
	Seed     uint64 `json:"seed"`
	// Pattern selects how fresh keys are drawn. Ascending and descending
	// produce the insertion orders that degrade an unbalanced tree into a
	// chain.
	Pattern string `json:"pattern"`
	// KeySpace bounds uniform keys to [0, KeySpace). Zero means the full
	// int64 range.
	KeySpace         int64   `json:"key_space"`
	InitialSize      int     `json:"initial_size"`
	FinalSize        int     `json:"final_size"`
	Versions         int64   `json:"versions"`
	ChangePerVersion int     `json:"change_per_version"`
	DeleteFraction   float64 `json:"delete_fraction"`
}

func (c ChangesetGenerator) validate() error {
	if c.FinalSize < c.InitialSize {
		return fmt.Errorf("final size must be greater than initial size")
	}
	if c.Versions < 1 {
		return fmt.Errorf("versions must be at least 1")
	}
	if c.DeleteFraction < 0 || c.DeleteFraction > 1 {
		return fmt.Errorf("delete fraction must be within [0, 1]; got %f", c.DeleteFraction)
	}
	switch c.Pattern {
	case PatternUniform, "":
		if c.KeySpace < 0 || (c.KeySpace > 0 && c.KeySpace < 2*int64(c.FinalSize+c.ChangePerVersion)) {
			return fmt.Errorf("key space %d is too small for final size %d", c.KeySpace, c.FinalSize)
		}
	case PatternAscending, PatternDescending:
	default:
		return fmt.Errorf("unknown key pattern %q", c.Pattern)
	}
	return nil
}

func (c ChangesetGenerator) Iterator() (*ChangesetIterator, error) {
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("store %s: %w", c.StoreKey, err)
	}

	itr := &ChangesetIterator{
		gen:  c,
		rand: rand.New(rand.NewPCG(c.Seed, c.Seed)),
		keys: btree.NewBTreeG(func(a, b int64) bool { return a < b }),
		// metric names are shared across stores
		createRetry: metrics.Default.NewCounter("iterator.create_retry"),
	}
	if c.Versions > 1 {
		itr.createsPerVersion = float64(c.FinalSize-c.InitialSize) / float64(c.Versions-1)
	}

	err := itr.Next()
	return itr, err
}

// ChangesetIterator produces one store's changesets version by version.
// Deletes and updates only target keys that exist at the start of the
// version, and fresh keys never collide with keys touched in the same
// version, so a changeset applies correctly in any op order.
type ChangesetIterator struct {
	changeset *Changeset

	version           int64
	rand              *rand.Rand
	gen               ChangesetGenerator
	keys              *btree.BTreeG[int64]
	nextSeq           int64
	createsPerVersion float64
	createAccumulator float64
	createRetry       *metrics.Counter
}

func (itr *ChangesetIterator) Next() error {
	if itr.version >= itr.gen.Versions {
		itr.changeset = nil
		return nil
	}
	itr.version++
	itr.changeset = itr.nextVersion()
	return nil
}

func (itr *ChangesetIterator) Valid() bool {
	return itr.changeset != nil
}

func (itr *ChangesetIterator) Changeset() *Changeset {
	return itr.changeset
}

func (itr *ChangesetIterator) nextVersion() *Changeset {
	var (
		ops     []Op
		touched = map[int64]struct{}{}
		creates int
	)

	if itr.version == 1 {
		creates = itr.gen.InitialSize
	} else {
		deletes := int(itr.gen.DeleteFraction * float64(itr.gen.ChangePerVersion))
		deletes = min(deletes, itr.keys.Len())
		updates := itr.gen.ChangePerVersion - deletes

		for i := 0; i < deletes; i++ {
			key, _ := itr.keys.DeleteAt(itr.rand.IntN(itr.keys.Len()))
			touched[key] = struct{}{}
			ops = append(ops, Op{StoreKey: itr.gen.StoreKey, Key: key, Kind: OpDelete})
		}

		if itr.keys.Len() > 0 {
			for i := 0; i < updates; i++ {
				key, _ := itr.keys.GetAt(itr.rand.IntN(itr.keys.Len()))
				ops = append(ops, Op{StoreKey: itr.gen.StoreKey, Key: key, Kind: OpUpdate})
			}
		}

		itr.createAccumulator += itr.createsPerVersion
		creates = int(itr.createAccumulator) + deletes
		itr.createAccumulator -= math.Floor(itr.createAccumulator)
	}

	created := make([]int64, 0, creates)
	for i := 0; i < creates; i++ {
		key := itr.freshKey(touched)
		touched[key] = struct{}{}
		created = append(created, key)
		ops = append(ops, Op{StoreKey: itr.gen.StoreKey, Key: key, Kind: OpCreate})
	}
	// created keys become eligible for updates and deletes next version
	for _, key := range created {
		itr.keys.Set(key)
	}

	itr.rand.Shuffle(len(ops), func(i, j int) {
		ops[i], ops[j] = ops[j], ops[i]
	})
	return &Changeset{Version: itr.version, Ops: ops}
}

func (itr *ChangesetIterator) freshKey(touched map[int64]struct{}) int64 {
	switch itr.gen.Pattern {
	case PatternAscending:
		itr.nextSeq++
		return itr.nextSeq
	case PatternDescending:
		itr.nextSeq--
		return itr.nextSeq
	}
	for {
		var key int64
		if itr.gen.KeySpace > 0 {
			key = itr.rand.Int64N(itr.gen.KeySpace)
		} else {
			key = int64(itr.rand.Uint64())
		}
		_, exists := itr.keys.Get(key)
		_, seen := touched[key]
		if !exists && !seen {
			return key
		}
		itr.createRetry.Inc()
	}
}

// ChangesetIterators merges several stores' iterators into one changeset
// per version, interleaving the stores' ops round-robin.
type ChangesetIterators struct {
	iterators []*ChangesetIterator
	changeset *Changeset
}

func NewChangesetIterators(gens []ChangesetGenerator) (*ChangesetIterators, error) {
	if len(gens) == 0 {
		return nil, fmt.Errorf("must provide at least one generator")
	}

	var iterators []*ChangesetIterator
	versions := gens[0].Versions
	seen := map[string]bool{}
	for _, gen := range gens {
		if gen.Versions != versions {
			return nil, fmt.Errorf("all generators must have the same number of versions")
		}
		if seen[gen.StoreKey] {
			return nil, fmt.Errorf("duplicate store key %s", gen.StoreKey)
		}
		seen[gen.StoreKey] = true
		itr, err := gen.Iterator()
		if err != nil {
			return nil, err
		}
		iterators = append(iterators, itr)
	}

	itr := &ChangesetIterators{iterators: iterators}
	itr.merge()
	return itr, nil
}

func (itr *ChangesetIterators) Next() error {
	for _, it := range itr.iterators {
		if err := it.Next(); err != nil {
			return err
		}
	}
	itr.merge()
	return nil
}

func (itr *ChangesetIterators) merge() {
	if !itr.iterators[0].Valid() {
		itr.changeset = nil
		return
	}
	merged := &Changeset{Version: itr.iterators[0].Changeset().Version}
	for i := 0; ; i++ {
		appended := false
		for _, it := range itr.iterators {
			ops := it.Changeset().Ops
			if i < len(ops) {
				merged.Ops = append(merged.Ops, ops[i])
				appended = true
			}
		}
		if !appended {
			break
		}
	}
	itr.changeset = merged
}

func (itr *ChangesetIterators) Valid() bool {
	return itr.changeset != nil
}

func (itr *ChangesetIterators) Changeset() *Changeset {
	return itr.changeset
}

// StoreKeys returns the store keys of the merged generators in the order
// they were given.
func (itr *ChangesetIterators) StoreKeys() []string {
	keys := make([]string, len(itr.iterators))
	for i, it := range itr.iterators {
		keys[i] = it.gen.StoreKey
	}
	return keys
}
