package core

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

type TreeContext struct {
	context.Context

	Log          zerolog.Logger
	IndexDir     string
	Generators   []ChangesetGenerator
	VersionLimit int64
	// HashInterval controls how often a version digest is written to
	// HashLog. Zero writes every version.
	HashInterval int64
	// ValidateEach runs Validate on every Validator tree after each version.
	ValidateEach bool

	MetricLeafCount   prometheus.Counter
	MetricTreeSize    prometheus.Gauge
	MetricsTreeHeight prometheus.Gauge
	HashLog           io.Writer
}

// RegisterMetrics creates the context's counters and gauges on reg.
func (c *TreeContext) RegisterMetrics(reg prometheus.Registerer, labels map[string]string) {
	factory := promauto.With(reg)
	c.MetricLeafCount = factory.NewCounter(prometheus.CounterOpts{
		Name:        "bst_bench_leaf_count",
		Help:        "number of changeset ops applied to the trees",
		ConstLabels: labels,
	})
	c.MetricTreeSize = factory.NewGauge(prometheus.GaugeOpts{
		Name:        "bst_bench_tree_size",
		Help:        "number of keys held across all stores",
		ConstLabels: labels,
	})
	c.MetricsTreeHeight = factory.NewGauge(prometheus.GaugeOpts{
		Name:        "bst_bench_tree_height",
		Help:        "height of the tallest store tree",
		ConstLabels: labels,
	})
}

// ApplyOp applies a single op and checks that the tree agrees with the
// generator about whether the key was present.
func ApplyOp(tree Tree, op Op) error {
	switch op.Kind {
	case OpCreate:
		if !tree.Insert(op.Key) {
			return fmt.Errorf("create of key %d found it already present", op.Key)
		}
	case OpUpdate:
		if tree.Insert(op.Key) {
			return fmt.Errorf("update of key %d found it missing", op.Key)
		}
	case OpDelete:
		if !tree.Delete(op.Key) {
			return fmt.Errorf("failed to remove key %d", op.Key)
		}
	default:
		return fmt.Errorf("unknown op kind %d", op.Kind)
	}
	return nil
}

// BuildTrees drives every generated changeset into multiTree and returns
// the digest of the last applied version.
func (c *TreeContext) BuildTrees(multiTree MultiTree) ([]byte, error) {
	itr, err := NewChangesetIterators(c.Generators)
	if err != nil {
		return nil, err
	}

	var (
		cnt   int64
		since = time.Now()
		hash  []byte
	)
	for ; itr.Valid(); err = itr.Next() {
		if err != nil {
			return nil, err
		}
		if c.Context != nil {
			if err := c.Err(); err != nil {
				return nil, err
			}
		}
		changeset := itr.Changeset()
		version := changeset.Version
		if c.VersionLimit > 0 && version > c.VersionLimit {
			break
		}

		for _, op := range changeset.Ops {
			cnt++
			if cnt%100_000 == 0 {
				c.Log.Info().Msgf("processed %s leaves in %s; %s leaves/s; version=%d",
					humanize.Comma(cnt),
					time.Since(since),
					humanize.Comma(int64(100_000/time.Since(since).Seconds())),
					version)
				since = time.Now()
			}
			if c.MetricLeafCount != nil {
				c.MetricLeafCount.Inc()
			}

			tree, err := multiTree.GetTree(op.StoreKey)
			if err != nil {
				return nil, err
			}
			if err := ApplyOp(tree, op); err != nil {
				return nil, fmt.Errorf("store %s version %d: %w", op.StoreKey, version, err)
			}
		}

		hash, err = c.SaveVersion(multiTree, version)
		if err != nil {
			return nil, err
		}
	}

	return hash, nil
}

// SaveVersion publishes size and height metrics, optionally validates every
// store and records the version digest in HashLog.
func (c *TreeContext) SaveVersion(multiTree MultiTree, version int64) ([]byte, error) {
	var (
		size   int
		height int
	)
	for _, storeKey := range multiTree.StoreKeys() {
		tree, err := multiTree.GetTree(storeKey)
		if err != nil {
			return nil, err
		}
		size += tree.Len()
		if h, ok := tree.(Heighter); ok {
			height = max(height, h.Height())
		}
		if v, ok := tree.(Validator); ok && c.ValidateEach {
			if err := v.Validate(); err != nil {
				return nil, fmt.Errorf("store %s invalid at version %d: %w", storeKey, version, err)
			}
		}
	}
	if c.MetricTreeSize != nil {
		c.MetricTreeSize.Set(float64(size))
	}
	if c.MetricsTreeHeight != nil {
		c.MetricsTreeHeight.Set(float64(height))
	}

	hash, err := multiTree.SaveVersions()
	if err != nil {
		return nil, err
	}
	if c.HashLog != nil && (c.HashInterval <= 0 || version%c.HashInterval == 0) {
		if _, err := fmt.Fprintf(c.HashLog, "%d|%x\n", version, hash); err != nil {
			return nil, err
		}
	}
	c.Log.Debug().
		Int64("version", version).
		Str("size", humanize.Comma(int64(size))).
		Int("height", height).
		Hex("hash", hash).
		Msg("saved version")
	return hash, nil
}
