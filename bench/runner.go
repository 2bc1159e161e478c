package bench

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/cosmos/bst-bench/core"
)

// Run replays the changeset files in dir into multiTree up to
// targetVersion and returns the digest of the last version applied. A
// targetVersion of zero replays every version in the directory.
func Run(ctx *core.TreeContext, multiTree core.MultiTree, dir string, targetVersion int64) ([]byte, error) {
	changesets := changesetDir(dir)
	info, err := changesets.loadInfo()
	if err != nil {
		return nil, fmt.Errorf("error reading changeset info file: %w", err)
	}
	if targetVersion <= 0 || targetVersion > info.Versions {
		targetVersion = info.Versions
	}

	ctx.Log.Info().
		Int64("target_version", targetVersion).
		Strs("stores", info.StoreNames).
		Msg("starting run")

	var hash []byte
	for version := int64(1); version <= targetVersion; version++ {
		if ctx.Context != nil {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		hash, err = applyVersion(ctx, multiTree, changesets, version)
		if err != nil {
			return nil, fmt.Errorf("error applying version %d: %w", version, err)
		}
	}
	return hash, nil
}

func applyVersion(ctx *core.TreeContext, multiTree core.MultiTree, changesets changesetDir, version int64) ([]byte, error) {
	dataFilename := changesets.versionPath(version)
	dataFile, err := os.Open(dataFilename)
	if err != nil {
		return nil, fmt.Errorf("error opening changeset file for version %d: %w", version, err)
	}
	defer dataFile.Close()

	ctx.Log.Debug().Int64("version", version).Str("file", dataFilename).Msg("applying changeset")
	var (
		i         int
		startTime = time.Now()
		scanner   = bufio.NewScanner(dataFile)
	)
	for scanner.Scan() {
		var op core.Op
		if err := json.Unmarshal(scanner.Bytes(), &op); err != nil {
			return nil, fmt.Errorf("error at entry %d reading changeset: %w", i, err)
		}
		tree, err := multiTree.GetTree(op.StoreKey)
		if err != nil {
			return nil, fmt.Errorf("error at entry %d: %w", i, err)
		}
		if err := core.ApplyOp(tree, op); err != nil {
			return nil, fmt.Errorf("error at entry %d applying update: %w", i, err)
		}
		if ctx.MetricLeafCount != nil {
			ctx.MetricLeafCount.Inc()
		}
		i++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error at entry %d reading changeset: %w", i, err)
	}

	hash, err := ctx.SaveVersion(multiTree, version)
	if err != nil {
		return nil, err
	}

	duration := time.Since(startTime)
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	ctx.Log.Info().
		Int64("version", version).
		Dur("duration", duration).
		Str("ops_per_sec", humanize.Comma(int64(float64(i)/duration.Seconds()))).
		Str("mem_allocs", humanize.Bytes(memStats.Alloc)).
		Str("mem_sys", humanize.Bytes(memStats.Sys)).
		Str("mem_num_gc", humanize.Comma(int64(memStats.NumGC))).
		Msg("committed version")
	return hash, nil
}
