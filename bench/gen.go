package bench

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/cosmos/bst-bench/core"
)

type TreeParams struct {
	Generators []core.ChangesetGenerator
	Logger     zerolog.Logger
}

// GenerateChangesets writes one changeset file per version to outDir along
// with an info file describing the stores, so that runs can replay the same
// workload against different backends.
func GenerateChangesets(params TreeParams, outDir string) error {
	err := os.MkdirAll(outDir, 0o755)
	if err != nil {
		return err
	}

	itr, err := core.NewChangesetIterators(params.Generators)
	if err != nil {
		return err
	}
	storeNames := itr.StoreKeys()
	sort.Strings(storeNames)

	var versions int64
	for ; itr.Valid(); err = itr.Next() {
		if err != nil {
			return err
		}
		changeset := itr.Changeset()
		if err := writeChangeset(outDir, changeset); err != nil {
			return fmt.Errorf("error generating changeset for version %d: %w", changeset.Version, err)
		}
		versions = changeset.Version
		params.Logger.Debug().
			Int64("version", changeset.Version).
			Str("ops", humanize.Comma(int64(len(changeset.Ops)))).
			Msg("wrote changeset")
	}

	err = changesetDir(outDir).saveInfo(changesetInfo{
		Versions:   versions,
		StoreNames: storeNames,
		Generators: params.Generators,
	})
	if err != nil {
		return err
	}
	params.Logger.Info().Msgf("wrote %d versions to %s", versions, outDir)
	return nil
}

func writeChangeset(outDir string, changeset *core.Changeset) error {
	filename := changesetDir(outDir).versionPath(changeset.Version)
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("error creating changeset file: %w", err)
	}
	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, op := range changeset.Ops {
		if err := enc.Encode(op); err != nil {
			_ = f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
