package bench

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cosmos/bst-bench/core"
)

// changesetDir is a directory of generated changesets: an info file
// describing the stores plus one JSON-lines file of ops per version.
type changesetDir string

type changesetInfo struct {
	Versions   int64                     `json:"versions"`
	StoreNames []string                  `json:"store_names"`
	Generators []core.ChangesetGenerator `json:"generators"`
}

func (d changesetDir) versionPath(version int64) string {
	return filepath.Join(string(d), fmt.Sprintf("%09d.jsonl", version))
}

func (d changesetDir) infoPath() string {
	return filepath.Join(string(d), "changeset_info.json")
}

func (d changesetDir) saveInfo(info changesetInfo) error {
	bz, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling info file: %w", err)
	}
	return os.WriteFile(d.infoPath(), bz, 0o644)
}

// loadInfo rejects info files that describe no work, so callers can size
// trees from StoreNames without further checks.
func (d changesetDir) loadInfo() (changesetInfo, error) {
	var info changesetInfo
	bz, err := os.ReadFile(d.infoPath())
	if err != nil {
		return info, fmt.Errorf("error reading info file: %w", err)
	}
	if err := json.Unmarshal(bz, &info); err != nil {
		return info, fmt.Errorf("error unmarshaling info file: %w", err)
	}
	if info.Versions < 1 || len(info.StoreNames) == 0 {
		return info, fmt.Errorf("info file %s describes no versions or stores", d.infoPath())
	}
	return info, nil
}
