package bench

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/cosmos/bst-bench/core"
)

// Plan describes a batch of runs over changeset directories. Runs inherit
// ChangesetDir and Versions from the plan when they leave them unset.
type Plan struct {
	ChangesetDir string    `json:"changeset_dir"`
	Versions     int64     `json:"versions"`
	Runs         []RunPlan `json:"runs"`
}

type RunPlan struct {
	RunName      string `json:"name"`
	Backend      string `json:"backend"`
	ChangesetDir string `json:"changeset_dir"`
	Versions     int64  `json:"versions"`
	Validate     bool   `json:"validate"`
}

type RunResult struct {
	RunName string `json:"name"`
	Backend string `json:"backend"`
	Hash    string `json:"hash,omitempty"`
	Error   string `json:"error,omitempty"`
}

func ReadPlan(planFile string) (Plan, error) {
	bz, err := os.ReadFile(planFile)
	if err != nil {
		return Plan{}, fmt.Errorf("error reading plan file: %w", err)
	}
	var plan Plan
	if err := json.Unmarshal(bz, &plan); err != nil {
		return Plan{}, fmt.Errorf("error unmarshaling plan file: %w", err)
	}
	names := map[string]bool{}
	for i := range plan.Runs {
		run := &plan.Runs[i]
		if run.ChangesetDir == "" {
			run.ChangesetDir = plan.ChangesetDir
		}
		if run.Versions == 0 {
			run.Versions = plan.Versions
		}
		if run.RunName == "" {
			run.RunName = run.Backend
		}
		if names[run.RunName] {
			return Plan{}, fmt.Errorf("duplicate run name %s", run.RunName)
		}
		names[run.RunName] = true
	}
	return plan, nil
}

// RunAll executes every run in the plan, logging each to its own JSON file
// in resultDir. A failed run is recorded in its result and does not stop
// the remaining runs.
func RunAll(ctx context.Context, log zerolog.Logger, plan Plan, resultDir string, reg prometheus.Registerer) ([]RunResult, error) {
	if err := os.MkdirAll(resultDir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating result dir: %w", err)
	}
	results := make([]RunResult, 0, len(plan.Runs))
	for _, run := range plan.Runs {
		bz, err := json.Marshal(run)
		if err != nil {
			return nil, err
		}
		log.Info().RawJSON("run_plan", bz).Msg("starting run")

		result := RunResult{RunName: run.RunName, Backend: run.Backend}
		hash, err := runOne(ctx, run, resultDir, reg)
		if err != nil {
			log.Error().Err(err).Str("name", run.RunName).Msg("error running benchmark")
			result.Error = err.Error()
		} else {
			result.Hash = hex.EncodeToString(hash)
			log.Info().Str("name", run.RunName).Str("hash", result.Hash).Msg("done")
		}
		results = append(results, result)
	}

	bz, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return nil, err
	}
	return results, os.WriteFile(filepath.Join(resultDir, "results.json"), bz, 0o644)
}

func runOne(ctx context.Context, run RunPlan, resultDir string, reg prometheus.Registerer) ([]byte, error) {
	info, err := changesetDir(run.ChangesetDir).loadInfo()
	if err != nil {
		return nil, err
	}
	multiTree, err := core.NewMultiTreeWithBackend(run.Backend, info.StoreNames...)
	if err != nil {
		return nil, err
	}

	logFile, err := os.Create(filepath.Join(resultDir, fmt.Sprintf("%s.jsonl", run.RunName)))
	if err != nil {
		return nil, err
	}
	defer logFile.Close()
	hashLog, err := os.Create(filepath.Join(resultDir, fmt.Sprintf("%s.hashlog", run.RunName)))
	if err != nil {
		return nil, err
	}
	defer hashLog.Close()

	treeCtx := &core.TreeContext{
		Context:      ctx,
		Log:          zerolog.New(logFile).With().Timestamp().Str("run", run.RunName).Logger(),
		ValidateEach: run.Validate,
		HashLog:      hashLog,
	}
	if reg != nil {
		treeCtx.RegisterMetrics(reg, prometheus.Labels{"backend": run.Backend, "bench": run.RunName})
	}
	return Run(treeCtx, multiTree, run.ChangesetDir, run.Versions)
}

// DigestsAgree reports whether every run succeeded with the same final
// digest. Plans that mix changeset directories or versions will disagree.
func DigestsAgree(results []RunResult) bool {
	var first string
	for _, r := range results {
		if r.Error != "" {
			return false
		}
		if first == "" {
			first = r.Hash
			continue
		}
		if r.Hash != first {
			return false
		}
	}
	return true
}
