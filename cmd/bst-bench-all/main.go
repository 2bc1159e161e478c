package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cosmos/bst-bench/bench"
	"github.com/cosmos/bst-bench/core"
)

func rootCommand() (*cobra.Command, *core.Root) {
	var (
		dryRun    bool
		resultDir string
	)
	cmd, root := core.RootCommand("bst-bench-all [plan-file]", "Run every backend in a plan and compare their digests")
	cmd.Args = cobra.ExactArgs(1)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the plan without executing it")
	cmd.Flags().StringVar(&resultDir, "result-dir", "", "directory for run logs; defaults to a timestamped directory next to the plan")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		planFile := args[0]
		plan, err := bench.ReadPlan(planFile)
		if err != nil {
			return err
		}
		if resultDir == "" {
			resultDir = filepath.Join(filepath.Dir(planFile), time.Now().Format("20060102_150405"))
		}
		resultDir, err = filepath.Abs(resultDir)
		if err != nil {
			return fmt.Errorf("error getting absolute path of result dir: %w", err)
		}

		logger := core.Logger
		if dryRun {
			for _, run := range plan.Runs {
				logger.Info().
					Str("name", run.RunName).
					Str("backend", run.Backend).
					Str("changeset_dir", run.ChangesetDir).
					Int64("versions", run.Versions).
					Msg("dry run, not executing")
			}
			return nil
		}
		logger.Info().Msgf("writing results to %s", resultDir)

		results, err := bench.RunAll(cmd.Context(), logger, plan, resultDir, root.Registry)
		if err != nil {
			return err
		}
		for _, r := range results {
			fmt.Fprintf(cmd.OutOrStdout(), "%-16s %-8s %s%s\n", r.RunName, r.Backend, r.Hash, r.Error)
		}
		if !bench.DigestsAgree(results) {
			return fmt.Errorf("runs did not reach the same final digest")
		}
		return nil
	}
	return cmd, root
}

func main() {
	cmd, root := rootCommand()
	if err := core.Execute(cmd, root); err != nil {
		os.Exit(1)
	}
}
