package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/cosmos/bst-bench/bench"
	"github.com/cosmos/bst-bench/core"
)

func TestBenchAll(t *testing.T) {
	changesetDir := filepath.Join(t.TempDir(), "changesets")
	err := bench.GenerateChangesets(bench.TreeParams{
		Generators: core.DegenerateGenerators(3, 3),
		Logger:     zerolog.Nop(),
	}, changesetDir)
	require.NoError(t, err)

	planFile := filepath.Join(t.TempDir(), "plan.json")
	plan := fmt.Sprintf(`{"changeset_dir": %q, "runs": [{"backend": "bst"}, {"backend": "gbtree"}]}`, changesetDir)
	require.NoError(t, os.WriteFile(planFile, []byte(plan), 0o644))

	resultDir := t.TempDir()
	cmd, root := rootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{planFile, "--result-dir", resultDir, "--log-level", "error"})
	require.NoError(t, cmd.Execute())
	require.NoError(t, root.Close())
	require.Contains(t, out.String(), "bst")
	require.Contains(t, out.String(), "gbtree")
	require.FileExists(t, filepath.Join(resultDir, "results.json"))
}

func TestBenchAllFailureLogged(t *testing.T) {
	saved := core.Logger
	t.Cleanup(func() { core.Logger = saved })

	logFile := filepath.Join(t.TempDir(), "bench-all.log")
	cmd, root := rootCommand()
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "missing.json"), "--log-type", "json", "--log-file", logFile})
	require.ErrorContains(t, core.Execute(cmd, root), "error reading plan file")

	bz, err := os.ReadFile(logFile)
	require.NoError(t, err)
	require.Contains(t, string(bz), "error reading plan file")
}
