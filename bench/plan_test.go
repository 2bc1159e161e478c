package bench

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func writePlan(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestReadPlan(t *testing.T) {
	plan, err := ReadPlan(writePlan(t, `{
		"changeset_dir": "/data/small",
		"versions": 10,
		"runs": [
			{"backend": "bst"},
			{"name": "gbtree-5", "backend": "gbtree", "versions": 5, "changeset_dir": "/data/other"}
		]
	}`))
	require.NoError(t, err)
	require.Equal(t, []RunPlan{
		{RunName: "bst", Backend: "bst", ChangesetDir: "/data/small", Versions: 10},
		{RunName: "gbtree-5", Backend: "gbtree", ChangesetDir: "/data/other", Versions: 5},
	}, plan.Runs)

	_, err = ReadPlan(writePlan(t, `{"runs": [{"backend": "bst"}, {"backend": "bst"}]}`))
	require.ErrorContains(t, err, "duplicate run name")
	_, err = ReadPlan(writePlan(t, `{`))
	require.ErrorContains(t, err, "error unmarshaling plan file")
	_, err = ReadPlan(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorContains(t, err, "error reading plan file")
}

func TestRunAll(t *testing.T) {
	dir := generate(t)
	plan := Plan{
		ChangesetDir: dir,
		Runs: []RunPlan{
			{RunName: "bst", Backend: "bst", ChangesetDir: dir, Validate: true},
			{RunName: "gbtree", Backend: "gbtree", ChangesetDir: dir},
			{RunName: "tbtree", Backend: "tbtree", ChangesetDir: dir},
		},
	}
	resultDir := filepath.Join(t.TempDir(), "results")
	results, err := RunAll(context.Background(), zerolog.Nop(), plan, resultDir, prometheus.NewRegistry())
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.True(t, DigestsAgree(results))
	require.NotEmpty(t, results[0].Hash)

	require.FileExists(t, filepath.Join(resultDir, "results.json"))
	log, err := os.ReadFile(filepath.Join(resultDir, "bst.jsonl"))
	require.NoError(t, err)
	require.Contains(t, string(log), `"message":"committed version"`)
	hashLog, err := os.ReadFile(filepath.Join(resultDir, "bst.hashlog"))
	require.NoError(t, err)
	require.Contains(t, string(hashLog), "5|"+results[0].Hash)
}

func TestRunAll_FailedRun(t *testing.T) {
	dir := generate(t)
	plan := Plan{Runs: []RunPlan{
		{RunName: "bst", Backend: "bst", ChangesetDir: dir},
		{RunName: "avl", Backend: "avl", ChangesetDir: dir},
	}}
	results, err := RunAll(context.Background(), zerolog.Nop(), plan, t.TempDir(), nil)
	require.NoError(t, err)
	require.Empty(t, results[0].Error)
	require.Contains(t, results[1].Error, "unknown backend")
	require.False(t, DigestsAgree(results))
}

func TestDigestsAgree(t *testing.T) {
	require.True(t, DigestsAgree(nil))
	require.True(t, DigestsAgree([]RunResult{{Hash: "ab"}, {Hash: "ab"}}))
	require.False(t, DigestsAgree([]RunResult{{Hash: "ab"}, {Hash: "cd"}}))
}
