package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd, root := rootCommand()
	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	require.Subset(t, names, []string{"tree", "gen-changesets", "run", "inspect"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"inspect", "2", "1", "3", "--format", "tree", "--log-level", "error"})
	require.NoError(t, cmd.Execute())
	require.NoError(t, root.Close())
	require.Contains(t, out.String(), "[L]")
	require.Contains(t, out.String(), "[R]")
}
