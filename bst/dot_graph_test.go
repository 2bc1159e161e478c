package bst

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderDotGraph(t *testing.T) {
	graph := RenderDotGraph(newTree(50, 30, 70, 20))
	t.Logf("tree:\n%s", graph)
	require.True(t, strings.HasPrefix(graph, "digraph"))
	for _, v := range []string{"50", "30", "70", "20"} {
		require.Contains(t, graph, v)
	}
	require.Equal(t, 3, strings.Count(graph, "->"))
	require.Contains(t, graph, `label="l"`)
	require.Contains(t, graph, `label="r"`)

	empty := RenderDotGraph(New[int]())
	require.NotContains(t, empty, "->")
}

func TestRenderTree(t *testing.T) {
	out := RenderTree(newTree(50, 30, 70, 20, 80, 75))
	t.Logf("tree:\n%s", out)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	require.Equal(t, "50", lines[0])
	requireBranch(t, lines, "L", "30")
	requireBranch(t, lines, "R", "70")
	requireBranch(t, lines, "L", "75")
	requireBranch(t, lines, "R", "80")

	require.Contains(t, RenderTree(New[int]()), "(empty)")
}

func requireBranch(t *testing.T, lines []string, meta, value string) {
	t.Helper()
	for _, line := range lines {
		if strings.Contains(line, "["+meta+"]") && strings.HasSuffix(line, value) {
			return
		}
	}
	require.Failf(t, "branch not rendered", "no [%s] line for %s", meta, value)
}
