package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cosmos/bst-bench/bench"
	"github.com/cosmos/bst-bench/core"
)

func rootCommand() (*cobra.Command, *core.Root) {
	cmd, root := core.RootCommand("bst-bench", "Benchmark and inspect an unbalanced binary search tree")
	cmd.AddCommand(
		bench.TreeCommand(root),
		bench.GenCommand(),
		bench.RunCommand(root),
		bench.InspectCommand(),
	)
	return cmd, root
}

func main() {
	cmd, root := rootCommand()
	if err := core.Execute(cmd, root); err != nil {
		os.Exit(1)
	}
}
