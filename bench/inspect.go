package bench

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cosmos/bst-bench/bst"
)

// InspectCommand inserts the given values into a fresh tree, removes any
// --delete values and prints the result.
func InspectCommand() *cobra.Command {
	var (
		deletes []int64
		order   string
		format  string
	)
	cmd := &cobra.Command{
		Use:   "inspect [values...]",
		Short: "Show the shape of a tree built from the given values",
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := bst.ParseOrder(order)
			if err != nil {
				return err
			}
			tree := bst.New[int64]()
			for _, arg := range args {
				v, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid value %q: %w", arg, err)
				}
				tree.Insert(v)
			}
			for _, v := range deletes {
				tree.Delete(v)
			}
			if err := tree.Validate(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "text":
				values := tree.Traverse(o)
				strs := make([]string, len(values))
				for i, v := range values {
					strs[i] = strconv.FormatInt(v, 10)
				}
				_, err = fmt.Fprintf(out, "%s: [%s]\nsize=%d height=%d\n",
					o, strings.Join(strs, " "), tree.Len(), tree.Height())
			case "tree":
				_, err = fmt.Fprint(out, bst.RenderTree(tree))
			case "dot":
				_, err = fmt.Fprintln(out, bst.RenderDotGraph(tree))
			default:
				return fmt.Errorf("unknown format %q", format)
			}
			return err
		},
	}
	cmd.Flags().Int64SliceVar(&deletes, "delete", nil, "values to delete after inserting")
	cmd.Flags().StringVar(&order, "order", bst.InOrder.String(), "traversal order for text output (inorder|preorder|postorder)")
	cmd.Flags().StringVar(&format, "format", "text", "output format (text|tree|dot)")
	return cmd
}
