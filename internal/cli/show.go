package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	resultio "github.com/matzehuels/rebarplan/pkg/io"
)

// showCommand prints a floor result saved with design --out.
func (c *CLI) showCommand() *cobra.Command {
	var beam string

	cmd := &cobra.Command{
		Use:   "show <result-file>",
		Short: "Print a saved floor result",
		Example: `  rebarplan show level2-result.yaml
  rebarplan show level2-result.json --beam B3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := resultio.Import(args[0])
			if err != nil {
				return err
			}
			c.Logger.Debug("loaded result", "run", res.RunID, "beams", len(res.Order))

			w := cmd.OutOrStdout()
			if beam == "" {
				printKeyValue(w, "Run", res.RunID)
				printKeyValue(w, "Solved", fmt.Sprintf("%d of %d beams", len(res.Solutions), len(res.Order)))
				fmt.Fprintln(w)
				printFloor(w, res)
				return nil
			}
			sols, ok := res.Proposals[beam]
			if !ok {
				printWarning(w, "%s: no proposals in %s", beam, args[0])
				return nil
			}
			fmt.Fprintln(w, StyleTitle.Render(beam))
			fmt.Fprintln(w, proposalTable(sols))
			return nil
		},
	}

	cmd.Flags().StringVarP(&beam, "beam", "b", "", "only show this beam")

	return cmd
}
