package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rebarplan/pkg/pipeline"
)

// constraintsCommand lists the checks the default pipeline runs.
func (c *CLI) constraintsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "constraints",
		Aliases: []string{"checks"},
		Short:   "List the registered rules and constraints",
		Long: `Constraints prints the checks of the default pipeline: the design rules run on
every surviving candidate, then the constraints grouped by the stage they run in.
Within a tier, lower priorities run first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := pipeline.New(pipeline.Options{Logger: c.Logger})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), checkTable(checkRows(p.Options())))
			return nil
		},
	}
}

// checkRows lists the rules of opts, then its constraints.
func checkRows(opts pipeline.Options) []checkRow {
	var rows []checkRow
	for _, r := range opts.Rules.Rules() {
		rows = append(rows, checkRow{tier: "rule", name: r.Name, priority: r.Priority, enabled: true})
	}
	for _, k := range opts.Constraints.List() {
		rows = append(rows, checkRow{
			tier:        "constraint",
			name:        k.Name,
			category:    k.Category.String(),
			description: k.Description,
			priority:    k.Priority,
			enabled:     !k.Disabled,
		})
	}
	return rows
}
