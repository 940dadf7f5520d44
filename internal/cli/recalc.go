package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// recalcCommand creates the recalc command for re-solving one beam.
func (c *CLI) recalcCommand() *cobra.Command {
	var floorPath, beam string

	cmd := &cobra.Command{
		Use:   "recalc",
		Short: "Re-solve one beam of a floor",
		Long: `Recalc solves the beams before the named one to rebuild the project state,
then designs the named beam again without accepting its result.`,
		Example: `  rebarplan recalc --floor level2.toml --beam B3`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runRecalc(cmd.Context(), cmd.OutOrStdout(), floorPath, beam)
		},
	}

	cmd.Flags().StringVarP(&floorPath, "floor", "f", "", "floor file (.toml, .yaml or .json)")
	cmd.Flags().StringVarP(&beam, "beam", "b", "", "name of the beam to re-solve")
	_ = cmd.MarkFlagRequired("floor")
	_ = cmd.MarkFlagRequired("beam")

	return cmd
}

func (c *CLI) runRecalc(ctx context.Context, w io.Writer, floorPath, beam string) error {
	s, err := c.loadSettings()
	if err != nil {
		return err
	}
	in, err := loadFloor(floorPath, s)
	if err != nil {
		return err
	}
	orch, err := c.newOrchestrator()
	if err != nil {
		return err
	}

	prog := newProgress(loggerFromContext(ctx))
	sols, err := orch.Recalculate(ctx, in.beams, beam, s, &in.constraints)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Recalculated %s", beam))

	if len(sols) == 0 {
		printWarning(w, "%s: no feasible proposal", beam)
		return nil
	}
	fmt.Fprintln(w, StyleTitle.Render(beam))
	fmt.Fprintln(w, proposalTable(sols))
	return nil
}
