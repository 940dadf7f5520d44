package cli

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	resultio "github.com/matzehuels/rebarplan/pkg/io"
	"github.com/matzehuels/rebarplan/pkg/observability"
)

// designCommand creates the design command for solving a whole floor.
func (c *CLI) designCommand() *cobra.Command {
	var (
		floorPath string
		outPath   string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "design",
		Short: "Design every beam of a floor",
		Long: `Design solves the beams of a floor file in the order they appear.

Each accepted design seeds the next beam's preferences: a neighbor's main bar
diameter and top count are favored, and locked beams keep their selected design.
Beams without a feasible proposal are reported and do not change the state.`,
		Example: `  rebarplan design --floor level2.toml
  rebarplan design -f level2.yaml --json > level2.json
  rebarplan design -f level2.toml --out level2-result.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runDesign(cmd.Context(), cmd.OutOrStdout(), floorPath, outPath, asJSON)
		},
	}

	cmd.Flags().StringVarP(&floorPath, "floor", "f", "", "floor file (.toml, .yaml or .json)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "also save the floor result (.json, .yaml or .yml)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "write the floor result as JSON")
	_ = cmd.MarkFlagRequired("floor")

	return cmd
}

func (c *CLI) runDesign(ctx context.Context, w io.Writer, floorPath, outPath string, asJSON bool) error {
	logger := loggerFromContext(ctx)

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

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Designing %s (%d beams)...", floorName(in), len(in.beams)))
	observability.SetPipelineHooks(&beamProgress{spinner: spinner, total: len(in.beams)})
	defer observability.Reset()
	spinner.Start()

	res, err := orch.SolveFloor(ctx, in.beams, s, &in.constraints)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Designed %d of %d beams", len(res.Solutions), len(in.beams)))

	if outPath != "" {
		if err := resultio.Export(res, outPath); err != nil {
			return err
		}
		logger.Info("Saved result", "path", outPath, "run", res.RunID)
	}

	if asJSON {
		return resultio.WriteJSON(res, w)
	}
	printFloor(w, res)
	return nil
}

func floorName(in *floorInput) string {
	if in.floor.Name != "" {
		return in.floor.Name
	}
	return "floor"
}

// beamProgress moves the spinner along as beams finish.
type beamProgress struct {
	observability.NoopPipelineHooks
	spinner *Spinner
	total   int
	solved  atomic.Int32
}

func (p *beamProgress) OnBeamSolved(_ context.Context, beam string, proposals int, _ time.Duration) {
	n := p.solved.Add(1)
	p.spinner.Update(fmt.Sprintf("[%d/%d] %s: %d proposals", n, p.total, beam, proposals))
}
