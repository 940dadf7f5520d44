package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rebarplan/pkg/config"
	"github.com/matzehuels/rebarplan/pkg/errors"
	"github.com/matzehuels/rebarplan/pkg/filling"
)

// fillOutput is one strategy's result as written by --json.
type fillOutput struct {
	Strategy string         `json:"strategy"`
	Result   filling.Result `json:"result"`
	Total    int            `json:"total"`
}

// fillCommand creates the fill command for running filling strategies by hand.
func (c *CLI) fillCommand() *cobra.Command {
	var (
		strategy string
		asJSON   bool
		fc       = filling.Context{
			BackboneCount:   config.DefaultMinBackboneCount,
			LegCount:        2,
			MaxLayers:       config.DefaultMaxLayers,
			MinBarsPerLayer: config.DefaultMinBarsPerLayer,
		}
	)

	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Distribute bars over layers for one section",
		Long: `Fill runs the filling strategies on a single section face and shows the layers
they produce. Without --strategy every built-in strategy is run.`,
		Example: `  rebarplan fill --area 12.5 --diameter 20 --capacity 4
  rebarplan fill --area 30 --diameter 25 --backbone 3 --capacity 5 --strategy balanced --symmetric`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			strategies := filling.All
			if strategy != "" {
				s, err := filling.Lookup(strategy)
				if err != nil {
					return err
				}
				strategies = []filling.Strategy{s}
			}
			if err := errors.ValidateDiameter(fc.BackboneDiameter); err != nil {
				return err
			}
			if fc.BarDiameter != 0 {
				if err := errors.ValidateDiameter(fc.BarDiameter); err != nil {
					return err
				}
			}
			if err := errors.ValidateNonNegative("area", fc.RequiredArea); err != nil {
				return err
			}
			return runFill(cmd.OutOrStdout(), fc, strategies, asJSON)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&strategy, "strategy", "s", "", "filling strategy (greedy, balanced)")
	f.Float64VarP(&fc.RequiredArea, "area", "a", 0, "required steel area (cm²)")
	f.IntVarP(&fc.BackboneDiameter, "diameter", "d", 20, "backbone bar diameter (mm)")
	f.IntVar(&fc.BarDiameter, "bar-diameter", 0, "add-on bar diameter (mm), defaults to the backbone diameter")
	f.IntVar(&fc.BackboneCount, "backbone", fc.BackboneCount, "continuous bars in the first layer")
	f.IntVarP(&fc.Capacity, "capacity", "c", 4, "bars that fit in one layer")
	f.IntVar(&fc.LegCount, "legs", fc.LegCount, "stirrup legs")
	f.IntVar(&fc.MaxLayers, "max-layers", fc.MaxLayers, "maximum number of layers")
	f.IntVar(&fc.MinBarsPerLayer, "min-bars", fc.MinBarsPerLayer, "minimum bars in any layer above the first")
	f.BoolVar(&fc.PreferSymmetric, "symmetric", false, "prefer even bar counts per layer")
	f.BoolVar(&asJSON, "json", false, "write results as JSON")

	return cmd
}

func runFill(w io.Writer, fc filling.Context, strategies []filling.Strategy, asJSON bool) error {
	out := make([]fillOutput, len(strategies))
	for i, s := range strategies {
		r := s.Calculate(fc)
		out[i] = fillOutput{Strategy: s.Name(), Result: r, Total: r.Total()}
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	printKeyValue(w, "Required", fmt.Sprintf("%.2f cm²", fc.RequiredArea))
	printKeyValue(w, "Bars needed", fmt.Sprintf("%d × Ø%d", fc.TotalNeeded(), fc.AddOnDiameter()))
	fmt.Fprintln(w)
	for _, o := range out {
		fmt.Fprintln(w, StyleTitle.Render(o.Strategy))
		if !o.Result.Valid {
			printWarning(w, "%s", o.Result.Reason)
			fmt.Fprintln(w)
			continue
		}
		fmt.Fprint(w, renderLayers(o.Result.LayerCounts))
		if o.Result.WasteBars > 0 {
			printDetail(w, "%d bars beyond the minimum", o.Result.WasteBars)
		}
		fmt.Fprintln(w)
	}
	return nil
}
