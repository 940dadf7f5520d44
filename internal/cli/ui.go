package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/rebarplan/pkg/model"
	"github.com/matzehuels/rebarplan/pkg/orchestrator"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleHeader   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleBest     = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	styleDisabled = lipgloss.NewStyle().Foreground(colorDim)
	styleBar      = lipgloss.NewStyle().Foreground(colorCyan)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconBar     = "●"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(14)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Tables
// =============================================================================

// headerRow is the row index lipgloss tables pass to StyleFunc for headers.
const headerRow = -1

// proposalTable renders ranked proposals, best first.
func proposalTable(sols []*model.Solution) string {
	rows := make([][]string, len(sols))
	for i, s := range sols {
		rows[i] = []string{
			fmt.Sprintf("%d", i+1),
			s.OptionName,
			s.Strategy,
			fmt.Sprintf("%.1f", s.TotalScore),
			fmt.Sprintf("%.1f", s.TotalSteelWeight),
			fmt.Sprintf("%.1f", s.WeightPerMeter),
			fmt.Sprintf("%.0f", s.ConstructabilityScore),
			fmt.Sprintf("%d", s.MaxLayerCount()),
			fmt.Sprintf("Ø%d", s.StirrupDiameter),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Option", "Strategy", "Score", "Steel kg", "kg/m", "Build", "Layers", "Stirrup").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == headerRow:
				return styleHeader
			case row == 0:
				return styleBest
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

// checkRow is one line of the constraints listing.
type checkRow struct {
	tier, name, category, description string
	priority                          int
	enabled                           bool
}

func checkTable(list []checkRow) string {
	rows := make([][]string, len(list))
	for i, c := range list {
		enabled := "yes"
		if !c.enabled {
			enabled = "no"
		}
		rows[i] = []string{c.tier, c.category, fmt.Sprintf("%d", c.priority), c.name, enabled, c.description}
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Tier", "Category", "Prio", "Name", "On", "Description").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == headerRow {
				return styleHeader
			}
			if row >= 0 && row < len(list) && !list[row].enabled {
				return styleDisabled
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

// =============================================================================
// Floor Output
// =============================================================================

// printFloor prints every beam of res in solve order.
func printFloor(w io.Writer, res *orchestrator.FloorResult) {
	for _, name := range res.Order {
		sols := res.Proposals[name]
		if len(sols) == 0 {
			continue
		}
		fmt.Fprintln(w, StyleTitle.Render(name))
		fmt.Fprintln(w, proposalTable(sols))
		fmt.Fprintln(w)
	}
	for _, f := range res.Unsolved {
		printWarning(w, "%s: %s", f.Beam, f.Reason)
	}
}

// renderLayers draws a layer sequence top layer first, one marker per bar.
func renderLayers(counts []int) string {
	var b strings.Builder
	for i := len(counts) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "%s %s %s\n",
			StyleDim.Render(fmt.Sprintf("layer %d", i+1)),
			styleBar.Render(strings.TrimSpace(strings.Repeat(iconBar+" ", counts[i]))),
			StyleNumber.Render(fmt.Sprintf("(%d)", counts[i])))
	}
	return b.String()
}
