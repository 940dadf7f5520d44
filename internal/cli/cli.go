package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rebarplan/pkg/buildinfo"
	"github.com/matzehuels/rebarplan/pkg/config"
	"github.com/matzehuels/rebarplan/pkg/model"
	"github.com/matzehuels/rebarplan/pkg/orchestrator"
	"github.com/matzehuels/rebarplan/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "rebarplan"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// settingsPath is bound to the persistent --settings flag.
	settingsPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Rebarplan designs reinforcement for concrete beams",
		Long: `Rebarplan searches bar diameters, counts, layers and stirrups for the beams of a floor,
rejects infeasible arrangements, scores the rest and proposes a ranked shortlist per beam.
Beams are designed in order so that earlier choices guide later ones.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.settingsPath, "settings", "", "settings file (.toml, .yaml or .json)")

	root.AddCommand(c.designCommand())
	root.AddCommand(c.recalcCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.fillCommand())
	root.AddCommand(c.constraintsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Factories
// =============================================================================

// loadSettings reads the --settings file on top of the defaults.
func (c *CLI) loadSettings() (config.Settings, error) {
	s, err := config.Load(c.settingsPath)
	if err != nil {
		return config.Settings{}, err
	}
	c.Logger.Debug("settings", "source", c.settingsPath, "values", s.String())
	return s, nil
}

// newOrchestrator builds the default pipeline and an orchestrator over it.
func (c *CLI) newOrchestrator() (*orchestrator.Orchestrator, error) {
	p, err := pipeline.New(pipeline.Options{Logger: c.Logger})
	if err != nil {
		return nil, err
	}
	return orchestrator.New(p, c.Logger), nil
}

// floorInput is a floor file converted for the orchestrator.
type floorInput struct {
	floor       config.Floor
	beams       []orchestrator.Beam
	constraints model.ProjectConstraints
}

// loadFloor reads a floor file and converts it for the orchestrator.
func loadFloor(path string, s config.Settings) (*floorInput, error) {
	f, err := config.LoadFloor(path)
	if err != nil {
		return nil, err
	}
	beams, pc, err := orchestrator.FromFloor(f, s)
	if err != nil {
		return nil, err
	}
	return &floorInput{floor: f, beams: beams, constraints: pc}, nil
}
