package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rebarplan/pkg/buildinfo"
)

// SetVersion overrides the build information shown by --version. Empty
// values keep what the linker set.
func SetVersion(v, c, d string) {
	if v != "" {
		buildinfo.Version = v
	}
	if c != "" {
		buildinfo.Commit = c
	}
	if d != "" {
		buildinfo.Date = d
	}
}

// Execute runs the rebarplan CLI with ctx and returns an error if any
// command fails.
//
// Logging goes to stderr at info level; --verbose (-v) switches to debug.
// The logger is attached to the command context and reachable through
// loggerFromContext.
func Execute(ctx context.Context, args ...string) error {
	c := New(os.Stderr, LogInfo)
	root := c.RootCommand()
	if len(args) > 0 {
		root.SetArgs(args)
	}

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	preRun := root.PersistentPreRun
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := LogInfo
		if verbose {
			level = LogDebug
		}
		c.SetLogLevel(level)
		if preRun != nil {
			preRun(cmd, args)
		}
	}

	return root.ExecuteContext(ctx)
}
