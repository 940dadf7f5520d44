package cli

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matzehuels/rebarplan/pkg/buildinfo"
)

func TestSetVersion(t *testing.T) {
	v, c, d := buildinfo.Version, buildinfo.Commit, buildinfo.Date
	t.Cleanup(func() { buildinfo.Version, buildinfo.Commit, buildinfo.Date = v, c, d })

	SetVersion("1.0.0", "abc123", "2024-01-01")
	assert.Equal(t, "1.0.0", buildinfo.Version)
	assert.Equal(t, "abc123", buildinfo.Commit)
	assert.Equal(t, "2024-01-01", buildinfo.Date)

	// Empty values keep what is set.
	SetVersion("", "", "")
	assert.Equal(t, "1.0.0", buildinfo.Version)
	assert.Equal(t, "abc123", buildinfo.Commit)
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.ElementsMatch(t, []string{"design", "recalc", "show", "fill", "constraints", "serve", "completion"}, names)
	assert.NotNil(t, root.PersistentFlags().Lookup("settings"))
}
