package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tooldeck/internal/domain/build"
)

func TestVersionCommand(t *testing.T) {
	SetBuildInfo(build.Info{Version: "1.2.3", Commit: "abc123"})
	t.Cleanup(func() { SetBuildInfo(build.Info{}) })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "tooldeck 1.2.3")
	assert.Contains(t, out.String(), "abc123")
}

func TestOwnsTerminal(t *testing.T) {
	assert.True(t, ownsTerminal(viewCmd))
	assert.False(t, ownsTerminal(serveCmd))
	assert.False(t, ownsTerminal(renderCmd))

	require.NoError(t, historyCmd.Flags().Set("json", "true"))
	t.Cleanup(func() { _ = historyCmd.Flags().Set("json", "false") })
	assert.False(t, ownsTerminal(historyCmd))
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"view", "serve", "render", "history", "config", "version"} {
		assert.True(t, names[want], want)
	}
}

func TestConfigSchemaCommand(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"config", "schema"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())

	var schema struct {
		Title      string         `json:"title"`
		Properties map[string]any `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &schema))
	assert.Equal(t, "tooldeck configuration", schema.Title)
	assert.Contains(t, schema.Properties, "thumbnails")
}
