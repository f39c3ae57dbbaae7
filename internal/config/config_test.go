package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLayers(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
backend_url: http://backend:9000
demand:
  subreddit: startups
  time_filter: week
tasks:
  subreddits: forhire,slavelabour
`), 0o644))
	t.Setenv("HUNTDASH_KEYWORD", "someone should")

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, p, cfg.Path)
	assert.Equal(t, "http://backend:9000", cfg.BackendURL)
	assert.Equal(t, "startups", cfg.Demand.Subreddit)
	assert.Equal(t, "someone should", cfg.Demand.Keyword)
	assert.Equal(t, "week", cfg.Demand.TimeFilter)
	assert.Equal(t, 50, cfg.Demand.Limit, "unset keys keep defaults")
	assert.Equal(t, "forhire,slavelabour", cfg.Tasks.Subreddits)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--limit", "10", "--theme", "light"}))
	require.NoError(t, cfg.ApplyFlags(fs))
	assert.Equal(t, 10, cfg.Demand.Limit)
	assert.Equal(t, ThemeLight, cfg.Theme)
	assert.Equal(t, "startups", cfg.Demand.Subreddit, "unchanged flags do not override")
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	c.BackendURL = "ftp://x"
	assert.ErrorContains(t, c.Validate(), "scheme")

	// Scan parameters are the backend's to judge.
	c = Default()
	c.Demand.TimeFilter = "quarter"
	c.Tasks.TimeFilter = "decade"
	c.Tasks.Limit = 0
	assert.NoError(t, c.Validate())

	c = Default()
	c.Theme = "neon"
	assert.Error(t, c.Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "config.yaml")
	c := Default()
	c.WatchFile = "/tmp/scan-now.jsonl"
	require.NoError(t, c.Save(p))
	got, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/scan-now.jsonl", got.WatchFile)
}
