package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "Jacob Emerick", cfg.Author)
	assert.Equal(t, "https://api.twitter.com/1.1", cfg.Twitter.Endpoint)
	assert.Equal(t, "https://api.github.com", cfg.Code.Endpoint)
	assert.True(t, cfg.NATS.Embedded)
	assert.Equal(t, "nats", cfg.Store.Backend)
	assert.Equal(t, "@every 15m", cfg.Schedule)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9102", cfg.Metrics.Addr)

	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing author",
			mutate:  func(c *Config) { c.Author = "" },
			wantErr: "author is required",
		},
		{
			name:    "blog enabled without feed url",
			mutate:  func(c *Config) { c.Blog.Enabled = true },
			wantErr: "blog.feed_url is required",
		},
		{
			name:    "twitter enabled without screen name",
			mutate:  func(c *Config) { c.Twitter.Enabled = true },
			wantErr: "twitter.screen_name is required",
		},
		{
			name:    "code enabled without username",
			mutate:  func(c *Config) { c.Code.Enabled = true },
			wantErr: "code.username is required",
		},
		{
			name:    "unknown store backend",
			mutate:  func(c *Config) { c.Store.Backend = "postgres" },
			wantErr: "store.backend must be nats or memory",
		},
		{
			name:    "empty schedule",
			mutate:  func(c *Config) { c.Schedule = "" },
			wantErr: "schedule is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lifestream.yaml")
	content := `
author: Test Person
blog:
  enabled: true
  feed_url: https://example.com/rss.xml
twitter:
  enabled: true
  screen_name: tester
  token: secret
store:
  backend: memory
schedule: "@every 5m"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "Test Person", cfg.Author)
	assert.True(t, cfg.Blog.Enabled)
	assert.Equal(t, "https://example.com/rss.xml", cfg.Blog.FeedURL)
	assert.Equal(t, "tester", cfg.Twitter.ScreenName)
	assert.Equal(t, "secret", cfg.Twitter.Token)
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, "@every 5m", cfg.Schedule)

	// Unset fields keep their defaults.
	assert.Equal(t, "https://api.twitter.com/1.1", cfg.Twitter.Endpoint)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadFromFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("author: [unclosed"), 0o644))

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoader_ExplicitPathValidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lifestream.yaml")
	require.NoError(t, os.WriteFile(path, []byte("author: \"\"\n"), 0o644))

	_, err := NewLoader(nil).Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "author is required")
}

// chdir mirrors testing.T.Chdir, which requires Go 1.24+.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoader_DefaultsWhenNoProjectFile(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := NewLoader(nil).Load("")
	require.NoError(t, err)
	assert.Equal(t, "Jacob Emerick", cfg.Author)
}

func TestLoader_PicksUpProjectFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	content := "author: Project Person\nschedule: \"@hourly\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectConfigFile), []byte(content), 0o644))

	cfg, err := NewLoader(nil).Load("")
	require.NoError(t, err)
	assert.Equal(t, "Project Person", cfg.Author)
	assert.Equal(t, "@hourly", cfg.Schedule)
}
