package sipblog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDefaults(t *testing.T) {
	var cfg SiteConfig
	cfg.setDefaults()

	assert.Equal(t, DefaultSiteName, cfg.Name)
	assert.Equal(t, DefaultSiteURL, cfg.URL)
	assert.Equal(t, DefaultSiteDescription, cfg.Description)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, "content", cfg.ContentDir)
	assert.Equal(t, "public", cfg.StaticDir)
	assert.Equal(t, "https://api.buttondown.email", cfg.ButtondownURL)
	assert.Equal(t, 10*time.Second, cfg.NewsletterTimeout)
	assert.Equal(t, 5*time.Minute, cfg.PostCacheTTL)
	assert.Equal(t, 5, cfg.SubscribeRateLimit)
	assert.False(t, cfg.Production)
	assert.Empty(t, cfg.ButtondownAPIKey)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sipblog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"site_name: Staging Blog\n"+
			"addr: \":8080\"\n"+
			"newsletter_timeout: 3s\n"+
			"subscribe_rate_limit: 9\n"), 0o644))

	t.Setenv("SITE_NAME", "Env Blog")
	t.Setenv("PRODUCTION", "true")
	t.Setenv("BUTTONDOWN_API_KEY", "secret")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "Env Blog", cfg.Name, "environment overrides file")
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 3*time.Second, cfg.NewsletterTimeout)
	assert.Equal(t, 9, cfg.SubscribeRateLimit)
	assert.True(t, cfg.Production)
	assert.Equal(t, "secret", cfg.ButtondownAPIKey)
	assert.Equal(t, DefaultSiteURL, cfg.URL)
}

func TestLoadConfigMissingDefaultFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSiteName, cfg.Name)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSiteConfigViews(t *testing.T) {
	cfg := SiteConfig{Name: "N", URL: "https://x.test", Description: "D", Author: "A"}
	site := cfg.Feed()
	assert.Equal(t, "N", site.Title)
	assert.Equal(t, "A", site.Author)
	assert.Equal(t, "https://x.test", cfg.Views().URL)
}
