package sipblog

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/sip-protocol/blog-sip/feed"
	"github.com/sip-protocol/blog-sip/newsletter"
	"github.com/sip-protocol/blog-sip/views"
)

// Site defaults.
const (
	DefaultSiteName        = "SIP Protocol Blog"
	DefaultSiteURL         = "https://blog.sip-protocol.org"
	DefaultSiteDescription = "Technical deep-dives, ecosystem updates, and privacy thought leadership for the Web3 privacy standard."
)

// SiteConfig holds all configuration for the blog service.
type SiteConfig struct {
	Name        string `mapstructure:"site_name"`        // Site title (default DefaultSiteName)
	URL         string `mapstructure:"site_url"`         // Canonical URL (default DefaultSiteURL)
	Description string `mapstructure:"site_description"` // Used by RSS and llms.txt
	Author      string `mapstructure:"site_author"`      // Fallback author for feed items

	Addr         string `mapstructure:"addr"`          // Listen address (default ":3000")
	ContentDir   string `mapstructure:"content_dir"`   // Content root with blog/ and authors/ (default "content")
	StaticDir    string `mapstructure:"static_dir"`    // Pre-rendered site and assets (default "public")
	DatabasePath string `mapstructure:"database_path"` // SQLite index path (default "data/blog.db")
	Production   bool   `mapstructure:"production"`    // Hide drafts from public outputs

	ButtondownAPIKey  string        `mapstructure:"buttondown_api_key"` // Empty disables the newsletter (503)
	ButtondownURL     string        `mapstructure:"buttondown_url"`     // Provider base URL
	NewsletterTimeout time.Duration `mapstructure:"newsletter_timeout"` // Provider call timeout (default 10s)

	PostCacheTTL       time.Duration `mapstructure:"post_cache_ttl"`       // Post cache TTL (default 5min)
	LogLevel           string        `mapstructure:"log_level"`            // debug, info, warn, error (default info)
	SubscribeRateLimit int           `mapstructure:"subscribe_rate_limit"` // Signups per IP per minute (default 5)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = DefaultSiteName
	}
	if c.URL == "" {
		c.URL = DefaultSiteURL
	}
	if c.Description == "" {
		c.Description = DefaultSiteDescription
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/blog.db"
	}
	if c.ButtondownURL == "" {
		c.ButtondownURL = newsletter.DefaultButtondownURL
	}
	if c.NewsletterTimeout == 0 {
		c.NewsletterTimeout = newsletter.DefaultTimeout
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.SubscribeRateLimit == 0 {
		c.SubscribeRateLimit = 5
	}
}

// Feed returns the feed.Site view of the config.
func (c SiteConfig) Feed() feed.Site {
	return feed.Site{
		Title:       c.Name,
		Description: c.Description,
		URL:         c.URL,
		Author:      c.Author,
	}
}

// Views returns the views.SiteConfig view of the config.
func (c SiteConfig) Views() views.SiteConfig {
	return views.SiteConfig{Name: c.Name, URL: c.URL, Description: c.Description}
}

var configKeys = []string{
	"site_name", "site_url", "site_description", "site_author",
	"addr", "content_dir", "static_dir", "database_path", "production",
	"buttondown_api_key", "buttondown_url", "newsletter_timeout",
	"post_cache_ttl", "log_level", "subscribe_rate_limit",
}

// LoadConfig reads configuration from, in increasing priority: defaults, an
// optional YAML file, a .env file and the process environment. Keys match
// the upper-cased environment names (SITE_URL, BUTTONDOWN_API_KEY, ...).
// An empty path looks for sipblog.yaml in the working directory.
func LoadConfig(path string) (SiteConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return SiteConfig{}, fmt.Errorf("sipblog: load .env: %w", err)
	}

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("sipblog")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.AutomaticEnv()
	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return SiteConfig{}, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return SiteConfig{}, fmt.Errorf("sipblog: read config: %w", err)
		}
	}

	var cfg SiteConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("sipblog: decode config: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir overrides SiteConfig.StaticDir.
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.Config.StaticDir = dir
	}
}

// WithOGRenderer replaces the Open Graph image renderer.
func WithOGRenderer(r OGRenderer) Option {
	return func(a *App) {
		a.og = r
	}
}

// WithProvider replaces the newsletter provider built from the config.
func WithProvider(p newsletter.Provider) Option {
	return func(a *App) {
		a.provider = p
	}
}
