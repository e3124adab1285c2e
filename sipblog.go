// Package sipblog serves the SIP Protocol blog's derived outputs: the RSS
// feed, the llms.txt index, Open Graph images, the sitemap and the
// newsletter signup relay. Pre-rendered pages are served from a static
// directory as-is.
//
// Content is read from Markdown/JSON files at startup, validated, and
// indexed into SQLite. Any invalid content file stops the server from
// starting.
package sipblog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sip-protocol/blog-sip/content"
	"github.com/sip-protocol/blog-sip/internal/logger"
	"github.com/sip-protocol/blog-sip/newsletter"
	"github.com/sip-protocol/blog-sip/ogimage"
)

// OGRenderer draws an Open Graph image card as PNG.
type OGRenderer interface {
	Render(ctx context.Context, card ogimage.Card) ([]byte, error)
}

// App wires together the content index, cache, handlers and middleware.
type App struct {
	Config     SiteConfig
	Echo       *echo.Echo
	Store      *Store
	Cache      *PostCache
	Collection *content.Collection

	og           OGRenderer
	provider     newsletter.Provider
	limiter      *RateLimiter
	ogImages     sync.Map // post id -> PNG bytes
	customRoutes []func(*App)
	ready        bool
}

// New creates an App. Call Setup (or Start) before serving.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	if a.og == nil {
		a.og = ogimage.NewRenderer()
	}
	if a.provider == nil && a.Config.ButtondownAPIKey != "" {
		a.provider = newsletter.NewButtondown(
			a.Config.ButtondownAPIKey,
			a.Config.ButtondownURL,
			newsletter.NewHTTPClient(a.Config.NewsletterTimeout),
		)
	}
	return a
}

// Setup loads and validates the content, builds the index and cache, and
// registers middleware and routes. Invalid content is a fatal error.
func (a *App) Setup() error {
	if a.ready {
		return nil
	}

	coll, err := content.Load(a.Config.ContentDir)
	if err != nil {
		return fmt.Errorf("sipblog: load content: %w", err)
	}
	a.Collection = coll

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("sipblog: init store: %w", err)
	}
	if err := store.Sync(coll.Posts); err != nil {
		store.Close()
		return fmt.Errorf("sipblog: index content: %w", err)
	}
	a.Store = store
	a.Cache = NewPostCache(a.Store, a.Config.PostCacheTTL)
	a.limiter = NewRateLimiter(a.Config.SubscribeRateLimit, time.Minute)

	indexed, err := store.Count()
	if err != nil {
		return fmt.Errorf("sipblog: count index: %w", err)
	}
	logger.InfoWithFields("content loaded", logger.Fields{
		"posts":      len(coll.Posts),
		"indexed":    indexed,
		"authors":    len(coll.Authors),
		"production": a.Config.Production,
	})

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.ready = true
	return nil
}

// Start runs Setup and serves until the server is shut down.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	logger.InfoWithFields("server starting", logger.Fields{"addr": a.Config.Addr})
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/rss.xml", a.handleRSS)
	e.GET("/tags/:tag/rss.xml", a.handleTagRSS)
	e.GET("/llms.txt", a.handleLLMs)
	e.GET("/og/*", a.handleOG)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/robots.txt", a.handleRobots)
	e.POST("/api/newsletter", a.handleNewsletter)

	e.Static("/", a.Config.StaticDir)
}

// Shutdown gracefully stops the server and releases resources.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Echo.Shutdown(ctx)
	if cerr := a.Close(); err == nil {
		err = cerr
	}
	return err
}

// Close releases the store and the limiter. Call this when the app is
// shutting down.
func (a *App) Close() error {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
