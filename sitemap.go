package sipblog

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/sip-protocol/blog-sip/feed"
)

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.All()
	if err != nil {
		return err
	}
	raw, err := feed.Sitemap(a.Config.Feed(), posts, a.Config.Production)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/xml; charset=utf-8", raw)
}

// handleRobots prefers a robots.txt shipped in the static directory and
// falls back to a generated one.
func (a *App) handleRobots(c echo.Context) error {
	path := filepath.Join(a.Config.StaticDir, "robots.txt")
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return c.File(path)
	}
	return c.Blob(http.StatusOK, mimePlainText, []byte(feed.Robots(a.Config.Feed(), a.Config.Production)))
}
