package sipblog

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sip-protocol/blog-sip/feed"
	"github.com/sip-protocol/blog-sip/internal/logger"
	"github.com/sip-protocol/blog-sip/newsletter"
	"github.com/sip-protocol/blog-sip/ogimage"
	"github.com/sip-protocol/blog-sip/views"
)

const (
	mimeRSS       = "application/rss+xml; charset=utf-8"
	mimePlainText = "text/plain; charset=utf-8"
	mimePNG       = "image/png"

	msgTooManyRequests = "Too many requests. Please try again later."
	msgBodyTooLarge    = "Request body too large"
)

func (a *App) handleRSS(c echo.Context) error {
	posts, err := a.Cache.All()
	if err != nil {
		return err
	}
	raw, err := feed.RSS(a.Config.Feed(), posts, a.Config.Production)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, mimeRSS, raw)
}

// handleTagRSS serves the feed of one tag. Like the main feed it includes
// drafts, and their tags, outside production.
func (a *App) handleTagRSS(c echo.Context) error {
	tag := normalizeTag(c.Param("tag"))
	tags, err := a.Cache.ListTags(a.Config.Production)
	if err != nil {
		return err
	}
	if !containsTag(tags, tag) {
		return echo.ErrNotFound
	}
	posts, err := a.Cache.ListPosts(a.Config.Production, tag)
	if err != nil {
		return err
	}
	site := a.Config.Feed()
	site.Title = site.Title + ": " + tag
	raw, err := feed.RSS(site, posts, a.Config.Production)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, mimeRSS, raw)
}

func (a *App) handleLLMs(c echo.Context) error {
	posts, err := a.Cache.All()
	if err != nil {
		return err
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=3600")
	return c.Blob(http.StatusOK, mimePlainText, []byte(feed.LLMs(a.Config.Feed(), posts)))
}

// handleOG serves /og/<id>.png. The .png suffix is optional.
func (a *App) handleOG(c echo.Context) error {
	id := strings.TrimSuffix(strings.Trim(c.Param("*"), "/"), ".png")
	if id == "" {
		return echo.ErrNotFound
	}
	if cached, ok := a.ogImages.Load(id); ok {
		return c.Blob(http.StatusOK, mimePNG, cached.([]byte))
	}

	post, err := a.Cache.GetPost(id)
	if errors.Is(err, ErrNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	card := ogimage.Card{
		Title:       post.Title,
		Description: post.Description,
		Accent:      views.CategoryStyleFor(string(post.Category)).Accent(),
	}
	png, err := a.og.Render(c.Request().Context(), card)
	if err != nil {
		return err
	}
	a.ogImages.Store(id, png)
	return c.Blob(http.StatusOK, mimePNG, png)
}

func (a *App) handleNewsletter(c echo.Context) error {
	if ip := c.RealIP(); !a.limiter.Allow(ip) {
		logger.WarnWithFields("newsletter rate limited", logger.Fields{
			"remote_ip":  ip,
			"request_id": requestID(c),
		})
		return c.JSON(http.StatusTooManyRequests, newsletter.Body{Error: msgTooManyRequests})
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		return c.JSON(http.StatusBadRequest, newsletter.Body{Error: newsletter.MsgInvalidBody})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), a.Config.NewsletterTimeout)
	defer cancel()
	ctx = logger.WithRequestID(ctx, requestID(c))

	resp := newsletter.Handle(ctx, a.Config.ButtondownAPIKey, body, a.provider)
	return c.JSON(resp.Status, resp.Body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
	}
	if code >= 500 {
		logger.ErrorWithFields("server error", logger.Fields{
			"error":      err.Error(),
			"method":     c.Request().Method,
			"uri":        c.Request().RequestURI,
			"request_id": requestID(c),
		})
	}

	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		_ = c.JSON(code, newsletter.Body{Error: apiErrorMessage(code)})
		return
	}
	switch {
	case code == http.StatusNotFound:
		_ = RenderStatus(c, code, views.NotFound(a.Config.Views()))
	case code >= 500:
		_ = RenderStatus(c, code, views.ServerError(a.Config.Views()))
	default:
		a.Echo.DefaultHTTPErrorHandler(err, c)
	}
}

// apiErrorMessage is the {error} text for failures raised outside the
// newsletter relay itself.
func apiErrorMessage(code int) string {
	switch {
	case code == http.StatusRequestEntityTooLarge:
		return msgBodyTooLarge
	case code >= 500:
		return newsletter.MsgUnexpected
	default:
		return http.StatusText(code)
	}
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
