package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// NotFound renders the 404 page.
func NotFound(cfg SiteConfig) templ.Component {
	return errorPage(cfg, 404, "Page not found", "The page you are looking for does not exist or has moved.")
}

// ServerError renders the 500 page. It never includes error details.
func ServerError(cfg SiteConfig) templ.Component {
	return errorPage(cfg, 500, "Something went wrong", "We hit an unexpected error. Please try again shortly.")
}

func errorPage(cfg SiteConfig, code int, heading, message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		status := strconv.Itoa(code)
		name := templ.EscapeString(cfg.Name)
		home := templ.EscapeString(cfg.URL)
		if home == "" {
			home = "/"
		}
		_, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<meta name="robots" content="noindex">`+
			`<title>`+status+` | `+name+`</title></head>`+
			`<body><main class="error-page"><p class="error-code">`+status+`</p>`+
			`<h1>`+templ.EscapeString(heading)+`</h1>`+
			`<p>`+templ.EscapeString(message)+`</p>`+
			`<a href="`+home+`">Back to `+name+`</a></main></body></html>`)
		return err
	})
}
