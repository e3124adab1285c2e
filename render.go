package sipblog

import (
	"bytes"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// RenderStatus renders cmp into a buffer and writes it as an HTML response
// with the given status. Responses other than 200 are marked no-store.
// Nothing is written if rendering fails.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	var buf bytes.Buffer
	if err := cmp.Render(c.Request().Context(), &buf); err != nil {
		return err
	}
	if code != http.StatusOK {
		c.Response().Header().Set("Cache-Control", "no-store")
	}
	return c.HTMLBlob(code, buf.Bytes())
}
