// Package ogimage draws the 1200x630 Open Graph cards shared on social
// networks for each post.
package ogimage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	Width  = 1200
	Height = 630

	borderWidth = 10
	padding     = 80

	titleScale       = 4
	titleMaxLines    = 3
	titleLineSpacing = 1.2

	descScale       = 2
	descMaxLines    = 3
	descLineSpacing = 1.4
)

// DefaultAccent is the left border colour when a card carries none.
var DefaultAccent = color.RGBA{99, 102, 241, 255}

var gradientStops = []color.RGBA{
	{30, 27, 75, 255},
	{49, 46, 129, 255},
	{67, 56, 202, 255},
}

// Card is the content of one image.
type Card struct {
	Title       string
	Description string
	// Accent is a #rrggbb colour for the left border.
	Accent string
}

// Renderer draws cards as PNG.
type Renderer struct {
	face font.Face
}

// NewRenderer returns a Renderer using the built-in bitmap face.
func NewRenderer() *Renderer {
	return &Renderer{face: basicfont.Face7x13}
}

// Render draws c and returns the encoded PNG.
func (r *Renderer) Render(ctx context.Context, c Card) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	accent, err := ParseHexColor(c.Accent)
	if err != nil {
		accent = DefaultAccent
	}

	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	fillGradient(img)
	draw.Draw(img, image.Rect(0, 0, borderWidth, Height), image.NewUniform(accent), image.Point{}, draw.Src)

	advance := r.face.Metrics().Height.Ceil()
	glyphW := font.MeasureString(r.face, "M").Ceil()
	textWidth := Width - borderWidth - 2*padding

	y := padding
	titleLines := Wrap(c.Title, textWidth/(glyphW*titleScale), titleMaxLines)
	y = r.drawLines(img, titleLines, borderWidth+padding, y, titleScale, titleLineSpacing, color.RGBA{255, 255, 255, 255})

	y += advance * descScale
	descLines := Wrap(c.Description, textWidth/(glyphW*descScale), descMaxLines)
	r.drawLines(img, descLines, borderWidth+padding, y, descScale, descLineSpacing, color.NRGBA{255, 255, 255, 204})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// drawLines renders each line at 1x into a mask and scales it onto dst.
// It returns the y coordinate below the last line.
func (r *Renderer) drawLines(dst draw.Image, lines []string, x, y, scale int, spacing float64, c color.Color) int {
	lineH := r.face.Metrics().Height.Ceil()
	ascent := r.face.Metrics().Ascent.Ceil()
	step := int(float64(lineH*scale) * spacing)

	for _, line := range lines {
		w := font.MeasureString(r.face, line).Ceil()
		if w == 0 {
			y += step
			continue
		}
		mask := image.NewRGBA(image.Rect(0, 0, w, lineH))
		d := font.Drawer{
			Dst:  mask,
			Src:  image.NewUniform(c),
			Face: r.face,
			Dot:  fixed.P(0, ascent),
		}
		d.DrawString(line)
		target := image.Rect(x, y, x+w*scale, y+lineH*scale)
		draw.CatmullRom.Scale(dst, target, mask, mask.Bounds(), draw.Over, nil)
		y += step
	}
	return y
}

func fillGradient(img *image.RGBA) {
	segments := len(gradientStops) - 1
	for y := 0; y < Height; y++ {
		t := float64(y) / float64(Height-1) * float64(segments)
		i := int(t)
		if i >= segments {
			i = segments - 1
		}
		c := lerp(gradientStops[i], gradientStops[i+1], t-float64(i))
		for x := 0; x < Width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), 255}
}

// ParseHexColor parses "#rrggbb" or "#rgb".
func ParseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("ogimage: invalid colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("ogimage: invalid colour %q", s)
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}, nil
}

// Wrap breaks text into at most maxLines lines of at most width runes.
// Words longer than a line are split. When text does not fit, the last
// line ends with "...".
func Wrap(text string, width, maxLines int) []string {
	if width < 4 || maxLines < 1 {
		return nil
	}

	var lines []string
	var cur []rune
	flush := func() {
		lines = append(lines, string(cur))
		cur = cur[:0]
	}
	for _, word := range strings.Fields(text) {
		w := []rune(word)
		for len(w) > width {
			if len(cur) > 0 {
				flush()
			}
			cur = append(cur, w[:width]...)
			flush()
			w = w[width:]
		}
		switch {
		case len(cur) == 0:
			cur = append(cur, w...)
		case len(cur)+1+len(w) <= width:
			cur = append(cur, ' ')
			cur = append(cur, w...)
		default:
			flush()
			cur = append(cur, w...)
		}
	}
	if len(cur) > 0 {
		flush()
	}

	if len(lines) <= maxLines {
		return lines
	}
	lines = lines[:maxLines]
	last := []rune(lines[maxLines-1])
	if len(last)+3 > width {
		last = last[:width-3]
	}
	lines[maxLines-1] = strings.TrimRight(string(last), " ") + "..."
	return lines
}
