package ogimage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPNG(t *testing.T) {
	raw, err := NewRenderer().Render(context.Background(), Card{
		Title:       "Stealth addresses explained",
		Description: "How one-time addresses hide the recipient of every payment.",
		Accent:      "#22c55e",
	})
	require.NoError(t, err)

	cfg, err := png.DecodeConfig(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, Width, cfg.Width)
	assert.Equal(t, Height, cfg.Height)

	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	r, g, b, _ := img.At(2, Height/2).RGBA()
	assert.Equal(t, [3]uint32{0x22, 0xc5, 0x5e}, [3]uint32{r >> 8, g >> 8, b >> 8}, "accent border")

	r, g, b, _ = img.At(Width-1, 0).RGBA()
	assert.Equal(t, [3]uint32{30, 27, 75}, [3]uint32{r >> 8, g >> 8, b >> 8}, "gradient top")
	r, g, b, _ = img.At(Width-1, Height-1).RGBA()
	assert.Equal(t, [3]uint32{67, 56, 202}, [3]uint32{r >> 8, g >> 8, b >> 8}, "gradient bottom")
}

func TestRenderDrawsTitle(t *testing.T) {
	raw, err := NewRenderer().Render(context.Background(), Card{Title: "MMMM"})
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)

	bright := 0
	area := image.Rect(borderWidth+padding, padding, borderWidth+padding+4*7*titleScale, padding+13*titleScale)
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r>>8 > 200 && g>>8 > 200 && b>>8 > 200 {
				bright++
			}
		}
	}
	assert.Greater(t, bright, 100)
}

func TestRenderDefaultAccent(t *testing.T) {
	raw, err := NewRenderer().Render(context.Background(), Card{Title: "x", Accent: "not a colour"})
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, [3]uint32{99, 102, 241}, [3]uint32{r >> 8, g >> 8, b >> 8})
}

func TestRenderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRenderer().Render(ctx, Card{Title: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#6366f1")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0x63, 0x66, 0xf1, 255}, c)

	c, err = ParseHexColor("fff")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, c)

	for _, bad := range []string{"", "#12345", "#gggggg", "linear-gradient(#fff)"} {
		_, err := ParseHexColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		width    int
		maxLines int
		want     []string
	}{
		{"fits", "hello world", 20, 3, []string{"hello world"}},
		{"breaks", "one two three four", 9, 3, []string{"one two", "three", "four"}},
		{"collapses spaces", "  a   b  ", 10, 2, []string{"a b"}},
		{"long word", "abcdefghij", 4, 5, []string{"abcd", "efgh", "ij"}},
		{"truncates", "aaa bbb ccc ddd eee", 7, 2, []string{"aaa bbb", "ccc..."}},
		{"truncates full line", "aaaaaaa bbbbbbb ccc", 7, 2, []string{"aaaaaaa", "bbbb..."}},
		{"empty", "", 10, 2, nil},
		{"too narrow", "abc", 3, 2, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Wrap(tt.text, tt.width, tt.maxLines)); diff != "" {
				t.Errorf("Wrap mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWrapRespectsWidth(t *testing.T) {
	text := strings.Repeat("privacy ", 40)
	for _, line := range Wrap(text, 36, 3) {
		assert.LessOrEqual(t, len([]rune(line)), 36)
	}
}
