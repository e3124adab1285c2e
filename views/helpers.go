package views

import (
	"regexp"
	"strings"
)

var categoryStyles = map[string]CategoryStyle{
	"technical": {
		Gradient: "linear-gradient(135deg, #6366f1, #8b5cf6)",
		Bg:       "rgba(99, 102, 241, 0.1)",
		Border:   "rgba(99, 102, 241, 0.3)",
	},
	"announcements": {
		Gradient: "linear-gradient(135deg, #3b82f6, #06b6d4)",
		Bg:       "rgba(59, 130, 246, 0.1)",
		Border:   "rgba(59, 130, 246, 0.3)",
	},
	"tutorials": {
		Gradient: "linear-gradient(135deg, #22c55e, #14b8a6)",
		Bg:       "rgba(34, 197, 94, 0.1)",
		Border:   "rgba(34, 197, 94, 0.3)",
	},
	"ecosystem": {
		Gradient: "linear-gradient(135deg, #f97316, #eab308)",
		Bg:       "rgba(249, 115, 22, 0.1)",
		Border:   "rgba(249, 115, 22, 0.3)",
	},
	"thought-leadership": {
		Gradient: "linear-gradient(135deg, #ec4899, #f43f5e)",
		Bg:       "rgba(236, 72, 153, 0.1)",
		Border:   "rgba(236, 72, 153, 0.3)",
	},
	"research": {
		Gradient: "linear-gradient(135deg, #a855f7, #d946ef)",
		Bg:       "rgba(168, 85, 247, 0.1)",
		Border:   "rgba(168, 85, 247, 0.3)",
	},
	"security": {
		Gradient: "linear-gradient(135deg, #ef4444, #dc2626)",
		Bg:       "rgba(239, 68, 68, 0.1)",
		Border:   "rgba(239, 68, 68, 0.3)",
	},
}

// DefaultCategoryStyle is used for any category without its own style.
var DefaultCategoryStyle = CategoryStyle{
	Gradient: "linear-gradient(135deg, #6366f1, #8b5cf6)",
	Bg:       "rgba(99, 102, 241, 0.1)",
	Border:   "rgba(99, 102, 241, 0.3)",
}

var reHexColor = regexp.MustCompile(`#[0-9a-fA-F]{6}`)

// CategoryStyleFor returns the style for category, ignoring case and
// surrounding whitespace. Unknown and empty categories get the default.
func CategoryStyleFor(category string) CategoryStyle {
	if s, ok := categoryStyles[strings.ToLower(strings.TrimSpace(category))]; ok {
		return s
	}
	return DefaultCategoryStyle
}

// CategoryGradient returns only the gradient of CategoryStyleFor.
func CategoryGradient(category string) string {
	return CategoryStyleFor(category).Gradient
}

// Accent returns the first colour stop of the gradient as "#rrggbb".
func (s CategoryStyle) Accent() string {
	if m := reHexColor.FindString(s.Gradient); m != "" {
		return m
	}
	return "#6366f1"
}
