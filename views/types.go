package views

// SiteConfig holds the site-wide values templates need. The server builds
// it once from its own configuration so nothing here is hardcoded.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
}

// CategoryStyle is the visual treatment of a post category.
type CategoryStyle struct {
	Gradient string // CSS gradient for badges and cards
	Bg       string // background tint
	Border   string // border tint
}
