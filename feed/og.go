package feed

import "github.com/sip-protocol/blog-sip/content"

// OGPage holds the parameters an Open Graph image is drawn from.
type OGPage struct {
	Title       string
	Description string
	Category    string
}

// OGPages maps every post id, drafts included, to its image parameters.
func OGPages(posts []content.Post) map[string]OGPage {
	pages := make(map[string]OGPage, len(posts))
	for _, p := range posts {
		pages[p.ID] = OGPage{
			Title:       p.Title,
			Description: p.Description,
			Category:    string(p.Category),
		}
	}
	return pages
}

// OGImagePath is the site-relative path of a post's Open Graph image.
func OGImagePath(id string) string {
	return "/og/" + id + ".png"
}
