package feed

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/sip-protocol/blog-sip/content"
)

// SitemapNamespace is the sitemaps.org schema.
const SitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Sitemap renders the sitemap of the home page and every indexable post,
// newest first. Posts marked noIndex are left out, as are drafts in
// production.
func Sitemap(site Site, posts []content.Post, production bool) ([]byte, error) {
	urls := []sitemapURL{{Loc: strings.TrimRight(site.URL, "/") + "/"}}
	for _, p := range content.SortByDate(content.Visible(posts, production)) {
		if p.NoIndex {
			continue
		}
		urls = append(urls, sitemapURL{
			Loc:     site.PostURL(p.ID),
			LastMod: p.LastModified().UTC().Format("2006-01-02"),
		})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(sitemapURLSet{XMLNS: SitemapNamespace, URLs: urls}); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Robots renders robots.txt pointing crawlers at the sitemap. Outside
// production all crawling is disallowed.
func Robots(site Site, production bool) string {
	rule := "Allow: /"
	if !production {
		rule = "Disallow: /"
	}
	return "User-agent: *\n" + rule + "\n\nSitemap: " + strings.TrimRight(site.URL, "/") + "/sitemap.xml\n"
}
