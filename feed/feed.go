// Package feed derives the blog's machine-readable outputs from the loaded
// post collection: the RSS feed, the llms.txt site index, the sitemap and
// the metadata used to draw Open Graph images.
//
// Every generator is a pure function of its inputs. Callers pass the
// collection in load order; generators sort and filter their own copy.
package feed

import (
	"net/url"
	"path"
	"strings"
)

// Site describes the publication the feeds belong to.
type Site struct {
	Title       string
	Description string
	URL         string // canonical base URL, e.g. https://blog.sip-protocol.org
	Language    string // RSS language code, default "en-us"
	Author      string // fallback author for posts without one
}

func (s Site) language() string {
	if s.Language == "" {
		return "en-us"
	}
	return s.Language
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PostURL is the canonical absolute link of a post: <site>/blog/<id>/.
func (s Site) PostURL(id string) string {
	return BuildURL(s.URL, "blog", id)
}
