// Package content defines the blog's typed content model and loads it from
// Markdown, MDX and JSON source files.
//
// Every record is validated when it is loaded. An invalid record is never
// returned in part: callers either get a fully populated Post or Author, or
// a *ValidationError naming the offending field.
package content

import (
	"time"

	"github.com/sip-protocol/blog-sip/markdown"
)

// Category is one of the blog's content pillars.
type Category string

// The closed set of post categories.
const (
	CategoryTechnical         Category = "technical"
	CategoryEcosystem         Category = "ecosystem"
	CategoryThoughtLeadership Category = "thought-leadership"
	CategoryTutorials         Category = "tutorials"
	CategoryAnnouncements     Category = "announcements"
)

// Categories lists every accepted category in declaration order.
var Categories = []Category{
	CategoryTechnical,
	CategoryEcosystem,
	CategoryThoughtLeadership,
	CategoryTutorials,
	CategoryAnnouncements,
}

// DefaultCategory is applied when a post omits its category.
const DefaultCategory = CategoryTechnical

// DefaultAuthor is applied when a post omits its author.
const DefaultAuthor = "SIP Protocol Team"

// Post is a validated blog post.
type Post struct {
	ID          string     `json:"id" validate:"required"`
	Title       string     `json:"title" validate:"required,max=60"`
	Description string     `json:"description" validate:"required,max=160"`
	PubDate     time.Time  `json:"pubDate" validate:"required"`
	UpdatedDate *time.Time `json:"updatedDate,omitempty"`
	HeroImage   string     `json:"heroImage,omitempty"`

	Category Category `json:"category" validate:"oneof=technical ecosystem thought-leadership tutorials announcements"`
	Tags     []string `json:"tags"`

	Author        string `json:"author"`
	AuthorImage   string `json:"authorImage,omitempty"`
	AuthorTwitter string `json:"authorTwitter,omitempty"`

	CanonicalURL string `json:"canonicalUrl,omitempty" validate:"omitempty,url"`
	NoIndex      bool   `json:"noIndex"`

	// LLM-facing summary fields.
	TLDR           string   `json:"tldr,omitempty" validate:"max=280"`
	KeyTakeaways   []string `json:"keyTakeaways,omitempty"`
	TargetAudience string   `json:"targetAudience,omitempty"`
	Prerequisites  []string `json:"prerequisites,omitempty"`

	ReadingTime *int `json:"readingTime,omitempty" validate:"omitempty,min=0"`
	Draft       bool `json:"draft"`
	Featured    bool `json:"featured"`

	RelatedPosts []string `json:"relatedPosts,omitempty"`

	Body   string `json:"body"`
	Source string `json:"source"`
}

// Minutes returns the author-supplied reading time, or an estimate from the
// body when none was given.
func (p Post) Minutes() int {
	if p.ReadingTime != nil && *p.ReadingTime > 0 {
		return *p.ReadingTime
	}
	return markdown.ReadingTime(p.Body)
}

// Path returns the site-relative URL path of the post.
func (p Post) Path() string {
	return "/blog/" + p.ID + "/"
}

// LastModified returns the updated date when set, otherwise the publish date.
func (p Post) LastModified() time.Time {
	if p.UpdatedDate != nil {
		return *p.UpdatedDate
	}
	return p.PubDate
}

// Author is a validated author profile. Posts reference authors by free
// text only; no link between the two collections is enforced.
type Author struct {
	ID      string `json:"id" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Bio     string `json:"bio,omitempty"`
	Avatar  string `json:"avatar,omitempty"`
	Twitter string `json:"twitter,omitempty"`
	GitHub  string `json:"github,omitempty"`
	Source  string `json:"source"`
}
