package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/sip-protocol/blog-sip/markdown"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their frontmatter key rather than the Go field name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// postFrontmatter mirrors the YAML keys a post may declare. Pointer fields
// distinguish "absent" (default applies) from an explicit value.
type postFrontmatter struct {
	Slug        string `yaml:"slug"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	PubDate     string `yaml:"pubDate"`
	UpdatedDate string `yaml:"updatedDate"`
	HeroImage   string `yaml:"heroImage"`

	Category *string  `yaml:"category"`
	Tags     []string `yaml:"tags"`

	Author        *string `yaml:"author"`
	AuthorImage   string  `yaml:"authorImage"`
	AuthorTwitter string  `yaml:"authorTwitter"`

	CanonicalURL string `yaml:"canonicalUrl"`
	NoIndex      bool   `yaml:"noIndex"`

	TLDR           string   `yaml:"tldr"`
	KeyTakeaways   []string `yaml:"keyTakeaways"`
	TargetAudience string   `yaml:"targetAudience"`
	Prerequisites  []string `yaml:"prerequisites"`

	ReadingTime *float64 `yaml:"readingTime"`
	Draft       bool     `yaml:"draft"`
	Featured    bool     `yaml:"featured"`

	RelatedPosts []string `yaml:"relatedPosts"`
}

type authorRecord struct {
	Name    string `yaml:"name" json:"name"`
	Bio     string `yaml:"bio" json:"bio"`
	Avatar  string `yaml:"avatar" json:"avatar"`
	Twitter string `yaml:"twitter" json:"twitter"`
	GitHub  string `yaml:"github" json:"github"`
}

// ParsePost decodes a Markdown or MDX source file into a validated Post.
// id is the identity derived from the file path; a "slug" key in the
// frontmatter overrides it.
func ParsePost(source, id string, raw []byte) (Post, error) {
	fm, body, err := markdown.SplitFrontmatter(raw)
	if err != nil {
		return Post{}, &ValidationError{Source: source, Field: "frontmatter", Constraint: "syntax", Param: err.Error()}
	}
	var meta postFrontmatter
	if err := yaml.Unmarshal(fm, &meta); err != nil {
		return Post{}, &ValidationError{Source: source, Field: "frontmatter", Constraint: "syntax", Param: err.Error()}
	}

	if meta.Slug != "" {
		slug := strings.Trim(meta.Slug, "/")
		if !isSlugPath(slug) {
			return Post{}, &ValidationError{Source: source, Field: "slug", Constraint: "slug", Param: meta.Slug}
		}
		id = slug
	}
	if meta.ReadingTime != nil {
		rt := *meta.ReadingTime
		if rt != math.Trunc(rt) || math.IsInf(rt, 0) {
			return Post{}, &ValidationError{Source: source, Field: "readingTime", Constraint: "integer", Param: strconv.FormatFloat(rt, 'g', -1, 64)}
		}
	}
	post := Post{
		ID:             id,
		Title:          meta.Title,
		Description:    meta.Description,
		HeroImage:      meta.HeroImage,
		Category:       DefaultCategory,
		Tags:           meta.Tags,
		Author:         DefaultAuthor,
		AuthorImage:    meta.AuthorImage,
		AuthorTwitter:  meta.AuthorTwitter,
		CanonicalURL:   meta.CanonicalURL,
		NoIndex:        meta.NoIndex,
		TLDR:           meta.TLDR,
		KeyTakeaways:   meta.KeyTakeaways,
		TargetAudience: meta.TargetAudience,
		Prerequisites:  meta.Prerequisites,
		ReadingTime:    intPtr(meta.ReadingTime),
		Draft:          meta.Draft,
		Featured:       meta.Featured,
		RelatedPosts:   meta.RelatedPosts,
		Body:           string(body),
		Source:         source,
	}
	if meta.Category != nil {
		post.Category = Category(*meta.Category)
	}
	if meta.Author != nil {
		post.Author = *meta.Author
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}

	if meta.PubDate != "" {
		t, err := ParseDate(meta.PubDate)
		if err != nil {
			return Post{}, &ValidationError{Source: source, Field: "pubDate", Constraint: "date", Param: meta.PubDate}
		}
		post.PubDate = t
	}
	if meta.UpdatedDate != "" {
		t, err := ParseDate(meta.UpdatedDate)
		if err != nil {
			return Post{}, &ValidationError{Source: source, Field: "updatedDate", Constraint: "date", Param: meta.UpdatedDate}
		}
		post.UpdatedDate = &t
	}

	if err := check(source, post); err != nil {
		return Post{}, err
	}
	return post, nil
}

// isSlugPath reports whether every "/"-separated segment of s is already a
// slug, so the id is safe to use in URLs and output paths.
func isSlugPath(s string) bool {
	if s == "" {
		return false
	}
	for _, seg := range strings.Split(s, "/") {
		if seg == "" || Slugify(seg) != seg {
			return false
		}
	}
	return true
}

func intPtr(f *float64) *int {
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}

// ParseAuthor decodes an author profile. JSON files are decoded directly;
// Markdown files carry the profile in their frontmatter.
func ParseAuthor(source, id string, raw []byte) (Author, error) {
	var rec authorRecord
	if strings.EqualFold(filepath.Ext(source), ".json") {
		dec := json.NewDecoder(bytes.NewReader(raw))
		if err := dec.Decode(&rec); err != nil {
			return Author{}, &ValidationError{Source: source, Field: "json", Constraint: "syntax", Param: err.Error()}
		}
	} else {
		fm, _, err := markdown.SplitFrontmatter(raw)
		if err != nil {
			return Author{}, &ValidationError{Source: source, Field: "frontmatter", Constraint: "syntax", Param: err.Error()}
		}
		if err := yaml.Unmarshal(fm, &rec); err != nil {
			return Author{}, &ValidationError{Source: source, Field: "frontmatter", Constraint: "syntax", Param: err.Error()}
		}
	}
	author := Author{
		ID:      id,
		Name:    rec.Name,
		Bio:     rec.Bio,
		Avatar:  rec.Avatar,
		Twitter: rec.Twitter,
		GitHub:  rec.GitHub,
		Source:  source,
	}
	if err := check(source, author); err != nil {
		return Author{}, err
	}
	return author, nil
}

// check runs struct validation and converts the first failure into a
// *ValidationError.
func check(source string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{Source: source, Field: fe.Field(), Constraint: fe.Tag(), Param: fe.Param()}
	}
	return &ValidationError{Source: source, Field: "record", Constraint: "syntax", Param: err.Error()}
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
}

// ParseDate accepts the date spellings commonly found in frontmatter.
// Values without a zone are read as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}
