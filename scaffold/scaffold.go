// Package scaffold renders starter content files for the sipblog CLI.
package scaffold

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"github.com/sip-protocol/blog-sip/content"
)

// Templates contains all scaffold template files.
// Files use Go text/template syntax and have a .tmpl suffix.
//
//go:embed templates/*.tmpl
var Templates embed.FS

var templates = template.Must(
	template.New("").Funcs(template.FuncMap{"quote": quote}).ParseFS(Templates, "templates/*.tmpl"),
)

// ErrExists is returned when the target file is already present.
var ErrExists = errors.New("scaffold: file already exists")

// PostData holds the values of a new post.
type PostData struct {
	Title       string
	Description string
	Category    content.Category
	Author      string
	Tags        []string
	Date        time.Time
	// Slug is written to the frontmatter only when it differs from the
	// file name.
	Slug string
}

// AuthorData holds the values of a new author profile.
type AuthorData struct {
	Name    string
	Bio     string
	Twitter string
	GitHub  string
}

// quote renders s as a double-quoted scalar, valid in both YAML and JSON.
func quote(s string) (string, error) {
	b, err := json.Marshal(s)
	return string(b), err
}

func (d *PostData) setDefaults() {
	if d.Description == "" {
		d.Description = d.Title
	}
	if d.Category == "" {
		d.Category = content.DefaultCategory
	}
	if d.Author == "" {
		d.Author = content.DefaultAuthor
	}
	if d.Date.IsZero() {
		d.Date = time.Now().UTC()
	}
}

// RenderPost renders a draft post and checks it against the content schema.
func RenderPost(d PostData) ([]byte, error) {
	d.setDefaults()
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "post.md.tmpl", d); err != nil {
		return nil, fmt.Errorf("scaffold: render post: %w", err)
	}
	if _, err := content.ParsePost("new post", content.Slugify(d.Title), buf.Bytes()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderAuthor renders an author profile as JSON.
func RenderAuthor(d AuthorData) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "author.json.tmpl", d); err != nil {
		return nil, fmt.Errorf("scaffold: render author: %w", err)
	}
	if _, err := content.ParseAuthor("new author.json", content.Slugify(d.Name), buf.Bytes()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// NewPost writes a draft post to <contentDir>/blog/<slug>.md and returns
// its path.
func NewPost(contentDir string, d PostData) (string, error) {
	slug := content.Slugify(d.Title)
	if slug == "" {
		return "", fmt.Errorf("scaffold: title %q has no usable characters", d.Title)
	}
	raw, err := RenderPost(d)
	if err != nil {
		return "", err
	}
	return create(filepath.Join(contentDir, content.BlogDir, slug+".md"), raw)
}

// NewAuthor writes <contentDir>/authors/<slug>.json and returns its path.
func NewAuthor(contentDir string, d AuthorData) (string, error) {
	slug := content.Slugify(d.Name)
	if slug == "" {
		return "", fmt.Errorf("scaffold: name %q has no usable characters", d.Name)
	}
	raw, err := RenderAuthor(d)
	if err != nil {
		return "", err
	}
	return create(filepath.Join(contentDir, content.AuthorsDir, slug+".json"), raw)
}

func create(path string, raw []byte) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%w: %s", ErrExists, path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := f.Write(raw); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}
