package content

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Subdirectories of the content root holding each collection.
const (
	BlogDir    = "blog"
	AuthorsDir = "authors"
)

var (
	postExts   = map[string]bool{".md": true, ".mdx": true}
	authorExts = map[string]bool{".md": true, ".json": true}
)

// Collection is the full set of validated records loaded from a content
// root. It is built once and never mutated afterwards.
type Collection struct {
	Posts   []Post
	Authors []Author
}

// Load reads <dir>/blog and <dir>/authors. Files are visited in lexical
// order, which is also the order records appear in the Collection. Every
// file is validated; all failures are joined into the returned error and
// callers must treat a non-nil error as fatal. A missing collection
// directory yields an empty collection.
func Load(dir string) (*Collection, error) {
	return LoadFS(os.DirFS(dir))
}

// LoadFS is Load over an arbitrary file system.
func LoadFS(fsys fs.FS) (*Collection, error) {
	var (
		coll Collection
		errs []error
	)

	seen := make(map[string]string)
	err := walk(fsys, BlogDir, postExts, func(name, id string, raw []byte) {
		post, err := ParsePost(name, id, raw)
		if err != nil {
			errs = append(errs, err)
			return
		}
		if prev, dup := seen[post.ID]; dup {
			errs = append(errs, &ValidationError{Source: name, Field: "id", Constraint: "unique", Param: post.ID + " (" + prev + ")"})
			return
		}
		seen[post.ID] = name
		coll.Posts = append(coll.Posts, post)
	})
	if err != nil {
		return nil, err
	}

	err = walk(fsys, AuthorsDir, authorExts, func(name, id string, raw []byte) {
		author, err := ParseAuthor(name, id, raw)
		if err != nil {
			errs = append(errs, err)
			return
		}
		coll.Authors = append(coll.Authors, author)
	})
	if err != nil {
		return nil, err
	}

	return &coll, errors.Join(errs...)
}

func walk(fsys fs.FS, root string, exts map[string]bool, fn func(name, id string, raw []byte)) error {
	if _, err := fs.Stat(fsys, root); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fs.WalkDir(fsys, root, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), "_") || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		if !exts[strings.ToLower(path.Ext(name))] {
			return nil
		}
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("content: read %s: %w", name, err)
		}
		rel := strings.TrimPrefix(name, root+"/")
		fn(filepath.FromSlash(name), IDFromPath(rel), raw)
		return nil
	})
}

// IDFromPath derives a record identity from its path relative to the
// collection directory: the extension is dropped and every segment is
// slugified, so "Guides/Stealth Addresses.md" becomes
// "guides/stealth-addresses".
func IDFromPath(rel string) string {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	parts := strings.Split(rel, "/")
	out := parts[:0]
	for _, p := range parts {
		if s := Slugify(p); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "/")
}

// Slugify converts a title or file name to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
