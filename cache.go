package sipblog

import (
	"sync"
	"time"

	"github.com/sip-protocol/blog-sip/content"
)

// snapshot is one immutable read of the index.
type snapshot struct {
	posts   []content.Post
	byID    map[string]int
	tags    []string // non-draft posts only
	allTags []string
	taken   time.Time
}

func (s *snapshot) fresh(ttl time.Duration) bool {
	return s != nil && time.Since(s.taken) < ttl
}

// PostCache keeps every indexed post (drafts included) and the tag lists
// in memory, re-reading the Store once ttl has passed.
type PostCache struct {
	store *Store
	ttl   time.Duration

	mu   sync.RWMutex
	snap *snapshot
}

// NewPostCache creates a PostCache backed by the given Store.
func NewPostCache(s *Store, ttl time.Duration) *PostCache {
	return &PostCache{store: s, ttl: ttl}
}

// Invalidate drops the current snapshot; the next read goes to the Store.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.snap = nil
	c.mu.Unlock()
}

func (c *PostCache) current() (*snapshot, error) {
	c.mu.RLock()
	s := c.snap
	c.mu.RUnlock()
	if s.fresh(c.ttl) {
		return s, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snap.fresh(c.ttl) {
		return c.snap, nil
	}
	s, err := c.read()
	if err != nil {
		return nil, err
	}
	c.snap = s
	return s, nil
}

func (c *PostCache) read() (*snapshot, error) {
	posts, err := c.store.ListPosts(true)
	if err != nil {
		return nil, err
	}
	tags, err := c.store.ListTags(false)
	if err != nil {
		return nil, err
	}
	allTags, err := c.store.ListTags(true)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []content.Post{}
	}
	byID := make(map[string]int, len(posts))
	for i, p := range posts {
		byID[p.ID] = i
	}
	return &snapshot{posts: posts, byID: byID, tags: tags, allTags: allTags, taken: time.Now()}, nil
}

// All returns every post newest first, drafts included. Callers must not
// modify the returned slice.
func (c *PostCache) All() ([]content.Post, error) {
	s, err := c.current()
	if err != nil {
		return nil, err
	}
	return s.posts, nil
}

// ListPosts returns the posts visible in the given mode. A non-empty tag
// keeps only posts carrying it, compared case-insensitively.
func (c *PostCache) ListPosts(production bool, tag string) ([]content.Post, error) {
	s, err := c.current()
	if err != nil {
		return nil, err
	}
	visible := content.Visible(s.posts, production)
	if tag == "" {
		return visible, nil
	}
	want := normalizeTag(tag)
	out := visible[:0]
	for _, p := range visible {
		if hasTag(p, want) {
			out = append(out, p)
		}
	}
	return out, nil
}

// ListTags returns the distinct tags of the posts visible in the given
// mode: non-draft posts in production, every post otherwise.
func (c *PostCache) ListTags(production bool) ([]string, error) {
	s, err := c.current()
	if err != nil {
		return nil, err
	}
	if production {
		return s.tags, nil
	}
	return s.allTags, nil
}

// GetPost looks up a post by id, drafts included.
func (c *PostCache) GetPost(id string) (content.Post, error) {
	s, err := c.current()
	if err != nil {
		return content.Post{}, err
	}
	i, ok := s.byID[id]
	if !ok {
		return content.Post{}, ErrNotFound
	}
	return s.posts[i], nil
}

func hasTag(p content.Post, normalized string) bool {
	for _, t := range p.Tags {
		if normalizeTag(t) == normalized {
			return true
		}
	}
	return false
}
