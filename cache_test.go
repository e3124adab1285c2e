package sipblog

import (
	"errors"
	"testing"
	"time"

	"github.com/sip-protocol/blog-sip/content"
)

func TestPostCacheServesFromMemory(t *testing.T) {
	s := setupTestStore(t)
	if err := s.Sync([]content.Post{testPost("one", date(2024, 1, 1))}); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	c := NewPostCache(s, time.Hour)

	if _, err := c.All(); err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if err := s.Sync([]content.Post{testPost("two", date(2024, 1, 2))}); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	posts, _ := c.All()
	if len(posts) != 1 || posts[0].ID != "one" {
		t.Errorf("expected stale cached posts, got %v", ids(posts))
	}

	c.Invalidate()
	posts, _ = c.All()
	if len(posts) != 1 || posts[0].ID != "two" {
		t.Errorf("expected reload after Invalidate, got %v", ids(posts))
	}
}

func TestPostCacheExpires(t *testing.T) {
	s := setupTestStore(t)
	if err := s.Sync([]content.Post{testPost("one", date(2024, 1, 1))}); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	c := NewPostCache(s, 20*time.Millisecond)
	c.All()

	if err := s.Sync([]content.Post{testPost("two", date(2024, 1, 2))}); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	time.Sleep(40 * time.Millisecond)

	posts, _ := c.All()
	if len(posts) != 1 || posts[0].ID != "two" {
		t.Errorf("expected reload after ttl, got %v", ids(posts))
	}
}

func TestPostCacheEmptyStore(t *testing.T) {
	c := NewPostCache(setupTestStore(t), time.Hour)
	posts, err := c.All()
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if posts == nil || len(posts) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", posts)
	}
}

func TestPostCacheListPosts(t *testing.T) {
	s := setupTestStore(t)
	draft := testPost("draft", date(2024, 3, 1), "zk")
	draft.Draft = true
	posts := []content.Post{
		testPost("one", date(2024, 1, 1), "Privacy"),
		testPost("two", date(2024, 2, 1), "zk", "privacy"),
		draft,
	}
	if err := s.Sync(posts); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	c := NewPostCache(s, time.Hour)

	tests := []struct {
		name       string
		production bool
		tag        string
		want       []string
	}{
		{"production", true, "", []string{"two", "one"}},
		{"preview", false, "", []string{"draft", "two", "one"}},
		{"tag case-insensitive", true, "PRIVACY", []string{"two", "one"}},
		{"tag with drafts", false, "zk", []string{"draft", "two"}},
		{"unknown tag", true, "solana", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.ListPosts(tt.production, tt.tag)
			if err != nil {
				t.Fatalf("ListPosts failed: %v", err)
			}
			gotIDs := ids(got)
			if len(gotIDs) != len(tt.want) {
				t.Fatalf("got %v, want %v", gotIDs, tt.want)
			}
			for i := range tt.want {
				if gotIDs[i] != tt.want[i] {
					t.Errorf("got %v, want %v", gotIDs, tt.want)
					break
				}
			}
		})
	}

	tags, _ := c.ListTags(true)
	if len(tags) != 2 || tags[0] != "privacy" || tags[1] != "zk" {
		t.Errorf("ListTags(production) = %v, want [privacy zk]", tags)
	}
	tags, _ = c.ListTags(false)
	if len(tags) != 2 || tags[0] != "privacy" || tags[1] != "zk" {
		t.Errorf("ListTags(preview) = %v, want [privacy zk]", tags)
	}
}

func TestPostCacheGetPost(t *testing.T) {
	s := setupTestStore(t)
	draft := testPost("draft", date(2024, 3, 1))
	draft.Draft = true
	if err := s.Sync([]content.Post{draft}); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	c := NewPostCache(s, time.Hour)

	if _, err := c.GetPost("draft"); err != nil {
		t.Errorf("GetPost(draft) = %v, want nil", err)
	}
	if _, err := c.GetPost("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPost(missing) = %v, want ErrNotFound", err)
	}
}
