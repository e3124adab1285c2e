package sipblog

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/sip-protocol/blog-sip/content"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = errors.New("sipblog: post not found")

// Store is a SQLite index of the loaded content collection. It is rebuilt
// from the content files on every start; the files stay the source of truth.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets readers proceed during a Sync; busy_timeout makes writers wait
	// instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    id TEXT PRIMARY KEY,
    seq INTEGER NOT NULL,
    pub_unix INTEGER NOT NULL,
    category TEXT NOT NULL,
    tags TEXT NOT NULL,
    draft INTEGER NOT NULL DEFAULT 0,
    no_index INTEGER NOT NULL DEFAULT 0,
    data TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS posts_by_date ON posts (pub_unix DESC, seq ASC);
`)
	return err
}

// Sync replaces the index with posts in a single transaction. The slice
// order is kept as the tie-break for posts published at the same instant.
func (s *Store) Sync(posts []content.Post) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM posts`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO posts (id, seq, pub_unix, category, tags, draft, no_index, data) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, p := range posts {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode post %s: %w", p.ID, err)
		}
		if _, err := stmt.Exec(p.ID, i, p.PubDate.UnixNano(), string(p.Category), joinTags(p.Tags), boolInt(p.Draft), boolInt(p.NoIndex), string(data)); err != nil {
			return fmt.Errorf("index post %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

// ListPosts returns posts newest first. Drafts are included only when
// includeDrafts is true.
func (s *Store) ListPosts(includeDrafts bool) ([]content.Post, error) {
	query := `SELECT data FROM posts WHERE draft = 0 ORDER BY pub_unix DESC, seq ASC`
	if includeDrafts {
		query = `SELECT data FROM posts ORDER BY pub_unix DESC, seq ASC`
	}
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []content.Post
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var p content.Post
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// GetPost returns a post by id, drafts included.
func (s *Store) GetPost(id string) (content.Post, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM posts WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return content.Post{}, ErrNotFound
	}
	if err != nil {
		return content.Post{}, err
	}
	var p content.Post
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return content.Post{}, err
	}
	return p, nil
}

// Count returns the number of indexed posts, drafts included.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&n)
	return n, err
}

// ListTags returns the sorted, deduplicated tags of non-draft posts, or of
// every post when includeDrafts is set.
func (s *Store) ListTags(includeDrafts bool) ([]string, error) {
	rows, err := s.db.Query(`SELECT tags FROM posts WHERE draft = 0 OR ? = 1`, boolInt(includeDrafts))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, err
		}
		for _, t := range strings.Split(strings.Trim(tags, ","), ",") {
			if t != "" {
				set[t] = struct{}{}
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	result := make([]string, 0, len(set))
	for t := range set {
		result = append(result, t)
	}
	sort.Strings(result)
	return result, nil
}

// joinTags stores tags normalized as ",a,b,".
func joinTags(tags []string) string {
	normalized := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = normalizeTag(t); t != "" {
			normalized = append(normalized, t)
		}
	}
	return "," + strings.Join(normalized, ",") + ","
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
