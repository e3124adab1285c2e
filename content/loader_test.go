package content

import (
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postFile(title, date string, extra string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte("---\ntitle: " + title + "\ndescription: d\npubDate: " + date + "\n" + extra + "---\nbody\n")}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"blog/b-second.md":             postFile("Second", "2024-02-01", ""),
		"blog/a-first.mdx":             postFile("First", "2024-01-01", "draft: true\n"),
		"blog/Guides/Stealth Intro.md": postFile("Guide", "2024-03-01", "category: tutorials\n"),
		"blog/_partial.md":             postFile("Partial", "2024-03-01", ""),
		"blog/notes.txt":               {Data: []byte("ignored")},
		"authors/team.json":            {Data: []byte(`{"name":"SIP Protocol Team"}`)},
		"authors/jane.md":              {Data: []byte("---\nname: Jane\n---\n")},
	}

	coll, err := LoadFS(fsys)
	require.NoError(t, err)

	ids := make([]string, len(coll.Posts))
	for i, p := range coll.Posts {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"guides/stealth-intro", "a-first", "b-second"}, ids)
	require.Len(t, coll.Authors, 2)
	assert.Equal(t, "jane", coll.Authors[0].ID)
	assert.Equal(t, "team", coll.Authors[1].ID)
}

func TestLoadFSJoinsErrors(t *testing.T) {
	fsys := fstest.MapFS{
		"blog/ok.md":       postFile("Fine", "2024-01-01", ""),
		"blog/bad-cat.md":  postFile("Bad", "2024-01-01", "category: memes\n"),
		"blog/bad-date.md": postFile("Bad", "tomorrow", ""),
		"authors/x.json":   {Data: []byte(`{}`)},
	}

	coll, err := LoadFS(fsys)
	require.Error(t, err)
	require.NotNil(t, coll)
	assert.Len(t, coll.Posts, 1)

	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok)
	errs := joined.Unwrap()
	require.Len(t, errs, 3)

	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		var ve *ValidationError
		require.True(t, errors.As(e, &ve))
		fields = append(fields, ve.Field)
	}
	assert.Equal(t, []string{"category", "pubDate", "name"}, fields)
}

func TestLoadFSDuplicateIDs(t *testing.T) {
	fsys := fstest.MapFS{
		"blog/one.md": postFile("One", "2024-01-01", "slug: same\n"),
		"blog/two.md": postFile("Two", "2024-01-02", "slug: same\n"),
	}
	_, err := LoadFS(fsys)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "id", ve.Field)
	assert.Equal(t, "unique", ve.Constraint)
}

func TestLoadMissingDirectories(t *testing.T) {
	coll, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, coll.Posts)
	assert.Empty(t, coll.Authors)
}

func TestSortByDateStable(t *testing.T) {
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	posts := []Post{
		{ID: "jan", PubDate: jan},
		{ID: "mar", PubDate: mar},
		{ID: "feb-a", PubDate: feb},
		{ID: "feb-b", PubDate: feb},
	}

	sorted := SortByDate(posts)
	var ids []string
	for _, p := range sorted {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"mar", "feb-a", "feb-b", "jan"}, ids)
	assert.Equal(t, "jan", posts[0].ID, "input must not be reordered")
}

func TestVisible(t *testing.T) {
	posts := []Post{{ID: "live"}, {ID: "draft", Draft: true}}
	assert.Len(t, Visible(posts, true), 1)
	assert.Len(t, Visible(posts, false), 2)
	assert.Equal(t, "live", Published(posts)[0].ID)
}

func TestIDFromPath(t *testing.T) {
	tests := map[string]string{
		"hello-world.md":               "hello-world",
		"Guides/Stealth Addresses.mdx": "guides/stealth-addresses",
		"2024/01/Release_Notes.md":     "2024/01/release-notes",
	}
	for in, want := range tests {
		assert.Equal(t, want, IDFromPath(in), in)
	}
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "hello-world", Slugify("  Hello, World!  "))
	assert.Equal(t, "sip-v2-release", Slugify("SIP v2 -- Release"))
	assert.Equal(t, "", Slugify("!!!"))
}
