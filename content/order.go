package content

import "sort"

// SortByDate returns a copy of posts ordered by publish date, newest first.
// Posts published at the same instant keep their input order.
func SortByDate(posts []Post) []Post {
	sorted := make([]Post, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PubDate.After(sorted[j].PubDate)
	})
	return sorted
}

// Published returns the posts that are not drafts, preserving order.
func Published(posts []Post) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if !p.Draft {
			out = append(out, p)
		}
	}
	return out
}

// Visible returns the posts a build should expose: drafts are dropped in
// production and kept otherwise.
func Visible(posts []Post, production bool) []Post {
	if production {
		return Published(posts)
	}
	out := make([]Post, len(posts))
	copy(out, posts)
	return out
}
