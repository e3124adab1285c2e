// Package markdown provides the small amount of Markdown handling the blog
// needs outside of page rendering: splitting frontmatter from a source file
// and estimating how long the body takes to read.
package markdown

import (
	"bytes"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// WordsPerMinute is the average reading speed used by ReadingTime.
const WordsPerMinute = 200

var (
	reTag         = regexp.MustCompile(`<[^>]*>`)
	reCodeBlock   = regexp.MustCompile("```[\\s\\S]*?```")
	reInlineCode  = regexp.MustCompile("`[^`]*`")
	reImg         = regexp.MustCompile(`!\[.*?\]\(.*?\)`)
	reLink        = regexp.MustCompile(`\[.*?\]\(.*?\)`)
	reHeading     = regexp.MustCompile(`#{1,6}\s`)
	reFormatChars = regexp.MustCompile("[*_~`]")
)

// ErrUnterminatedFrontmatter is returned when a file opens a frontmatter
// fence but never closes it.
var ErrUnterminatedFrontmatter = errors.New("markdown: unterminated frontmatter")

// SplitFrontmatter separates a leading "---" delimited YAML block from the
// Markdown body. A file without an opening fence has no frontmatter.
func SplitFrontmatter(src []byte) (frontmatter, body []byte, err error) {
	src = bytes.TrimPrefix(src, []byte("\ufeff"))
	first, rest, _ := bytes.Cut(src, []byte("\n"))
	if string(bytes.TrimRight(first, " \t\r")) != "---" {
		return nil, src, nil
	}
	lines := bytes.SplitAfter(rest, []byte("\n"))
	offset := 0
	for _, line := range lines {
		if string(bytes.TrimRight(line, " \t\r\n")) == "---" {
			return rest[:offset], rest[offset+len(line):], nil
		}
		offset += len(line)
	}
	return nil, nil, ErrUnterminatedFrontmatter
}

// PlainText strips markup from md so that only readable words remain.
// Code blocks go before inline code so fences are never counted twice, and
// images and links go before formatting characters so their targets never
// leak into the text.
func PlainText(md string) string {
	text := reTag.ReplaceAllString(md, "")
	text = reCodeBlock.ReplaceAllString(text, "")
	text = reInlineCode.ReplaceAllString(text, "")
	text = reImg.ReplaceAllString(text, "")
	text = reLink.ReplaceAllString(text, "")
	text = reHeading.ReplaceAllString(text, "")
	text = reFormatChars.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// WordCount returns the number of readable words in md.
func WordCount(md string) int {
	return len(strings.Fields(PlainText(md)))
}

// ReadingTime estimates the minutes needed to read md. It never returns
// less than one minute.
func ReadingTime(md string) int {
	minutes := int(math.Ceil(float64(WordCount(md)) / WordsPerMinute))
	return max(1, minutes)
}

// FormatReadingTime renders minutes as "N min read".
func FormatReadingTime(minutes int) string {
	return strconv.Itoa(minutes) + " min read"
}
