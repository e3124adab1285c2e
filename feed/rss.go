package feed

import (
	"bytes"
	"encoding/xml"
	"html"
	"time"

	"github.com/sip-protocol/blog-sip/content"
)

// ContentNamespace is the RSS content module used for <content:encoded>.
const ContentNamespace = "http://purl.org/rss/1.0/modules/content/"

type rssXML struct {
	XMLName          xml.Name   `xml:"rss"`
	Version          string     `xml:"version,attr"`
	ContentNamespace string     `xml:"xmlns:content,attr"`
	Channel          rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Language    string    `xml:"language"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string      `xml:"title"`
	Link        string      `xml:"link"`
	GUID        rssGUID     `xml:"guid"`
	Description string      `xml:"description"`
	PubDate     string      `xml:"pubDate"`
	Categories  []string    `xml:"category"`
	Author      string      `xml:"author"`
	Content     *rssContent `xml:"content:encoded,omitempty"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type rssContent struct {
	Data string `xml:",cdata"`
}

// RSS renders an RSS 2.0 document of the given posts, newest first. In
// production drafts are left out; otherwise every post is included.
func RSS(site Site, posts []content.Post, production bool) ([]byte, error) {
	posts = content.SortByDate(content.Visible(posts, production))
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		link := site.PostURL(p.ID)
		author := p.Author
		if author == "" {
			author = site.Author
		}
		if author == "" {
			author = content.DefaultAuthor
		}
		tags := p.Tags
		if tags == nil {
			tags = []string{}
		}
		item := rssItem{
			Title:       p.Title,
			Link:        link,
			GUID:        rssGUID{IsPermaLink: true, Value: link},
			Description: p.Description,
			PubDate:     p.PubDate.UTC().Format(time.RFC1123Z),
			Categories:  tags,
			Author:      author,
		}
		if p.TLDR != "" {
			item.Content = &rssContent{Data: TLDRParagraph(p.TLDR)}
		}
		items = append(items, item)
	}
	doc := rssXML{
		Version:          "2.0",
		ContentNamespace: ContentNamespace,
		Channel: rssChannel{
			Title:       site.Title,
			Link:        BuildURL(site.URL),
			Description: site.Description,
			Language:    site.language(),
			Items:       items,
		},
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// TLDRParagraph is the HTML carried in <content:encoded> for posts with a
// summary. The summary is escaped so it can never close the CDATA section.
func TLDRParagraph(tldr string) string {
	return "<p><strong>TL;DR:</strong> " + html.EscapeString(tldr) + "</p>"
}
