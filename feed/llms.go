package feed

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sip-protocol/blog-sip/content"
)

const (
	llmsPostsPerCategory = 5
	llmsRecentPosts      = 10
)

// LLMsAbout is the fixed "About" section of llms.txt.
var LLMsAbout = []string{
	"SIP (Shielded Intents Protocol) is the privacy standard for Web3.",
	"This blog covers technical deep-dives, ecosystem updates, and privacy thought leadership.",
}

// LLMsTopics is the fixed "Topics" list of llms.txt.
var LLMsTopics = []string{
	"Privacy in blockchain transactions",
	"Stealth addresses and Pedersen commitments",
	"Viewing keys for compliance",
	"Cross-chain privacy solutions",
	"Solana and Ethereum privacy",
}

// LLMsLink is an entry of the "Links" section.
type LLMsLink struct {
	Label string
	URL   string
}

// LLMsLinks are the static links listed before the RSS feed link.
var LLMsLinks = []LLMsLink{
	{"Main Site", "https://sip-protocol.org"},
	{"Documentation", "https://docs.sip-protocol.org"},
	{"GitHub", "https://github.com/sip-protocol"},
}

// LLMs renders the llms.txt index (https://llmstxt.org/) of the published
// posts. Drafts are always excluded. The output depends only on its inputs.
func LLMs(site Site, posts []content.Post) string {
	sorted := content.SortByDate(content.Published(posts))

	var order []string
	byCategory := make(map[string][]content.Post)
	for _, p := range sorted {
		category := string(p.Category)
		if category == "" {
			category = "uncategorized"
		}
		if _, ok := byCategory[category]; !ok {
			order = append(order, category)
		}
		byCategory[category] = append(byCategory[category], p)
	}

	lines := []string{
		"# " + site.Title,
		"",
		"> " + site.Description,
		"",
		"## About",
		"",
	}
	lines = append(lines, LLMsAbout...)
	lines = append(lines, "", "## Topics", "")
	for _, topic := range LLMsTopics {
		lines = append(lines, "- "+topic)
	}
	lines = append(lines, "", "## Content Categories", "")

	for _, category := range order {
		lines = append(lines, "### "+capitalize(category), "")
		group := byCategory[category]
		if len(group) > llmsPostsPerCategory {
			group = group[:llmsPostsPerCategory]
		}
		for _, p := range group {
			lines = append(lines, "- ["+p.Title+"]("+site.PostURL(p.ID)+")")
			if p.TLDR != "" {
				lines = append(lines, "  "+p.TLDR)
			}
		}
		lines = append(lines, "")
	}

	lines = append(lines, "## Recent Posts", "")
	recent := sorted
	if len(recent) > llmsRecentPosts {
		recent = recent[:llmsRecentPosts]
	}
	for _, p := range recent {
		date := p.PubDate.UTC().Format("2006-01-02")
		lines = append(lines, "- ["+p.Title+"]("+site.PostURL(p.ID)+") ("+date+")")
		lines = append(lines, "  "+p.Description)
		if p.TLDR != "" {
			lines = append(lines, "  TL;DR: "+p.TLDR)
		}
		lines = append(lines, "")
	}

	lines = append(lines, "## Links", "")
	for _, l := range LLMsLinks {
		lines = append(lines, "- "+l.Label+": "+l.URL)
	}
	lines = append(lines, "- RSS Feed: "+strings.TrimRight(site.URL, "/")+"/rss.xml", "")

	return strings.Join(lines, "\n")
}

// capitalize upper-cases the first letter only: "thought-leadership"
// becomes "Thought-leadership".
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
