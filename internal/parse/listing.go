package parse

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// JudgmentListing is one page of judgments search results.
type JudgmentListing struct {
	DocumentURLs []string
	NextPage     string
}

// Judgments parses a judgments search results page into document URLs and
// the next-page link, empty when exhausted.
func Judgments(data []byte, baseURL string) (JudgmentListing, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return JudgmentListing{}, fmt.Errorf("judgments listing: %w", err)
	}

	var listing JudgmentListing
	seen := make(map[string]bool)

	doc.Find(".judgment-listing__judgment a, .results__result-list a, li.judgment a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || seen[href] {
			return
		}
		seen[href] = true
		listing.DocumentURLs = append(listing.DocumentURLs, absoluteURL(baseURL, href))
	})

	doc.Find("a[rel='next'], .pagination__next a, a.pagination-next").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if href, ok := a.Attr("href"); ok {
			listing.NextPage = absoluteURL(baseURL, href)
			return false
		}
		return true
	})

	return listing, nil
}

// FeedEntries parses a legislation list feed page into document URIs.
type FeedListing struct {
	DocumentURIs []string
	MorePages    bool
}

// LegislationFeed parses one page of a legislation list feed. The feed is
// atom XML; each entry's id is the canonical document URI.
func LegislationFeed(data []byte) (FeedListing, error) {
	root, err := ParseTree(data)
	if err != nil {
		return FeedListing{}, fmt.Errorf("legislation feed: %w", err)
	}

	var listing FeedListing
	for _, entry := range root.FindAll("entry") {
		if id := entry.Child("id"); id != nil {
			uri := strings.TrimSpace(id.InnerText())
			if uri != "" {
				listing.DocumentURIs = append(listing.DocumentURIs, uri)
			}
		}
	}
	for _, link := range root.FindAll("link") {
		if link.Attr("rel") == "next" && link.Attr("href") != "" {
			listing.MorePages = true
			break
		}
	}
	return listing, nil
}

func absoluteURL(base, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(href, "/")
}
