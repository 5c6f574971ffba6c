package feed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/wrenfield/curator/internal/domain"
)

// summaryLimit caps feed summaries at a preview length.
const summaryLimit = 150

// RSSAdapter handles generic RSS and Atom feeds. It is the default
// adapter: any URL the specialized adapters reject lands here.
type RSSAdapter struct {
	client *Client
	now    func() time.Time
}

func NewRSSAdapter(client *Client) *RSSAdapter {
	return &RSSAdapter{client: client, now: time.Now}
}

func (a *RSSAdapter) Name() string { return "rss" }

// Match always succeeds; the dispatcher keeps this adapter last.
func (a *RSSAdapter) Match(string) bool { return true }

func (a *RSSAdapter) Fetch(ctx context.Context, sourceURL string, _ []string) ([]domain.Resource, error) {
	raw, err := a.client.GetBytes(ctx, sourceURL)
	if err != nil {
		return nil, err
	}

	parsed, err := gofeed.NewParser().ParseString(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", sourceURL, err)
	}

	channel := parsed.Title
	if channel == "" {
		channel = "Blog Feed"
	}

	ingested := a.now()
	resources := make([]domain.Resource, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		externalID := item.GUID
		if externalID == "" {
			externalID = item.Link
		}

		title := item.Title
		if title == "" {
			title = "No Title"
		}

		published := ingested
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}

		resources = append(resources, domain.Resource{
			PluginID:    domain.PluginID,
			ExternalID:  externalID,
			Title:       title,
			URL:         item.Link,
			Summary:     previewText(item.Description),
			PublishedAt: published,
			IngestedAt:  ingested,
			Status:      domain.StatusNew,
			NativeData: map[string]any{
				"source":  "rss",
				"channel": channel,
			},
		})
	}

	return resources, nil
}

// previewText strips markup from a feed description and caps it at the
// preview length.
func previewText(html string) string {
	text := strings.TrimSpace(stripHTML(html))
	runes := []rune(text)
	if len(runes) <= summaryLimit {
		return text
	}
	return string(runes[:summaryLimit]) + "..."
}

func stripHTML(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return doc.Text()
}
