package fetch

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mmcdole/gofeed"

	"github.com/abelbrown/epiwatch/internal/model"
)

// RSSFetcher retrieves announcements from a syndication feed. Used for
// secondary (tier 2 and below) health news sources.
type RSSFetcher struct {
	name   string
	url    string
	client *Client
}

// NewRSSFetcher creates a fetcher for the given feed URL.
func NewRSSFetcher(name, url string, client *Client) *RSSFetcher {
	return &RSSFetcher{name: name, url: url, client: client}
}

func (f *RSSFetcher) Name() string { return f.name }

// FetchLatest retrieves and converts the current feed contents.
func (f *RSSFetcher) FetchLatest(ctx context.Context) ([]model.RawEvent, error) {
	resp, err := f.client.Get(ctx, f.url, "application/rss+xml, application/xml")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	events := make([]model.RawEvent, 0, len(feed.Items))
	for _, item := range feed.Items {
		externalID := item.GUID
		if externalID == "" {
			externalID = item.Link
		}
		content := item.Description
		if content == "" {
			content = item.Title
		}

		events = append(events, model.RawEvent{
			ExternalID:  externalID,
			Title:       item.Title,
			Content:     content,
			RawURL:      item.Link,
			PublishedAt: item.Published,
		})
	}
	return events, nil
}
