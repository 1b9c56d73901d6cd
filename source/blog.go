// Package source provides the HTTP clients that fetch raw activity
// records from each upstream: the blog feed, the twitter timeline, and
// the code-hosting events stream. Clients own transport and payload
// decoding; the process package owns everything after that.
package source

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

// Post is one raw blog feed item. The permalink doubles as the source's
// foreign identifier.
type Post struct {
	Permalink string
	Title     string
	Published time.Time
}

// BlogClient fetches posts from an RSS or Atom feed.
type BlogClient struct {
	parser  *gofeed.Parser
	feedURL string
}

// NewBlogClient creates a BlogClient for the given feed URL. A nil
// httpClient falls back to the parser's default.
func NewBlogClient(feedURL string, httpClient *http.Client) *BlogClient {
	parser := gofeed.NewParser()
	if httpClient != nil {
		parser.Client = httpClient
	}

	return &BlogClient{parser: parser, feedURL: feedURL}
}

// FetchPosts retrieves and parses the feed. Non-success responses,
// unparseable feeds, and items missing a permalink or publish date all
// fail the fetch.
func (c *BlogClient) FetchPosts(ctx context.Context) ([]Post, error) {
	feed, err := c.parser.ParseURLWithContext(c.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch blog feed: %w", err)
	}

	posts := make([]Post, 0, len(feed.Items))
	for _, item := range feed.Items {
		permalink := item.GUID
		if permalink == "" {
			permalink = item.Link
		}
		if permalink == "" {
			return nil, fmt.Errorf("blog item %q has no permalink", item.Title)
		}

		published := item.PublishedParsed
		if published == nil {
			published = item.UpdatedParsed
		}
		if published == nil {
			return nil, fmt.Errorf("blog item %q has no publish date", permalink)
		}

		posts = append(posts, Post{
			Permalink: permalink,
			Title:     item.Title,
			Published: *published,
		})
	}

	return posts, nil
}
