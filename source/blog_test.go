package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Waterfalls of the Keweenaw</title>
    <link>https://jacobemerick.com/blog</link>
    <item>
      <title>Hungarian Falls in Spring</title>
      <link>https://jacobemerick.com/blog/hungarian-falls-in-spring</link>
      <guid>https://jacobemerick.com/blog/hungarian-falls-in-spring</guid>
      <pubDate>Sun, 01 May 2016 08:30:00 +0000</pubDate>
    </item>
    <item>
      <title>Jacob&#8217;s Falls</title>
      <link>https://jacobemerick.com/blog/jacobs-falls</link>
      <pubDate>Mon, 02 May 2016 06:00:00 +0000</pubDate>
    </item>
  </channel>
</rss>`

func TestBlogClient_FetchPosts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(testFeed))
	}))
	defer server.Close()

	client := NewBlogClient(server.URL, server.Client())
	posts, err := client.FetchPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, "https://jacobemerick.com/blog/hungarian-falls-in-spring", posts[0].Permalink)
	assert.Equal(t, "Hungarian Falls in Spring", posts[0].Title)
	assert.Equal(t, 2016, posts[0].Published.Year())
	assert.Equal(t, 8, posts[0].Published.Hour())

	// Without a guid the link becomes the permalink.
	assert.Equal(t, "https://jacobemerick.com/blog/jacobs-falls", posts[1].Permalink)
	assert.Equal(t, "Jacob’s Falls", posts[1].Title)
}

func TestBlogClient_MissingPublishDate(t *testing.T) {
	feed := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Broken</title>
    <item>
      <title>No Date</title>
      <link>https://jacobemerick.com/blog/no-date</link>
    </item>
  </channel>
</rss>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feed))
	}))
	defer server.Close()

	client := NewBlogClient(server.URL, server.Client())
	_, err := client.FetchPosts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no publish date")
}

func TestBlogClient_FetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewBlogClient(server.URL, server.Client())
	_, err := client.FetchPosts(context.Background())
	require.Error(t, err)
}
