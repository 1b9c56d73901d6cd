package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jacobemerick/lifestream-service/render"
)

// twitterTimeFormat is the created_at layout of the timeline API.
const twitterTimeFormat = "Mon Jan 02 15:04:05 -0700 2006"

// Tweet is one raw timeline record.
type Tweet struct {
	ID              int64           `json:"id"`
	Text            string          `json:"text"`
	CreatedAt       string          `json:"created_at"`
	FavoriteCount   int64           `json:"favorite_count"`
	RetweetCount    int64           `json:"retweet_count"`
	InReplyToUserID *int64          `json:"in_reply_to_user_id"`
	Entities        render.Entities `json:"entities"`
}

// ForeignID returns the tweet's source-local identifier.
func (t Tweet) ForeignID() string {
	return strconv.FormatInt(t.ID, 10)
}

// Time parses the tweet's creation timestamp.
func (t Tweet) Time() (time.Time, error) {
	return time.Parse(twitterTimeFormat, t.CreatedAt)
}

// IsReply reports whether the tweet is a reply, either by the API's
// reply marker or by the text addressing a user directly.
func (t Tweet) IsReply() bool {
	if t.InReplyToUserID != nil {
		return true
	}
	return strings.HasPrefix(t.Text, "@")
}

// TwitterClient fetches the user timeline from the twitter REST API.
type TwitterClient struct {
	httpClient *http.Client
	endpoint   string
	screenName string
	token      string
	pageSize   int
}

// NewTwitterClient creates a TwitterClient. The endpoint is the API
// base (e.g. https://api.twitter.com/1.1); token is a bearer token.
func NewTwitterClient(endpoint, screenName, token string, httpClient *http.Client) *TwitterClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &TwitterClient{
		httpClient: httpClient,
		endpoint:   strings.TrimRight(endpoint, "/"),
		screenName: screenName,
		token:      token,
		pageSize:   200,
	}
}

// FetchTweets retrieves the most recent page of the user timeline.
func (c *TwitterClient) FetchTweets(ctx context.Context) ([]Tweet, error) {
	query := url.Values{}
	query.Set("screen_name", c.screenName)
	query.Set("count", strconv.Itoa(c.pageSize))

	endpoint := c.endpoint + "/statuses/user_timeline.json?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build timeline request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch timeline: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error while trying to fetch timeline: %d", resp.StatusCode)
	}

	var tweets []Tweet
	if err := json.NewDecoder(resp.Body).Decode(&tweets); err != nil {
		return nil, fmt.Errorf("decode timeline: %w", err)
	}

	return tweets, nil
}
