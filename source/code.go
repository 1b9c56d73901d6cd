package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// CodePayload carries the subtype-specific fields of a code-hosting
// activity event. Only the fields the normalization rules consult are
// decoded.
type CodePayload struct {
	RefType string `json:"ref_type"`
	Ref     string `json:"ref"`
	Action  string `json:"action"`
}

// CodeRepo identifies the repository an event happened in.
type CodeRepo struct {
	Name string `json:"name"`
}

// CodeEvent is one raw code-hosting activity record.
type CodeEvent struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	CreatedAt time.Time   `json:"created_at"`
	Payload   CodePayload `json:"payload"`
	Repo      CodeRepo    `json:"repo"`
}

// CodeClient fetches the public activity stream of one user from the
// code-hosting API.
type CodeClient struct {
	httpClient *http.Client
	endpoint   string
	username   string
}

// NewCodeClient creates a CodeClient. The endpoint is the API base
// (e.g. https://api.github.com).
func NewCodeClient(endpoint, username string, httpClient *http.Client) *CodeClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &CodeClient{
		httpClient: httpClient,
		endpoint:   strings.TrimRight(endpoint, "/"),
		username:   username,
	}
}

// FetchEvents retrieves the most recent page of the user's activity.
func (c *CodeClient) FetchEvents(ctx context.Context) ([]CodeEvent, error) {
	endpoint := fmt.Sprintf("%s/users/%s/events", c.endpoint, c.username)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build events request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch code events: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error while trying to fetch code events: %d", resp.StatusCode)
	}

	var events []CodeEvent
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("decode code events: %w", err)
	}

	return events, nil
}
