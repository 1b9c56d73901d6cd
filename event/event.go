// Package event defines the unified lifestream event model and its
// storage contract, with a NATS JetStream KV implementation.
package event

import (
	"context"
	"encoding/json"
	"time"
)

// Source identifies the upstream origin of an event.
type Source string

const (
	SourceBlog    Source = "blog"
	SourceTwitter Source = "twitter"
	SourceCode    Source = "code"
)

// Event is one normalized activity record. The pair (Source, ForeignID)
// is the sole deduplication key and must be unique in any store.
// Description, DescriptionHTML, and Author are set once at insert;
// only Metadata is mutated afterwards.
type Event struct {
	ID              string          `json:"id"`
	Source          Source          `json:"source"`
	ForeignID       string          `json:"foreign_id"`
	Description     string          `json:"description"`
	DescriptionHTML string          `json:"description_html"`
	Timestamp       time.Time       `json:"timestamp"`
	Metadata        json.RawMessage `json:"metadata,omitempty"`
	Author          string          `json:"author"`
	Type            string          `json:"type"`
}

// Store persists unified events keyed by (source, foreign id).
type Store interface {
	// FindBySourceAndForeignID returns the event for the dedup key, or
	// ErrNotFound when absent.
	FindBySourceAndForeignID(ctx context.Context, source Source, foreignID string) (*Event, error)

	// Insert stores a new event, assigning its ID when empty. It returns
	// ErrDuplicate when the (source, foreign id) pair already exists.
	Insert(ctx context.Context, ev *Event) error

	// UpdateMetadata replaces the metadata snapshot of the event with the
	// given ID, leaving every other field untouched.
	UpdateMetadata(ctx context.Context, id string, metadata json.RawMessage) error
}
