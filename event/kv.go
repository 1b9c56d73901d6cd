package event

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"
)

// Bucket names for the KV-backed store.
const (
	// BucketEvents holds the event records, keyed by event ID.
	BucketEvents = "LIFESTREAM_EVENTS"
	// BucketEventKeys maps dedup keys (source + foreign id) to event IDs.
	// Inserts reserve the dedup key with a conflict-checked create, which
	// is what enforces the (source, foreign id) uniqueness invariant.
	BucketEventKeys = "LIFESTREAM_EVENT_KEYS"
)

// KVStore is a Store backed by NATS JetStream KV.
type KVStore struct {
	events jetstream.KeyValue
	keys   jetstream.KeyValue
}

// NewKVStore creates a KVStore with the given JetStream context,
// creating the KV buckets if they don't exist.
func NewKVStore(ctx context.Context, js jetstream.JetStream) (*KVStore, error) {
	events, err := getOrCreateBucket(ctx, js, BucketEvents)
	if err != nil {
		return nil, fmt.Errorf("create events bucket: %w", err)
	}

	keys, err := getOrCreateBucket(ctx, js, BucketEventKeys)
	if err != nil {
		return nil, fmt.Errorf("create event keys bucket: %w", err)
	}

	return &KVStore{events: events, keys: keys}, nil
}

func getOrCreateBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, name)
	if err == nil {
		return kv, nil
	}
	// Bucket doesn't exist, create it
	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: fmt.Sprintf("Lifestream %s storage", strings.ToLower(name)),
		History:     5,
	})
}

// dedupKey builds the KV key for a (source, foreign id) pair. Foreign
// ids can carry characters KV keys don't allow (blog permalinks are
// URLs), so the id portion is base64-encoded.
func dedupKey(source Source, foreignID string) string {
	return fmt.Sprintf("%s.%s", source, base64.RawURLEncoding.EncodeToString([]byte(foreignID)))
}

// FindBySourceAndForeignID returns the event for the dedup key, or
// ErrNotFound when absent.
func (s *KVStore) FindBySourceAndForeignID(ctx context.Context, source Source, foreignID string) (*Event, error) {
	key := dedupKey(source, foreignID)
	entry, err := s.keys.Get(ctx, key)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event key: %w", err)
	}

	ev, err := s.getByID(ctx, string(entry.Value()))
	if errors.Is(err, ErrNotFound) {
		// A dedup key without its event record is a half-finished
		// insert. Release the reservation so the record can be
		// inserted again.
		if delErr := s.keys.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("release stale event key: %w", delErr)
		}
		return nil, ErrNotFound
	}

	return ev, err
}

func (s *KVStore) getByID(ctx context.Context, id string) (*Event, error) {
	entry, err := s.events.Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	var ev Event
	if err := json.Unmarshal(entry.Value(), &ev); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}

	return &ev, nil
}

// Insert stores a new event, reserving its dedup key first. A key
// collision returns ErrDuplicate.
func (s *KVStore) Insert(ctx context.Context, ev *Event) error {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if _, err := s.keys.Create(ctx, dedupKey(ev.Source, ev.ForeignID), []byte(ev.ID)); err != nil {
		if errors.Is(err, jetstream.ErrKeyExists) {
			return ErrDuplicate
		}
		return fmt.Errorf("reserve event key: %w", err)
	}

	if _, err := s.events.Put(ctx, ev.ID, data); err != nil {
		return fmt.Errorf("store event: %w", err)
	}

	return nil
}

// UpdateMetadata replaces the stored metadata snapshot of one event.
func (s *KVStore) UpdateMetadata(ctx context.Context, id string, metadata json.RawMessage) error {
	ev, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}

	ev.Metadata = metadata

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if _, err := s.events.Put(ctx, id, data); err != nil {
		return fmt.Errorf("update event: %w", err)
	}

	return nil
}

// isNotFound checks if an error indicates a key was not found.
func isNotFound(err error) bool {
	return errors.Is(err, jetstream.ErrKeyNotFound)
}
