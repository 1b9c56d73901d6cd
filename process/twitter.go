package process

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jacobemerick/lifestream-service/event"
	"github.com/jacobemerick/lifestream-service/render"
	"github.com/jacobemerick/lifestream-service/source"
)

// TweetSource fetches raw timeline records.
type TweetSource interface {
	FetchTweets(ctx context.Context) ([]source.Tweet, error)
}

// TwitterMeta is the normalized metadata snapshot persisted with a
// twitter event. It is the only part of the event refreshed after
// insert.
type TwitterMeta struct {
	Favorites int64 `json:"favorites"`
	Retweets  int64 `json:"retweets"`
}

// Twitter synchronizes the social-media timeline into the event store.
type Twitter struct {
	source TweetSource
	store  event.Store
	author string
	logger *slog.Logger
}

// NewTwitter creates a Twitter synchronizer.
func NewTwitter(src TweetSource, store event.Store, author string, logger *slog.Logger) *Twitter {
	if logger == nil {
		logger = slog.Default()
	}

	return &Twitter{source: src, store: store, author: author, logger: logger}
}

// Sync runs one synchronization pass over the timeline.
func (t *Twitter) Sync(ctx context.Context) (Report, error) {
	var report Report

	tweets, err := t.source.FetchTweets(ctx)
	if err != nil {
		t.logger.Error("Failed to fetch tweets", "error", err)
		return report, err
	}

	for _, tweet := range tweets {
		o, err := t.processTweet(ctx, tweet)
		if err != nil {
			t.logger.Error("Failed to process tweet", "id", tweet.ForeignID(), "error", err)
			report.Failed++
			return report, err
		}
		report.add(o)
	}

	return report, nil
}

func (t *Twitter) processTweet(ctx context.Context, tweet source.Tweet) (outcome, error) {
	existing, err := t.store.FindBySourceAndForeignID(ctx, event.SourceTwitter, tweet.ForeignID())
	if err != nil && !errors.Is(err, event.ErrNotFound) {
		return outcomeSkipped, fmt.Errorf("find twitter event: %w", err)
	}

	meta := TwitterMeta{
		Favorites: tweet.FavoriteCount,
		Retweets:  tweet.RetweetCount,
	}

	// The reply rule runs before the lookup result is consulted, so a
	// stored reply that drops to zero engagement is never revisited.
	if tweet.IsReply() && meta.Favorites < 1 && meta.Retweets < 1 {
		t.logger.Debug("Skipping tweet, generic reply", "id", tweet.ForeignID())
		return outcomeSkipped, nil
	}

	if existing == nil {
		if err := t.insertTweet(ctx, tweet, meta); err != nil {
			if errors.Is(err, errSkipRecord) {
				t.logger.Debug("Skipping tweet", "id", tweet.ForeignID(), "error", err)
				return outcomeSkipped, nil
			}
			return outcomeSkipped, fmt.Errorf("insert twitter event: %w", err)
		}

		t.logger.Debug("Added twitter event", "id", tweet.ForeignID())
		return outcomeInserted, nil
	}

	if MetadataChanged(existing.Metadata, meta) {
		data, err := json.Marshal(meta)
		if err != nil {
			return outcomeSkipped, fmt.Errorf("marshal twitter metadata: %w", err)
		}
		if err := t.store.UpdateMetadata(ctx, existing.ID, data); err != nil {
			return outcomeSkipped, fmt.Errorf("update twitter event metadata: %w", err)
		}

		t.logger.Debug("Updated twitter event metadata", "id", tweet.ForeignID())
		return outcomeUpdated, nil
	}

	return outcomeSkipped, nil
}

// insertTweet normalizes a tweet and writes it through the store.
// Normalization failures come back wrapped in errSkipRecord; store
// failures do not.
func (t *Twitter) insertTweet(ctx context.Context, tweet source.Tweet, meta TwitterMeta) error {
	description, err := render.Plain(tweet.Text, tweet.Entities)
	if err != nil {
		return fmt.Errorf("%w: render description: %v", errSkipRecord, err)
	}

	descriptionHTML, err := render.HTML(tweet.Text, tweet.Entities)
	if err != nil {
		return fmt.Errorf("%w: render html description: %v", errSkipRecord, err)
	}

	timestamp, err := tweet.Time()
	if err != nil {
		return fmt.Errorf("%w: parse tweet timestamp: %v", errSkipRecord, err)
	}

	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal twitter metadata: %w", err)
	}

	return t.store.Insert(ctx, &event.Event{
		Source:          event.SourceTwitter,
		ForeignID:       tweet.ForeignID(),
		Description:     description,
		DescriptionHTML: descriptionHTML,
		Timestamp:       timestamp,
		Metadata:        data,
		Author:          t.author,
		Type:            string(event.SourceTwitter),
	})
}
