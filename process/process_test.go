package process

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jacobemerick/lifestream-service/event"
	"github.com/jacobemerick/lifestream-service/source"
)

// Test doubles shared by the synchronizer tests.

type fakeTweetSource struct {
	tweets []source.Tweet
	err    error
}

func (f *fakeTweetSource) FetchTweets(context.Context) ([]source.Tweet, error) {
	return f.tweets, f.err
}

type fakeCodeSource struct {
	events []source.CodeEvent
	err    error
}

func (f *fakeCodeSource) FetchEvents(context.Context) ([]source.CodeEvent, error) {
	return f.events, f.err
}

type fakePostSource struct {
	posts []source.Post
	err   error
}

func (f *fakePostSource) FetchPosts(context.Context) ([]source.Post, error) {
	return f.posts, f.err
}

// trackingStore wraps a Store and counts mutation attempts.
type trackingStore struct {
	event.Store
	inserts   int
	updates   int
	insertErr error
	updateErr error
}

func (s *trackingStore) Insert(ctx context.Context, ev *event.Event) error {
	s.inserts++
	if s.insertErr != nil {
		return s.insertErr
	}
	return s.Store.Insert(ctx, ev)
}

func (s *trackingStore) UpdateMetadata(ctx context.Context, id string, metadata json.RawMessage) error {
	s.updates++
	if s.updateErr != nil {
		return s.updateErr
	}
	return s.Store.UpdateMetadata(ctx, id, metadata)
}

var errStorage = errors.New("storage unavailable")
