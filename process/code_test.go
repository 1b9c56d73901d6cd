package process

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacobemerick/lifestream-service/event"
	"github.com/jacobemerick/lifestream-service/source"
)

func codeEvent(id, eventType, refType string) source.CodeEvent {
	return source.CodeEvent{
		ID:        id,
		Type:      eventType,
		CreatedAt: time.Date(2016, 6, 30, 12, 0, 0, 0, time.UTC),
		Payload:   source.CodePayload{RefType: refType},
		Repo:      source.CodeRepo{Name: "jacobemerick/web"},
	}
}

func TestCode_InsertsSupportedSubtypes(t *testing.T) {
	tests := []struct {
		name      string
		eventType string
		refType   string
	}{
		{"branch creation", "CreateEvent", "branch"},
		{"tag creation", "CreateEvent", "tag"},
		{"repository creation", "CreateEvent", "repository"},
		{"fork", "ForkEvent", ""},
		{"pull request", "PullRequestEvent", ""},
		{"push", "PushEvent", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := event.NewMemoryStore()
			src := &fakeCodeSource{events: []source.CodeEvent{codeEvent("900", tt.eventType, tt.refType)}}

			report, err := NewCode(src, store, "Jacob Emerick", nil).Sync(context.Background())
			require.NoError(t, err)
			assert.Equal(t, Report{Inserted: 1}, report)

			ev, err := store.FindBySourceAndForeignID(context.Background(), event.SourceCode, "900")
			require.NoError(t, err)
			assert.Equal(t, "wrote some code", ev.Description)
			assert.Equal(t, "wrote some code", ev.DescriptionHTML)
			assert.Equal(t, "code", ev.Type)
			assert.JSONEq(t, `{}`, string(ev.Metadata))
		})
	}
}

func TestCode_SkipsUnknownSubtype(t *testing.T) {
	store := &trackingStore{Store: event.NewMemoryStore()}
	src := &fakeCodeSource{events: []source.CodeEvent{
		codeEvent("1", "WatchEvent", ""),
		codeEvent("2", "PushEvent", ""),
	}}

	// The unknown subtype is skipped and the loop continues.
	report, err := NewCode(src, store, "Jacob Emerick", nil).Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Report{Inserted: 1, Skipped: 1}, report)
	assert.Equal(t, 1, store.inserts)
}

func TestCode_SkipsUnknownCreateRefType(t *testing.T) {
	store := event.NewMemoryStore()
	src := &fakeCodeSource{events: []source.CodeEvent{codeEvent("3", "CreateEvent", "wiki")}}

	report, err := NewCode(src, store, "Jacob Emerick", nil).Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Report{Skipped: 1}, report)
}

func TestCode_SkipsExistingEvent(t *testing.T) {
	store := &trackingStore{Store: event.NewMemoryStore()}
	ctx := context.Background()
	require.NoError(t, store.Store.Insert(ctx, &event.Event{Source: event.SourceCode, ForeignID: "4"}))

	src := &fakeCodeSource{events: []source.CodeEvent{codeEvent("4", "PushEvent", "")}}
	report, err := NewCode(src, store, "Jacob Emerick", nil).Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, Report{Skipped: 1}, report)
	assert.Equal(t, 0, store.inserts)
}

func TestCode_FetchFailureAbortsRun(t *testing.T) {
	src := &fakeCodeSource{err: errors.New("events unavailable")}

	_, err := NewCode(src, event.NewMemoryStore(), "Jacob Emerick", nil).Sync(context.Background())
	require.Error(t, err)
}

func TestCode_StorageFailureAbortsRun(t *testing.T) {
	store := &trackingStore{Store: event.NewMemoryStore(), insertErr: errStorage}
	src := &fakeCodeSource{events: []source.CodeEvent{
		codeEvent("5", "PushEvent", ""),
		codeEvent("6", "PushEvent", ""),
	}}

	report, err := NewCode(src, store, "Jacob Emerick", nil).Sync(context.Background())
	require.ErrorIs(t, err, errStorage)
	assert.Equal(t, Report{Failed: 1}, report)
	assert.Equal(t, 1, store.inserts)
}

func TestCode_RepeatedRunIsIdempotent(t *testing.T) {
	store := event.NewMemoryStore()
	ctx := context.Background()

	src := &fakeCodeSource{events: []source.CodeEvent{codeEvent("7", "ForkEvent", "")}}
	syncer := NewCode(src, store, "Jacob Emerick", nil)

	first, err := syncer.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, Report{Inserted: 1}, first)

	second, err := syncer.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, Report{Skipped: 1}, second)
}
