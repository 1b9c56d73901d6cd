package process

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"

	"github.com/jacobemerick/lifestream-service/event"
	"github.com/jacobemerick/lifestream-service/render"
	"github.com/jacobemerick/lifestream-service/source"
)

// PostSource fetches raw blog feed items.
type PostSource interface {
	FetchPosts(ctx context.Context) ([]source.Post, error)
}

// Blog synchronizes the blog feed into the event store. Posts are
// insert-only; the permalink is the foreign identifier.
type Blog struct {
	source PostSource
	store  event.Store
	author string
	logger *slog.Logger
}

// NewBlog creates a Blog synchronizer.
func NewBlog(src PostSource, store event.Store, author string, logger *slog.Logger) *Blog {
	if logger == nil {
		logger = slog.Default()
	}

	return &Blog{source: src, store: store, author: author, logger: logger}
}

// Sync runs one synchronization pass over the feed.
func (b *Blog) Sync(ctx context.Context) (Report, error) {
	var report Report

	posts, err := b.source.FetchPosts(ctx)
	if err != nil {
		b.logger.Error("Failed to fetch blog posts", "error", err)
		return report, err
	}

	for _, post := range posts {
		existing, err := b.store.FindBySourceAndForeignID(ctx, event.SourceBlog, post.Permalink)
		if err != nil && !errors.Is(err, event.ErrNotFound) {
			b.logger.Error("Failed to look up blog post", "permalink", post.Permalink, "error", err)
			report.Failed++
			return report, fmt.Errorf("find blog event: %w", err)
		}
		if existing != nil {
			report.Skipped++
			continue
		}

		// The anchor markup needs its own escaping before the entity
		// encoding pass, which only touches non-ASCII runes.
		htmlTitle := render.EncodeEntities(html.EscapeString(post.Title))
		htmlPermalink := html.EscapeString(post.Permalink)

		insert := &event.Event{
			Source:          event.SourceBlog,
			ForeignID:       post.Permalink,
			Description:     "Blogged | " + render.EncodeEntities(post.Title),
			DescriptionHTML: fmt.Sprintf(`<p><a href="%s">%s</a></p>`, htmlPermalink, htmlTitle),
			Timestamp:       post.Published,
			Author:          b.author,
			Type:            string(event.SourceBlog),
		}
		if err := b.store.Insert(ctx, insert); err != nil {
			b.logger.Error("Failed to insert blog post", "permalink", post.Permalink, "error", err)
			report.Failed++
			return report, fmt.Errorf("insert blog event: %w", err)
		}

		b.logger.Debug("Inserted new blog post", "permalink", post.Permalink)
		report.Inserted++
	}

	return report, nil
}
