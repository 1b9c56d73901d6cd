package process

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jacobemerick/lifestream-service/event"
	"github.com/jacobemerick/lifestream-service/source"
)

// CodeSource fetches raw code-hosting activity records.
type CodeSource interface {
	FetchEvents(ctx context.Context) ([]source.CodeEvent, error)
}

// CodeMeta is the normalized metadata snapshot persisted with a code
// event. The original service stores an empty snapshot; the type exists
// so the schema has somewhere to grow.
type CodeMeta struct{}

// Code synchronizes the code-hosting activity stream into the event
// store. Code events are insert-only; an existing event is skipped
// without a metadata refresh.
type Code struct {
	source CodeSource
	store  event.Store
	author string
	logger *slog.Logger
}

// NewCode creates a Code synchronizer.
func NewCode(src CodeSource, store event.Store, author string, logger *slog.Logger) *Code {
	if logger == nil {
		logger = slog.Default()
	}

	return &Code{source: src, store: store, author: author, logger: logger}
}

// Sync runs one synchronization pass over the activity stream.
func (c *Code) Sync(ctx context.Context) (Report, error) {
	var report Report

	events, err := c.source.FetchEvents(ctx)
	if err != nil {
		c.logger.Error("Failed to fetch code events", "error", err)
		return report, err
	}

	for _, raw := range events {
		existing, err := c.store.FindBySourceAndForeignID(ctx, event.SourceCode, raw.ID)
		if err != nil && !errors.Is(err, event.ErrNotFound) {
			c.logger.Error("Failed to look up code event", "id", raw.ID, "error", err)
			report.Failed++
			return report, fmt.Errorf("find code event: %w", err)
		}
		if existing != nil {
			report.Skipped++
			continue
		}

		description, descriptionHTML, err := codeDescriptions(raw)
		if err != nil {
			c.logger.Debug("Skipping code event", "id", raw.ID, "error", err)
			report.Skipped++
			continue
		}

		meta, err := json.Marshal(CodeMeta{})
		if err != nil {
			report.Failed++
			return report, fmt.Errorf("marshal code metadata: %w", err)
		}

		insert := &event.Event{
			Source:          event.SourceCode,
			ForeignID:       raw.ID,
			Description:     description,
			DescriptionHTML: descriptionHTML,
			Timestamp:       raw.CreatedAt,
			Metadata:        meta,
			Author:          c.author,
			Type:            string(event.SourceCode),
		}
		if err := c.store.Insert(ctx, insert); err != nil {
			c.logger.Error("Failed to insert code event", "id", raw.ID, "error", err)
			report.Failed++
			return report, fmt.Errorf("insert code event: %w", err)
		}

		c.logger.Debug("Added code event", "id", raw.ID)
		report.Inserted++
	}

	return report, nil
}

// codeDescriptions maps a code-activity subtype onto its description
// pair. Subtypes without a rule, and creation events with an unknown
// ref type, return ErrUnsupportedSubtype.
func codeDescriptions(raw source.CodeEvent) (string, string, error) {
	switch raw.Type {
	case "CreateEvent":
		switch raw.Payload.RefType {
		case "branch", "tag":
			return createDescription(raw), createDescriptionHTML(raw), nil
		case "repository":
			return createRepositoryDescription(raw), createRepositoryDescriptionHTML(raw), nil
		default:
			return "", "", fmt.Errorf("%w: create ref type %q", ErrUnsupportedSubtype, raw.Payload.RefType)
		}
	case "ForkEvent":
		return forkDescription(raw), forkDescriptionHTML(raw), nil
	case "PullRequestEvent":
		return pullRequestDescription(raw), pullRequestDescriptionHTML(raw), nil
	case "PushEvent":
		return pushDescription(raw), pushDescriptionHTML(raw), nil
	}

	return "", "", fmt.Errorf("%w: %q", ErrUnsupportedSubtype, raw.Type)
}

// The per-subtype description rules are placeholders for now; they stay
// separate functions so each subtype's wording can diverge later.

func createDescription(source.CodeEvent) string { return "wrote some code" }

func createDescriptionHTML(source.CodeEvent) string { return "wrote some code" }

func createRepositoryDescription(source.CodeEvent) string { return "wrote some code" }

func createRepositoryDescriptionHTML(source.CodeEvent) string { return "wrote some code" }

func forkDescription(source.CodeEvent) string { return "wrote some code" }

func forkDescriptionHTML(source.CodeEvent) string { return "wrote some code" }

func pullRequestDescription(source.CodeEvent) string { return "wrote some code" }

func pullRequestDescriptionHTML(source.CodeEvent) string { return "wrote some code" }

func pushDescription(source.CodeEvent) string { return "wrote some code" }

func pushDescriptionHTML(source.CodeEvent) string { return "wrote some code" }
