package render

import (
	"fmt"
	"regexp"
	"strings"
)

// plainPrefix labels every plain-text tweet description.
const plainPrefix = "Tweeted | "

var (
	plainCategories = []Category{CategoryMedia, CategoryURLs}
	htmlCategories  = []Category{CategoryHashtags, CategoryMedia, CategoryURLs, CategoryUserMentions}

	whitespaceRun = regexp.MustCompile(`\s+`)
	lineBreaks    = strings.NewReplacer("\r\n", "<br />", "\r", "<br />", "\n", "<br />")
)

// Plain renders the plain-text description of a post: media and url
// entities become [display_url], the result is entity-encoded, runs of
// whitespace collapse to single spaces, and the fixed label is prefixed.
func Plain(text string, entities Entities) (string, error) {
	message, err := splice(text, Extract(entities, plainCategories...), plainReplacement)
	if err != nil {
		return "", err
	}

	message = EncodeEntities(message)
	message = whitespaceRun.ReplaceAllString(message, " ")
	message = strings.TrimSpace(message)

	return plainPrefix + message, nil
}

// HTML renders the HTML description of a post: all four entity
// categories become their markup, the result is entity-encoded,
// newlines become break tags, and the whole is wrapped in a paragraph.
func HTML(text string, entities Entities) (string, error) {
	message, err := splice(text, Extract(entities, htmlCategories...), htmlReplacement)
	if err != nil {
		return "", err
	}

	message = EncodeEntities(message)
	message = lineBreaks.Replace(message)

	return "<p>" + message + "</p>", nil
}

// splice folds the entity list into the text, replacing each [start,end)
// interval with its category replacement. The list arrives descending by
// start offset, so every replacement happens to the right of the
// intervals still pending and never invalidates their offsets. Offsets
// are rune-based; the raw indices count characters, not bytes.
func splice(text string, entities []Entity, replacement func(Entity) (string, error)) (string, error) {
	length := len([]rune(text))
	limit := length

	out := text
	for _, entity := range entities {
		start, end := entity.Indices.Start(), entity.Indices.End()
		if start < 0 || end < start || end > length {
			return "", fmt.Errorf("%w: [%d,%d) outside text of length %d", ErrBadOffsets, start, end, length)
		}
		if end > limit {
			return "", fmt.Errorf("%w: [%d,%d) overlaps a prior entity at %d", ErrBadOffsets, start, end, limit)
		}

		rep, err := replacement(entity)
		if err != nil {
			return "", err
		}

		runes := []rune(out)
		out = string(runes[:start]) + rep + string(runes[end:])
		limit = start
	}

	return out, nil
}

func plainReplacement(entity Entity) (string, error) {
	switch entity.Category {
	case CategoryMedia:
		return "[" + entity.Media.DisplayURL + "]", nil
	case CategoryURLs:
		return "[" + entity.URL.DisplayURL + "]", nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnsupportedCategory, entity.Category)
}

func htmlReplacement(entity Entity) (string, error) {
	switch entity.Category {
	case CategoryHashtags:
		return fmt.Sprintf(
			`<a href="https://twitter.com/hashtag/%s?src=hash" rel="nofollow" target="_blank">#%s</a>`,
			entity.Hashtag.Text,
			entity.Hashtag.Text,
		), nil
	case CategoryMedia:
		return fmt.Sprintf(
			`<img src="%s:%s" alt="Twitter Media | %s" height="%d" width="%d" />`,
			entity.Media.MediaURLHTTPS,
			"large",
			entity.Media.DisplayURL,
			entity.Media.Sizes.Large.H,
			entity.Media.Sizes.Large.W,
		), nil
	case CategoryURLs:
		return fmt.Sprintf(
			`<a href="%s" rel="nofollow" target="_blank" title="%s">%s</a>`,
			entity.URL.URL,
			entity.URL.ExpandedURL,
			entity.URL.DisplayURL,
		), nil
	case CategoryUserMentions:
		return fmt.Sprintf(
			`<a href="https://twitter.com/%s" rel="nofollow" target="_blank" title="Twitter | %s">@%s</a>`,
			entity.Mention.ScreenName,
			entity.Mention.Name,
			entity.Mention.ScreenName,
		), nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnsupportedCategory, entity.Category)
}
