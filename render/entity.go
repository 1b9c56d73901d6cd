// Package render turns raw social-media text plus positionally-anchored
// rich entities into the plain-text and HTML descriptions persisted on a
// unified event.
package render

import (
	"errors"
	"sort"
)

// Category identifies one kind of rich entity within a text payload.
type Category string

const (
	CategoryHashtags     Category = "hashtags"
	CategoryMedia        Category = "media"
	CategoryURLs         Category = "urls"
	CategoryUserMentions Category = "user_mentions"
)

// Common rendering errors. Both mark a single record as unrenderable;
// neither should abort a whole synchronization run.
var (
	// ErrUnsupportedCategory is returned when no replacement rule exists
	// for an entity's category.
	ErrUnsupportedCategory = errors.New("unsupported entity category")
	// ErrBadOffsets is returned when an entity interval falls outside the
	// text or overlaps a neighboring interval.
	ErrBadOffsets = errors.New("malformed entity offsets")
)

// Indices is a half-open [start, end) rune-offset interval into the
// original text.
type Indices [2]int

// Start returns the inclusive start offset.
func (i Indices) Start() int { return i[0] }

// End returns the exclusive end offset.
func (i Indices) End() int { return i[1] }

// Hashtag is a #tag annotation.
type Hashtag struct {
	Text    string  `json:"text"`
	Indices Indices `json:"indices"`
}

// MediaSize holds the pixel dimensions of one media size variant.
type MediaSize struct {
	H int `json:"h"`
	W int `json:"w"`
}

// MediaSizes holds the size variants attached to a media entity. Only
// the large variant is rendered.
type MediaSizes struct {
	Large MediaSize `json:"large"`
}

// Media is an attached image annotation.
type Media struct {
	MediaURLHTTPS string     `json:"media_url_https"`
	DisplayURL    string     `json:"display_url"`
	Sizes         MediaSizes `json:"sizes"`
	Indices       Indices    `json:"indices"`
}

// URL is a shortened-link annotation.
type URL struct {
	URL         string  `json:"url"`
	ExpandedURL string  `json:"expanded_url"`
	DisplayURL  string  `json:"display_url"`
	Indices     Indices `json:"indices"`
}

// Mention is an @user annotation.
type Mention struct {
	ScreenName string  `json:"screen_name"`
	Name       string  `json:"name"`
	Indices    Indices `json:"indices"`
}

// Entities is the per-category container attached to a raw post. Absent
// categories decode to empty slices and extract to nothing.
type Entities struct {
	Hashtags     []Hashtag `json:"hashtags"`
	Media        []Media   `json:"media"`
	URLs         []URL     `json:"urls"`
	UserMentions []Mention `json:"user_mentions"`
}

// Entity is one tagged, position-anchored annotation. Exactly one of the
// category pointers is set, matching Category.
type Entity struct {
	Category Category
	Indices  Indices

	Hashtag *Hashtag
	Media   *Media
	URL     *URL
	Mention *Mention
}

// Extract flattens the requested categories of the container into one
// tagged list, ordered descending by start offset. The sort is stable,
// so entities sharing a start offset keep the caller's category order;
// that order is what the splice in Plain and HTML depends on, since
// offset-anchored replacement is only safe right to left.
func Extract(entities Entities, categories ...Category) []Entity {
	var out []Entity

	for _, category := range categories {
		switch category {
		case CategoryHashtags:
			for i := range entities.Hashtags {
				h := entities.Hashtags[i]
				out = append(out, Entity{Category: category, Indices: h.Indices, Hashtag: &h})
			}
		case CategoryMedia:
			for i := range entities.Media {
				m := entities.Media[i]
				out = append(out, Entity{Category: category, Indices: m.Indices, Media: &m})
			}
		case CategoryURLs:
			for i := range entities.URLs {
				u := entities.URLs[i]
				out = append(out, Entity{Category: category, Indices: u.Indices, URL: &u})
			}
		case CategoryUserMentions:
			for i := range entities.UserMentions {
				m := entities.UserMentions[i]
				out = append(out, Entity{Category: category, Indices: m.Indices, Mention: &m})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Indices.Start() > out[j].Indices.Start()
	})

	return out
}
