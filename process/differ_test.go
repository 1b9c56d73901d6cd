package process

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetadataChanged(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		fresh  TwitterMeta
		want   bool
	}{
		{
			name:   "identical snapshots",
			stored: `{"favorites":2,"retweets":1}`,
			fresh:  TwitterMeta{Favorites: 2, Retweets: 1},
			want:   false,
		},
		{
			name:   "key order is irrelevant",
			stored: `{"retweets":1,"favorites":2}`,
			fresh:  TwitterMeta{Favorites: 2, Retweets: 1},
			want:   false,
		},
		{
			name:   "changed count",
			stored: `{"favorites":2,"retweets":1}`,
			fresh:  TwitterMeta{Favorites: 3, Retweets: 1},
			want:   true,
		},
		{
			name:   "empty stored snapshot",
			stored: "",
			fresh:  TwitterMeta{},
			want:   true,
		},
		{
			name:   "undecodable stored snapshot",
			stored: "not json",
			fresh:  TwitterMeta{},
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MetadataChanged(json.RawMessage(tt.stored), tt.fresh)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMetadataChanged_EmptyStruct(t *testing.T) {
	assert.False(t, MetadataChanged(json.RawMessage(`{}`), CodeMeta{}))
}
