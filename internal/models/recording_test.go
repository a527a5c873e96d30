package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []Tag
		wantErr  bool
	}{
		{
			name:     "structured array",
			raw:      `[{"value":"jungle","label":"Selva"},{"value":"dawn","label":"Amanecer"}]`,
			expected: []Tag{{Value: "jungle", Label: "Selva"}, {Value: "dawn", Label: "Amanecer"}},
		},
		{
			name:     "json-encoded string",
			raw:      `"[{\"value\":\"jungle\",\"label\":\"Selva\"}]"`,
			expected: []Tag{{Value: "jungle", Label: "Selva"}},
		},
		{
			name:     "empty array",
			raw:      `[]`,
			expected: []Tag{},
		},
		{
			name:    "missing label",
			raw:     `[{"value":"a"}]`,
			wantErr: true,
		},
		{
			name:    "missing label in string input",
			raw:     `"[{\"value\":\"a\"}]"`,
			wantErr: true,
		},
		{
			name:    "missing value",
			raw:     `[{"label":"a"}]`,
			wantErr: true,
		},
		{
			name:    "not an array",
			raw:     `{"value":"a","label":"b"}`,
			wantErr: true,
		},
		{
			name:    "element not an object",
			raw:     `["jungle"]`,
			wantErr: true,
		},
		{
			name:    "non-string value",
			raw:     `[{"value":1,"label":"b"}]`,
			wantErr: true,
		},
		{
			name:    "string input not json",
			raw:     `"nature,birdsong"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags, err := ParseTags(json.RawMessage(tt.raw))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidTags)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, tags)
		})
	}
}

func TestParseTags_Empty(t *testing.T) {
	tags, err := ParseTags(nil)
	require.NoError(t, err)
	assert.Nil(t, tags)
}
