package objectstore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStorageKey(t *testing.T) {
	first := NewStorageKey("canto-del-yaguarete.mp3")
	second := NewStorageKey("canto-del-yaguarete.mp3")

	assert.True(t, strings.HasPrefix(first, "recordings/"))
	assert.True(t, strings.HasSuffix(first, ".mp3"))
	assert.NotEqual(t, first, second)
}

func TestNewStorageKey_NoExtension(t *testing.T) {
	key := NewStorageKey("rawaudio")

	assert.True(t, strings.HasPrefix(key, "recordings/"))
	assert.False(t, strings.Contains(key, "."))
}

func TestS3Gateway_PublicURL(t *testing.T) {
	g := &S3Gateway{bucket: "voces-audio", endpoint: "http://localhost:9000"}

	assert.Equal(t,
		"http://localhost:9000/voces-audio/recordings/123-abc.mp3",
		g.PublicURL("recordings/123-abc.mp3"))
}
