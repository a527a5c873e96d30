package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Tag is a value/label pair attached to a recording.
type Tag struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Recording is the metadata record for a field audio recording.
// The local ID is always server-generated; RemoteFileKey references the
// object in remote storage when an audio file is attached, and AudioURL is
// reconstructed from it at read time.
type Recording struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Duration      string    `json:"duration"`
	Location      string    `json:"location"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Tags          []Tag     `json:"tags,omitempty"`
	RemoteFileKey *string   `json:"-"`
	AudioURL      *string   `json:"audio_url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UploadedFile carries an audio file received with a create request.
type UploadedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// DummyRecording receives recording data from a JSON or multipart request
// before conversion into Recording. Tags stay raw so that both structured
// arrays and JSON-encoded strings can be accepted.
type DummyRecording struct {
	Name     string          `json:"name" validate:"required"`
	Duration string          `json:"duration" validate:"required"`
	Location string          `json:"location" validate:"required"`
	Date     string          `json:"date" validate:"required"`
	Time     string          `json:"time" validate:"required"`
	Tags     json.RawMessage `json:"tags,omitempty" validate:"omitempty"`
}

// DummyRecordingUpdate receives a partial metadata update. Nil fields are
// stripped before applying so omitted fields never null out stored values.
// AudioURL is the legacy direct-URL update path.
type DummyRecordingUpdate struct {
	Name     *string         `json:"name,omitempty"`
	Duration *string         `json:"duration,omitempty"`
	Location *string         `json:"location,omitempty"`
	Date     *string         `json:"date,omitempty"`
	Time     *string         `json:"time,omitempty"`
	Tags     json.RawMessage `json:"tags,omitempty"`
	AudioURL *string         `json:"audio_url,omitempty"`
}

// ErrInvalidTags marks malformed tags input. Handlers map it to 400.
var ErrInvalidTags = errors.New("invalid tags")

// ParseTags converts raw tags input into []Tag. Accepts either a JSON array
// of {value, label} objects or a JSON-encoded string containing such an
// array. Every element must carry both keys.
func ParseTags(raw json.RawMessage) ([]Tag, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	data := []byte(raw)

	// String input holds a JSON document itself.
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		data = []byte(asString)
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, fmt.Errorf("%w: tags must be a JSON array", ErrInvalidTags)
	}

	tags := make([]Tag, 0, len(elements))
	for i, element := range elements {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(element, &fields); err != nil {
			return nil, fmt.Errorf("%w: tag %d is not an object", ErrInvalidTags, i)
		}
		rawValue, hasValue := fields["value"]
		rawLabel, hasLabel := fields["label"]
		if !hasValue || !hasLabel {
			return nil, fmt.Errorf("%w: tag %d must contain both value and label", ErrInvalidTags, i)
		}
		var tag Tag
		if err := json.Unmarshal(rawValue, &tag.Value); err != nil {
			return nil, fmt.Errorf("%w: tag %d value must be a string", ErrInvalidTags, i)
		}
		if err := json.Unmarshal(rawLabel, &tag.Label); err != nil {
			return nil, fmt.Errorf("%w: tag %d label must be a string", ErrInvalidTags, i)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
