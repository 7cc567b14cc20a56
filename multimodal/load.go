package multimodal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrInvalidRecord marks a multimodal file whose shape is not usable.
var ErrInvalidRecord = errors.New("invalid multimodal record")

// Load reads a multimodal record written by Merge or by an external producer.
func Load(path string) (*Record, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &rec, nil
}

// Validate checks the raw shape of a multimodal file: top-level video and a
// non-empty items list whose first entry carries t, face and text with the
// expected keys and a numeric t.
func Validate(b []byte) error {
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if _, ok := doc["video"]; !ok {
		return fmt.Errorf("%w: missing 'video' or 'items'", ErrInvalidRecord)
	}
	items, ok := doc["items"].([]any)
	if !ok || len(items) == 0 {
		if _, present := doc["items"]; !present {
			return fmt.Errorf("%w: missing 'video' or 'items'", ErrInvalidRecord)
		}
		return fmt.Errorf("%w: items empty or not a list", ErrInvalidRecord)
	}
	first, ok := items[0].(map[string]any)
	if !ok {
		return fmt.Errorf("%w: item is not an object", ErrInvalidRecord)
	}
	for _, k := range []string{"t", "face", "text"} {
		if _, ok := first[k]; !ok {
			return fmt.Errorf("%w: item has no '%s'", ErrInvalidRecord, k)
		}
	}
	face, _ := first["face"].(map[string]any)
	if _, ok := face["dominant"]; !ok {
		return fmt.Errorf("%w: face has no dominant", ErrInvalidRecord)
	}
	text, _ := first["text"].(map[string]any)
	for _, k := range []string{"segment_start", "segment_end", "content", "dominant"} {
		if _, ok := text[k]; !ok {
			return fmt.Errorf("%w: text has no '%s'", ErrInvalidRecord, k)
		}
	}
	if _, ok := first["t"].(float64); !ok {
		return fmt.Errorf("%w: t is not numeric", ErrInvalidRecord)
	}
	return nil
}

// ValidateFile reads path and validates it.
func ValidateFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return Validate(b)
}
