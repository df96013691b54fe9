package models

import (
	"encoding/json"
	"fmt"
)

// Tracks is the opaque serialized payload of a composition's tracks and clips.
//
// The store never parses, validates, or transforms it: whatever is saved is returned byte for byte.
// On the wire it is a JSON string. Decoding additionally accepts a raw JSON array or object
// and keeps its exact bytes, so clients may post the track list without double-encoding it.
type Tracks string

// IsEmpty reports whether the payload is missing.
func (t Tracks) IsEmpty() bool { return t == "" }

func (t Tracks) String() string { return string(t) }

func (t Tracks) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *Tracks) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		*t = ""
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("failed to decode tracks: %w", err)
		}
		*t = Tracks(s)
	case '[', '{':
		*t = Tracks(append([]byte(nil), b...))
	case 'n':
		*t = ""
	default:
		return fmt.Errorf("tracks must be a string, array, or object")
	}
	return nil
}
