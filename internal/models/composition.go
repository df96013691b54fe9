package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/tracklab/internal/shared"
)

// Composition is a named, persisted set of musical track data.
type Composition struct {
	ID        Address   `json:"id"`
	Name      string    `json:"name"`
	Tracks    Tracks    `json:"tracks"`
	CreatedAt time.Time `json:"createdAt"`
}

// Summary returns the list projection of c.
func (c Composition) Summary() Summary {
	return Summary{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}
}

// Validate checks the fields required on every stored row.
func (c Composition) Validate() error {
	if c.ID.IsZero() {
		return shared.ErrMissingIdentity
	}
	return requireFields(c.Name, c.Tracks)
}

// Summary is the list projection of a [Composition]. It never carries tracks.
type Summary struct {
	ID        Address   `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Draft is caller input for a save, before the strategy resolves an address.
//
// ID is ignored by strategies that assign addresses themselves.
type Draft struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Tracks Tracks `json:"tracks"`
}

// Validate checks that name and tracks are present.
func (d Draft) Validate() error {
	return requireFields(d.Name, d.Tracks)
}

// UnmarshalJSON accepts the id as a JSON string or number.
func (d *Draft) UnmarshalJSON(b []byte) error {
	var wire struct {
		ID     json.RawMessage `json:"id"`
		Name   string          `json:"name"`
		Tracks Tracks          `json:"tracks"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}

	id, _, err := rawAddress(wire.ID)
	if err != nil {
		return err
	}

	*d = Draft{ID: id, Name: wire.Name, Tracks: wire.Tracks}
	return nil
}

func requireFields(name string, tracks Tracks) error {
	var missing []string
	if strings.TrimSpace(name) == "" {
		missing = append(missing, "name")
	}
	if tracks.IsEmpty() {
		missing = append(missing, "tracks")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", shared.ErrMissingFields, strings.Join(missing, ", "))
	}
	return nil
}
