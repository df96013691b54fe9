package models

import "context"

// Store defines the composition operations exposed to the transport layers.
//
// Implementations map each call to a single statement against the backing engine.
type Store interface {
	Strategy() Strategy                                             // Strategy returns the addressing policy of this deployment
	Save(ctx context.Context, draft Draft) (Address, error)         // Save upserts (code policy) or inserts (sequential policy)
	Get(ctx context.Context, id string) (*Composition, bool, error) // Get reads a full composition; found is false when absent
	List(ctx context.Context) ([]Summary, error)                    // List returns summaries, most recent first
	Delete(ctx context.Context, id string) (bool, error)            // Delete hard-deletes and reports whether a row was removed
	Ping(ctx context.Context) error                                 // Ping checks that the backing engine is reachable
}
