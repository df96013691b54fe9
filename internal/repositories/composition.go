package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/tracklab/internal/models"
	"github.com/desertthunder/tracklab/internal/shared"
)

var _ models.Store = (*CompositionRepository)(nil)

// Observer receives the outcome of every store operation.
type Observer func(op string, elapsed time.Duration, err error)

// Option configures a [CompositionRepository].
type Option func(*CompositionRepository)

// WithClock replaces the clock used to stamp created_at.
func WithClock(now func() time.Time) Option {
	return func(r *CompositionRepository) { r.now = now }
}

// WithObserver registers an [Observer] for operation metrics.
func WithObserver(o Observer) Option {
	return func(r *CompositionRepository) { r.observe = o }
}

// CompositionRepository implements [models.Store] over a single compositions table.
//
// Each operation is one statement; isolation and id assignment are left to the backing engine.
type CompositionRepository struct {
	db       *sql.DB
	dialect  shared.Dialect
	strategy models.Strategy
	now      func() time.Time
	observe  Observer
}

// NewCompositionRepository creates a new CompositionRepository with the given database connection.
//
// The table must already exist; see [Bootstrap].
func NewCompositionRepository(db *sql.DB, dialect shared.Dialect, strategy models.Strategy, opts ...Option) *CompositionRepository {
	r := &CompositionRepository{
		db:       db,
		dialect:  dialect,
		strategy: strategy,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Strategy returns the identity strategy of this repository.
func (r *CompositionRepository) Strategy() models.Strategy {
	return r.strategy
}

// Save upserts under the code strategy and inserts under the sequential strategy.
func (r *CompositionRepository) Save(ctx context.Context, draft models.Draft) (models.Address, error) {
	if r.strategy.Kind() == models.KindSequential {
		return r.Insert(ctx, draft.Name, draft.Tracks)
	}
	return r.Upsert(ctx, draft.ID, draft.Name, draft.Tracks)
}

// Upsert inserts a composition or replaces the name and tracks of the row with the same code.
//
// created_at keeps the value of the first insertion. Replaying the same triple leaves the same row.
func (r *CompositionRepository) Upsert(ctx context.Context, id, name string, tracks models.Tracks) (addr models.Address, err error) {
	defer r.track("upsert", time.Now(), &err)

	if r.strategy.Kind() != models.KindCode {
		return models.Address{}, fmt.Errorf("%w: upsert requires caller-chosen codes", shared.ErrUnsupported)
	}

	addr, err = r.strategy.Mint(id)
	if err != nil {
		return models.Address{}, err
	}

	comp := models.Composition{ID: addr, Name: name, Tracks: tracks}
	if err := comp.Validate(); err != nil {
		return models.Address{}, err
	}

	query := `
		INSERT INTO compositions (id, name, tracks, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, tracks = excluded.tracks
	`

	_, err = r.db.ExecContext(ctx, r.dialect.Rebind(query), addr, name, string(tracks), r.timestamp())
	if err != nil {
		return models.Address{}, fmt.Errorf("%w: failed to upsert composition: %w", shared.ErrStoreUnavailable, err)
	}

	return addr, nil
}

// Insert always creates a new composition and returns the address assigned by the backing engine.
func (r *CompositionRepository) Insert(ctx context.Context, name string, tracks models.Tracks) (addr models.Address, err error) {
	defer r.track("insert", time.Now(), &err)

	if r.strategy.Kind() != models.KindSequential {
		return models.Address{}, fmt.Errorf("%w: insert requires store-assigned ids", shared.ErrUnsupported)
	}

	draft := models.Draft{Name: name, Tracks: tracks}
	if err := draft.Validate(); err != nil {
		return models.Address{}, err
	}

	query := `
		INSERT INTO compositions (name, tracks, created_at)
		VALUES (?, ?, ?)
		RETURNING id
	`

	err = r.db.QueryRowContext(ctx, r.dialect.Rebind(query), name, string(tracks), r.timestamp()).Scan(&addr)
	if err != nil {
		return models.Address{}, fmt.Errorf("%w: failed to insert composition: %w", shared.ErrStoreUnavailable, err)
	}

	return addr, nil
}

// Get retrieves a composition by address. A missing row is reported with found == false and a nil error.
func (r *CompositionRepository) Get(ctx context.Context, id string) (comp *models.Composition, found bool, err error) {
	defer r.track("get", time.Now(), &err)

	addr, ok, err := r.resolve(id)
	if err != nil || !ok {
		return nil, false, err
	}

	query := `
		SELECT id, name, tracks, created_at
		FROM compositions
		WHERE id = ?
	`

	comp, err = r.scanOne(r.db.QueryRowContext(ctx, r.dialect.Rebind(query), addr))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return comp, true, nil
}

// List returns every composition without its tracks, most recently created first.
func (r *CompositionRepository) List(ctx context.Context) (summaries []models.Summary, err error) {
	defer r.track("list", time.Now(), &err)

	query := `
		SELECT id, name, created_at
		FROM compositions
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query compositions: %w", shared.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	summaries = []models.Summary{}
	for rows.Next() {
		var s models.Summary
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: failed to scan composition: %w", shared.ErrStoreUnavailable, err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: row iteration error: %w", shared.ErrStoreUnavailable, err)
	}

	return summaries, nil
}

// Delete hard-deletes a composition and reports whether a row was removed.
func (r *CompositionRepository) Delete(ctx context.Context, id string) (deleted bool, err error) {
	defer r.track("delete", time.Now(), &err)

	addr, ok, err := r.resolve(id)
	if err != nil || !ok {
		return false, err
	}

	result, err := r.db.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM compositions WHERE id = ?`), addr)
	if err != nil {
		return false, fmt.Errorf("%w: failed to delete composition: %w", shared.ErrStoreUnavailable, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: failed to get affected rows: %w", shared.ErrStoreUnavailable, err)
	}

	return rows > 0, nil
}

// Ping checks that the backing engine is reachable.
func (r *CompositionRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrStoreUnavailable, err)
	}
	return nil
}

// resolve parses a caller-supplied address. ok is false when the input cannot address any row.
func (r *CompositionRepository) resolve(id string) (models.Address, bool, error) {
	addr, err := r.strategy.Parse(id)
	switch {
	case errors.Is(err, shared.ErrInvalidAddress):
		return models.Address{}, false, nil
	case err != nil:
		return models.Address{}, false, err
	}
	return addr, true, nil
}

// timestamp returns the created_at value for a new row.
func (r *CompositionRepository) timestamp() time.Time {
	return r.now().UTC()
}

func (r *CompositionRepository) track(op string, start time.Time, err *error) {
	if r.observe != nil {
		r.observe(op, time.Since(start), *err)
	}
}

// scanOne scans a single row into a [models.Composition]
func (r *CompositionRepository) scanOne(row *sql.Row) (*models.Composition, error) {
	var (
		comp   models.Composition
		tracks string
	)

	err := row.Scan(&comp.ID, &comp.Name, &tracks, &comp.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to scan composition: %w", shared.ErrStoreUnavailable, err)
	}

	comp.Tracks = models.Tracks(tracks)
	return &comp, nil
}
