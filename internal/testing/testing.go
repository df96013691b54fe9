// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/tracklab/internal/models"
	"github.com/desertthunder/tracklab/internal/repositories"
	"github.com/desertthunder/tracklab/internal/shared"
)

// NewStore creates a composition repository over a bootstrapped in-memory SQLite database.
//
// created_at advances by one millisecond per write, so list order follows insertion order.
func NewStore(t *testing.T, kind models.Kind, opts ...repositories.Option) *repositories.CompositionRepository {
	t.Helper()

	db, err := shared.NewDatabase(shared.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	shared.ConfigureDatabase(db, 1, 1)
	t.Cleanup(func() { db.Close() })

	strategy, err := models.NewStrategy(string(kind))
	if err != nil {
		t.Fatalf("failed to create strategy: %v", err)
	}
	if err := repositories.Bootstrap(context.Background(), db, shared.DialectSQLite, strategy); err != nil {
		t.Fatalf("failed to bootstrap schema: %v", err)
	}

	opts = append([]repositories.Option{repositories.WithClock(StepClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Millisecond))}, opts...)
	return repositories.NewCompositionRepository(db, shared.DialectSQLite, strategy, opts...)
}

// StepClock returns a clock that advances by step on every call
func StepClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	now := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(step)
		return now
	}
}

// MockStore is a [models.Store] test double; every operation returns Err.
type MockStore struct {
	Kind models.Kind
	Err  error
}

func (m *MockStore) Strategy() models.Strategy {
	if m.Kind == models.KindSequential {
		return models.SequentialStrategy{}
	}
	return models.CodeStrategy{}
}

func (m *MockStore) Save(ctx context.Context, draft models.Draft) (models.Address, error) {
	return models.Address{}, m.Err
}

func (m *MockStore) Get(ctx context.Context, id string) (*models.Composition, bool, error) {
	return nil, false, m.Err
}

func (m *MockStore) List(ctx context.Context) ([]models.Summary, error) {
	return nil, m.Err
}

func (m *MockStore) Delete(ctx context.Context, id string) (bool, error) {
	return false, m.Err
}

func (m *MockStore) Ping(ctx context.Context) error { return m.Err }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}
