// Package runs records finished computations.
//
// Every pipeline execution produces a [Run]: the size, the aggregated
// result, how it was scheduled and how long it took. Runs are kept in a
// [Store] so the CLI history command and the API can list them later.
//
// Backends:
//   - [MemoryStore]: in-process, for tests and the default API server
//   - [FileStore]: one JSON file per run, for the CLI
//   - [MongoStore]: shared history for multi-instance API deployments
//
// # Usage
//
//	store, err := runs.NewMongoStore(ctx, "mongodb://localhost:27017", "pfannkuchen")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	run := runs.New(10)
//	run.MaxFlips, run.Checksum = 38, 73196
//	if err := store.Save(ctx, run); err != nil {
//	    return err
//	}
//	recent, err := store.List(ctx, 20)
package runs

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/pfannkuchen/pkg/buildinfo"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("run not found")

// DefaultListLimit caps List when the caller passes limit <= 0.
const DefaultListLimit = 50

// Run is one recorded computation.
type Run struct {
	ID        string         `json:"id" bson:"_id"`
	N         int            `json:"n" bson:"n"`
	MaxFlips  int            `json:"max_flips" bson:"max_flips"`
	Checksum  int            `json:"checksum" bson:"checksum"`
	Tasks     int            `json:"tasks" bson:"tasks"`
	Workers   int            `json:"workers" bson:"workers"`
	Elapsed   time.Duration  `json:"elapsed" bson:"elapsed"`
	CacheHit  bool           `json:"cache_hit" bson:"cache_hit"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
	Build     buildinfo.Info `json:"build" bson:"build"`
}

// New creates a run for size n with a fresh random ID.
func New(n int) *Run {
	return &Run{
		ID:        uuid.NewString(),
		N:         n,
		CreatedAt: time.Now().UTC(),
		Build:     buildinfo.Get(),
	}
}

// ValidID reports whether id has the shape of a run ID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Store is the interface for run history backends.
type Store interface {
	// Save stores a run. Saving an existing ID replaces it.
	Save(ctx context.Context, run *Run) error

	// Get retrieves a run by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Run, error)

	// List returns up to limit runs, newest first.
	List(ctx context.Context, limit int) ([]*Run, error)

	// Close releases backend resources.
	Close() error
}

// NullStore discards every run. It backs history = "none".
type NullStore struct{}

func (NullStore) Save(context.Context, *Run) error          { return nil }
func (NullStore) Get(context.Context, string) (*Run, error) { return nil, ErrNotFound }
func (NullStore) List(context.Context, int) ([]*Run, error) { return nil, nil }
func (NullStore) Close() error                              { return nil }

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
