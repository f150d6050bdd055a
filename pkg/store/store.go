// Package store persists pipeline runs for the server.
//
// A Run records one pipeline execution: the options it was started with,
// its lifecycle status, and the resulting statistics. The Store interface
// has two implementations:
//   - memory: In-memory storage for development/testing and single-instance use
//   - mongo: MongoDB-backed storage for deployments that keep a run history
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/terraclip/terraclip/pkg/pipeline"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a run does not exist.
	ErrNotFound = errors.New("run not found")
)

// Run statuses.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Run is one recorded pipeline execution.
type Run struct {
	ID          string           `json:"id" bson:"_id"`
	Status      string           `json:"status" bson:"status"`
	Options     pipeline.Options `json:"options" bson:"options"`
	Stats       pipeline.Stats   `json:"stats" bson:"stats"`
	Error       string           `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt   time.Time        `json:"created_at" bson:"created_at"`
	CompletedAt time.Time        `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}

// NewRun creates a pending run for the given options.
func NewRun(opts pipeline.Options) *Run {
	return &Run{
		ID:        uuid.NewString(),
		Status:    StatusPending,
		Options:   opts,
		CreatedAt: time.Now().UTC(),
	}
}

// Complete marks the run as finished with its statistics.
func (r *Run) Complete(stats pipeline.Stats) {
	r.Status = StatusCompleted
	r.Stats = stats
	r.CompletedAt = time.Now().UTC()
}

// Fail marks the run as failed with the error message.
func (r *Run) Fail(err error) {
	r.Status = StatusFailed
	if err != nil {
		r.Error = err.Error()
	}
	r.CompletedAt = time.Now().UTC()
}

// Store persists runs.
type Store interface {
	// Create stores a new run.
	Create(ctx context.Context, run *Run) error

	// Get retrieves a run by ID. Returns ErrNotFound for unknown IDs.
	Get(ctx context.Context, id string) (*Run, error)

	// Update replaces a stored run. Returns ErrNotFound for unknown IDs.
	Update(ctx context.Context, run *Run) error

	// List returns runs ordered newest first, up to limit (0 means all).
	List(ctx context.Context, limit int) ([]*Run, error)

	// Delete removes a run. Deleting a missing run is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
