package application

import (
	"context"

	"github.com/openboard/backend/pkg/job"
)

// JobSource resolves the parent posting for submission checks.
type JobSource interface {
	GetByID(ctx context.Context, id int64) (job.Job, error)
}

// ResumeStore persists uploaded resume files. Save returns the storage
// path recorded on the application row; Remove is the compensating cleanup
// when the row insert fails after a successful upload.
type ResumeStore interface {
	Save(ctx context.Context, filename string, data []byte) (string, error)
	Remove(ctx context.Context, path string) error
	// Resolve maps a stored path to a servable filesystem path.
	Resolve(path string) (string, error)
}

// EventSink receives fire-and-forget analytics events. Implementations
// must never block the caller; emission failures are logged, not returned.
type EventSink interface {
	Emit(event string, fields map[string]any)
}
