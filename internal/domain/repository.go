package domain

import "context"

// ProgressRepository persists resumable generation cursors.
type ProgressRepository interface {
	Get(ctx context.Context, userID string, mediaType MediaType, sortBy SortBy) (*ProgressRecord, error)
	Upsert(ctx context.Context, userID string, mediaType MediaType, sortBy SortBy, patch ProgressPatch) (*ProgressRecord, error)
	// Reset deletes the record for the key; resetting a missing key is a no-op.
	Reset(ctx context.Context, userID string, mediaType MediaType, sortBy SortBy) error
	ListForUser(ctx context.Context, userID string) ([]ProgressRecord, error)
}

// PostRepository persists generated blog posts.
type PostRepository interface {
	// Create inserts the post. When a post with the same
	// (author, media type, media id) dedupe key already exists, Create
	// reports inserted=false and persists nothing.
	Create(ctx context.Context, post *BlogPost) (inserted bool, err error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// StatusStore holds the live per-user generation status and the cooperative
// stop flag, shared between the API and worker processes.
type StatusStore interface {
	Get(ctx context.Context, userID string) (*GenerationStatus, error)
	Set(ctx context.Context, status GenerationStatus) error
	Clear(ctx context.Context, userID string) error
	RequestStop(ctx context.Context, userID string) error
	StopRequested(ctx context.Context, userID string) (bool, error)
	ClearStop(ctx context.Context, userID string) error
}

// JobQueue is the control-plane view of the durable queue.
type JobQueue interface {
	EnqueueBatch(ctx context.Context, payload JobPayload) (*Job, error)
	// EnqueueContinuous registers the per-user recurring schedule; it
	// returns ErrAlreadyRunning when a live schedule exists for the user.
	EnqueueContinuous(ctx context.Context, payload JobPayload) (*Job, error)
	Cancel(ctx context.Context, jobID string) error
	StopContinuous(ctx context.Context, userID string) error
	UserJobs(ctx context.Context, userID string) ([]Job, error)
	// HasLiveJob reports whether the user has a waiting/active/delayed job.
	HasLiveJob(ctx context.Context, userID string) (bool, error)
	Metrics(ctx context.Context) (*QueueMetrics, error)
}
