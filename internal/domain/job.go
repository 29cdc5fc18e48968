package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JobStatus enumerates job lifecycle states.
type JobStatus string

const (
	JobStatusWaiting   JobStatus = "waiting"
	JobStatusActive    JobStatus = "active"
	JobStatusDelayed   JobStatus = "delayed" // continuous job parked until its next occurrence
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Queue priorities; lower runs first.
const (
	PriorityBatch      = 1
	PriorityContinuous = 2
)

const (
	// MaxJobAttempts bounds retries per occurrence before a job is marked failed.
	MaxJobAttempts = 3

	// RetryBaseDelay is the first retry delay; each further attempt doubles it.
	RetryBaseDelay = 2 * time.Second

	// CompletedJobRetention caps how many completed batch jobs are kept per user.
	CompletedJobRetention = 100
)

// JobPayload is the durable work description carried by a queue row.
type JobPayload struct {
	UserID   string           `json:"userId"`
	AuthorID string           `json:"authorId"`
	Config   GenerationConfig `json:"config"`
}

// Job is one queue row annotated with derived state.
type Job struct {
	ID           string
	Payload      JobPayload
	Priority     int
	Status       JobStatus
	Attempts     int
	Progress     int // 0-100
	IntervalMS   int64
	RunAt        time.Time
	FailedReason string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Continuous reports whether the job is a recurring schedule.
func (j Job) Continuous() bool {
	return j.IntervalMS > 0
}

// NewBatchJobID mints a timestamped unique id for a one-shot run.
func NewBatchJobID(now time.Time) string {
	return fmt.Sprintf("blog-gen-%d-%s", now.UnixMilli(), uuid.NewString()[:8])
}

// ContinuousJobID is the fixed per-user id for a recurring schedule; the
// queue's identity constraint keeps at most one scheduled continuous job
// per user.
func ContinuousJobID(userID string) string {
	return "blog-gen-continuous-" + userID
}

// RetryDelay returns the backoff before the given retry. attempt is the
// 1-based count of attempts already failed, so attempt 1 waits the base
// delay and each further attempt doubles it.
func RetryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return RetryBaseDelay << (attempt - 1)
}

// QueueMetrics aggregates per-state counts for operational visibility.
type QueueMetrics struct {
	Waiting   int `json:"waiting"`
	Active    int `json:"active"`
	Delayed   int `json:"delayed"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}
