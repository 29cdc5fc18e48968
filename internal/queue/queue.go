package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// ErrNoJobAvailable is returned by Claim when nothing is due.
var ErrNoJobAvailable = errors.New("no job available")

// Queue is the durable job queue over the blog_jobs table. Enqueue and
// introspection serve the control plane; Claim/Complete/Fail serve the worker.
type Queue struct {
	sql    infra.SQLExecutor
	logger zerolog.Logger
}

func New(sql infra.SQLExecutor, logger zerolog.Logger) *Queue {
	return &Queue{sql: sql, logger: logger}
}

var _ domain.JobQueue = (*Queue)(nil)

// EnqueueBatch inserts a one-shot job with a fresh timestamped id.
func (q *Queue) EnqueueBatch(ctx context.Context, payload domain.JobPayload) (*domain.Job, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	id := domain.NewBatchJobID(time.Now())
	row := q.sql.QueryRow(ctx, sqlinline.QInsertBatchJob, id, payload.UserID, payload.AuthorID, raw, domain.PriorityBatch)
	job, err := scanJob(row)
	if err != nil {
		return nil, fmt.Errorf("enqueue batch job: %w", err)
	}
	q.logger.Info().Str("job_id", job.ID).Str("user_id", payload.UserID).Msg("queue: batch job enqueued")
	return job, nil
}

// EnqueueContinuous registers the recurring per-user schedule. The fixed id
// makes the insert race-free: when a live schedule already holds the id the
// insert yields no row and the caller gets ErrAlreadyRunning.
func (q *Queue) EnqueueContinuous(ctx context.Context, payload domain.JobPayload) (*domain.Job, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	id := domain.ContinuousJobID(payload.UserID)
	intervalMS := payload.Config.Interval().Milliseconds()
	row := q.sql.QueryRow(ctx, sqlinline.QInsertContinuousJob, id, payload.UserID, payload.AuthorID, raw, domain.PriorityContinuous, intervalMS)
	job, err := scanJob(row)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrAlreadyRunning
		}
		return nil, fmt.Errorf("enqueue continuous job: %w", err)
	}
	q.logger.Info().Str("job_id", job.ID).Int64("interval_ms", intervalMS).Msg("queue: continuous job scheduled")
	return job, nil
}

// Cancel removes a specific job instance.
func (q *Queue) Cancel(ctx context.Context, jobID string) error {
	tag, err := q.sql.Exec(ctx, sqlinline.QDeleteJob, jobID)
	if err != nil {
		return fmt.Errorf("cancel job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// StopContinuous removes the user's recurring schedule so no future
// occurrence fires. An occurrence already claimed keeps running; stopping it
// mid-item is the engine's cooperative-stop concern, not the queue's.
func (q *Queue) StopContinuous(ctx context.Context, userID string) error {
	_, err := q.sql.Exec(ctx, sqlinline.QDeleteContinuousSchedule, domain.ContinuousJobID(userID))
	if err != nil {
		return fmt.Errorf("stop continuous: %w", err)
	}
	return nil
}

// UserJobs returns every job for the user, newest first.
func (q *Queue) UserJobs(ctx context.Context, userID string) ([]domain.Job, error) {
	rows, err := q.sql.Query(ctx, sqlinline.QListUserJobs, userID)
	if err != nil {
		return nil, fmt.Errorf("list user jobs: %w", err)
	}
	defer rows.Close()
	var jobs []domain.Job
	for rows.Next() {
		job, err := scanJobFields(rows.Scan)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// HasLiveJob reports whether the user has a waiting, active, or delayed job.
func (q *Queue) HasLiveJob(ctx context.Context, userID string) (bool, error) {
	row := q.sql.QueryRow(ctx, sqlinline.QCountLiveUserJobs, userID)
	var count int
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("count live jobs: %w", err)
	}
	return count > 0, nil
}

// Metrics aggregates queue counts per state.
func (q *Queue) Metrics(ctx context.Context) (*domain.QueueMetrics, error) {
	rows, err := q.sql.Query(ctx, sqlinline.QQueueMetrics)
	if err != nil {
		return nil, fmt.Errorf("queue metrics: %w", err)
	}
	defer rows.Close()
	metrics := &domain.QueueMetrics{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		switch domain.JobStatus(status) {
		case domain.JobStatusWaiting:
			metrics.Waiting = count
		case domain.JobStatusActive:
			metrics.Active = count
		case domain.JobStatusDelayed:
			metrics.Delayed = count
		case domain.JobStatusCompleted:
			metrics.Completed = count
		case domain.JobStatusFailed:
			metrics.Failed = count
		}
	}
	return metrics, rows.Err()
}

// Claim atomically marks the next due job active and returns it. The skip
// locked select keeps concurrent workers from double-claiming.
func (q *Queue) Claim(ctx context.Context) (*domain.Job, error) {
	row := q.sql.QueryRow(ctx, sqlinline.QClaimJob)
	job, err := scanJob(row)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, ErrNoJobAvailable
		}
		return nil, fmt.Errorf("claim job: %w", err)
	}
	return job, nil
}

// UpdateProgress stores the job's progress percentage.
func (q *Queue) UpdateProgress(ctx context.Context, jobID string, percent int) error {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	_, err := q.sql.Exec(ctx, sqlinline.QUpdateJobProgress, jobID, percent)
	return err
}

// Complete finishes a successful occurrence. Batch jobs settle to completed
// (with per-user retention trimmed); continuous jobs re-arm for the next
// occurrence at their configured interval.
func (q *Queue) Complete(ctx context.Context, job *domain.Job) error {
	if job.Continuous() {
		_, err := q.sql.Exec(ctx, sqlinline.QRescheduleContinuous, job.ID, "", job.IntervalMS)
		if err != nil {
			return fmt.Errorf("reschedule continuous: %w", err)
		}
		return nil
	}
	if _, err := q.sql.Exec(ctx, sqlinline.QCompleteJob, job.ID); err != nil {
		return fmt.Errorf("complete job: %w", err)
	}
	if _, err := q.sql.Exec(ctx, sqlinline.QTrimCompletedJobs, job.Payload.UserID, domain.CompletedJobRetention); err != nil {
		q.logger.Warn().Err(err).Str("user_id", job.Payload.UserID).Msg("queue: trim completed jobs failed")
	}
	return nil
}

// Fail records a failed attempt. Attempts below the cap go back to waiting
// with exponential backoff; an exhausted batch job is marked failed and
// retained, while an exhausted continuous occurrence records the reason and
// still re-arms so the next occurrence fires.
func (q *Queue) Fail(ctx context.Context, job *domain.Job, cause error) error {
	reason := ""
	if cause != nil {
		reason = cause.Error()
	}
	if job.Attempts < domain.MaxJobAttempts {
		delay := domain.RetryDelay(job.Attempts)
		_, err := q.sql.Exec(ctx, sqlinline.QRetryJob, job.ID, reason, delay.Milliseconds())
		if err != nil {
			return fmt.Errorf("schedule retry: %w", err)
		}
		q.logger.Warn().Str("job_id", job.ID).Int("attempt", job.Attempts).Dur("delay", delay).Msg("queue: job retry scheduled")
		return nil
	}
	if job.Continuous() {
		_, err := q.sql.Exec(ctx, sqlinline.QRescheduleContinuous, job.ID, reason, job.IntervalMS)
		if err != nil {
			return fmt.Errorf("reschedule failed continuous: %w", err)
		}
		q.logger.Error().Str("job_id", job.ID).Str("reason", reason).Msg("queue: continuous occurrence failed, schedule kept")
		return nil
	}
	if _, err := q.sql.Exec(ctx, sqlinline.QFailJob, job.ID, reason); err != nil {
		return fmt.Errorf("mark job failed: %w", err)
	}
	q.logger.Error().Str("job_id", job.ID).Str("reason", reason).Msg("queue: job failed permanently")
	return nil
}

type scanner func(dest ...any) error

func scanJob(row interface{ Scan(dest ...any) error }) (*domain.Job, error) {
	return scanJobFields(row.Scan)
}

func scanJobFields(scan scanner) (*domain.Job, error) {
	var job domain.Job
	var payload []byte
	var status string
	if err := scan(
		&job.ID,
		new(string), // user_id, carried inside payload as well
		new(string), // author_id
		&payload,
		&job.Priority,
		&status,
		&job.Attempts,
		&job.Progress,
		&job.IntervalMS,
		&job.RunAt,
		&job.FailedReason,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		return nil, err
	}
	job.Status = domain.JobStatus(status)
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &job.Payload); err != nil {
			return nil, fmt.Errorf("decode job payload: %w", err)
		}
	}
	return &job, nil
}
