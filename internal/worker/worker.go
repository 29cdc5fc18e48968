package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"server/internal/domain"
	"server/internal/generator"
	"server/internal/providers/text"
	"server/internal/queue"
)

// JobSource is the worker's view of the queue.
type JobSource interface {
	Claim(ctx context.Context) (*domain.Job, error)
	UpdateProgress(ctx context.Context, jobID string, percent int) error
	Complete(ctx context.Context, job *domain.Job) error
	Fail(ctx context.Context, job *domain.Job, cause error) error
}

// KeyVault resolves a user's stored provider API key.
type KeyVault interface {
	Token(ctx context.Context, userID, provider string) (string, error)
}

type Options struct {
	Concurrency     int
	JobsPerMinute   int
	PollInterval    time.Duration
	DefaultProvider string
	// Process-level keys, the last resort after the job's override and the
	// user's vaulted key.
	GeminiAPIKey string
	OpenAIAPIKey string
}

// Worker pulls jobs and executes the generation engine with bounded
// concurrency and a per-minute cap on job starts.
type Worker struct {
	source  JobSource
	engine  *generator.Engine
	vault   KeyVault
	factory *text.Factory
	opts    Options
	logger  zerolog.Logger

	sem *semaphore.Weighted
	wg  sync.WaitGroup

	mu          sync.Mutex
	windowStart time.Time
	windowUsed  int
}

func New(source JobSource, engine *generator.Engine, vault KeyVault, factory *text.Factory, opts Options, logger zerolog.Logger) *Worker {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 2 * time.Second
	}
	return &Worker{
		source:  source,
		engine:  engine,
		vault:   vault,
		factory: factory,
		opts:    opts,
		logger:  logger,
		sem:     semaphore.NewWeighted(int64(opts.Concurrency)),
	}
}

// Run claims and executes jobs until ctx is cancelled, then stops claiming
// and waits for in-flight jobs to finish. In-flight executions run on a
// detached context so shutdown does not burn their retry budget.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info().
		Int("concurrency", w.opts.Concurrency).
		Int("jobs_per_minute", w.opts.JobsPerMinute).
		Msg("worker: started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("worker: draining in-flight jobs")
			w.wg.Wait()
			return ctx.Err()
		default:
		}

		if !w.allowStart() {
			w.sleep(ctx, w.opts.PollInterval)
			continue
		}

		if err := w.sem.Acquire(ctx, 1); err != nil {
			continue
		}

		job, err := w.source.Claim(ctx)
		if err != nil {
			w.sem.Release(1)
			if !errors.Is(err, queue.ErrNoJobAvailable) {
				w.logger.Error().Err(err).Msg("worker: claim failed")
			}
			w.refundStart()
			w.sleep(ctx, w.opts.PollInterval)
			continue
		}

		w.wg.Add(1)
		go func(job *domain.Job) {
			defer w.wg.Done()
			defer w.sem.Release(1)
			w.handleJob(context.WithoutCancel(ctx), job)
		}(job)
	}
}

func (w *Worker) handleJob(ctx context.Context, job *domain.Job) {
	log := w.logger.With().
		Str("job_id", job.ID).
		Str("user_id", job.Payload.UserID).
		Str("mode", string(job.Payload.Config.Mode)).
		Int("attempt", job.Attempts).
		Logger()
	log.Info().Msg("worker: picked job")

	if err := w.source.UpdateProgress(ctx, job.ID, 1); err != nil {
		log.Warn().Err(err).Msg("worker: initial progress update failed")
	}

	gen, err := w.resolveGenerator(ctx, job)
	if err != nil {
		w.failJob(ctx, job, err, log)
		return
	}

	report := func(done, total int) {
		if total <= 0 {
			return
		}
		percent := (100*done + total/2) / total
		if err := w.source.UpdateProgress(ctx, job.ID, percent); err != nil {
			log.Warn().Err(err).Msg("worker: progress update failed")
		}
	}

	result, err := w.engine.Run(ctx, job, gen, report)
	if err != nil {
		// Re-thrown to the queue; its retry policy takes over.
		w.failJob(ctx, job, err, log)
		return
	}

	if err := w.source.UpdateProgress(ctx, job.ID, 100); err != nil {
		log.Warn().Err(err).Msg("worker: final progress update failed")
	}
	if err := w.source.Complete(ctx, job); err != nil {
		log.Error().Err(err).Msg("worker: complete failed")
		return
	}
	log.Info().
		Int("generated", result.Generated).
		Int("requested", result.Requested).
		Bool("exhausted", result.Exhausted).
		Bool("stopped", result.Stopped).
		Msg("worker: job finished")
}

func (w *Worker) failJob(ctx context.Context, job *domain.Job, cause error, log zerolog.Logger) {
	log.Error().Err(cause).Msg("worker: job attempt failed")
	if err := w.source.Fail(ctx, job, cause); err != nil {
		log.Error().Err(err).Msg("worker: recording failure failed")
	}
}

// resolveGenerator picks the provider from the job's model hint and resolves
// the API key: job override, then the user's vaulted key, then the process
// key. No key at all selects the offline fallback variant.
func (w *Worker) resolveGenerator(ctx context.Context, job *domain.Job) (text.Generator, error) {
	cfg := job.Payload.Config
	provider := text.ProviderForModel(cfg.AIModel, w.opts.DefaultProvider)

	key := cfg.APIKey
	if key == "" && w.vault != nil {
		vaulted, err := w.vault.Token(ctx, job.Payload.UserID, provider)
		if err != nil {
			w.logger.Warn().Err(err).Str("job_id", job.ID).Msg("worker: key vault lookup failed")
		} else {
			key = vaulted
		}
	}
	if key == "" {
		switch provider {
		case text.ProviderOpenAI:
			key = w.opts.OpenAIAPIKey
		default:
			key = w.opts.GeminiAPIKey
		}
	}
	if key == "" {
		w.logger.Warn().Str("job_id", job.ID).Str("provider", provider).Msg("worker: no api key resolved, using fallback generator")
	}
	return w.factory.New(provider, key)
}

// allowStart consumes one job-start token from the fixed one-minute window.
func (w *Worker) allowStart() bool {
	if w.opts.JobsPerMinute <= 0 {
		return true
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	now := time.Now()
	if w.windowStart.IsZero() || now.Sub(w.windowStart) >= time.Minute {
		w.windowStart = now
		w.windowUsed = 0
	}
	if w.windowUsed >= w.opts.JobsPerMinute {
		return false
	}
	w.windowUsed++
	return true
}

// refundStart returns a token consumed for a claim that found no job.
func (w *Worker) refundStart() {
	if w.opts.JobsPerMinute <= 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.windowUsed > 0 {
		w.windowUsed--
	}
}

func (w *Worker) sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
