package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"server/internal/catalog"
	"server/internal/domain"
	"server/internal/providers/text"
)

// maxEmptyPageAdvances bounds how many consecutive pages with zero eligible
// items the engine walks before declaring the catalog exhausted.
const maxEmptyPageAdvances = 5

// maxSlugAttempts bounds the numeric-suffix loop when deriving a unique slug.
const maxSlugAttempts = 100

// Result summarizes one engine run. A shortfall (Generated < Requested) with
// Exhausted or Stopped set is a successful partial run, not a failure.
type Result struct {
	Requested int
	Generated int
	Exhausted bool
	Stopped   bool
}

// ProgressFunc is called after each produced item with the running counts.
type ProgressFunc func(done, total int)

// Engine turns one generation job into persisted blog posts, resuming from
// the stored cursor. All collaborators are injected so tests can substitute
// in-memory fakes.
type Engine struct {
	catalog  catalog.Client
	posts    domain.PostRepository
	progress domain.ProgressRepository
	status   domain.StatusStore
	logger   zerolog.Logger
}

func NewEngine(cat catalog.Client, posts domain.PostRepository, progress domain.ProgressRepository, status domain.StatusStore, logger zerolog.Logger) *Engine {
	return &Engine{catalog: cat, posts: posts, progress: progress, status: status, logger: logger}
}

// Run executes one occurrence of the job: the full count for batch mode,
// exactly one item for continuous mode (the schedule provides pacing).
// Collaborator errors are returned unwrapped in meaning so the worker can
// hand them to the queue's retry policy.
func (e *Engine) Run(ctx context.Context, job *domain.Job, gen text.Generator, report ProgressFunc) (*Result, error) {
	cfg := job.Payload.Config
	userID := job.Payload.UserID

	total := 1
	if cfg.Mode == domain.ModeBatch {
		total = cfg.Count
	}
	result := &Result{Requested: total}

	cursor, err := e.progress.Get(ctx, userID, cfg.MediaType, cfg.SortBy)
	if err != nil {
		return nil, err
	}
	page, index, generated := 1, 0, 0
	if cursor != nil {
		page, index, generated = cursor.CurrentPage, cursor.CurrentIndex, cursor.TotalGenerated
	}

	e.setStatus(ctx, job, generated, true, "")

	emptyAdvances := 0
	for result.Generated < total {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		stopped, err := e.status.StopRequested(ctx, userID)
		if err != nil {
			return nil, err
		}
		if stopped {
			result.Stopped = true
			break
		}

		pageData, err := e.catalog.FetchPage(ctx, cfg.MediaType, cfg.SortBy, page)
		if err != nil {
			return nil, err
		}

		eligible := filterItems(pageData.Items, cfg)
		if index >= len(eligible) {
			if pageData.TotalPages > 0 && page >= pageData.TotalPages {
				result.Exhausted = true
				break
			}
			emptyAdvances++
			if emptyAdvances >= maxEmptyPageAdvances {
				result.Exhausted = true
				break
			}
			page++
			index = 0
			continue
		}
		emptyAdvances = 0

		item := eligible[index]
		if err := e.produce(ctx, job, gen, item); err != nil {
			return nil, err
		}

		index++
		generated++
		result.Generated++

		if _, err := e.progress.Upsert(ctx, userID, cfg.MediaType, cfg.SortBy, domain.ProgressPatch{
			CurrentPage:    domain.IntPtr(page),
			CurrentIndex:   domain.IntPtr(index),
			TotalGenerated: domain.IntPtr(generated),
			LastMediaID:    domain.Int64Ptr(item.ID),
		}); err != nil {
			return nil, err
		}

		e.setStatus(ctx, job, generated, true, "")
		if report != nil {
			report(result.Generated, total)
		}
	}

	message := "completed"
	switch {
	case result.Stopped:
		message = "stopped"
	case result.Exhausted:
		message = fmt.Sprintf("catalog exhausted after %d of %d items", result.Generated, result.Requested)
		e.logger.Warn().
			Str("job_id", job.ID).
			Int("generated", result.Generated).
			Int("requested", result.Requested).
			Msg("engine: run ended with shortfall")
	}
	e.setStatus(ctx, job, generated, false, message)
	if result.Stopped {
		if err := e.status.ClearStop(ctx, userID); err != nil {
			e.logger.Warn().Err(err).Str("user_id", userID).Msg("engine: clear stop flag failed")
		}
	}
	return result, nil
}

// produce generates and persists one post. The insert is guarded by the
// per-item dedupe key, so a retried attempt that already wrote this item
// does not persist it twice.
func (e *Engine) produce(ctx context.Context, job *domain.Job, gen text.Generator, item domain.MediaItem) error {
	cfg := job.Payload.Config

	content, err := gen.Generate(ctx, text.GenerateRequest{
		Prompt: buildPrompt(item, cfg.MediaType),
		Model:  cfg.AIModel,
	})
	if err != nil {
		return err
	}

	title := buildTitle(content, item)
	slug, err := e.uniqueSlug(ctx, domain.Slugify(title))
	if err != nil {
		return err
	}

	post := &domain.BlogPost{
		AuthorID:    job.Payload.AuthorID,
		Title:       title,
		Slug:        slug,
		Content:     content,
		Excerpt:     domain.Excerpt(content, 280),
		Tags:        buildTags(item, cfg.MediaType),
		MediaType:   cfg.MediaType,
		MediaID:     item.ID,
		MediaTitle:  item.Title,
		PosterPath:  item.PosterPath,
		ReadingTime: domain.ReadingTime(content),
		Published:   true,
	}

	inserted, err := e.posts.Create(ctx, post)
	if err != nil {
		return err
	}
	if !inserted {
		e.logger.Info().
			Str("job_id", job.ID).
			Int64("media_id", item.ID).
			Msg("engine: post already persisted by earlier attempt")
	}
	return nil
}

// uniqueSlug forces uniqueness with a numeric suffix loop: title, title-1,
// title-2, ...
func (e *Engine) uniqueSlug(ctx context.Context, base string) (string, error) {
	if base == "" {
		base = "untitled"
	}
	candidate := base
	for i := 1; i <= maxSlugAttempts; i++ {
		exists, err := e.posts.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	// Practically unreachable; timestamp keeps the write unblocked.
	return fmt.Sprintf("%s-%d", base, time.Now().UnixMilli()), nil
}

func (e *Engine) setStatus(ctx context.Context, job *domain.Job, generated int, running bool, message string) {
	st := domain.GenerationStatus{
		UserID:         job.Payload.UserID,
		IsRunning:      running,
		Mode:           job.Payload.Config.Mode,
		JobID:          job.ID,
		TotalGenerated: generated,
		Message:        message,
		StartedAt:      time.Now(),
	}
	if err := e.status.Set(ctx, st); err != nil {
		e.logger.Warn().Err(err).Str("job_id", job.ID).Msg("engine: status update failed")
	}
}

func filterItems(items []domain.MediaItem, cfg domain.GenerationConfig) []domain.MediaItem {
	var out []domain.MediaItem
	for _, item := range items {
		if cfg.Matches(item) {
			out = append(out, item)
		}
	}
	return out
}
