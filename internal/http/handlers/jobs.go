package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
)

// JobsList returns every queue job for the caller, newest first.
func (a *App) JobsList(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	jobs, err := a.Queue.UserJobs(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("handlers: list jobs failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list jobs")
		return
	}
	items := make([]map[string]any, 0, len(jobs))
	for _, job := range jobs {
		item := map[string]any{
			"id":        job.ID,
			"status":    job.Status,
			"mode":      job.Payload.Config.Mode,
			"progress":  job.Progress,
			"attempts":  job.Attempts,
			"createdAt": job.CreatedAt,
			"updatedAt": job.UpdatedAt,
		}
		if job.Continuous() {
			item["intervalMs"] = job.IntervalMS
			item["nextRunAt"] = job.RunAt
		}
		if job.FailedReason != "" {
			item["failedReason"] = job.FailedReason
		}
		items = append(items, item)
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// JobCancel removes one job instance; used against in-flight batch runs.
func (a *App) JobCancel(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")
	if err := a.Queue.Cancel(r.Context(), jobID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "job not found")
			return
		}
		a.Logger.Error().Err(err).Str("job_id", jobID).Msg("handlers: cancel job failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to cancel job")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"message": "job removed"})
}

// QueueMetrics reports aggregate per-state job counts.
func (a *App) QueueMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := a.Queue.Metrics(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("handlers: queue metrics failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to read queue metrics")
		return
	}
	a.json(w, http.StatusOK, metrics)
}

// ProgressList returns the caller's generation cursors, most recent first.
func (a *App) ProgressList(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	records, err := a.Progress.ListForUser(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("handlers: list progress failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list progress")
		return
	}
	items := make([]map[string]any, 0, len(records))
	for _, record := range records {
		items = append(items, map[string]any{
			"id":             record.ID,
			"type":           record.MediaType,
			"sortBy":         record.SortBy,
			"currentPage":    record.CurrentPage,
			"currentIndex":   record.CurrentIndex,
			"totalGenerated": record.TotalGenerated,
			"lastMediaId":    record.LastMediaID,
			"updatedAt":      record.LastUpdated,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

type progressResetRequest struct {
	Type   string `json:"type"`
	SortBy string `json:"sortBy"`
}

// ProgressReset deletes the cursor for a (type, sortBy) key so the next run
// starts at page 1 / index 0. Refused while a job is live for the user: a
// reset racing an active run would corrupt the cursor.
func (a *App) ProgressReset(w http.ResponseWriter, r *http.Request) {
	var req progressResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	mediaType := domain.MediaType(req.Type)
	sortBy := domain.SortBy(req.SortBy)
	if !mediaType.Valid() || !sortBy.Valid() {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown type or sortBy")
		return
	}

	userID := a.currentUserID(r)
	live, err := a.Queue.HasLiveJob(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("handlers: queue check failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to read queue state")
		return
	}
	if live {
		a.error(w, http.StatusConflict, "generation_active", "stop generation before resetting progress")
		return
	}

	if err := a.Progress.Reset(r.Context(), userID, mediaType, sortBy); err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("handlers: reset progress failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to reset progress")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"message": "progress reset"})
}

type apiKeyRequest struct {
	Provider string `json:"provider"`
	APIKey   string `json:"apiKey"`
}

// SettingsAPIKey vaults the caller's AI provider API key.
func (a *App) SettingsAPIKey(w http.ResponseWriter, r *http.Request) {
	var req apiKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	userID := a.currentUserID(r)
	if err := a.Credentials.SetToken(r.Context(), userID, req.Provider, req.APIKey); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	a.json(w, http.StatusOK, map[string]string{"message": "api key saved"})
}
