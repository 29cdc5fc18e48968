package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"server/internal/domain"
)

type generateRequest struct {
	Type         string  `json:"type"`
	SortBy       string  `json:"sortBy"`
	Mode         string  `json:"mode"`
	Count        int     `json:"count"`
	PostsPerHour int     `json:"postsPerHour"`
	MinRating    float64 `json:"minRating"`
	IncludeAdult bool    `json:"includeAdult"`
	Genres       []int   `json:"genres"`
	YearFrom     int     `json:"yearFrom"`
	YearTo       int     `json:"yearTo"`
	AIModel      string  `json:"aiModel"`
	APIKey       string  `json:"apiKey"`
}

// GenerationStart validates the config and enqueues a batch or continuous
// job. Invalid input is rejected without enqueueing; a duplicate continuous
// schedule surfaces as a conflict.
func (a *App) GenerationStart(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	cfg := domain.GenerationConfig{
		MediaType:    domain.MediaType(req.Type),
		SortBy:       domain.SortBy(req.SortBy),
		Mode:         domain.GenerationMode(req.Mode),
		Count:        req.Count,
		PostsPerHour: req.PostsPerHour,
		MinRating:    req.MinRating,
		IncludeAdult: req.IncludeAdult,
		Genres:       req.Genres,
		YearFrom:     req.YearFrom,
		YearTo:       req.YearTo,
		AIModel:      req.AIModel,
		APIKey:       req.APIKey,
	}
	if err := cfg.Validate(); err != nil {
		a.error(w, http.StatusBadRequest, "invalid_config", err.Error())
		return
	}

	userID := a.currentUserID(r)
	payload := domain.JobPayload{UserID: userID, AuthorID: userID, Config: cfg}

	// A stop flag left over from a previous run must not kill this one.
	if err := a.Status.ClearStop(r.Context(), userID); err != nil {
		a.Logger.Warn().Err(err).Str("user_id", userID).Msg("handlers: clear stop flag failed")
	}

	var (
		job *domain.Job
		err error
	)
	switch cfg.Mode {
	case domain.ModeContinuous:
		job, err = a.Queue.EnqueueContinuous(r.Context(), payload)
	default:
		job, err = a.Queue.EnqueueBatch(r.Context(), payload)
	}
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyRunning) {
			a.error(w, http.StatusConflict, "already_running", "continuous generation is already scheduled for this user")
			return
		}
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("handlers: enqueue failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to enqueue generation job")
		return
	}

	resp := map[string]any{"jobId": job.ID, "mode": cfg.Mode}
	if cfg.Mode == domain.ModeContinuous {
		resp["intervalMs"] = job.IntervalMS
	}
	a.json(w, http.StatusAccepted, resp)
}

// GenerationStatus merges the live status record with the queue's view.
// isRunning is derived from the queue, not trusted from the record, since a
// crashed worker can leave a stale record behind.
func (a *App) GenerationStatus(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)

	live, err := a.Queue.HasLiveJob(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("handlers: queue cross-check failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to read queue state")
		return
	}

	resp := map[string]any{
		"isRunning":      live,
		"mode":           nil,
		"currentPage":    1,
		"currentIndex":   0,
		"totalGenerated": 0,
	}

	if st, err := a.Status.Get(r.Context(), userID); err != nil {
		a.Logger.Warn().Err(err).Str("user_id", userID).Msg("handlers: status store read failed")
	} else if st != nil {
		resp["mode"] = st.Mode
		resp["jobId"] = st.JobID
		resp["totalGenerated"] = st.TotalGenerated
		if st.Message != "" {
			resp["message"] = st.Message
		}
		resp["updatedAt"] = st.UpdatedAt
	}

	if records, err := a.Progress.ListForUser(r.Context(), userID); err != nil {
		a.Logger.Warn().Err(err).Str("user_id", userID).Msg("handlers: progress read failed")
	} else if len(records) > 0 {
		latest := records[0]
		resp["currentPage"] = latest.CurrentPage
		resp["currentIndex"] = latest.CurrentIndex
		resp["totalGenerated"] = latest.TotalGenerated
		resp["lastMediaId"] = latest.LastMediaID
	}

	a.json(w, http.StatusOK, resp)
}

// GenerationStop sets the cooperative stop flag and, for continuous mode,
// removes the recurring schedule. An in-flight occurrence finishes its
// current item either way.
func (a *App) GenerationStop(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	ctx := r.Context()

	mode := domain.ModeBatch
	if st, err := a.Status.Get(ctx, userID); err != nil {
		a.Logger.Warn().Err(err).Str("user_id", userID).Msg("handlers: status store read failed")
	} else if st != nil && st.Mode != "" {
		mode = st.Mode
	}

	if err := a.Status.RequestStop(ctx, userID); err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("handlers: request stop failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to signal stop")
		return
	}

	message := "stop requested; generation will halt after the current item"
	if mode == domain.ModeContinuous {
		if err := a.Queue.StopContinuous(ctx, userID); err != nil {
			a.Logger.Error().Err(err).Str("user_id", userID).Msg("handlers: stop continuous failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to remove schedule")
			return
		}
		message = "continuous generation stopped; no more posts will be generated"
	}

	a.json(w, http.StatusOK, map[string]string{"message": message})
}
