package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/middleware"
)

// KeyStore stores a user's AI provider API key.
type KeyStore interface {
	SetToken(ctx context.Context, userID, provider, key string) error
}

// App is the handler container; collaborators are injected so tests can
// substitute in-memory fakes.
type App struct {
	SQL         infra.SQLExecutor
	Queue       domain.JobQueue
	Status      domain.StatusStore
	Progress    domain.ProgressRepository
	Credentials KeyStore
	Logger      zerolog.Logger
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]any{
		"error": map[string]string{"code": errCode, "message": message},
	})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}
