package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"server/internal/http/handlers"
	"server/internal/infra"
	"server/internal/middleware"
)

func NewRouter(app *handlers.App, cfg *infra.Config) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, chimw.Recoverer, chimw.Logger)

	// Health
	r.Get("/v1/healthz", app.Health)

	// Control surface, admin only.
	r.Route("/v1/admin", func(r chi.Router) {
		r.Use(middleware.AuthJWT(cfg.JWTSecret))
		r.Use(middleware.RequireAdmin)
		r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))

		r.Route("/blog", func(r chi.Router) {
			r.Post("/generate", app.GenerationStart)
			r.Get("/generate/status", app.GenerationStatus)
			r.Post("/generate/stop", app.GenerationStop)

			r.Get("/jobs", app.JobsList)
			r.Delete("/jobs/{id}", app.JobCancel)
			r.Get("/queue/metrics", app.QueueMetrics)

			r.Get("/progress", app.ProgressList)
			r.Post("/progress/reset", app.ProgressReset)
		})

		r.Put("/settings/api-key", app.SettingsAPIKey)
	})

	return r
}
