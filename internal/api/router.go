package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", HealthHandler)
	r.Post("/api/jobs", app.CreateJobHandler)
	r.Get("/api/jobs/{id}", app.GetJobHandler)

	if app.OutputDir != "" {
		fileServer := http.FileServer(http.Dir(app.OutputDir))
		r.Handle("/grids/*", http.StripPrefix("/grids", fileServer))
	}

	return r
}
