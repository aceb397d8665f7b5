package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/phrazzld/codegen-api/internal/api"
	apiMiddleware "github.com/phrazzld/codegen-api/internal/api/middleware"
	"github.com/phrazzld/codegen-api/internal/api/shared"
)

// setupRouter registers middleware and routes. GET requests that match no
// route are served from the static directory.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", shared.TraceIDHeader},
		ExposedHeaders: []string{shared.TraceIDHeader},
		MaxAge:         300,
	}))

	service := app.pipeline.Service
	generationHandler := api.NewGenerationHandler(service, app.config.LLM.DefaultTemperature, app.logger)
	catalogHandler := api.NewCatalogHandler(service)
	jobHandler := api.NewJobHandler(app.jobs, service, app.config.LLM.DefaultTemperature, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", generationHandler.Generate)

		r.Post("/jobs", jobHandler.Submit)
		r.Get("/jobs/{id}", jobHandler.Get)

		r.Get("/languages", catalogHandler.ListLanguages)
		r.Get("/languages/{name}", catalogHandler.GetLanguage)

		r.Get("/providers", catalogHandler.ListProviders)
		r.Get("/providers/{provider}/models", catalogHandler.ListModels)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})
	r.Method(http.MethodGet, "/metrics", app.pipeline.Metrics.Handler())
	r.Method(http.MethodGet, "/config", api.NewConfigHandler(app.config.Server.ConfigFile))

	static := http.FileServer(http.Dir(app.config.Server.StaticDir))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			shared.RespondWithError(w, r, http.StatusNotFound, "Not found")
			return
		}
		static.ServeHTTP(w, r)
	})

	return r
}
