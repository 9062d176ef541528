// It defines the API server, sets up the routes (endpoints)
// using chi, and links them to the handler functions.

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmarreira/tankobon/internal/collections"
	"github.com/dmarreira/tankobon/internal/core"
	"github.com/dmarreira/tankobon/internal/ingest"
	"github.com/dmarreira/tankobon/internal/store"
	"github.com/dmarreira/tankobon/internal/user"
)

// Server holds the dependencies for our API.
type Server struct {
	app         *core.App
	store       *store.Store
	pipeline    *ingest.Pipeline
	users       *user.Service
	collections *collections.Service
}

// NewServer creates a new Server instance.
func NewServer(app *core.App) *Server {
	st := app.Store()
	return &Server{
		app:         app,
		store:       st,
		pipeline:    ingest.New(app.Config(), st, app.WsHub()),
		users:       user.New(st),
		collections: collections.New(app.Config().Storage.DataPath, st),
	}
}

// Store returns the store instance.
func (s *Server) Store() *store.Store {
	return s.store
}

// Router sets up and returns the main router for the application.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)    // Logs requests to the console
	r.Use(middleware.Recoverer) // Recovers from panics
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/api/version", s.handleGetVersion)
	r.Get("/api/ws", s.app.WsHub().ServeWs)

	r.Route("/api", func(r chi.Router) {
		r.Get("/series", s.handleListSeries)
		r.Route("/series/{seriesName}", func(r chi.Router) {
			r.Get("/", s.handleGetSeries)
			r.Get("/cover", s.handleGetCover)
			r.Get("/return-page", s.handleReturnPage)

			r.Post("/ingest", s.handleIngest)
			r.Post("/chapters/{chapterID}/ingest", s.handleIngestChapter)
			r.Post("/chapters/{chapterID}/read", s.handleMarkChapterRead)

			r.Post("/rating", s.handleRateSeries)
			r.Post("/favorite", s.handleToggleFavorite)
			r.Post("/status", s.handleSetStatus)
			r.Post("/comments", s.handleAddSeriesComment)
		})

		// Collection Routes
		r.Get("/collections", s.handleListCollections)
		r.Post("/collections", s.handleCreateCollection)
		r.Route("/collections/{collectionName}", func(r chi.Router) {
			r.Get("/", s.handleGetCollection)
			r.Delete("/", s.handleDeleteCollection)
			r.Post("/series", s.handleCollectionAddSeries)
			r.Delete("/series/{seriesName}", s.handleCollectionRemoveSeries)
			r.Post("/comments", s.handleAddCollectionComment)
		})

		// Admin Job Triggers
		r.Route("/admin", func(r chi.Router) {
			r.Get("/jobs/status", s.handleGetAdminJobsStatus)
			r.Post("/jobs/run", s.handleRunAdminJob)
		})
	})

	return r
}
