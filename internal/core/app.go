package core

import (
	"fmt"
	"log"
	"os"

	"github.com/dmarreira/tankobon/internal/config"
	"github.com/dmarreira/tankobon/internal/jobs"
	"github.com/dmarreira/tankobon/internal/store"
	"github.com/dmarreira/tankobon/internal/websocket"
)

// App holds the core components of the application that are shared
// between the server and the CLI. It satisfies jobs.JobContext.
type App struct {
	cfg     *config.Config
	st      *store.Store
	hub     *websocket.Hub
	jobMgr  *jobs.JobManager
	version string
}

// New sets up and returns a new App instance. It loads the configuration,
// creates the storage directories and wires the shared services.
func New(version string) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return NewWithConfig(cfg, version)
}

// NewWithConfig wires an App around an existing configuration. Tests and the
// CLI use this to skip config file discovery.
func NewWithConfig(cfg *config.Config, version string) (*App, error) {
	dirs := []string{
		cfg.Storage.DataPath,
		cfg.Storage.LibraryPath,
		cfg.Storage.ImagesPath,
		cfg.Storage.CoversPath,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
		}
	}

	app := &App{
		cfg:     cfg,
		st:      store.New(cfg.Storage.DataPath),
		hub:     websocket.NewHub(),
		version: version,
	}
	app.jobMgr = jobs.NewManager(app)
	jobs.RegisterJobs(app.jobMgr)
	go app.hub.Run()

	log.Println("Core application setup complete.")
	return app, nil
}

func (a *App) Config() *config.Config       { return a.cfg }
func (a *App) Store() *store.Store          { return a.st }
func (a *App) WsHub() *websocket.Hub        { return a.hub }
func (a *App) JobManager() *jobs.JobManager { return a.jobMgr }
func (a *App) Version() string              { return a.version }
