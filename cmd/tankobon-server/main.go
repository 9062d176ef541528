// A minimal server entrypoint without the watcher or scheduler, useful for
// serving an already-ingested library.
package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/dmarreira/tankobon/internal/api"
	"github.com/dmarreira/tankobon/internal/core"
)

func main() {
	// Initialize the core application components
	app, err := core.New("dev")
	if err != nil {
		log.Fatalf("Fatal error during application setup: %v", err)
	}

	// Setup the API server
	server := api.NewServer(app)
	addr := fmt.Sprintf(":%d", app.Config().Port)
	log.Printf("Starting web server on %s", addr)

	// Start the HTTP server
	if err := http.ListenAndServe(addr, server.Router()); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
