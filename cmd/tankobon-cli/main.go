// A one-shot command line tool for working with the library without running
// the server. It can onboard new series, ingest chapters and pick covers.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/dmarreira/tankobon/internal/core"
	"github.com/dmarreira/tankobon/internal/covers"
	"github.com/dmarreira/tankobon/internal/ingest"
	"github.com/dmarreira/tankobon/internal/library"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags)

	if len(os.Args) < 2 {
		usage()
	}

	app, err := core.New("cli")
	if err != nil {
		log.Fatalf("Fatal error during application setup: %v", err)
	}
	cfg := app.Config()

	switch os.Args[1] {
	case "sync":
		onboarded, err := library.SyncLibrary(app.Store(), cfg.Storage.DataPath, cfg.Storage.LibraryPath)
		if err != nil {
			log.Fatalf("Library sync failed: %v", err)
		}
		fmt.Printf("Onboarded %d new series.\n", len(onboarded))
		for _, name := range onboarded {
			fmt.Println("  " + name)
		}

	case "ingest":
		if len(os.Args) != 4 {
			usage()
		}
		quantity, err := strconv.Atoi(os.Args[3])
		if err != nil {
			log.Fatalf("Invalid quantity %q", os.Args[3])
		}
		pipeline := ingest.New(cfg, app.Store(), nil)
		lastPath, err := pipeline.Ingest(context.Background(), os.Args[2], quantity)
		if err != nil {
			log.Fatalf("Ingestion failed: %v", err)
		}
		if lastPath == "" {
			fmt.Println("Series is already up to date.")
		} else {
			fmt.Printf("Ingested chapters up to %s\n", lastPath)
		}

	case "covers":
		all, err := app.Store().ListSeries()
		if err != nil {
			log.Fatalf("Could not list series: %v", err)
		}
		var names []string
		for _, s := range all {
			if s.CoverImage == "" {
				names = append(names, s.Name)
			}
		}
		pipeline := ingest.New(cfg, app.Store(), nil)
		covers.New(cfg, app.Store(), pipeline).SelectCovers(context.Background(), names)
		fmt.Printf("Cover selection finished for %d series.\n", len(names))

	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage:
  tankobon-cli sync                       Onboard new series from the library root
  tankobon-cli ingest <series> <count>    Extract the next <count> chapters
  tankobon-cli covers                     Pick covers for series without one`)
	os.Exit(2)
}
