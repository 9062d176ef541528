package jobs

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/dmarreira/tankobon/internal/covers"
	"github.com/dmarreira/tankobon/internal/ingest"
	"github.com/dmarreira/tankobon/internal/library"
)

// RegisterJobs registers the built-in background jobs with the manager.
func RegisterJobs(jm *JobManager) {
	jm.Register("library-sync", "Library Sync", runLibrarySync)
	jm.Register("cover-selection", "Cover Selection", runCoverSelection)
}

// StartJobs starts the background job scheduler.
func StartJobs(app JobContext) {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	startLibrarySyncJob(s, app)

	log.Println("Starting background job scheduler...")
	s.StartAsync()
}

func startLibrarySyncJob(s *gocron.Scheduler, app JobContext) {
	interval := app.Config().ScanInterval
	if interval == 0 {
		log.Println("Library sync interval is 0, scheduled sync is disabled.")
		return
	}

	jobId := "library-sync"
	log.Printf("Scheduling job: '%s' to run every %d minutes.", jobId, interval)

	_, err := s.Every(interval).Minutes().Do(func() {
		log.Println("Scheduler is triggering job:", jobId)
		// Submit the job to the manager instead of running it directly.
		// This prevents conflicts with manually triggered jobs.
		err := app.JobManager().RunJob(jobId, app)
		if err != nil {
			log.Printf("Scheduled job '%s' could not start: %v", jobId, err)
		}
	})
	if err != nil {
		log.Printf("Error scheduling '%s' job: %v", jobId, err)
	}
}

// runLibrarySync onboards new series directories from the library root and
// assigns covers to anything that came in.
func runLibrarySync(app JobContext) {
	cfg := app.Config()
	onboarded, err := library.SyncLibrary(app.Store(), cfg.Storage.DataPath, cfg.Storage.LibraryPath)
	if err != nil {
		log.Printf("Library sync failed: %v", err)
		return
	}
	if len(onboarded) == 0 {
		return
	}
	log.Printf("Library sync onboarded %d series", len(onboarded))

	selector := newSelector(app)
	if err := selector.AssignExistingCovers(onboarded); err != nil {
		log.Printf("Cover assignment failed: %v", err)
	}
	selector.SelectCovers(context.Background(), seriesWithoutCovers(app, onboarded))
}

// runCoverSelection picks covers for every series that does not have one.
func runCoverSelection(app JobContext) {
	all, err := app.Store().ListSeries()
	if err != nil {
		log.Printf("Cover selection could not list series: %v", err)
		return
	}
	names := make([]string, 0, len(all))
	for _, s := range all {
		names = append(names, s.Name)
	}
	newSelector(app).SelectCovers(context.Background(), seriesWithoutCovers(app, names))
}

func newSelector(app JobContext) *covers.Selector {
	pipeline := ingest.New(app.Config(), app.Store(), app.WsHub())
	return covers.New(app.Config(), app.Store(), pipeline)
}

// seriesWithoutCovers filters the given names down to series that still lack
// a cover image.
func seriesWithoutCovers(app JobContext, names []string) []string {
	var out []string
	for _, name := range names {
		series, err := app.Store().ReadByName(name)
		if err != nil {
			log.Printf("Skipping %q: %v", name, err)
			continue
		}
		if series.CoverImage == "" {
			out = append(out, name)
		}
	}
	return out
}
