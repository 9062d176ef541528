// This file implements a file system watcher for the library root. It uses
// OS-level events to notice new series directories and chapter archives and
// submits a library sync when the churn settles.

package jobs

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dmarreira/tankobon/internal/library"
)

// WatcherService watches the library directory for file system changes
// and triggers a library sync when files are added, modified, or deleted.
type WatcherService struct {
	ctx           JobContext
	watcher       *fsnotify.Watcher
	changed       bool
	mu            sync.Mutex
	debounceTimer *time.Timer
	debounceDelay time.Duration
	stopChan      chan struct{}
}

// NewWatcherService creates a new file system watcher service.
func NewWatcherService(ctx JobContext) *WatcherService {
	return &WatcherService{
		ctx:           ctx,
		debounceDelay: 2 * time.Second, // Wait 2 seconds after last change before syncing
		stopChan:      make(chan struct{}),
	}
}

// Start begins watching the library directory for changes.
func (w *WatcherService) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = watcher

	libraryPath := w.ctx.Config().Storage.LibraryPath

	// Watch the library root directory recursively
	err = filepath.WalkDir(libraryPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		// Only watch directories (files are watched via their parent directory)
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return err
	}

	log.Printf("File watcher started for library: %s", libraryPath)

	go w.processEvents()

	return nil
}

// Stop stops the file watcher service.
func (w *WatcherService) Stop() error {
	close(w.stopChan)
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}

func (w *WatcherService) processEvents() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)

		case <-w.stopChan:
			return
		}
	}
}

// handleEvent processes a single file system event.
func (w *WatcherService) handleEvent(event fsnotify.Event) {
	// Ignore Chmod events (these are often triggered by opening folders,
	// reading files, etc.)
	if event.Op == fsnotify.Chmod {
		return
	}

	hasRelevantOp := event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove) != 0
	if !hasRelevantOp {
		return
	}

	info, err := os.Stat(event.Name)
	isDir := err == nil && info.IsDir()

	// A new directory is a candidate series: add it to the watch list
	// and schedule a sync.
	if event.Op&fsnotify.Create != 0 && isDir {
		w.watcher.Add(event.Name)
		w.scheduleSync()
		return
	}

	// For file events, only archives matter.
	if !isDir && library.IsSupportedArchive(filepath.Base(event.Name)) {
		w.scheduleSync()
	}
}

// scheduleSync resets the debounce timer; the sync runs once events go quiet.
func (w *WatcherService) scheduleSync() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.changed = true
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, w.triggerSync)
}

func (w *WatcherService) triggerSync() {
	w.mu.Lock()
	if !w.changed {
		w.mu.Unlock()
		return
	}
	w.changed = false
	w.mu.Unlock()

	log.Println("File watcher detected library changes, triggering sync")
	if err := w.ctx.JobManager().RunJob("library-sync", w.ctx); err != nil {
		log.Printf("File watcher could not start library sync: %v", err)
	}
}
