package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hookeddocs/hookeddocs/constants"
)

// Config describes one watched source folder.
type Config struct {
	Folder   string
	Category constants.Category
	// Debounce coalesces rapid create/write bursts (a copy in progress
	// fires many events) into one batch trigger.
	Debounce time.Duration
}

// Start watches the folder and emits a tick whenever a file eligible for
// the category lands in it. The archive subfolder is not watched, so
// archiving processed files never re-triggers a batch.
func Start(ctx context.Context, cfg Config, logger *slog.Logger) (<-chan struct{}, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("watch.create_failed", "error", err)
		return nil, err
	}
	if err := w.Add(cfg.Folder); err != nil {
		logger.Error("watch.add_failed", "folder", cfg.Folder, "error", err)
		_ = w.Close()
		return nil, err
	}

	ticks := make(chan struct{}, 1)

	go func() {
		defer close(ticks)
		defer func() { _ = w.Close() }()

		var timer *time.Timer
		trigger := func() {
			select {
			case ticks <- struct{}{}:
			default:
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Dir(e.Name) != cfg.Folder {
					continue
				}
				ext := filepath.Ext(e.Name)
				if !constants.AllowedExt(cfg.Category, ext) {
					continue
				}
				if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
					continue
				}
				logger.Debug("watch.file_event", "file", e.Name, "op", e.Op.String())
				if cfg.Debounce > 0 {
					if timer != nil {
						timer.Stop()
					}
					timer = time.AfterFunc(cfg.Debounce, trigger)
				} else {
					trigger()
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("watch.error", "error", err)
			}
		}
	}()

	return ticks, nil
}
