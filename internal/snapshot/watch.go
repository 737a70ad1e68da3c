package snapshot

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the watcher waits for a burst of events to settle.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports changes below Root.
type Watcher struct {
	Root     string
	Ignore   []string
	Debounce time.Duration
	Logger   *zap.Logger
}

// Run blocks until ctx is done, calling onChange after each settled batch of
// file system events. An error from onChange stops the watcher.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context) error) error {
	log := w.Logger
	if log == nil {
		log = zap.NewNop()
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := w.addTree(fw, w.Root, log); err != nil {
		return &InputError{Source: w.Root, Err: err}
	}
	log.Debug("watching", zap.String("root", w.Root), zap.Int("dirs", len(fw.WatchList())))

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			log.Debug("change", zap.String("op", event.Op.String()), zap.String("path", event.Name))
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(fw, event.Name, log); err != nil {
						log.Warn("watch new directory", zap.String("path", event.Name), zap.Error(err))
					}
				}
			}
			pending = true
			timer.Reset(debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			if err := onChange(ctx); err != nil {
				return err
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	rel, err := filepath.Rel(w.Root, event.Name)
	if err != nil {
		return true
	}
	return !Ignored(w.Ignore, filepath.ToSlash(rel))
}

func (w *Watcher) addTree(fw *fsnotify.Watcher, dir string, log *zap.Logger) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != w.Root {
			if rel, err := filepath.Rel(w.Root, p); err == nil && Ignored(w.Ignore, filepath.ToSlash(rel)) {
				return filepath.SkipDir
			}
		}
		if err := fw.Add(p); err != nil {
			return err
		}
		log.Debug("watch directory", zap.String("path", p))
		return nil
	})
}
