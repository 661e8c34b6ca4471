package catalog

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/litescript/ls-orbits/internal/logging"
)

// DefaultDebounce is how long a file must be quiet before it is reloaded.
const DefaultDebounce = 100 * time.Millisecond

// Reload reports the outcome of one reload attempt.
type Reload struct {
	Path   string
	Bodies int   // Number of bodies after a successful reload
	Err    error // Non-nil if the file could not be loaded; the catalog is unchanged
}

// Watcher reloads a catalog file into a Catalog whenever it changes.
//
// The parent directory is watched rather than the file so that editors
// which save by rename are still seen.
type Watcher struct {
	Path     string
	Debounce time.Duration
	Reloads  <-chan Reload // Read-only external channel

	catalog *Catalog
	log     *logging.Logger
	reloads chan Reload // Internal write channel
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher that keeps cat in sync with path.
func NewWatcher(path string, cat *Catalog, log *logging.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.Discard()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		fw.Close()
		return nil, err
	}

	ch := make(chan Reload, 16)
	return &Watcher{
		Path:     abs,
		Debounce: DefaultDebounce,
		Reloads:  ch,
		catalog:  cat,
		log:      log.With("component", "catalog"),
		reloads:  ch,
		done:     make(chan struct{}),
		watcher:  fw,
	}, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		w.watcher.Close()
		close(w.done)
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and the Reloads channel.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done // Wait for loop to exit
	close(w.reloads)
}

func (w *Watcher) loop() {
	defer close(w.done)

	var pending time.Time
	ticker := time.NewTicker(w.Debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.Path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.Now()
			}

		case <-ticker.C:
			if !pending.IsZero() && time.Since(pending) >= w.Debounce {
				pending = time.Time{}
				w.reload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "err", err)
		}
	}
}

func (w *Watcher) reload() {
	r := Reload{Path: w.Path}
	next, err := Load(w.Path)
	if err != nil {
		r.Err = err
		w.log.Warn("catalog reload failed", "path", w.Path, "err", err)
	} else {
		w.catalog.Replace(next)
		r.Bodies = next.Len()
		w.log.Info("catalog reloaded", "path", w.Path, "bodies", r.Bodies)
	}

	select {
	case w.reloads <- r:
	default:
		// Nobody is listening; drop the notification.
	}
}
