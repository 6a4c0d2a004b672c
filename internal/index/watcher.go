package index

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/chatnary/chatnary/internal/library"
)

const debounceDelay = 200 * time.Millisecond

// Watcher monitors the library for file changes and triggers re-indexing.
type Watcher struct {
	indexer  *Indexer
	watcher  *fsnotify.Watcher
	root     string
	logger   *log.Logger
	debounce map[string]*time.Timer
	mu       sync.Mutex
	closed   bool
	onChange func(path string) // called with the relative path after re-indexing
	onError  func(error)       // called once when the watcher stops on an error
}

func NewWatcher(indexer *Indexer, root string, logger *log.Logger, onChange func(string), onError func(error)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		indexer:  indexer,
		watcher:  fw,
		root:     root,
		logger:   logger,
		debounce: make(map[string]*time.Timer),
		onChange: onChange,
		onError:  onError,
	}

	if err := w.addTree(root); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return w, nil
}

// addTree watches dir and its non-hidden subdirectories.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// Start begins watching for changes. Blocks until Stop is called or the
// underlying watcher fails.
func (w *Watcher) Start() {
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
			w.fatal(fmt.Errorf("watch library: %w", err))
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	if strings.HasPrefix(filepath.Base(path), ".") {
		return
	}

	if !library.IsDocument(path) {
		if event.Has(fsnotify.Create) {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				if err := w.addTree(path); err != nil {
					w.logger.Warn("watch new directory", "path", path, "err", err)
				}
			}
		}
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if timer, ok := w.debounce[path]; ok {
		timer.Stop()
	}
	w.debounce[path] = time.AfterFunc(debounceDelay, func() {
		w.mu.Lock()
		delete(w.debounce, path)
		closed := w.closed
		w.mu.Unlock()
		if closed {
			return
		}
		w.sync(path)
	})
}

// sync brings the index in line with the file at path, whatever event
// triggered it.
func (w *Watcher) sync(path string) {
	var err error
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		err = w.indexer.RemoveFile(path)
	} else {
		_, err = w.indexer.IndexFile(path)
	}
	if err != nil {
		w.logger.Error("reindex", "path", path, "err", err)
		return
	}

	if w.onChange != nil {
		rel, relErr := filepath.Rel(w.root, path)
		if relErr != nil {
			rel = path
		}
		w.onChange(filepath.ToSlash(rel))
	}
}

func (w *Watcher) fatal(err error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	onError := w.onError
	w.mu.Unlock()

	w.logger.Error("watcher stopped", "err", err)
	if onError != nil {
		onError(err)
	}
}

// Stop stops the watcher and cancels pending re-indexes.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	w.closed = true
	for path, timer := range w.debounce {
		timer.Stop()
		delete(w.debounce, path)
	}
	w.mu.Unlock()
	return w.watcher.Close()
}
