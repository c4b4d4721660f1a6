// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalog

import (
	"errors"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrWatchRemote is returned when asked to watch a URL-backed catalogue.
var ErrWatchRemote = errors.New("cannot watch a remote catalogue URL")

// =============================================================================
// CATALOGUE FILE WATCHER
// =============================================================================

// Watcher reloads a file-backed catalogue when the file changes, so edits
// to the problem list take effect without restarting the assistant.
// URL-backed catalogues cannot be watched; NewWatcher rejects them.
type Watcher struct {
	source   string
	logger   *log.Logger
	onReload func(*Catalog)
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu      sync.Mutex
	pending bool
	done    chan struct{}
}

// NewWatcher starts watching the catalogue file at path. onReload is
// called from the watcher goroutine with the freshly loaded catalogue
// (empty on parse failure, matching LoadOrEmpty semantics).
func NewWatcher(path string, logger *log.Logger, onReload func(*Catalog)) (*Watcher, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return nil, ErrWatchRemote
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the parent directory: editors replace files via rename, which
	// would silently drop a watch on the file itself.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		source:   path,
		logger:   logger,
		onReload: onReload,
		watcher:  fw,
		debounce: 250 * time.Millisecond,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Close stops the watcher. Safe to call once.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.source) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.scheduleReload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Printf("catalogue watcher error: %v", err)
			}
		}
	}
}

// scheduleReload coalesces bursts of events (editors often fire several
// per save) into a single reload after the debounce window.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	if w.pending {
		w.mu.Unlock()
		return
	}
	w.pending = true
	w.mu.Unlock()

	time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		w.pending = false
		w.mu.Unlock()

		select {
		case <-w.done:
			return
		default:
		}
		w.onReload(LoadOrEmpty(w.logger, w.source))
	})
}
