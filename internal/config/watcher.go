// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

package config

import (
	"context"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// SETTINGS WATCHER
// =============================================================================

// settingsDebounce is how long a changed file must stay quiet before the
// configuration is reloaded.
const settingsDebounce = 200 * time.Millisecond

// SettingsWatcher reloads the global configuration when settings.toml or
// the credential file changes on disk.
//
// Editors and atomic writers replace files by rename, which breaks a watch
// on the file itself, so the watcher watches the config directory and
// filters events by file name.
type SettingsWatcher struct {
	dir      string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onReload func(*Config)
	mu       sync.Mutex
	pending  map[string]time.Time // file path -> last change time
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewSettingsWatcher creates a watcher for the config directory. The
// onReload callback, if non-nil, receives the freshly loaded configuration
// after each reload. It is called from the watcher goroutine.
func NewSettingsWatcher(onReload func(*Config)) (*SettingsWatcher, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &SettingsWatcher{
		dir:      dir,
		watcher:  watcher,
		debounce: settingsDebounce,
		onReload: onReload,
		pending:  make(map[string]time.Time),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Watch starts watching for configuration changes.
func (w *SettingsWatcher) Watch() error {
	// The directory must exist before it can be watched
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}

	go w.processEvents()
	go w.processPending()

	return nil
}

// processEvents collects file system events into the pending set.
func (w *SettingsWatcher) processEvents() {
	// RELIABILITY: A panic here must not take down the host program
	defer func() {
		if r := recover(); r != nil {
			log.Printf("CONFIG_WATCH_PANIC | recovered=%v", r)
		}
	}()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !watchedFile(event.Name) {
				continue
			}
			// Write, Create, Rename and Remove all change what Load sees
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				w.mu.Lock()
				w.pending[event.Name] = time.Now()
				w.mu.Unlock()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("CONFIG_WATCH_ERROR | error=%v", err)
		}
	}
}

// watchedFile reports whether a change to path should trigger a reload.
func watchedFile(path string) bool {
	switch filepath.Base(path) {
	case settingsFileName, credentialFileName:
		return true
	}
	return false
}

// processPending reloads once changed files have settled past the debounce.
func (w *SettingsWatcher) processPending() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			now := time.Now()

			w.mu.Lock()
			ready := false
			for path, changed := range w.pending {
				if now.Sub(changed) >= w.debounce {
					delete(w.pending, path)
					ready = true
				}
			}
			w.mu.Unlock()

			if ready {
				w.reload()
			}
		}
	}
}

// reload refreshes the global config and notifies the callback. A failed
// reload keeps the previous configuration in place.
func (w *SettingsWatcher) reload() {
	if err := ReloadGlobal(); err != nil {
		log.Printf("CONFIG_RELOAD_FAILED | dir=%s | error=%v", w.dir, err)
		return
	}
	log.Printf("CONFIG_RELOAD | dir=%s", w.dir)

	if w.onReload != nil {
		w.onReload(Global())
	}
}

// Close stops watching and releases resources.
func (w *SettingsWatcher) Close() error {
	w.cancel()
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}
