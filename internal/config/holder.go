// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kubedemo/hostpage/internal/log"
)

// Holder provides lock-free access to the current configuration and supports
// hot reload of the mutable subset (title, log level) when a config file is
// in use. Listen addresses are immutable for the lifetime of the process.
type Holder struct {
	current atomic.Pointer[AppConfig]
	loader  *Loader
	path    string
}

// NewHolder creates a Holder seeded with cfg. loader and path may be zero
// values when no config file is in use; StartWatcher is then a no-op.
func NewHolder(cfg AppConfig, loader *Loader, path string) *Holder {
	h := &Holder{loader: loader, path: path}
	h.current.Store(&cfg)
	return h
}

// Current returns the active configuration snapshot. The returned value must
// not be mutated.
func (h *Holder) Current() *AppConfig {
	return h.current.Load()
}

// StartWatcher watches the config file and applies the mutable subset of any
// change. It returns immediately; the watch loop runs until ctx is cancelled.
func (h *Holder) StartWatcher(ctx context.Context) error {
	if h.path == "" || h.loader == nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}

	// Watch the directory, not the file: editors and kubelet configmap
	// updates replace the file rather than writing it in place.
	dir := filepath.Dir(h.path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch config dir %s: %w", dir, err)
	}

	logger := log.WithComponent("config-watcher")
	logger.Info().Str("path", h.path).Msg("watching config file for changes")

	go func() {
		defer func() {
			if err := watcher.Close(); err != nil {
				logger.Warn().Err(err).Msg("failed to close config watcher")
			}
		}()

		var debounce *time.Timer
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(h.path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				// Coalesce bursts of events into a single reload.
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(200*time.Millisecond, h.reload)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn().Err(err).Msg("config watcher error")
			}
		}
	}()

	return nil
}

// reload re-resolves the configuration and applies the mutable subset.
func (h *Holder) reload() {
	logger := log.WithComponent("config-watcher")

	fresh, err := h.loader.Load()
	if err != nil {
		logger.Error().Err(err).
			Str("event", "config.reload_failed").
			Msg("config reload failed, keeping previous configuration")
		return
	}

	prev := h.Current()
	next := *prev
	next.Title = fresh.Title
	next.LogLevel = fresh.LogLevel
	h.current.Store(&next)

	if next.LogLevel != prev.LogLevel {
		log.SetLevel(next.LogLevel)
	}

	logger.Info().
		Str("event", "config.reloaded").
		Str("title", next.Title).
		Str("log_level", next.LogLevel).
		Msg("configuration reloaded")
}
