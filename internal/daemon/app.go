// SPDX-License-Identifier: MIT

package daemon

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/kubedemo/hostpage/internal/config"
)

// App owns the long-lived runtime lifecycle (config watcher) and delegates
// server management to Manager.
type App struct {
	logger    zerolog.Logger
	manager   Manager
	cfgHolder *config.Holder
}

// NewApp creates a new App orchestrator.
func NewApp(logger zerolog.Logger, manager Manager, cfgHolder *config.Holder) *App {
	return &App{
		logger:    logger,
		manager:   manager,
		cfgHolder: cfgHolder,
	}
}

// Run starts the owned background subsystems and blocks until ctx is
// cancelled or a fatal error occurs.
func (a *App) Run(ctx context.Context) error {
	if a.manager == nil {
		return ErrMissingManager
	}

	g, ctx := errgroup.WithContext(ctx)

	// Config watcher is best-effort: startup should not fail if the watcher
	// cannot be started.
	if a.cfgHolder != nil {
		if err := a.cfgHolder.StartWatcher(ctx); err != nil {
			a.logger.Warn().Err(err).Str("event", "config.watcher_start_failed").Msg("failed to start config watcher")
		}
	}

	g.Go(func() error {
		return a.manager.Start(ctx)
	})

	return g.Wait()
}
