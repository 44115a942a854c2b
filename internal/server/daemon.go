package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"mediamend/internal/config"
	"mediamend/internal/logging"
	"mediamend/internal/sessions"
)

// Daemon ties together the API server, the session store, and the
// single-instance lock.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *sessions.Store
	api    *Server

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// NewDaemon constructs a daemon with initialized dependencies.
func NewDaemon(cfg *config.Config, store *sessions.Store, api *Server, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || api == nil {
		return nil, errors.New("daemon requires config, session store, and api server")
	}
	lockPath := filepath.Join(cfg.Paths.DataDir, "mediamendd.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		api:      api,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock, starts the API server, and launches the
// session purge loop.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another mediamend daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.api.Start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return err
	}
	d.cancel = cancel

	go d.purgeLoop(runCtx)

	d.running.Store(true)
	d.logger.Info("daemon started",
		logging.String("lock", d.lockPath),
		logging.String("address", d.api.Addr()))
	return nil
}

func (d *Daemon) purgeLoop(ctx context.Context) {
	interval := time.Duration(d.cfg.Sessions.PurgeIntervalMins) * time.Minute
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged, err := d.store.PurgeExpired(ctx)
			if err != nil {
				d.logger.Warn("session purge failed", logging.Error(err))
				continue
			}
			if purged > 0 {
				d.logger.Info("purged expired sessions", logging.Int64("count", purged))
			}
		}
	}
}

// Stop stops the API server and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	return d.store.Close()
}
