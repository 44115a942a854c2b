package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"mediamend/internal/config"
	"mediamend/internal/corrections"
	"mediamend/internal/logging"
	"mediamend/internal/metastore"
	"mediamend/internal/server"
	"mediamend/internal/services/alist"
	"mediamend/internal/sessions"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg.Logging.Level, cfg.Logging.Format, cfg.Paths.LogDir)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := sessions.Open(filepath.Join(cfg.Paths.DataDir, "sessions.db"))
	if err != nil {
		logger.Error("open session store", logging.Error(err))
		return
	}

	var corrector server.Corrector
	if cfg.StorageConfigured() {
		client := alist.New(cfg.Storage.URL, cfg.Storage.Token, cfg.Storage.Username, cfg.Storage.Password,
			alist.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Storage.RequestTimeout) * time.Second}),
			alist.WithLogger(logger))
		corrector = corrections.NewService(client, metastore.NewCache(), cfg.Storage.RootPath, logger)
	} else {
		logger.Warn("storage is not configured; correction endpoints will refuse requests")
	}

	api := server.New(cfg.Paths.APIBind, store, corrector, logger)
	daemon, err := server.NewDaemon(cfg, store, api, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		return
	}
	defer daemon.Close()

	if err := daemon.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("mediamendd shutting down")
}
