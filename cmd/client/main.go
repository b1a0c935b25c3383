package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MEERTECHLTD/ClearMind-sub001/internal/adapter"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/client"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/collection"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/config"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/logger"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/service"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/store"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/tui"
	"github.com/MEERTECHLTD/ClearMind-sub001/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	fmt.Println(tui.RenderBuildInfo("clearmind-sync", models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)))

	cfg, err := config.GetClientConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error getting configs: %v\n", err)
		os.Exit(1)
	}

	log, logCloser := logger.NewClientLogger("clearmind-sync", cfg.Log.File)
	defer logCloser.Close()
	if err = logger.SetLevel(cfg.Log.Level); err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}

	if err = run(cfg, log); err != nil {
		log.Error().Err(err).Msg("client run error")
		logCloser.Close()
		os.Exit(1)
	}
}

func run(cfg *config.ClientConfig, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	mapper := collection.Default()

	remote, err := adapter.NewHTTPRemoteStore(cfg.Adapter, cfg.App, log)
	if err != nil {
		return fmt.Errorf("create remote adapter: %w", err)
	}

	pusher := service.NewChangePusher(remote, mapper)
	storages, err := store.NewClientStorages(ctx, cfg.Storage, log,
		store.WithPrincipal(remote.Principal),
		store.WithChangeHook(pusher.Hook()),
	)
	if err != nil {
		return fmt.Errorf("create local storage: %w", err)
	}
	defer storages.Close()

	services := service.NewClientServices(storages.LocalStore, remote, mapper, cfg.Sync, service.ClientServiceOptions{
		OnRealtimeError: func(e models.CollectionError) {
			log.Warn().Str("collection", e.Collection).Str("error", e.Message).Msg("realtime reconciliation failed")
		},
		OnJobResult: func(result models.SyncResult, err error) {
			if err == nil && result.Success {
				return
			}
			log.Warn().Err(err).Strs("failed", result.FailedCollections).Msg("periodic sync incomplete")
		},
	})

	services.Notifier.Listen(func(e models.ChangeEvent) {
		log.Debug().Str("collection", e.Collection).Time("at", e.At).Msg("local collection changed")
	})

	return client.NewApp(services, remote, *cfg, os.Stdout, log).Run(ctx)
}
