package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MEERTECHLTD/ClearMind-sub001/internal/collection"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/config"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/handler"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/logger"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/server"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/service"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("clearmind-server")
	cfg, err := config.GetServerConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if err = logger.SetLevel(cfg.Log.Level); err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}

	if cfg.App.Version == "" {
		cfg.App.Version = buildVersion
	}

	if cfg.App.IssueTokenFor != "" {
		issueToken(cfg, log)
		return
	}

	ctx := context.Background()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	services, err := service.NewServices(storages, collection.Default(), cfg.App, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

// issueToken prints a signed token for a principal. Principals are
// provisioned out of band; this is the only way to mint credentials.
func issueToken(cfg *config.ServerConfig, log *logger.Logger) {
	token, err := service.NewAuthService(cfg.App, log).CreateToken(context.Background(), cfg.App.IssueTokenFor)
	if err != nil {
		log.Fatal().Err(err).Msg("error issuing token")
	}
	fmt.Println(token.SignedString)
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
