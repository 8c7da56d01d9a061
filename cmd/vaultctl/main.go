package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vaultkit/go-vault-client/internal/adapter"
	"github.com/vaultkit/go-vault-client/internal/config"
	"github.com/vaultkit/go-vault-client/internal/crypto"
	"github.com/vaultkit/go-vault-client/internal/logger"
	"github.com/vaultkit/go-vault-client/internal/service"
	"github.com/vaultkit/go-vault-client/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewFileLogger("vaultctl")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := store.NewSQLiteStorage(ctx, cfg.Storage.DB.DSN, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}

	cs := crypto.NewCryptoService()
	users := service.NewUserService()

	serverAdapter := adapter.NewHTTPServerAdapter(adapter.HTTPClientConfig{
		BaseURL: "http://" + cfg.Adapter.HTTPAddress,
		Timeout: cfg.Adapter.RequestTimeout,
	})
	if token := os.Getenv("VAULT_TOKEN"); token != "" {
		serverAdapter.SetToken(token)
	}

	ciphers := service.NewCipherService(storage, cs, users, log)
	folders := service.NewFolderService(storage, cs, users, log)
	collections := service.NewCollectionService(storage, cs, users, log)
	sends := service.NewSendService(storage, cs, users, log)
	exports := service.NewExportService(ciphers, folders, collections, cs, serverAdapter, log)

	a := &app{
		cfg:         cfg,
		crypto:      cs,
		users:       users,
		adapter:     serverAdapter,
		ciphers:     ciphers,
		folders:     folders,
		collections: collections,
		sends:       sends,
		exports:     exports,
		logger:      log,
	}

	if err = a.run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		log.Err(err).Msg("command failed")
		os.Exit(1)
	}
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
