// Package main initializes and starts the vault API server, setting up
// configuration, logging, the persistence backend, repositories, services,
// and handlers.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/datavault/internal/config"
	"github.com/atinyakov/datavault/internal/db"
	"github.com/atinyakov/datavault/internal/logger"
	"github.com/atinyakov/datavault/internal/repository"
	"github.com/atinyakov/datavault/internal/secret"
	"github.com/atinyakov/datavault/internal/server/handler/http"
	"github.com/atinyakov/datavault/internal/service"
	"github.com/atinyakov/datavault/internal/store"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Select the persistence backend: PostgreSQL when a DSN is set,
	// the JSON file store otherwise.
	var (
		users       repository.Users
		dataItems   repository.DataItems
		credentials repository.Credentials
	)
	if options.DatabaseDSN != "" {
		postgresDB, err := db.InitPostgres(options.DatabaseDSN)
		if err != nil {
			zapLogger.Fatal("cannot init database", zap.Error(err))
		}
		users = repository.NewPostgresUsers(postgresDB)
		dataItems = repository.NewPostgresDataItems(postgresDB)
		credentials = repository.NewPostgresCredentials(postgresDB)
		zapLogger.Info("using postgres backend")
	} else {
		fileStore, err := store.New(options.StoragePath)
		if err != nil {
			zapLogger.Fatal("cannot init file store", zap.Error(err))
		}
		users = repository.NewFileUsers(fileStore)
		dataItems = repository.NewFileDataItems(fileStore)
		credentials = repository.NewFileCredentials(fileStore)
		zapLogger.Info("using json file store", zap.String("dir", options.StoragePath))
	}

	// Credential secrets stay plaintext unless an encryption key is set.
	var cipher secret.Cipher = secret.Plaintext{}
	if options.SecretsKey != "" {
		aes, err := secret.NewAESGCM(options.SecretsKey)
		if err != nil {
			zapLogger.Fatal("cannot init secrets cipher", zap.Error(err))
		}
		cipher = aes
		zapLogger.Info("credential encryption at rest enabled")
	}

	// Initialize business-logic services.
	tokens := service.NewTokens(options.JWTSecret, options.TokenTTL)
	authService := service.NewAuth(users)
	dataService := service.NewDataItems(dataItems)
	credentialService := service.NewCredentials(credentials, cipher)

	// Create HTTP handlers.
	authHandler := &http.AuthHandler{AuthService: authService, Tokens: tokens}
	dataHandler := &http.DataHandler{DataService: dataService}
	credentialHandler := &http.CredentialHandler{CredentialService: credentialService}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, dataHandler, credentialHandler, tokens, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Address,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("shutdown failed", zap.Error(err))
	}
	zapLogger.Info("server stopped")
}
