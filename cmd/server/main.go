package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kursattkorkmazzz/garagely/internal/auth"
	"github.com/kursattkorkmazzz/garagely/internal/config"
	"github.com/kursattkorkmazzz/garagely/internal/firebase"
	"github.com/kursattkorkmazzz/garagely/internal/httpapi"
	"github.com/kursattkorkmazzz/garagely/internal/identity"
	"github.com/kursattkorkmazzz/garagely/internal/logging"
	"github.com/kursattkorkmazzz/garagely/internal/server"
	"github.com/kursattkorkmazzz/garagely/internal/storage"
	"github.com/kursattkorkmazzz/garagely/internal/user"
)

func main() {
	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Errorf("config error: %w", err))
	}

	logger := logging.NewLogger("garagely-api")

	clients, err := firebase.NewClients(ctx, cfg.Firebase)
	if err != nil {
		panic(fmt.Errorf("firebase clients: %w", err))
	}
	defer clients.Close()

	documentRepo := storage.NewFirestoreDocumentRepository(clients.Firestore)
	relationRepo := storage.NewFirestoreRelationRepository(clients.Firestore)
	blobs := storage.NewGCSBlobStore(clients.Bucket, clients.BucketName, emulatorHost(cfg))
	storageService := storage.NewService(documentRepo, relationRepo, blobs, cfg.Storage.Limits, logger)

	userRepo := user.NewFirestoreRepository(clients.Firestore)
	prefsRepo := user.NewFirestorePreferencesRepository(clients.Firestore)
	userService := user.NewService(userRepo, prefsRepo, storageService)

	provider := identity.NewFirebaseProvider(clients.Auth)
	passwords := passwordVerifier(cfg)

	var issuer auth.TokenIssuer
	if cfg.Auth.Mode == string(auth.ModeInternal) {
		issuer = auth.NewInternalTokens(cfg.Auth.JWTSecret)
	}
	authService := auth.NewService(provider, passwords, userService, issuer, logger)

	verifier, err := auth.NewVerifier(auth.VerifierConfig{
		Mode:      auth.Mode(cfg.Auth.Mode),
		JWTSecret: cfg.Auth.JWTSecret,
		IDTokens:  clients.Auth,
	})
	if err != nil {
		panic(fmt.Errorf("auth verifier error: %w", err))
	}

	router := server.NewRouter(logger, func(r chi.Router) {
		httpapi.RegisterRoutes(r, httpapi.Deps{
			Auth:     authService,
			Users:    userService,
			Storage:  storageService,
			Verifier: verifier,
			Limits:   cfg.Storage.Limits,
			Logger:   logger,
		})
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	if err := server.Run(ctx, srv, logger); err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic(err)
	}
}

func emulatorHost(cfg config.Config) string {
	if cfg.Firebase.UseEmulator {
		return cfg.Firebase.StorageEmulator
	}
	return ""
}

func passwordVerifier(cfg config.Config) identity.PasswordVerifier {
	if cfg.Firebase.UseEmulator {
		return identity.NewEmulatorPasswordVerifier(cfg.Firebase.AuthEmulator)
	}
	return identity.NewRESTPasswordVerifier(cfg.Firebase.WebAPIKey)
}
