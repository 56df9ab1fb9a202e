package config

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/kursattkorkmazzz/garagely/internal/envconfig"
	"github.com/kursattkorkmazzz/garagely/internal/storage"
)

type Config struct {
	Port     string `validate:"required"`
	Firebase FirebaseConfig
	Auth     AuthConfig
	Storage  StorageConfig
}

type FirebaseConfig struct {
	ProjectID           string `validate:"required"`
	ClientEmail         string
	PrivateKey          string
	StorageBucket       string
	UseEmulator         bool
	FirestoreEmulator   string
	AuthEmulator        string
	StorageEmulator     string
	WebAPIKey           string
}

type AuthConfig struct {
	// Mode selects the token variant: firebase verifies provider ID tokens
	// and mints custom tokens; internal signs HS256 tokens; noop treats the
	// bearer token as the user id (tests and local tooling only).
	Mode      string `validate:"required,oneof=firebase internal noop"`
	JWTSecret string
}

type StorageConfig struct {
	Limits storage.Limits
}

func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := Config{
		Port: envconfig.Get("PORT", "3001"),
		Firebase: FirebaseConfig{
			ProjectID:         envconfig.Get("FIREBASE_PROJECT_ID", "garagely-dev"),
			ClientEmail:       envconfig.Get("FIREBASE_CLIENT_EMAIL", ""),
			PrivateKey:        envconfig.Get("FIREBASE_PRIVATE_KEY", ""),
			StorageBucket:     envconfig.Get("FIREBASE_STORAGE_BUCKET", ""),
			UseEmulator:       envconfig.GetBool("FIREBASE_USE_EMULATOR", false),
			FirestoreEmulator: envconfig.Get("FIRESTORE_EMULATOR_HOST", "127.0.0.1:8080"),
			AuthEmulator:      envconfig.Get("FIREBASE_AUTH_EMULATOR_HOST", "127.0.0.1:9099"),
			StorageEmulator:   envconfig.Get("FIREBASE_STORAGE_EMULATOR_HOST", "127.0.0.1:9199"),
			WebAPIKey:         envconfig.Get("FIREBASE_WEB_API_KEY", ""),
		},
		Auth: AuthConfig{
			Mode:      envconfig.Get("AUTH_MODE", "firebase"),
			JWTSecret: envconfig.Get("JWT_SECRET", ""),
		},
		Storage: StorageConfig{
			Limits: storage.LoadLimits(),
		},
	}
	return cfg, envconfig.Validate(cfg)
}
