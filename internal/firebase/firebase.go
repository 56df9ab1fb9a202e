// Package firebase initializes the shared Google Cloud clients (Auth,
// Firestore, Cloud Storage) from one credential set, with emulator support
// for local development.
package firebase

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/firestore"
	gcs "cloud.google.com/go/storage"
	fb "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/kursattkorkmazzz/garagely/internal/config"
)

// Clients bundles every provider-side client the service uses.
type Clients struct {
	App        *fb.App
	Auth       *fbauth.Client
	Firestore  *firestore.Client
	Bucket     *gcs.BucketHandle
	BucketName string
}

// NewClients connects to Firebase, Firestore and Cloud Storage. With
// UseEmulator set, the SDKs are pointed at local emulators through their
// standard environment variables instead of production endpoints.
func NewClients(ctx context.Context, cfg config.FirebaseConfig) (*Clients, error) {
	var opts []option.ClientOption

	if cfg.UseEmulator {
		os.Setenv("FIRESTORE_EMULATOR_HOST", cfg.FirestoreEmulator)
		os.Setenv("FIREBASE_AUTH_EMULATOR_HOST", cfg.AuthEmulator)
		os.Setenv("STORAGE_EMULATOR_HOST", cfg.StorageEmulator)
	} else if cfg.ClientEmail != "" && cfg.PrivateKey != "" {
		credentials, err := serviceAccountJSON(cfg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, option.WithCredentialsJSON(credentials))
	}

	bucketName := cfg.StorageBucket
	if bucketName == "" {
		bucketName = cfg.ProjectID + ".appspot.com"
	}

	app, err := fb.NewApp(ctx, &fb.Config{
		ProjectID:     cfg.ProjectID,
		StorageBucket: bucketName,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize auth client: %w", err)
	}

	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize firestore client: %w", err)
	}

	storageClient, err := app.Storage(ctx)
	if err != nil {
		firestoreClient.Close()
		return nil, fmt.Errorf("initialize storage client: %w", err)
	}
	bucket, err := storageClient.Bucket(bucketName)
	if err != nil {
		firestoreClient.Close()
		return nil, fmt.Errorf("open storage bucket: %w", err)
	}

	return &Clients{
		App:        app,
		Auth:       authClient,
		Firestore:  firestoreClient,
		Bucket:     bucket,
		BucketName: bucketName,
	}, nil
}

// Close releases the underlying connections.
func (c *Clients) Close() error {
	return c.Firestore.Close()
}

// serviceAccountJSON assembles a credentials document from the individual
// environment variables. Private keys arrive with literal "\n" sequences
// when set through .env files.
func serviceAccountJSON(cfg config.FirebaseConfig) ([]byte, error) {
	document := map[string]string{
		"type":         "service_account",
		"project_id":   cfg.ProjectID,
		"client_email": cfg.ClientEmail,
		"private_key":  strings.ReplaceAll(cfg.PrivateKey, `\n`, "\n"),
		"token_uri":    "https://oauth2.googleapis.com/token",
	}

	credentials, err := json.Marshal(document)
	if err != nil {
		return nil, fmt.Errorf("assemble service account credentials: %w", err)
	}
	return credentials, nil
}
