package firebase

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"fezeaixcommission/pkg/config"
	"fezeaixcommission/pkg/logger"
)

// CredentialsOption prefers inline service account JSON (production) and
// falls back to a key file on disk (local development).
func CredentialsOption(cfg *config.Config) (option.ClientOption, error) {
	if cfg.ServiceAccountJSON != "" {
		logger.Info("Using Firebase service account from environment variable")
		return option.WithCredentialsJSON([]byte(cfg.ServiceAccountJSON)), nil
	}

	if _, err := os.Stat(cfg.ServiceAccountPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("service account file does not exist: %s", cfg.ServiceAccountPath)
	}

	logger.Info("Using Firebase service account from file: %s", cfg.ServiceAccountPath)
	return option.WithCredentialsFile(cfg.ServiceAccountPath), nil
}

// NewApp initializes the Firebase app and returns the credentials it was
// built with, so other Google clients (storage) can share them.
func NewApp(ctx context.Context, cfg *config.Config) (*fbapp.App, option.ClientOption, error) {
	opt, err := CredentialsOption(cfg)
	if err != nil {
		return nil, nil, err
	}

	app, err := fbapp.NewApp(ctx, &fbapp.Config{
		ProjectID:     cfg.FirebaseProject,
		StorageBucket: cfg.StorageBucket,
	}, opt)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize firebase: %w", err)
	}

	return app, opt, nil
}

func NewFirestoreClient(ctx context.Context, app *fbapp.App) (*firestore.Client, error) {
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return client, nil
}
