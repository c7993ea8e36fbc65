package firestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog"
	"github.com/staynest/listings-api/internal/platform/config"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const emulatorHostEnv = "FIRESTORE_EMULATOR_HOST"

// New creates a Firestore client using credentials provided via env (base64 or file).
// When the emulator host is set the credentials are skipped. It returns the
// client and a description of which credential source was used.
func New(ctx context.Context, cfg config.Config) (*firestore.Client, string, error) {
	if os.Getenv(emulatorHostEnv) != "" {
		client, err := firestore.NewClient(ctx, cfg.FirebaseProjectID)
		if err != nil {
			return nil, "", fmt.Errorf("init firestore emulator client: %w", err)
		}
		return client, "emulator", nil
	}

	creds, source, err := cfg.FirebaseCredentialsJSON()
	if err != nil {
		return nil, "", err
	}

	client, err := firestore.NewClient(ctx, cfg.FirebaseProjectID, option.WithCredentialsJSON(creds))
	if err != nil {
		return nil, "", fmt.Errorf("init firestore client: %w", err)
	}
	return client, source, nil
}

// Connect creates the client and verifies it can reach the project.
func Connect(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*firestore.Client, error) {
	client, source, err := New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := Ping(ctx, client); err != nil {
		client.Close()
		return nil, fmt.Errorf("firestore ping: %w", err)
	}
	logger.Info().
		Str("project", cfg.FirebaseProjectID).
		Str("credentials", source).
		Msg("connected to Firestore")
	return client, nil
}

// Ping performs a lightweight check by attempting to iterate collections.
func Ping(ctx context.Context, client *firestore.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	iter := client.Collections(ctx)
	_, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return nil
	}
	return err
}
