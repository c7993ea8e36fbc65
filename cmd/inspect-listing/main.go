package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/staynest/listings-api/internal/business/listing"
	"github.com/staynest/listings-api/internal/platform/config"
	firestoreclient "github.com/staynest/listings-api/internal/platform/firestore"
	"github.com/staynest/listings-api/internal/platform/logging"
	"github.com/staynest/listings-api/internal/repository"
)

// inspect-listing prints one listing as the API would serve it, plus the
// sanitized raw document, for debugging data issues.
func main() {
	catalogName := flag.String("catalog", "hotels", "catalog to read: hotels or properties")
	id := flag.String("id", "", "listing document id")
	raw := flag.Bool("raw", false, "also print the sanitized raw document")
	flag.Parse()

	_ = godotenv.Load(".env.local", ".env")
	logger := logging.New("warn", true)

	if *id == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect-listing -id <id> [-catalog hotels|properties] [-raw]")
		os.Exit(2)
	}

	cat, ok := catalogByName(*catalogName)
	if !ok {
		logger.Error().Str("catalog", *catalogName).Msg("unknown catalog")
		os.Exit(2)
	}

	os.Exit(run(cat, *id, *raw, logger))
}

func catalogByName(name string) (listing.Catalog, bool) {
	switch name {
	case "hotels":
		return listing.Hotels, true
	case "properties":
		return listing.Properties, true
	}
	return listing.Catalog{}, false
}

// run returns the process exit code so deferred cleanup runs before exit.
func run(cat listing.Catalog, id string, raw bool, logger zerolog.Logger) int {
	cfg, err := config.Load()
	if err != nil {
		logger.Error().Err(err).Msg("config load")
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := firestoreclient.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("firestore init")
		return 1
	}
	defer client.Close()

	store := repository.NewDocumentStore(client)
	svc := listing.NewService(store, nil, listing.Config{
		FetchTimeout: cfg.FetchTimeout,
		FanOutLimit:  cfg.FanOutLimit,
		ReadAttempts: cfg.ReadAttempts,
	}, logger)

	l, err := svc.Get(ctx, cat, id)
	if errors.Is(err, listing.ErrNotFound) {
		fmt.Fprintln(os.Stderr, cat.NotFoundMessage)
		return 1
	}
	if err != nil {
		logger.Error().Err(err).Msg("read listing")
		return 1
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		logger.Error().Err(err).Msg("encode listing")
		return 1
	}

	if raw {
		doc, err := store.Get(ctx, cat.Collection, id)
		if err != nil {
			logger.Error().Err(err).Msg("read raw document")
			return 1
		}
		fmt.Println("\nsanitized document:")
		if err := enc.Encode(listing.Sanitize(doc.Data)); err != nil {
			logger.Error().Err(err).Msg("encode document")
			return 1
		}
	}
	return 0
}
