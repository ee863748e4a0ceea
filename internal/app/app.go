// Package app wires configuration into the services a birdseye run needs
// and drives the checklist-to-site pipeline.
package app

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"

	"github.com/JakeFAU/birdseye/internal/clock/system"
	"github.com/JakeFAU/birdseye/internal/config"
	"github.com/JakeFAU/birdseye/internal/ebird"
	collyfetcher "github.com/JakeFAU/birdseye/internal/fetcher/colly"
	"github.com/JakeFAU/birdseye/internal/hash/sha256"
	"github.com/JakeFAU/birdseye/internal/id/uuid"
	"github.com/JakeFAU/birdseye/internal/publisher/pubsub"
	"github.com/JakeFAU/birdseye/internal/site"
	"github.com/JakeFAU/birdseye/internal/storage/gcs"
	"github.com/JakeFAU/birdseye/internal/storage/local"
	"github.com/JakeFAU/birdseye/internal/wikipedia"
)

// SiteGeneratedEvent is stamped on published Pub/Sub messages.
const SiteGeneratedEvent = "site.generated"

// App holds the long-lived services built for one command invocation.
type App struct {
	logger    *zap.Logger
	pipeline  *Pipeline
	outputDir string
	closers   []func() error
}

// New builds every service from cfg. Cloud services are only dialed when
// their config keys are set. Call Close when done.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	a := &App{logger: logger, outputDir: cfg.Site.OutputDir}

	fetcher := collyfetcher.New(collyfetcher.Config{
		UserAgent:   cfg.Wikipedia.UserAgent,
		Timeout:     cfg.Timeout(),
		MaxBodySize: cfg.HTTP.MaxBodyBytes,
	})

	ebirdClient, err := ebird.New(ebird.Config{APIKey: cfg.EBird.APIKey, BaseURL: cfg.EBird.BaseURL}, fetcher, logger)
	if err != nil {
		return nil, fmt.Errorf("init ebird client: %w", err)
	}

	var photos PhotoResolver
	if cfg.Photos.Enabled {
		wiki, err := wikipedia.New(wikipedia.Config{BaseURL: cfg.Wikipedia.BaseURL, UserAgent: cfg.Wikipedia.UserAgent}, fetcher, logger)
		if err != nil {
			return nil, fmt.Errorf("init wikipedia client: %w", err)
		}
		photos = wiki
	} else {
		logger.Info("photo enrichment disabled")
	}

	store, err := local.New(local.Config{BaseDir: cfg.Site.OutputDir})
	if err != nil {
		return nil, fmt.Errorf("init output directory: %w", err)
	}
	clock := system.New()
	generator, err := site.NewGenerator(store, cfg.Site.FileName, clock, logger)
	if err != nil {
		return nil, fmt.Errorf("init site generator: %w", err)
	}

	deps := Deps{
		EBird:      ebirdClient,
		Photos:     photos,
		Site:       generator,
		Hasher:     sha256.New(),
		Clock:      clock,
		IDs:        uuid.New(),
		Logger:     logger,
		Title:      cfg.Site.Title,
		MirrorName: cfg.Site.FileName,
	}

	if cfg.Publish.GCSBucket != "" {
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, a.fail(fmt.Errorf("init gcs client: %w", err))
		}
		a.closers = append(a.closers, client.Close)
		mirror, err := gcs.New(client, gcs.Config{
			Bucket:       cfg.Publish.GCSBucket,
			Prefix:       cfg.Publish.ObjectPrefix,
			CacheControl: "no-cache",
		})
		if err != nil {
			return nil, a.fail(fmt.Errorf("init gcs mirror: %w", err))
		}
		logger.Info("mirroring site to gcs", zap.String("bucket", cfg.Publish.GCSBucket))
		deps.Mirror = mirror
	}

	if cfg.Publish.Topic != "" {
		pub, err := pubsub.New(ctx, pubsub.Config{
			ProjectID: cfg.Publish.ProjectID,
			Topic:     cfg.Publish.Topic,
			Event:     SiteGeneratedEvent,
		})
		if err != nil {
			return nil, a.fail(fmt.Errorf("init pubsub publisher: %w", err))
		}
		a.closers = append(a.closers, pub.Close)
		logger.Info("announcing sites on pubsub", zap.String("topic", cfg.Publish.Topic))
		deps.Publisher = pub
	}

	a.pipeline, err = NewPipeline(deps)
	if err != nil {
		return nil, a.fail(err)
	}
	return a, nil
}

// Pipeline returns the configured pipeline.
func (a *App) Pipeline() *Pipeline {
	return a.pipeline
}

// OutputDir is the directory the page is written into.
func (a *App) OutputDir() string {
	return a.outputDir
}

// Logger returns the shared logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Close releases cloud clients in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) fail(err error) error {
	if cerr := a.Close(); cerr != nil {
		a.logger.Warn("cleanup after init failure", zap.Error(cerr))
	}
	return err
}
