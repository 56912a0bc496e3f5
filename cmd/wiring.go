package cmd

import (
	"context"
	"fmt"

	gcstorage "cloud.google.com/go/storage"
	"go.uber.org/zap"

	"github.com/editalradar/editalradar/internal/aggregate"
	"github.com/editalradar/editalradar/internal/clock/system"
	"github.com/editalradar/editalradar/internal/config"
	"github.com/editalradar/editalradar/internal/detect"
	collyfetch "github.com/editalradar/editalradar/internal/fetch/colly"
	"github.com/editalradar/editalradar/internal/fetch/headless"
	"github.com/editalradar/editalradar/internal/hash/sha256"
	"github.com/editalradar/editalradar/internal/history"
	"github.com/editalradar/editalradar/internal/id/uuid"
	"github.com/editalradar/editalradar/internal/opportunity"
	"github.com/editalradar/editalradar/internal/publisher/pubsub"
	"github.com/editalradar/editalradar/internal/storage"
	"github.com/editalradar/editalradar/internal/storage/gcs"
	"github.com/editalradar/editalradar/internal/storage/local"

	cloudpubsub "cloud.google.com/go/pubsub"
)

// runtime bundles the aggregator with everything that needs closing.
type runtime struct {
	aggregator *aggregate.Aggregator
	closers    []func()
}

func (r *runtime) close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

// buildRuntime assembles the aggregator and its collaborators from config.
func buildRuntime(ctx context.Context, cfg config.Config, logger *zap.Logger) (*runtime, error) {
	rt := &runtime{}

	fetcher := collyfetch.New(collyfetch.Config{
		UserAgent:     cfg.Scan.UserAgent,
		RespectRobots: cfg.HTTP.RespectRobots,
		Timeout:       cfg.FetchTimeout(),
	})

	var headlessFetcher opportunity.Fetcher
	var detector opportunity.HeadlessDetector
	if cfg.Headless.Enabled {
		f, err := headless.NewChromedp(headless.Config{
			MaxParallel:       cfg.Headless.MaxParallel,
			UserAgent:         cfg.Scan.UserAgent,
			NavigationTimeout: cfg.FetchTimeout(),
		})
		if err != nil {
			return nil, fmt.Errorf("init headless fetcher: %w", err)
		}
		rt.closers = append(rt.closers, f.Close)
		headlessFetcher = f
		detector = detect.NewHeuristicDetector(cfg.Headless.MinHTMLBytes, nil, detect.DefaultKeywords)
	}

	blobs, err := buildBlobStore(ctx, cfg, rt)
	if err != nil {
		return nil, err
	}

	hist, err := buildHistoryStore(ctx, cfg, rt)
	if err != nil {
		return nil, err
	}

	publisher, err := buildPublisher(ctx, cfg, rt)
	if err != nil {
		return nil, err
	}

	agg, err := aggregate.New(aggregate.Options{
		Concurrency:         cfg.Scan.Concurrency,
		Markers:             cfg.Scan.Markers,
		MinScore:            cfg.Scan.MinScore,
		HighConfidence:      cfg.Scan.HighConfidence,
		MinTitleLength:      cfg.Scan.MinTitleLength,
		ExcerptLength:       cfg.Scan.ExcerptLength,
		UserAgent:           cfg.Scan.UserAgent,
		SnapshotPrefix:      cfg.Storage.Prefix,
		SnapshotContentType: cfg.Storage.ContentType,
		EventTopic:          cfg.PubSub.TopicName,
	}, cfg.Sources, aggregate.Deps{
		Fetcher:   fetcher,
		Headless:  headlessFetcher,
		Detector:  detector,
		Hasher:    sha256.New(),
		Clock:     system.New(),
		IDs:       uuid.New(),
		History:   hist,
		Blobs:     blobs,
		Publisher: publisher,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init aggregator: %w", err)
	}
	rt.aggregator = agg
	return rt, nil
}

func buildBlobStore(ctx context.Context, cfg config.Config, rt *runtime) (opportunity.BlobStore, error) {
	switch cfg.Storage.Provider {
	case "gcs":
		client, err := gcstorage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("init gcs client: %w", err)
		}
		rt.closers = append(rt.closers, func() { _ = client.Close() })
		store, err := gcs.New(client, gcs.Config{Bucket: cfg.Storage.GCSBucket})
		if err != nil {
			return nil, fmt.Errorf("init gcs store: %w", err)
		}
		return store, nil
	case "local":
		store, err := local.New(local.Config{BaseDir: cfg.Storage.BaseDir})
		if err != nil {
			return nil, fmt.Errorf("init local store: %w", err)
		}
		return store, nil
	case "noop", "":
		return storage.NewNoop(), nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Storage.Provider)
	}
}

func buildHistoryStore(ctx context.Context, cfg config.Config, rt *runtime) (opportunity.HistoryStore, error) {
	switch cfg.DB.Provider {
	case "postgres":
		store, err := history.NewPostgresStore(ctx, history.PostgresStoreConfig{
			DSN:   cfg.DB.DSN,
			Table: cfg.DB.Table,
		})
		if err != nil {
			return nil, fmt.Errorf("init postgres history: %w", err)
		}
		rt.closers = append(rt.closers, store.Close)
		return store, nil
	case "memory", "":
		return history.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown db provider %q", cfg.DB.Provider)
	}
}

func buildPublisher(ctx context.Context, cfg config.Config, rt *runtime) (opportunity.Publisher, error) {
	if cfg.PubSub.ProjectID == "" || cfg.PubSub.TopicName == "" {
		return nil, nil
	}
	client, err := cloudpubsub.NewClient(ctx, cfg.PubSub.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("init pubsub client: %w", err)
	}
	rt.closers = append(rt.closers, func() { _ = client.Close() })
	return pubsub.New(client), nil
}
