// Package aggregate orchestrates one scan run across all sources.
package aggregate

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/editalradar/editalradar/internal/dedupe"
	"github.com/editalradar/editalradar/internal/extract"
	"github.com/editalradar/editalradar/internal/locate"
	"github.com/editalradar/editalradar/internal/metrics"
	"github.com/editalradar/editalradar/internal/opportunity"
	"github.com/editalradar/editalradar/internal/score"
	"github.com/editalradar/editalradar/internal/textutil"
)

// Options tune one Aggregator independently of source profiles.
type Options struct {
	// Concurrency bounds parallel source fetches.
	Concurrency int
	// Markers are the global marker keywords; profiles may override.
	Markers []string
	// MinScore is the global admission threshold; profiles may override.
	MinScore int
	// HighConfidence marks admitted announcements at or above this score.
	HighConfidence int
	// MinTitleLength filters locator candidates.
	MinTitleLength int
	// ExcerptLength bounds the stored context excerpt, in runes.
	ExcerptLength int
	// UserAgent is sent with every fetch.
	UserAgent string
	// SnapshotPrefix is the blob path prefix for raw markup snapshots.
	SnapshotPrefix string
	// SnapshotContentType is recorded on stored snapshots.
	SnapshotContentType string
	// EventTopic is the Pub/Sub topic for scan completion events.
	EventTopic string
}

// Aggregator fans a scan out over the configured sources, extracts
// opportunities from each page, and deduplicates across the whole run.
type Aggregator struct {
	opts      Options
	sources   []opportunity.SourceProfile
	fetcher   opportunity.Fetcher
	headless  opportunity.Fetcher
	detector  opportunity.HeadlessDetector
	hasher    opportunity.Hasher
	clock     opportunity.Clock
	ids       opportunity.IDGenerator
	history   opportunity.HistoryStore
	blobs     opportunity.BlobStore
	publisher opportunity.Publisher
	logger    *zap.Logger
}

// Deps collects the aggregator's collaborators.
type Deps struct {
	Fetcher   opportunity.Fetcher
	Headless  opportunity.Fetcher
	Detector  opportunity.HeadlessDetector
	Hasher    opportunity.Hasher
	Clock     opportunity.Clock
	IDs       opportunity.IDGenerator
	History   opportunity.HistoryStore
	Blobs     opportunity.BlobStore
	Publisher opportunity.Publisher
	Logger    *zap.Logger
}

// New builds an Aggregator over the given source profiles.
func New(opts Options, sources []opportunity.SourceProfile, deps Deps) (*Aggregator, error) {
	if deps.Fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	if deps.Hasher == nil {
		return nil, fmt.Errorf("hasher is required")
	}
	if deps.Clock == nil {
		return nil, fmt.Errorf("clock is required")
	}
	if deps.IDs == nil {
		return nil, fmt.Errorf("id generator is required")
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.MinScore <= 0 {
		opts.MinScore = score.DefaultMinScore
	}
	if opts.HighConfidence <= 0 {
		opts.HighConfidence = score.DefaultHighConfidence
	}
	if opts.ExcerptLength <= 0 {
		opts.ExcerptLength = 240
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.Init()
	return &Aggregator{
		opts:      opts,
		sources:   sources,
		fetcher:   deps.Fetcher,
		headless:  deps.Headless,
		detector:  deps.Detector,
		hasher:    deps.Hasher,
		clock:     deps.Clock,
		ids:       deps.IDs,
		history:   deps.History,
		blobs:     deps.Blobs,
		publisher: deps.Publisher,
		logger:    logger,
	}, nil
}

// scanEvent is the payload published after each run.
type scanEvent struct {
	RunID         string    `json:"run_id"`
	FinishedAt    time.Time `json:"finished_at"`
	Sources       int       `json:"sources"`
	Opportunities int       `json:"opportunities"`
}

// Run executes one full scan: fetch every source, extract candidates,
// score and deduplicate, then persist keys and publish the outcome.
// Per-source fetch failures are recorded in the result, not returned;
// only run-level failures (history load, id generation) return an error.
func (a *Aggregator) Run(ctx context.Context) (opportunity.ScanResult, error) {
	started := a.clock.Now()

	runID, err := a.ids.NewID()
	if err != nil {
		return opportunity.ScanResult{}, fmt.Errorf("new run id: %w", err)
	}
	log := a.logger.With(zap.String("run_id", runID))

	var priorKeys []string
	if a.history != nil {
		priorKeys, err = a.history.LoadKeys(ctx)
		if err != nil {
			return opportunity.ScanResult{}, fmt.Errorf("load history keys: %w", err)
		}
	}

	raw := make([]opportunity.SourceResult, len(a.sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Concurrency)
	for i, src := range a.sources {
		g.Go(func() error {
			raw[i] = a.scanSource(gctx, runID, src, log)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return opportunity.ScanResult{}, err
	}

	// Deduplicate sequentially in profile order so runs are deterministic
	// regardless of fetch completion order.
	deduper := dedupe.New(a.hasher, priorKeys)
	results := make([]opportunity.SourceResult, len(raw))
	for i, sr := range raw {
		kept, err := deduper.Filter(sr.Opportunities)
		if err != nil {
			return opportunity.ScanResult{}, fmt.Errorf("dedupe source %s: %w", sr.Source, err)
		}
		metrics.ObserveDuplicates(sr.Source, len(sr.Opportunities)-len(kept))
		metrics.ObserveOpportunities(sr.Source, len(kept))
		results[i] = opportunity.SourceResult{
			Source:        sr.Source,
			Opportunities: kept,
			FetchError:    sr.FetchError,
		}
	}

	result := opportunity.ScanResult{
		RunID:        runID,
		StartedAt:    started,
		FinishedAt:   a.clock.Now(),
		Sources:      results,
		AdmittedKeys: deduper.AdmittedKeys(),
	}

	if a.history != nil && len(result.AdmittedKeys) > 0 {
		if err := a.history.AppendKeys(ctx, runID, result.AdmittedKeys); err != nil {
			return opportunity.ScanResult{}, fmt.Errorf("append history keys: %w", err)
		}
	}

	a.publishEvent(ctx, result, log)
	metrics.ObserveScan("success", result.FinishedAt.Sub(result.StartedAt))
	log.Info("scan finished",
		zap.Int("sources", len(result.Sources)),
		zap.Int("opportunities", result.Total()),
		zap.Int("new_keys", len(result.AdmittedKeys)),
	)
	return result, nil
}

func (a *Aggregator) scanSource(
	ctx context.Context,
	runID string,
	src opportunity.SourceProfile,
	log *zap.Logger,
) opportunity.SourceResult {
	log = log.With(zap.String("source", src.Name))

	resp, err := a.fetchPage(ctx, src)
	if err != nil {
		log.Warn("source fetch failed", zap.Error(err))
		return opportunity.SourceResult{Source: src.Name, FetchError: err.Error()}
	}
	metrics.ObserveFetch(src.URL, resp.StatusCode)
	a.snapshot(ctx, runID, src, resp, log)

	records, err := a.extractPage(src, resp)
	if err != nil {
		log.Warn("source extraction failed", zap.Error(err))
		return opportunity.SourceResult{Source: src.Name, FetchError: err.Error()}
	}
	log.Debug("source scanned", zap.Int("opportunities", len(records)))
	return opportunity.SourceResult{Source: src.Name, Opportunities: records}
}

func (a *Aggregator) fetchPage(ctx context.Context, src opportunity.SourceProfile) (opportunity.FetchResponse, error) {
	req := opportunity.FetchRequest{
		Source:      src.Name,
		URL:         src.URL,
		UseHeadless: src.Headless,
		Headers:     a.requestHeaders(),
	}

	if src.Headless && a.headless != nil {
		metrics.ObserveHeadlessPromotion(src.URL)
		return a.headless.Fetch(ctx, req)
	}

	resp, err := a.fetcher.Fetch(ctx, req)
	if err != nil {
		return opportunity.FetchResponse{}, err
	}
	if a.headless != nil && a.detector != nil && a.detector.ShouldPromote(resp) {
		metrics.ObserveHeadlessPromotion(src.URL)
		rendered, rerr := a.headless.Fetch(ctx, req)
		if rerr != nil {
			// Keep the plain response when rendering fails.
			return resp, nil
		}
		return rendered, nil
	}
	return resp, nil
}

func (a *Aggregator) extractPage(src opportunity.SourceProfile, resp opportunity.FetchResponse) ([]opportunity.Opportunity, error) {
	markers := a.opts.Markers
	if len(src.Markers) > 0 {
		markers = src.Markers
	}
	minScore := a.opts.MinScore
	if src.MinScore > 0 {
		minScore = src.MinScore
	}

	identifiers, err := extract.NewIdentifierExtractor(src.IdentifierPatterns...)
	if err != nil {
		return nil, fmt.Errorf("identifier patterns for %s: %w", src.Name, err)
	}

	locator := locate.New(locate.Config{
		Markers:        markers,
		MinTitleLength: a.opts.MinTitleLength,
	})
	candidates := locator.Locate(string(resp.Body), resp.URL)
	for _, c := range candidates {
		metrics.ObserveCandidates(src.Name, c.Strategy, 1)
	}

	scorer := score.New(markers)
	now := a.clock.Now()

	var records []opportunity.Opportunity
	for _, c := range candidates {
		block := c.Text
		if c.NextText != "" {
			block = block + " " + c.NextText
		}
		period := extract.Period(block)

		relevance := scorer.Score(score.Input{
			Title:     c.Title,
			URL:       c.DetailURL(),
			Excerpt:   block,
			HasPeriod: period != nil,
		})
		if relevance < minScore {
			continue
		}

		records = append(records, opportunity.Opportunity{
			Title:           c.Title,
			Source:          src.Name,
			Period:          period,
			Identifier:      identifiers.Extract(block),
			DetailURL:       c.DetailURL(),
			AttachmentLinks: locate.AttachmentLinks(c.Links),
			ContextExcerpt:  textutil.Truncate(textutil.NormalizeSpace(block), a.opts.ExcerptLength),
			RelevanceScore:  relevance,
			HighConfidence:  relevance >= a.opts.HighConfidence,
			DiscoveredAt:    now,
		})
	}
	return records, nil
}

func (a *Aggregator) snapshot(
	ctx context.Context,
	runID string,
	src opportunity.SourceProfile,
	resp opportunity.FetchResponse,
	log *zap.Logger,
) {
	if a.blobs == nil || len(resp.Body) == 0 {
		return
	}
	prefix := a.opts.SnapshotPrefix
	if prefix == "" {
		prefix = "pages"
	}
	path := fmt.Sprintf("%s/%s/%s.html", prefix, src.Name, runID)
	uri, err := a.blobs.PutObject(ctx, path, a.opts.SnapshotContentType, resp.Body)
	if err != nil {
		log.Warn("snapshot write failed", zap.Error(err))
		return
	}
	if uri != "" {
		log.Debug("snapshot stored", zap.String("uri", uri))
	}
}

func (a *Aggregator) publishEvent(ctx context.Context, result opportunity.ScanResult, log *zap.Logger) {
	if a.publisher == nil || a.opts.EventTopic == "" {
		return
	}
	event := scanEvent{
		RunID:         result.RunID,
		FinishedAt:    result.FinishedAt,
		Sources:       len(result.Sources),
		Opportunities: result.Total(),
	}
	if _, err := a.publisher.Publish(ctx, a.opts.EventTopic, event); err != nil {
		log.Warn("scan event publish failed", zap.Error(err))
	}
}

func (a *Aggregator) requestHeaders() http.Header {
	if a.opts.UserAgent == "" {
		return nil
	}
	h := http.Header{}
	h.Set("User-Agent", a.opts.UserAgent)
	return h
}
