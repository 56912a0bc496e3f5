package opportunity

import (
	"context"
	"time"
)

// Fetcher fetches a source page and returns the raw markup plus metadata.
type Fetcher interface {
	Fetch(ctx context.Context, request FetchRequest) (FetchResponse, error)
}

// HeadlessDetector decides whether a headless re-fetch is warranted.
type HeadlessDetector interface {
	ShouldPromote(probe FetchResponse) bool
}

// Hasher computes digests for canonical keys.
type Hasher interface {
	Hash(data []byte) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces run IDs (UUIDs).
type IDGenerator interface {
	NewID() (string, error)
}

// HistoryStore persists canonical keys across runs. Prior keys are
// read-only input to the deduplicator; new keys are append-only.
type HistoryStore interface {
	LoadKeys(ctx context.Context) ([]string, error)
	AppendKeys(ctx context.Context, runID string, keys []string) error
}

// BlobStore writes raw markup snapshots and returns a URI.
type BlobStore interface {
	PutObject(ctx context.Context, path string, contentType string, data []byte) (string, error)
}

// Publisher pushes scan completion events to Pub/Sub (or similar).
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) (string, error)
}
