// Package storage provides snapshot blob stores for fetched pages.
package storage

import "context"

// Noop discards snapshots; it backs runs where persistence is disabled.
type Noop struct{}

// NewNoop creates a blob store that drops all writes.
func NewNoop() Noop {
	return Noop{}
}

// PutObject discards the data and returns an empty URI.
func (Noop) PutObject(_ context.Context, _ string, _ string, _ []byte) (string, error) {
	return "", nil
}
