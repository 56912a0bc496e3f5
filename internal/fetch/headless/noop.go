package headless

import (
	"context"
	"errors"

	"github.com/editalradar/editalradar/internal/opportunity"
)

// Noop implements opportunity.Fetcher but always returns an error to
// indicate that headless rendering is disabled in the current build.
type Noop struct{}

// NewNoop creates a new Noop fetcher.
func NewNoop() *Noop {
	return &Noop{}
}

// Fetch returns an error since no browser backend is configured.
func (Noop) Fetch(_ context.Context, _ opportunity.FetchRequest) (opportunity.FetchResponse, error) {
	return opportunity.FetchResponse{}, errors.New("headless fetcher not configured")
}
