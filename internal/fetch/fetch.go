package fetch

import (
	"context"

	"github.com/abelbrown/epiwatch/internal/config"
	"github.com/abelbrown/epiwatch/internal/model"
)

// Fetcher retrieves one batch of raw events from a source. A call returns a
// finite batch, not a stream. Fetchers do not retry beyond their own
// primary-to-fallback transition; a fully failed fetch surfaces as an error
// that the orchestrator logs and absorbs.
type Fetcher interface {
	Name() string
	FetchLatest(ctx context.Context) ([]model.RawEvent, error)
}

// ForSource creates the fetcher for a configured source.
func ForSource(cfg config.SourceConfig, client *Client) Fetcher {
	switch cfg.Type {
	case model.SourceRSS:
		return NewRSSFetcher(cfg.Name, cfg.URL, client)
	default:
		// The API type is the WHO DON endpoint with HTML fallback.
		return NewWHOFetcher(client)
	}
}
