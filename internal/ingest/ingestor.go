// Package ingest orchestrates one ingestion run: fetch raw events from each
// configured source, classify them, and persist the results (or report them
// in dry-run mode).
package ingest

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/abelbrown/epiwatch/internal/config"
	"github.com/abelbrown/epiwatch/internal/extract"
	"github.com/abelbrown/epiwatch/internal/fetch"
	"github.com/abelbrown/epiwatch/internal/logging"
	"github.com/abelbrown/epiwatch/internal/model"
	"github.com/abelbrown/epiwatch/internal/report"
	"github.com/abelbrown/epiwatch/internal/store"
)

// SourceBatch pairs a source configuration with its fetcher.
type SourceBatch struct {
	Source  config.SourceConfig
	Fetcher fetch.Fetcher
}

// Ingestor drives the fetch-classify-persist sequence for a set of sources.
type Ingestor struct {
	store     *store.Store // nil in dry-run mode
	processor *extract.Processor
	batches   []SourceBatch
	dryRun    bool
	out       io.Writer
}

// NewIngestor creates an Ingestor. st may be nil when dryRun is true.
func NewIngestor(st *store.Store, processor *extract.Processor, batches []SourceBatch, dryRun bool, out io.Writer) *Ingestor {
	return &Ingestor{
		store:     st,
		processor: processor,
		batches:   batches,
		dryRun:    dryRun,
		out:       out,
	}
}

// Batches builds source batches from configuration using the shared client.
func Batches(sources []config.SourceConfig, client *fetch.Client) []SourceBatch {
	var batches []SourceBatch
	for _, src := range sources {
		batches = append(batches, SourceBatch{Source: src, Fetcher: fetch.ForSource(src, client)})
	}
	return batches
}

// Run executes one ingestion cycle. Failures are contained at the smallest
// scope that preserves forward progress: a failed source fetch skips that
// source, a failed event write skips that event. Run itself only reports.
func (ing *Ingestor) Run(ctx context.Context) {
	runID := uuid.NewString()
	logging.Info("ingestion run started", "run_id", runID, "sources", len(ing.batches), "dry_run", ing.dryRun)

	var fetched, saved, failed int
	for _, batch := range ing.batches {
		f, s, fl := ing.runSource(ctx, batch, runID)
		fetched += f
		saved += s
		failed += fl
	}

	if ing.out != nil {
		report.Summary(ing.out, fetched, saved, failed)
	}
	logging.Info("ingestion run complete", "run_id", runID,
		"fetched", fetched, "saved", saved, "failed", failed)
}

func (ing *Ingestor) runSource(ctx context.Context, batch SourceBatch, runID string) (fetched, saved, failed int) {
	src := batch.Source

	events, err := batch.Fetcher.FetchLatest(ctx)
	if err != nil {
		logging.Error("fetch failed, skipping source", "run_id", runID, "source", src.Name, "error", err)
		return 0, 0, 0
	}
	logging.Info("fetched events", "run_id", runID, "source", src.Name, "count", len(events))
	fetched = len(events)

	var sourceID int64
	if !ing.dryRun {
		// Without a source identity no event can be attributed; abort
		// persistence for this source but keep the run alive.
		sourceID, err = ing.store.UpsertSource(model.Source{
			Name: src.Name,
			URL:  src.URL,
			Tier: src.Tier,
			Type: src.Type,
		})
		if err != nil {
			logging.Error("could not obtain source identity, skipping persistence",
				"run_id", runID, "source", src.Name, "error", err)
			return fetched, 0, fetched
		}
	}

	for _, ev := range events {
		ev.PublishedAt = fetch.NormalizeDate(ev.PublishedAt)
		ne := ing.processor.Process(ctx, ev, src.Tier)

		if ing.dryRun {
			if ing.out != nil {
				report.Event(ing.out, ev, ne)
			}
			continue
		}

		rawID, err := ing.store.UpsertRawEvent(sourceID, ev)
		if err != nil {
			logging.Error("failed to persist raw event",
				"run_id", runID, "external_id", ev.ExternalID, "error", err)
			failed++
			continue
		}
		if _, err := ing.store.SaveNormalizedEvent(rawID, ne, ev.PublishedAt); err != nil {
			logging.Error("failed to persist normalized event",
				"run_id", runID, "external_id", ev.ExternalID, "error", err)
			failed++
			continue
		}
		saved++
	}

	return fetched, saved, failed
}
