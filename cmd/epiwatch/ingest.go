package main

import (
	"context"
	"flag"
	"os"

	"github.com/abelbrown/epiwatch/internal/config"
	"github.com/abelbrown/epiwatch/internal/fetch"
	"github.com/abelbrown/epiwatch/internal/ingest"
	"github.com/abelbrown/epiwatch/internal/store"
)

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	dryRun := fs.Bool("dry-run", false, "fetch and classify without writing to the database")
	fs.Parse(os.Args[1:])

	cfg := setup()
	runIngestion(cfg, *dryRun)
}

// runIngestion is shared by the ingest and pipeline commands.
func runIngestion(cfg *config.Config, dryRun bool) {
	var st *store.Store
	if !dryRun {
		st = openStore(cfg)
		defer st.Close()
	}

	client := fetch.NewClient()
	batches := ingest.Batches(cfg.EnabledSources(), client)
	processor := buildProcessor(cfg)

	ing := ingest.NewIngestor(st, processor, batches, dryRun, os.Stdout)
	ing.Run(context.Background())
}
