package main

import (
	"flag"
	"os"
)

// runPipeline performs a full cycle: ingest every enabled source, then run
// anomaly detection over the freshly updated store.
func runPipeline() {
	fs := flag.NewFlagSet("pipeline", flag.ExitOnError)
	dryRun := fs.Bool("dry-run", false, "fetch and classify without writing to the database")
	fs.Parse(os.Args[1:])

	cfg := setup()
	runIngestion(cfg, *dryRun)

	// Analysis reads from the store; without persisted events there is
	// nothing to analyze.
	if *dryRun {
		return
	}

	st := openStore(cfg)
	defer st.Close()
	runAnalysis(cfg, st, cfg.Analysis.LookbackDays)
}
