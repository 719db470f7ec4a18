package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/abelbrown/epiwatch/internal/analyze"
	"github.com/abelbrown/epiwatch/internal/config"
	"github.com/abelbrown/epiwatch/internal/notify"
	"github.com/abelbrown/epiwatch/internal/report"
	"github.com/abelbrown/epiwatch/internal/store"
)

func runAnalyze() {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	lookback := fs.Int("lookback", 0, "statistics window in days (default from config)")
	fs.Parse(os.Args[1:])

	cfg := setup()
	st := openStore(cfg)
	defer st.Close()

	runAnalysis(cfg, st, *lookback)
}

// runAnalysis is shared by the analyze and pipeline commands.
func runAnalysis(cfg *config.Config, st *store.Store, lookback int) {
	if lookback <= 0 {
		lookback = cfg.Analysis.LookbackDays
	}

	detector := analyze.NewDetector(st, notify.NewNotifier(st))
	anomalies := detector.DetectAnomalies(context.Background(), lookback)

	if len(anomalies) == 0 {
		fmt.Println("No anomalies detected.")
		return
	}
	for _, a := range anomalies {
		report.Anomaly(os.Stdout, a)
	}
}
