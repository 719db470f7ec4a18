package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/abelbrown/epiwatch/internal/brain"
	"github.com/abelbrown/epiwatch/internal/config"
	"github.com/abelbrown/epiwatch/internal/extract"
	"github.com/abelbrown/epiwatch/internal/logging"
	"github.com/abelbrown/epiwatch/internal/store"
)

// setup loads configuration and initializes logging, or fatals.
func setup() *config.Config {
	if err := logging.Init(); err != nil {
		log.Printf("warning: logging disabled: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// openStore opens the configured store or fatals.
func openStore(cfg *config.Config) *store.Store {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		log.Fatalf("failed to create data directory: %v", err)
	}
	st, err := store.NewStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	return st
}

// buildProcessor assembles the extraction engine from configuration. The
// generative strategy is enabled only when a provider credential is present.
func buildProcessor(cfg *config.Config) *extract.Processor {
	providers := brain.NewManagerFromConfig(cfg.Models)
	return extract.NewProcessor(extract.DefaultCatalog(), providers)
}
