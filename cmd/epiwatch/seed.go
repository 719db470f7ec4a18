package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/abelbrown/epiwatch/internal/store"
)

// seedBatchSize keeps catalog import transactions small.
const seedBatchSize = 50

// runSeed bulk-imports the disease reference catalog from a CSV export.
// Rows are matched by header name, so column order does not matter.
func runSeed() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: epiwatch seed <catalog.csv>")
		os.Exit(1)
	}
	path := os.Args[1]

	cfg := setup()
	st := openStore(cfg)
	defer st.Close()

	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("failed to open catalog: %v", err)
	}
	defer f.Close()

	saved, skipped, err := seedFromCSV(st, f)
	if err != nil {
		log.Fatalf("failed to import catalog: %v", err)
	}
	fmt.Printf("Catalog import complete: %d saved, %d skipped\n", saved, skipped)
}

func seedFromCSV(st *store.Store, r io.Reader) (saved, skipped int, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Tolerate ragged exports

	header, err := reader.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read header: %w", err)
	}
	cols := columnIndex(header)
	if _, ok := cols["common name"]; !ok {
		return 0, 0, fmt.Errorf("catalog is missing the 'Common name' column")
	}

	var batch []store.DiseaseRecord
	flush := func() error {
		n, err := st.UpsertDiseases(batch)
		saved += n
		batch = batch[:0]
		return err
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return saved, skipped, fmt.Errorf("failed to read row: %w", err)
		}

		name := field(row, cols, "common name")
		if name == "" {
			skipped++
			continue
		}

		batch = append(batch, store.DiseaseRecord{
			Name:                name,
			PathogenAgent:       field(row, cols, "infectious agent"),
			Symptoms:            field(row, cols, "signs and symptoms"),
			DiagnosticProtocols: field(row, cols, "diagnosis"),
			Treatment:           field(row, cols, "treatment"),
			VaccineStatus:       field(row, cols, "vaccine(s)"),
			SeverityScore:       5.0,
		})
		if len(batch) >= seedBatchSize {
			if err := flush(); err != nil {
				return saved, skipped, err
			}
		}
	}
	if len(batch) > 0 {
		if err := flush(); err != nil {
			return saved, skipped, err
		}
	}
	return saved, skipped, nil
}

// columnIndex maps lowercased header names to their positions.
func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return cols
}

func field(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
