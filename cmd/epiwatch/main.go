// Command epiwatch is the outbreak intelligence pipeline CLI.
//
// Usage:
//
//	epiwatch ingest [--dry-run]    Fetch and classify outbreak announcements
//	epiwatch analyze [--lookback]  Detect signal-volume anomalies
//	epiwatch pipeline [--dry-run]  Ingest then analyze, sequentially
//	epiwatch seed <catalog.csv>    Bulk-import the disease reference catalog
//	epiwatch verify                Check store connectivity and row counts
package main

import (
	"fmt"
	"os"
)

const usage = `epiwatch — outbreak intelligence pipeline

Usage:
  epiwatch <command> [flags]

Commands:
  ingest      Fetch outbreak announcements, classify, and persist
  analyze     Detect statistical anomalies in daily signal volume
  pipeline    Full run: ingest, then analyze
  seed        Bulk-import the disease reference catalog from CSV
  verify      Check store connectivity and report row counts

Environment:
  ANTHROPIC_API_KEY   Enables the Claude extraction provider
  OPENAI_API_KEY      Enables the OpenAI extraction provider
  EPIWATCH_DB         Override the database path

Run 'epiwatch <command> -h' for command-specific help.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	cmd := os.Args[1]
	// Strip the program name + subcommand so flag sets see only their flags
	os.Args = os.Args[1:]

	switch cmd {
	case "ingest":
		runIngest()
	case "analyze":
		runAnalyze()
	case "pipeline":
		runPipeline()
	case "seed":
		runSeed()
	case "verify":
		runVerify()
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "epiwatch: unknown command %q\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}
