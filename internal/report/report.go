// Package report renders operator-facing output for dry runs and analysis
// results.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/epiwatch/internal/model"
)

var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorConfirmed = lipgloss.Color("196") // Red
	colorResearch  = lipgloss.Color("214") // Orange
	colorSignal    = lipgloss.Color("78")  // Green
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	labelStyle = lipgloss.NewStyle().Foreground(colorSecondary)

	confirmedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorConfirmed)
	researchStyle  = lipgloss.NewStyle().Foreground(colorResearch)
	signalStyle    = lipgloss.NewStyle().Foreground(colorSignal)

	criticalStyle = lipgloss.NewStyle().Bold(true).Foreground(colorConfirmed)
	highStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorResearch)
)

func classificationStyle(c model.Classification) lipgloss.Style {
	switch c {
	case model.ClassConfirmedOutbreak:
		return confirmedStyle
	case model.ClassResearchUpdate:
		return researchStyle
	default:
		return signalStyle
	}
}

// Event prints the extraction result for one event, used in dry runs.
func Event(w io.Writer, ev model.RawEvent, ne model.NormalizedEvent) {
	fmt.Fprintf(w, "%s\n", titleStyle.Render("--- "+ne.Title+" ---"))
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("Date:"), ev.PublishedAt)
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("Diseases:"), orNone(ne.Diseases))
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("Locations:"), orNone(ne.Locations))
	fmt.Fprintf(w, "  %s %s (conf %.2f)\n",
		labelStyle.Render("Classification:"),
		classificationStyle(ne.Classification).Render(string(ne.Classification)),
		ne.Confidence)
	fmt.Fprintf(w, "  %s %s\n\n", labelStyle.Render("Reason:"), ne.AssessmentText)
}

// Anomaly prints a detected anomaly.
func Anomaly(w io.Writer, a model.Anomaly) {
	style := highStyle
	if a.Severity == model.SeverityCritical {
		style = criticalStyle
	}
	fmt.Fprintf(w, "%s %s\n", style.Render("["+strings.ToUpper(a.Severity)+"]"), a.Message)
}

// Summary prints ingestion totals at the end of a run.
func Summary(w io.Writer, fetched, saved, failed int) {
	fmt.Fprintf(w, "%s fetched=%d saved=%d failed=%d\n",
		labelStyle.Render("Ingestion complete:"), fetched, saved, failed)
}

func orNone(values []string) string {
	if len(values) == 0 {
		return "None detected"
	}
	return strings.Join(values, ", ")
}
