package analyze

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abelbrown/epiwatch/internal/model"
	"github.com/abelbrown/epiwatch/internal/notify"
	"github.com/abelbrown/epiwatch/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func newTestDetector(st *store.Store, now time.Time) *Detector {
	d := NewDetector(st, notify.NewNotifier(st))
	d.now = func() time.Time { return now }
	return d
}

// seedDay inserts count normalized events published on the given UTC date.
func seedDay(t *testing.T, st *store.Store, sourceID int64, date string, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		ev := model.RawEvent{
			ExternalID:  fmt.Sprintf("%s-%d", date, i),
			Title:       "Cholera - Haiti",
			PublishedAt: date + "T12:00:00Z",
		}
		rawID, err := st.UpsertRawEvent(sourceID, ev)
		if err != nil {
			t.Fatalf("failed to upsert raw event: %v", err)
		}
		ne := model.NormalizedEvent{
			Title:          ev.Title,
			Summary:        ev.Title,
			Classification: model.ClassConfirmedOutbreak,
			Confidence:     1.0,
			AssessmentText: "Official Tier 1 Source",
			SourceTier:     1,
		}
		if _, err := st.SaveNormalizedEvent(rawID, ne, ev.PublishedAt); err != nil {
			t.Fatalf("failed to save normalized event: %v", err)
		}
	}
}

func seedSource(t *testing.T, st *store.Store) int64 {
	t.Helper()
	id, err := st.UpsertSource(model.Source{
		Name: "WHO Disease Outbreak News",
		URL:  "https://www.who.int/emergencies/disease-outbreak-news",
		Tier: 1,
		Type: model.SourceAPI,
	})
	if err != nil {
		t.Fatalf("failed to upsert source: %v", err)
	}
	return id
}

func TestDetectAnomaliesCriticalSpike(t *testing.T) {
	st := newTestStore(t)
	srcID := seedSource(t, st)

	// Baseline {10, 12, 11, 9, 13}: mean 11, population stddev sqrt(2).
	// Today's 20 gives Z = 9/sqrt(2) ~ 6.36, well past critical.
	counts := []int{10, 12, 11, 9, 13}
	for i, c := range counts {
		seedDay(t, st, srcID, fmt.Sprintf("2024-03-0%d", 4+i), c)
	}
	seedDay(t, st, srcID, "2024-03-10", 20)

	now, _ := time.Parse(time.RFC3339, "2024-03-10T18:00:00Z")
	d := newTestDetector(st, now)

	anomalies := d.DetectAnomalies(context.Background(), 30)
	if len(anomalies) != 1 {
		t.Fatalf("got %d anomalies, want 1", len(anomalies))
	}

	a := anomalies[0]
	if a.Type != model.AnomalyGlobalSpike {
		t.Errorf("type = %q, want %q", a.Type, model.AnomalyGlobalSpike)
	}
	if a.Severity != model.SeverityCritical {
		t.Errorf("severity = %q, want critical for Z > 3", a.Severity)
	}
	if !strings.Contains(a.Message, "Current volume: 20") {
		t.Errorf("message = %q, want today's volume included", a.Message)
	}
	if !strings.Contains(a.Message, "6.36") {
		t.Errorf("message = %q, want the Z-score included", a.Message)
	}

	// Detection records the alert as a side effect.
	var alerts int
	if err := st.DB().QueryRow("SELECT COUNT(*) FROM alerts").Scan(&alerts); err != nil {
		t.Fatalf("failed to count alerts: %v", err)
	}
	if alerts != 1 {
		t.Errorf("alerts = %d, want 1", alerts)
	}
}

func TestDetectAnomaliesHighSeverity(t *testing.T) {
	st := newTestStore(t)
	srcID := seedSource(t, st)

	// Today's 14 gives Z = 3/sqrt(2) ~ 2.12: past the threshold but not
	// critical.
	counts := []int{10, 12, 11, 9, 13}
	for i, c := range counts {
		seedDay(t, st, srcID, fmt.Sprintf("2024-03-0%d", 4+i), c)
	}
	seedDay(t, st, srcID, "2024-03-10", 14)

	now, _ := time.Parse(time.RFC3339, "2024-03-10T18:00:00Z")
	anomalies := newTestDetector(st, now).DetectAnomalies(context.Background(), 30)

	if len(anomalies) != 1 {
		t.Fatalf("got %d anomalies, want 1", len(anomalies))
	}
	if anomalies[0].Severity != model.SeverityHigh {
		t.Errorf("severity = %q, want high for 2 < Z <= 3", anomalies[0].Severity)
	}
}

func TestDetectAnomaliesNormalVolume(t *testing.T) {
	st := newTestStore(t)
	srcID := seedSource(t, st)

	counts := []int{10, 12, 11, 9, 13}
	for i, c := range counts {
		seedDay(t, st, srcID, fmt.Sprintf("2024-03-0%d", 4+i), c)
	}
	seedDay(t, st, srcID, "2024-03-10", 12)

	now, _ := time.Parse(time.RFC3339, "2024-03-10T18:00:00Z")
	anomalies := newTestDetector(st, now).DetectAnomalies(context.Background(), 30)
	if len(anomalies) != 0 {
		t.Errorf("got %d anomalies for an ordinary day, want 0", len(anomalies))
	}
}

func TestDetectAnomaliesInsufficientHistory(t *testing.T) {
	st := newTestStore(t)
	srcID := seedSource(t, st)

	// One historical day can never establish a baseline.
	seedDay(t, st, srcID, "2024-03-09", 10)
	seedDay(t, st, srcID, "2024-03-10", 100)

	now, _ := time.Parse(time.RFC3339, "2024-03-10T18:00:00Z")
	anomalies := newTestDetector(st, now).DetectAnomalies(context.Background(), 30)
	if len(anomalies) != 0 {
		t.Errorf("got %d anomalies with one day of history, want 0", len(anomalies))
	}
}

func TestDetectAnomaliesFlatHistory(t *testing.T) {
	st := newTestStore(t)
	srcID := seedSource(t, st)

	// Zero variance in the baseline: Z is defined as 0 and nothing fires,
	// even for a large jump.
	for i := 4; i <= 8; i++ {
		seedDay(t, st, srcID, fmt.Sprintf("2024-03-0%d", i), 5)
	}
	seedDay(t, st, srcID, "2024-03-10", 50)

	now, _ := time.Parse(time.RFC3339, "2024-03-10T18:00:00Z")
	anomalies := newTestDetector(st, now).DetectAnomalies(context.Background(), 30)
	if len(anomalies) != 0 {
		t.Errorf("got %d anomalies on a flat baseline, want 0", len(anomalies))
	}
}

func TestDetectAnomaliesEmptyStore(t *testing.T) {
	st := newTestStore(t)
	now, _ := time.Parse(time.RFC3339, "2024-03-10T18:00:00Z")
	anomalies := newTestDetector(st, now).DetectAnomalies(context.Background(), 30)
	if len(anomalies) != 0 {
		t.Errorf("got %d anomalies from an empty store, want 0", len(anomalies))
	}
}
