// Package analyze detects statistical anomalies in persisted signal volume.
//
// The detector aggregates normalized-event timestamps into daily counts over
// a lookback window and flags the current day when its count deviates from
// the historical baseline by more than two standard deviations.
package analyze

import (
	"context"
	"fmt"
	"time"

	"github.com/abelbrown/epiwatch/internal/logging"
	"github.com/abelbrown/epiwatch/internal/model"
	"github.com/abelbrown/epiwatch/internal/notify"
	"github.com/abelbrown/epiwatch/internal/store"
)

// DefaultLookbackDays is the statistics window when none is configured.
const DefaultLookbackDays = 30

// zThreshold is the minimum Z-score to raise an anomaly; above
// zCriticalThreshold the severity escalates from high to critical.
const (
	zThreshold         = 2.0
	zCriticalThreshold = 3.0
)

// Detector computes daily-volume statistics and raises anomaly alerts.
type Detector struct {
	store    *store.Store
	notifier *notify.Notifier
	now      func() time.Time
}

// NewDetector creates a Detector reading from the given store and forwarding
// anomalies to the given notifier.
func NewDetector(st *store.Store, notifier *notify.Notifier) *Detector {
	return &Detector{store: st, notifier: notifier, now: time.Now}
}

// DetectAnomalies checks whether today's signal volume is statistically
// anomalous against the lookback window. Detected anomalies are forwarded to
// the alert sink immediately.
//
// Failures never propagate: a store error or insufficient history yields an
// empty result so the surrounding pipeline can proceed.
func (d *Detector) DetectAnomalies(_ context.Context, lookbackDays int) []model.Anomaly {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}

	now := d.now().UTC()
	cutoff := now.AddDate(0, 0, -lookbackDays)

	events, err := d.store.EventsSince(cutoff)
	if err != nil {
		logging.Error("anomaly detection aborted", "error", err)
		return nil
	}

	// Group by UTC calendar date: the first 10 characters of the RFC 3339
	// timestamp.
	daily := make(map[string]int)
	for _, ev := range events {
		if len(ev.PublishedAt) < 10 {
			continue
		}
		daily[ev.PublishedAt[:10]]++
	}

	todayKey := now.Format("2006-01-02")
	todayCount := daily[todayKey]
	delete(daily, todayKey)

	// Fewer than 2 distinct historical days cannot yield a meaningful
	// deviation.
	if len(daily) < 2 {
		logging.Debug("insufficient history for anomaly detection", "days", len(daily))
		return nil
	}

	baseline := make([]float64, 0, len(daily))
	for _, count := range daily {
		baseline = append(baseline, float64(count))
	}

	z := zScore(baseline, float64(todayCount))
	logging.Info("daily volume analyzed",
		"days", len(baseline), "today", todayCount, "z_score", fmt.Sprintf("%.2f", z))

	if z <= zThreshold {
		return nil
	}

	severity := model.SeverityHigh
	if z > zCriticalThreshold {
		severity = model.SeverityCritical
	}

	anomaly := model.Anomaly{
		Type:     model.AnomalyGlobalSpike,
		Severity: severity,
		Message: fmt.Sprintf("Global signal volume spike detected. Current volume: %d, Z-score: %.2f",
			todayCount, z),
		Timestamp: now.Format(time.RFC3339),
	}

	// Alerting is a side effect of detection, not a separate phase.
	if d.notifier != nil {
		d.notifier.SendAlert("anomaly_volume", anomaly.Severity, anomaly.Message)
	}

	return []model.Anomaly{anomaly}
}
