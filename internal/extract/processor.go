package extract

import (
	"context"

	"github.com/abelbrown/epiwatch/internal/brain"
	"github.com/abelbrown/epiwatch/internal/logging"
	"github.com/abelbrown/epiwatch/internal/model"
)

// Processor turns raw events into normalized, classified events. The
// extraction strategy is chosen once at construction: the generative
// strategy when a provider is configured, the deterministic rules otherwise.
// The rules always remain as the per-event fallback.
type Processor struct {
	rules *RuleStrategy
	model Strategy // nil when generative extraction is not configured
}

// NewProcessor creates a Processor. providers may be nil.
func NewProcessor(catalog *Catalog, providers *brain.ProviderManager) *Processor {
	p := &Processor{rules: NewRuleStrategy(catalog)}
	if providers != nil && providers.GetAvailable() != nil {
		p.model = NewModelStrategy(providers, catalog)
		logging.Info("generative extraction enabled", "providers", providers.ListAvailable())
	}
	return p
}

// Process normalizes and classifies one raw event. It never fails: malformed
// input yields empty entity sets with a tier-derived classification.
//
// Tier-1 events are never down-classified: whatever the strategy reported,
// classification is forced to confirmed_outbreak with confidence 1.0.
func (p *Processor) Process(ctx context.Context, ev model.RawEvent, tier int) model.NormalizedEvent {
	ext, strategy := p.extract(ctx, ev, tier)

	ne := model.NormalizedEvent{
		Title:          ev.Title,
		Summary:        ev.Title,
		Diseases:       ext.Diseases,
		Locations:      ext.Locations,
		Classification: ext.Classification,
		Confidence:     ext.Confidence,
		AssessmentText: ext.Assessment,
		SourceTier:     tier,
	}

	if tier == model.TierOfficial {
		ne.Classification = model.ClassConfirmedOutbreak
		ne.Confidence = 1.0
	}
	if ne.AssessmentText == "" {
		ne.AssessmentText = "No assessment available"
	}

	logging.Debug("event processed",
		"strategy", strategy,
		"external_id", ev.ExternalID,
		"classification", ne.Classification,
		"diseases", len(ne.Diseases),
		"locations", len(ne.Locations))

	return ne
}

func (p *Processor) extract(ctx context.Context, ev model.RawEvent, tier int) (model.Extraction, string) {
	if p.model != nil {
		ext, err := p.model.Extract(ctx, ev, tier)
		if err == nil {
			return ext, p.model.Name()
		}
		logging.Warn("model extraction failed, falling back to rules",
			"external_id", ev.ExternalID, "error", err)
	}
	ext, _ := p.rules.Extract(ctx, ev, tier)
	return ext, p.rules.Name()
}
