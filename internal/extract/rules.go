package extract

import (
	"context"
	"fmt"
	"regexp"

	"github.com/abelbrown/epiwatch/internal/model"
)

// caseCountRe matches numeric case/death/infection counts, the signal that
// lets a tier-2 report be treated as a confirmed outbreak.
var caseCountRe = regexp.MustCompile(`(?i)\d+\s+(cases|deaths|infections)`)

// Strategy extracts entities and a classification from one raw event.
// Implementations must never panic on malformed text; the worst case is an
// extraction with empty entity sets.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, ev model.RawEvent, tier int) (model.Extraction, error)
}

// RuleStrategy is the deterministic extraction strategy. It is always
// available and serves as the fallback when the model strategy fails.
type RuleStrategy struct {
	catalog *Catalog
}

// NewRuleStrategy creates the deterministic strategy over the given catalog.
func NewRuleStrategy(catalog *Catalog) *RuleStrategy {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &RuleStrategy{catalog: catalog}
}

func (s *RuleStrategy) Name() string { return "rules" }

// Extract scans title and content for disease and country mentions and
// classifies the event by source tier. It never returns an error.
func (s *RuleStrategy) Extract(_ context.Context, ev model.RawEvent, tier int) (model.Extraction, error) {
	text := ev.Title + " " + ev.Content
	ext := model.Extraction{
		Diseases:  s.catalog.ExtractDiseases(text),
		Locations: s.catalog.ExtractCountries(text),
	}
	ext.Classification, ext.Confidence, ext.Assessment = classifyByTier(tier, ev.Content)
	return ext, nil
}

// classifyByTier applies the deterministic classification rules:
//
//	tier 1           -> confirmed_outbreak, 1.0
//	tier 2 + counts  -> confirmed_outbreak, 0.8
//	tier 2           -> research_update, 0.9
//	anything else    -> early_signal, 0.5
func classifyByTier(tier int, content string) (model.Classification, float64, string) {
	switch {
	case tier == model.TierOfficial:
		return model.ClassConfirmedOutbreak, 1.0, "Official Tier 1 Source"
	case tier == model.TierSecondary:
		if match := caseCountRe.FindString(content); match != "" {
			return model.ClassConfirmedOutbreak, 0.8, fmt.Sprintf("Tier 2 source reporting %s", match)
		}
		return model.ClassResearchUpdate, 0.9, "Tier 2 source research update (no case counts detected)"
	default:
		return model.ClassEarlySignal, 0.5, "Initial signal"
	}
}
