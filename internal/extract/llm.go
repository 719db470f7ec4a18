package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abelbrown/epiwatch/internal/brain"
	"github.com/abelbrown/epiwatch/internal/logging"
	"github.com/abelbrown/epiwatch/internal/model"
)

// maxPromptChars bounds the announcement text sent to the model.
const maxPromptChars = 8000

const extractionSystemPrompt = `You are an epidemic intelligence analyst. ` +
	`You extract structured signals from public health outbreak announcements. ` +
	`Always respond with a single strict JSON object and nothing else.`

const extractionPromptTemplate = `Extract outbreak intelligence from the announcement below.

Respond with strict JSON in exactly this shape:
{"diseases": ["..."], "locations": ["..."], "assessment": "...", "confidence": 0.0}

- "diseases": canonical disease names (e.g. "Avian Influenza" rather than "H5N1")
- "locations": country names mentioned
- "assessment": one sentence explaining the signal
- "confidence": a number between 0 and 1

Announcement:
%s`

// ModelStrategy extracts entities with a generative model. Any transport or
// parse failure is returned as an error so the caller can fall back to the
// deterministic strategy; an event is never dropped because extraction failed.
type ModelStrategy struct {
	providers *brain.ProviderManager
	catalog   *Catalog
}

// NewModelStrategy creates the generative strategy backed by the given
// provider manager.
func NewModelStrategy(providers *brain.ProviderManager, catalog *Catalog) *ModelStrategy {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &ModelStrategy{providers: providers, catalog: catalog}
}

func (s *ModelStrategy) Name() string { return "model" }

// Extract sends the announcement to the first available provider and parses
// its JSON response. The response may be wrapped in a markdown code fence.
func (s *ModelStrategy) Extract(ctx context.Context, ev model.RawEvent, _ int) (model.Extraction, error) {
	provider := s.providers.GetAvailable()
	if provider == nil {
		return model.Extraction{}, fmt.Errorf("no generative provider available")
	}

	text := ev.Title + "\n\n" + ev.Content
	if len(text) > maxPromptChars {
		text = text[:maxPromptChars]
	}

	resp, err := provider.Generate(ctx, brain.Request{
		SystemPrompt: extractionSystemPrompt,
		UserPrompt:   fmt.Sprintf(extractionPromptTemplate, text),
		MaxTokens:    1024,
	})
	if err != nil {
		return model.Extraction{}, fmt.Errorf("model generate: %w", err)
	}

	var parsed struct {
		Diseases   []string `json:"diseases"`
		Locations  []string `json:"locations"`
		Assessment string   `json:"assessment"`
		Confidence float64  `json:"confidence"`
	}
	payload := StripFences(resp.Content)
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		logging.Debug("model response was not valid JSON",
			"provider", provider.Name(), "error", err, "content", resp.Content)
		return model.Extraction{}, fmt.Errorf("model response decode: %w", err)
	}

	confidence := clamp01(parsed.Confidence)
	ext := model.Extraction{
		Diseases:       s.canonicalizeAll(parsed.Diseases),
		Locations:      dedupe(parsed.Locations),
		Assessment:     strings.TrimSpace(parsed.Assessment),
		Confidence:     confidence,
		Classification: classifyByConfidence(confidence),
	}
	if ext.Assessment == "" {
		ext.Assessment = "Model extraction (no assessment returned)"
	}
	return ext, nil
}

// classifyByConfidence derives a classification from model confidence:
// above 0.8 confirmed, below 0.3 research update, otherwise early signal.
func classifyByConfidence(confidence float64) model.Classification {
	switch {
	case confidence > 0.8:
		return model.ClassConfirmedOutbreak
	case confidence < 0.3:
		return model.ClassResearchUpdate
	default:
		return model.ClassEarlySignal
	}
}

func (s *ModelStrategy) canonicalizeAll(names []string) []string {
	var out []string
	for _, n := range names {
		out = append(out, s.catalog.Canonicalize(n))
	}
	return dedupe(out)
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// StripFences removes a surrounding markdown code fence from a model
// response and trims to the outermost JSON object if one is present.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.IndexByte(s, '\n'); idx >= 0 {
			s = s[idx+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
	}
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
