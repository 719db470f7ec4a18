package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/abelbrown/epiwatch/internal/model"
)

func TestClassifyByTier(t *testing.T) {
	tests := []struct {
		name           string
		tier           int
		content        string
		wantClass      model.Classification
		wantConfidence float64
		wantReason     string
	}{
		{
			name:           "tier 1 is always confirmed",
			tier:           1,
			content:        "routine situation summary with no numbers",
			wantClass:      model.ClassConfirmedOutbreak,
			wantConfidence: 1.0,
			wantReason:     "Official Tier 1 Source",
		},
		{
			name:           "tier 2 with case counts",
			tier:           2,
			content:        "Health officials confirmed 37 cases in the province",
			wantClass:      model.ClassConfirmedOutbreak,
			wantConfidence: 0.8,
			wantReason:     "Tier 2 source reporting 37 cases",
		},
		{
			name:           "tier 2 with death counts",
			tier:           2,
			content:        "The ministry reported 5 deaths since Monday",
			wantClass:      model.ClassConfirmedOutbreak,
			wantConfidence: 0.8,
			wantReason:     "Tier 2 source reporting 5 deaths",
		},
		{
			name:           "tier 2 without counts",
			tier:           2,
			content:        "A new preprint examines transmission dynamics",
			wantClass:      model.ClassResearchUpdate,
			wantConfidence: 0.9,
			wantReason:     "Tier 2 source research update (no case counts detected)",
		},
		{
			name:           "unknown tier",
			tier:           3,
			content:        "unverified social media chatter",
			wantClass:      model.ClassEarlySignal,
			wantConfidence: 0.5,
			wantReason:     "Initial signal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class, conf, reason := classifyByTier(tt.tier, tt.content)
			if class != tt.wantClass {
				t.Errorf("classification = %q, want %q", class, tt.wantClass)
			}
			if conf != tt.wantConfidence {
				t.Errorf("confidence = %v, want %v", conf, tt.wantConfidence)
			}
			if reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", reason, tt.wantReason)
			}
		})
	}
}

func TestProcessRulesOnly(t *testing.T) {
	p := NewProcessor(nil, nil)

	ev := model.RawEvent{
		ExternalID: "don-1",
		Title:      "Cholera - Haiti",
		Content:    "The Ministry of Health of Haiti reported 120 cases of Cholera.",
	}

	ne := p.Process(context.Background(), ev, 1)

	if ne.Classification != model.ClassConfirmedOutbreak {
		t.Errorf("classification = %q, want confirmed_outbreak", ne.Classification)
	}
	if ne.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", ne.Confidence)
	}
	if len(ne.Diseases) != 1 || ne.Diseases[0] != "Cholera" {
		t.Errorf("diseases = %v, want [Cholera]", ne.Diseases)
	}
	if len(ne.Locations) != 1 || ne.Locations[0] != "Haiti" {
		t.Errorf("locations = %v, want [Haiti]", ne.Locations)
	}
	if ne.Summary != ev.Title {
		t.Errorf("summary = %q, want the title", ne.Summary)
	}
	if ne.SourceTier != 1 {
		t.Errorf("source tier = %d, want 1", ne.SourceTier)
	}
}

func TestProcessEmptyEvent(t *testing.T) {
	p := NewProcessor(nil, nil)

	ne := p.Process(context.Background(), model.RawEvent{ExternalID: "empty"}, 1)

	if ne.Classification != model.ClassConfirmedOutbreak || ne.Confidence != 1.0 {
		t.Errorf("tier 1 empty event got %q/%v, want confirmed_outbreak/1.0",
			ne.Classification, ne.Confidence)
	}
	if len(ne.Diseases) != 0 || len(ne.Locations) != 0 {
		t.Errorf("empty event extracted entities: %v / %v", ne.Diseases, ne.Locations)
	}
	if ne.AssessmentText == "" {
		t.Error("assessment text should never be empty")
	}
}

// fakeStrategy stands in for the generative strategy in tests.
type fakeStrategy struct {
	ext model.Extraction
	err error
}

func (f *fakeStrategy) Name() string { return "fake" }

func (f *fakeStrategy) Extract(context.Context, model.RawEvent, int) (model.Extraction, error) {
	return f.ext, f.err
}

func TestProcessModelFallsBackToRules(t *testing.T) {
	p := NewProcessor(nil, nil)
	p.model = &fakeStrategy{err: errors.New("provider unreachable")}

	ev := model.RawEvent{
		ExternalID: "don-2",
		Title:      "Mpox - Democratic Republic of the Congo",
		Content:    "Officials reported 14 cases across three provinces.",
	}
	ne := p.Process(context.Background(), ev, 2)

	if ne.Classification != model.ClassConfirmedOutbreak {
		t.Errorf("classification = %q, want confirmed_outbreak from rules fallback", ne.Classification)
	}
	if ne.Confidence != 0.8 {
		t.Errorf("confidence = %v, want 0.8 from rules fallback", ne.Confidence)
	}
	if !strings.Contains(ne.AssessmentText, "14 cases") {
		t.Errorf("assessment = %q, want the matched case count", ne.AssessmentText)
	}
	if len(ne.Diseases) != 1 || ne.Diseases[0] != "Mpox" {
		t.Errorf("diseases = %v, want [Mpox]", ne.Diseases)
	}
}

func TestProcessModelResultUsed(t *testing.T) {
	p := NewProcessor(nil, nil)
	p.model = &fakeStrategy{ext: model.Extraction{
		Diseases:       []string{"Marburg"},
		Locations:      []string{"Rwanda"},
		Assessment:     "Confirmed filovirus cluster",
		Confidence:     0.85,
		Classification: model.ClassConfirmedOutbreak,
	}}

	ne := p.Process(context.Background(), model.RawEvent{Title: "unrelated title"}, 2)

	if ne.Classification != model.ClassConfirmedOutbreak || ne.Confidence != 0.85 {
		t.Errorf("got %q/%v, want model result confirmed_outbreak/0.85",
			ne.Classification, ne.Confidence)
	}
	if len(ne.Diseases) != 1 || ne.Diseases[0] != "Marburg" {
		t.Errorf("diseases = %v, want [Marburg]", ne.Diseases)
	}
	if ne.AssessmentText != "Confirmed filovirus cluster" {
		t.Errorf("assessment = %q, want the model assessment", ne.AssessmentText)
	}
}

func TestProcessTierOneOverridesModel(t *testing.T) {
	p := NewProcessor(nil, nil)
	// Model hedges with a low-confidence early signal; the authoritative
	// source tier must win.
	p.model = &fakeStrategy{ext: model.Extraction{
		Assessment:     "Possibly routine surveillance",
		Confidence:     0.4,
		Classification: model.ClassEarlySignal,
	}}

	ne := p.Process(context.Background(), model.RawEvent{Title: "Measles - Yemen"}, 1)

	if ne.Classification != model.ClassConfirmedOutbreak {
		t.Errorf("classification = %q, want confirmed_outbreak override", ne.Classification)
	}
	if ne.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0 override", ne.Confidence)
	}
	// The model's entity extraction and assessment survive the override.
	if ne.AssessmentText != "Possibly routine surveillance" {
		t.Errorf("assessment = %q, want the model assessment preserved", ne.AssessmentText)
	}
}
