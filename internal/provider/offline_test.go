package provider

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"decisionmap/internal/schema"
)

func TestOfflineStructuredIsDeterministic(t *testing.T) {
	o := NewOffline()
	a, err := o.GenerateStructured(context.Background(), "m", "sys", "user", nil)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	b, err := o.GenerateStructured(context.Background(), "other-model", "different", "prompts", nil)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("offline structured output differs between calls")
	}
}

func TestOfflineStructuredSatisfiesContract(t *testing.T) {
	o := NewOffline()
	raw, err := o.GenerateStructured(context.Background(), "m", "", "", nil)
	if err != nil {
		t.Fatalf("GenerateStructured: %v", err)
	}
	dm, err := schema.Parse(raw)
	if err != nil {
		t.Fatalf("fixture fails its own contract: %v", err)
	}
	if dm.DecisionType != schema.DecisionImpulseCapture {
		t.Errorf("decision_type = %q", dm.DecisionType)
	}
	if len(dm.ObservableSignals) < 1 {
		t.Error("fixture has no observable signals")
	}
}

func TestOfflineBriefTracksPromptMap(t *testing.T) {
	o := NewOffline()
	prompt := `Write the brief from this map:
{
  "behavioral_tension": {"tradeoff": "Stay loyal vs Try cheaper", "why_this_tension_exists": "A rival promo undercuts the habitual choice."},
  "human_context": {"situation": "Weekly shop", "cognitive_load": "Low", "emotional_state": "Deal-alert"},
  "moment_of_instability": {"when": "Saturday morning", "where": "Aisle end-caps", "why_here_not_elsewhere": "Comparison happens at the shelf."},
  "observable_signals": [{"signal": "Basket switching on promo weeks", "classification": "Observed"}],
  "confidence_assessment": {"level": "High"}
}`
	brief, err := o.GenerateText(context.Background(), "m", "sys", prompt)
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if !strings.Contains(brief, "Stay loyal vs Try cheaper") {
		t.Error("brief does not carry the prompt map's tradeoff")
	}
	if !strings.Contains(brief, "Basket switching on promo weeks") {
		t.Error("brief does not carry the prompt map's signal")
	}
	if !strings.Contains(brief, "High") {
		t.Error("brief does not carry the confidence level")
	}
	if strings.Contains(brief, "directional") {
		t.Error("non-Low confidence should not add the directional caveat")
	}
}

func TestOfflineBriefLowConfidenceCaveat(t *testing.T) {
	o := NewOffline()
	prompt := `{"behavioral_tension": {"tradeoff": "A vs B", "why_this_tension_exists": "x"}, "confidence_assessment": {"level": "Low"}}`
	brief, err := o.GenerateText(context.Background(), "m", "", prompt)
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if !strings.Contains(brief, "directional") {
		t.Error("Low confidence brief is missing the directional caveat")
	}
}

func TestOfflineBriefFallsBackToFixture(t *testing.T) {
	o := NewOffline()
	brief, err := o.GenerateText(context.Background(), "m", "", "no json in here")
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if !strings.Contains(brief, "Save time vs Get value now") {
		t.Error("fixture fallback not used for a prompt without an embedded map")
	}
}
