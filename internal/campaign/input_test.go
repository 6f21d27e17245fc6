package campaign

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func fullInput() Input {
	return Input{
		Category:        "Retail",
		Objective:       "Drive footfall",
		Channels:        "DOOH, Display",
		Market:          "US - NYC",
		FlightDates:     "2026-02-01 to 2026-02-28",
		AudienceLogic:   "Commuter corridors",
		CreativeNotes:   "Promo-led",
		MeasurementType: "Footfall",
		KeyResult:       "Uplift observed",
		POIContext:      "Transit-adjacent retail",
		Notes:           "Payday week",
	}
}

func TestValidateAcceptsComplete(t *testing.T) {
	if err := fullInput().Validate(); err != nil {
		t.Fatalf("complete input rejected: %v", err)
	}
}

func TestValidateOptionalFieldsMayBeEmpty(t *testing.T) {
	in := Input{
		Category:      "Retail",
		Objective:     "Drive footfall",
		Channels:      "DOOH",
		Market:        "US",
		AudienceLogic: "Corridors",
	}
	if err := in.Validate(); err != nil {
		t.Fatalf("minimal input rejected: %v", err)
	}
}

func TestValidateNamesFirstMissingField(t *testing.T) {
	tests := []struct {
		field string
		strip func(*Input)
	}{
		{"Category", func(in *Input) { in.Category = "" }},
		{"Objective", func(in *Input) { in.Objective = "  " }},
		{"Channels", func(in *Input) { in.Channels = "" }},
		{"Market", func(in *Input) { in.Market = "\t" }},
		{"Audience_Logic", func(in *Input) { in.AudienceLogic = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			in := fullInput()
			tt.strip(&in)
			err := in.Validate()
			var mf *MissingFieldError
			if !errors.As(err, &mf) {
				t.Fatalf("expected MissingFieldError, got %v", err)
			}
			if mf.Field != tt.field {
				t.Errorf("field = %q, want %q", mf.Field, tt.field)
			}
		})
	}
}

func TestTrimmed(t *testing.T) {
	in := Input{Category: "  Retail  ", Objective: "\tdrive\n", Channels: "DOOH", Market: "US", AudienceLogic: "x"}
	got := in.Trimmed()
	if got.Category != "Retail" || got.Objective != "drive" {
		t.Errorf("Trimmed = %+v", got)
	}
}

func TestJSONUsesTemplateColumnNames(t *testing.T) {
	out, err := fullInput().JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(out), &m); err != nil {
		t.Fatalf("output not an object: %v", err)
	}
	for _, key := range []string{"Category", "Flight_Dates", "Audience_Logic", "POI_Context"} {
		if _, ok := m[key]; !ok {
			t.Errorf("serialized input missing key %q", key)
		}
	}
	if !strings.Contains(out, "\n  \"") {
		t.Error("expected two-space indentation")
	}
}
