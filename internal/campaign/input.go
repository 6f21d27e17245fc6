// Package campaign holds the free-form campaign record that feeds Pass A and
// the tabular intake template used to fill one. Fields are opaque strings; the
// only upstream rule is "required fields present".
package campaign

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Input describes one campaign. Ephemeral: it lives for a single pipeline
// invocation and is then embedded verbatim into the persisted case.
type Input struct {
	Category        string `json:"Category"`
	Objective       string `json:"Objective"`
	Channels        string `json:"Channels"`
	Market          string `json:"Market"`
	FlightDates     string `json:"Flight_Dates"`
	AudienceLogic   string `json:"Audience_Logic"`
	CreativeNotes   string `json:"Creative_Notes"`
	MeasurementType string `json:"Measurement_Type"`
	KeyResult       string `json:"Key_Result"`
	POIContext      string `json:"POI_Context"`
	Notes           string `json:"Notes"`
}

// MissingFieldError names the first required campaign field that is absent.
// Recoverable by the caller correcting input; never retried automatically.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// requiredFields are the fields a campaign cannot be reasoned about without.
var requiredFields = []struct {
	name  string
	value func(Input) string
}{
	{"Category", func(in Input) string { return in.Category }},
	{"Objective", func(in Input) string { return in.Objective }},
	{"Channels", func(in Input) string { return in.Channels }},
	{"Market", func(in Input) string { return in.Market }},
	{"Audience_Logic", func(in Input) string { return in.AudienceLogic }},
}

// Validate checks required-field presence. Nothing else is validated upstream
// of generation; field content is opaque.
func (in Input) Validate() error {
	for _, f := range requiredFields {
		if strings.TrimSpace(f.value(in)) == "" {
			return &MissingFieldError{Field: f.name}
		}
	}
	return nil
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (in Input) Trimmed() Input {
	return Input{
		Category:        strings.TrimSpace(in.Category),
		Objective:       strings.TrimSpace(in.Objective),
		Channels:        strings.TrimSpace(in.Channels),
		Market:          strings.TrimSpace(in.Market),
		FlightDates:     strings.TrimSpace(in.FlightDates),
		AudienceLogic:   strings.TrimSpace(in.AudienceLogic),
		CreativeNotes:   strings.TrimSpace(in.CreativeNotes),
		MeasurementType: strings.TrimSpace(in.MeasurementType),
		KeyResult:       strings.TrimSpace(in.KeyResult),
		POIContext:      strings.TrimSpace(in.POIContext),
		Notes:           strings.TrimSpace(in.Notes),
	}
}

// JSON renders the canonical two-space indented form injected into the Pass A
// prompt and persisted with the case.
func (in Input) JSON() (string, error) {
	b, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize campaign input: %w", err)
	}
	return string(b), nil
}
