package campaign

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// TemplateColumns is the fixed 11-column header of the intake template, in
// order. Parsers key on header names, not positions, so reordered columns
// still parse.
var TemplateColumns = []string{
	"Category",
	"Objective",
	"Channels",
	"Market",
	"Flight_Dates",
	"Audience_Logic",
	"Creative_Notes",
	"Measurement_Type",
	"Key_Result",
	"POI_Context",
	"Notes",
}

// templateRequired are the columns ParseTemplate refuses to proceed without.
var templateRequired = []string{"Category", "Objective", "Channels", "Market", "Audience_Logic"}

// TemplateError reports a malformed intake document. Same recovery class as
// MissingFieldError: fix the document and resubmit.
type TemplateError struct {
	Reason string
}

func (e *TemplateError) Error() string {
	return "campaign template: " + e.Reason
}

// sampleRow seeds the downloadable template with one worked example.
var sampleRow = Input{
	Category:        "Retail",
	Objective:       "Drive in-store footfall during promo window",
	Channels:        "DOOH, Display",
	Market:          "US - NYC",
	FlightDates:     "2026-02-01 to 2026-02-28",
	AudienceLogic:   "People frequently present near retail corridors and competitor clusters",
	CreativeNotes:   "Promo-led message + convenience framing, debranded",
	MeasurementType: "Footfall",
	KeyResult:       "Directional: uplift observed",
	POIContext:      "Big-box retail parks + transit-adjacent retail",
	Notes:           "Promo window coincides with payday week",
}

// WriteTemplate emits the intake template: the fixed header plus one sample
// data row.
func WriteTemplate(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TemplateColumns); err != nil {
		return fmt.Errorf("failed to write template header: %w", err)
	}
	if err := cw.Write(rowValues(sampleRow)); err != nil {
		return fmt.Errorf("failed to write template sample row: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// ParseTemplate reads a filled-in template. The first data row wins; a
// document with zero data rows or a missing required column is rejected.
// Blank cells become empty strings.
func ParseTemplate(r io.Reader) (Input, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return Input{}, &TemplateError{Reason: fmt.Sprintf("unreadable document: %v", err)}
	}
	if len(records) == 0 {
		return Input{}, &TemplateError{Reason: "document has no header row"}
	}
	if len(records) < 2 {
		return Input{}, &TemplateError{Reason: "data sheet contains zero rows"}
	}

	header := records[0]
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	var missing []string
	for _, name := range templateRequired {
		if _, ok := col[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return Input{}, &TemplateError{Reason: "missing required columns: " + strings.Join(missing, ", ")}
	}

	row := records[1]
	cell := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	in := Input{
		Category:        cell("Category"),
		Objective:       cell("Objective"),
		Channels:        cell("Channels"),
		Market:          cell("Market"),
		FlightDates:     cell("Flight_Dates"),
		AudienceLogic:   cell("Audience_Logic"),
		CreativeNotes:   cell("Creative_Notes"),
		MeasurementType: cell("Measurement_Type"),
		KeyResult:       cell("Key_Result"),
		POIContext:      cell("POI_Context"),
		Notes:           cell("Notes"),
	}
	if err := in.Validate(); err != nil {
		return Input{}, &TemplateError{Reason: err.Error()}
	}
	return in, nil
}

func rowValues(in Input) []string {
	return []string{
		in.Category,
		in.Objective,
		in.Channels,
		in.Market,
		in.FlightDates,
		in.AudienceLogic,
		in.CreativeNotes,
		in.MeasurementType,
		in.KeyResult,
		in.POIContext,
		in.Notes,
	}
}
