package schema

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ValidationError reports the first structural rule a candidate Decision Map
// breaks. Field is a dotted JSON path.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("decision map validation failed: %s: %s", e.Field, e.Reason)
}

// tradeoffPattern is the literal "X vs Y" shape required of
// behavioral_tension.tradeoff. Syntax only; it cannot tell a real tradeoff
// from a plausible-looking one.
var tradeoffPattern = regexp.MustCompile(`^.+ vs .+$`)

// Parse decodes untrusted JSON into a DecisionMap and validates it. The
// returned map is either fully valid or nil with a *ValidationError (or a
// wrapped decode error for non-JSON input).
func Parse(data []byte) (*DecisionMap, error) {
	var dm DecisionMap
	if err := json.Unmarshal(data, &dm); err != nil {
		return nil, fmt.Errorf("decision map is not valid JSON: %w", err)
	}
	if err := dm.Validate(); err != nil {
		return nil, err
	}
	return &dm, nil
}

// Validate checks every structural invariant of the contract. It is a pure
// predicate: no side effects, no state.
func (dm *DecisionMap) Validate() error {
	if strings.TrimSpace(dm.DecisionBeingInfluenced) == "" {
		return &ValidationError{"decision_being_influenced", "must not be empty"}
	}
	if !oneOf(dm.DecisionType, DecisionTypes) {
		return &ValidationError{"decision_type", fmt.Sprintf("%q is not one of the %d allowed decision types", dm.DecisionType, len(DecisionTypes))}
	}
	if !oneOf(dm.PrimaryTension, PrimaryTensions) {
		return &ValidationError{"primary_tension", fmt.Sprintf("%q is not one of the %d allowed tensions", dm.PrimaryTension, len(PrimaryTensions))}
	}
	if !oneOf(dm.DecisionWindow, DecisionWindows) {
		return &ValidationError{"decision_window", fmt.Sprintf("%q is not one of the %d allowed windows", dm.DecisionWindow, len(DecisionWindows))}
	}

	if strings.TrimSpace(dm.BehavioralTension.Tradeoff) == "" {
		return &ValidationError{"behavioral_tension.tradeoff", "must not be empty"}
	}
	if !tradeoffPattern.MatchString(dm.BehavioralTension.Tradeoff) {
		return &ValidationError{"behavioral_tension.tradeoff", fmt.Sprintf("%q is not of the form \"X vs Y\"", dm.BehavioralTension.Tradeoff)}
	}
	if strings.TrimSpace(dm.BehavioralTension.WhyThisTensionExists) == "" {
		return &ValidationError{"behavioral_tension.why_this_tension_exists", "must not be empty"}
	}

	if len(dm.ObservableSignals) == 0 {
		return &ValidationError{"observable_signals", "at least one signal is required"}
	}
	for i, s := range dm.ObservableSignals {
		if strings.TrimSpace(s.Signal) == "" {
			return &ValidationError{fmt.Sprintf("observable_signals[%d].signal", i), "must not be empty"}
		}
		if !oneOf(s.Classification, SignalClassifications) {
			return &ValidationError{fmt.Sprintf("observable_signals[%d].classification", i), fmt.Sprintf("%q is not Observed, Inferred, or Hypothesis", s.Classification)}
		}
	}

	if err := validateRejected("why_not_decision_types", dm.RejectedAlternatives.WhyNotDecisionTypes); err != nil {
		return err
	}
	if err := validateRejected("why_not_tensions", dm.RejectedAlternatives.WhyNotTensions); err != nil {
		return err
	}
	if err := validateRejected("why_not_windows", dm.RejectedAlternatives.WhyNotWindows); err != nil {
		return err
	}

	if !oneOf(dm.ConfidenceAssessment.Level, ConfidenceLevels) {
		return &ValidationError{"confidence_assessment.level", fmt.Sprintf("%q is not Low, Medium, or High", dm.ConfidenceAssessment.Level)}
	}
	// Note: "thin inputs must downgrade confidence and list limitations" is a
	// prompt-level contract, not re-checked structurally.

	return nil
}

// validateRejected enforces the forced-choice contract: two or more rejected
// options per category, each with a stated reason.
func validateRejected(category string, opts []RejectedOption) error {
	if len(opts) < 2 {
		return &ValidationError{"rejected_alternatives." + category, fmt.Sprintf("needs at least 2 rejected options, got %d", len(opts))}
	}
	for i, o := range opts {
		if strings.TrimSpace(o.Option) == "" {
			return &ValidationError{fmt.Sprintf("rejected_alternatives.%s[%d].option", category, i), "must not be empty"}
		}
		if strings.TrimSpace(o.Reason) == "" {
			return &ValidationError{fmt.Sprintf("rejected_alternatives.%s[%d].reason", category, i), "a stated reason is required"}
		}
	}
	return nil
}

// oneOf reports enum membership, case-insensitively. The produced casing is
// preserved; comparisons downstream (store, similarity) normalize anyway.
func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(strings.TrimSpace(v), a) {
			return true
		}
	}
	return false
}

// JSON renders the canonical two-space indented serialization used for
// persistence and as the sole Pass B input.
func (dm *DecisionMap) JSON() (string, error) {
	b, err := json.MarshalIndent(dm, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize decision map: %w", err)
	}
	return string(b), nil
}

// GroupedSignals buckets observable signals by classification for display.
type GroupedSignals struct {
	Observed   []string
	Inferred   []string
	Hypothesis []string
}

// GroupSignals buckets signals for display. An unknown classification is
// treated as Inferred rather than dropped; blank signal texts are skipped.
func GroupSignals(signals []ObservableSignal) GroupedSignals {
	var g GroupedSignals
	for _, s := range signals {
		txt := strings.TrimSpace(s.Signal)
		if txt == "" {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(s.Classification)) {
		case "observed":
			g.Observed = append(g.Observed, txt)
		case "hypothesis":
			g.Hypothesis = append(g.Hypothesis, txt)
		default:
			g.Inferred = append(g.Inferred, txt)
		}
	}
	return g
}
