// Package schema defines the Decision Map contract: the structured reasoning
// artifact Pass A must produce, the closed enumerations its discriminators draw
// from, and the structural validation that gates every generation result before
// it reaches persistence.
//
// Validation is purely structural (types, enum membership, field presence). It
// cannot verify semantic correctness — a tradeoff can satisfy the "X vs Y"
// shape while being meaningless. Confidence downgrading on thin inputs is a
// prompt-level contract and is not re-checked here.
package schema

// Decision type discriminator values. Exactly one must be chosen per map.
const (
	DecisionImpulseCapture      = "Impulse capture"
	DecisionPlannedAcceleration = "Planned purchase acceleration"
	DecisionSwitching           = "Switching"
	DecisionTradeUp             = "Trade-up"
	DecisionHabitFormation      = "Habit formation"
	DecisionReEngagement        = "Re-engagement"
	DecisionConsiderationEntry  = "Consideration entry"
	DecisionLoyaltyDefense      = "Loyalty defense"
)

// Primary tension discriminator values.
const (
	TensionConvenienceCommitment = "Convenience vs Commitment"
	TensionPriceQuality          = "Price vs Quality"
	TensionNowLater              = "Now vs Later"
	TensionEffortReward          = "Effort vs Reward"
	TensionFamiliarityNovelty    = "Familiarity vs Novelty"
	TensionIndividualSocial      = "Individual vs Social"
)

// Decision window discriminator values.
const (
	WindowInTransit      = "In-transit"
	WindowPointOfSale    = "Point of sale"
	WindowSameDay        = "Same-day"
	WindowWeeklyPlanning = "Weekly planning"
	WindowSeasonal       = "Seasonal"
	WindowOngoing        = "Ongoing"
)

// Signal classifications.
const (
	SignalObserved   = "Observed"
	SignalInferred   = "Inferred"
	SignalHypothesis = "Hypothesis"
)

// Confidence levels.
const (
	ConfidenceLow    = "Low"
	ConfidenceMedium = "Medium"
	ConfidenceHigh   = "High"
)

// DecisionTypes lists the allowed decision_type values in canonical order.
var DecisionTypes = []string{
	DecisionImpulseCapture,
	DecisionPlannedAcceleration,
	DecisionSwitching,
	DecisionTradeUp,
	DecisionHabitFormation,
	DecisionReEngagement,
	DecisionConsiderationEntry,
	DecisionLoyaltyDefense,
}

// PrimaryTensions lists the allowed primary_tension values.
var PrimaryTensions = []string{
	TensionConvenienceCommitment,
	TensionPriceQuality,
	TensionNowLater,
	TensionEffortReward,
	TensionFamiliarityNovelty,
	TensionIndividualSocial,
}

// DecisionWindows lists the allowed decision_window values.
var DecisionWindows = []string{
	WindowInTransit,
	WindowPointOfSale,
	WindowSameDay,
	WindowWeeklyPlanning,
	WindowSeasonal,
	WindowOngoing,
}

// SignalClassifications lists the allowed observable-signal classifications.
var SignalClassifications = []string{SignalObserved, SignalInferred, SignalHypothesis}

// ConfidenceLevels lists the allowed confidence levels.
var ConfidenceLevels = []string{ConfidenceLow, ConfidenceMedium, ConfidenceHigh}

// HumanContext describes the situational frame the decision happens in.
type HumanContext struct {
	Situation      string `json:"situation"`
	CognitiveLoad  string `json:"cognitive_load"`
	EmotionalState string `json:"emotional_state"`
}

// BehavioralTension names the tradeoff blocking the decision.
// Tradeoff must be literally of the form "X vs Y".
type BehavioralTension struct {
	Tradeoff             string `json:"tradeoff"`
	WhyThisTensionExists string `json:"why_this_tension_exists"`
}

// MomentOfInstability pins the decision to a concrete real-world moment.
type MomentOfInstability struct {
	When                string `json:"when"`
	Where               string `json:"where"`
	WhyHereNotElsewhere string `json:"why_here_not_elsewhere"`
}

// ObservableSignal is one (signal, classification, dependency) triple.
type ObservableSignal struct {
	Signal          string `json:"signal"`
	Classification  string `json:"classification"`
	InputDependency string `json:"input_dependency"`
}

// PlanningImplications state what a team would change next time.
type PlanningImplications struct {
	WhatToPrioritize string `json:"what_to_prioritize"`
	WhatToAvoid      string `json:"what_to_avoid"`
	ChannelRoleLogic string `json:"channel_role_logic"`
}

// RejectedOption is one explicitly rejected alternative with its reason.
type RejectedOption struct {
	Option string `json:"option"`
	Reason string `json:"reason"`
}

// RejectedAlternatives forces the model to commit: at least two rejected
// options per discriminator category, each with a stated reason. Missing
// entries fail validation — this is structural, not advisory.
type RejectedAlternatives struct {
	WhyNotDecisionTypes []RejectedOption `json:"why_not_decision_types"`
	WhyNotTensions      []RejectedOption `json:"why_not_tensions"`
	WhyNotWindows       []RejectedOption `json:"why_not_windows"`
}

// ConfidenceAssessment carries the model's own confidence and its limits.
type ConfidenceAssessment struct {
	Level       string   `json:"level"`
	Drivers     []string `json:"drivers"`
	Limitations []string `json:"limitations"`
}

// DecisionMap is the validated structured artifact of Pass A. Immutable once
// produced; its canonical JSON form is the sole input to Pass B.
type DecisionMap struct {
	DecisionBeingInfluenced string               `json:"decision_being_influenced"`
	DecisionType            string               `json:"decision_type"`
	PrimaryTension          string               `json:"primary_tension"`
	DecisionWindow          string               `json:"decision_window"`
	HumanContext            HumanContext         `json:"human_context"`
	BehavioralTension       BehavioralTension    `json:"behavioral_tension"`
	MomentOfInstability     MomentOfInstability  `json:"moment_of_instability"`
	ObservableSignals       []ObservableSignal   `json:"observable_signals"`
	StrategicLevers         []string             `json:"strategic_levers"`
	PlanningImplications    PlanningImplications `json:"planning_implications"`
	RejectedAlternatives    RejectedAlternatives `json:"rejected_alternatives"`
	ConfidenceAssessment    ConfidenceAssessment `json:"confidence_assessment"`
}
