package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Offline is the deterministic fixture backend: zero cost, zero network I/O,
// byte-identical structured output on every call. The prompt content is
// ignored on Pass A; Pass B renders a fixed-layout brief from whatever
// decision map JSON is embedded in the prompt, so the narrative still tracks
// the structured artifact.
type Offline struct{}

// NewOffline returns the fixture backend.
func NewOffline() *Offline {
	return &Offline{}
}

// offlineDecisionMap is the canned Pass A result. It satisfies every
// structural rule of the decision map contract.
const offlineDecisionMap = `{
  "decision_being_influenced": "Whether to make a spontaneous store visit during routine travel in the promo window.",
  "decision_type": "Impulse capture",
  "primary_tension": "Effort vs Reward",
  "decision_window": "In-transit",
  "human_context": {
    "situation": "People moving through transit-adjacent retail corridors with limited time and competing errands.",
    "cognitive_load": "Medium: attention is fragmented and decisions are made fast.",
    "emotional_state": "Pragmatic value-seeking; low patience for friction."
  },
  "behavioral_tension": {
    "tradeoff": "Save time vs Get value now",
    "why_this_tension_exists": "The promo creates perceived gain, but the store visit adds uncertainty, detour cost, and time risk."
  },
  "moment_of_instability": {
    "when": "Weekday evenings and weekend mid-day peaks during the promo window",
    "where": "Within 3-8 minutes of route adjacency (subway exits, commuter corridors, pedestrian choke points)",
    "why_here_not_elsewhere": "The decision becomes viable only when the detour cost collapses and the offer feels immediate."
  },
  "observable_signals": [
    {
      "signal": "Repeat presence near retail corridors during peak windows",
      "classification": "Observed",
      "input_dependency": "Audience_Logic + POI_Context"
    },
    {
      "signal": "Higher visit propensity when messaging is time-bound and simple",
      "classification": "Inferred",
      "input_dependency": "Creative_Notes"
    },
    {
      "signal": "Uplift is likely strongest at locations with commute adjacency and clear storefront visibility",
      "classification": "Hypothesis",
      "input_dependency": "POI_Context + Notes"
    }
  ],
  "strategic_levers": [
    "Collapse detour cost: prioritise route-adjacent inventory and commuter choke points.",
    "Use a justification device: time-bound value framing plus quick-win language.",
    "Pair DOOH (environmental validation) with Display (follow-through and reinforcement)."
  ],
  "planning_implications": {
    "what_to_prioritize": "Route adjacency, dayparting, and creative that signals fast, easy, limited-time value.",
    "what_to_avoid": "Broad geo without journey context; generic brand-led copy without a reason-to-go-now.",
    "channel_role_logic": "DOOH does in-the-world permission and salience; Display catches the second look and drives completion."
  },
  "rejected_alternatives": {
    "why_not_decision_types": [
      {
        "option": "Planned purchase acceleration",
        "reason": "Nothing in the inputs suggests a pre-existing purchase plan being moved forward; the visit is opportunistic."
      },
      {
        "option": "Habit formation",
        "reason": "A bounded promo window cannot carry the repetition a habit loop needs."
      }
    ],
    "why_not_tensions": [
      {
        "option": "Price vs Quality",
        "reason": "Quality perception is never in play; the blocker is detour cost, not product doubt."
      },
      {
        "option": "Familiarity vs Novelty",
        "reason": "The store and offer format are familiar; novelty is not what destabilizes the decision."
      }
    ],
    "why_not_windows": [
      {
        "option": "Weekly planning",
        "reason": "The visit is not planned ahead; it is triggered by route adjacency in the moment."
      },
      {
        "option": "Seasonal",
        "reason": "The promo window is measured in weeks of commuting, not a seasonal purchase cycle."
      }
    ]
  },
  "confidence_assessment": {
    "level": "Medium",
    "drivers": [
      "Objective-measurement alignment (footfall)",
      "POI and movement context specified",
      "Promo window supports urgency framing"
    ],
    "limitations": [
      "No numeric uplift provided",
      "No control design details",
      "Limited creative detail"
    ]
  }
}`

// GenerateStructured returns the fixture verbatim. The schema argument only
// has to be shaped like the decision map contract; content of the prompts is
// ignored.
func (o *Offline) GenerateStructured(_ context.Context, _, _, _ string, _ map[string]interface{}) ([]byte, error) {
	return []byte(offlineDecisionMap), nil
}

// offlineBriefView is the slice of the decision map the canned brief reads.
type offlineBriefView struct {
	HumanContext struct {
		Situation      string `json:"situation"`
		CognitiveLoad  string `json:"cognitive_load"`
		EmotionalState string `json:"emotional_state"`
	} `json:"human_context"`
	BehavioralTension struct {
		Tradeoff             string `json:"tradeoff"`
		WhyThisTensionExists string `json:"why_this_tension_exists"`
	} `json:"behavioral_tension"`
	MomentOfInstability struct {
		When                string `json:"when"`
		Where               string `json:"where"`
		WhyHereNotElsewhere string `json:"why_here_not_elsewhere"`
	} `json:"moment_of_instability"`
	ObservableSignals []struct {
		Signal         string `json:"signal"`
		Classification string `json:"classification"`
	} `json:"observable_signals"`
	ConfidenceAssessment struct {
		Level string `json:"level"`
	} `json:"confidence_assessment"`
}

// GenerateText renders a fixed-layout brief from the decision map JSON
// embedded in the user prompt. Deterministic for a given prompt.
func (o *Offline) GenerateText(_ context.Context, _, _, userPrompt string) (string, error) {
	raw := ExtractJSON(userPrompt)
	if raw == "" {
		raw = offlineDecisionMap
	}
	var dm offlineBriefView
	if err := json.Unmarshal([]byte(raw), &dm); err != nil {
		return "", &MalformedOutputError{Provider: NameOffline, Detail: fmt.Sprintf("prompt carries unparseable decision map: %v", err)}
	}

	conf := dm.ConfidenceAssessment.Level
	if conf == "" {
		conf = "Medium"
	}

	var b strings.Builder
	b.WriteString("Executive Decision Headline\n")
	b.WriteString("A store visit is most influenceable when the retail location collapses into a commuter's route AND the offer provides a credible go-now justification.\n\n")

	b.WriteString("Human Context\n")
	fmt.Fprintf(&b, "- Situation: %s\n", dm.HumanContext.Situation)
	fmt.Fprintf(&b, "- Cognitive load: %s\n", dm.HumanContext.CognitiveLoad)
	fmt.Fprintf(&b, "- Emotional state: %s\n\n", dm.HumanContext.EmotionalState)

	b.WriteString("Core Behavioral Tension\n")
	fmt.Fprintf(&b, "- %s\n", dm.BehavioralTension.Tradeoff)
	fmt.Fprintf(&b, "- Why: %s\n\n", dm.BehavioralTension.WhyThisTensionExists)

	b.WriteString("Contextual Moment of Instability\n")
	fmt.Fprintf(&b, "- When: %s\n", dm.MomentOfInstability.When)
	fmt.Fprintf(&b, "- Where: %s\n", dm.MomentOfInstability.Where)
	fmt.Fprintf(&b, "- Why here: %s\n\n", dm.MomentOfInstability.WhyHereNotElsewhere)

	b.WriteString("Observable Behavioral Signals\n")
	for _, s := range dm.ObservableSignals {
		if strings.TrimSpace(s.Signal) == "" {
			continue
		}
		fmt.Fprintf(&b, "- (%s) %s\n", s.Classification, s.Signal)
	}
	b.WriteString("\n")

	b.WriteString("Strategic Implication for Planning\n")
	b.WriteString("Prioritise inventory that sits on-route (transit exits, choke points, last-mile corridors). Daypart the message to commute and weekend peaks. Keep creative brutally simple: time-bound value plus quick-visit cues. Use DOOH as environmental validation; use Display for follow-through once attention returns to mobile.\n\n")

	b.WriteString("Confidence Classification\n")
	b.WriteString(conf)
	b.WriteString("\n")
	if strings.EqualFold(conf, "Low") {
		b.WriteString("This brief is directional and intended to inform hypothesis-led planning.\n")
	}
	return b.String(), nil
}
