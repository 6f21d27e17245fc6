package schema

import (
	"encoding/json"
	"sync"
)

// DecisionMapSchema is the canonical JSON schema sent to providers that
// support schema-constrained output. It MUST stay in sync with the DecisionMap
// struct; the struct is the source of truth for field names.
const DecisionMapSchema = `{
  "type": "object",
  "properties": {
    "decision_being_influenced": {
      "type": "string",
      "description": "The single human decision this campaign exists to influence."
    },
    "decision_type": {
      "type": "string",
      "enum": [
        "Impulse capture",
        "Planned purchase acceleration",
        "Switching",
        "Trade-up",
        "Habit formation",
        "Re-engagement",
        "Consideration entry",
        "Loyalty defense"
      ]
    },
    "primary_tension": {
      "type": "string",
      "enum": [
        "Convenience vs Commitment",
        "Price vs Quality",
        "Now vs Later",
        "Effort vs Reward",
        "Familiarity vs Novelty",
        "Individual vs Social"
      ]
    },
    "decision_window": {
      "type": "string",
      "enum": [
        "In-transit",
        "Point of sale",
        "Same-day",
        "Weekly planning",
        "Seasonal",
        "Ongoing"
      ]
    },
    "human_context": {
      "type": "object",
      "properties": {
        "situation": {"type": "string"},
        "cognitive_load": {"type": "string"},
        "emotional_state": {"type": "string"}
      },
      "required": ["situation", "cognitive_load", "emotional_state"]
    },
    "behavioral_tension": {
      "type": "object",
      "properties": {
        "tradeoff": {
          "type": "string",
          "description": "Must be literally of the form \"X vs Y\"."
        },
        "why_this_tension_exists": {"type": "string"}
      },
      "required": ["tradeoff", "why_this_tension_exists"]
    },
    "moment_of_instability": {
      "type": "object",
      "properties": {
        "when": {"type": "string"},
        "where": {"type": "string"},
        "why_here_not_elsewhere": {"type": "string"}
      },
      "required": ["when", "where", "why_here_not_elsewhere"]
    },
    "observable_signals": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "signal": {"type": "string"},
          "classification": {
            "type": "string",
            "enum": ["Observed", "Inferred", "Hypothesis"]
          },
          "input_dependency": {"type": "string"}
        },
        "required": ["signal", "classification", "input_dependency"]
      }
    },
    "strategic_levers": {
      "type": "array",
      "items": {"type": "string"}
    },
    "planning_implications": {
      "type": "object",
      "properties": {
        "what_to_prioritize": {"type": "string"},
        "what_to_avoid": {"type": "string"},
        "channel_role_logic": {"type": "string"}
      },
      "required": ["what_to_prioritize", "what_to_avoid", "channel_role_logic"]
    },
    "rejected_alternatives": {
      "type": "object",
      "description": "At least two rejected options per category, each with a stated reason.",
      "properties": {
        "why_not_decision_types": {
          "type": "array",
          "items": {
            "type": "object",
            "properties": {
              "option": {"type": "string"},
              "reason": {"type": "string"}
            },
            "required": ["option", "reason"]
          }
        },
        "why_not_tensions": {
          "type": "array",
          "items": {
            "type": "object",
            "properties": {
              "option": {"type": "string"},
              "reason": {"type": "string"}
            },
            "required": ["option", "reason"]
          }
        },
        "why_not_windows": {
          "type": "array",
          "items": {
            "type": "object",
            "properties": {
              "option": {"type": "string"},
              "reason": {"type": "string"}
            },
            "required": ["option", "reason"]
          }
        }
      },
      "required": ["why_not_decision_types", "why_not_tensions", "why_not_windows"]
    },
    "confidence_assessment": {
      "type": "object",
      "properties": {
        "level": {
          "type": "string",
          "enum": ["Low", "Medium", "High"]
        },
        "drivers": {"type": "array", "items": {"type": "string"}},
        "limitations": {"type": "array", "items": {"type": "string"}}
      },
      "required": ["level", "drivers", "limitations"]
    }
  },
  "required": [
    "decision_being_influenced",
    "decision_type",
    "primary_tension",
    "decision_window",
    "human_context",
    "behavioral_tension",
    "moment_of_instability",
    "observable_signals",
    "strategic_levers",
    "planning_implications",
    "rejected_alternatives",
    "confidence_assessment"
  ]
}`

var (
	responseSchemaOnce sync.Once
	responseSchemaRaw  map[string]interface{}
)

// ResponseSchema returns the parsed schema object for providers that take a
// raw JSON schema. Parsed once; callers must not mutate the result.
func ResponseSchema() map[string]interface{} {
	responseSchemaOnce.Do(func() {
		if err := json.Unmarshal([]byte(DecisionMapSchema), &responseSchemaRaw); err != nil {
			// The constant is compile-time data; a parse failure is a
			// programming error, not a runtime condition.
			panic("schema: DecisionMapSchema is not valid JSON: " + err.Error())
		}
	})
	return responseSchemaRaw
}
