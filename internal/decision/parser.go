package decision

import (
	"encoding/json"
	"fmt"

	"github.com/zl90/agentic-grants-assessment/pkg/models"
)

// AgentDecision is the structured verdict parsed out of a model completion.
type AgentDecision struct {
	Decision   models.Decision
	Reason     string
	Strengths  string
	Weaknesses string
}

// rawDecision mirrors the JSON shape the agent is instructed to produce. The
// agent has historically used "result" for the verdict field, so it is
// accepted as an alias for "decision".
type rawDecision struct {
	Decision   string `json:"decision"`
	Result     string `json:"result"`
	Reason     string `json:"reason"`
	Strengths  string `json:"strengths"`
	Weaknesses string `json:"weaknesses"`
}

// ParseCompletion extracts a structured decision from free-form model output.
// The model may wrap its JSON in prose, so the first top-level {...} substring
// is located before parsing. Required fields are the decision and the reason;
// strengths and weaknesses default to DefaultAssessment when absent. A verdict
// outside the closed decision set is a parse error, never passed through.
func ParseCompletion(completion string) (*AgentDecision, error) {
	const op = "ParseCompletion"

	object, ok := firstJSONObject(completion)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrNoDecisionObject)
	}

	var raw rawDecision
	if err := json.Unmarshal([]byte(object), &raw); err != nil {
		return nil, fmt.Errorf("%s: malformed decision object: %w", op, err)
	}

	verdict := raw.Decision
	if verdict == "" {
		verdict = raw.Result
	}
	if verdict == "" {
		return nil, fmt.Errorf("%s: %w: decision", op, ErrMissingField)
	}
	if raw.Reason == "" {
		return nil, fmt.Errorf("%s: %w: reason", op, ErrMissingField)
	}

	parsed, err := models.ParseDecision(verdict)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := &AgentDecision{
		Decision:   parsed,
		Reason:     raw.Reason,
		Strengths:  raw.Strengths,
		Weaknesses: raw.Weaknesses,
	}
	if result.Strengths == "" {
		result.Strengths = DefaultAssessment
	}
	if result.Weaknesses == "" {
		result.Weaknesses = DefaultAssessment
	}
	return result, nil
}

// firstJSONObject returns the first balanced top-level {...} substring,
// ignoring braces inside JSON string literals.
func firstJSONObject(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}
	return "", false
}

// truncate bounds a raw completion before it is persisted on a failed record.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
