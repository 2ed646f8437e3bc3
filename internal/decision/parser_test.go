package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zl90/agentic-grants-assessment/pkg/models"
)

func TestParseCompletionProseWrappedObject(t *testing.T) {
	parsed, err := ParseCompletion(`Here you go: {"decision":"APPROVE","reason":"ok"}`)
	require.NoError(t, err)

	assert.Equal(t, models.DecisionApprove, parsed.Decision)
	assert.Equal(t, "ok", parsed.Reason)
	assert.Equal(t, DefaultAssessment, parsed.Strengths)
	assert.Equal(t, DefaultAssessment, parsed.Weaknesses)
}

func TestParseCompletionAllFields(t *testing.T) {
	parsed, err := ParseCompletion(`{"decision":"DENY","reason":"insufficient budget detail","strengths":"none","weaknesses":"vague"}`)
	require.NoError(t, err)

	assert.Equal(t, models.DecisionDeny, parsed.Decision)
	assert.Equal(t, "insufficient budget detail", parsed.Reason)
	assert.Equal(t, "none", parsed.Strengths)
	assert.Equal(t, "vague", parsed.Weaknesses)
}

func TestParseCompletionResultAlias(t *testing.T) {
	parsed, err := ParseCompletion(`{"result":"ESCALATE","reason":"needs manual review"}`)
	require.NoError(t, err)

	assert.Equal(t, models.DecisionEscalate, parsed.Decision)
}

func TestParseCompletionBracesInsideStrings(t *testing.T) {
	parsed, err := ParseCompletion(`{"decision":"DENY","reason":"budget section {3.1} is empty"}`)
	require.NoError(t, err)

	assert.Equal(t, "budget section {3.1} is empty", parsed.Reason)
}

func TestParseCompletionErrors(t *testing.T) {
	tests := []struct {
		name       string
		completion string
		wantErr    error
	}{
		{"no JSON object", "I cannot process this.", ErrNoDecisionObject},
		{"empty completion", "", ErrNoDecisionObject},
		{"missing decision", `{"reason":"ok"}`, ErrMissingField},
		{"missing reason", `{"decision":"DENY"}`, ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCompletion(tt.completion)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("malformed object", func(t *testing.T) {
		_, err := ParseCompletion(`{decision: APPROVE}`)
		require.Error(t, err)
	})

	t.Run("unknown decision value", func(t *testing.T) {
		_, err := ParseCompletion(`{"decision":"MAYBE","reason":"unsure"}`)
		require.Error(t, err)
	})

	t.Run("ERROR is not accepted from the model", func(t *testing.T) {
		_, err := ParseCompletion(`{"decision":"ERROR","reason":"oops"}`)
		require.Error(t, err)
	})
}
