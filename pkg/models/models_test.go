package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecisionClosedSet(t *testing.T) {
	for _, valid := range []string{"APPROVE", "DENY", "ESCALATE"} {
		d, err := ParseDecision(valid)
		require.NoError(t, err)
		assert.Equal(t, Decision(valid), d)
	}

	// Values outside the closed set are rejected rather than passed through;
	// ERROR is reserved for the pipeline itself.
	for _, invalid := range []string{"", "ERROR", "approve", "MAYBE"} {
		_, err := ParseDecision(invalid)
		assert.Error(t, err, invalid)
	}
}

func TestParseJobStatusClosedSet(t *testing.T) {
	for _, valid := range []string{"IN_PROGRESS", "COMPLETED", "FAILED"} {
		s, err := ParseJobStatus(valid)
		require.NoError(t, err)
		assert.Equal(t, JobStatus(valid), s)
	}

	_, err := ParseJobStatus("PENDING")
	assert.Error(t, err)
}

func TestTextractJobTerminal(t *testing.T) {
	assert.False(t, (&TextractJob{Status: JobStatusInProgress}).Terminal())
	assert.True(t, (&TextractJob{Status: JobStatusCompleted}).Terminal())
	assert.True(t, (&TextractJob{Status: JobStatusFailed}).Terminal())
}
