package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmission_HappyPath(t *testing.T) {
	s := NewSubmission()
	assert.Equal(t, SubmissionIdle, s.State)

	require.NoError(t, s.Transition(SubmissionGenerating))
	require.NoError(t, s.Transition(SubmissionStored))
	assert.True(t, s.State.IsTerminal())
}

func TestSubmission_InvalidTransitions(t *testing.T) {
	tests := []struct {
		from SubmissionState
		to   SubmissionState
	}{
		{SubmissionIdle, SubmissionStored},
		{SubmissionGenerating, SubmissionIdle},
		{SubmissionStored, SubmissionGenerating},
		{SubmissionFailed, SubmissionStored},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			s := &Submission{State: tt.from}
			err := s.Transition(tt.to)
			require.Error(t, err)
			assert.Equal(t, tt.from, s.State)
		})
	}
}

func TestSubmission_ValidationFailureGoesStraightToFailed(t *testing.T) {
	s := NewSubmission()
	require.NoError(t, s.Transition(SubmissionFailed))
	assert.True(t, s.State.IsTerminal())
}

func TestSubmission_MarkDegraded(t *testing.T) {
	s := NewSubmission()
	s.MarkDegraded(AIKindSummary)
	s.MarkDegraded(AIKindActions)
	assert.Equal(t, []string{"summary", "actions"}, s.Degraded)
}
