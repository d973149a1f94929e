package domain

import "fmt"

// SubmissionState tracks a submission through AI generation and storage.
type SubmissionState string

// Submission states. Stored and Failed are terminal.
const (
	SubmissionIdle       SubmissionState = "idle"
	SubmissionGenerating SubmissionState = "generating"
	SubmissionStored     SubmissionState = "stored"
	SubmissionFailed     SubmissionState = "failed"
)

var submissionTransitions = map[SubmissionState][]SubmissionState{
	SubmissionIdle:       {SubmissionGenerating, SubmissionFailed},
	SubmissionGenerating: {SubmissionStored, SubmissionFailed},
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s SubmissionState) CanTransitionTo(next SubmissionState) bool {
	for _, allowed := range submissionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s SubmissionState) IsTerminal() bool {
	return s == SubmissionStored || s == SubmissionFailed
}

// AI output kinds, as reported in a degraded submission.
const (
	AIKindReply   = "reply"
	AIKindSummary = "summary"
	AIKindActions = "actions"
)

// Submission is the state of one in-flight submit call.
type Submission struct {
	State    SubmissionState
	Degraded []string
}

// NewSubmission starts a submission in the Idle state.
func NewSubmission() *Submission {
	return &Submission{State: SubmissionIdle}
}

// Transition moves to next or returns an error if that step is not allowed.
func (s *Submission) Transition(next SubmissionState) error {
	if !s.State.CanTransitionTo(next) {
		return fmt.Errorf("invalid submission transition from %s to %s", s.State, next)
	}
	s.State = next
	return nil
}

// MarkDegraded records that the AI output of kind fell back.
func (s *Submission) MarkDegraded(kind string) {
	s.Degraded = append(s.Degraded, kind)
}
