package types

// SubmitState represents the phase of the submit flow of an editor
type SubmitState string

const (
	SubmitStateIdle       SubmitState = "IDLE"
	SubmitStateValidating SubmitState = "VALIDATING"
	SubmitStateSubmitting SubmitState = "SUBMITTING"
	SubmitStateSucceeded  SubmitState = "SUCCEEDED"
	SubmitStateFailed     SubmitState = "FAILED"
)

// String returns the string representation of the submit state
func (s SubmitState) String() string {
	return string(s)
}
