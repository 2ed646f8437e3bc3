package models

import "fmt"

// Decision is the adjudication outcome for one assessed document.
type Decision string

const (
	DecisionApprove  Decision = "APPROVE"
	DecisionDeny     Decision = "DENY"
	DecisionEscalate Decision = "ESCALATE"
	// DecisionError records that no real decision could be produced, either
	// because the model invocation failed or its response was unparseable.
	DecisionError Decision = "ERROR"
)

// DecisionStatus is the lifecycle state of a decision record. PENDING is the
// only non-terminal state; a record transitions at most once.
type DecisionStatus string

const (
	DecisionStatusPending   DecisionStatus = "PENDING"
	DecisionStatusCompleted DecisionStatus = "COMPLETED"
	DecisionStatusFailed    DecisionStatus = "FAILED"
)

// DecisionRecord is the durable record of one agent adjudication. The
// decision recorder owns a row exclusively from creation until it reaches a
// terminal status.
type DecisionRecord struct {
	ID         string         `json:"decisionId" dynamodbav:"decisionId"`
	AssetID    string         `json:"assetId" dynamodbav:"assetId"`
	JobID      string         `json:"jobId" dynamodbav:"jobId"`
	Decision   Decision       `json:"decision" dynamodbav:"decision"`
	Reason     string         `json:"reason" dynamodbav:"reason"`
	Strengths  string         `json:"strengths" dynamodbav:"strengths"`
	Weaknesses string         `json:"weaknesses" dynamodbav:"weaknesses"`
	Status     DecisionStatus `json:"status" dynamodbav:"status"`
}

// ParseDecision converts a model-supplied string into a Decision, rejecting
// anything outside the closed set. ERROR is reserved for the pipeline itself
// and is not accepted from model output.
func ParseDecision(s string) (Decision, error) {
	switch Decision(s) {
	case DecisionApprove, DecisionDeny, DecisionEscalate:
		return Decision(s), nil
	}
	return "", fmt.Errorf("unknown decision: %q", s)
}

// ParseDecisionStatus converts a stored string into a DecisionStatus,
// rejecting anything outside the closed set.
func ParseDecisionStatus(s string) (DecisionStatus, error) {
	switch DecisionStatus(s) {
	case DecisionStatusPending, DecisionStatusCompleted, DecisionStatusFailed:
		return DecisionStatus(s), nil
	}
	return "", fmt.Errorf("unknown decision status: %q", s)
}
