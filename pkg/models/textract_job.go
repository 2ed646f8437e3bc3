package models

import (
	"fmt"
	"time"
)

// JobStatus is the lifecycle state of a text-detection job record.
// IN_PROGRESS is the only non-terminal state; a record transitions at most
// once, to COMPLETED or FAILED, and is never mutated afterwards.
type JobStatus string

const (
	JobStatusInProgress JobStatus = "IN_PROGRESS"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusFailed     JobStatus = "FAILED"
)

// TextractJob is the durable audit record for one asynchronous text-detection
// job. The OCR driver owns a row exclusively from creation until it reaches a
// terminal status.
type TextractJob struct {
	ID           string     `json:"textractJobId" dynamodbav:"textractJobId"`
	AssetID      string     `json:"assetId" dynamodbav:"assetId"`
	JobID        string     `json:"jobId" dynamodbav:"jobId"`
	Status       JobStatus  `json:"status" dynamodbav:"status"`
	StartedAt    time.Time  `json:"startedAt" dynamodbav:"startedAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty" dynamodbav:"completedAt,omitempty"`
	ErrorCode    string     `json:"errorCode,omitempty" dynamodbav:"errorCode,omitempty"`
	ErrorMessage string     `json:"errorMessage,omitempty" dynamodbav:"errorMessage,omitempty"`
}

// Terminal reports whether the record has reached a final status.
func (j *TextractJob) Terminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// ParseJobStatus converts a stored string into a JobStatus, rejecting
// anything outside the closed set.
func ParseJobStatus(s string) (JobStatus, error) {
	switch JobStatus(s) {
	case JobStatusInProgress, JobStatusCompleted, JobStatusFailed:
		return JobStatus(s), nil
	}
	return "", fmt.Errorf("unknown job status: %q", s)
}
