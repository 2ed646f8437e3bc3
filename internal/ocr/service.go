// Package ocr drives asynchronous document text-detection jobs to completion.
//
// The external engine accepts a (bucket, key) pair, returns a job identifier
// immediately, and reports status on subsequent polls. The driver persists an
// audit record for every job and polls at a fixed interval until the job
// reaches a terminal status or a wall-clock budget runs out.
package ocr

import (
	"context"
	"time"
)

// EngineStatus is the status an engine reports for a running job.
type EngineStatus string

const (
	StatusRunning   EngineStatus = "RUNNING"
	StatusSucceeded EngineStatus = "SUCCEEDED"
	StatusFailed    EngineStatus = "FAILED"
)

// BlockType classifies one extracted text block.
type BlockType string

const (
	// BlockTypeLine is a line of detected text. Only LINE blocks contribute
	// to the extracted document text.
	BlockTypeLine BlockType = "LINE"
	// BlockTypeOther covers every non-line block (words, pages, tables).
	BlockTypeOther BlockType = "OTHER"
)

// Block is one text block extracted by the engine.
type Block struct {
	Type BlockType
	Text string
}

// PollResult is one status observation of an external job. Blocks is
// populated only when Status is SUCCEEDED.
type PollResult struct {
	Status        EngineStatus
	StatusMessage string
	Blocks        []Block
}

// Engine is the external asynchronous text-detection service.
type Engine interface {
	// Start submits a job for the object at (bucket, key) and returns the
	// engine's job identifier.
	Start(ctx context.Context, bucket, key string) (string, error)

	// Poll reports the current status of a previously started job.
	Poll(ctx context.Context, jobID string) (*PollResult, error)
}

// DriverConfig holds the polling parameters for the job driver.
type DriverConfig struct {
	// PollInterval is the fixed delay between status polls.
	PollInterval time.Duration

	// MaxWait is the wall-clock budget for one job. A job that is still
	// running when the budget elapses is abandoned by the driver but left
	// IN_PROGRESS in the audit table.
	MaxWait time.Duration
}

// DefaultDriverConfig returns the production polling parameters.
func DefaultDriverConfig() DriverConfig {
	return DriverConfig{
		PollInterval: 5 * time.Second,
		MaxWait:      10 * time.Minute,
	}
}

// Result is the outcome of driving one job. Succeeded is false for both
// engine-reported failures and driver timeouts; ErrorMessage distinguishes
// them.
type Result struct {
	Succeeded     bool
	ExtractedText string
	// JobRecordID is the id of the audit record, empty if record creation
	// failed and the job ran without an audit trail.
	JobRecordID  string
	ErrorMessage string
}
