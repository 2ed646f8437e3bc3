package ocr

import "errors"

// Error codes persisted on failed job records.
const (
	// ErrorCodeStartFailed marks a record whose external job could never be
	// created.
	ErrorCodeStartFailed = "TEXTRACT_START_FAILED"

	// ErrorCodeJobFailed marks a record whose external job reported FAILED.
	ErrorCodeJobFailed = "TEXTRACT_JOB_FAILED"
)

// TimeoutMessage is the Result.ErrorMessage used when the polling budget
// elapses without a terminal status.
const TimeoutMessage = "timeout"

var (
	// ErrJobStartFailed is returned when the engine rejects the start
	// request. No external job exists in that case and the document's
	// pipeline cannot continue.
	ErrJobStartFailed = errors.New("failed to start text detection job")
)
