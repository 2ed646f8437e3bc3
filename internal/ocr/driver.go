package ocr

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/zl90/agentic-grants-assessment/internal/logger"
	"github.com/zl90/agentic-grants-assessment/pkg/models"
)

// JobStore persists job audit records. Satisfied by store.TextractJobStore.
type JobStore interface {
	Create(ctx context.Context, job *models.TextractJob) error
	Update(ctx context.Context, job *models.TextractJob) error
}

// Driver converts an external text-detection job into a polled-to-completion
// result with a durable audit trail.
type Driver struct {
	engine Engine
	jobs   JobStore
	config DriverConfig
	log    zerolog.Logger
	now    func() time.Time
}

// NewDriver creates a job driver with explicit dependencies.
func NewDriver(engine Engine, jobs JobStore, config DriverConfig) *Driver {
	return &Driver{
		engine: engine,
		jobs:   jobs,
		config: config,
		log:    logger.WithComponent("ocr-driver"),
		now:    time.Now,
	}
}

// RunJob starts a text-detection job for the object at (bucket, key) and
// polls it to completion.
//
// The audit record is created before the start call so a failed start still
// leaves a FAILED row behind. Record writes are best-effort throughout: a
// persistence failure is logged and never gates the job itself.
//
// A non-nil error is returned only when no external job could be started.
// Engine-reported failure and budget exhaustion both come back as a Result
// with Succeeded=false. On timeout the record is deliberately left
// IN_PROGRESS: the external job may still complete, and marking it failed
// here would falsify the audit trail. Orphaned IN_PROGRESS rows require
// out-of-band reconciliation; there is no reaper in this design.
func (d *Driver) RunJob(ctx context.Context, assetID, bucket, key string) (*Result, error) {
	const op = "RunJob"

	record := &models.TextractJob{
		AssetID:   assetID,
		Status:    models.JobStatusInProgress,
		StartedAt: d.now().UTC(),
	}
	recorded := true
	if err := d.jobs.Create(ctx, record); err != nil {
		recorded = false
		d.log.Error().
			Err(err).
			Str("asset_id", assetID).
			Msg("Failed to create job record, continuing without audit trail")
	}

	jobID, err := d.engine.Start(ctx, bucket, key)
	if err != nil {
		if recorded {
			d.failRecord(ctx, record, ErrorCodeStartFailed, err.Error())
		}
		return nil, fmt.Errorf("%s: %w: %v", op, ErrJobStartFailed, err)
	}

	record.JobID = jobID
	if recorded {
		if err := d.jobs.Update(ctx, record); err != nil {
			d.log.Error().
				Err(err).
				Str("job_id", jobID).
				Msg("Failed to attach external job id to record")
		}
	}

	d.log.Info().
		Str("asset_id", assetID).
		Str("job_id", jobID).
		Str("bucket", bucket).
		Str("key", key).
		Msg("Started text detection job")

	deadline := d.now().Add(d.config.MaxWait)
	for {
		poll, err := d.engine.Poll(ctx, jobID)
		if err != nil {
			// Transient poll failures are treated as "still running" and
			// retried at the next interval.
			d.log.Warn().
				Err(err).
				Str("job_id", jobID).
				Msg("Polling query failed, retrying at next interval")
		} else {
			switch poll.Status {
			case StatusSucceeded:
				return d.complete(ctx, record, recorded, poll), nil
			case StatusFailed:
				return d.fail(ctx, record, recorded, poll), nil
			}
		}

		if !d.now().Before(deadline) {
			d.log.Warn().
				Str("job_id", jobID).
				Dur("max_wait", d.config.MaxWait).
				Msg("Text detection job exceeded wait budget, leaving record IN_PROGRESS")
			return &Result{
				Succeeded:    false,
				JobRecordID:  record.ID,
				ErrorMessage: TimeoutMessage,
			}, nil
		}

		timer := time.NewTimer(d.config.PollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%s: canceled while polling job %s: %w", op, jobID, ctx.Err())
		case <-timer.C:
		}
	}
}

func (d *Driver) complete(ctx context.Context, record *models.TextractJob, recorded bool, poll *PollResult) *Result {
	text := joinLines(poll.Blocks)

	record.Status = models.JobStatusCompleted
	completedAt := d.now().UTC()
	record.CompletedAt = &completedAt
	if recorded {
		if err := d.jobs.Update(ctx, record); err != nil {
			d.log.Error().
				Err(err).
				Str("textract_job_id", record.ID).
				Msg("Failed to mark job record COMPLETED")
		}
	}

	d.log.Info().
		Str("job_id", record.JobID).
		Int("text_length", len(text)).
		Msg("Text detection job completed")

	return &Result{
		Succeeded:     true,
		ExtractedText: text,
		JobRecordID:   record.ID,
	}
}

func (d *Driver) fail(ctx context.Context, record *models.TextractJob, recorded bool, poll *PollResult) *Result {
	message := poll.StatusMessage
	if message == "" {
		message = "Unknown"
	}
	if recorded {
		d.failRecord(ctx, record, ErrorCodeJobFailed, message)
	}

	d.log.Error().
		Str("job_id", record.JobID).
		Str("status_message", message).
		Msg("Text detection job failed")

	return &Result{
		Succeeded:    false,
		JobRecordID:  record.ID,
		ErrorMessage: message,
	}
}

func (d *Driver) failRecord(ctx context.Context, record *models.TextractJob, code, message string) {
	record.Status = models.JobStatusFailed
	completedAt := d.now().UTC()
	record.CompletedAt = &completedAt
	record.ErrorCode = code
	record.ErrorMessage = message
	if err := d.jobs.Update(ctx, record); err != nil {
		d.log.Error().
			Err(err).
			Str("textract_job_id", record.ID).
			Msg("Failed to mark job record FAILED")
	}
}

// joinLines concatenates LINE blocks with single spaces, in engine order.
func joinLines(blocks []Block) string {
	var lines []string
	for _, b := range blocks {
		if b.Type == BlockTypeLine {
			lines = append(lines, b.Text)
		}
	}
	return strings.Join(lines, " ")
}
