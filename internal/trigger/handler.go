// Package trigger handles storage upload notifications and dispatches each
// uploaded document through the assessment pipeline: classify, resolve the
// asset, drive text detection, adjudicate.
package trigger

import (
	"context"
	"errors"
	"net/url"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog"

	"github.com/zl90/agentic-grants-assessment/internal/asset"
	"github.com/zl90/agentic-grants-assessment/internal/classify"
	"github.com/zl90/agentic-grants-assessment/internal/logger"
	"github.com/zl90/agentic-grants-assessment/internal/ocr"
	"github.com/zl90/agentic-grants-assessment/pkg/models"
)

// Resolver maps a decoded storage key to its registered asset. Satisfied by
// asset.Resolver.
type Resolver interface {
	Resolve(ctx context.Context, s3Key string) (*models.Asset, error)
}

// OCRRunner drives one text-detection job to completion. Satisfied by
// ocr.Driver.
type OCRRunner interface {
	RunJob(ctx context.Context, assetID, bucket, key string) (*ocr.Result, error)
}

// DecisionRecorder adjudicates extracted text and persists the outcome.
// Satisfied by decision.Recorder.
type DecisionRecorder interface {
	RecordDecision(ctx context.Context, assetID, jobRef, extractedText string) *models.DecisionRecord
}

// Handler processes upload event batches.
type Handler struct {
	resolver Resolver
	runner   OCRRunner
	recorder DecisionRecorder
	log      zerolog.Logger
}

// NewHandler creates a dispatcher with explicit dependencies.
func NewHandler(resolver Resolver, runner OCRRunner, recorder DecisionRecorder) *Handler {
	return &Handler{
		resolver: resolver,
		runner:   runner,
		recorder: recorder,
		log:      logger.WithComponent("upload-trigger"),
	}
}

// Handle processes every notification record in the batch sequentially. A
// failure at any stage of one record is logged and recorded where a record
// exists, and never prevents processing of the remaining records; the batch
// itself only fails when the host cancels the invocation. Delivery is
// at-least-once and the pipeline is not idempotent: a redelivered event
// produces a fresh job/decision record pair.
func (h *Handler) Handle(ctx context.Context, event events.S3Event) error {
	h.log.Info().
		Int("records", len(event.Records)).
		Msg("Received upload event batch")

	for _, record := range event.Records {
		if err := ctx.Err(); err != nil {
			return err
		}
		h.processRecord(ctx, record)
	}

	h.log.Info().
		Int("records", len(event.Records)).
		Msg("Finished upload event batch")
	return nil
}

func (h *Handler) processRecord(ctx context.Context, record events.S3EventRecord) {
	bucket := record.S3.Bucket.Name

	// Object keys arrive percent-encoded with "+" for spaces.
	key, err := url.QueryUnescape(record.S3.Object.Key)
	if err != nil {
		h.log.Error().
			Err(err).
			Str("raw_key", record.S3.Object.Key).
			Msg("Failed to decode object key, skipping record")
		return
	}

	log := h.log.With().
		Str("bucket", bucket).
		Str("key", key).
		Logger()

	log.Info().
		Str("event_name", record.EventName).
		Time("event_time", record.EventTime).
		Int64("size", record.S3.Object.Size).
		Str("source_ip", record.RequestParameters.SourceIPAddress).
		Msg("Processing upload notification")

	fileType := classify.Classify(key)
	if fileType != classify.FileTypeDocument {
		log.Info().
			Str("file_type", string(fileType)).
			Msg("Not a document, skipping")
		return
	}

	resolved, err := h.resolver.Resolve(ctx, key)
	if err != nil {
		if errors.Is(err, asset.ErrNoMatchingAsset) {
			log.Info().Msg("No asset registered for uploaded object, skipping")
		} else {
			log.Error().Err(err).Msg("Asset resolution failed, skipping record")
		}
		return
	}

	result, err := h.runner.RunJob(ctx, resolved.ID, bucket, key)
	if err != nil {
		log.Error().
			Err(err).
			Str("asset_id", resolved.ID).
			Msg("Could not start text detection, skipping record")
		return
	}
	if !result.Succeeded {
		log.Error().
			Str("asset_id", resolved.ID).
			Str("error_message", result.ErrorMessage).
			Msg("Text detection did not complete, no decision attempted")
		return
	}

	decision := h.recorder.RecordDecision(ctx, resolved.ID, result.JobRecordID, result.ExtractedText)
	log.Info().
		Str("asset_id", resolved.ID).
		Str("decision", string(decision.Decision)).
		Str("decision_status", string(decision.Status)).
		Msg("Record processed")
}
