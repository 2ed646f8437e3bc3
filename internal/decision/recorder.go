package decision

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/zl90/agentic-grants-assessment/internal/logger"
	"github.com/zl90/agentic-grants-assessment/pkg/models"
)

// Store persists decision records. Satisfied by store.DecisionStore.
type Store interface {
	Create(ctx context.Context, record *models.DecisionRecord) error
	Update(ctx context.Context, record *models.DecisionRecord) error
}

// Recorder drives one adjudication: it creates a pending decision record,
// invokes the agent, parses the verdict and writes exactly one terminal
// update.
type Recorder struct {
	invoker   Invoker
	store     Store
	maxTokens int
	log       zerolog.Logger
}

// NewRecorder creates a recorder with explicit dependencies.
func NewRecorder(invoker Invoker, store Store, maxTokens int) *Recorder {
	return &Recorder{
		invoker:   invoker,
		store:     store,
		maxTokens: maxTokens,
		log:       logger.WithComponent("decision-recorder"),
	}
}

// RecordDecision adjudicates the extracted text of one document and persists
// the outcome. jobRef is the id of the OCR audit record; when the OCR stage
// ran without one, a fallback reference is synthesized so the decision row
// still points at something unique.
//
// Every failure mode terminates the record: an invocation error or an
// unparseable completion yields a FAILED record carrying the ERROR decision.
// Persistence failures are logged and never raised; the pipeline always
// finishes the record it started. The returned record reflects the final
// in-memory state regardless of whether the writes landed.
func (r *Recorder) RecordDecision(ctx context.Context, assetID, jobRef, extractedText string) *models.DecisionRecord {
	if jobRef == "" {
		jobRef = fmt.Sprintf("unrecorded-%s", uuid.NewString())
	}

	record := &models.DecisionRecord{
		AssetID:    assetID,
		JobID:      jobRef,
		Reason:     PendingPlaceholder,
		Strengths:  PendingPlaceholder,
		Weaknesses: PendingPlaceholder,
		Status:     models.DecisionStatusPending,
	}
	if err := r.store.Create(ctx, record); err != nil {
		r.log.Error().
			Err(err).
			Str("asset_id", assetID).
			Msg("Failed to create pending decision record")
	}

	completion, err := r.invoker.Invoke(ctx, BuildPrompt(extractedText), r.maxTokens)
	if err != nil {
		r.log.Error().
			Err(err).
			Str("asset_id", assetID).
			Msg("Agent invocation failed")
		record.Decision = models.DecisionError
		record.Reason = fmt.Sprintf("invocation failed: %v", err)
		record.Strengths = DefaultAssessment
		record.Weaknesses = DefaultAssessment
		record.Status = models.DecisionStatusFailed
		r.update(ctx, record)
		return record
	}

	parsed, err := ParseCompletion(completion)
	if err != nil {
		r.log.Error().
			Err(err).
			Str("asset_id", assetID).
			Int("completion_length", len(completion)).
			Msg("Failed to parse agent completion")
		record.Decision = models.DecisionError
		record.Reason = ParseFailureMarker + truncate(completion, MaxRawResponseLen)
		record.Strengths = ParseFailureSentinel
		record.Weaknesses = ParseFailureSentinel
		record.Status = models.DecisionStatusFailed
		r.update(ctx, record)
		return record
	}

	record.Decision = parsed.Decision
	record.Reason = parsed.Reason
	record.Strengths = parsed.Strengths
	record.Weaknesses = parsed.Weaknesses
	record.Status = models.DecisionStatusCompleted
	r.update(ctx, record)

	r.log.Info().
		Str("asset_id", assetID).
		Str("decision", string(record.Decision)).
		Msg("Recorded agent decision")

	return record
}

func (r *Recorder) update(ctx context.Context, record *models.DecisionRecord) {
	if err := r.store.Update(ctx, record); err != nil {
		r.log.Error().
			Err(err).
			Str("decision_id", record.ID).
			Str("status", string(record.Status)).
			Msg("Failed to persist decision record update")
	}
}
