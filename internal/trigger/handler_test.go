package trigger_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zl90/agentic-grants-assessment/internal/asset"
	"github.com/zl90/agentic-grants-assessment/internal/decision"
	"github.com/zl90/agentic-grants-assessment/internal/ocr"
	"github.com/zl90/agentic-grants-assessment/internal/trigger"
	"github.com/zl90/agentic-grants-assessment/pkg/models"
)

// The handler tests run the real resolver, OCR driver and decision recorder
// over fakes for the external collaborators: the asset directory, the
// text-detection engine, the LLM endpoint and the two record stores.

type fakeDirectory struct {
	assetsByKey map[string][]models.Asset
	errByKey    map[string]error
	keys        []string
}

func (f *fakeDirectory) QueryByS3Key(_ context.Context, s3Key string) ([]models.Asset, error) {
	f.keys = append(f.keys, s3Key)
	if err := f.errByKey[s3Key]; err != nil {
		return nil, err
	}
	return f.assetsByKey[s3Key], nil
}

type fakeEngine struct {
	jobID    string
	startErr error
	result   *ocr.PollResult
	starts   int
}

func (f *fakeEngine) Start(_ context.Context, _, _ string) (string, error) {
	if f.startErr != nil {
		return "", f.startErr
	}
	f.starts++
	return f.jobID, nil
}

func (f *fakeEngine) Poll(_ context.Context, _ string) (*ocr.PollResult, error) {
	return f.result, nil
}

type fakeJobStore struct {
	seq     int
	created []models.TextractJob
	updated []models.TextractJob
}

func (f *fakeJobStore) Create(_ context.Context, job *models.TextractJob) error {
	f.seq++
	job.ID = jobRecordID(f.seq)
	f.created = append(f.created, *job)
	return nil
}

func (f *fakeJobStore) Update(_ context.Context, job *models.TextractJob) error {
	f.updated = append(f.updated, *job)
	return nil
}

func jobRecordID(seq int) string {
	return "job-rec-" + strconv.Itoa(seq)
}

type fakeInvoker struct {
	completion string
	err        error
	prompts    []string
}

func (f *fakeInvoker) Invoke(_ context.Context, prompt string, _ int) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.completion, nil
}

type fakeDecisionStore struct {
	seq     int
	created []models.DecisionRecord
	updated []models.DecisionRecord
}

func (f *fakeDecisionStore) Create(_ context.Context, record *models.DecisionRecord) error {
	f.seq++
	record.ID = "dec-" + strconv.Itoa(f.seq)
	f.created = append(f.created, *record)
	return nil
}

func (f *fakeDecisionStore) Update(_ context.Context, record *models.DecisionRecord) error {
	f.updated = append(f.updated, *record)
	return nil
}

type pipeline struct {
	handler   *trigger.Handler
	directory *fakeDirectory
	engine    *fakeEngine
	jobs      *fakeJobStore
	invoker   *fakeInvoker
	decisions *fakeDecisionStore
}

func newPipeline(directory *fakeDirectory, engine *fakeEngine, invoker *fakeInvoker) *pipeline {
	jobs := &fakeJobStore{}
	decisions := &fakeDecisionStore{}
	driver := ocr.NewDriver(engine, jobs, ocr.DriverConfig{
		PollInterval: time.Millisecond,
		MaxWait:      time.Second,
	})
	return &pipeline{
		handler:   trigger.NewHandler(asset.NewResolver(directory), driver, decision.NewRecorder(invoker, decisions, 2000)),
		directory: directory,
		engine:    engine,
		jobs:      jobs,
		invoker:   invoker,
		decisions: decisions,
	}
}

func s3Event(keys ...string) events.S3Event {
	var records []events.S3EventRecord
	for _, key := range keys {
		records = append(records, events.S3EventRecord{
			EventName: "ObjectCreated:Put",
			EventTime: time.Now(),
			S3: events.S3Entity{
				Bucket: events.S3Bucket{Name: "asset-bucket"},
				Object: events.S3Object{Key: key, Size: 1024},
			},
		})
	}
	return events.S3Event{Records: records}
}

func succeededWith(lines ...string) *ocr.PollResult {
	var blocks []ocr.Block
	for _, line := range lines {
		blocks = append(blocks, ocr.Block{Type: ocr.BlockTypeLine, Text: line})
	}
	return &ocr.PollResult{Status: ocr.StatusSucceeded, Blocks: blocks}
}

func TestHandleEndToEnd(t *testing.T) {
	const key = "app/prod/asset/grant-form.pdf"

	directory := &fakeDirectory{assetsByKey: map[string][]models.Asset{
		key: {{ID: "A1", Type: models.AssetTypeDocument, S3Key: key}},
	}}
	engine := &fakeEngine{jobID: "tx-1", result: succeededWith("Request", "for", "$5000")}
	invoker := &fakeInvoker{completion: `{"decision":"DENY","reason":"insufficient budget detail","strengths":"none","weaknesses":"vague"}`}
	p := newPipeline(directory, engine, invoker)

	err := p.handler.Handle(context.Background(), s3Event(key))
	require.NoError(t, err)

	// Job record driven to COMPLETED.
	require.Len(t, p.jobs.created, 1)
	finalJob := p.jobs.updated[len(p.jobs.updated)-1]
	assert.Equal(t, models.JobStatusCompleted, finalJob.Status)
	assert.Equal(t, "A1", finalJob.AssetID)
	assert.Equal(t, "tx-1", finalJob.JobID)

	// The agent saw the extracted text.
	require.Len(t, p.invoker.prompts, 1)
	assert.Contains(t, p.invoker.prompts[0], "Request for $5000")

	// Final decision record.
	require.NotEmpty(t, p.decisions.updated)
	final := p.decisions.updated[len(p.decisions.updated)-1]
	assert.Equal(t, "A1", final.AssetID)
	assert.Equal(t, models.DecisionDeny, final.Decision)
	assert.Equal(t, models.DecisionStatusCompleted, final.Status)
	assert.Equal(t, finalJob.ID, final.JobID)
}

func TestHandleSkipsNonDocuments(t *testing.T) {
	directory := &fakeDirectory{}
	p := newPipeline(directory, &fakeEngine{}, &fakeInvoker{})

	err := p.handler.Handle(context.Background(), s3Event(
		"app/prod/asset/photo.jpg",
		"app/prod/asset/clip.mp4",
		"app/prod/asset/archive.zip",
	))
	require.NoError(t, err)

	assert.Empty(t, directory.keys, "non-documents must not reach asset resolution")
	assert.Empty(t, p.jobs.created)
	assert.Empty(t, p.decisions.created)
}

func TestHandleNoMatchingAssetCreatesNoRecords(t *testing.T) {
	directory := &fakeDirectory{}
	p := newPipeline(directory, &fakeEngine{}, &fakeInvoker{})

	err := p.handler.Handle(context.Background(), s3Event("app/prod/asset/orphan.pdf"))
	require.NoError(t, err)

	assert.Equal(t, []string{"app/prod/asset/orphan.pdf"}, directory.keys)
	assert.Empty(t, p.jobs.created)
	assert.Empty(t, p.decisions.created)
}

func TestHandleMultipleMatchesUsesFirst(t *testing.T) {
	const key = "app/prod/asset/duplicate.pdf"

	directory := &fakeDirectory{assetsByKey: map[string][]models.Asset{
		key: {{ID: "A1"}, {ID: "A2"}},
	}}
	engine := &fakeEngine{jobID: "tx-1", result: succeededWith("text")}
	invoker := &fakeInvoker{completion: `{"decision":"APPROVE","reason":"ok"}`}
	p := newPipeline(directory, engine, invoker)

	err := p.handler.Handle(context.Background(), s3Event(key))
	require.NoError(t, err)

	require.Len(t, p.jobs.created, 1)
	assert.Equal(t, "A1", p.jobs.created[0].AssetID)
}

func TestHandleDecodesObjectKey(t *testing.T) {
	const decoded = "app/prod/asset/grant form 1.pdf"

	directory := &fakeDirectory{}
	p := newPipeline(directory, &fakeEngine{}, &fakeInvoker{})

	err := p.handler.Handle(context.Background(), s3Event("app/prod/asset/grant+form%201.pdf"))
	require.NoError(t, err)

	assert.Equal(t, []string{decoded}, directory.keys)
}

func TestHandleOCRFailureSkipsDecision(t *testing.T) {
	const key = "app/prod/asset/broken.pdf"

	directory := &fakeDirectory{assetsByKey: map[string][]models.Asset{
		key: {{ID: "A1"}},
	}}
	engine := &fakeEngine{jobID: "tx-1", result: &ocr.PollResult{
		Status:        ocr.StatusFailed,
		StatusMessage: "unreadable document",
	}}
	invoker := &fakeInvoker{}
	p := newPipeline(directory, engine, invoker)

	err := p.handler.Handle(context.Background(), s3Event(key))
	require.NoError(t, err)

	finalJob := p.jobs.updated[len(p.jobs.updated)-1]
	assert.Equal(t, models.JobStatusFailed, finalJob.Status)
	assert.Empty(t, invoker.prompts, "no decision attempted after OCR failure")
	assert.Empty(t, p.decisions.created)
}

func TestHandleStartFailureDoesNotAbortBatch(t *testing.T) {
	const badKey = "app/prod/asset/bad.pdf"
	const goodKey = "app/prod/asset/good.pdf"

	directory := &fakeDirectory{
		assetsByKey: map[string][]models.Asset{
			goodKey: {{ID: "A2"}},
		},
		errByKey: map[string]error{
			badKey: errors.New("throttled"),
		},
	}
	engine := &fakeEngine{jobID: "tx-1", result: succeededWith("text")}
	invoker := &fakeInvoker{completion: `{"decision":"APPROVE","reason":"ok"}`}
	p := newPipeline(directory, engine, invoker)

	err := p.handler.Handle(context.Background(), s3Event(badKey, goodKey))
	require.NoError(t, err)

	// The failing record was isolated; the second record completed.
	require.Len(t, p.jobs.created, 1)
	assert.Equal(t, "A2", p.jobs.created[0].AssetID)
	require.NotEmpty(t, p.decisions.updated)
	assert.Equal(t, models.DecisionStatusCompleted, p.decisions.updated[len(p.decisions.updated)-1].Status)
}

func TestHandleRedeliveryIsNotIdempotent(t *testing.T) {
	const key = "app/prod/asset/grant-form.pdf"

	directory := &fakeDirectory{assetsByKey: map[string][]models.Asset{
		key: {{ID: "A1"}},
	}}
	engine := &fakeEngine{jobID: "tx-1", result: succeededWith("text")}
	invoker := &fakeInvoker{completion: `{"decision":"APPROVE","reason":"ok"}`}
	p := newPipeline(directory, engine, invoker)

	event := s3Event(key)
	require.NoError(t, p.handler.Handle(context.Background(), event))
	require.NoError(t, p.handler.Handle(context.Background(), event))

	// Redelivery produces a second, independent job/decision record pair
	// for the same asset.
	require.Len(t, p.jobs.created, 2)
	require.Len(t, p.decisions.created, 2)
	assert.NotEqual(t, p.jobs.created[0].ID, p.jobs.created[1].ID)
	assert.NotEqual(t, p.decisions.created[0].ID, p.decisions.created[1].ID)
	assert.Equal(t, p.jobs.created[0].AssetID, p.jobs.created[1].AssetID)
}

func TestHandleCanceledContextStopsBatch(t *testing.T) {
	directory := &fakeDirectory{}
	p := newPipeline(directory, &fakeEngine{}, &fakeInvoker{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.handler.Handle(ctx, s3Event("app/prod/asset/grant-form.pdf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, directory.keys)
}
