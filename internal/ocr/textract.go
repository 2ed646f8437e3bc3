package ocr

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
	"github.com/rs/zerolog"

	"github.com/zl90/agentic-grants-assessment/internal/logger"
)

// TextractAPI is the subset of the Textract client the engine uses.
type TextractAPI interface {
	StartDocumentTextDetection(ctx context.Context, params *textract.StartDocumentTextDetectionInput, optFns ...func(*textract.Options)) (*textract.StartDocumentTextDetectionOutput, error)
	GetDocumentTextDetection(ctx context.Context, params *textract.GetDocumentTextDetectionInput, optFns ...func(*textract.Options)) (*textract.GetDocumentTextDetectionOutput, error)
}

// TextractEngine implements Engine over AWS Textract's asynchronous document
// text detection API.
type TextractEngine struct {
	client TextractAPI
	log    zerolog.Logger
}

// NewTextractEngine creates an engine over an existing Textract client.
func NewTextractEngine(client TextractAPI) *TextractEngine {
	return &TextractEngine{
		client: client,
		log:    logger.WithComponent("textract-engine"),
	}
}

// NewTextractClient builds a Textract client from the default AWS credential
// chain for the given region.
func NewTextractClient(ctx context.Context, region string) (*textract.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return textract.NewFromConfig(awsCfg), nil
}

// Start submits an asynchronous text detection job for the S3 object at
// (bucket, key).
func (e *TextractEngine) Start(ctx context.Context, bucket, key string) (string, error) {
	const op = "Start"

	out, err := e.client.StartDocumentTextDetection(ctx, &textract.StartDocumentTextDetectionInput{
		DocumentLocation: &types.DocumentLocation{
			S3Object: &types.S3Object{
				Bucket: aws.String(bucket),
				Name:   aws.String(key),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%s: StartDocumentTextDetection failed for s3://%s/%s: %w", op, bucket, key, err)
	}

	return aws.ToString(out.JobId), nil
}

// Poll reports the current status of a job. On success every result page is
// fetched so the caller sees the complete block list.
func (e *TextractEngine) Poll(ctx context.Context, jobID string) (*PollResult, error) {
	const op = "Poll"

	out, err := e.client.GetDocumentTextDetection(ctx, &textract.GetDocumentTextDetectionInput{
		JobId: aws.String(jobID),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: GetDocumentTextDetection failed for job %s: %w", op, jobID, err)
	}

	switch out.JobStatus {
	case types.JobStatusSucceeded, types.JobStatusPartialSuccess:
		blocks, err := e.collectBlocks(ctx, jobID, out)
		if err != nil {
			return nil, err
		}
		return &PollResult{
			Status:        StatusSucceeded,
			StatusMessage: aws.ToString(out.StatusMessage),
			Blocks:        blocks,
		}, nil
	case types.JobStatusFailed:
		return &PollResult{
			Status:        StatusFailed,
			StatusMessage: aws.ToString(out.StatusMessage),
		}, nil
	default:
		return &PollResult{Status: StatusRunning}, nil
	}
}

// collectBlocks walks the paginated result set of a finished job.
func (e *TextractEngine) collectBlocks(ctx context.Context, jobID string, first *textract.GetDocumentTextDetectionOutput) ([]Block, error) {
	const op = "collectBlocks"

	var blocks []Block
	appendPage := func(page []types.Block) {
		for _, b := range page {
			blocks = append(blocks, Block{
				Type: mapBlockType(b.BlockType),
				Text: aws.ToString(b.Text),
			})
		}
	}

	appendPage(first.Blocks)
	nextToken := first.NextToken
	for nextToken != nil {
		out, err := e.client.GetDocumentTextDetection(ctx, &textract.GetDocumentTextDetectionInput{
			JobId:     aws.String(jobID),
			NextToken: nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: failed to fetch result page for job %s: %w", op, jobID, err)
		}
		appendPage(out.Blocks)
		nextToken = out.NextToken
	}

	e.log.Debug().
		Str("job_id", jobID).
		Int("blocks", len(blocks)).
		Msg("Collected text detection blocks")

	return blocks, nil
}

func mapBlockType(t types.BlockType) BlockType {
	if t == types.BlockTypeLine {
		return BlockTypeLine
	}
	return BlockTypeOther
}
