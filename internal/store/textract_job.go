package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/zl90/agentic-grants-assessment/internal/logger"
	"github.com/zl90/agentic-grants-assessment/pkg/models"
)

// TextractJobStore persists text-detection job audit records.
type TextractJobStore struct {
	client       DynamoDBAPI
	table        string
	assetIDIndex string
	log          zerolog.Logger
}

// NewTextractJobStore creates a job record store over the given table and
// its assetId secondary index.
func NewTextractJobStore(client DynamoDBAPI, table, assetIDIndex string) *TextractJobStore {
	return &TextractJobStore{
		client:       client,
		table:        table,
		assetIDIndex: assetIDIndex,
		log:          logger.WithComponent("textract-job-store"),
	}
}

// Create assigns the record a fresh id and writes it. The caller owns the
// record exclusively until it reaches a terminal status.
func (s *TextractJobStore) Create(ctx context.Context, job *models.TextractJob) error {
	const op = "Create"

	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if err := s.put(ctx, job); err != nil {
		return fmt.Errorf("%s: failed to create textract job record: %w", op, err)
	}

	s.log.Debug().
		Str("textract_job_id", job.ID).
		Str("asset_id", job.AssetID).
		Str("status", string(job.Status)).
		Msg("Created textract job record")

	return nil
}

// Update rewrites the full record. Valid only while the caller still owns the
// row, i.e. before a previous Update made it terminal.
func (s *TextractJobStore) Update(ctx context.Context, job *models.TextractJob) error {
	const op = "Update"

	if err := s.put(ctx, job); err != nil {
		return fmt.Errorf("%s: failed to update textract job record: %w", op, err)
	}

	s.log.Debug().
		Str("textract_job_id", job.ID).
		Str("status", string(job.Status)).
		Msg("Updated textract job record")

	return nil
}

// QueryByAssetID returns every job record for an asset, in index order.
func (s *TextractJobStore) QueryByAssetID(ctx context.Context, assetID string) ([]models.TextractJob, error) {
	const op = "QueryByAssetID"

	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		IndexName:              aws.String(s.assetIDIndex),
		KeyConditionExpression: aws.String("#k = :v"),
		ExpressionAttributeNames: map[string]string{
			"#k": "assetId",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: assetID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query textract jobs by assetId: %w", op, err)
	}

	var jobs []models.TextractJob
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &jobs); err != nil {
		return nil, fmt.Errorf("%s: failed to unmarshal textract jobs: %w", op, err)
	}
	return jobs, nil
}

func (s *TextractJobStore) put(ctx context.Context, job *models.TextractJob) error {
	item, err := attributevalue.MarshalMap(job)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	return err
}
