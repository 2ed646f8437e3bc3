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

// DecisionStore persists agent decision records.
type DecisionStore struct {
	client       DynamoDBAPI
	table        string
	assetIDIndex string
	log          zerolog.Logger
}

// NewDecisionStore creates a decision record store over the given table and
// its assetId secondary index.
func NewDecisionStore(client DynamoDBAPI, table, assetIDIndex string) *DecisionStore {
	return &DecisionStore{
		client:       client,
		table:        table,
		assetIDIndex: assetIDIndex,
		log:          logger.WithComponent("decision-store"),
	}
}

// Create assigns the record a fresh id and writes it. The caller owns the
// record exclusively until it reaches a terminal status.
func (s *DecisionStore) Create(ctx context.Context, record *models.DecisionRecord) error {
	const op = "Create"

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if err := s.put(ctx, record); err != nil {
		return fmt.Errorf("%s: failed to create decision record: %w", op, err)
	}

	s.log.Debug().
		Str("decision_id", record.ID).
		Str("asset_id", record.AssetID).
		Str("status", string(record.Status)).
		Msg("Created decision record")

	return nil
}

// Update rewrites the full record. Valid only while the caller still owns the
// row, i.e. before a previous Update made it terminal.
func (s *DecisionStore) Update(ctx context.Context, record *models.DecisionRecord) error {
	const op = "Update"

	if err := s.put(ctx, record); err != nil {
		return fmt.Errorf("%s: failed to update decision record: %w", op, err)
	}

	s.log.Debug().
		Str("decision_id", record.ID).
		Str("decision", string(record.Decision)).
		Str("status", string(record.Status)).
		Msg("Updated decision record")

	return nil
}

// QueryByAssetID returns every decision record for an asset, in index order.
func (s *DecisionStore) QueryByAssetID(ctx context.Context, assetID string) ([]models.DecisionRecord, error) {
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
		return nil, fmt.Errorf("%s: failed to query decisions by assetId: %w", op, err)
	}

	var records []models.DecisionRecord
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &records); err != nil {
		return nil, fmt.Errorf("%s: failed to unmarshal decision records: %w", op, err)
	}
	return records, nil
}

func (s *DecisionStore) put(ctx context.Context, record *models.DecisionRecord) error {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	return err
}
