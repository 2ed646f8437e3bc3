package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"

	"github.com/zl90/agentic-grants-assessment/internal/logger"
	"github.com/zl90/agentic-grants-assessment/pkg/models"
)

// AssetStore reads the asset directory table. Assets are created by the
// upload-registration path; the pipeline only queries them.
type AssetStore struct {
	client   DynamoDBAPI
	table    string
	keyIndex string
	log      zerolog.Logger
}

// NewAssetStore creates an asset directory reader over the given table and
// its storage-key secondary index.
func NewAssetStore(client DynamoDBAPI, table, keyIndex string) *AssetStore {
	return &AssetStore{
		client:   client,
		table:    table,
		keyIndex: keyIndex,
		log:      logger.WithComponent("asset-store"),
	}
}

// QueryByS3Key returns every asset registered against the given storage key,
// in index order. The index order is not otherwise specified; callers must
// not assume stability across queries.
func (s *AssetStore) QueryByS3Key(ctx context.Context, s3Key string) ([]models.Asset, error) {
	const op = "QueryByS3Key"

	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		IndexName:              aws.String(s.keyIndex),
		KeyConditionExpression: aws.String("#k = :v"),
		ExpressionAttributeNames: map[string]string{
			"#k": "s3Key",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: s3Key},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query assets by s3Key: %w", op, err)
	}

	var assets []models.Asset
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &assets); err != nil {
		return nil, fmt.Errorf("%s: failed to unmarshal assets: %w", op, err)
	}

	s.log.Debug().
		Str("s3_key", s3Key).
		Int("matches", len(assets)).
		Msg("Queried assets by storage key")

	return assets, nil
}
